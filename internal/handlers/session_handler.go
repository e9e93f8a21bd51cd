package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/lunch-order/internal/pricing"
	"github.com/Lixing-Zhang/lunch-order/internal/repository"
	"github.com/Lixing-Zhang/lunch-order/internal/service"
	"github.com/Lixing-Zhang/lunch-order/internal/validation"
	"github.com/go-chi/chi/v5"
)

// ControllerFactory creates the controller behind a new ordering session
type ControllerFactory func() *service.OrderController

// SessionView is the JSON shape of an ordering session
type SessionView struct {
	SessionID      string        `json:"sessionId"`
	State          service.State `json:"state"`
	TotalAmount    int           `json:"totalAmount"`
	TotalFormatted string        `json:"totalFormatted"`
	MealSubtotal   int           `json:"mealSubtotal"`
	AddonsTotal    int           `json:"addonsTotal"`
	CanSubmit      bool          `json:"canSubmit"`
}

func newSessionView(id string, s service.State) SessionView {
	total := s.TotalAmount()
	return SessionView{
		SessionID:      id,
		State:          s,
		TotalAmount:    total,
		TotalFormatted: pricing.FormatCurrency(total),
		MealSubtotal:   s.MealSubtotal(),
		AddonsTotal:    s.AddonsTotal(),
		CanSubmit:      s.CanSubmit(),
	}
}

// SessionHandler exposes the order state controller over HTTP
type SessionHandler struct {
	repo          repository.SessionRepository
	newController ControllerFactory
	log           *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(repo repository.SessionRepository, newController ControllerFactory, log *slog.Logger) *SessionHandler {
	return &SessionHandler{
		repo:          repo,
		newController: newController,
		log:           log,
	}
}

// Routes registers the session endpoints on r
func (h *SessionHandler) Routes(r chi.Router) {
	r.Post("/", h.CreateSession)
	r.Route("/{sessionID}", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Delete("/", h.DeleteSession)
		r.Post("/config/reload", h.ReloadConfiguration)
		r.Put("/meal", h.SelectMeal)
		r.Post("/options", h.ToggleOption)
		r.Post("/addons/{addonID}", h.ToggleAddon)
		r.Put("/name", h.SetStudentName)
		r.Put("/quantity", h.SetQuantity)
		r.Post("/quantity/increment", h.IncrementQuantity)
		r.Post("/quantity/decrement", h.DecrementQuantity)
		r.Post("/submit", h.SubmitOrder)
		r.Delete("/notification", h.ClearNotification)
		r.Post("/reset", h.ResetForm)
	})
}

// controller resolves {sessionID}; it writes the error response itself
func (h *SessionHandler) controller(w http.ResponseWriter, r *http.Request) (string, *service.OrderController, bool) {
	id := chi.URLParam(r, "sessionID")
	c, err := h.repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			WriteError(w, http.StatusNotFound, "Session not found", h.log)
		} else {
			h.log.Error("failed to load session", "session_id", id, "error", err)
			WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		}
		return "", nil, false
	}
	return id, c, true
}

// CreateSession handles POST /api/sessions.
// The configuration is loaded right away; a load failure is reported in
// state.configError and can be retried through config/reload.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	c := h.newController()
	id, err := h.repo.Create(r.Context(), c)
	if err != nil {
		h.log.Error("failed to create session", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	state, err := c.LoadConfiguration(r.Context())
	if err != nil {
		h.log.Warn("session created without configuration", "session_id", id, "error", err)
	}

	WriteJSON(w, http.StatusCreated, newSessionView(id, state), h.log)
	h.log.Info("session created", "session_id", id)
}

// GetSession handles GET /api/sessions/{sessionID}
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, c, ok := h.controller(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, newSessionView(id, c.State()), h.log)
}

// DeleteSession handles DELETE /api/sessions/{sessionID}
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			WriteError(w, http.StatusNotFound, "Session not found", h.log)
			return
		}
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReloadConfiguration handles POST /api/sessions/{sessionID}/config/reload
func (h *SessionHandler) ReloadConfiguration(w http.ResponseWriter, r *http.Request) {
	id, c, ok := h.controller(w, r)
	if !ok {
		return
	}
	state, err := c.LoadConfiguration(r.Context())
	status := http.StatusOK
	if err != nil {
		status = http.StatusBadGateway
	}
	WriteJSON(w, status, newSessionView(id, state), h.log)
}

type selectMealRequest struct {
	MealID string `json:"mealId"`
}

// SelectMeal handles PUT /api/sessions/{sessionID}/meal. An empty mealId clears the selection.
func (h *SessionHandler) SelectMeal(w http.ResponseWriter, r *http.Request) {
	id, c, ok := h.controller(w, r)
	if !ok {
		return
	}

	var req selectMealRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.log)
		return
	}

	if req.MealID == "" {
		WriteJSON(w, http.StatusOK, newSessionView(id, c.SelectMeal(nil)), h.log)
		return
	}

	state, err := c.SelectMealByID(req.MealID)
	switch {
	case err == nil:
		WriteJSON(w, http.StatusOK, newSessionView(id, state), h.log)
	case errors.Is(err, service.ErrMealNotFound):
		WriteError(w, http.StatusNotFound, "Meal not found", h.log)
	case errors.Is(err, service.ErrConfigurationNotLoaded):
		WriteError(w, http.StatusConflict, err.Error(), h.log)
	default:
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
	}
}

type toggleOptionRequest struct {
	Option     string `json:"option"`
	GroupIndex int    `json:"groupIndex"`
}

// ToggleOption handles POST /api/sessions/{sessionID}/options
func (h *SessionHandler) ToggleOption(w http.ResponseWriter, r *http.Request) {
	id, c, ok := h.controller(w, r)
	if !ok {
		return
	}

	var req toggleOptionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.log)
		return
	}

	WriteJSON(w, http.StatusOK, newSessionView(id, c.ToggleOption(req.Option, req.GroupIndex)), h.log)
}

// ToggleAddon handles POST /api/sessions/{sessionID}/addons/{addonID}
func (h *SessionHandler) ToggleAddon(w http.ResponseWriter, r *http.Request) {
	id, c, ok := h.controller(w, r)
	if !ok {
		return
	}

	state, err := c.ToggleAddonByID(chi.URLParam(r, "addonID"))
	switch {
	case err == nil:
		WriteJSON(w, http.StatusOK, newSessionView(id, state), h.log)
	case errors.Is(err, service.ErrAddonNotFound):
		WriteError(w, http.StatusNotFound, "Add-on not found", h.log)
	case errors.Is(err, validation.ErrMealRequired):
		WriteError(w, http.StatusConflict, err.Error(), h.log)
	default:
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
	}
}

type studentNameRequest struct {
	StudentName string `json:"studentName"`
}

// SetStudentName handles PUT /api/sessions/{sessionID}/name
func (h *SessionHandler) SetStudentName(w http.ResponseWriter, r *http.Request) {
	id, c, ok := h.controller(w, r)
	if !ok {
		return
	}

	var req studentNameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.log)
		return
	}

	WriteJSON(w, http.StatusOK, newSessionView(id, c.SetStudentName(req.StudentName)), h.log)
}

type quantityRequest struct {
	Quantity interface{} `json:"quantity"`
}

// SetQuantity handles PUT /api/sessions/{sessionID}/quantity.
// Any value is accepted and normalized into the allowed range.
func (h *SessionHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	id, c, ok := h.controller(w, r)
	if !ok {
		return
	}

	var req quantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.log)
		return
	}
	if err := validation.ValidateQuantity(req.Quantity); err != nil {
		h.log.Debug("quantity normalized", "session_id", id, "input", req.Quantity, "reason", err)
	}

	WriteJSON(w, http.StatusOK, newSessionView(id, c.SetQuantity(req.Quantity)), h.log)
}

// IncrementQuantity handles POST /api/sessions/{sessionID}/quantity/increment
func (h *SessionHandler) IncrementQuantity(w http.ResponseWriter, r *http.Request) {
	id, c, ok := h.controller(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, newSessionView(id, c.IncrementQuantity()), h.log)
}

// DecrementQuantity handles POST /api/sessions/{sessionID}/quantity/decrement
func (h *SessionHandler) DecrementQuantity(w http.ResponseWriter, r *http.Request) {
	id, c, ok := h.controller(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, newSessionView(id, c.DecrementQuantity()), h.log)
}

// SubmitOrder handles POST /api/sessions/{sessionID}/submit.
// The body is always the session view so the notification can be shown.
func (h *SessionHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	id, c, ok := h.controller(w, r)
	if !ok {
		return
	}

	state, err := c.HandleSubmitOrder(r.Context())
	status := http.StatusOK
	switch {
	case err == nil:
	case errors.Is(err, service.ErrSubmissionInProgress):
		status = http.StatusConflict
	case errors.Is(err, validation.ErrNameRequired),
		errors.Is(err, validation.ErrNameWhitespace),
		errors.Is(err, validation.ErrMealRequired),
		errors.Is(err, service.ErrConfigurationNotLoaded):
		status = http.StatusUnprocessableEntity
	default:
		status = http.StatusBadGateway
	}

	WriteJSON(w, status, newSessionView(id, state), h.log)
}

// ClearNotification handles DELETE /api/sessions/{sessionID}/notification
func (h *SessionHandler) ClearNotification(w http.ResponseWriter, r *http.Request) {
	id, c, ok := h.controller(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, newSessionView(id, c.ClearNotification()), h.log)
}

// ResetForm handles POST /api/sessions/{sessionID}/reset
func (h *SessionHandler) ResetForm(w http.ResponseWriter, r *http.Request) {
	id, c, ok := h.controller(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, newSessionView(id, c.ResetForm()), h.log)
}
