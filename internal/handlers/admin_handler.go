package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Lixing-Zhang/lunch-order/internal/auth"
	"github.com/Lixing-Zhang/lunch-order/internal/menu"
	"github.com/Lixing-Zhang/lunch-order/internal/service"
	"github.com/go-chi/chi/v5"
)

// Authenticator checks the admin password
type Authenticator interface {
	Login(password string) (string, auth.Session, error)
}

// AdminHandler serves the menu import and restaurant management endpoints
type AdminHandler struct {
	authenticator Authenticator
	adminService  *service.AdminService
	qr            service.QRGenerator
	log           *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(authenticator Authenticator, adminService *service.AdminService, qr service.QRGenerator, log *slog.Logger) *AdminHandler {
	return &AdminHandler{
		authenticator: authenticator,
		adminService:  adminService,
		qr:            qr,
		log:           log,
	}
}

// Routes registers the admin endpoints on r. Everything except login goes
// through requireAdmin.
func (h *AdminHandler) Routes(r chi.Router, requireAdmin func(http.Handler) http.Handler) {
	r.Post("/login", h.Login)
	r.Group(func(r chi.Router) {
		r.Use(requireAdmin)
		r.Post("/menu/validate", h.ValidateMenu)
		r.Post("/menu/import", h.ImportMenu)
		r.Get("/restaurants", h.ListRestaurants)
		r.Post("/restaurants/{name}/toggle", h.ToggleRestaurant)
		r.Get("/qrcode", h.QRCode)
	})
}

type loginRequest struct {
	Password string `json:"password"`
}

// LoginResponse carries the bearer token for the admin routes
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Login handles POST /api/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.log)
		return
	}

	token, session, err := h.authenticator.Login(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidPassword) {
			h.log.Warn("admin login rejected", "remote_addr", r.RemoteAddr)
			WriteError(w, http.StatusUnauthorized, err.Error(), h.log)
			return
		}
		h.log.Error("admin login failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	h.log.Info("admin logged in", "session_id", session.ID)
	WriteJSON(w, http.StatusOK, LoginResponse{Token: token, ExpiresAt: session.ExpiresAt}, h.log)
}

// session returns the admin session placed by the auth middleware
func (h *AdminHandler) session(w http.ResponseWriter, r *http.Request) (auth.Session, bool) {
	s, ok := auth.SessionFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, auth.ErrUnauthenticated.Error(), h.log)
	}
	return s, ok
}

type menuRequest struct {
	RestaurantName string `json:"restaurantName"`
	MenuImageURL   string `json:"menuImageUrl"`
	MenuJSON       string `json:"menuJson"`
}

// ValidateMenu handles POST /api/admin/menu/validate.
// It always answers 200; the body says whether the menu is valid.
func (h *AdminHandler) ValidateMenu(w http.ResponseWriter, r *http.Request) {
	var req menuRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.log)
		return
	}
	WriteJSON(w, http.StatusOK, h.adminService.ValidateMenu(req.MenuJSON), h.log)
}

// ImportMenu handles POST /api/admin/menu/import
func (h *AdminHandler) ImportMenu(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req menuRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.log)
		return
	}

	result, err := h.adminService.ImportMenu(r.Context(), session, req.RestaurantName, req.MenuImageURL, req.MenuJSON)
	switch {
	case err == nil:
		WriteJSON(w, http.StatusOK, result, h.log)
	case errors.Is(err, auth.ErrUnauthenticated):
		WriteError(w, http.StatusUnauthorized, err.Error(), h.log)
	case errors.Is(err, service.ErrRestaurantNameRequired), errors.Is(err, service.ErrMenuJSONRequired):
		WriteError(w, http.StatusBadRequest, err.Error(), h.log)
	case errors.Is(err, menu.ErrInvalidMenu):
		if validation := menu.ValidateMenuData(req.MenuJSON); !validation.IsValid {
			WriteJSON(w, http.StatusUnprocessableEntity, validation, h.log)
			return
		}
		WriteError(w, http.StatusUnprocessableEntity, err.Error(), h.log)
	default:
		WriteError(w, http.StatusBadGateway, err.Error(), h.log)
	}
}

// ListRestaurants handles GET /api/admin/restaurants
func (h *AdminHandler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	restaurants, err := h.adminService.ListRestaurants(r.Context(), session)
	if err != nil {
		h.log.Error("failed to list restaurants", "error", err)
		WriteError(w, http.StatusBadGateway, err.Error(), h.log)
		return
	}
	WriteJSON(w, http.StatusOK, restaurants, h.log)
}

// ToggleRestaurant handles POST /api/admin/restaurants/{name}/toggle
func (h *AdminHandler) ToggleRestaurant(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	name := chi.URLParam(r, "name")
	err := h.adminService.ToggleRestaurant(r.Context(), session, name)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, service.ErrRestaurantNameRequired):
		WriteError(w, http.StatusBadRequest, err.Error(), h.log)
	default:
		h.log.Error("failed to toggle restaurant", "restaurant", name, "error", err)
		WriteError(w, http.StatusBadGateway, err.Error(), h.log)
	}
}

// QRCode handles GET /api/admin/qrcode?size=N and returns a PNG linking to the form
func (h *AdminHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.session(w, r); !ok {
		return
	}

	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	png, err := h.qr.Generate(size)
	if err != nil {
		if errors.Is(err, service.ErrPublicURLMissing) {
			WriteError(w, http.StatusNotFound, err.Error(), h.log)
			return
		}
		h.log.Error("failed to generate QR code", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		h.log.Error("failed to write QR code", "error", err)
	}
}
