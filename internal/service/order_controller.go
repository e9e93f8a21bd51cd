package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Lixing-Zhang/lunch-order/internal/models"
	"github.com/Lixing-Zhang/lunch-order/internal/order"
	"github.com/Lixing-Zhang/lunch-order/internal/pricing"
	"github.com/Lixing-Zhang/lunch-order/internal/validation"
	"github.com/Lixing-Zhang/lunch-order/pkg/logger"
)

const (
	MsgOrderSubmitted       = "order submitted successfully"
	MsgConfigurationMissing = "configuration is not loaded"
)

var (
	ErrSubmissionInProgress   = errors.New("an order submission is already in progress")
	ErrConfigurationNotLoaded = errors.New(MsgConfigurationMissing)
	ErrMealNotFound           = errors.New("meal not found")
	ErrAddonNotFound          = errors.New("add-on not found")
)

// ConfigFetcher loads the active restaurant configuration
type ConfigFetcher interface {
	FetchConfiguration(ctx context.Context) (models.Configuration, error)
}

// OrderSubmitter sends a finished order to the backend
type OrderSubmitter interface {
	SubmitOrder(ctx context.Context, o models.Order) (string, error)
}

// State is an immutable snapshot of one ordering form.
// Callers get copies; mutating a snapshot never affects the controller.
type State struct {
	Configuration   *models.Configuration `json:"configuration"`
	IsLoadingConfig bool                  `json:"isLoadingConfig"`
	ConfigError     string                `json:"configError,omitempty"`
	SelectedMeal    *models.MealItem      `json:"selectedMeal"`
	SelectedOptions []string              `json:"selectedOptions"`
	SelectedAddons  []models.AddonItem    `json:"selectedAddons"`
	StudentName     string                `json:"studentName"`
	MealQuantity    int                   `json:"mealQuantity"`
	IsSubmitting    bool                  `json:"isSubmitting"`
	Notification    models.Notification   `json:"notification"`
}

func initialState() State {
	return State{
		SelectedOptions: []string{},
		SelectedAddons:  []models.AddonItem{},
		MealQuantity:    validation.MinQuantity,
	}
}

// clone copies everything a caller could mutate through the snapshot
func (s State) clone() State {
	out := s
	if s.Configuration != nil {
		cfg := s.Configuration.Clone()
		out.Configuration = &cfg
	}
	if s.SelectedMeal != nil {
		meal := s.SelectedMeal.Clone()
		out.SelectedMeal = &meal
	}
	out.SelectedOptions = slices.Clone(s.SelectedOptions)
	if out.SelectedOptions == nil {
		out.SelectedOptions = []string{}
	}
	out.SelectedAddons = slices.Clone(s.SelectedAddons)
	if out.SelectedAddons == nil {
		out.SelectedAddons = []models.AddonItem{}
	}
	return out
}

// TotalAmount is recomputed from the selection on every call
func (s State) TotalAmount() int {
	return pricing.Total(s.SelectedMeal, s.SelectedAddons, s.MealQuantity)
}

// MealSubtotal is the meal price times quantity, 0 with no meal
func (s State) MealSubtotal() int {
	return pricing.MealSubtotal(s.SelectedMeal, s.MealQuantity)
}

// AddonsTotal is the sum of the selected add-on prices
func (s State) AddonsTotal() int {
	return pricing.AddonsTotal(s.SelectedAddons)
}

// CanSubmit reports whether a meal is selected, the name is not blank and
// nothing is in flight
func (s State) CanSubmit() bool {
	return s.SelectedMeal != nil && strings.TrimSpace(s.StudentName) != "" && !s.IsSubmitting
}

// ControllerOption configures an OrderController
type ControllerOption func(*OrderController)

// WithLogger sets the controller logger
func WithLogger(log *slog.Logger) ControllerOption {
	return func(c *OrderController) {
		c.log = logger.WithComponent(log, "order_controller")
	}
}

// WithClock sets the clock used to timestamp orders
func WithClock(now func() time.Time) ControllerOption {
	return func(c *OrderController) {
		c.builder = &order.Builder{Now: now}
	}
}

// OrderController owns the selection state of one ordering session.
// Every action replaces the state wholesale under mu. The lock is released
// while the fetcher or submitter is running.
type OrderController struct {
	fetcher   ConfigFetcher
	submitter OrderSubmitter
	builder   *order.Builder
	log       *slog.Logger

	mu    sync.Mutex
	state State
}

// NewOrderController creates a controller in the uninitialized state
func NewOrderController(fetcher ConfigFetcher, submitter OrderSubmitter, opts ...ControllerOption) *OrderController {
	c := &OrderController{
		fetcher:   fetcher,
		submitter: submitter,
		builder:   order.NewBuilder(),
		log:       logger.WithComponent(nil, "order_controller"),
		state:     initialState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the current state
func (c *OrderController) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// TotalAmount returns the live total for the current selection
func (c *OrderController) TotalAmount() int {
	return c.State().TotalAmount()
}

// CanSubmit reports whether the current state can be submitted
func (c *OrderController) CanSubmit() bool {
	return c.State().CanSubmit()
}

// update applies fn to a copy of the state and stores the copy
func (c *OrderController) update(fn func(s *State)) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.state.clone()
	fn(&next)
	c.state = next
	return next.clone()
}

// LoadConfiguration fetches the configuration. It is safe to call again to retry
// or reload. A failure is stored in ConfigError and also returned.
func (c *OrderController) LoadConfiguration(ctx context.Context) (State, error) {
	c.update(func(s *State) {
		s.IsLoadingConfig = true
		s.ConfigError = ""
	})

	cfg, err := c.fetcher.FetchConfiguration(ctx)
	if err != nil {
		c.log.Error("failed to load configuration", "error", err)
		return c.update(func(s *State) {
			s.IsLoadingConfig = false
			s.ConfigError = err.Error()
		}), err
	}

	c.log.Info("configuration loaded",
		"restaurant", cfg.RestaurantName,
		"meals", len(cfg.Meals),
	)
	cfg = cfg.Clone()
	return c.update(func(s *State) {
		s.IsLoadingConfig = false
		s.Configuration = &cfg
		if s.SelectedMeal == nil {
			return
		}
		// a reload drops a selection whose meal is no longer offered
		meal, ok := cfg.FindMeal(s.SelectedMeal.ID)
		if !ok {
			s.SelectedMeal = nil
			s.SelectedOptions = []string{}
			s.SelectedAddons = []models.AddonItem{}
			return
		}
		meal = meal.Clone()
		s.SelectedMeal = &meal
		s.SelectedOptions = offeredOptions(meal, s.SelectedOptions)
		s.SelectedAddons = offeredAddons(meal, s.SelectedAddons)
	}), nil
}

// offeredOptions keeps the selected labels the meal still offers, at most one per group
func offeredOptions(meal models.MealItem, selected []string) []string {
	kept := []string{}
	for _, group := range meal.OptionGroups {
		for _, option := range selected {
			if slices.Contains(group, option) {
				if !slices.Contains(kept, option) {
					kept = append(kept, option)
				}
				break
			}
		}
	}
	return kept
}

// offeredAddons keeps the selected add-ons the meal still offers, with the meal's current prices
func offeredAddons(meal models.MealItem, selected []models.AddonItem) []models.AddonItem {
	kept := []models.AddonItem{}
	for _, addon := range selected {
		if current, ok := meal.FindAddon(addon.ID); ok {
			kept = append(kept, current)
		}
	}
	return kept
}

// SelectMeal replaces the selected meal and clears options and add-ons.
// A nil meal clears the selection.
func (c *OrderController) SelectMeal(meal *models.MealItem) State {
	return c.update(func(s *State) {
		if meal == nil {
			s.SelectedMeal = nil
		} else {
			m := meal.Clone()
			s.SelectedMeal = &m
		}
		s.SelectedOptions = []string{}
		s.SelectedAddons = []models.AddonItem{}
	})
}

// SelectMealByID selects a meal from the loaded configuration
func (c *OrderController) SelectMealByID(mealID string) (State, error) {
	current := c.State()
	if current.Configuration == nil {
		return current, ErrConfigurationNotLoaded
	}
	meal, ok := current.Configuration.FindMeal(mealID)
	if !ok {
		return current, ErrMealNotFound
	}
	return c.SelectMeal(&meal), nil
}

// ToggleOption selects option within its group, deselecting the other labels
// of that group. Toggling the active option clears the group. It is a no-op
// with no meal selected, an invalid group index, or an option outside the group.
func (c *OrderController) ToggleOption(option string, groupIndex int) State {
	return c.update(func(s *State) {
		if s.SelectedMeal == nil {
			return
		}
		group, ok := s.SelectedMeal.Group(groupIndex)
		if !ok || !slices.Contains(group, option) {
			return
		}
		wasSelected := slices.Contains(s.SelectedOptions, option)
		s.SelectedOptions = slices.DeleteFunc(s.SelectedOptions, func(o string) bool {
			return slices.Contains(group, o)
		})
		if !wasSelected {
			s.SelectedOptions = append(s.SelectedOptions, option)
		}
	})
}

// ToggleAddon adds the add-on when absent and removes it (by ID) when present.
// The add-on is matched against the selected meal and takes the meal's price.
// It is a no-op with no meal selected or an add-on the meal does not offer.
func (c *OrderController) ToggleAddon(addon models.AddonItem) State {
	return c.update(func(s *State) {
		if s.SelectedMeal == nil {
			return
		}
		offered, ok := s.SelectedMeal.FindAddon(addon.ID)
		if !ok {
			return
		}
		s.SelectedAddons = pricing.ToggleAddon(offered, s.SelectedAddons)
	})
}

// ToggleAddonByID toggles an add-on offered by the selected meal
func (c *OrderController) ToggleAddonByID(addonID string) (State, error) {
	current := c.State()
	if current.SelectedMeal == nil {
		return current, validation.ErrMealRequired
	}
	addon, ok := current.SelectedMeal.FindAddon(addonID)
	if !ok {
		return current, ErrAddonNotFound
	}
	return c.ToggleAddon(addon), nil
}

// SetStudentName stores the name as typed; trimming happens at submit time
func (c *OrderController) SetStudentName(name string) State {
	return c.update(func(s *State) {
		s.StudentName = name
	})
}

// IncrementQuantity raises the quantity, saturating at the maximum
func (c *OrderController) IncrementQuantity() State {
	return c.update(func(s *State) {
		s.MealQuantity = validation.Increment(s.MealQuantity)
	})
}

// DecrementQuantity lowers the quantity, saturating at the minimum
func (c *OrderController) DecrementQuantity() State {
	return c.update(func(s *State) {
		s.MealQuantity = validation.Decrement(s.MealQuantity)
	})
}

// SetQuantity stores q normalized into the allowed range
func (c *OrderController) SetQuantity(q interface{}) State {
	n := validation.NormalizeQuantity(q)
	return c.update(func(s *State) {
		s.MealQuantity = n
	})
}

// ClearNotification dismisses the current notification
func (c *OrderController) ClearNotification() State {
	return c.update(func(s *State) {
		s.Notification = models.Notification{}
	})
}

// ResetForm clears the selection and name and resets the quantity.
// Configuration and loading flags are left alone.
func (c *OrderController) ResetForm() State {
	return c.update(resetSelection)
}

func resetSelection(s *State) {
	s.SelectedMeal = nil
	s.SelectedOptions = []string{}
	s.SelectedAddons = []models.AddonItem{}
	s.StudentName = ""
	s.MealQuantity = validation.MinQuantity
}

func notifyError(s *State, message string) {
	s.Notification = models.Notification{Type: models.NotificationError, Message: message}
}

// HandleSubmitOrder validates and submits the current selection.
//
// A validation failure sets an error notification and returns the validation
// error without contacting the backend. On a backend failure the selection is
// kept and the error is returned. A call made while another submission is in
// flight returns ErrSubmissionInProgress and leaves the state untouched.
func (c *OrderController) HandleSubmitOrder(ctx context.Context) (State, error) {
	c.mu.Lock()
	if c.state.IsSubmitting {
		snapshot := c.state.clone()
		c.mu.Unlock()
		return snapshot, ErrSubmissionInProgress
	}

	next := c.state.clone()
	if err := validation.ValidateOrder(next.StudentName, next.SelectedMeal); err != nil {
		notifyError(&next, err.Error())
		c.state = next
		c.mu.Unlock()
		return next.clone(), err
	}
	if next.Configuration == nil {
		notifyError(&next, MsgConfigurationMissing)
		c.state = next
		c.mu.Unlock()
		return next.clone(), ErrConfigurationNotLoaded
	}

	next.IsSubmitting = true
	next.Notification = models.Notification{}
	o := c.builder.Build(
		next.Configuration.RestaurantName,
		next.StudentName,
		*next.SelectedMeal,
		next.SelectedOptions,
		next.SelectedAddons,
		next.MealQuantity,
		next.TotalAmount(),
	)
	c.state = next
	c.mu.Unlock()

	message, err := c.submitter.SubmitOrder(ctx, o)
	if err != nil {
		c.log.Error("order submission failed",
			"student", o.StudentName,
			"meal_id", o.MealID,
			"error", err,
		)
		return c.update(func(s *State) {
			s.IsSubmitting = false
			notifyError(s, err.Error())
		}), err
	}

	c.log.Info("order submitted",
		"restaurant", o.RestaurantName,
		"meal_id", o.MealID,
		"quantity", o.MealQuantity,
		"total", o.TotalAmount,
		"backend_message", message,
	)
	return c.update(func(s *State) {
		s.IsSubmitting = false
		s.Notification = models.Notification{Type: models.NotificationSuccess, Message: MsgOrderSubmitted}
		resetSelection(s)
	}), nil
}
