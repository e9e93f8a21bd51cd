package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Lixing-Zhang/lunch-order/internal/auth"
	"github.com/Lixing-Zhang/lunch-order/internal/menu"
	"github.com/Lixing-Zhang/lunch-order/internal/models"
	"github.com/Lixing-Zhang/lunch-order/pkg/logger"
)

var (
	ErrRestaurantNameRequired = errors.New("restaurant name is required")
	ErrMenuJSONRequired       = errors.New("menu JSON is required")
)

// MenuBackend is the admin side of the spreadsheet backend
type MenuBackend interface {
	ImportMenuData(ctx context.Context, data models.ImportMenuData) (models.ImportResult, error)
	ListRestaurants(ctx context.Context) ([]models.Restaurant, error)
	ToggleRestaurant(ctx context.Context, restaurantName string) error
}

// AdminService runs menu maintenance on behalf of an authenticated admin.
// Every backend operation takes the admin session explicitly.
type AdminService struct {
	backend MenuBackend
	log     *slog.Logger
	now     func() time.Time
}

// NewAdminService creates an admin service
func NewAdminService(backend MenuBackend, log *slog.Logger) *AdminService {
	return &AdminService{
		backend: backend,
		log:     logger.WithComponent(log, "admin_service"),
		now:     time.Now,
	}
}

func (s *AdminService) authorize(session auth.Session) error {
	if !session.Valid(s.now()) {
		return auth.ErrUnauthenticated
	}
	return nil
}

// ValidateMenu checks menu JSON without importing it
func (s *AdminService) ValidateMenu(menuJSON string) menu.Result {
	return menu.ValidateMenuData(menuJSON)
}

// ImportMenu validates menuJSON and sends it to the backend as the menu of
// restaurantName. Nothing reaches the backend unless validation passes; the
// returned error then wraps menu.ErrInvalidMenu and every ValidationError.
func (s *AdminService) ImportMenu(
	ctx context.Context,
	session auth.Session,
	restaurantName, menuImageURL, menuJSON string,
) (models.ImportResult, error) {
	if err := s.authorize(session); err != nil {
		return models.ImportResult{}, err
	}

	restaurantName = strings.TrimSpace(restaurantName)
	if restaurantName == "" {
		return models.ImportResult{}, ErrRestaurantNameRequired
	}
	if strings.TrimSpace(menuJSON) == "" {
		return models.ImportResult{}, ErrMenuJSONRequired
	}

	meals, err := menu.Decode(menuJSON)
	if err != nil {
		return models.ImportResult{}, err
	}

	result, err := s.backend.ImportMenuData(ctx, models.ImportMenuData{
		RestaurantName: restaurantName,
		MenuImageURL:   strings.TrimSpace(menuImageURL),
		Meals:          meals,
	})
	if err != nil {
		s.log.Error("menu import failed",
			"session_id", session.ID,
			"restaurant", restaurantName,
			"error", err,
		)
		return models.ImportResult{}, err
	}

	s.log.Info("menu imported",
		"session_id", session.ID,
		"restaurant", result.RestaurantName,
		"meals", result.MealsImported,
		"addons", result.AddonsImported,
	)
	return result, nil
}

// ListRestaurants returns every restaurant known to the backend
func (s *AdminService) ListRestaurants(ctx context.Context, session auth.Session) ([]models.Restaurant, error) {
	if err := s.authorize(session); err != nil {
		return nil, err
	}
	return s.backend.ListRestaurants(ctx)
}

// ToggleRestaurant enables restaurantName and disables the others
func (s *AdminService) ToggleRestaurant(ctx context.Context, session auth.Session, restaurantName string) error {
	if err := s.authorize(session); err != nil {
		return err
	}
	restaurantName = strings.TrimSpace(restaurantName)
	if restaurantName == "" {
		return ErrRestaurantNameRequired
	}
	if err := s.backend.ToggleRestaurant(ctx, restaurantName); err != nil {
		return err
	}
	s.log.Info("restaurant toggled", "session_id", session.ID, "restaurant", restaurantName)
	return nil
}
