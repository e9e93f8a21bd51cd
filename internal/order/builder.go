// Package order assembles the order payload submitted to the backend.
package order

import (
	"slices"
	"strings"
	"time"

	"github.com/Lixing-Zhang/lunch-order/internal/models"
	"github.com/Lixing-Zhang/lunch-order/internal/pricing"
)

// Builder creates orders. Now is the clock used for timestamps; nil means time.Now.
type Builder struct {
	Now func() time.Time
}

// NewBuilder returns a Builder using the wall clock
func NewBuilder() *Builder {
	return &Builder{Now: time.Now}
}

// Build assembles an order from the current selection.
// totalAmount is stored as given; callers compute it with pricing.Total so that
// it equals MealSubtotal + AddonsTotal. The selections are copied so the order
// does not alias caller state.
func (b *Builder) Build(
	restaurantName string,
	studentName string,
	meal models.MealItem,
	selectedOptions []string,
	selectedAddons []models.AddonItem,
	mealQuantity int,
	totalAmount int,
) models.Order {
	now := time.Now
	if b != nil && b.Now != nil {
		now = b.Now
	}

	options := slices.Clone(selectedOptions)
	if options == nil {
		options = []string{}
	}
	addons := slices.Clone(selectedAddons)
	if addons == nil {
		addons = []models.AddonItem{}
	}

	return models.Order{
		RestaurantName:  restaurantName,
		StudentName:     strings.TrimSpace(studentName),
		MealID:          meal.ID,
		MealName:        meal.Name,
		MealPrice:       meal.Price,
		MealQuantity:    mealQuantity,
		MealSubtotal:    pricing.MealSubtotal(&meal, mealQuantity),
		SelectedOptions: options,
		SelectedAddons:  addons,
		AddonsTotal:     pricing.AddonsTotal(selectedAddons),
		TotalAmount:     totalAmount,
		Timestamp:       FormatTaipeiDateTime(now()),
	}
}

// BuildOrderData builds an order stamped with the current time
func BuildOrderData(
	restaurantName string,
	studentName string,
	meal models.MealItem,
	selectedOptions []string,
	selectedAddons []models.AddonItem,
	mealQuantity int,
	totalAmount int,
) models.Order {
	return NewBuilder().Build(restaurantName, studentName, meal, selectedOptions, selectedAddons, mealQuantity, totalAmount)
}
