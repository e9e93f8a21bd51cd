// Package pricing computes meal subtotals and order totals.
// All amounts are integers in the smallest currency unit.
package pricing

import (
	"strconv"

	"github.com/Lixing-Zhang/lunch-order/internal/models"
)

// CurrencyPrefix is prepended to every formatted amount
const CurrencyPrefix = "NT$ "

// MealSubtotal returns price × quantity, or 0 when no meal is selected
func MealSubtotal(meal *models.MealItem, quantity int) int {
	if meal == nil {
		return 0
	}
	return meal.Price * quantity
}

// AddonsTotal sums the add-on prices. It does not depend on the meal quantity.
func AddonsTotal(addons []models.AddonItem) int {
	total := 0
	for _, a := range addons {
		total += a.Price
	}
	return total
}

// Total returns MealSubtotal + AddonsTotal. Quantity is optional and defaults to 1.
// With no meal the total is 0 whatever add-ons are passed.
func Total(meal *models.MealItem, addons []models.AddonItem, quantity ...int) int {
	if meal == nil {
		return 0
	}
	q := 1
	if len(quantity) > 0 {
		q = quantity[0]
	}
	return MealSubtotal(meal, q) + AddonsTotal(addons)
}

// FormatCurrency renders an amount as "NT$ <amount>" with no separators
func FormatCurrency(amount int) string {
	return CurrencyPrefix + strconv.Itoa(amount)
}

// IsAddonSelected reports whether an add-on with the same ID is in selected
func IsAddonSelected(addon models.AddonItem, selected []models.AddonItem) bool {
	for _, s := range selected {
		if s.ID == addon.ID {
			return true
		}
	}
	return false
}

// ToggleAddon removes the add-on (by ID) when present, otherwise appends it.
// The input slice is never modified.
func ToggleAddon(addon models.AddonItem, selected []models.AddonItem) []models.AddonItem {
	out := make([]models.AddonItem, 0, len(selected)+1)
	if IsAddonSelected(addon, selected) {
		for _, s := range selected {
			if s.ID != addon.ID {
				out = append(out, s)
			}
		}
		return out
	}
	out = append(out, selected...)
	return append(out, addon)
}

// IsOptionSelected reports whether option is in selected
func IsOptionSelected(option string, selected []string) bool {
	for _, s := range selected {
		if s == option {
			return true
		}
	}
	return false
}

// ToggleOption removes option when present, otherwise appends it.
// It ignores option groups; group exclusivity is enforced by the order controller.
func ToggleOption(option string, selected []string) []string {
	out := make([]string, 0, len(selected)+1)
	if IsOptionSelected(option, selected) {
		for _, s := range selected {
			if s != option {
				out = append(out, s)
			}
		}
		return out
	}
	out = append(out, selected...)
	return append(out, option)
}
