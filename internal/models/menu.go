package models

import "slices"

// AddonItem is an optional extra with its own price.
// Two add-ons with the same ID are the same selectable item.
type AddonItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// MealItem is a meal offered by the active restaurant.
// Price is in the smallest currency unit.
type MealItem struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Price        int         `json:"price"`
	ImageURL     string      `json:"imageUrl,omitempty"`
	OptionGroups [][]string  `json:"optionGroups"`
	Addons       []AddonItem `json:"addons"`
}

// FindAddon returns the add-on offered for this meal with the given ID
func (m MealItem) FindAddon(id string) (AddonItem, bool) {
	for _, a := range m.Addons {
		if a.ID == id {
			return a, true
		}
	}
	return AddonItem{}, false
}

// Clone returns a deep copy that shares no slices with m
func (m MealItem) Clone() MealItem {
	out := m
	if m.OptionGroups != nil {
		out.OptionGroups = make([][]string, len(m.OptionGroups))
		for i, group := range m.OptionGroups {
			out.OptionGroups[i] = slices.Clone(group)
		}
	}
	out.Addons = slices.Clone(m.Addons)
	return out
}

// Group returns the option group at index, or false when out of range
func (m MealItem) Group(index int) ([]string, bool) {
	if index < 0 || index >= len(m.OptionGroups) {
		return nil, false
	}
	return m.OptionGroups[index], true
}

// Configuration is the restaurant and menu loaded once per ordering session
type Configuration struct {
	RestaurantName string     `json:"restaurantName"`
	MenuImageURL   string     `json:"menuImageUrl"`
	Meals          []MealItem `json:"meals"`
}

// Clone returns a deep copy of the configuration
func (c Configuration) Clone() Configuration {
	out := c
	if c.Meals != nil {
		out.Meals = make([]MealItem, len(c.Meals))
		for i, m := range c.Meals {
			out.Meals[i] = m.Clone()
		}
	}
	return out
}

// FindMeal looks up a meal by ID
func (c Configuration) FindMeal(id string) (MealItem, bool) {
	for _, m := range c.Meals {
		if m.ID == id {
			return m, true
		}
	}
	return MealItem{}, false
}

// AddonData is an add-on as written in importable menu JSON (no ID yet)
type AddonData struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// MealData is a meal as written in importable menu JSON
type MealData struct {
	Name         string      `json:"name"`
	Price        int         `json:"price"`
	ImageURL     string      `json:"imageUrl,omitempty"`
	OptionGroups [][]string  `json:"optionGroups"`
	Addons       []AddonData `json:"addons"`
}

// ImportMenuData is the payload of a menu import
type ImportMenuData struct {
	RestaurantName string     `json:"restaurantName"`
	MenuImageURL   string     `json:"menuImageUrl"`
	Meals          []MealData `json:"meals"`
}

// ImportResult reports what the backend stored for an import
type ImportResult struct {
	RestaurantName string `json:"restaurantName"`
	MealsImported  int    `json:"mealsImported"`
	AddonsImported int    `json:"addonsImported"`
}

// Restaurant is a row of the backend's restaurant sheet.
// At most one restaurant is enabled at a time.
type Restaurant struct {
	Name         string `json:"name"`
	MenuImageURL string `json:"menuImageUrl"`
	Enabled      bool   `json:"enabled"`
}
