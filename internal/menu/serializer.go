package menu

import (
	"encoding/json"
	"fmt"

	"github.com/Lixing-Zhang/lunch-order/internal/models"
)

// SerializeOptionGroups encodes option groups the way the backend stores them
// in a single sheet cell. A nil slice encodes as "[]".
func SerializeOptionGroups(groups [][]string) (string, error) {
	if groups == nil {
		groups = [][]string{}
	}
	b, err := json.Marshal(groups)
	if err != nil {
		return "", fmt.Errorf("failed to encode option groups: %w", err)
	}
	return string(b), nil
}

// DeserializeOptionGroups decodes a cell written by SerializeOptionGroups
func DeserializeOptionGroups(s string) ([][]string, error) {
	groups := [][]string{}
	if err := json.Unmarshal([]byte(s), &groups); err != nil {
		return nil, fmt.Errorf("failed to decode option groups: %w", err)
	}
	return groups, nil
}

// SerializeAddons encodes add-ons as a JSON array of {name, price}
func SerializeAddons(addons []models.AddonData) (string, error) {
	if addons == nil {
		addons = []models.AddonData{}
	}
	b, err := json.Marshal(addons)
	if err != nil {
		return "", fmt.Errorf("failed to encode addons: %w", err)
	}
	return string(b), nil
}

// DeserializeAddons decodes a cell written by SerializeAddons
func DeserializeAddons(s string) ([]models.AddonData, error) {
	addons := []models.AddonData{}
	if err := json.Unmarshal([]byte(s), &addons); err != nil {
		return nil, fmt.Errorf("failed to decode addons: %w", err)
	}
	return addons, nil
}
