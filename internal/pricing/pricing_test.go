package pricing

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/Lixing-Zhang/lunch-order/internal/models"
)

func meal(price int) *models.MealItem {
	return &models.MealItem{ID: "m1", Name: "Chicken Rice", Price: price}
}

func randomAddons(r *rand.Rand) []models.AddonItem {
	n := r.Intn(6)
	addons := make([]models.AddonItem, n)
	for i := range addons {
		addons[i] = models.AddonItem{ID: "a" + strconv.Itoa(i), Name: "extra", Price: r.Intn(200)}
	}
	return addons
}

func TestMealSubtotal(t *testing.T) {
	tests := []struct {
		name     string
		meal     *models.MealItem
		quantity int
		want     int
	}{
		{"no meal", nil, 3, 0},
		{"single", meal(80), 1, 80},
		{"multiple", meal(80), 3, 240},
		{"free meal", meal(0), 5, 0},
		{"max quantity", meal(120), 99, 11880},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MealSubtotal(tt.meal, tt.quantity); got != tt.want {
				t.Errorf("MealSubtotal() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAddonsTotal(t *testing.T) {
	if got := AddonsTotal(nil); got != 0 {
		t.Errorf("AddonsTotal(nil) = %d, want 0", got)
	}

	addons := []models.AddonItem{
		{ID: "a1", Name: "Egg", Price: 10},
		{ID: "a2", Name: "Tofu", Price: 15},
	}
	if got := AddonsTotal(addons); got != 25 {
		t.Errorf("AddonsTotal() = %d, want 25", got)
	}
}

func TestTotal(t *testing.T) {
	addons := []models.AddonItem{
		{ID: "a1", Name: "Egg", Price: 10},
		{ID: "a2", Name: "Tofu", Price: 15},
	}

	t.Run("end to end example", func(t *testing.T) {
		m := meal(80)
		if got := Total(m, addons, 3); got != 265 {
			t.Errorf("Total() = %d, want 265", got)
		}
		if got := MealSubtotal(m, 3); got != 240 {
			t.Errorf("MealSubtotal() = %d, want 240", got)
		}
		if got := AddonsTotal(addons); got != 25 {
			t.Errorf("AddonsTotal() = %d, want 25", got)
		}
	})

	t.Run("quantity defaults to one", func(t *testing.T) {
		if got := Total(meal(80), addons); got != 105 {
			t.Errorf("Total() = %d, want 105", got)
		}
	})

	t.Run("no meal ignores addons", func(t *testing.T) {
		if got := Total(nil, addons, 4); got != 0 {
			t.Errorf("Total(nil) = %d, want 0", got)
		}
	})
}

func TestTotal_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		m := meal(r.Intn(1000))
		q := 1 + r.Intn(99)
		addons := randomAddons(r)

		if got, want := MealSubtotal(m, q), m.Price*q; got != want {
			t.Fatalf("MealSubtotal(%d, %d) = %d, want %d", m.Price, q, got, want)
		}
		if got, want := Total(m, addons, q), MealSubtotal(m, q)+AddonsTotal(addons); got != want {
			t.Fatalf("Total = %d, want %d", got, want)
		}
		if got := Total(nil, addons, q); got != 0 {
			t.Fatalf("Total(nil) = %d, want 0", got)
		}

		// add-ons total does not move with the meal or the quantity
		before := AddonsTotal(addons)
		_ = Total(meal(r.Intn(1000)), addons, 1+r.Intn(99))
		if after := AddonsTotal(addons); after != before {
			t.Fatalf("AddonsTotal changed from %d to %d", before, after)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount int
		want   string
	}{
		{0, "NT$ 0"},
		{80, "NT$ 80"},
		{1234567, "NT$ 1234567"},
	}

	for _, tt := range tests {
		if got := FormatCurrency(tt.amount); got != tt.want {
			t.Errorf("FormatCurrency(%d) = %q, want %q", tt.amount, got, tt.want)
		}
	}

	r := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		n := r.Intn(1_000_000)
		if got := FormatCurrency(n); got != "NT$ "+strconv.Itoa(n) {
			t.Fatalf("FormatCurrency(%d) = %q", n, got)
		}
	}
}

func TestToggleAddon(t *testing.T) {
	egg := models.AddonItem{ID: "a1", Name: "Egg", Price: 10}
	tofu := models.AddonItem{ID: "a2", Name: "Tofu", Price: 15}

	selected := ToggleAddon(egg, nil)
	selected = ToggleAddon(tofu, selected)
	if len(selected) != 2 {
		t.Fatalf("expected 2 addons selected, got %d", len(selected))
	}

	// same ID, different name: still the same add-on
	renamed := models.AddonItem{ID: "a1", Name: "Fried egg", Price: 10}
	after := ToggleAddon(renamed, selected)
	if len(after) != 1 || after[0].ID != "a2" {
		t.Errorf("expected only a2 left, got %+v", after)
	}
	if len(selected) != 2 {
		t.Error("ToggleAddon modified its input")
	}
	if IsAddonSelected(egg, after) {
		t.Error("egg should no longer be selected")
	}
}

func TestToggleOption(t *testing.T) {
	selected := ToggleOption("Less rice", nil)
	if !IsOptionSelected("Less rice", selected) {
		t.Fatal("expected option to be selected")
	}
	selected = ToggleOption("Less rice", selected)
	if len(selected) != 0 {
		t.Errorf("expected empty selection, got %v", selected)
	}
}
