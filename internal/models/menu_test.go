package models

import "testing"

func TestConfiguration_FindMeal(t *testing.T) {
	cfg := Configuration{
		Meals: []MealItem{
			{ID: "m1", Name: "Chicken Rice", Price: 80},
			{ID: "m2", Name: "Beef Noodles", Price: 120},
		},
	}

	meal, ok := cfg.FindMeal("m2")
	if !ok {
		t.Fatal("expected meal m2 to be found")
	}
	if meal.Name != "Beef Noodles" {
		t.Errorf("expected Beef Noodles, got %s", meal.Name)
	}

	if _, ok := cfg.FindMeal("missing"); ok {
		t.Error("expected unknown meal to be reported as missing")
	}
}

func TestMealItem_FindAddonAndGroup(t *testing.T) {
	meal := MealItem{
		ID:           "m1",
		OptionGroups: [][]string{{"Less rice", "More rice"}, {"No onion"}},
		Addons:       []AddonItem{{ID: "a1", Name: "Egg", Price: 10}},
	}

	if addon, ok := meal.FindAddon("a1"); !ok || addon.Price != 10 {
		t.Errorf("FindAddon(a1) = %+v, %v", addon, ok)
	}
	if _, ok := meal.FindAddon("a9"); ok {
		t.Error("expected a9 to be missing")
	}

	tests := []struct {
		index int
		ok    bool
	}{
		{0, true},
		{1, true},
		{2, false},
		{-1, false},
	}
	for _, tt := range tests {
		if _, ok := meal.Group(tt.index); ok != tt.ok {
			t.Errorf("Group(%d) ok = %v, want %v", tt.index, ok, tt.ok)
		}
	}
}

func TestMealItem_CloneSharesNothing(t *testing.T) {
	meal := MealItem{
		ID:           "m1",
		OptionGroups: [][]string{{"Rice", "Noodles"}},
		Addons:       []AddonItem{{ID: "a1", Name: "Egg", Price: 10}},
	}
	cfg := Configuration{Meals: []MealItem{meal}}

	mealCopy := meal.Clone()
	mealCopy.OptionGroups[0][0] = "changed"
	mealCopy.Addons[0].Price = 999

	cfgCopy := cfg.Clone()
	cfgCopy.Meals[0].OptionGroups[0][1] = "changed"
	cfgCopy.Meals[0].Addons[0].Name = "changed"

	if meal.OptionGroups[0][0] != "Rice" || meal.OptionGroups[0][1] != "Noodles" {
		t.Errorf("option groups were shared: %v", meal.OptionGroups)
	}
	if meal.Addons[0].Price != 10 || meal.Addons[0].Name != "Egg" {
		t.Errorf("add-ons were shared: %+v", meal.Addons)
	}
}
