package menu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validMenu = `{
  "meals": [
    {
      "name": "Chicken Rice",
      "price": 80,
      "imageUrl": "https://example.com/chicken.jpg",
      "optionGroups": [["Less rice", "More rice"], ["No onion"]],
      "addons": [{"name": "Egg", "price": 10}, {"name": "Tofu", "price": 15}]
    },
    {
      "name": "Beef Noodles",
      "price": 120,
      "optionGroups": [],
      "addons": []
    }
  ]
}`

func paths(r Result) []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, e.Path)
	}
	return out
}

func TestValidateMenuData_Valid(t *testing.T) {
	result := ValidateMenuData(validMenu)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.NoError(t, result.Err())
}

func TestValidateMenuData_InvalidJSON(t *testing.T) {
	inputs := []string{"", "{", "not json", `{"meals": [}`, `{"meals": []} trailing`, "{'meals': []}"}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			result := ValidateMenuData(input)

			require.False(t, result.IsValid)
			require.Len(t, result.Errors, 1)
			assert.Equal(t, RootPath, result.Errors[0].Path)
			assert.True(t, strings.HasPrefix(result.Errors[0].Message, "invalid JSON format: "),
				"message %q should signal a JSON format failure", result.Errors[0].Message)
		})
	}
}

func TestValidateMenuData_TopLevel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"missing meals", `{}`, "missing required field: meals"},
		{"null meals", `{"meals": null}`, "missing required field: meals"},
		{"top level array", `[]`, "missing required field: meals"},
		{"top level null", `null`, "missing required field: meals"},
		{"meals is object", `{"meals": {}}`, "field meals has wrong type, expected array, got object"},
		{"meals is string", `{"meals": "x"}`, "field meals has wrong type, expected array, got string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateMenuData(tt.input)

			require.False(t, result.IsValid)
			require.Len(t, result.Errors, 1)
			assert.Equal(t, "meals", result.Errors[0].Path)
			assert.Equal(t, tt.message, result.Errors[0].Message)
		})
	}
}

func TestValidateMenuData_EmptyMealsIsValid(t *testing.T) {
	assert.True(t, ValidateMenuData(`{"meals": []}`).IsValid)
}

func TestValidateMenuData_MissingFields(t *testing.T) {
	tests := []struct {
		name  string
		input string
		path  string
	}{
		{"meal name", `{"meals":[{"price":1,"optionGroups":[],"addons":[]}]}`, "meals[0].name"},
		{"empty meal name", `{"meals":[{"name":"","price":1,"optionGroups":[],"addons":[]}]}`, "meals[0].name"},
		{"meal price", `{"meals":[{"name":"a","optionGroups":[],"addons":[]}]}`, "meals[0].price"},
		{"null meal price", `{"meals":[{"name":"a","price":null,"optionGroups":[],"addons":[]}]}`, "meals[0].price"},
		{"option groups", `{"meals":[{"name":"a","price":1,"addons":[]}]}`, "meals[0].optionGroups"},
		{"addons", `{"meals":[{"name":"a","price":1,"optionGroups":[]}]}`, "meals[0].addons"},
		{"addon name", `{"meals":[{"name":"a","price":1,"optionGroups":[],"addons":[{"price":5}]}]}`, "meals[0].addons[0].name"},
		{"addon price", `{"meals":[{"name":"a","price":1,"optionGroups":[],"addons":[{"name":"x"}]}]}`, "meals[0].addons[0].price"},
		{"second meal", `{"meals":[{"name":"a","price":1,"optionGroups":[],"addons":[]},{"name":"b","optionGroups":[],"addons":[]}]}`, "meals[1].price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateMenuData(tt.input)

			require.False(t, result.IsValid)
			require.Len(t, result.Errors, 1)
			assert.Equal(t, tt.path, result.Errors[0].Path)
			assert.Equal(t, tt.path, result.Errors[0].Field)
			assert.Equal(t, "missing required field: "+tt.path, result.Errors[0].Message)
		})
	}
}

func TestValidateMenuData_WrongTypes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		path    string
		message string
	}{
		{
			"meal name number",
			`{"meals":[{"name":5,"price":1,"optionGroups":[],"addons":[]}]}`,
			"meals[0].name",
			"field meals[0].name has wrong type, expected string, got number",
		},
		{
			"meal price string",
			`{"meals":[{"name":"a","price":"80","optionGroups":[],"addons":[]}]}`,
			"meals[0].price",
			"field meals[0].price has wrong type, expected number, got string",
		},
		{
			"option groups object",
			`{"meals":[{"name":"a","price":1,"optionGroups":{},"addons":[]}]}`,
			"meals[0].optionGroups",
			"field meals[0].optionGroups has wrong type, expected array, got object",
		},
		{
			"option group string",
			`{"meals":[{"name":"a","price":1,"optionGroups":["x"],"addons":[]}]}`,
			"meals[0].optionGroups[0]",
			"field meals[0].optionGroups[0] has wrong type, expected array, got string",
		},
		{
			"option label number",
			`{"meals":[{"name":"a","price":1,"optionGroups":[["ok", 3]],"addons":[]}]}`,
			"meals[0].optionGroups[0][1]",
			"field meals[0].optionGroups[0][1] has wrong type, expected string, got number",
		},
		{
			"addons string",
			`{"meals":[{"name":"a","price":1,"optionGroups":[],"addons":"egg"}]}`,
			"meals[0].addons",
			"field meals[0].addons has wrong type, expected array, got string",
		},
		{
			"addon price boolean",
			`{"meals":[{"name":"a","price":1,"optionGroups":[],"addons":[{"name":"x","price":true}]}]}`,
			"meals[0].addons[0].price",
			"field meals[0].addons[0].price has wrong type, expected number, got boolean",
		},
		{
			"meal not an object",
			`{"meals":[42]}`,
			"meals[0]",
			"field meals[0] has wrong type, expected object, got number",
		},
		{
			"addon not an object",
			`{"meals":[{"name":"a","price":1,"optionGroups":[],"addons":[null]}]}`,
			"meals[0].addons[0]",
			"field meals[0].addons[0] has wrong type, expected object, got null",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateMenuData(tt.input)

			require.False(t, result.IsValid)
			require.Len(t, result.Errors, 1)
			assert.Equal(t, tt.path, result.Errors[0].Path)
			assert.Equal(t, tt.message, result.Errors[0].Message)
		})
	}
}

func TestValidateMenuData_PriceMustBeWholeAndNonNegative(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		path    string
		message string
	}{
		{
			"fractional meal price",
			`{"meals":[{"name":"a","price":80.5,"optionGroups":[],"addons":[]}]}`,
			"meals[0].price",
			"field meals[0].price has invalid value, expected non-negative integer, got 80.5",
		},
		{
			"negative addon price",
			`{"meals":[{"name":"a","price":1,"optionGroups":[],"addons":[{"name":"x","price":-5}]}]}`,
			"meals[0].addons[0].price",
			"field meals[0].addons[0].price has invalid value, expected non-negative integer, got -5",
		},
		{
			"price too large",
			`{"meals":[{"name":"a","price":1e20,"optionGroups":[],"addons":[]}]}`,
			"meals[0].price",
			"field meals[0].price has invalid value, expected non-negative integer, got 100000000000000000000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateMenuData(tt.input)

			require.False(t, result.IsValid)
			require.Len(t, result.Errors, 1)
			assert.Equal(t, tt.path, result.Errors[0].Path)
			assert.Equal(t, tt.message, result.Errors[0].Message)

			_, err := Decode(tt.input)
			require.ErrorIs(t, err, ErrInvalidMenu)
			var verr ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.path, verr.Path)
		})
	}

	assert.True(t, ValidateMenuData(`{"meals":[{"name":"a","price":0,"optionGroups":[],"addons":[]}]}`).IsValid,
		"zero is a valid price")
}

func TestValidateMenuData_ReportsEveryViolation(t *testing.T) {
	input := `{
	  "meals": [
	    {"price": "free", "optionGroups": [["a", 1], "b", [null]], "addons": [{"name": 3}, {"price": 5}]},
	    {"name": "ok", "price": 10, "optionGroups": [], "addons": []},
	    {"name": true}
	  ]
	}`

	result := ValidateMenuData(input)

	require.False(t, result.IsValid)
	assert.Equal(t, []string{
		"meals[0].name",
		"meals[0].price",
		"meals[0].optionGroups[0][1]",
		"meals[0].optionGroups[1]",
		"meals[0].optionGroups[2][0]",
		"meals[0].addons[0].name",
		"meals[0].addons[0].price",
		"meals[0].addons[1].name",
		"meals[2].name",
		"meals[2].price",
		"meals[2].optionGroups",
		"meals[2].addons",
	}, paths(result))

	err := result.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidMenu))
	assert.Contains(t, err.Error(), "meals[2].addons")
}

func TestDecode(t *testing.T) {
	meals, err := Decode(validMenu)
	require.NoError(t, err)
	require.Len(t, meals, 2)
	assert.Equal(t, "Chicken Rice", meals[0].Name)
	assert.Equal(t, 80, meals[0].Price)
	assert.Equal(t, [][]string{{"Less rice", "More rice"}, {"No onion"}}, meals[0].OptionGroups)
	assert.Len(t, meals[0].Addons, 2)

	_, err = Decode(`{"meals": [{}]}`)
	assert.ErrorIs(t, err, ErrInvalidMenu)

	// a fractional price is a number but cannot become a price in minor units
	_, err = Decode(`{"meals":[{"name":"a","price":1.5,"optionGroups":[],"addons":[]}]}`)
	assert.ErrorIs(t, err, ErrInvalidMenu)
}
