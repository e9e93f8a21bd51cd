package validation

import (
	"errors"
	"strings"

	"github.com/Lixing-Zhang/lunch-order/internal/models"
)

var (
	ErrNameRequired   = errors.New("please enter the student name")
	ErrNameWhitespace = errors.New("student name cannot contain only whitespace")
	ErrMealRequired   = errors.New("please select a meal")
)

// ValidateOrder checks the submit preconditions and returns the first failure.
// The order of checks decides which message the user sees: empty name, then
// whitespace-only name, then missing meal.
func ValidateOrder(studentName string, selectedMeal *models.MealItem) error {
	if studentName == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(studentName) == "" {
		return ErrNameWhitespace
	}
	if selectedMeal == nil {
		return ErrMealRequired
	}
	return nil
}
