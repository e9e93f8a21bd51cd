package validation

import (
	"encoding/json"
	"errors"
	"math"
)

const (
	MinQuantity = 1
	MaxQuantity = 99
)

var (
	ErrQuantityNotNumber  = errors.New("quantity must be a number")
	ErrQuantityNotInteger = errors.New("quantity must be a whole number")
	ErrQuantityTooSmall   = errors.New("quantity must be at least 1")
	ErrQuantityTooLarge   = errors.New("quantity must be at most 99")
)

// ValidateQuantity checks that q is an integer in [MinQuantity, MaxQuantity].
// q may be any Go numeric type or a json.Number, so decoded request bodies can be passed as is.
func ValidateQuantity(q interface{}) error {
	f, ok := toFloat(q)
	if !ok || math.IsNaN(f) {
		return ErrQuantityNotNumber
	}
	if math.IsInf(f, 0) || f != math.Trunc(f) {
		return ErrQuantityNotInteger
	}
	if f < MinQuantity {
		return ErrQuantityTooSmall
	}
	if f > MaxQuantity {
		return ErrQuantityTooLarge
	}
	return nil
}

// NormalizeQuantity always returns a value in [MinQuantity, MaxQuantity].
// Non-numeric and non-integer input becomes MinQuantity; out-of-range integers clamp to the nearest bound.
func NormalizeQuantity(q interface{}) int {
	f, ok := toFloat(q)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return MinQuantity
	}
	if f < MinQuantity {
		return MinQuantity
	}
	if f > MaxQuantity {
		return MaxQuantity
	}
	return int(f)
}

// Increment adds one, saturating at MaxQuantity
func Increment(q int) int {
	return min(q+1, MaxQuantity)
}

// Decrement subtracts one, saturating at MinQuantity
func Decrement(q int) int {
	return max(q-1, MinQuantity)
}

func toFloat(q interface{}) (float64, bool) {
	switch v := q.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
