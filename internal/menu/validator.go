// Package menu validates and decodes menu JSON supplied by administrators.
package menu

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/Lixing-Zhang/lunch-order/internal/models"
)

// RootPath is the path reported when the text is not valid JSON at all
const RootPath = "json"

// maxPrice keeps decoded prices within int range on every platform
const maxPrice = math.MaxInt32

// ErrInvalidMenu is returned by Decode when validation fails
var ErrInvalidMenu = errors.New("menu data is invalid")

// ValidationError is one problem found in menu JSON. Path locates the value,
// e.g. meals[2].addons[0].price.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

func (e ValidationError) Error() string {
	return e.Message
}

// Result holds every violation found in one pass
type Result struct {
	IsValid bool              `json:"isValid"`
	Errors  []ValidationError `json:"errors"`
}

// Err joins all violations into one error, or returns nil when valid
func (r Result) Err() error {
	if r.IsValid {
		return nil
	}
	errs := make([]error, 0, len(r.Errors)+1)
	errs = append(errs, ErrInvalidMenu)
	for _, e := range r.Errors {
		errs = append(errs, e)
	}
	return errors.Join(errs...)
}

// ValidateMenuData parses text and checks the structure of every meal.
// It never stops at the first problem: all violations are collected.
func ValidateMenuData(text string) Result {
	var data interface{}
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		return Result{
			IsValid: false,
			Errors: []ValidationError{{
				Field:   RootPath,
				Message: "invalid JSON format: " + err.Error(),
				Path:    RootPath,
			}},
		}
	}

	c := &checker{}
	root, _ := data.(map[string]interface{})
	meals, present := root["meals"]
	switch {
	case !present || meals == nil:
		c.missing("meals")
	default:
		list, ok := meals.([]interface{})
		if !ok {
			c.wrongType("meals", "array", meals)
			break
		}
		for i, meal := range list {
			c.meal(fmt.Sprintf("meals[%d]", i), meal)
		}
	}

	return Result{
		IsValid: len(c.errs) == 0,
		Errors:  c.errs,
	}
}

// Decode validates text and then decodes the meals for import
func Decode(text string) ([]models.MealData, error) {
	if err := ValidateMenuData(text).Err(); err != nil {
		return nil, err
	}
	var payload struct {
		Meals []models.MealData `json:"meals"`
	}
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, errors.Join(ErrInvalidMenu, ValidationError{
			Field:   RootPath,
			Message: "invalid menu data: " + err.Error(),
			Path:    RootPath,
		})
	}
	return payload.Meals, nil
}

type checker struct {
	errs []ValidationError
}

func (c *checker) missing(path string) {
	c.errs = append(c.errs, ValidationError{
		Field:   path,
		Message: "missing required field: " + path,
		Path:    path,
	})
}

func (c *checker) wrongType(path, expected string, got interface{}) {
	c.errs = append(c.errs, ValidationError{
		Field:   path,
		Message: fmt.Sprintf("field %s has wrong type, expected %s, got %s", path, expected, typeName(got)),
		Path:    path,
	})
}

func (c *checker) meal(path string, v interface{}) {
	obj, ok := v.(map[string]interface{})
	if !ok {
		c.wrongType(path, "object", v)
		return
	}

	c.name(path+".name", obj)
	c.price(path+".price", obj)

	groupsPath := path + ".optionGroups"
	if groups, ok := c.array(groupsPath, obj, "optionGroups"); ok {
		for g, group := range groups {
			groupPath := fmt.Sprintf("%s[%d]", groupsPath, g)
			options, ok := group.([]interface{})
			if !ok {
				c.wrongType(groupPath, "array", group)
				continue
			}
			for k, option := range options {
				if _, ok := option.(string); !ok {
					c.wrongType(fmt.Sprintf("%s[%d]", groupPath, k), "string", option)
				}
			}
		}
	}

	addonsPath := path + ".addons"
	if addons, ok := c.array(addonsPath, obj, "addons"); ok {
		for j, addon := range addons {
			addonPath := fmt.Sprintf("%s[%d]", addonsPath, j)
			addonObj, ok := addon.(map[string]interface{})
			if !ok {
				c.wrongType(addonPath, "object", addon)
				continue
			}
			c.name(addonPath+".name", addonObj)
			c.price(addonPath+".price", addonObj)
		}
	}
}

// name: absent, null and "" count as missing
func (c *checker) name(path string, obj map[string]interface{}) {
	v := obj["name"]
	switch s := v.(type) {
	case nil:
		c.missing(path)
	case string:
		if s == "" {
			c.missing(path)
		}
	default:
		c.wrongType(path, "string", v)
	}
}

// price: absent and null count as missing, anything but a number is a type error,
// and a number must be a non-negative integer in the smallest currency unit
func (c *checker) price(path string, obj map[string]interface{}) {
	v := obj["price"]
	if v == nil {
		c.missing(path)
		return
	}
	f, ok := v.(float64)
	if !ok {
		c.wrongType(path, "number", v)
		return
	}
	if f < 0 || f != math.Trunc(f) || f > maxPrice {
		c.errs = append(c.errs, ValidationError{
			Field:   path,
			Message: fmt.Sprintf("field %s has invalid value, expected non-negative integer, got %s", path, strconv.FormatFloat(f, 'f', -1, 64)),
			Path:    path,
		})
	}
}

func (c *checker) array(path string, obj map[string]interface{}, key string) ([]interface{}, bool) {
	v := obj[key]
	if v == nil {
		c.missing(path)
		return nil, false
	}
	list, ok := v.([]interface{})
	if !ok {
		c.wrongType(path, "array", v)
		return nil, false
	}
	return list, true
}

func typeName(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
