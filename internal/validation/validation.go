// Package validation reports field-level input failures as a list of
// {property, constraints} violations.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/smallbiznis/oemcatalog/pkg/money"
)

const (
	ConstraintIsNotEmpty = "isNotEmpty"
	ConstraintIsNumber   = "isNumber"
	ConstraintMin        = "min"
	ConstraintMaxLength  = "maxLength"
	ConstraintIsURL      = "isUrl"
)

type Violation struct {
	Property    string            `json:"property"`
	Constraints map[string]string `json:"constraints"`
}

// Errors is returned when one or more fields fail validation.
type Errors struct {
	Violations []Violation
}

func (e *Errors) Error() string {
	properties := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		properties = append(properties, v.Property)
	}
	return "validation failed: " + strings.Join(properties, ", ")
}

// Add records a failed constraint, merging constraints of the same property.
func (e *Errors) Add(property, constraint, message string) {
	for i := range e.Violations {
		if e.Violations[i].Property == property {
			e.Violations[i].Constraints[constraint] = message
			return
		}
	}
	e.Violations = append(e.Violations, Violation{
		Property:    property,
		Constraints: map[string]string{constraint: message},
	})
}

func (e *Errors) Has(property string) bool {
	for _, v := range e.Violations {
		if v.Property == property {
			return true
		}
	}
	return false
}

// Err returns e when it holds violations and nil otherwise.
func (e *Errors) Err() error {
	if e == nil || len(e.Violations) == 0 {
		return nil
	}
	return e
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// Struct validates the `validate` tags of s and converts failures to Errors.
func Struct(s any) *Errors {
	out := &Errors{}
	err := validate.Struct(s)
	if err == nil {
		return out
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		out.Add("request", ConstraintIsNotEmpty, err.Error())
		return out
	}
	for _, fe := range fieldErrs {
		constraint, message := describe(fe)
		out.Add(fe.Field(), constraint, message)
	}
	return out
}

func describe(fe validator.FieldError) (string, string) {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return ConstraintIsNotEmpty, fmt.Sprintf("%s should not be empty", field)
	case "gte", "min":
		if fe.Kind() == reflect.String && fe.Param() == "1" {
			return ConstraintIsNotEmpty, fmt.Sprintf("%s should not be empty", field)
		}
		if fe.Kind() == reflect.String {
			return ConstraintMin, fmt.Sprintf("%s must be longer than or equal to %s characters", field, fe.Param())
		}
		return ConstraintMin, fmt.Sprintf("%s must not be less than %s", field, fe.Param())
	case "max", "lte":
		return ConstraintMaxLength, fmt.Sprintf("%s must be shorter than or equal to %s characters", field, fe.Param())
	case "url", "uri":
		return ConstraintIsURL, fmt.Sprintf("%s must be a URL address", field)
	default:
		return fe.Tag(), fmt.Sprintf("%s failed on %s", field, fe.Tag())
	}
}

// PriceScale is the number of fractional digits a stored price keeps.
const PriceScale = 2

// Price records a violation when amount is required but absent, present but
// not numeric, finer than PriceScale, or negative.
func (e *Errors) Price(property string, amount *money.Amount, required bool) {
	if amount == nil {
		if required {
			e.Add(property, ConstraintIsNumber, fmt.Sprintf("%s must be a number conforming to the specified constraints", property))
		}
		return
	}
	if !amount.Valid() {
		e.Add(property, ConstraintIsNumber, fmt.Sprintf("%s must be a number conforming to the specified constraints", property))
		return
	}
	value := amount.Decimal()
	if !value.Equal(value.Round(PriceScale)) {
		e.Add(property, ConstraintIsNumber, fmt.Sprintf("%s must be a number conforming to the specified constraints", property))
		return
	}
	if value.IsNegative() {
		e.Add(property, ConstraintMin, fmt.Sprintf("%s must not be less than 0", property))
	}
}
