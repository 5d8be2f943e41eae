package validation

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/oemcatalog/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required,max=8"`
	Logo        string `json:"logo" validate:"omitempty,url"`
}

func TestStructReportsEveryFailingField(t *testing.T) {
	errs := Struct(sample{Description: "far too long", Logo: "not a url"})
	require.Error(t, errs.Err())

	assert.True(t, errs.Has("name"))
	assert.True(t, errs.Has("description"))
	assert.True(t, errs.Has("logo"))
	assert.Len(t, errs.Violations, 3)
	assert.Equal(t, "name should not be empty", errs.Violations[0].Constraints[ConstraintIsNotEmpty])
	assert.Contains(t, errs.Violations[1].Constraints, ConstraintMaxLength)
}

func TestStructPassesValidInput(t *testing.T) {
	errs := Struct(sample{Name: "Dress", Description: "Black"})
	assert.NoError(t, errs.Err())
}

func TestAddMergesConstraintsOfSameProperty(t *testing.T) {
	errs := &Errors{}
	errs.Add("price", ConstraintIsNumber, "price must be a number")
	errs.Add("price", ConstraintMin, "price must not be less than 0")

	require.Len(t, errs.Violations, 1)
	assert.Len(t, errs.Violations[0].Constraints, 2)
}

func TestPrice(t *testing.T) {
	var invalid money.Amount
	require.NoError(t, invalid.UnmarshalJSON([]byte(`"abc"`)))

	cases := []struct {
		name       string
		amount     *money.Amount
		required   bool
		constraint string
	}{
		{name: "missing required", amount: nil, required: true, constraint: ConstraintIsNumber},
		{name: "missing optional", amount: nil, required: false},
		{name: "not numeric", amount: &invalid, required: false, constraint: ConstraintIsNumber},
		{name: "negative", amount: money.NewAmount(decimal.NewFromInt(-1)), required: true, constraint: ConstraintMin},
		{name: "more than two decimals", amount: money.MustParse("10.005"), required: true, constraint: ConstraintIsNumber},
		{name: "trailing zeros", amount: money.MustParse("10.500"), required: true},
		{name: "valid", amount: money.MustParse("10.5"), required: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := &Errors{}
			errs.Price("price", tc.amount, tc.required)
			if tc.constraint == "" {
				assert.NoError(t, errs.Err())
				return
			}
			require.Len(t, errs.Violations, 1)
			assert.Contains(t, errs.Violations[0].Constraints, tc.constraint)
		})
	}
}

type patch struct {
	Name *string `json:"name" validate:"omitnil,min=1"`
}

func TestStructRejectsEmptyPatchField(t *testing.T) {
	empty := ""
	errs := Struct(patch{Name: &empty})
	require.Len(t, errs.Violations, 1)
	assert.Equal(t, "name should not be empty", errs.Violations[0].Constraints[ConstraintIsNotEmpty])

	assert.NoError(t, Struct(patch{}).Err())
}

func TestErrorsIsDetectableWithAs(t *testing.T) {
	errs := &Errors{}
	errs.Add("name", ConstraintIsNotEmpty, "name should not be empty")

	var target *Errors
	wrapped := errors.Join(errors.New("context"), errs.Err())
	require.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "validation failed: name", target.Error())
}
