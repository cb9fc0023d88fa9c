package validation_test

import (
	"errors"
	"testing"

	"skincare-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusBody struct {
	ProductID string `validate:"required"`
	Slot      string `validate:"required,routine_slot"`
	Date      string `validate:"date_key"`
	Note      string `validate:"no_emoji"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	validation.RegisterValidators(v)
	return v
}

func TestCustomValidators(t *testing.T) {
	v := newValidator()

	assert.NoError(t, v.Struct(statusBody{ProductID: "p1", Slot: " PM "}))
	assert.NoError(t, v.Struct(statusBody{ProductID: "p1", Slot: "am", Date: "2024-02-30"}))

	cases := map[string]statusBody{
		"bad slot": {ProductID: "p1", Slot: "noon"},
		"bad date": {ProductID: "p1", Slot: "am", Date: "2024/02/01"},
		"emoji":    {ProductID: "p1", Slot: "am", Note: "glow \U0001F31F"},
		"no id":    {Slot: "am"},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, v.Struct(body))
		})
	}
}

func TestFormatValidationErrors(t *testing.T) {
	err := newValidator().Struct(statusBody{Slot: "noon", Date: "x"})
	require.Error(t, err)

	msgs := validation.FormatValidationErrors(err)
	assert.Equal(t, []string{
		"Product ID is required",
		"Slot must be 'am' or 'pm'",
		"Date must be formatted as YYYY-MM-DD",
	}, msgs)

	assert.Equal(t, map[string]string{
		"ProductID": "required",
		"Slot":      "routine_slot",
		"Date":      "date_key",
	}, validation.FieldErrors(err))

	assert.Equal(t, []string{"boom"}, validation.FormatValidationErrors(errors.New("boom")))
}
