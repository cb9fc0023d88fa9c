package validation

import (
	"unicode"

	"skincare-backend/internal/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("routine_slot", RoutineSlot)
	_ = v.RegisterValidation("date_key", DateKey)
	_ = v.RegisterValidation("no_emoji", NoEmoji)
}

// RegisterWithGin adds the custom validators to gin's binding engine.
func RegisterWithGin() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterValidators(v)
	}
}

// RoutineSlot accepts "am" or "pm" in any case.
func RoutineSlot(fl validator.FieldLevel) bool {
	_, err := domain.ParseSlot(fl.Field().String())
	return err == nil
}

// DateKey validates the YYYY-MM-DD shape. Empty passes; combine with required.
func DateKey(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return domain.ValidDateKey(val)
}

// NoEmoji validates that a string does not contain emoji characters
func NoEmoji(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, r := range val {
		if r > 0x1F000 {
			return false // Supplementary characters (mostly emoji/symbols)
		}
		if unicode.In(r, unicode.So, unicode.Sk) { // Symbol, other / Symbol, modifier
			return false
		}
	}
	return true
}
