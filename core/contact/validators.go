package contact

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/enlift/backend/core"
)

var (
	departmentTag  = "department"
	departmentText = "unknown department"
)

// Validator wraps a validator.Validate with the contact rules registered.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func NewValidator(validate *validator.Validate, translator ut.Translator) *Validator {
	_ = validate.RegisterValidation(departmentTag, departmentValidation)
	core.RegisterCustomTranslation(validate, translator, departmentTag, departmentText)
	return &Validator{validate: validate, translator: translator}
}

func departmentValidation(fl validator.FieldLevel) bool {
	dept, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	for _, d := range Departments {
		if dept == d {
			return true
		}
	}
	return false
}
