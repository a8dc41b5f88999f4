package student

import (
	"regexp"
	"sort"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/enlift/backend/core"
)

var (
	courseTag  = "course"
	courseText = "please select a course"

	statusTag  = "status"
	statusText = "invalid status"

	// local-part "@" domain "." tld; intentionally loose
	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// Validator wraps a validator.Validate with the admission rules registered.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func NewValidator(validate *validator.Validate, translator ut.Translator) *Validator {
	_ = validate.RegisterValidation(courseTag, courseValidation)
	core.RegisterCustomTranslation(validate, translator, courseTag, courseText)

	_ = validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)

	return &Validator{validate: validate, translator: translator}
}

// courseValidation checks that the selected course is in the catalog and
// not the placeholder option.
func courseValidation(fl validator.FieldLevel) bool {
	course, ok := fl.Field().Interface().(string)
	if !ok || course == "" || course == CourseNone {
		return false
	}
	catalog := make([]string, len(Courses))
	copy(catalog, Courses)
	sort.Strings(catalog)
	if idx := sort.SearchStrings(catalog, course); idx < len(catalog) {
		return catalog[idx] == course
	}
	return false
}

// statusValidation checks the status is one of the four known values.
func statusValidation(fl validator.FieldLevel) bool {
	status, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	for _, s := range AllStatuses {
		if status == s {
			return true
		}
	}
	return false
}
