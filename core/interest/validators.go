package interest

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/thinkmate/thinkmate/core"
)

var (
	impactTag  = "impact"
	impactText = "socialImpact must be one of " + strings.Join(Impacts, ", ")
)

// InitValidators registers the interest validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(impactTag, impactValidation)
	core.RegisterCustomTranslation(validate, translator, impactTag, impactText)
}

func impactValidation(fl validator.FieldLevel) bool {
	v := strings.ToUpper(strings.TrimSpace(fl.Field().String()))
	for _, impact := range Impacts {
		if v == impact {
			return true
		}
	}
	return false
}
