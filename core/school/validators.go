package school

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
)

var (
	roleTag  = "role"
	roleText = "must be one of: admin, faculty, student, parent"
)

func init() {
	_ = core.Validate.RegisterValidation(roleTag, roleValidation)
	core.RegisterCustomTranslation(core.Validate, core.Translator, roleTag, roleText)
}

// roleValidation only allows the closed set of portal roles.
func roleValidation(fl validator.FieldLevel) bool {
	return Role(fl.Field().String()).Valid()
}

// normalizeCode cleans an institution code for storage and comparison;
// codes are kept uppercase (e.g. "VOID01").
func normalizeCode(code string) string {
	return strings.ToUpper(core.CleanString(code))
}
