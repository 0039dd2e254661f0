package serverutils

import (
	"fmt"
	"strings"

	"dream-journal-be/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation and converts the first
// failure into a client-facing validation error.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		field := strings.ToLower(fe.Field())
		return apperror.Validation(field, fmt.Sprintf("field %s failed on the '%s' rule", field, fe.Tag()))
	}

	return apperror.Validation("", "invalid request body")
}
