package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"context-engine-be/internal/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation and converts failures into
// the INVALID_INPUT taxonomy so the error handler can map them to 400.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := make([]string, 0, len(ve))
		for _, fe := range ve {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
		}
		return apperror.InvalidInput("validation failed: " + strings.Join(fields, ", "))
	}
	return apperror.InvalidInput("validation failed")
}
