package serverutils

import (
	"fmt"

	"support-chat-be/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest checks struct tags and maps violations to BadRequest so
// the error middleware surfaces them with a 400.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			first := errs[0]
			return apperror.BadRequest(fmt.Sprintf("invalid field %s (%s)", first.Field(), first.Tag()))
		}
		return apperror.BadRequest(err.Error())
	}
	return nil
}
