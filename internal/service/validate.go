package service

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/msomdec/forumvotes/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// inputError turns validator output into a domain.InputError naming the
// first failing field.
func inputError(err error) error {
	return &domain.InputError{Message: describeValidation(err)}
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return fe.Field() + " is required"
		case "email":
			return "Email format is invalid"
		case "min":
			return fe.Field() + " is too short"
		case "max":
			return fe.Field() + " is too long"
		}
		return fe.Field() + " is invalid"
	}
	return err.Error()
}
