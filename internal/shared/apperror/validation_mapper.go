package apperror

import (
	"net/http"

	"github.com/go-playground/validator/v10"
)

// MapValidationError converts a gin binding error into an AppError with a
// readable message. Only the first violation is reported; required-field
// aggregation across a whole request is handled by the services themselves.
func MapValidationError(err error) error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		e := errs[0]

		// e.Field() is the json name, set up by Init().
		switch e.Tag() {
		case "required":
			return RequiredField(e.Field())
		default:
			return InvalidField(e.Field())
		}
	}

	return New(
		CodeInvalidInput,
		"Invalid input",
		http.StatusBadRequest,
	)
}
