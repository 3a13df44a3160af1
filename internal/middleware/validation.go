package middleware

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/Ananth-NQI/fleetiva-backend/internal/services"
)

// FieldErrors converts validator failures into client-facing field messages.
func FieldErrors(errs validator.ValidationErrors) []services.FieldError {
	out := make([]services.FieldError, 0, len(errs))
	for _, fe := range errs {
		out = append(out, services.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or more", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	case "phone":
		return fmt.Sprintf("%s must be a valid phone number", fe.Field())
	case "objectid":
		return fmt.Sprintf("%s must be a valid id", fe.Field())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
