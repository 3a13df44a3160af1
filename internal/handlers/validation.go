package handlers

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Ananth-NQI/fleetiva-backend/internal/models"
	"github.com/Ananth-NQI/fleetiva-backend/internal/services"
)

var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// Validator checks request DTOs. Field names in errors follow the json tags.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return models.IsID(fl.Field().String())
	})
	return &Validator{validate: v}
}

// Struct returns validator.ValidationErrors when s is invalid.
func (v *Validator) Struct(s any) error {
	return v.validate.Struct(s)
}

// bind parses the JSON body into dst and validates it.
func (v *Validator) bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return services.Invalid("Invalid request body.")
	}
	return v.Struct(dst)
}

// parseBody parses without validating, for endpoints whose service layer
// reports missing fields itself.
func parseBody(c *fiber.Ctx, dst any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(dst); err != nil {
		return services.Invalid("Invalid request body.")
	}
	return nil
}
