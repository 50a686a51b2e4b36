package helper

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ValidationError: validator.ValidationErrors → 422 {errors: {field: [tag...]}}.
// Error lain (body rusak dsb) → 400.
func ValidationError(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return JsonError(c, fiber.StatusBadRequest, "Invalid input")
	}

	fields := make(map[string][]string, len(ve))
	for _, fe := range ve {
		name := strings.ToLower(fe.Field())
		msg := fe.Tag()
		if p := fe.Param(); p != "" {
			msg += "=" + p
		}
		fields[name] = append(fields[name], msg)
	}
	return JsonValidationError(c, fields)
}
