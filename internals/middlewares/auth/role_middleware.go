package auth

import (
	"log"

	"github.com/gofiber/fiber/v2"

	helper "institute_backend/internals/helpers"
)

// OnlyRoles validasi role (dari AuthJWT) + custom error message.
func OnlyRoles(customForbiddenMessage string, allowedRoles ...string) fiber.Handler {
	if customForbiddenMessage == "" {
		customForbiddenMessage = "Forbidden: you are not authorized to access this resource"
	}
	return func(c *fiber.Ctx) error {
		role := helper.GetRoleFromToken(c)
		if role == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized: missing role information")
		}
		for _, allowed := range allowedRoles {
			if role == allowed {
				return c.Next()
			}
		}
		log.Printf("[WARN] role %q ditolak untuk %s %s", role, c.Method(), c.Path())
		return helper.JsonError(c, fiber.StatusForbidden, customForbiddenMessage)
	}
}
