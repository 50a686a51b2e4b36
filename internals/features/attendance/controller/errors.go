// file: internals/features/attendance/controller/errors.go
package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"institute_backend/internals/features/attendance/errs"
	helper "institute_backend/internals/helpers"
)

// writeError: error domain → envelope {success:false, error_code, message, details}.
func writeError(c *fiber.Ctx, err error) error {
	var de *errs.Error
	if errors.As(err, &de) {
		switch de.Kind {
		case errs.KindInternal, errs.KindUnavailable:
			log.Printf("[ERROR] %s %s: %v", c.Method(), c.Path(), err)
		}
		msg := de.Message
		if de.Kind == errs.KindInternal {
			msg = "internal server error"
		}
		return helper.JsonErrorCode(c, de.Kind.Status(), string(de.Kind), msg, de.Details)
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return helper.FromFiberError(c, fe)
	}
	log.Printf("[ERROR] %s %s: %v", c.Method(), c.Path(), err)
	return helper.JsonErrorCode(c, fiber.StatusInternalServerError, string(errs.KindInternal), "internal server error", nil)
}

func badRequest(c *fiber.Ctx, msg string) error {
	return helper.JsonErrorCode(c, fiber.StatusBadRequest, string(errs.KindInvalidInput), msg, nil)
}
