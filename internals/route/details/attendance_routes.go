package details

import (
	"github.com/gofiber/fiber/v2"

	attRoute "institute_backend/internals/features/attendance/route"
	attService "institute_backend/internals/features/attendance/service"
	"institute_backend/internals/middlewares"
)

// AttendanceUserRoutes: /api/u/... (limiter tulis per user).
func AttendanceUserRoutes(r fiber.Router, svc *attService.Services) {
	g := r.Group("", middlewares.AttendanceWriteLimiter())
	attRoute.AttendanceUserRoutes(g, svc)
}

// AttendanceAdminRoutes: /api/a/...
func AttendanceAdminRoutes(r fiber.Router, svc *attService.Services) {
	attRoute.AttendanceAdminRoutes(r, svc)
}
