// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"institute_backend/internals/configs"
	"institute_backend/internals/constants"
	attService "institute_backend/internals/features/attendance/service"
	authMiddleware "institute_backend/internals/middlewares/auth"
	routeDetails "institute_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB, svc *attService.Services) {
	startTime = time.Now()

	BaseRoutes(app, db)

	jwt := authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
		Secret:              configs.JWTSecret,
		AllowCookieFallback: true,
	})

	// ===================== PRIVATE (USER) =====================
	log.Println("[INFO] Setting up PRIVATE group...")
	private := app.Group("/api/u", jwt)

	// ===================== ADMIN =====================
	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		jwt,
		authMiddleware.OnlyRoles(constants.RoleErrorManager("absensi"), constants.AttendanceManagers...),
	)

	// ===================== MOUNT ROUTES =====================
	log.Println("[INFO] Mounting Attendance routes...")
	routeDetails.AttendanceUserRoutes(private, svc)
	routeDetails.AttendanceAdminRoutes(admin, svc)
}
