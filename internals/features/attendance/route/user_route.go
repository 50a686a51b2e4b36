// file: internals/features/attendance/route/user_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"institute_backend/internals/constants"
	"institute_backend/internals/features/attendance/controller"
	"institute_backend/internals/features/attendance/service"
	authMiddleware "institute_backend/internals/middlewares/auth"
)

// AttendanceUserRoutes: self-service (staff check-in/out, murid self check-in).
func AttendanceUserRoutes(r fiber.Router, svc *service.Services) {
	staff := controller.NewStaffAttendanceController(svc.Staff)
	sg := r.Group("/attendance/staff",
		authMiddleware.OnlyRoles(constants.RoleErrorStaff("absensi staff"), constants.StaffRoles...),
	)
	sg.Post("/check-in", staff.CheckIn)
	sg.Post("/check-out", staff.CheckOut)
	sg.Get("/me", staff.MyRecords)
	sg.Get("/today", staff.Today)

	students := controller.NewStudentAttendanceController(svc.Students)
	r.Post("/attendance/students/self",
		authMiddleware.OnlyRoles(constants.RoleErrorStudent("absensi mandiri"), constants.StudentOnly...),
		students.SelfMark,
	)
}
