// file: internals/features/attendance/route/admin_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"institute_backend/internals/features/attendance/controller"
	"institute_backend/internals/features/attendance/service"
)

// AttendanceAdminRoutes: group admin sudah memfilter role (admin/teacher).
func AttendanceAdminRoutes(r fiber.Router, svc *service.Services) {
	staff := controller.NewStaffAttendanceController(svc.Staff)
	sg := r.Group("/attendance/staff")
	sg.Get("/", staff.AdminList)
	sg.Get("/stats", staff.AdminStats)

	students := controller.NewStudentAttendanceController(svc.Students)
	st := r.Group("/attendance/students")
	st.Post("/", students.Mark)
	st.Post("/batch", students.MarkBatch)
	st.Get("/stats", students.Overview)
	st.Get("/date", students.ListByDate)
	st.Get("/student/:student_id", students.ListByStudent)
	st.Get("/batch/:batch_id", students.ListByBatch)
	st.Patch("/:id", students.Update)
	st.Delete("/:id", students.Delete)
}
