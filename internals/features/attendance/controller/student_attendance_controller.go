// file: internals/features/attendance/controller/student_attendance_controller.go
package controller

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"institute_backend/internals/features/attendance/dto"
	"institute_backend/internals/features/attendance/service"
	helper "institute_backend/internals/helpers"
	"institute_backend/internals/helpers/dbtime"
)

type StudentAttendanceController struct {
	Svc       *service.StudentService
	Validator *validator.Validate
}

func NewStudentAttendanceController(svc *service.StudentService) *StudentAttendanceController {
	return &StudentAttendanceController{Svc: svc, Validator: validator.New()}
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params(name)))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s tidak valid", name)
	}
	return id, nil
}

// markedBy: editor dari token (nil kalau tidak ada).
func markedBy(c *fiber.Ctx) *uuid.UUID {
	if id, err := helper.GetUserIDFromToken(c); err == nil {
		return &id
	}
	return nil
}

// POST /api/a/attendance/students
func (ctl *StudentAttendanceController) Mark(c *fiber.Ctx) error {
	var req dto.MarkStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Body tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	in, err := req.ToInput(markedBy(c))
	if err != nil {
		return badRequest(c, err.Error())
	}

	out, err := ctl.Svc.Mark(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonCreated(c, "Attendance marked", out)
}

// POST /api/a/attendance/students/batch
func (ctl *StudentAttendanceController) MarkBatch(c *fiber.Ctx) error {
	var req dto.BatchMarkRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Body tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	in, err := req.ToInput(markedBy(c))
	if err != nil {
		return badRequest(c, err.Error())
	}

	out, err := ctl.Svc.MarkBatch(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	msg := fmt.Sprintf("%d of %d students marked", out.SuccessCount, len(in.Entries))
	if out.SuccessCount == 0 {
		return helper.JsonOK(c, msg, out)
	}
	return helper.JsonCreated(c, msg, out)
}

// POST /api/u/attendance/students/self
func (ctl *StudentAttendanceController) SelfMark(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	req, err := parseLocation(c)
	if err != nil {
		return badRequest(c, "Body tidak valid")
	}

	out, err := ctl.Svc.SelfMark(c.UserContext(), userID, req.ToCoordinates())
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonCreated(c,
		fmt.Sprintf("Checked in at %s (%.0fm away)", out.Zone.ZoneName, out.Zone.DistanceMeters), out)
}

// GET /api/a/attendance/students/student/:student_id?from=&to=&category=
func (ctl *StudentAttendanceController) ListByStudent(c *fiber.Ctx) error {
	studentID, err := parseUUIDParam(c, "student_id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var q dto.StudentStatsQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "Query tidak valid")
	}
	r, err := q.Range()
	if err != nil {
		return badRequest(c, err.Error())
	}
	var category *string
	if s := strings.TrimSpace(q.Category); s != "" {
		category = &s
	}

	out, err := ctl.Svc.ListByStudent(c.UserContext(), studentID, r, category)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}

// GET /api/a/attendance/students/date?date=YYYY-MM-DD
func (ctl *StudentAttendanceController) ListByDate(c *fiber.Ctx) error {
	raw := strings.TrimSpace(c.Query("date"))
	if raw == "" {
		return badRequest(c, "date wajib diisi (YYYY-MM-DD)")
	}
	day, err := dbtime.ParseDay(raw)
	if err != nil {
		return badRequest(c, err.Error())
	}
	p := helper.ResolvePaging(c, 50, 500)

	rows, total, err := ctl.Svc.ListByDate(c.UserContext(), day, p.Limit, p.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /api/a/attendance/students/batch/:batch_id?date=
func (ctl *StudentAttendanceController) ListByBatch(c *fiber.Ctx) error {
	batchID, err := parseUUIDParam(c, "batch_id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var day *time.Time
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		d, err := dbtime.ParseDay(raw)
		if err != nil {
			return badRequest(c, err.Error())
		}
		day = &d
	}

	out, err := ctl.Svc.ListByBatch(c.UserContext(), batchID, day)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}

// PATCH /api/a/attendance/students/:id
func (ctl *StudentAttendanceController) Update(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	var req dto.UpdateStudentAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Body tidak valid")
	}
	if err := ctl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	in, err := req.ToInput()
	if err != nil {
		return badRequest(c, err.Error())
	}

	out, err := ctl.Svc.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonUpdated(c, "Attendance updated", out)
}

// DELETE /api/a/attendance/students/:id
func (ctl *StudentAttendanceController) Delete(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	rollup, err := ctl.Svc.Delete(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonDeleted(c, "Attendance deleted", fiber.Map{
		"student_attendance_id": id,
		"rollup":                rollup,
	})
}

// GET /api/a/attendance/students/stats?from=&to=&category=&branch=
func (ctl *StudentAttendanceController) Overview(c *fiber.Ctx) error {
	var q dto.StudentStatsQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "Query tidak valid")
	}
	r, err := q.Range()
	if err != nil {
		return badRequest(c, err.Error())
	}
	f := service.OverviewFilter{DateRange: r}
	if s := strings.TrimSpace(q.Category); s != "" {
		f.Category = &s
	}
	if s := strings.TrimSpace(q.Branch); s != "" {
		f.Branch = &s
	}

	out, err := ctl.Svc.Overview(c.UserContext(), f)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}
