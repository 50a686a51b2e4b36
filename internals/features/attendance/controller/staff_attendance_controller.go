// file: internals/features/attendance/controller/staff_attendance_controller.go
package controller

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"institute_backend/internals/features/attendance/dto"
	"institute_backend/internals/features/attendance/model"
	attRepo "institute_backend/internals/features/attendance/repository"
	"institute_backend/internals/features/attendance/service"
	helper "institute_backend/internals/helpers"
	"institute_backend/internals/helpers/dbtime"
)

type StaffAttendanceController struct {
	Svc *service.StaffService
}

func NewStaffAttendanceController(svc *service.StaffService) *StaffAttendanceController {
	return &StaffAttendanceController{Svc: svc}
}

func parseLocation(c *fiber.Ctx) (dto.LocationRequest, error) {
	var req dto.LocationRequest
	if len(c.Body()) == 0 {
		return req, nil // → MISSING_LOCATION dari service
	}
	if err := c.BodyParser(&req); err != nil {
		return req, err
	}
	return req, nil
}

// POST /api/u/attendance/staff/check-in
func (ctl *StaffAttendanceController) CheckIn(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	req, err := parseLocation(c)
	if err != nil {
		return badRequest(c, "Body tidak valid")
	}

	out, err := ctl.Svc.CheckIn(c.UserContext(), userID, req.ToCoordinates())
	if err != nil {
		return writeError(c, err)
	}
	msg := fmt.Sprintf("Checked in at %s (%.0fm away)", out.Zone.ZoneName, out.Zone.DistanceMeters)
	if out.Record.StaffAttendanceIsLate {
		msg += fmt.Sprintf(", late by %d minutes", out.Record.StaffAttendanceLateByMinutes)
	}
	return helper.JsonCreated(c, msg, out)
}

// POST /api/u/attendance/staff/check-out
func (ctl *StaffAttendanceController) CheckOut(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	req, err := parseLocation(c)
	if err != nil {
		return badRequest(c, "Body tidak valid")
	}

	out, err := ctl.Svc.CheckOut(c.UserContext(), userID, req.ToCoordinates())
	if err != nil {
		return writeError(c, err)
	}
	msg := fmt.Sprintf("Checked out at %s, worked %.2f hours", out.Zone.ZoneName, out.WorkingHours)
	if out.Record.StaffAttendanceStatus == model.StatusHalfDay {
		msg += " (half day)"
	}
	return helper.JsonUpdated(c, msg, out)
}

// GET /api/u/attendance/staff/me?from=&to= | ?month=YYYY-MM
func (ctl *StaffAttendanceController) MyRecords(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var q dto.DateRangeQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "Query tidak valid")
	}
	r, err := q.Resolve()
	if err != nil {
		return badRequest(c, err.Error())
	}

	out, err := ctl.Svc.MyRecords(c.UserContext(), userID, r)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}

// GET /api/u/attendance/staff/today
func (ctl *StaffAttendanceController) Today(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	out, err := ctl.Svc.Today(c.UserContext(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, out.Status, out)
}

func staffFilterFromQuery(c *fiber.Ctx) (attRepo.StaffFilter, error) {
	var f attRepo.StaffFilter
	var q dto.StaffListQuery
	if err := c.QueryParser(&q); err != nil {
		return f, fmt.Errorf("query tidak valid")
	}

	if s := strings.TrimSpace(q.Date); s != "" {
		d, err := dbtime.ParseDay(s)
		if err != nil {
			return f, err
		}
		f.Date = &d
	} else {
		r, err := q.Range()
		if err != nil {
			return f, err
		}
		f.From, f.To = r.From, r.To
	}
	if s := strings.TrimSpace(q.StaffID); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return f, fmt.Errorf("staff_id tidak valid")
		}
		f.StaffID = &id
	}
	if s := strings.TrimSpace(q.Status); s != "" {
		st, ok := model.ParseStatus(s)
		if !ok {
			return f, fmt.Errorf("status tidak valid (present/absent/late/half_day)")
		}
		f.Status = &st
	}
	return f, nil
}

// GET /api/a/attendance/staff
func (ctl *StaffAttendanceController) AdminList(c *fiber.Ctx) error {
	f, err := staffFilterFromQuery(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	p := helper.ResolvePaging(c, 20, 200)
	f.Limit, f.Offset = p.Limit, p.Offset

	rows, total, err := ctl.Svc.AdminList(c.UserContext(), f)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPaginationFromPage(total, p.Page, p.PerPage))
}

// GET /api/a/attendance/staff/stats
func (ctl *StaffAttendanceController) AdminStats(c *fiber.Ctx) error {
	f, err := staffFilterFromQuery(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	out, err := ctl.Svc.AdminStats(c.UserContext(), f)
	if err != nil {
		return writeError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}
