// file: internals/features/attendance/service/staff_service.go
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"institute_backend/internals/features/attendance/errs"
	"institute_backend/internals/features/attendance/geo"
	"institute_backend/internals/features/attendance/model"
	"institute_backend/internals/features/attendance/policy"
	attRepo "institute_backend/internals/features/attendance/repository"
	peopleModel "institute_backend/internals/features/people/model"
	peopleRepo "institute_backend/internals/features/people/repository"
)

const (
	TodayNotCheckedIn = "not_checked_in"
	TodayCheckedIn    = "checked_in"
	TodayCompleted    = "completed"
)

type StaffService struct {
	DB      *gorm.DB
	Geo     *geo.Validator
	Policy  policy.TimeWindow
	Now     func() time.Time
	Timeout time.Duration
}

func NewStaffService(db *gorm.DB, v *geo.Validator, p policy.TimeWindow, timeout time.Duration) *StaffService {
	return &StaffService{DB: db, Geo: v, Policy: p, Now: time.Now, Timeout: timeout}
}

type StaffCheckInResult struct {
	Record *model.StaffAttendanceModel `json:"record"`
	Zone   ZoneInfo                    `json:"zone"`
}

type StaffCheckOutResult struct {
	Record       *model.StaffAttendanceModel `json:"record"`
	Zone         ZoneInfo                    `json:"zone"`
	WorkingHours float64                     `json:"working_hours"`
}

func (s *StaffService) staffOf(db *gorm.DB, userID uuid.UUID) (*peopleModel.StaffModel, error) {
	st, err := peopleRepo.StaffByUser(db, userID)
	if err != nil {
		return nil, attRepo.StoreError(err, "failed to resolve staff profile")
	}
	if st == nil {
		return nil, errs.New(errs.KindProfileNotLinked, "no staff profile linked to this account").
			With("user_id", userID)
	}
	return st, nil
}

// CheckIn: NotCheckedIn → CheckedIn.
func (s *StaffService) CheckIn(ctx context.Context, userID uuid.UUID, c Coordinates) (*StaffCheckInResult, error) {
	snap, zone, err := locate(s.Geo, c)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()
	db := s.DB.WithContext(ctx)

	staff, err := s.staffOf(db, userID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	out := s.Policy.EvaluateCheckIn(now)

	rec := &model.StaffAttendanceModel{
		StaffAttendanceStaffID:          staff.StaffID,
		StaffAttendanceDate:             out.Day,
		StaffAttendanceCheckInAt:        now,
		StaffAttendanceIsLate:           out.IsLate,
		StaffAttendanceLateByMinutes:    out.LateByMinutes,
		StaffAttendanceStatus:           out.Status,
		StaffAttendanceRemarks:          appendRemark(nil, out.Remarks),
		StaffAttendanceCheckInLocation:  datatypes.NewJSONType(snap),
		StaffAttendanceCheckOutLocation: datatypes.NewJSONType[*model.LocationSnapshot](nil),
	}
	if err := attRepo.InsertStaffAttendance(db, rec); err != nil {
		return nil, attRepo.StoreError(err, "failed to record check-in")
	}

	log.Printf("[ATTENDANCE] staff=%s check-in %s at %s (%.0fm) late=%v",
		staff.StaffID, out.Day.Format("2006-01-02"), zone.ZoneName, zone.DistanceMeters, out.IsLate)
	return &StaffCheckInResult{Record: rec, Zone: zone}, nil
}

// CheckOut: CheckedIn → Completed.
func (s *StaffService) CheckOut(ctx context.Context, userID uuid.UUID, c Coordinates) (*StaffCheckOutResult, error) {
	snap, zone, err := locate(s.Geo, c)
	if err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()
	db := s.DB.WithContext(ctx)

	staff, err := s.staffOf(db, userID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	day := s.Policy.EvaluateCheckIn(now).Day

	rec, err := attRepo.FindStaffAttendanceByDay(db, staff.StaffID, day)
	if err != nil {
		return nil, attRepo.StoreError(err, "failed to load today's attendance")
	}
	if rec == nil {
		return nil, errs.New(errs.KindNoOpenCheckIn, "no check-in found for today, check in first")
	}
	if rec.Completed() {
		return nil, errs.New(errs.KindAlreadyCompleted, "attendance already completed for today").
			With("record_id", rec.StaffAttendanceID)
	}

	out, err := s.Policy.EvaluateCheckOut(rec.StaffAttendanceCheckInAt, now, rec.StaffAttendanceStatus)
	if err != nil {
		if errors.Is(err, policy.ErrCheckOutNotAfterCheckIn) {
			return nil, errs.Wrap(errs.KindInvalidInput, "check-out must be after check-in", err).
				With("record_id", rec.StaffAttendanceID)
		}
		return nil, err
	}

	remarks := rec.StaffAttendanceRemarks
	if out.HalfDay {
		remarks = appendRemark(remarks, out.Note)
	}
	if err := attRepo.CompleteStaffAttendance(db, rec.StaffAttendanceID, attRepo.StaffCheckOut{
		At:           now,
		WorkingHours: out.WorkingHours,
		Status:       out.Status,
		Remarks:      remarks,
		Location:     snap,
	}); err != nil {
		return nil, attRepo.StoreError(err, "failed to record check-out")
	}

	updated, err := attRepo.FindStaffAttendanceByID(db, rec.StaffAttendanceID)
	if err != nil || updated == nil {
		// update sudah commit; kembalikan versi lokal
		hours := out.WorkingHours
		rec.StaffAttendanceCheckOutAt = &now
		rec.StaffAttendanceWorkingHours = &hours
		rec.StaffAttendanceStatus = out.Status
		rec.StaffAttendanceRemarks = remarks
		rec.StaffAttendanceCheckOutLocation = datatypes.NewJSONType(&snap)
		updated = rec
	}

	log.Printf("[ATTENDANCE] staff=%s check-out %s hours=%.2f status=%s",
		staff.StaffID, day.Format("2006-01-02"), out.WorkingHours, out.Status)
	return &StaffCheckOutResult{Record: updated, Zone: zone, WorkingHours: out.WorkingHours}, nil
}

/* ===================== Queries ===================== */

type StaffSummary struct {
	TotalDays       int     `json:"total_days"`
	PresentDays     int     `json:"present_days"`
	LateDays        int     `json:"late_days"`
	HalfDays        int     `json:"half_days"`
	AvgWorkingHours float64 `json:"avg_working_hours"`
}

type StaffRecordsResult struct {
	Records []model.StaffAttendanceModel `json:"records"`
	Summary StaffSummary                 `json:"summary"`
}

// summarize: present = status present, late = pernah telat (isLate), half = status half_day.
func summarize(rows []model.StaffAttendanceModel) StaffSummary {
	sum := StaffSummary{TotalDays: len(rows)}
	var hours float64
	var completed int
	for _, r := range rows {
		switch r.StaffAttendanceStatus {
		case model.StatusPresent:
			sum.PresentDays++
		case model.StatusHalfDay:
			sum.HalfDays++
		}
		if r.StaffAttendanceIsLate {
			sum.LateDays++
		}
		if r.StaffAttendanceWorkingHours != nil {
			hours += *r.StaffAttendanceWorkingHours
			completed++
		}
	}
	if completed > 0 {
		sum.AvgWorkingHours = policy.Round2(hours / float64(completed))
	}
	return sum
}

// MyRecords: riwayat milik staff sendiri dalam rentang.
func (s *StaffService) MyRecords(ctx context.Context, userID uuid.UUID, r DateRange) (*StaffRecordsResult, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()
	db := s.DB.WithContext(ctx)

	staff, err := s.staffOf(db, userID)
	if err != nil {
		return nil, err
	}
	rows, _, err := attRepo.QueryStaffAttendance(db, attRepo.StaffFilter{
		StaffID: &staff.StaffID,
		From:    r.From,
		To:      r.To,
	})
	if err != nil {
		return nil, attRepo.StoreError(err, "failed to load attendance")
	}
	if rows == nil {
		rows = []model.StaffAttendanceModel{}
	}
	return &StaffRecordsResult{Records: rows, Summary: summarize(rows)}, nil
}

type StaffTodayResult struct {
	Status string                      `json:"status"`
	Record *model.StaffAttendanceModel `json:"record"`
}

func (s *StaffService) Today(ctx context.Context, userID uuid.UUID) (*StaffTodayResult, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()
	db := s.DB.WithContext(ctx)

	staff, err := s.staffOf(db, userID)
	if err != nil {
		return nil, err
	}
	day := s.Policy.EvaluateCheckIn(s.Now()).Day
	rec, err := attRepo.FindStaffAttendanceByDay(db, staff.StaffID, day)
	if err != nil {
		return nil, attRepo.StoreError(err, "failed to load today's attendance")
	}
	switch {
	case rec == nil:
		return &StaffTodayResult{Status: TodayNotCheckedIn}, nil
	case rec.Completed():
		return &StaffTodayResult{Status: TodayCompleted, Record: rec}, nil
	default:
		return &StaffTodayResult{Status: TodayCheckedIn, Record: rec}, nil
	}
}

// AdminList: semua staff dengan filter + paging.
func (s *StaffService) AdminList(ctx context.Context, f attRepo.StaffFilter) ([]model.StaffAttendanceModel, int64, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()

	rows, total, err := attRepo.QueryStaffAttendance(s.DB.WithContext(ctx), f)
	if err != nil {
		return nil, 0, attRepo.StoreError(err, "failed to list staff attendance")
	}
	if rows == nil {
		rows = []model.StaffAttendanceModel{}
	}
	return rows, total, nil
}

type StaffStats struct {
	TotalRecords      int64                            `json:"total_records"`
	ByStatus          map[model.AttendanceStatus]int64 `json:"by_status"`
	LateCount         int64                            `json:"late_count"`
	TotalWorkingHours float64                          `json:"total_working_hours"`
	AvgWorkingHours   float64                          `json:"avg_working_hours"`
}

func (s *StaffService) AdminStats(ctx context.Context, f attRepo.StaffFilter) (*StaffStats, error) {
	ctx, cancel := withTimeout(ctx, s.Timeout)
	defer cancel()
	db := s.DB.WithContext(ctx)

	f.Limit, f.Offset, f.Status = 0, 0, nil
	buckets, err := attRepo.StaffStatusBuckets(db, f)
	if err != nil {
		return nil, attRepo.StoreError(err, "failed to aggregate staff attendance")
	}

	out := &StaffStats{ByStatus: map[model.AttendanceStatus]int64{}}
	for _, st := range model.AllStatuses {
		out.ByStatus[st] = 0
	}
	var completed int64
	for _, b := range buckets {
		out.ByStatus[b.Status] += b.Count
		out.TotalRecords += b.Count
		out.TotalWorkingHours += b.Hours
		completed += b.HoursCount
	}
	out.TotalWorkingHours = policy.Round2(out.TotalWorkingHours)
	if completed > 0 {
		out.AvgWorkingHours = policy.Round2(out.TotalWorkingHours / float64(completed))
	}

	var late int64
	if err := db.Model(&model.StaffAttendanceModel{}).
		Scopes(attRepo.StaffFilterScope(f)).
		Where("staff_attendance_is_late = ?", true).
		Count(&late).Error; err != nil {
		return nil, attRepo.StoreError(err, "failed to count late check-ins")
	}
	out.LateCount = late
	return out, nil
}
