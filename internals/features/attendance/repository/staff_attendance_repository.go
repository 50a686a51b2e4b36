// file: internals/features/attendance/repository/staff_attendance_repository.go
package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"institute_backend/internals/features/attendance/errs"
	"institute_backend/internals/features/attendance/model"
)

type StaffFilter struct {
	StaffID *uuid.UUID
	Date    *time.Time // day bucket
	From    *time.Time // inklusif
	To      *time.Time // inklusif
	Status  *model.AttendanceStatus
	Limit   int
	Offset  int
}

func (f StaffFilter) apply(q *gorm.DB) *gorm.DB {
	if f.StaffID != nil {
		q = q.Where("staff_attendance_staff_id = ?", *f.StaffID)
	}
	if f.Date != nil {
		q = q.Where("staff_attendance_date = ?", *f.Date)
	}
	if f.From != nil {
		q = q.Where("staff_attendance_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("staff_attendance_date <= ?", *f.To)
	}
	if f.Status != nil {
		q = q.Where("staff_attendance_status = ?", *f.Status)
	}
	return q
}

func FindStaffAttendanceByDay(db *gorm.DB, staffID uuid.UUID, day time.Time) (*model.StaffAttendanceModel, error) {
	var m model.StaffAttendanceModel
	err := db.Where("staff_attendance_staff_id = ? AND staff_attendance_date = ?", staffID, day).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// InsertStaffAttendance: satu siklus per (staff, hari). Konflik dilaporkan sesuai state
// record yang sudah ada.
func InsertStaffAttendance(db *gorm.DB, rec *model.StaffAttendanceModel) error {
	existing, err := FindStaffAttendanceByDay(db, rec.StaffAttendanceStaffID, rec.StaffAttendanceDate)
	if err != nil {
		return err
	}
	if existing != nil {
		return staffConflict(existing)
	}
	if err := db.Create(rec).Error; err != nil {
		if isDuplicateKey(err) {
			// kalah balapan dengan request lain di hari yang sama
			return errs.New(errs.KindAlreadyCheckedIn, "already checked in today, check out first")
		}
		return err
	}
	return nil
}

func staffConflict(existing *model.StaffAttendanceModel) *errs.Error {
	if existing.Completed() {
		return errs.New(errs.KindAlreadyCompleted, "attendance already completed for today").
			With("record_id", existing.StaffAttendanceID)
	}
	return errs.New(errs.KindAlreadyCheckedIn, "already checked in today, check out first").
		With("record_id", existing.StaffAttendanceID)
}

type StaffCheckOut struct {
	At           time.Time
	WorkingHours float64
	Status       model.AttendanceStatus
	Remarks      *string
	Location     model.LocationSnapshot
}

// CompleteStaffAttendance: update terjaga (hanya kalau belum check-out).
func CompleteStaffAttendance(db *gorm.DB, id uuid.UUID, co StaffCheckOut) error {
	loc := co.Location
	res := db.Model(&model.StaffAttendanceModel{}).
		Where("staff_attendance_id = ? AND staff_attendance_check_out_at IS NULL", id).
		Updates(map[string]any{
			"staff_attendance_check_out_at":       co.At,
			"staff_attendance_working_hours":      co.WorkingHours,
			"staff_attendance_status":             co.Status,
			"staff_attendance_remarks":            co.Remarks,
			"staff_attendance_check_out_location": datatypes.NewJSONType(&loc),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.New(errs.KindAlreadyCompleted, "attendance already completed for today").
			With("record_id", id)
	}
	return nil
}

func FindStaffAttendanceByID(db *gorm.DB, id uuid.UUID) (*model.StaffAttendanceModel, error) {
	var m model.StaffAttendanceModel
	err := db.Where("staff_attendance_id = ?", id).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// QueryStaffAttendance: terbaru dulu. Limit <= 0 berarti tanpa batas.
func QueryStaffAttendance(db *gorm.DB, f StaffFilter) ([]model.StaffAttendanceModel, int64, error) {
	var total int64
	if err := f.apply(db.Model(&model.StaffAttendanceModel{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := f.apply(db.Model(&model.StaffAttendanceModel{})).
		Order("staff_attendance_date DESC, staff_attendance_check_in_at DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	var rows []model.StaffAttendanceModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

type StaffStatusBucket struct {
	Status     model.AttendanceStatus `gorm:"column:status"`
	Count      int64                  `gorm:"column:cnt"`
	Hours      float64                `gorm:"column:hours"`
	HoursCount int64                  `gorm:"column:hours_cnt"`
}

// StaffStatusBuckets: agregat per status (jumlah + total jam kerja yang sudah terisi).
func StaffStatusBuckets(db *gorm.DB, f StaffFilter) ([]StaffStatusBucket, error) {
	var out []StaffStatusBucket
	err := f.apply(db.Model(&model.StaffAttendanceModel{})).
		Select(`staff_attendance_status AS status,
			COUNT(*) AS cnt,
			COALESCE(SUM(staff_attendance_working_hours), 0) AS hours,
			COUNT(staff_attendance_working_hours) AS hours_cnt`).
		Group("staff_attendance_status").
		Scan(&out).Error
	return out, err
}

// StaffFilterScope: filter sebagai gorm scope (untuk query tambahan di service).
func StaffFilterScope(f StaffFilter) func(*gorm.DB) *gorm.DB {
	return f.apply
}
