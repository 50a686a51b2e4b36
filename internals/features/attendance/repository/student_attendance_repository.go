// file: internals/features/attendance/repository/student_attendance_repository.go
package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"institute_backend/internals/features/attendance/errs"
	"institute_backend/internals/features/attendance/model"
)

type StudentFilter struct {
	StudentID  *uuid.UUID
	StudentIDs []uuid.UUID // roster
	Date       *time.Time
	From       *time.Time
	To         *time.Time
	Session    *string
	Category   *string
	Branch     *string
	Status     *model.AttendanceStatus
	Limit      int
	Offset     int
}

func (f StudentFilter) apply(q *gorm.DB) *gorm.DB {
	if f.StudentID != nil {
		q = q.Where("student_attendance_student_id = ?", *f.StudentID)
	}
	if f.StudentIDs != nil {
		q = q.Where("student_attendance_student_id IN ?", f.StudentIDs)
	}
	if f.Date != nil {
		q = q.Where("student_attendance_date = ?", *f.Date)
	}
	if f.From != nil {
		q = q.Where("student_attendance_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("student_attendance_date <= ?", *f.To)
	}
	if f.Session != nil {
		q = q.Where("student_attendance_session = ?", *f.Session)
	}
	if f.Category != nil {
		q = q.Where("student_attendance_category = ?", *f.Category)
	}
	if f.Branch != nil {
		q = q.Where("student_attendance_branch = ?", *f.Branch)
	}
	if f.Status != nil {
		q = q.Where("student_attendance_status = ?", *f.Status)
	}
	return q
}

func FindStudentAttendanceByKey(db *gorm.DB, studentID uuid.UUID, day time.Time, session string) (*model.StudentAttendanceModel, error) {
	var m model.StudentAttendanceModel
	err := db.Where("student_attendance_student_id = ? AND student_attendance_date = ? AND student_attendance_session = ?",
		studentID, day, session).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func FindStudentAttendanceByID(db *gorm.DB, id uuid.UUID) (*model.StudentAttendanceModel, error) {
	var m model.StudentAttendanceModel
	err := db.Where("student_attendance_id = ?", id).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// InsertStudentAttendance: duplicate guard + insert. Lookup memberi id record yang bentrok;
// unique index (student, date, session) menutup sisa race di level store.
func InsertStudentAttendance(db *gorm.DB, rec *model.StudentAttendanceModel) error {
	existing, err := FindStudentAttendanceByKey(db, rec.StudentAttendanceStudentID, rec.StudentAttendanceDate, rec.StudentAttendanceSession)
	if err != nil {
		return err
	}
	if existing != nil {
		return duplicateStudent(rec).With("record_id", existing.StudentAttendanceID)
	}
	if err := db.Create(rec).Error; err != nil {
		if isDuplicateKey(err) {
			return duplicateStudent(rec)
		}
		return err
	}
	return nil
}

func duplicateStudent(rec *model.StudentAttendanceModel) *errs.Error {
	return errs.Newf(errs.KindDuplicateRecord, "attendance already marked for session %q on %s",
		rec.StudentAttendanceSession, rec.StudentAttendanceDate.Format("2006-01-02")).
		With("student_id", rec.StudentAttendanceStudentID)
}

// UpdateStudentAttendance: patch kolom (status / remarks). RowsAffected 0 → not found.
func UpdateStudentAttendance(db *gorm.DB, id uuid.UUID, patch map[string]any) error {
	if len(patch) == 0 {
		return nil
	}
	res := db.Model(&model.StudentAttendanceModel{}).
		Where("student_attendance_id = ?", id).
		Updates(patch)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.New(errs.KindRecordNotFound, "attendance record not found").With("record_id", id)
	}
	return nil
}

func DeleteStudentAttendance(db *gorm.DB, id uuid.UUID) error {
	res := db.Where("student_attendance_id = ?", id).Delete(&model.StudentAttendanceModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.New(errs.KindRecordNotFound, "attendance record not found").With("record_id", id)
	}
	return nil
}

func QueryStudentAttendance(db *gorm.DB, f StudentFilter) ([]model.StudentAttendanceModel, int64, error) {
	var total int64
	if err := f.apply(db.Model(&model.StudentAttendanceModel{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := f.apply(db.Model(&model.StudentAttendanceModel{})).
		Order("student_attendance_date DESC, student_attendance_session ASC, student_attendance_created_at ASC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	var rows []model.StudentAttendanceModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

type StatusCount struct {
	Status model.AttendanceStatus `gorm:"column:status"`
	Count  int64                  `gorm:"column:cnt"`
}

func StudentStatusCounts(db *gorm.DB, f StudentFilter) (map[model.AttendanceStatus]int64, error) {
	var rows []StatusCount
	if err := f.apply(db.Model(&model.StudentAttendanceModel{})).
		Select("student_attendance_status AS status, COUNT(*) AS cnt").
		Group("student_attendance_status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[model.AttendanceStatus]int64, len(rows))
	for _, r := range rows {
		out[r.Status] = r.Count
	}
	return out, nil
}

// CountForRollup: total & hadir (present/late) untuk satu (student, category).
func CountForRollup(db *gorm.DB, studentID uuid.UUID, category string) (total, attended int64, err error) {
	var row struct {
		Total    int64 `gorm:"column:total"`
		Attended int64 `gorm:"column:attended"`
	}
	err = db.Model(&model.StudentAttendanceModel{}).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN student_attendance_status IN (?, ?) THEN 1 ELSE 0 END), 0) AS attended`,
			model.StatusPresent, model.StatusLate).
		Where("student_attendance_student_id = ? AND student_attendance_category = ?", studentID, category).
		Scan(&row).Error
	return row.Total, row.Attended, err
}
