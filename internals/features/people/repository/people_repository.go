// file: internals/features/people/repository/people_repository.go
package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"institute_backend/internals/features/people/model"
)

// Semua lookup mengembalikan (nil, nil) kalau baris tidak ada.

/* ====================== STAFF ====================== */

func StaffByUser(db *gorm.DB, userID uuid.UUID) (*model.StaffModel, error) {
	var s model.StaffModel
	err := db.Where("staff_user_id = ?", userID).Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func CreateStaff(db *gorm.DB, s *model.StaffModel) error {
	return db.Create(s).Error
}

/* ====================== STUDENT ====================== */

func StudentByUser(db *gorm.DB, userID uuid.UUID) (*model.StudentModel, error) {
	var s model.StudentModel
	err := db.Where("student_user_id = ?", userID).Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func StudentByID(db *gorm.DB, id uuid.UUID) (*model.StudentModel, error) {
	var s model.StudentModel
	err := db.Where("student_id = ?", id).Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// LockStudent: SELECT ... FOR UPDATE pada baris murid (postgres saja; sqlite
// sudah serial per koneksi tulis). Dipakai di dalam transaksi ledger+rollup.
func LockStudent(tx *gorm.DB, id uuid.UUID) (*model.StudentModel, error) {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return StudentByID(q, id)
}

func CreateStudent(db *gorm.DB, s *model.StudentModel) error {
	return db.Create(s).Error
}

// StudentsPage: keyset pagination by student_id (untuk reconcile).
func StudentsPage(db *gorm.DB, after uuid.UUID, limit int) ([]model.StudentModel, error) {
	if limit <= 0 {
		limit = 200
	}
	var rows []model.StudentModel
	q := db.Model(&model.StudentModel{}).Order("student_id ASC").Limit(limit)
	if after != uuid.Nil {
		q = q.Where("student_id > ?", after)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SaveStudentRollup menulis tiga nilai rollup (+ scope) ke profil murid.
func SaveStudentRollup(db *gorm.DB, studentID uuid.UUID, r model.StudentRollup, at time.Time) error {
	res := db.Model(&model.StudentModel{}).
		Where("student_id = ?", studentID).
		Updates(map[string]any{
			"student_total_sessions":        r.Total,
			"student_attended_sessions":     r.Attended,
			"student_attendance_percentage": r.Percentage,
			"student_rollup_category":       r.Category,
			"student_rollup_updated_at":     at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

/* ====================== BATCH ====================== */

func BatchByID(db *gorm.DB, id uuid.UUID) (*model.BatchModel, error) {
	var b model.BatchModel
	err := db.Where("batch_id = ?", id).Take(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func CreateBatch(db *gorm.DB, b *model.BatchModel) error {
	return db.Create(b).Error
}

// StudentIDsInBatch: roster batch saat ini.
func StudentIDsInBatch(db *gorm.DB, batchID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := db.Model(&model.StudentModel{}).
		Where("student_batch_id = ?", batchID).
		Order("student_name ASC").
		Pluck("student_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
