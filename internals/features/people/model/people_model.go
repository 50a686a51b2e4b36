// file: internals/features/people/model/people_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ====================== BATCH ====================== */

type BatchModel struct {
	BatchID       uuid.UUID `gorm:"type:uuid;primaryKey;column:batch_id" json:"batch_id"`
	BatchName     string    `gorm:"type:varchar(120);not null;column:batch_name" json:"batch_name"`
	BatchCategory string    `gorm:"type:varchar(120);not null;default:'';column:batch_category" json:"batch_category"`
	BatchBranch   *string   `gorm:"type:varchar(120);column:batch_branch" json:"batch_branch,omitempty"`

	BatchCreatedAt time.Time `gorm:"column:batch_created_at;autoCreateTime" json:"batch_created_at"`
	BatchUpdatedAt time.Time `gorm:"column:batch_updated_at;autoUpdateTime" json:"batch_updated_at"`
}

func (BatchModel) TableName() string { return "batches" }

func (m *BatchModel) BeforeCreate(tx *gorm.DB) error {
	if m.BatchID == uuid.Nil {
		m.BatchID = uuid.New()
	}
	return nil
}

/* ====================== STUDENT ====================== */

// StudentModel: profil murid. Kolom rollup hanya ditulis oleh AggregateMaintainer.
type StudentModel struct {
	StudentID     uuid.UUID  `gorm:"type:uuid;primaryKey;column:student_id" json:"student_id"`
	StudentUserID *uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_students_user;column:student_user_id" json:"student_user_id,omitempty"`
	StudentName   string     `gorm:"type:varchar(120);not null;column:student_name" json:"student_name"`

	StudentBatchID  *uuid.UUID `gorm:"type:uuid;index:idx_students_batch;column:student_batch_id" json:"student_batch_id,omitempty"`
	StudentCategory string     `gorm:"type:varchar(120);not null;default:'';column:student_category" json:"student_category"`
	StudentBranch   *string    `gorm:"type:varchar(120);column:student_branch" json:"student_branch,omitempty"`

	// rollup
	StudentTotalSessions        int        `gorm:"not null;default:0;column:student_total_sessions" json:"student_total_sessions"`
	StudentAttendedSessions     int        `gorm:"not null;default:0;column:student_attended_sessions" json:"student_attended_sessions"`
	StudentAttendancePercentage int        `gorm:"not null;default:0;column:student_attendance_percentage" json:"student_attendance_percentage"`
	StudentRollupCategory       string     `gorm:"type:varchar(120);not null;default:'';column:student_rollup_category" json:"student_rollup_category"`
	StudentRollupUpdatedAt      *time.Time `gorm:"column:student_rollup_updated_at" json:"student_rollup_updated_at,omitempty"`

	StudentCreatedAt time.Time `gorm:"column:student_created_at;autoCreateTime" json:"student_created_at"`
	StudentUpdatedAt time.Time `gorm:"column:student_updated_at;autoUpdateTime" json:"student_updated_at"`
}

func (StudentModel) TableName() string { return "students" }

func (m *StudentModel) BeforeCreate(tx *gorm.DB) error {
	if m.StudentID == uuid.Nil {
		m.StudentID = uuid.New()
	}
	return nil
}

// StudentRollup: nilai turunan dari ledger untuk satu (student, category).
type StudentRollup struct {
	Category   string `json:"category"`
	Total      int    `json:"total_sessions"`
	Attended   int    `json:"attended_sessions"`
	Percentage int    `json:"percentage"`
}

/* ====================== STAFF ====================== */

type StaffModel struct {
	StaffID     uuid.UUID  `gorm:"type:uuid;primaryKey;column:staff_id" json:"staff_id"`
	StaffUserID *uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_staff_user;column:staff_user_id" json:"staff_user_id,omitempty"`
	StaffName   string     `gorm:"type:varchar(120);not null;column:staff_name" json:"staff_name"`
	StaffBranch *string    `gorm:"type:varchar(120);column:staff_branch" json:"staff_branch,omitempty"`
	StaffRole   string     `gorm:"type:varchar(32);not null;default:'staff';column:staff_role" json:"staff_role"`

	StaffCreatedAt time.Time `gorm:"column:staff_created_at;autoCreateTime" json:"staff_created_at"`
	StaffUpdatedAt time.Time `gorm:"column:staff_updated_at;autoUpdateTime" json:"staff_updated_at"`
}

func (StaffModel) TableName() string { return "staff" }

func (m *StaffModel) BeforeCreate(tx *gorm.DB) error {
	if m.StaffID == uuid.Nil {
		m.StaffID = uuid.New()
	}
	return nil
}
