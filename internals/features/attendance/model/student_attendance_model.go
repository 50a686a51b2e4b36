// file: internals/features/attendance/model/student_attendance_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type StudentAttendanceModel struct {
	StudentAttendanceID uuid.UUID `gorm:"type:uuid;primaryKey;column:student_attendance_id" json:"student_attendance_id"`

	// kunci unik: (student, date, session)
	StudentAttendanceStudentID uuid.UUID `gorm:"type:uuid;not null;column:student_attendance_student_id;uniqueIndex:uq_student_attendance_key,priority:1;index:idx_student_attendance_rollup,priority:1" json:"student_attendance_student_id"`
	StudentAttendanceDate      time.Time `gorm:"type:date;not null;column:student_attendance_date;uniqueIndex:uq_student_attendance_key,priority:2;index:idx_student_attendance_date" json:"student_attendance_date"`
	StudentAttendanceSession   string    `gorm:"type:varchar(64);not null;column:student_attendance_session;uniqueIndex:uq_student_attendance_key,priority:3" json:"student_attendance_session"`

	// metadata untuk scope rollup & laporan
	StudentAttendanceCategory string     `gorm:"type:varchar(120);not null;default:'';column:student_attendance_category;index:idx_student_attendance_rollup,priority:2" json:"student_attendance_category"`
	StudentAttendanceBatchID  *uuid.UUID `gorm:"type:uuid;column:student_attendance_batch_id;index:idx_student_attendance_batch" json:"student_attendance_batch_id,omitempty"`
	StudentAttendanceBranch   *string    `gorm:"type:varchar(120);column:student_attendance_branch" json:"student_attendance_branch,omitempty"`

	StudentAttendanceStatus  AttendanceStatus `gorm:"type:varchar(16);not null;column:student_attendance_status;index:idx_student_attendance_status" json:"student_attendance_status"`
	StudentAttendanceRemarks *string          `gorm:"type:text;column:student_attendance_remarks" json:"student_attendance_remarks,omitempty"`
	StudentAttendanceMarkedBy *uuid.UUID      `gorm:"type:uuid;column:student_attendance_marked_by" json:"student_attendance_marked_by,omitempty"`

	// hanya terisi untuk self check-in
	StudentAttendanceLocation datatypes.JSONType[*LocationSnapshot] `gorm:"not null;column:student_attendance_location" json:"student_attendance_location"`

	StudentAttendanceCreatedAt time.Time `gorm:"column:student_attendance_created_at;autoCreateTime" json:"student_attendance_created_at"`
	StudentAttendanceUpdatedAt time.Time `gorm:"column:student_attendance_updated_at;autoUpdateTime" json:"student_attendance_updated_at"`
}

func (StudentAttendanceModel) TableName() string { return "student_attendance" }

func (m *StudentAttendanceModel) BeforeCreate(tx *gorm.DB) error {
	if m.StudentAttendanceID == uuid.Nil {
		m.StudentAttendanceID = uuid.New()
	}
	return nil
}
