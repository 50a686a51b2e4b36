// file: internals/features/attendance/model/staff_attendance_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StaffAttendanceModel: satu siklus check-in/check-out per staff per hari.
type StaffAttendanceModel struct {
	StaffAttendanceID uuid.UUID `gorm:"type:uuid;primaryKey;column:staff_attendance_id" json:"staff_attendance_id"`

	// unik per (staff, hari)
	StaffAttendanceStaffID uuid.UUID `gorm:"type:uuid;not null;column:staff_attendance_staff_id;uniqueIndex:uq_staff_attendance_day,priority:1" json:"staff_attendance_staff_id"`
	StaffAttendanceDate    time.Time `gorm:"type:date;not null;column:staff_attendance_date;uniqueIndex:uq_staff_attendance_day,priority:2;index:idx_staff_attendance_date" json:"staff_attendance_date"`

	StaffAttendanceCheckInAt  time.Time  `gorm:"not null;column:staff_attendance_check_in_at" json:"staff_attendance_check_in_at"`
	StaffAttendanceCheckOutAt *time.Time `gorm:"column:staff_attendance_check_out_at" json:"staff_attendance_check_out_at,omitempty"`

	StaffAttendanceWorkingHours  *float64         `gorm:"type:numeric(5,2);column:staff_attendance_working_hours" json:"staff_attendance_working_hours,omitempty"`
	StaffAttendanceIsLate        bool             `gorm:"not null;default:false;column:staff_attendance_is_late" json:"staff_attendance_is_late"`
	StaffAttendanceLateByMinutes int              `gorm:"not null;default:0;column:staff_attendance_late_by_minutes" json:"staff_attendance_late_by_minutes"`
	StaffAttendanceStatus        AttendanceStatus `gorm:"type:varchar(16);not null;column:staff_attendance_status;index:idx_staff_attendance_status" json:"staff_attendance_status"`
	StaffAttendanceRemarks       *string          `gorm:"type:text;column:staff_attendance_remarks" json:"staff_attendance_remarks,omitempty"`

	StaffAttendanceCheckInLocation  datatypes.JSONType[LocationSnapshot]  `gorm:"not null;column:staff_attendance_check_in_location" json:"staff_attendance_check_in_location"`
	StaffAttendanceCheckOutLocation datatypes.JSONType[*LocationSnapshot] `gorm:"not null;column:staff_attendance_check_out_location" json:"staff_attendance_check_out_location"`

	StaffAttendanceCreatedAt time.Time `gorm:"column:staff_attendance_created_at;autoCreateTime" json:"staff_attendance_created_at"`
	StaffAttendanceUpdatedAt time.Time `gorm:"column:staff_attendance_updated_at;autoUpdateTime" json:"staff_attendance_updated_at"`
}

func (StaffAttendanceModel) TableName() string { return "staff_attendance" }

func (m *StaffAttendanceModel) BeforeCreate(tx *gorm.DB) error {
	if m.StaffAttendanceID == uuid.Nil {
		m.StaffAttendanceID = uuid.New()
	}
	return nil
}

// Completed: sudah check-out.
func (m *StaffAttendanceModel) Completed() bool {
	return m.StaffAttendanceCheckOutAt != nil
}
