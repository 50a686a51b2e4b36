package constants

import "fmt"

const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStaff   = "staff"
	RoleStudent = "student"
	RoleUser    = "user"
)

// Template pesan error role
const (
	ErrOnlyManagersCanAccess = "❌ Hanya admin atau teacher yang boleh mengakses fitur %s."
	ErrOnlyStaffCanAccess    = "❌ Hanya staff yang boleh mengakses fitur %s."
	ErrOnlyStudentsCanAccess = "❌ Hanya murid yang boleh mengakses fitur %s."
)

func RoleErrorManager(feature string) string {
	return fmt.Sprintf(ErrOnlyManagersCanAccess, feature)
}

func RoleErrorStaff(feature string) string {
	return fmt.Sprintf(ErrOnlyStaffCanAccess, feature)
}

func RoleErrorStudent(feature string) string {
	return fmt.Sprintf(ErrOnlyStudentsCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{RoleAdmin, RoleTeacher, RoleStaff, RoleStudent, RoleUser}

	// AttendanceManagers: boleh marking murid, edit/hapus, dan lihat semua record staff.
	AttendanceManagers = []string{RoleAdmin, RoleTeacher}

	// StaffRoles: boleh check-in/out harian.
	StaffRoles = []string{RoleStaff, RoleTeacher, RoleAdmin}

	StudentOnly = []string{RoleStudent}
)
