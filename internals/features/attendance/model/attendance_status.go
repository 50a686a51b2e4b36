// file: internals/features/attendance/model/attendance_status.go
package model

import "strings"

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLate    AttendanceStatus = "late"
	StatusHalfDay AttendanceStatus = "half_day"
)

// SelfSession adalah sentinel session untuk self check-in murid.
const SelfSession = "Self"

// MaxRemarksLen dalam rune.
const MaxRemarksLen = 500

var AllStatuses = []AttendanceStatus{StatusPresent, StatusAbsent, StatusLate, StatusHalfDay}

func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusHalfDay:
		return true
	}
	return false
}

// Attended: status yang dihitung sebagai hadir di rollup.
func (s AttendanceStatus) Attended() bool {
	return s == StatusPresent || s == StatusLate
}

// ParseStatus menerima "present", "Present", "HalfDay", "half-day", dst.
func ParseStatus(raw string) (AttendanceStatus, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	if s == "halfday" {
		s = string(StatusHalfDay)
	}
	st := AttendanceStatus(s)
	return st, st.Valid()
}

// LocationSnapshot disimpan (JSON) saat check-in / check-out.
type LocationSnapshot struct {
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	MatchedZoneName string  `json:"matched_zone_name"`
	DistanceMeters  float64 `json:"distance_meters"`
}
