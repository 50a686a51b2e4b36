// file: internals/features/attendance/service/common.go
package service

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"institute_backend/internals/features/attendance/errs"
	"institute_backend/internals/features/attendance/geo"
	"institute_backend/internals/features/attendance/model"
	"institute_backend/internals/features/attendance/policy"
)

const DefaultStoreTimeout = 3 * time.Second

// Coordinates: nil = tidak dikirim (beda dengan 0).
type Coordinates struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// ZoneInfo dikembalikan bersama record untuk pesan sukses.
type ZoneInfo struct {
	ZoneName       string  `json:"zone_name"`
	DistanceMeters float64 `json:"distance_meters"`
}

// DateRange: day bucket, keduanya inklusif. Nil = terbuka.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// locate: validasi input lalu geofence. Urutan error: MISSING_LOCATION → INVALID_INPUT → GEOFENCE_VIOLATION.
func locate(v *geo.Validator, c Coordinates) (model.LocationSnapshot, ZoneInfo, error) {
	if c.Latitude == nil || c.Longitude == nil {
		return model.LocationSnapshot{}, ZoneInfo{}, errs.New(errs.KindMissingLocation, "latitude and longitude are required")
	}
	lat, lon := *c.Latitude, *c.Longitude
	if !geo.ValidCoordinate(lat, lon) {
		return model.LocationSnapshot{}, ZoneInfo{}, errs.New(errs.KindInvalidInput, "latitude/longitude out of range").
			With("latitude", lat).With("longitude", lon)
	}

	m := v.Validate(lat, lon)
	if !m.Matched {
		return model.LocationSnapshot{}, ZoneInfo{}, errs.Newf(errs.KindGeofenceViolation,
			"you are %.0fm away from %s", m.DistanceMeters, m.ZoneName).
			With("zone_name", m.ZoneName).
			With("distance_meters", m.DistanceMeters)
	}
	snap := model.LocationSnapshot{
		Latitude:        lat,
		Longitude:       lon,
		MatchedZoneName: m.ZoneName,
		DistanceMeters:  m.DistanceMeters,
	}
	return snap, ZoneInfo{ZoneName: m.ZoneName, DistanceMeters: m.DistanceMeters}, nil
}

// appendRemark: gabung catatan otomatis ke remarks yang sudah ada.
func appendRemark(cur *string, note string) *string {
	note = strings.TrimSpace(note)
	if note == "" {
		return cur
	}
	if cur == nil || strings.TrimSpace(*cur) == "" {
		return &note
	}
	s := strings.TrimSpace(*cur) + "; " + note
	return &s
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// Services: satu bundel per proses (dipakai route & scheduler).
type Services struct {
	Staff     *StaffService
	Students  *StudentService
	Aggregate *AggregateMaintainer
}

func NewServices(db *gorm.DB, v *geo.Validator, p policy.TimeWindow, timeout time.Duration) *Services {
	agg := NewAggregateMaintainer(db, timeout)
	return &Services{
		Staff:     NewStaffService(db, v, p, timeout),
		Students:  NewStudentService(db, v, agg, p.Location, timeout),
		Aggregate: agg,
	}
}

// WithClock: ganti sumber waktu semua service (test).
func (s *Services) WithClock(now func() time.Time) *Services {
	s.Staff.Now = now
	s.Students.Now = now
	s.Aggregate.Now = now
	return s
}
