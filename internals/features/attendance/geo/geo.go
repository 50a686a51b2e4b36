// file: internals/features/attendance/geo/geo.go
package geo

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// EarthRadiusMeters dipakai oleh haversine (mean radius).
const EarthRadiusMeters = 6371000.0

// DistanceMeters menghitung jarak great-circle (haversine) antara dua koordinat, dalam meter.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) float64 {
	φ1 := lat1 * math.Pi / 180
	φ2 := lat2 * math.Pi / 180
	Δφ := (lat2 - lat1) * math.Pi / 180
	Δλ := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(Δφ/2)*math.Sin(Δφ/2) + math.Cos(φ1)*math.Cos(φ2)*math.Sin(Δλ/2)*math.Sin(Δλ/2)
	if a > 1 {
		a = 1
	}
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c
}

/* =========================================================
   Zone
   ========================================================= */

// Zone adalah geofence lingkaran bernama (cabang/kampus).
type Zone struct {
	Name         string  `json:"name" yaml:"name"`
	Latitude     float64 `json:"latitude" yaml:"latitude"`
	Longitude    float64 `json:"longitude" yaml:"longitude"`
	RadiusMeters float64 `json:"radius_meters" yaml:"radius_meters"`
}

func (z Zone) validate() error {
	if strings.TrimSpace(z.Name) == "" {
		return errors.New("zone name is required")
	}
	if !ValidCoordinate(z.Latitude, z.Longitude) {
		return fmt.Errorf("zone %q has an invalid center coordinate", z.Name)
	}
	if !(z.RadiusMeters > 0) {
		return fmt.Errorf("zone %q radius_meters must be > 0", z.Name)
	}
	return nil
}

// ValidCoordinate: lat ∈ [-90,90], lon ∈ [-180,180], bukan NaN/Inf.
func ValidCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

/* =========================================================
   Validator
   ========================================================= */

// Match adalah hasil validasi satu titik terhadap semua zone.
// Matched=false → ZoneName/DistanceMeters menunjuk zone referensi (terdekat).
type Match struct {
	Matched        bool    `json:"matched"`
	ZoneName       string  `json:"zone_name"`
	DistanceMeters float64 `json:"distance_meters"`
}

// Validator memegang daftar zone read-only, di-load sekali saat startup.
type Validator struct {
	zones []Zone
}

func NewValidator(zones []Zone) (*Validator, error) {
	if len(zones) == 0 {
		return nil, errors.New("at least one attendance zone must be configured")
	}
	cp := make([]Zone, len(zones))
	for i, z := range zones {
		if err := z.validate(); err != nil {
			return nil, err
		}
		z.Name = strings.TrimSpace(z.Name)
		cp[i] = z
	}
	return &Validator{zones: cp}, nil
}

// Zones mengembalikan salinan konfigurasi (untuk log startup).
func (v *Validator) Zones() []Zone {
	out := make([]Zone, len(v.zones))
	copy(out, v.zones)
	return out
}

// Validate mencocokkan titik ke zone sesuai urutan konfigurasi; zone pertama yang
// memuat titik (distance <= radius) menang. Kalau tidak ada yang cocok, yang
// dilaporkan adalah zone terdekat (seri → zone yang lebih dulu dikonfigurasi).
// Jarak dibulatkan ke meter.
func (v *Validator) Validate(lat, lon float64) Match {
	nearest := -1
	nearestDist := math.MaxFloat64

	for i, z := range v.zones {
		d := DistanceMeters(lat, lon, z.Latitude, z.Longitude)
		if d <= z.RadiusMeters {
			return Match{Matched: true, ZoneName: z.Name, DistanceMeters: math.Round(d)}
		}
		if d < nearestDist {
			nearest, nearestDist = i, d
		}
	}

	return Match{
		Matched:        false,
		ZoneName:       v.zones[nearest].Name,
		DistanceMeters: math.Round(nearestDist),
	}
}
