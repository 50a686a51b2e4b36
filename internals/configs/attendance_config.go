package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"

	"institute_backend/internals/features/attendance/geo"
	"institute_backend/internals/features/attendance/policy"
	"institute_backend/internals/helpers/dbtime"
)

// AttendanceConfig: dibaca sekali saat startup, read-only setelahnya.
type AttendanceConfig struct {
	Zones           []geo.Zone
	ExpectedStart   dbtime.Tod
	HalfDayMinHours float64
	StoreTimeout    time.Duration
	ReconcileEvery  time.Duration // 0 = nonaktif
}

type zoneFile struct {
	Zones []geo.Zone `yaml:"zones"`
}

func LoadAttendanceConfig() (AttendanceConfig, error) {
	var cfg AttendanceConfig

	zones, err := loadZones()
	if err != nil {
		return cfg, err
	}
	if len(zones) == 0 {
		return cfg, fmt.Errorf("no attendance zones configured (set ATTENDANCE_ZONES or ATTENDANCE_ZONES_FILE)")
	}
	cfg.Zones = zones

	start, err := dbtime.Parse(GetEnv("ATTENDANCE_EXPECTED_START", policy.DefaultExpectedStart))
	if err != nil {
		return cfg, fmt.Errorf("ATTENDANCE_EXPECTED_START: %w", err)
	}
	cfg.ExpectedStart = start

	if cfg.HalfDayMinHours, err = envFloat("ATTENDANCE_HALF_DAY_HOURS", policy.DefaultHalfDayMinHours); err != nil {
		return cfg, err
	}
	if cfg.HalfDayMinHours <= 0 {
		return cfg, fmt.Errorf("ATTENDANCE_HALF_DAY_HOURS must be > 0")
	}

	ms, err := envFloat("ATTENDANCE_STORE_TIMEOUT_MS", 3000)
	if err != nil {
		return cfg, err
	}
	cfg.StoreTimeout = time.Duration(ms) * time.Millisecond

	hours, err := envFloat("ATTENDANCE_RECONCILE_HOURS", 24)
	if err != nil {
		return cfg, err
	}
	if hours > 0 {
		cfg.ReconcileEvery = time.Duration(hours * float64(time.Hour))
	}
	return cfg, nil
}

// loadZones: ATTENDANCE_ZONES (JSON inline) diprioritaskan, lalu ATTENDANCE_ZONES_FILE (YAML).
func loadZones() ([]geo.Zone, error) {
	if raw := strings.TrimSpace(GetEnv("ATTENDANCE_ZONES")); raw != "" {
		return ParseZonesJSON([]byte(raw))
	}
	if path := strings.TrimSpace(GetEnv("ATTENDANCE_ZONES_FILE")); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read zones file: %w", err)
		}
		return ParseZonesYAML(b)
	}
	return nil, nil
}

func ParseZonesJSON(b []byte) ([]geo.Zone, error) {
	var zones []geo.Zone
	if err := sonic.Unmarshal(b, &zones); err != nil {
		return nil, fmt.Errorf("ATTENDANCE_ZONES: %w", err)
	}
	return zones, nil
}

// ParseZonesYAML menerima list langsung atau dokumen {zones: [...]}.
func ParseZonesYAML(b []byte) ([]geo.Zone, error) {
	var wrapped zoneFile
	if err := yaml.Unmarshal(b, &wrapped); err == nil && len(wrapped.Zones) > 0 {
		return wrapped.Zones, nil
	}
	var zones []geo.Zone
	if err := yaml.Unmarshal(b, &zones); err != nil {
		return nil, fmt.Errorf("zones yaml: %w", err)
	}
	return zones, nil
}

func envFloat(key string, def float64) (float64, error) {
	raw := strings.TrimSpace(GetEnv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", key, raw)
	}
	return v, nil
}
