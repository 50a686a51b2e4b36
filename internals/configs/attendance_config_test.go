package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAttendanceConfig_InlineJSON(t *testing.T) {
	t.Setenv("ATTENDANCE_ZONES", `[{"name":"Bhilai Branch","latitude":21.22751,"longitude":81.35853,"radius_meters":200}]`)
	t.Setenv("ATTENDANCE_ZONES_FILE", "")
	t.Setenv("ATTENDANCE_EXPECTED_START", "09:30")
	t.Setenv("ATTENDANCE_HALF_DAY_HOURS", "")
	t.Setenv("ATTENDANCE_STORE_TIMEOUT_MS", "1500")
	t.Setenv("ATTENDANCE_RECONCILE_HOURS", "0")

	cfg, err := LoadAttendanceConfig()
	require.NoError(t, err)

	require.Len(t, cfg.Zones, 1)
	assert.Equal(t, "Bhilai Branch", cfg.Zones[0].Name)
	assert.Equal(t, 200.0, cfg.Zones[0].RadiusMeters)
	assert.Equal(t, "09:30:00", cfg.ExpectedStart.String())
	assert.Equal(t, 4.0, cfg.HalfDayMinHours)
	assert.Equal(t, 1500*time.Millisecond, cfg.StoreTimeout)
	assert.Zero(t, cfg.ReconcileEvery)
}

func TestLoadAttendanceConfig_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "zones.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
zones:
  - name: Main Campus
    latitude: 21.22751
    longitude: 81.35853
    radius_meters: 200
  - name: City Office
    latitude: 21.25
    longitude: 81.63
    radius_meters: 150
`), 0o600))

	t.Setenv("ATTENDANCE_ZONES", "")
	t.Setenv("ATTENDANCE_ZONES_FILE", path)
	t.Setenv("ATTENDANCE_EXPECTED_START", "")
	t.Setenv("ATTENDANCE_RECONCILE_HOURS", "")

	cfg, err := LoadAttendanceConfig()
	require.NoError(t, err)
	require.Len(t, cfg.Zones, 2)
	assert.Equal(t, "City Office", cfg.Zones[1].Name)
	assert.Equal(t, "09:00:00", cfg.ExpectedStart.String())
	assert.Equal(t, 24*time.Hour, cfg.ReconcileEvery)
}

func TestLoadAttendanceConfig_Errors(t *testing.T) {
	t.Setenv("ATTENDANCE_ZONES_FILE", "")

	t.Setenv("ATTENDANCE_ZONES", "")
	_, err := LoadAttendanceConfig()
	assert.Error(t, err, "no zones")

	t.Setenv("ATTENDANCE_ZONES", `not json`)
	_, err = LoadAttendanceConfig()
	assert.Error(t, err)

	t.Setenv("ATTENDANCE_ZONES", `[{"name":"A","latitude":1,"longitude":1,"radius_meters":10}]`)
	t.Setenv("ATTENDANCE_EXPECTED_START", "9am")
	_, err = LoadAttendanceConfig()
	assert.Error(t, err)

	t.Setenv("ATTENDANCE_EXPECTED_START", "09:00")
	t.Setenv("ATTENDANCE_HALF_DAY_HOURS", "four")
	_, err = LoadAttendanceConfig()
	assert.Error(t, err)
}

func TestParseZonesYAML_BareList(t *testing.T) {
	zones, err := ParseZonesYAML([]byte(`
- name: A
  latitude: 1.5
  longitude: 2.5
  radius_meters: 50
`))
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Equal(t, 1.5, zones[0].Latitude)
}
