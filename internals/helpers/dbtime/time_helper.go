// file: internals/helpers/dbtime/time_helper.go
package dbtime

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	DayLayout   = "2006-01-02"
	MonthLayout = "2006-01"

	// nama locals (opsional) kalau middleware mau override timezone per request
	LocInstituteTimezone = "institute_timezone"
	LocInstituteLoc      = "institute_loc"
)

var (
	defaultLocMu sync.RWMutex
	defaultLoc   = time.UTC
)

// SetDefaultLocation dipanggil sekali saat startup (APP_TIMEZONE).
func SetDefaultLocation(loc *time.Location) {
	if loc == nil {
		return
	}
	defaultLocMu.Lock()
	defaultLoc = loc
	defaultLocMu.Unlock()
}

func DefaultLocation() *time.Location {
	defaultLocMu.RLock()
	defer defaultLocMu.RUnlock()
	return defaultLoc
}

// GetInstituteLocation:
// 1) c.Locals("institute_loc")
// 2) c.Locals("institute_timezone") → LoadLocation
// 3) default dari config
func GetInstituteLocation(c *fiber.Ctx) *time.Location {
	if c == nil {
		return DefaultLocation()
	}
	if v := c.Locals(LocInstituteLoc); v != nil {
		if loc, ok := v.(*time.Location); ok && loc != nil {
			return loc
		}
	}
	if v := c.Locals(LocInstituteTimezone); v != nil {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			if loc, err := time.LoadLocation(strings.TrimSpace(s)); err == nil {
				c.Locals(LocInstituteLoc, loc)
				return loc
			}
		}
	}
	return DefaultLocation()
}

/* =========================================================
   Day bucket
   ========================================================= */

// DayBucket: hari kalender lokal dari t, disimpan sebagai 00:00 UTC hari itu
// supaya kolom DATE konsisten di semua driver.
func DayBucket(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = DefaultLocation()
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay: "YYYY-MM-DD" → day bucket.
func ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t.UTC(), nil
}

// ParseMonth: "YYYY-MM" → [awal bulan, awal bulan berikutnya).
func ParseMonth(s string) (from, toExclusive time.Time, err error) {
	s = strings.TrimSpace(s)
	t, perr := time.Parse(MonthLayout, s)
	if perr != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM", s)
	}
	from = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0), nil
}

// At: instant lokal (loc) untuk day bucket + jam tertentu.
func At(day time.Time, tod Tod, loc *time.Location) time.Time {
	if loc == nil {
		loc = DefaultLocation()
	}
	y, m, d := day.UTC().Date()
	return time.Date(y, m, d, tod.Hour(), tod.Minute(), tod.Second(), 0, loc)
}

func NowIn(loc *time.Location) time.Time {
	if loc == nil {
		loc = DefaultLocation()
	}
	return time.Now().In(loc)
}
