// file: internals/features/attendance/policy/time_window.go
package policy

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	model "institute_backend/internals/features/attendance/model"
	"institute_backend/internals/helpers/dbtime"
)

const (
	DefaultExpectedStart   = "09:00"
	DefaultHalfDayMinHours = 4.0
)

var ErrCheckOutNotAfterCheckIn = errors.New("check-out time must be after check-in time")

// TimeWindow: aturan telat (vs jam masuk) dan half-day (vs minimal jam kerja).
type TimeWindow struct {
	ExpectedStart   dbtime.Tod
	HalfDayMinHours float64
	Location        *time.Location
}

func NewTimeWindow(expectedStart dbtime.Tod, halfDayMinHours float64, loc *time.Location) TimeWindow {
	if halfDayMinHours <= 0 {
		halfDayMinHours = DefaultHalfDayMinHours
	}
	if loc == nil {
		loc = time.UTC
	}
	return TimeWindow{ExpectedStart: expectedStart, HalfDayMinHours: halfDayMinHours, Location: loc}
}

type CheckInOutcome struct {
	Day           time.Time
	IsLate        bool
	LateByMinutes int
	Status        model.AttendanceStatus
	Remarks       string
}

// ExpectedStartOn: jam masuk untuk day bucket tertentu (di timezone institusi).
func (p TimeWindow) ExpectedStartOn(day time.Time) time.Time {
	return dbtime.At(day, p.ExpectedStart, p.Location)
}

func (p TimeWindow) EvaluateCheckIn(now time.Time) CheckInOutcome {
	day := dbtime.DayBucket(now, p.Location)
	expected := p.ExpectedStartOn(day)

	out := CheckInOutcome{Day: day, Status: model.StatusPresent}
	if now.After(expected) {
		out.IsLate = true
		out.Status = model.StatusLate
		out.LateByMinutes = int(math.Max(0, math.Round(now.Sub(expected).Minutes())))
		out.Remarks = fmt.Sprintf("Late by %d minutes", out.LateByMinutes)
	}
	return out
}

type CheckOutOutcome struct {
	WorkingHours float64
	Status       model.AttendanceStatus
	HalfDay      bool
	Note         string
}

// EvaluateCheckOut: hitung jam kerja (2 desimal); status jadi half_day kalau < minimum,
// selain itu status check-in dipertahankan.
func (p TimeWindow) EvaluateCheckOut(checkIn, now time.Time, current model.AttendanceStatus) (CheckOutOutcome, error) {
	if !now.After(checkIn) {
		return CheckOutOutcome{}, ErrCheckOutNotAfterCheckIn
	}
	hours := WorkedHours(checkIn, now)

	out := CheckOutOutcome{WorkingHours: hours, Status: current}
	if hours < p.HalfDayMinHours {
		out.HalfDay = true
		out.Status = model.StatusHalfDay
		out.Note = fmt.Sprintf("Half day: worked %.2f hours (minimum %s)",
			hours, decimal.NewFromFloat(p.HalfDayMinHours).String())
	}
	return out, nil
}

// WorkedHours: (out - in) dalam jam, dibulatkan 2 desimal.
func WorkedHours(in, out time.Time) float64 {
	secs := decimal.NewFromFloat(out.Sub(in).Seconds())
	h, _ := secs.Div(decimal.NewFromInt(3600)).Round(2).Float64()
	return h
}

// Round2: helper rata-rata jam kerja.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
