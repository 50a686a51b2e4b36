package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"institute_backend/internals/features/attendance/errs"
	"institute_backend/internals/features/attendance/model"
	attRepo "institute_backend/internals/features/attendance/repository"
)

func TestStaffCycle_LateThenHalfDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.svc.Staff

	today, err := svc.Today(ctx, f.staffUser)
	require.NoError(t, err)
	assert.Equal(t, TodayNotCheckedIn, today.Status)
	assert.Nil(t, today.Record)

	in, err := svc.CheckIn(ctx, f.staffUser, inside())
	require.NoError(t, err)
	rec := in.Record
	assert.True(t, rec.StaffAttendanceIsLate)
	assert.Equal(t, 15, rec.StaffAttendanceLateByMinutes)
	assert.Equal(t, model.StatusLate, rec.StaffAttendanceStatus)
	assert.Equal(t, day(2026, 3, 11), rec.StaffAttendanceDate)
	require.NotNil(t, rec.StaffAttendanceRemarks)
	assert.Equal(t, "Late by 15 minutes", *rec.StaffAttendanceRemarks)
	assert.Equal(t, campus.Name, in.Zone.ZoneName)
	assert.Equal(t, campus.Name, rec.StaffAttendanceCheckInLocation.Data().MatchedZoneName)
	assert.Nil(t, rec.StaffAttendanceCheckOutLocation.Data())

	today, err = svc.Today(ctx, f.staffUser)
	require.NoError(t, err)
	assert.Equal(t, TodayCheckedIn, today.Status)

	_, err = svc.CheckIn(ctx, f.staffUser, inside())
	require.True(t, errs.Is(err, errs.KindAlreadyCheckedIn))
	assert.Equal(t, rec.StaffAttendanceID, detailsOf(t, err)["record_id"])

	// 3.5 jam kemudian
	f.setClock(time.Date(2026, 3, 11, 12, 45, 0, 0, ist))
	out, err := svc.CheckOut(ctx, f.staffUser, inside())
	require.NoError(t, err)
	assert.Equal(t, 3.5, out.WorkingHours)

	done := out.Record
	require.NotNil(t, done.StaffAttendanceCheckOutAt)
	require.NotNil(t, done.StaffAttendanceWorkingHours)
	assert.InDelta(t, 3.5, *done.StaffAttendanceWorkingHours, 1e-9)
	assert.Equal(t, model.StatusHalfDay, done.StaffAttendanceStatus)
	assert.True(t, done.StaffAttendanceIsLate)
	require.NotNil(t, done.StaffAttendanceRemarks)
	assert.Contains(t, *done.StaffAttendanceRemarks, "Late by 15 minutes")
	assert.Contains(t, *done.StaffAttendanceRemarks, "Half day")
	require.NotNil(t, done.StaffAttendanceCheckOutLocation.Data())

	today, err = svc.Today(ctx, f.staffUser)
	require.NoError(t, err)
	assert.Equal(t, TodayCompleted, today.Status)

	_, err = svc.CheckOut(ctx, f.staffUser, inside())
	assert.True(t, errs.Is(err, errs.KindAlreadyCompleted))
	_, err = svc.CheckIn(ctx, f.staffUser, inside())
	assert.True(t, errs.Is(err, errs.KindAlreadyCompleted))
}

func TestStaffCheckIn_OnTimeFullDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.setClock(time.Date(2026, 3, 12, 8, 50, 0, 0, ist))
	in, err := f.svc.Staff.CheckIn(ctx, f.staffUser, inside())
	require.NoError(t, err)
	assert.False(t, in.Record.StaffAttendanceIsLate)
	assert.Equal(t, model.StatusPresent, in.Record.StaffAttendanceStatus)
	assert.Nil(t, in.Record.StaffAttendanceRemarks)

	f.setClock(time.Date(2026, 3, 12, 17, 10, 0, 0, ist))
	out, err := f.svc.Staff.CheckOut(ctx, f.staffUser, inside())
	require.NoError(t, err)
	assert.InDelta(t, 8.33, out.WorkingHours, 1e-9)
	assert.Equal(t, model.StatusPresent, out.Record.StaffAttendanceStatus)
	assert.Nil(t, out.Record.StaffAttendanceRemarks)
}

func TestStaffCheckOut_WithoutCheckIn(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Staff.CheckOut(context.Background(), f.staffUser, inside())
	assert.True(t, errs.Is(err, errs.KindNoOpenCheckIn))
}

func TestStaffCheckIn_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Staff.CheckIn(ctx, f.staffUser, Coordinates{})
	assert.True(t, errs.Is(err, errs.KindMissingLocation))

	lat := campus.Latitude
	_, err = f.svc.Staff.CheckIn(ctx, f.staffUser, Coordinates{Latitude: &lat})
	assert.True(t, errs.Is(err, errs.KindMissingLocation))

	_, err = f.svc.Staff.CheckIn(ctx, f.staffUser, coords(21, 200))
	assert.True(t, errs.Is(err, errs.KindInvalidInput))

	_, err = f.svc.Staff.CheckIn(ctx, f.staffUser, outside())
	require.True(t, errs.Is(err, errs.KindGeofenceViolation))
	d := detailsOf(t, err)
	assert.Equal(t, campus.Name, d["zone_name"])
	assert.InDelta(t, 1112, d["distance_meters"].(float64), 5)

	_, err = f.svc.Staff.CheckIn(ctx, uuid.New(), inside())
	assert.True(t, errs.Is(err, errs.KindProfileNotLinked))

	// tidak ada record yang tercipta
	today, err := f.svc.Staff.Today(ctx, f.staffUser)
	require.NoError(t, err)
	assert.Equal(t, TodayNotCheckedIn, today.Status)
}

func TestStaffCheckOut_OutsideZoneKeepsRecordOpen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Staff.CheckIn(ctx, f.staffUser, inside())
	require.NoError(t, err)

	f.setClock(time.Date(2026, 3, 11, 18, 0, 0, 0, ist))
	_, err = f.svc.Staff.CheckOut(ctx, f.staffUser, outside())
	require.True(t, errs.Is(err, errs.KindGeofenceViolation))

	today, err := f.svc.Staff.Today(ctx, f.staffUser)
	require.NoError(t, err)
	assert.Equal(t, TodayCheckedIn, today.Status)
}

// tiga hari: telat+half day, tepat waktu penuh, telat tanpa check-out.
func seedStaffWeek(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()
	steps := []struct {
		in, out time.Time
	}{
		{time.Date(2026, 3, 9, 9, 15, 0, 0, ist), time.Date(2026, 3, 9, 12, 45, 0, 0, ist)},
		{time.Date(2026, 3, 10, 8, 50, 0, 0, ist), time.Date(2026, 3, 10, 17, 50, 0, 0, ist)},
		{time.Date(2026, 3, 11, 9, 30, 0, 0, ist), time.Time{}},
	}
	for _, s := range steps {
		f.setClock(s.in)
		_, err := f.svc.Staff.CheckIn(ctx, f.staffUser, inside())
		require.NoError(t, err)
		if !s.out.IsZero() {
			f.setClock(s.out)
			_, err = f.svc.Staff.CheckOut(ctx, f.staffUser, inside())
			require.NoError(t, err)
		}
	}
}

func TestStaffMyRecords_Summary(t *testing.T) {
	f := newFixture(t)
	seedStaffWeek(t, f)
	ctx := context.Background()

	from, to := day(2026, 3, 9), day(2026, 3, 11)
	res, err := f.svc.Staff.MyRecords(ctx, f.staffUser, DateRange{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, res.Records, 3)
	assert.WithinDuration(t, day(2026, 3, 11), res.Records[0].StaffAttendanceDate, 0)

	assert.Equal(t, 3, res.Summary.TotalDays)
	assert.Equal(t, 1, res.Summary.PresentDays)
	assert.Equal(t, 2, res.Summary.LateDays)
	assert.Equal(t, 1, res.Summary.HalfDays)
	assert.InDelta(t, 6.25, res.Summary.AvgWorkingHours, 1e-9)

	from = day(2026, 3, 10)
	res, err = f.svc.Staff.MyRecords(ctx, f.staffUser, DateRange{From: &from, To: &from})
	require.NoError(t, err)
	assert.Len(t, res.Records, 1)

	_, err = f.svc.Staff.MyRecords(ctx, uuid.New(), DateRange{})
	assert.True(t, errs.Is(err, errs.KindProfileNotLinked))
}

func TestStaffAdminListAndStats(t *testing.T) {
	f := newFixture(t)
	seedStaffWeek(t, f)
	ctx := context.Background()

	rows, total, err := f.svc.Staff.AdminList(ctx, attRepo.StaffFilter{Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, rows, 2)

	late := model.StatusLate
	rows, total, err = f.svc.Staff.AdminList(ctx, attRepo.StaffFilter{Status: &late})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, rows, 1)

	stats, err := f.svc.Staff.AdminStats(ctx, attRepo.StaffFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalRecords)
	assert.EqualValues(t, 1, stats.ByStatus[model.StatusPresent])
	assert.EqualValues(t, 1, stats.ByStatus[model.StatusLate])
	assert.EqualValues(t, 1, stats.ByStatus[model.StatusHalfDay])
	assert.EqualValues(t, 0, stats.ByStatus[model.StatusAbsent])
	assert.EqualValues(t, 2, stats.LateCount)
	assert.InDelta(t, 12.5, stats.TotalWorkingHours, 1e-9)
	assert.InDelta(t, 6.25, stats.AvgWorkingHours, 1e-9)
}
