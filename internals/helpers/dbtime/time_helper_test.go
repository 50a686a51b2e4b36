package dbtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayBucket_UsesLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)

	// 2026-03-10 20:00 UTC = 2026-03-11 01:30 IST
	b := DayBucket(time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC), loc)
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), b)

	// same local day → same bucket
	a1 := DayBucket(time.Date(2026, 3, 11, 0, 5, 0, 0, loc), loc)
	a2 := DayBucket(time.Date(2026, 3, 11, 23, 55, 0, 0, loc), loc)
	assert.True(t, a1.Equal(a2))
}

func TestParseDayAndMonth(t *testing.T) {
	d, err := ParseDay("2026-02-28")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDay("28/02/2026")
	require.Error(t, err)

	from, to, err := ParseMonth("2026-12")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), to)
}

func TestAt_CombinesBucketAndTimeOfDay(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	day := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	got := At(day, MustParse("09:00"), loc)
	assert.Equal(t, time.Date(2026, 3, 11, 9, 0, 0, 0, loc), got)
}

func TestTodParse(t *testing.T) {
	tod, err := Parse("08:30")
	require.NoError(t, err)
	assert.Equal(t, "08:30:00", tod.String())

	_, err = Parse("25:00")
	require.Error(t, err)
}
