package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestISOWeekKey(t *testing.T) {
	assert.Equal(t, "2020-W53", ISOWeekKey(day("2021-01-03")))
	assert.Equal(t, "2026-W01", ISOWeekKey(day("2026-01-01")))
	assert.Equal(t, "2026-W10", ISOWeekKey(day("2026-03-02")))
	assert.Equal(t, "2026-W10", ISOWeekKey(day("2026-03-08")))
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("07:30")
	require.NoError(t, err)
	assert.Equal(t, 450, m)

	m, err = ParseClock("24:00")
	require.NoError(t, err)
	assert.Equal(t, 1440, m)

	for _, bad := range []string{"25:00", "24:30", "7", "aa:00", "10:60"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestShiftDurationHours(t *testing.T) {
	assert.Equal(t, 8.0, shiftDurationHours(clock("08:00"), clock("16:00")))
	assert.Equal(t, 8.0, shiftDurationHours(clock("22:00"), clock("06:00")))
	assert.Equal(t, 24.0, shiftDurationHours(clock("08:00"), clock("08:00")))
}

func TestSameDayInterval_TruncatesOvernight(t *testing.T) {
	s, e := sameDayInterval(clock("22:00"), clock("06:00"))
	assert.Equal(t, clock("22:00"), s)
	assert.Equal(t, 1440, e)

	s, e = sameDayInterval(clock("08:00"), clock("16:00"))
	assert.Equal(t, clock("08:00"), s)
	assert.Equal(t, clock("16:00"), e)
}

func TestDayNumber_RoundTrip(t *testing.T) {
	d := day("2026-03-15")
	assert.Equal(t, d, dateOfDay(dayNumber(d)))
	assert.Equal(t, 1, dayNumber(day("2026-03-16"))-dayNumber(d))
}

func TestWorkdays_ExcludesWeekendsAndHolidays(t *testing.T) {
	days := monthDays(2026, 3)
	assert.Equal(t, 22, workdays(days, nil))
	assert.Equal(t, 21, workdays(days, map[int]bool{dayNumber(day("2026-03-02")): true}))
}
