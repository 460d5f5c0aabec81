package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockRoundTrip(t *testing.T) {
	for m := 0; m < MinutesPerDay; m++ {
		s := FormatClock(m)
		got, err := ParseClock(s)
		require.NoError(t, err, s)
		require.Equal(t, m, got, s)
	}
}

func TestParseClock_Rejects(t *testing.T) {
	for _, in := range []string{"", "9:00", "24:00", "12:60", "ab:cd", "12-30", "123:0"} {
		_, err := ParseClock(in)
		assert.Error(t, err, in)
		assert.True(t, IsValidation(err), in)
	}
}

func TestOverlaps_SymmetricAndTouching(t *testing.T) {
	intervals := [][2]int{{540, 600}, {600, 660}, {570, 630}, {0, 1439}, {630, 631}}
	for _, a := range intervals {
		for _, b := range intervals {
			assert.Equal(t, Overlaps(a[0], a[1], b[0], b[1]), Overlaps(b[0], b[1], a[0], a[1]))
		}
	}
	// 09:00-10:00 and 10:00-11:00 touch but do not overlap.
	assert.False(t, Overlaps(540, 600, 600, 660))
	assert.True(t, Overlaps(540, 601, 600, 660))
}

func TestDaysAndMonthsBetween(t *testing.T) {
	a := time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC)
	b := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 29, DaysBetween(a, b))
	assert.Equal(t, -29, DaysBetween(b, a))
	assert.Equal(t, 2, MonthsBetween(a, b))

	// spans beyond the range of time.Duration
	far := time.Date(1500, time.January, 1, 0, 0, 0, 0, time.UTC)
	later := time.Date(2400, time.January, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 328718, DaysBetween(far, later))
	assert.Equal(t, -328718, DaysBetween(later, far))

	// DST change in a local zone does not shift the day count.
	loc, err := time.LoadLocation("Europe/Lisbon")
	if err == nil {
		x := time.Date(2025, time.March, 29, 12, 0, 0, 0, loc)
		y := time.Date(2025, time.March, 31, 1, 0, 0, 0, loc)
		assert.Equal(t, 2, DaysBetween(x, y))
	}
}
