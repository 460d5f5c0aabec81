package booking

import (
	"testing"
	"time"

	"salonbook/models"
	"salonbook/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := utils.ParseDate(s)
	require.NoError(t, err)
	return d
}

func block(date string, typ models.RecurrenceType, n int) models.TimeBlock {
	b := models.TimeBlock{ID: "b-" + date, Date: date, StartTime: "14:00", EndTime: "15:00"}
	if typ != "" {
		b.Recurrence = &models.Recurrence{Type: typ, RepeatCount: n}
	}
	return b
}

func TestIsBlockActiveOn_Single(t *testing.T) {
	b := block("2026-03-10", "", 0)
	assert.True(t, IsBlockActiveOn(b, day(t, "2026-03-10")))
	assert.False(t, IsBlockActiveOn(b, day(t, "2026-03-11")))
	assert.False(t, IsBlockActiveOn(b, day(t, "2026-03-09")))
}

// A daily block with RepeatCount N covers exactly N+1 consecutive days.
func TestIsBlockActiveOn_DailyBounded(t *testing.T) {
	base := day(t, "2026-03-10")
	for n := 0; n <= 5; n++ {
		b := block("2026-03-10", models.RecurrenceDaily, n)
		active := 0
		for i := -3; i < 15; i++ {
			d := base.AddDate(0, 0, i)
			if IsBlockActiveOn(b, d) {
				assert.True(t, i >= 0 && i <= n, "n=%d active on offset %d", n, i)
				active++
			}
		}
		assert.Equal(t, n+1, active, "n=%d", n)
	}
}

func TestIsBlockActiveOn_Weekly(t *testing.T) {
	b := block("2026-03-10", models.RecurrenceWeekly, 2)
	assert.True(t, IsBlockActiveOn(b, day(t, "2026-03-17")))
	assert.True(t, IsBlockActiveOn(b, day(t, "2026-03-24")))
	assert.False(t, IsBlockActiveOn(b, day(t, "2026-03-31")))
	assert.False(t, IsBlockActiveOn(b, day(t, "2026-03-11")))
}

func TestIsBlockActiveOn_Monthly(t *testing.T) {
	b := block("2026-01-15", models.RecurrenceMonthly, 2)
	assert.True(t, IsBlockActiveOn(b, day(t, "2026-02-15")))
	assert.True(t, IsBlockActiveOn(b, day(t, "2026-03-15")))
	assert.False(t, IsBlockActiveOn(b, day(t, "2026-04-15")))
	assert.False(t, IsBlockActiveOn(b, day(t, "2026-02-16")))
}

func TestIsBlockActiveOn_Degenerate(t *testing.T) {
	neg := block("2026-03-10", models.RecurrenceDaily, -4)
	assert.True(t, IsBlockActiveOn(neg, day(t, "2026-03-10")))
	assert.False(t, IsBlockActiveOn(neg, day(t, "2026-03-11")))

	bad := block("10/03/2026", models.RecurrenceDaily, 3)
	assert.False(t, IsBlockActiveOn(bad, day(t, "2026-03-10")))

	unknown := block("2026-03-10", models.RecurrenceType("yearly"), 3)
	assert.False(t, IsBlockActiveOn(unknown, day(t, "2026-03-11")))
}

func TestActiveBlocks(t *testing.T) {
	blocks := []models.TimeBlock{
		block("2026-03-10", "", 0),
		block("2026-03-08", models.RecurrenceDaily, 3),
		block("2026-03-01", models.RecurrenceWeekly, 1),
	}
	got := ActiveBlocks(blocks, day(t, "2026-03-10"))
	require.Len(t, got, 2)
	assert.Equal(t, "b-2026-03-10", got[0].ID)
	assert.Equal(t, "b-2026-03-08", got[1].ID)

	assert.NotNil(t, ActiveBlocks(nil, day(t, "2026-03-10")))
}
