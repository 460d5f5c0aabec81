package booking

import (
	"time"

	"salonbook/models"
	"salonbook/utils"
)

// IsBlockActiveOn reports whether block covers the calendar day of target.
// RepeatCount counts occurrences after the base date, so a daily block with
// RepeatCount 2 is active on three consecutive days.
func IsBlockActiveOn(block models.TimeBlock, target time.Time) bool {
	base, err := utils.ParseDate(block.Date)
	if err != nil {
		return false
	}
	diff := utils.DaysBetween(base, target)
	switch {
	case diff == 0:
		return true
	case diff < 0, !block.IsRecurring():
		return false
	}

	n := block.Recurrence.RepeatCount
	if n < 0 {
		n = 0
	}
	switch block.Recurrence.Type {
	case models.RecurrenceDaily:
		return diff <= n
	case models.RecurrenceWeekly:
		return diff%7 == 0 && diff/7 <= n
	case models.RecurrenceMonthly:
		return target.Day() == base.Day() && utils.MonthsBetween(base, target) <= n
	}
	return false
}

// ActiveBlocks filters blocks down to those active on date.
func ActiveBlocks(blocks []models.TimeBlock, date time.Time) []models.TimeBlock {
	active := []models.TimeBlock{}
	for _, b := range blocks {
		if IsBlockActiveOn(b, date) {
			active = append(active, b)
		}
	}
	return active
}
