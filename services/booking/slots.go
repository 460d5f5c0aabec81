package booking

import (
	"fmt"
	"time"

	"salonbook/models"
	"salonbook/utils"
)

// SlotInterval is the step between candidate start times, in minutes.
const SlotInterval = 30

type interval struct{ start, end int }

func clockInterval(start, end string) (interval, error) {
	s, err := utils.ParseClock(start)
	if err != nil {
		return interval{}, err
	}
	e, err := utils.ParseClock(end)
	if err != nil {
		return interval{}, err
	}
	return interval{s, e}, nil
}

// GenerateSlots lists the start times ("HH:MM", chronological) at which
// service can be booked on date. It is a pure function of its inputs.
//
// A candidate [start, start+duration) is offered when it ends by closing
// time and overlaps neither the break, a non-cancelled booking on date,
// nor a time block active on date. Days off yield no slots.
func GenerateSlots(
	service models.Service,
	date time.Time,
	cfg models.WorkConfig,
	bookings []models.Appointment,
	blocks []models.TimeBlock,
) ([]string, error) {
	slots := []string{}
	if service.Duration <= 0 {
		return nil, utils.NewValidationError("duration", "service duration must be positive")
	}
	if cfg.IsDayOff(date.Weekday()) {
		return slots, nil
	}

	open, err := clockInterval(cfg.StartTime, cfg.EndTime)
	if err != nil {
		return nil, fmt.Errorf("work schedule: %w", err)
	}

	var busy []interval
	if cfg.HasBreak() {
		br, err := clockInterval(cfg.BreakStart, cfg.BreakEnd)
		if err != nil {
			return nil, fmt.Errorf("work schedule break: %w", err)
		}
		busy = append(busy, br)
	}

	day := date.Format(utils.DateLayout)
	for _, b := range bookings {
		if b.Date != day || b.Status == models.AppointmentCancelled {
			continue
		}
		iv, err := clockInterval(b.StartTime, b.EndTime)
		if err != nil {
			return nil, fmt.Errorf("appointment %s: %w", b.ID, err)
		}
		busy = append(busy, iv)
	}

	for _, blk := range blocks {
		if _, err := utils.ParseDate(blk.Date); err != nil {
			return nil, fmt.Errorf("time block %s: %w", blk.ID, err)
		}
		if !IsBlockActiveOn(blk, date) {
			continue
		}
		iv, err := clockInterval(blk.StartTime, blk.EndTime)
		if err != nil {
			return nil, fmt.Errorf("time block %s: %w", blk.ID, err)
		}
		busy = append(busy, iv)
	}

	for start := open.start; start+service.Duration <= open.end; start += SlotInterval {
		end := start + service.Duration
		if !overlapsAny(start, end, busy) {
			slots = append(slots, utils.FormatClock(start))
		}
	}
	return slots, nil
}

func overlapsAny(start, end int, busy []interval) bool {
	for _, iv := range busy {
		if utils.Overlaps(start, end, iv.start, iv.end) {
			return true
		}
	}
	return false
}

// DropStarted removes slots that begin before now's time of day. It only
// applies when date is now's calendar day.
func DropStarted(slots []string, date, now time.Time) []string {
	if date.Format(utils.DateLayout) != now.Format(utils.DateLayout) {
		return slots
	}
	cutoff := now.Hour()*60 + now.Minute()
	kept := []string{}
	for _, s := range slots {
		if m, err := utils.ParseClock(s); err == nil && m > cutoff {
			kept = append(kept, s)
		}
	}
	return kept
}
