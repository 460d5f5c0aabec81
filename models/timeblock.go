package models

import "time"

type RecurrenceType string

const (
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
)

// Recurrence repeats a block after its base date. RepeatCount counts the
// additional occurrences: 1 means the original plus one repeat.
type Recurrence struct {
	Type        RecurrenceType `bson:"type" json:"type"`
	RepeatCount int            `bson:"repeatCount" json:"repeatCount"`
}

// TimeBlock is an administrative closure of part of a day.
type TimeBlock struct {
	ID         string      `bson:"id" json:"id"`
	BusinessID string      `bson:"businessId" json:"-"`
	Date       string      `bson:"date" json:"date"`           // base date "YYYY-MM-DD"
	StartTime  string      `bson:"startTime" json:"startTime"` // "HH:MM"
	EndTime    string      `bson:"endTime" json:"endTime"`
	Reason     string      `bson:"reason,omitempty" json:"reason,omitempty"`
	Recurrence *Recurrence `bson:"recurrence,omitempty" json:"recurrence,omitempty"`
	CreatedAt  time.Time   `bson:"createdAt" json:"createdAt"`
	CreatedBy  string      `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
}

// IsRecurring reports whether the block repeats after its base date.
func (b TimeBlock) IsRecurring() bool {
	return b.Recurrence != nil && b.Recurrence.Type != ""
}
