package models

import "time"

// Service is an entry of the salon's service catalogue.
type Service struct {
	ID          string    `bson:"id" json:"id"`
	BusinessID  string    `bson:"businessId" json:"-"`
	Name        string    `bson:"name" json:"name" binding:"required"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Duration    int       `bson:"duration" json:"duration" binding:"required,gt=0"` // minutes
	Price       string    `bson:"price" json:"price"`                               // display string, e.g. "35.00"
	Color       string    `bson:"color,omitempty" json:"color,omitempty"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// WorkConfig is the per-business opening schedule (singleton document
// config/work-schedule).
type WorkConfig struct {
	BusinessID string    `bson:"businessId" json:"-"`
	StartTime  string    `bson:"startTime" json:"startTime" binding:"required"` // "HH:MM"
	EndTime    string    `bson:"endTime" json:"endTime" binding:"required"`
	BreakStart string    `bson:"breakStart,omitempty" json:"breakStart,omitempty"`
	BreakEnd   string    `bson:"breakEnd,omitempty" json:"breakEnd,omitempty"`
	DaysOff    []int     `bson:"daysOff" json:"daysOff"` // 0=Sunday..6=Saturday
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
	UpdatedBy  string    `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
}

// HasBreak reports whether a break window is configured.
func (w WorkConfig) HasBreak() bool {
	return w.BreakStart != "" && w.BreakEnd != ""
}

// IsDayOff reports whether weekday is a configured weekly day off.
func (w WorkConfig) IsDayOff(weekday time.Weekday) bool {
	for _, d := range w.DaysOff {
		if d == int(weekday) {
			return true
		}
	}
	return false
}
