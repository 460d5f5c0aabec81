package models

import "time"

// TagChurnRisk marks customers without a visit inside the churn window.
const TagChurnRisk = "churn-risk"

// Customer is a CRM profile, deduplicated by normalised phone number.
type Customer struct {
	ID         string        `bson:"id" json:"id"`
	BusinessID string        `bson:"businessId" json:"-"`
	Name       string        `bson:"name" json:"name"`
	Phone      string        `bson:"phone" json:"phone"` // digits only
	Email      string        `bson:"email,omitempty" json:"email,omitempty"`
	Notes      string        `bson:"notes,omitempty" json:"notes,omitempty"`
	Tags       []string      `bson:"tags" json:"tags"`
	Stats      CustomerStats `bson:"stats" json:"stats"`
	CreatedAt  time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// CustomerStats are updated incrementally on payment, refund and no-show
// events; they are never recomputed from the appointment history.
type CustomerStats struct {
	TotalSpent        float64    `bson:"totalSpent" json:"totalSpent"`
	AppointmentsCount int        `bson:"appointmentsCount" json:"appointmentsCount"`
	AverageTicket     float64    `bson:"averageTicket" json:"averageTicket"`
	NoShowCount       int        `bson:"noShowCount" json:"noShowCount"`
	LastVisitDate     *time.Time `bson:"lastVisitDate,omitempty" json:"lastVisitDate,omitempty"`
}

// HasTag reports whether tag is set on the customer.
func (c Customer) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
