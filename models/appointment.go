package models

import "time"

const (
	AppointmentScheduled = "scheduled"
	AppointmentNoShow    = "no_show"
	AppointmentCancelled = "cancelled"
)

// Appointment is a booked service. Service name, colour and price are
// snapshotted at creation; EndTime is derived once from the service duration
// and only recomputed when the service or the start time changes.
type Appointment struct {
	ID                string  `bson:"id" json:"id"`
	BusinessID        string  `bson:"businessId" json:"-"`
	ServiceID         string  `bson:"serviceId" json:"serviceId"`
	ServiceName       string  `bson:"serviceName" json:"serviceName"`
	ServiceColor      string  `bson:"serviceColor,omitempty" json:"serviceColor,omitempty"`
	BasePriceSnapshot float64 `bson:"basePriceSnapshot" json:"basePriceSnapshot"`
	ClientName        string  `bson:"clientName" json:"clientName"`
	ClientPhone       string  `bson:"clientPhone" json:"clientPhone"`
	CustomerID        string  `bson:"customerId,omitempty" json:"customerId,omitempty"`
	Date              string  `bson:"date" json:"date"`
	StartTime         string  `bson:"startTime" json:"startTime"`
	EndTime           string  `bson:"endTime" json:"endTime"`
	Status            string  `bson:"status" json:"status"`
	Notes             string  `bson:"notes,omitempty" json:"notes,omitempty"`

	IsPaid        bool          `bson:"isPaid" json:"isPaid"`
	PaymentMethod PaymentMethod `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"`
	PaidAmount    float64       `bson:"paidAmount,omitempty" json:"paidAmount,omitempty"`
	Discount      float64       `bson:"discount,omitempty" json:"discount,omitempty"`
	CashEntryID   string        `bson:"cashEntryId,omitempty" json:"cashEntryId,omitempty"`

	Source    string    `bson:"source" json:"source"` // "public" or "staff"
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	CreatedBy string    `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
