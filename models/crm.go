package models

import "time"

type CRMEventType string

const (
	EventAppointmentCreated CRMEventType = "appointment_created"
	EventPayment            CRMEventType = "payment"
	EventRefund             CRMEventType = "refund"
	EventNoShow             CRMEventType = "no_show"
	EventNote               CRMEventType = "note"
	EventCampaign           CRMEventType = "campaign"
	EventLeadConverted      CRMEventType = "lead_converted"
	EventReconciliation     CRMEventType = "reconciliation"
)

// CRMEvent is one item of a customer's timeline.
type CRMEvent struct {
	ID          string       `bson:"id" json:"id"`
	BusinessID  string       `bson:"businessId" json:"-"`
	CustomerID  string       `bson:"customerId" json:"customerId"`
	Type        CRMEventType `bson:"type" json:"type"`
	Description string       `bson:"description" json:"description"`
	RefID       string       `bson:"refId,omitempty" json:"refId,omitempty"`
	CreatedAt   time.Time    `bson:"createdAt" json:"createdAt"`
	ActorID     string       `bson:"actorId,omitempty" json:"actorId,omitempty"`
}

// CRMTask is a staff follow-up, optionally linked to a customer.
type CRMTask struct {
	ID          string     `bson:"id" json:"id"`
	BusinessID  string     `bson:"businessId" json:"-"`
	Title       string     `bson:"title" json:"title"`
	CustomerID  string     `bson:"customerId,omitempty" json:"customerId,omitempty"`
	DueDate     string     `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	Done        bool       `bson:"done" json:"done"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	CreatedBy   string     `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CompletedAt *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadConverted LeadStatus = "converted"
	LeadLost      LeadStatus = "lost"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadNew, LeadContacted, LeadConverted, LeadLost:
		return true
	}
	return false
}

// Lead is a prospective customer.
type Lead struct {
	ID         string     `bson:"id" json:"id"`
	BusinessID string     `bson:"businessId" json:"-"`
	Name       string     `bson:"name" json:"name"`
	Phone      string     `bson:"phone" json:"phone"`
	Source     string     `bson:"source,omitempty" json:"source,omitempty"`
	Status     LeadStatus `bson:"status" json:"status"`
	CustomerID string     `bson:"customerId,omitempty" json:"customerId,omitempty"`
	CreatedAt  time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time  `bson:"updatedAt" json:"updatedAt"`
}

type CampaignStatus string

const (
	CampaignDraft CampaignStatus = "draft"
	CampaignSent  CampaignStatus = "sent"
)

// Campaign is a message addressed to every customer carrying TargetTag
// (or to everyone when TargetTag is empty). Sending is simulated.
type Campaign struct {
	ID         string         `bson:"id" json:"id"`
	BusinessID string         `bson:"businessId" json:"-"`
	Name       string         `bson:"name" json:"name"`
	Message    string         `bson:"message" json:"message"`
	TargetTag  string         `bson:"targetTag,omitempty" json:"targetTag,omitempty"`
	Status     CampaignStatus `bson:"status" json:"status"`
	Recipients int            `bson:"recipients" json:"recipients"`
	SentAt     *time.Time     `bson:"sentAt,omitempty" json:"sentAt,omitempty"`
	CreatedAt  time.Time      `bson:"createdAt" json:"createdAt"`
	CreatedBy  string         `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
}
