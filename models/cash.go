package models

import "time"

type SessionStatus string

const (
	SessionOpen   SessionStatus = "OPEN"
	SessionClosed SessionStatus = "CLOSED"
)

// CashSession is one business day of the cash drawer.
type CashSession struct {
	ID             string        `bson:"id" json:"id"`
	BusinessID     string        `bson:"businessId" json:"-"`
	OpeningDate    string        `bson:"openingDate" json:"openingDate"`
	InitialBalance float64       `bson:"initialBalance" json:"initialBalance"`
	Status         SessionStatus `bson:"status" json:"status"`
	OpenedAt       time.Time     `bson:"openedAt" json:"openedAt"`
	OpenedBy       string        `bson:"openedBy" json:"openedBy"`

	ClosingDate      string     `bson:"closingDate,omitempty" json:"closingDate,omitempty"`
	ClosedAt         *time.Time `bson:"closedAt,omitempty" json:"closedAt,omitempty"`
	ClosedBy         string     `bson:"closedBy,omitempty" json:"closedBy,omitempty"`
	FinalBalance     *float64   `bson:"finalBalance,omitempty" json:"finalBalance,omitempty"`
	ExpectedBalance  *float64   `bson:"expectedBalance,omitempty" json:"expectedBalance,omitempty"`
	DivergenceAmount *float64   `bson:"divergenceAmount,omitempty" json:"divergenceAmount,omitempty"`
	DivergenceNotes  string     `bson:"divergenceNotes,omitempty" json:"divergenceNotes,omitempty"`
}

type EntryType string

const (
	EntryIncome            EntryType = "Income"
	EntryExpense           EntryType = "Expense"
	EntryAdjustment        EntryType = "Adjustment"
	EntryRefund            EntryType = "Refund"
	EntryAppointmentIncome EntryType = "AppointmentIncome"
	EntryAppointmentRefund EntryType = "AppointmentRefund"
)

// IsIncome reports whether the type adds to the drawer.
func (t EntryType) IsIncome() bool {
	switch t {
	case EntryIncome, EntryAppointmentIncome, EntryAdjustment:
		return true
	}
	return false
}

// IsExpense reports whether the type takes from the drawer.
func (t EntryType) IsExpense() bool {
	switch t {
	case EntryExpense, EntryRefund, EntryAppointmentRefund:
		return true
	}
	return false
}

func (t EntryType) Valid() bool { return t.IsIncome() || t.IsExpense() }

type PaymentMethod string

const (
	MethodCash     PaymentMethod = "Cash"
	MethodCard     PaymentMethod = "Card"
	MethodPix      PaymentMethod = "Pix"
	MethodTransfer PaymentMethod = "Transfer"
	MethodOther    PaymentMethod = "Other"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodCard, MethodPix, MethodTransfer, MethodOther:
		return true
	}
	return false
}

type EntryOrigin string

const (
	OriginManual      EntryOrigin = "Manual"
	OriginAppointment EntryOrigin = "Appointment"
)

type EntryStatus string

const (
	EntryConfirmed EntryStatus = "CONFIRMED"
	EntryVoided    EntryStatus = "VOIDED"
)

type EditAction string

const (
	EditAmend EditAction = "amend"
	EditVoid  EditAction = "void"
)

// EntryEdit is one element of an entry's append-only correction history.
type EntryEdit struct {
	Action              EditAction `bson:"action" json:"action"`
	PreviousAmount      float64    `bson:"previousAmount" json:"previousAmount"`
	NewAmount           float64    `bson:"newAmount" json:"newAmount"`
	PreviousDescription string     `bson:"previousDescription" json:"previousDescription"`
	NewDescription      string     `bson:"newDescription" json:"newDescription"`
	Reason              string     `bson:"reason" json:"reason"`
	Timestamp           time.Time  `bson:"timestamp" json:"timestamp"`
	ActorID             string     `bson:"actorId" json:"actorId"`
}

// CashEntry is a ledger line. Amount is always a positive magnitude; the
// sign is implied by Type.
type CashEntry struct {
	ID            string        `bson:"id" json:"id"`
	BusinessID    string        `bson:"businessId" json:"-"`
	SessionID     string        `bson:"sessionId" json:"sessionId"`
	Type          EntryType     `bson:"type" json:"type"`
	Amount        float64       `bson:"amount" json:"amount"`
	PaymentMethod PaymentMethod `bson:"paymentMethod" json:"paymentMethod"`
	Origin        EntryOrigin   `bson:"origin" json:"origin"`
	Description   string        `bson:"description" json:"description"`
	Status        EntryStatus   `bson:"status" json:"status"`
	AppointmentID string        `bson:"appointmentId,omitempty" json:"appointmentId,omitempty"`
	CreatedAt     time.Time     `bson:"createdAt" json:"createdAt"`
	CreatedBy     string        `bson:"createdBy" json:"createdBy"`

	OriginalAmount      *float64    `bson:"originalAmount,omitempty" json:"originalAmount,omitempty"`
	OriginalDescription *string     `bson:"originalDescription,omitempty" json:"originalDescription,omitempty"`
	IsEdited            bool        `bson:"isEdited" json:"isEdited"`
	LastEditReason      string      `bson:"lastEditReason,omitempty" json:"lastEditReason,omitempty"`
	History             []EntryEdit `bson:"history,omitempty" json:"history,omitempty"`
}

// Summary is the folded view of a session's ledger.
type Summary struct {
	CurrentBalance float64                   `json:"currentBalance"`
	TotalIncome    float64                   `json:"totalIncome"`
	TotalExpense   float64                   `json:"totalExpense"`
	TotalByMethod  map[PaymentMethod]float64 `json:"totalByMethod"`
}
