package ledger

import (
	"time"
)

// Epsilon is the tolerance used for all float comparisons on amounts and
// percentages. Equal splits are plain floating-point division; residual
// cent discrepancies are a known limitation and are not corrected.
const Epsilon = 1e-6

// SplitType selects how an expense is divided among its participants.
type SplitType string

const (
	SplitEqual      SplitType = "equal"
	SplitUnequal    SplitType = "unequal"
	SplitPercentage SplitType = "percentage"
)

// SplitStatus tracks whether a participant has marked their share paid.
type SplitStatus string

const (
	StatusPaid   SplitStatus = "paid"
	StatusUnpaid SplitStatus = "unpaid"
)

// UserRef is a hydrated reference to a user. The repository layer performs
// the join; the ledger only depends on the shape.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SplitDetail is one participant's share of an expense.
type SplitDetail struct {
	User       UserRef     `json:"user"`
	Amount     float64     `json:"amount"`
	Percentage float64     `json:"percentage,omitempty"`
	Status     SplitStatus `json:"status"`
}

// Expense is a shared cost paid by one user and split among participants.
// The record is immutable once created, except for per-split status.
// The split details always cover every participant, payer included, so
// their amounts sum to Amount within Epsilon.
type Expense struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Amount       float64       `json:"amount"`
	PaidBy       UserRef       `json:"paid_by"`
	Participants []UserRef     `json:"participants"`
	SplitType    SplitType     `json:"split_type"`
	SplitDetails []SplitDetail `json:"split_details"`
	GroupID      string        `json:"group_id,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Settlement is a direct payment outside the expense mechanism that reduces
// the payer's debt to the payee. Append-only, immutable once created.
type Settlement struct {
	ID        string    `json:"id"`
	PaidBy    UserRef   `json:"paid_by"`
	PaidTo    UserRef   `json:"paid_to"`
	Amount    float64   `json:"amount"`
	GroupID   string    `json:"group_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
