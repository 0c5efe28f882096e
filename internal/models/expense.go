package models

// Split types supported for an expense.
const (
	SplitEqual  = "EQUAL"
	SplitCustom = "CUSTOM"
)

// Expense represents money paid by one group member on behalf of the group.
// An expense owns its shares: deleting the expense deletes every share row.
// Expenses are created atomically with their shares and never updated.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Description is what the expense was for.
	Description string

	// Amount is the full positive amount paid.
	Amount float64

	// PaidByID is the user who paid. Must be a member of the group.
	PaidByID string

	// SplitType is how the amount was divided: SplitEqual or SplitCustom.
	SplitType string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64

	// Shares are the per-user obligations for this expense.
	// At most one share per user.
	Shares []ExpenseShare
}

// ExpenseShare is one ledger line: the portion of an expense's amount that
// a user is financially responsible for, regardless of who paid.
type ExpenseShare struct {
	// ExpenseID is the owning expense.
	ExpenseID string

	// UserID is the participant responsible for this share.
	UserID string

	// ShareAmount is this user's portion of the expense amount.
	ShareAmount float64
}

// UserShare is the read model for balance aggregation: a share row joined
// with the amount and payer of its owning expense.
type UserShare struct {
	ExpenseID     string
	GroupID       string
	UserID        string
	ShareAmount   float64
	ExpenseAmount float64
	PaidByID      string
}
