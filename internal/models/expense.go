package models

// Expense represents a single paid cost on a trip, split among
// participants. Splits are caller-supplied and trusted as-is: they may
// reflect custom unequal divisions and are not required to sum to
// Amount (the calculator accumulates whatever it is given).
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// TripID is the trip this expense belongs to.
	TripID string

	// Description is a human-readable label (e.g., "Dinner at Ramiro").
	Description string

	// Category is a free-form label used for per-category totals
	// (e.g., "food", "lodging"). Not a closed enum.
	Category string

	// PayerID is the participant who paid the full amount.
	PayerID string

	// Amount is the full amount paid, in the trip's implicit currency.
	Amount float64

	// Splits assigns each participant's owed share of Amount.
	Splits []Split

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// Split is the portion of an expense's amount attributed to one
// participant's obligation.
type Split struct {
	// ParticipantID identifies who owes this share.
	ParticipantID string

	// Amount is the owed share.
	Amount float64
}
