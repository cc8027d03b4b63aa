package models

// SettledMark records that a user marked a computed transfer as paid.
// Transfers themselves are ephemeral calculator output; the mark is the
// only settlement state that survives recomputation. Marks are keyed by
// (trip, from, to, amount in cents), so a mark survives expense edits
// exactly as long as the recomputed transfer list still contains a
// matching transfer.
type SettledMark struct {
	// TripID is the trip this mark belongs to.
	TripID string

	// FromID is the debtor participant (who paid to settle up).
	FromID string

	// ToID is the creditor participant (who was paid).
	ToID string

	// AmountCents is the transfer amount in cents, after the
	// calculator's half-up rounding.
	AmountCents int64

	// MarkedBy is the user ID who recorded the mark.
	MarkedBy string

	// CreatedAt is the Unix timestamp when the mark was recorded.
	CreatedAt int64
}
