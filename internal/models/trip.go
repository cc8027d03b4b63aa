package models

// Trip represents a planned trip whose members share expenses.
type Trip struct {
	// ID is the unique identifier for the trip (UUID format).
	ID string

	// Name is the display name of the trip (e.g., "Lisbon 2026").
	Name string

	// OwnerID is the user ID of the trip creator. Only the owner may
	// delete the trip.
	OwnerID string

	// ShareToken is a random URL-safe token granting read-only access
	// to the public trip view. Empty until sharing is enabled.
	ShareToken string

	// Participants is the trip's roster, in insertion order.
	Participants []Participant

	// CreatedAt is the Unix timestamp when the trip was created.
	CreatedAt int64
}

// Participant is a person on a trip's roster. Participants are created
// by trip owners and persist for the lifetime of the trip; the
// calculator treats them as read-only inputs.
type Participant struct {
	// ID is the unique identifier for the participant (UUID format).
	ID string

	// TripID is the trip this participant belongs to.
	TripID string

	// Name is the display name of the participant.
	Name string
}
