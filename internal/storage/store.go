// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/peggytheclaw/tripledger/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for trip ledger storage operations.
// This abstraction allows swapping storage backends (SQLite,
// PostgreSQL, etc.) without changing the service layer.
type Store interface {
	// CreateUser inserts a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email address.
	// Returns (nil, nil) if no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	// Returns (nil, nil) if the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// CreateTrip persists a new trip along with its initial
	// participants. ID, ShareToken and CreatedAt are populated by the
	// store when unset.
	CreateTrip(ctx context.Context, trip *models.Trip) error

	// GetTrip retrieves a trip by ID, including its participant roster.
	GetTrip(ctx context.Context, tripID string) (*models.Trip, error)

	// GetTripByShareToken retrieves a trip by its public share token.
	GetTripByShareToken(ctx context.Context, token string) (*models.Trip, error)

	// ListTripsByOwner retrieves all trips owned by a user, newest
	// first.
	ListTripsByOwner(ctx context.Context, ownerID string) ([]*models.Trip, error)

	// UpdateTrip updates a trip's name. Roster changes go through
	// AddParticipant/RemoveParticipant.
	UpdateTrip(ctx context.Context, trip *models.Trip) error

	// DeleteTrip removes a trip and everything hanging off it
	// (participants, expenses, splits, settled marks).
	DeleteTrip(ctx context.Context, tripID string) error

	// AddParticipant adds a person to a trip's roster. The ID is
	// populated by the store when unset.
	AddParticipant(ctx context.Context, participant *models.Participant) error

	// RemoveParticipant removes a person from a trip's roster.
	// Expenses referencing the removed participant are left untouched;
	// the calculator drops unknown ids on its own.
	RemoveParticipant(ctx context.Context, tripID, participantID string) error

	// CreateExpense persists a new expense with its splits. ID and
	// CreatedAt are populated by the store when unset.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by ID, including splits in their
	// original order.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// UpdateExpense replaces an expense and its splits.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes an expense and its splits.
	DeleteExpense(ctx context.Context, expenseID string) error

	// ListExpensesByTrip retrieves all expenses for a trip with their
	// splits, oldest first.
	ListExpensesByTrip(ctx context.Context, tripID string) ([]models.Expense, error)

	// PutSettledMark records that a computed transfer was paid.
	// Idempotent: re-marking the same transfer is not an error.
	PutSettledMark(ctx context.Context, mark *models.SettledMark) error

	// DeleteSettledMark removes a mark, un-settling the transfer.
	DeleteSettledMark(ctx context.Context, tripID, fromID, toID string, amountCents int64) error

	// ListSettledMarks retrieves all marks for a trip.
	ListSettledMarks(ctx context.Context, tripID string) ([]models.SettledMark, error)

	// Close releases any resources held by the store.
	Close() error
}
