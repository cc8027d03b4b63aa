package service

import (
	"context"
	"errors"
	"testing"

	"github.com/peggytheclaw/tripledger/internal/models"
)

func TestTripService_CRUD(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com")

	t.Run("create requires a name", func(t *testing.T) {
		if _, err := env.trips.CreateTrip(ctx, owner.ID, "", nil); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("create with roster", func(t *testing.T) {
		trip, err := env.trips.CreateTrip(ctx, owner.ID, "Lisbon", []string{"Alice", "Bob"})
		if err != nil {
			t.Fatalf("CreateTrip failed: %v", err)
		}
		if trip.OwnerID != owner.ID {
			t.Errorf("OwnerID = %s, want %s", trip.OwnerID, owner.ID)
		}
		if len(trip.Participants) != 2 {
			t.Errorf("expected 2 participants, got %d", len(trip.Participants))
		}
		if trip.ShareToken == "" {
			t.Error("expected share token to be generated")
		}
	})

	t.Run("rename", func(t *testing.T) {
		trip := env.createTrip(t, owner.ID, "Alice")
		renamed, err := env.trips.RenameTrip(ctx, owner.ID, trip.ID, "New Name")
		if err != nil {
			t.Fatalf("RenameTrip failed: %v", err)
		}
		if renamed.Name != "New Name" {
			t.Errorf("Name = %s, want New Name", renamed.Name)
		}
	})

	t.Run("list returns owned trips", func(t *testing.T) {
		other := env.createUser(t, "other@example.com")
		env.createTrip(t, other.ID, "Alice")

		trips, err := env.trips.ListTrips(ctx, other.ID)
		if err != nil {
			t.Fatalf("ListTrips failed: %v", err)
		}
		if len(trips) != 1 {
			t.Errorf("expected 1 trip, got %d", len(trips))
		}
	})

	t.Run("non-owner cannot mutate", func(t *testing.T) {
		stranger := env.createUser(t, "stranger@example.com")
		trip := env.createTrip(t, owner.ID, "Alice")

		if _, err := env.trips.RenameTrip(ctx, stranger.ID, trip.ID, "Hijacked"); !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
		if err := env.trips.DeleteTrip(ctx, stranger.ID, trip.ID); !errors.Is(err, ErrForbidden) {
			t.Errorf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		trip := env.createTrip(t, owner.ID, "Alice")
		if err := env.trips.DeleteTrip(ctx, owner.ID, trip.ID); err != nil {
			t.Fatalf("DeleteTrip failed: %v", err)
		}
		if _, err := env.trips.GetTrip(ctx, owner.ID, trip.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})
}

func TestTripService_Roster(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com")
	trip := env.createTrip(t, owner.ID, "Alice")

	participant, err := env.trips.AddParticipant(ctx, owner.ID, trip.ID, "Bob")
	if err != nil {
		t.Fatalf("AddParticipant failed: %v", err)
	}

	refreshed, err := env.trips.GetTrip(ctx, owner.ID, trip.ID)
	if err != nil {
		t.Fatalf("GetTrip failed: %v", err)
	}
	if len(refreshed.Participants) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(refreshed.Participants))
	}

	if err := env.trips.RemoveParticipant(ctx, owner.ID, trip.ID, participant.ID); err != nil {
		t.Fatalf("RemoveParticipant failed: %v", err)
	}
	if err := env.trips.RemoveParticipant(ctx, owner.ID, trip.ID, participant.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestExpenseService_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com")
	trip := env.createTrip(t, owner.ID, "Alice", "Bob")
	alice, bob := pid(t, trip, "Alice"), pid(t, trip, "Bob")

	tests := []struct {
		name  string
		input ExpenseInput
	}{
		{
			name:  "payer off roster",
			input: ExpenseInput{PayerID: "ghost", Amount: 10, Splits: []models.Split{{ParticipantID: alice, Amount: 10}}},
		},
		{
			name:  "no splits",
			input: ExpenseInput{PayerID: alice, Amount: 10},
		},
		{
			name:  "negative amount",
			input: ExpenseInput{PayerID: alice, Amount: -5, Splits: []models.Split{{ParticipantID: bob, Amount: -5}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.expenses.CreateExpense(ctx, owner.ID, trip.ID, tt.input); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	t.Run("splits referencing unknown ids are stored as-is", func(t *testing.T) {
		// The calculator drops unknown ids itself; the service only
		// checks the payer.
		expense, err := env.expenses.CreateExpense(ctx, owner.ID, trip.ID, ExpenseInput{
			PayerID: alice,
			Amount:  30,
			Splits: []models.Split{
				{ParticipantID: bob, Amount: 15},
				{ParticipantID: "left-the-trip", Amount: 15},
			},
		})
		if err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if len(expense.Splits) != 2 {
			t.Errorf("expected 2 splits stored, got %d", len(expense.Splits))
		}
	})
}

func TestExpenseService_UpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner@example.com")
	trip := env.createTrip(t, owner.ID, "Alice", "Bob")
	alice, bob := pid(t, trip, "Alice"), pid(t, trip, "Bob")
	otherTrip := env.createTrip(t, owner.ID, "Charlie")

	expense := env.addExpense(t, owner.ID, trip.ID, alice, 50, []models.Split{
		{ParticipantID: bob, Amount: 50},
	})

	t.Run("update", func(t *testing.T) {
		updated, err := env.expenses.UpdateExpense(ctx, owner.ID, trip.ID, expense.ID, ExpenseInput{
			Description: "corrected",
			PayerID:     bob,
			Amount:      60,
			Splits:      []models.Split{{ParticipantID: alice, Amount: 60}},
		})
		if err != nil {
			t.Fatalf("UpdateExpense failed: %v", err)
		}
		if updated.PayerID != bob || updated.Amount != 60 {
			t.Errorf("unexpected update result: %+v", updated)
		}
	})

	t.Run("expense id scoped to trip", func(t *testing.T) {
		if err := env.expenses.DeleteExpense(ctx, owner.ID, otherTrip.ID, expense.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound for cross-trip delete, got %v", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := env.expenses.DeleteExpense(ctx, owner.ID, trip.ID, expense.ID); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
		expenses, err := env.expenses.ListExpenses(ctx, owner.ID, trip.ID)
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(expenses) != 0 {
			t.Errorf("expected no expenses, got %d", len(expenses))
		}
	})
}
