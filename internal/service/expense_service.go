package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/peggytheclaw/tripledger/internal/models"
	"github.com/peggytheclaw/tripledger/internal/storage"
)

// ExpenseService manages trip expenses. Splits are caller-supplied and
// stored as-is: custom unequal divisions are allowed and splits are not
// required to sum to the expense amount (the calculator trusts its
// input). The service only enforces structural rules: a known payer
// and a non-empty split list.
type ExpenseService struct {
	store storage.Store
}

// NewExpenseService creates a new ExpenseService with the given
// storage backend.
func NewExpenseService(store storage.Store) *ExpenseService {
	return &ExpenseService{store: store}
}

// ExpenseInput carries caller-supplied expense fields.
type ExpenseInput struct {
	Description string
	Category    string
	PayerID     string
	Amount      float64
	Splits      []models.Split
}

func validateExpenseInput(in ExpenseInput, trip *models.Trip) error {
	if in.Amount < 0 {
		return fmt.Errorf("%w: amount cannot be negative", ErrInvalidInput)
	}
	if len(in.Splits) == 0 {
		return fmt.Errorf("%w: at least one split is required", ErrInvalidInput)
	}
	onRoster := func(id string) bool {
		for _, p := range trip.Participants {
			if p.ID == id {
				return true
			}
		}
		return false
	}
	if !onRoster(in.PayerID) {
		return fmt.Errorf("%w: payer %q is not on the trip roster", ErrInvalidInput, in.PayerID)
	}
	return nil
}

// CreateExpense records a new expense on a trip.
func (s *ExpenseService) CreateExpense(ctx context.Context, userID, tripID string, in ExpenseInput) (*models.Expense, error) {
	trip, err := ownedTrip(ctx, s.store, tripID, userID)
	if err != nil {
		return nil, err
	}
	if err := validateExpenseInput(in, trip); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		TripID:      tripID,
		Description: in.Description,
		Category:    in.Category,
		PayerID:     in.PayerID,
		Amount:      in.Amount,
		Splits:      in.Splits,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("CreateExpense failed", "trip_id", tripID, "error", err)
		return nil, err
	}
	slog.Info("Expense created", "trip_id", tripID, "expense_id", expense.ID, "amount", expense.Amount)
	return expense, nil
}

// ListExpenses retrieves all expenses for a trip, oldest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, userID, tripID string) ([]models.Expense, error) {
	if _, err := ownedTrip(ctx, s.store, tripID, userID); err != nil {
		return nil, err
	}
	return s.store.ListExpensesByTrip(ctx, tripID)
}

// UpdateExpense replaces an expense's fields and splits.
func (s *ExpenseService) UpdateExpense(ctx context.Context, userID, tripID, expenseID string, in ExpenseInput) (*models.Expense, error) {
	trip, err := ownedTrip(ctx, s.store, tripID, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("expense %s: %w", expenseID, ErrNotFound)
		}
		return nil, err
	}
	if existing.TripID != tripID {
		return nil, fmt.Errorf("expense %s: %w", expenseID, ErrNotFound)
	}
	if err := validateExpenseInput(in, trip); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		ID:          expenseID,
		TripID:      tripID,
		Description: in.Description,
		Category:    in.Category,
		PayerID:     in.PayerID,
		Amount:      in.Amount,
		Splits:      in.Splits,
		CreatedAt:   existing.CreatedAt,
	}
	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		slog.Error("UpdateExpense failed", "expense_id", expenseID, "error", err)
		return nil, err
	}
	slog.Info("Expense updated", "trip_id", tripID, "expense_id", expenseID)
	return expense, nil
}

// DeleteExpense removes an expense from a trip.
func (s *ExpenseService) DeleteExpense(ctx context.Context, userID, tripID, expenseID string) error {
	if _, err := ownedTrip(ctx, s.store, tripID, userID); err != nil {
		return err
	}

	existing, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("expense %s: %w", expenseID, ErrNotFound)
		}
		return err
	}
	if existing.TripID != tripID {
		return fmt.Errorf("expense %s: %w", expenseID, ErrNotFound)
	}

	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", expenseID, "error", err)
		return err
	}
	slog.Info("Expense deleted", "trip_id", tripID, "expense_id", expenseID)
	return nil
}
