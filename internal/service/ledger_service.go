package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/peggytheclaw/tripledger/internal/calculator"
	"github.com/peggytheclaw/tripledger/internal/models"
	"github.com/peggytheclaw/tripledger/internal/storage"
)

// LedgerService exposes the settlement calculator over stored trip
// data: balances, the transfer list with persisted settled marks
// merged back in, and spending totals.
//
// Balances and transfers are recomputed from the expense snapshot on
// every read; nothing derived is persisted. Transfer IDs are therefore
// not stable across calls — marks are keyed by (from, to, amount in
// cents) instead, and a mark silently stops applying when expense
// edits change the computed transfer list so that no matching transfer
// is produced anymore.
type LedgerService struct {
	store storage.Store
}

// NewLedgerService creates a new LedgerService with the given storage
// backend.
func NewLedgerService(store storage.Store) *LedgerService {
	return &LedgerService{store: store}
}

// TripLedger is a full computed view of a trip's finances.
type TripLedger struct {
	Trip      *models.Trip
	Expenses  []models.Expense
	Balances  []calculator.Balance
	Transfers []calculator.Transfer
}

// centsOf converts a rounded currency amount to cents for mark keys.
func centsOf(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// Balances computes the per-participant balances for a trip.
func (s *LedgerService) Balances(ctx context.Context, userID, tripID string) ([]calculator.Balance, error) {
	trip, err := ownedTrip(ctx, s.store, tripID, userID)
	if err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpensesByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	return calculator.ComputeBalances(expenses, trip.Participants), nil
}

// Transfers computes the settlement transfer list for a trip, with
// persisted settled marks merged in.
func (s *LedgerService) Transfers(ctx context.Context, userID, tripID string) ([]calculator.Transfer, error) {
	trip, err := ownedTrip(ctx, s.store, tripID, userID)
	if err != nil {
		return nil, err
	}
	return s.transfersForTrip(ctx, trip)
}

func (s *LedgerService) transfersForTrip(ctx context.Context, trip *models.Trip) ([]calculator.Transfer, error) {
	expenses, err := s.store.ListExpensesByTrip(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	transfers := calculator.ComputeTransfers(expenses, trip.Participants)

	marks, err := s.store.ListSettledMarks(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	if len(marks) == 0 {
		return transfers, nil
	}

	type markKey struct {
		from, to string
		cents    int64
	}
	marked := make(map[markKey]bool, len(marks))
	for _, m := range marks {
		marked[markKey{m.FromID, m.ToID, m.AmountCents}] = true
	}
	for i := range transfers {
		tr := &transfers[i]
		tr.Settled = marked[markKey{tr.FromID, tr.ToID, centsOf(tr.Amount)}]
	}
	return transfers, nil
}

// MarkSettled records that a computed transfer was paid. The transfer
// must match the current computed list; marking a stale transfer is
// rejected so the ledger never shows marks for payments it no longer
// asks for.
func (s *LedgerService) MarkSettled(ctx context.Context, userID, tripID, fromID, toID string, amount float64) error {
	trip, err := ownedTrip(ctx, s.store, tripID, userID)
	if err != nil {
		return err
	}

	transfers, err := s.transfersForTrip(ctx, trip)
	if err != nil {
		return err
	}
	cents := centsOf(amount)
	found := false
	for _, tr := range transfers {
		if tr.FromID == fromID && tr.ToID == toID && centsOf(tr.Amount) == cents {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: no computed transfer %s->%s for that amount", ErrInvalidInput, fromID, toID)
	}

	mark := &models.SettledMark{
		TripID:      tripID,
		FromID:      fromID,
		ToID:        toID,
		AmountCents: cents,
		MarkedBy:    userID,
	}
	if err := s.store.PutSettledMark(ctx, mark); err != nil {
		slog.Error("MarkSettled failed", "trip_id", tripID, "error", err)
		return err
	}
	slog.Info("Transfer marked settled", "trip_id", tripID, "from", fromID, "to", toID, "amount", amount)
	return nil
}

// UnmarkSettled removes a settled mark.
func (s *LedgerService) UnmarkSettled(ctx context.Context, userID, tripID, fromID, toID string, amount float64) error {
	if _, err := ownedTrip(ctx, s.store, tripID, userID); err != nil {
		return err
	}
	err := s.store.DeleteSettledMark(ctx, tripID, fromID, toID, centsOf(amount))
	if err != nil {
		if errorsIsNotFound(err) {
			return fmt.Errorf("settled mark: %w", ErrNotFound)
		}
		return err
	}
	return nil
}

// ParticipantTotals computes paid/owed/net for one roster member.
func (s *LedgerService) ParticipantTotals(ctx context.Context, userID, tripID, participantID string) (calculator.ParticipantTotals, error) {
	trip, err := ownedTrip(ctx, s.store, tripID, userID)
	if err != nil {
		return calculator.ParticipantTotals{}, err
	}
	found := false
	for _, p := range trip.Participants {
		if p.ID == participantID {
			found = true
			break
		}
	}
	if !found {
		return calculator.ParticipantTotals{}, fmt.Errorf("participant %s: %w", participantID, ErrNotFound)
	}

	expenses, err := s.store.ListExpensesByTrip(ctx, tripID)
	if err != nil {
		return calculator.ParticipantTotals{}, err
	}
	return calculator.TotalsForParticipant(expenses, participantID), nil
}

// CategoryTotals sums expense amounts per category label.
func (s *LedgerService) CategoryTotals(ctx context.Context, userID, tripID string) (map[string]float64, error) {
	if _, err := ownedTrip(ctx, s.store, tripID, userID); err != nil {
		return nil, err
	}
	expenses, err := s.store.ListExpensesByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	return calculator.TotalsByCategory(expenses), nil
}

// SharedLedger builds the public read-only view behind a share token:
// the trip, its expenses, balances and transfer list.
func (s *LedgerService) SharedLedger(ctx context.Context, token string) (*TripLedger, error) {
	trip, err := s.store.GetTripByShareToken(ctx, token)
	if err != nil {
		if errorsIsNotFound(err) {
			return nil, fmt.Errorf("share token: %w", ErrNotFound)
		}
		return nil, err
	}

	expenses, err := s.store.ListExpensesByTrip(ctx, trip.ID)
	if err != nil {
		return nil, err
	}
	transfers, err := s.transfersForTrip(ctx, trip)
	if err != nil {
		return nil, err
	}

	return &TripLedger{
		Trip:      trip,
		Expenses:  expenses,
		Balances:  calculator.ComputeBalances(expenses, trip.Participants),
		Transfers: transfers,
	}, nil
}
