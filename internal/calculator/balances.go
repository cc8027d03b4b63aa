// Package calculator implements the trip settlement engine: pure
// functions that turn an expense/participant snapshot into balances, a
// near-minimal transfer list, and spending totals.
//
// Every function is a stateless transformation of its inputs and is
// safe to call concurrently. No validation is performed: malformed
// input (negative amounts, empty splits, duplicate participant ids,
// splits that do not sum to the expense amount) is accepted as-is and
// produces mathematically consistent output. Validation belongs to the
// calling layer; keeping the functions free of error paths keeps their
// behavior exactly reproducible.
package calculator

import "github.com/peggytheclaw/tripledger/internal/models"

// Balance is a participant's net position across all expenses.
// Positive means the participant is owed money, negative means they
// owe money.
type Balance struct {
	ParticipantID string
	Net           float64
}

// ComputeBalances computes each participant's net balance:
// (sum of amounts where they are payer) minus (sum of their own split
// obligations across all expenses).
//
// The participants list defines the output domain and order: one
// Balance per input participant, in input order, starting from zero.
// Expense amounts attributed to ids absent from participants (payer or
// split member) are silently dropped rather than rejected. A
// participant who is both payer and split member nets out partially,
// which is correct: paying for yourself is not a debt.
//
// The result is independent of expense order. No rounding is applied
// at this stage.
func ComputeBalances(expenses []models.Expense, participants []models.Participant) []Balance {
	net := make(map[string]float64, len(participants))
	known := make(map[string]bool, len(participants))
	for _, p := range participants {
		known[p.ID] = true
		net[p.ID] = 0
	}

	for _, e := range expenses {
		if known[e.PayerID] {
			net[e.PayerID] += e.Amount
		}
		for _, s := range e.Splits {
			if known[s.ParticipantID] {
				net[s.ParticipantID] -= s.Amount
			}
		}
	}

	balances := make([]Balance, len(participants))
	for i, p := range participants {
		balances[i] = Balance{ParticipantID: p.ID, Net: net[p.ID]}
	}
	return balances
}
