package calculator

import "github.com/peggytheclaw/tripledger/internal/models"

// ParticipantTotals summarizes one participant's spending position.
type ParticipantTotals struct {
	Paid float64 // total paid across all expenses
	Owed float64 // total of their own split obligations
	Net  float64 // Paid - Owed
}

// TotalsForParticipant sums what a participant paid and what they owe
// across all expenses.
func TotalsForParticipant(expenses []models.Expense, participantID string) ParticipantTotals {
	var t ParticipantTotals
	for _, e := range expenses {
		if e.PayerID == participantID {
			t.Paid += e.Amount
		}
		for _, s := range e.Splits {
			if s.ParticipantID == participantID {
				t.Owed += s.Amount
			}
		}
	}
	t.Net = t.Paid - t.Owed
	return t
}

// TotalsByCategory sums expense amounts grouped by category label.
// Labels are free-form strings; the empty label is a valid group.
func TotalsByCategory(expenses []models.Expense) map[string]float64 {
	totals := make(map[string]float64)
	for _, e := range expenses {
		totals[e.Category] += e.Amount
	}
	return totals
}
