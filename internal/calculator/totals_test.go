package calculator

import (
	"math"
	"testing"

	"github.com/peggytheclaw/tripledger/internal/models"
)

func TestTotalsForParticipant(t *testing.T) {
	expenses := []models.Expense{
		{PayerID: "A", Amount: 90, Category: "food", Splits: []models.Split{
			{ParticipantID: "A", Amount: 30},
			{ParticipantID: "B", Amount: 30},
			{ParticipantID: "C", Amount: 30},
		}},
		{PayerID: "B", Amount: 60, Category: "transport", Splits: []models.Split{
			{ParticipantID: "A", Amount: 20},
			{ParticipantID: "B", Amount: 20},
			{ParticipantID: "C", Amount: 20},
		}},
	}

	tests := []struct {
		name          string
		participantID string
		wantPaid      float64
		wantOwed      float64
		wantNet       float64
	}{
		{"payer of one expense", "A", 90, 50, 40},
		{"payer of the other", "B", 60, 50, 10},
		{"never paid", "C", 0, 50, -50},
		{"not on the trip", "ghost", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TotalsForParticipant(expenses, tt.participantID)
			if math.Abs(got.Paid-tt.wantPaid) > 1e-9 {
				t.Errorf("Paid = %v, want %v", got.Paid, tt.wantPaid)
			}
			if math.Abs(got.Owed-tt.wantOwed) > 1e-9 {
				t.Errorf("Owed = %v, want %v", got.Owed, tt.wantOwed)
			}
			if math.Abs(got.Net-tt.wantNet) > 1e-9 {
				t.Errorf("Net = %v, want %v", got.Net, tt.wantNet)
			}
		})
	}
}

func TestTotalsByCategory(t *testing.T) {
	expenses := []models.Expense{
		{PayerID: "A", Amount: 40, Category: "food"},
		{PayerID: "B", Amount: 25.5, Category: "food"},
		{PayerID: "A", Amount: 120, Category: "lodging"},
		{PayerID: "C", Amount: 9.99}, // empty category is a valid group
	}

	totals := TotalsByCategory(expenses)

	want := map[string]float64{
		"food":    65.5,
		"lodging": 120,
		"":        9.99,
	}
	if len(totals) != len(want) {
		t.Fatalf("expected %d categories, got %d: %v", len(want), len(totals), totals)
	}
	for category, amount := range want {
		if math.Abs(totals[category]-amount) > 1e-9 {
			t.Errorf("category %q = %v, want %v", category, totals[category], amount)
		}
	}
}

func TestTotalsByCategory_Empty(t *testing.T) {
	totals := TotalsByCategory(nil)
	if len(totals) != 0 {
		t.Errorf("expected empty map, got %v", totals)
	}
}
