package calculator

import (
	"math"
	"testing"

	"github.com/peggytheclaw/tripledger/internal/models"
)

// applyTransfers replays transfers against the computed balances and
// returns the resulting net per participant.
func applyTransfers(balances []Balance, transfers []Transfer) map[string]float64 {
	net := balanceMap(balances)
	for _, tr := range transfers {
		net[tr.FromID] += tr.Amount
		net[tr.ToID] -= tr.Amount
	}
	return net
}

func TestComputeTransfers(t *testing.T) {
	tests := []struct {
		name         string
		expenses     []models.Expense
		participants []models.Participant
		validateFunc func(t *testing.T, transfers []Transfer)
	}{
		{
			name: "two people, single transfer",
			expenses: []models.Expense{
				{PayerID: "A", Amount: 100, Splits: []models.Split{
					{ParticipantID: "A", Amount: 50},
					{ParticipantID: "B", Amount: 50},
				}},
			},
			participants: participants("A", "B"),
			validateFunc: func(t *testing.T, transfers []Transfer) {
				if len(transfers) != 1 {
					t.Fatalf("expected 1 transfer, got %d", len(transfers))
				}
				tr := transfers[0]
				if tr.FromID != "B" || tr.ToID != "A" {
					t.Errorf("expected B->A, got %s->%s", tr.FromID, tr.ToID)
				}
				if math.Abs(tr.Amount-50) > 1e-9 {
					t.Errorf("amount = %v, want 50", tr.Amount)
				}
			},
		},
		{
			name: "largest creditor matched first",
			expenses: []models.Expense{
				{PayerID: "A", Amount: 90, Splits: []models.Split{
					{ParticipantID: "A", Amount: 30},
					{ParticipantID: "B", Amount: 30},
					{ParticipantID: "C", Amount: 30},
				}},
				{PayerID: "B", Amount: 60, Splits: []models.Split{
					{ParticipantID: "A", Amount: 20},
					{ParticipantID: "B", Amount: 20},
					{ParticipantID: "C", Amount: 20},
				}},
			},
			participants: participants("A", "B", "C"),
			validateFunc: func(t *testing.T, transfers []Transfer) {
				// A=+40, B=+10, C=-50: C pays A first (largest
				// creditor), then B.
				if len(transfers) != 2 {
					t.Fatalf("expected 2 transfers, got %d", len(transfers))
				}
				if transfers[0].FromID != "C" || transfers[0].ToID != "A" || math.Abs(transfers[0].Amount-40) > 1e-9 {
					t.Errorf("transfer 1 = %s->%s %v, want C->A 40",
						transfers[0].FromID, transfers[0].ToID, transfers[0].Amount)
				}
				if transfers[1].FromID != "C" || transfers[1].ToID != "B" || math.Abs(transfers[1].Amount-10) > 1e-9 {
					t.Errorf("transfer 2 = %s->%s %v, want C->B 10",
						transfers[1].FromID, transfers[1].ToID, transfers[1].Amount)
				}
			},
		},
		{
			name: "already settled group yields no transfers",
			expenses: []models.Expense{
				{PayerID: "A", Amount: 50, Splits: []models.Split{
					{ParticipantID: "B", Amount: 50},
				}},
				{PayerID: "B", Amount: 50, Splits: []models.Split{
					{ParticipantID: "A", Amount: 50},
				}},
			},
			participants: participants("A", "B"),
			validateFunc: func(t *testing.T, transfers []Transfer) {
				if len(transfers) != 0 {
					t.Errorf("expected no transfers, got %d", len(transfers))
				}
			},
		},
		{
			name:         "no expenses yields no transfers",
			expenses:     nil,
			participants: participants("A", "B", "C"),
			validateFunc: func(t *testing.T, transfers []Transfer) {
				if len(transfers) != 0 {
					t.Errorf("expected no transfers, got %d", len(transfers))
				}
			},
		},
		{
			name:         "no participants yields no transfers",
			expenses:     []models.Expense{{PayerID: "A", Amount: 10}},
			participants: nil,
			validateFunc: func(t *testing.T, transfers []Transfer) {
				if len(transfers) != 0 {
					t.Errorf("expected no transfers, got %d", len(transfers))
				}
			},
		},
		{
			name: "three-way uneven cents split rounds cleanly",
			expenses: []models.Expense{
				{PayerID: "A", Amount: 100, Splits: []models.Split{
					{ParticipantID: "A", Amount: 33.33},
					{ParticipantID: "B", Amount: 33.33},
					{ParticipantID: "C", Amount: 33.34},
				}},
			},
			participants: participants("A", "B", "C"),
			validateFunc: func(t *testing.T, transfers []Transfer) {
				// A=+66.67, B=-33.33, C=-33.34. No spurious third
				// transfer from sub-cent residue.
				if len(transfers) != 2 {
					t.Fatalf("expected 2 transfers, got %d", len(transfers))
				}
				for _, tr := range transfers {
					cents := tr.Amount * 100
					if math.Abs(cents-math.Round(cents)) > 1e-9 {
						t.Errorf("transfer %s->%s amount %v is not a whole cent amount",
							tr.FromID, tr.ToID, tr.Amount)
					}
				}
				if transfers[0].FromID != "C" || math.Abs(transfers[0].Amount-33.34) > 1e-9 {
					t.Errorf("transfer 1 = %s %v, want C 33.34", transfers[0].FromID, transfers[0].Amount)
				}
				if transfers[1].FromID != "B" || math.Abs(transfers[1].Amount-33.33) > 1e-9 {
					t.Errorf("transfer 2 = %s %v, want B 33.33", transfers[1].FromID, transfers[1].Amount)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transfers := ComputeTransfers(tt.expenses, tt.participants)

			// Invariants that hold for every input.
			for i, tr := range transfers {
				if tr.ID != i+1 {
					t.Errorf("transfer %d has ID %d, want sequential %d", i, tr.ID, i+1)
				}
				if tr.FromID == tr.ToID {
					t.Errorf("transfer %d is a self-transfer (%s)", i, tr.FromID)
				}
				if tr.Settled {
					t.Errorf("transfer %d emitted with Settled=true", i)
				}
			}

			tt.validateFunc(t, transfers)
		})
	}
}

func TestComputeTransfers_SettlesAllBalances(t *testing.T) {
	// Applying every emitted transfer to the pre-settlement balances
	// must drive every participant to within Epsilon of zero.
	expenses := []models.Expense{
		{PayerID: "A", Amount: 217.4, Splits: []models.Split{
			{ParticipantID: "A", Amount: 54.35},
			{ParticipantID: "B", Amount: 54.35},
			{ParticipantID: "C", Amount: 54.35},
			{ParticipantID: "D", Amount: 54.35},
		}},
		{PayerID: "C", Amount: 88.2, Splits: []models.Split{
			{ParticipantID: "B", Amount: 44.1},
			{ParticipantID: "D", Amount: 44.1},
		}},
		{PayerID: "D", Amount: 12.5, Splits: []models.Split{
			{ParticipantID: "A", Amount: 6.25},
			{ParticipantID: "D", Amount: 6.25},
		}},
	}
	ps := participants("A", "B", "C", "D")

	balances := ComputeBalances(expenses, ps)
	transfers := ComputeTransfers(expenses, ps)

	// Cents rounding on transfer amounts can leave up to half a cent
	// per transfer on top of the Epsilon threshold.
	tolerance := Epsilon + 0.005*float64(len(transfers))
	for id, net := range applyTransfers(balances, transfers) {
		if math.Abs(net) > tolerance {
			t.Errorf("%s residual balance %v exceeds tolerance %v", id, net, tolerance)
		}
	}
}

func TestComputeTransfers_CountBound(t *testing.T) {
	// At most n-1 transfers for n participants with nonzero balance.
	expenses := []models.Expense{
		{PayerID: "A", Amount: 100, Splits: []models.Split{
			{ParticipantID: "B", Amount: 20},
			{ParticipantID: "C", Amount: 25},
			{ParticipantID: "D", Amount: 30},
			{ParticipantID: "E", Amount: 25},
		}},
		{PayerID: "B", Amount: 40, Splits: []models.Split{
			{ParticipantID: "C", Amount: 10},
			{ParticipantID: "D", Amount: 10},
			{ParticipantID: "E", Amount: 20},
		}},
	}
	ps := participants("A", "B", "C", "D", "E")

	nonzero := 0
	for _, b := range ComputeBalances(expenses, ps) {
		if math.Abs(b.Net) > Epsilon {
			nonzero++
		}
	}

	transfers := ComputeTransfers(expenses, ps)
	if len(transfers) > nonzero-1 {
		t.Errorf("got %d transfers for %d unsettled participants, want at most %d",
			len(transfers), nonzero, nonzero-1)
	}
}

func TestRoundCents(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{33.333333, 33.33},
		{33.335, 33.34}, // half rounds up
		{0.004, 0.00},
		{0.005, 0.01},
		{50, 50},
	}
	for _, tt := range tests {
		if got := RoundCents(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("RoundCents(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
