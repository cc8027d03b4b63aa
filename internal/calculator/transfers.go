package calculator

import (
	"math"
	"sort"

	"github.com/peggytheclaw/tripledger/internal/models"
)

// Epsilon is the settlement threshold in currency units. Balances
// within Epsilon of zero are treated as settled, which bounds the
// residual imbalance left after applying all transfers to Epsilon per
// participant.
const Epsilon = 0.001

// Transfer is a directed payment instruction: FromID pays ToID the
// given amount. Transfers are ephemeral calculator output; IDs are
// sequential within one call (starting at 1) and are not stable across
// recomputations.
type Transfer struct {
	ID      int
	FromID  string
	ToID    string
	Amount  float64
	Settled bool
}

// ComputeTransfers derives a list of pairwise payments that drive
// every balance to within Epsilon of zero, using greedy
// largest-creditor against largest-debtor matching.
//
// Greedy matching is the standard heuristic for debt simplification:
// exact transaction-count minimization is NP-hard, but this produces
// at most n-1 transfers for n participants with nonzero balance.
//
// Each iteration matches the largest creditor with the most negative
// debtor and moves min(credit, debt) between them. Emitted amounts are
// rounded half-up to cents, but the running balances advance by the
// unrounded amount so rounding error does not compound across
// iterations. A rounded amount of zero emits nothing.
//
// Settled is always false in calculator output; callers merge any
// persisted marks back in. Returns an empty list when all balances are
// already within Epsilon of zero.
func ComputeTransfers(expenses []models.Expense, participants []models.Participant) []Transfer {
	type party struct {
		id  string
		net float64
	}

	var creditors, debtors []party
	for _, b := range ComputeBalances(expenses, participants) {
		switch {
		case b.Net > Epsilon:
			creditors = append(creditors, party{b.ParticipantID, b.Net})
		case b.Net < -Epsilon:
			debtors = append(debtors, party{b.ParticipantID, b.Net})
		}
	}

	var transfers []Transfer
	for len(creditors) > 0 && len(debtors) > 0 {
		// Tie-break rule: always match the largest creditor against
		// the largest debtor. Stable sort keeps equal balances in
		// participant order so output is deterministic.
		sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].net > creditors[j].net })
		sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].net < debtors[j].net })

		c := &creditors[0]
		d := &debtors[0]

		amount := math.Min(c.net, -d.net)
		if rounded := RoundCents(amount); rounded > 0 {
			transfers = append(transfers, Transfer{
				ID:     len(transfers) + 1,
				FromID: d.id,
				ToID:   c.id,
				Amount: rounded,
			})
		}

		c.net -= amount
		d.net += amount

		if c.net <= Epsilon {
			creditors = creditors[1:]
		}
		if d.net >= -Epsilon {
			debtors = debtors[1:]
		}
	}
	return transfers
}

// RoundCents rounds a currency amount to two decimal places using
// standard half-up rounding.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
