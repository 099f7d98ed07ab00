package ledger

import (
	"sort"
	"time"
)

// OwesEntry is one outstanding debt the user has toward a counterparty,
// traced back to the expense that created it.
type OwesEntry struct {
	To      UserRef `json:"to"`
	Amount  float64 `json:"amount"`
	Expense string  `json:"expense"`
}

// OwedByEntry is one outstanding debt a counterparty has toward the user.
type OwedByEntry struct {
	From    UserRef `json:"from"`
	Amount  float64 `json:"amount"`
	Expense string  `json:"expense"`
}

// Balance is a user's derived position. It is never persisted; it is
// recomputed from the stored expenses and settlements on every query.
type Balance struct {
	Owes   []OwesEntry   `json:"owes"`
	OwedBy []OwedByEntry `json:"owed_by"`
	Net    float64       `json:"net"`
}

// leg is an in-progress debt entry during aggregation.
type leg struct {
	counterparty UserRef
	amount       float64
	expense      string
	createdAt    time.Time
}

// ComputeUserBalance folds the given expenses and settlements into the net
// position of userID against every counterparty. This is the heart of the
// application.
//
// A user appearing as both payer and split participant of the same expense
// contributes nothing (no self-debt). Settlements cancel expense-driven
// debt against the matching counterparty, applied to the oldest expense
// leg first and cascading any remainder to the next; recording more than
// is owed is accepted and pushes the net the other way. Legs settled down
// to zero or below are dropped from the result.
func ComputeUserBalance(userID string, expenses []Expense, settlements []Settlement) Balance {
	// Oldest-first ordering makes settlement application deterministic.
	sorted := make([]Expense, len(expenses))
	copy(sorted, expenses)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	var owes, owedBy []leg
	var net float64

	for _, exp := range sorted {
		if !refsContain(exp.Participants, userID) {
			continue
		}
		payerID := exp.PaidBy.ID

		for _, detail := range exp.SplitDetails {
			switch {
			case detail.User.ID == userID && payerID != userID:
				owes = append(owes, leg{
					counterparty: exp.PaidBy,
					amount:       detail.Amount,
					expense:      exp.Title,
					createdAt:    exp.CreatedAt,
				})
				net -= detail.Amount
			case payerID == userID && detail.User.ID != userID:
				owedBy = append(owedBy, leg{
					counterparty: detail.User,
					amount:       detail.Amount,
					expense:      exp.Title,
					createdAt:    exp.CreatedAt,
				})
				net += detail.Amount
			}
		}
	}

	sortedSettlements := make([]Settlement, len(settlements))
	copy(sortedSettlements, settlements)
	sort.SliceStable(sortedSettlements, func(i, j int) bool {
		if sortedSettlements[i].CreatedAt.Equal(sortedSettlements[j].CreatedAt) {
			return sortedSettlements[i].ID < sortedSettlements[j].ID
		}
		return sortedSettlements[i].CreatedAt.Before(sortedSettlements[j].CreatedAt)
	})

	for _, s := range sortedSettlements {
		if s.PaidBy.ID == userID {
			// Paying down debt raises our net position.
			net += s.Amount
			reduceLegs(owes, s.PaidTo.ID, s.Amount)
		}
		if s.PaidTo.ID == userID {
			// Being paid consumes what the counterparty owed us.
			net -= s.Amount
			reduceLegs(owedBy, s.PaidBy.ID, s.Amount)
		}
	}

	balance := Balance{Owes: make([]OwesEntry, 0), OwedBy: make([]OwedByEntry, 0), Net: net}
	for _, l := range owes {
		if l.amount > Epsilon {
			balance.Owes = append(balance.Owes, OwesEntry{To: l.counterparty, Amount: l.amount, Expense: l.expense})
		}
	}
	for _, l := range owedBy {
		if l.amount > Epsilon {
			balance.OwedBy = append(balance.OwedBy, OwedByEntry{From: l.counterparty, Amount: l.amount, Expense: l.expense})
		}
	}
	return balance
}

// reduceLegs subtracts amount from the legs held against counterpartyID,
// oldest first, carrying any remainder to the next leg. Legs are already in
// oldest-first order. An overpayment simply exhausts all matching legs.
func reduceLegs(legs []leg, counterpartyID string, amount float64) {
	remaining := amount
	for i := range legs {
		if remaining <= Epsilon {
			return
		}
		if legs[i].counterparty.ID != counterpartyID {
			continue
		}
		reduction := legs[i].amount
		if remaining < reduction {
			reduction = remaining
		}
		legs[i].amount -= reduction
		remaining -= reduction
	}
}

// MemberNet is one group member's aggregate position within the group.
type MemberNet struct {
	User UserRef `json:"user"`
	Net  float64 `json:"net"`
}

// ComputeGroupSummary computes the aggregate net per group member from
// group-scoped expenses and settlements. No per-counterparty breakdown is
// produced at group level. Expense or settlement parties outside the
// member set are ignored.
func ComputeGroupSummary(members []UserRef, expenses []Expense, settlements []Settlement) []MemberNet {
	nets := make(map[string]float64, len(members))
	for _, m := range members {
		nets[m.ID] = 0
	}

	for _, exp := range expenses {
		payerID := exp.PaidBy.ID
		for _, detail := range exp.SplitDetails {
			if detail.User.ID == payerID {
				continue
			}
			if _, ok := nets[payerID]; ok {
				nets[payerID] += detail.Amount
			}
			if _, ok := nets[detail.User.ID]; ok {
				nets[detail.User.ID] -= detail.Amount
			}
		}
	}

	for _, s := range settlements {
		if _, ok := nets[s.PaidBy.ID]; ok {
			nets[s.PaidBy.ID] += s.Amount
		}
		if _, ok := nets[s.PaidTo.ID]; ok {
			nets[s.PaidTo.ID] -= s.Amount
		}
	}

	summary := make([]MemberNet, len(members))
	for i, m := range members {
		summary[i] = MemberNet{User: m, Net: nets[m.ID]}
	}
	return summary
}

// refsContain reports whether refs includes the user id.
func refsContain(refs []UserRef, id string) bool {
	for _, r := range refs {
		if r.ID == id {
			return true
		}
	}
	return false
}
