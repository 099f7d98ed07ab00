package ledger

import (
	"reflect"
	"testing"
	"time"
)

func day(n int) time.Time {
	return time.Date(2024, 3, n, 12, 0, 0, 0, time.UTC)
}

// equalExpense builds an expense with an equal split over the participants.
func equalExpense(t *testing.T, id, title string, amount float64, paidBy UserRef, participants []UserRef, createdAt time.Time) Expense {
	t.Helper()
	details, err := ComputeSplit(amount, SplitEqual, participants, nil)
	if err != nil {
		t.Fatalf("split failed: %v", err)
	}
	return Expense{
		ID:           id,
		Title:        title,
		Amount:       amount,
		PaidBy:       paidBy,
		Participants: participants,
		SplitType:    SplitEqual,
		SplitDetails: details,
		CreatedAt:    createdAt,
	}
}

func TestComputeUserBalance(t *testing.T) {
	// Alice pays 300 for dinner, split equally between alice, bob and carol
	dinner := equalExpense(t, "e1", "dinner", 300, alice, []UserRef{alice, bob, carol}, day(1))

	t.Run("non-payer owes their share", func(t *testing.T) {
		got := ComputeUserBalance("b", []Expense{dinner}, nil)
		if !almostEqual(got.Net, -100) {
			t.Errorf("net = %f, expected -100", got.Net)
		}
		if len(got.Owes) != 1 || got.Owes[0].To.ID != "a" || !almostEqual(got.Owes[0].Amount, 100) {
			t.Errorf("owes = %+v, expected one leg of 100 to alice", got.Owes)
		}
		if len(got.OwedBy) != 0 {
			t.Errorf("owed_by = %+v, expected empty", got.OwedBy)
		}
	})

	t.Run("payer is owed by the others and never by themself", func(t *testing.T) {
		got := ComputeUserBalance("a", []Expense{dinner}, nil)
		if !almostEqual(got.Net, 200) {
			t.Errorf("net = %f, expected 200", got.Net)
		}
		if len(got.OwedBy) != 2 {
			t.Fatalf("owed_by = %+v, expected two legs", got.OwedBy)
		}
		for _, entry := range got.OwedBy {
			if entry.From.ID == "a" {
				t.Errorf("self-debt leg present: %+v", entry)
			}
			if !almostEqual(entry.Amount, 100) {
				t.Errorf("leg amount = %f, expected 100", entry.Amount)
			}
		}
	})

	t.Run("uninvolved user has a zero balance", func(t *testing.T) {
		dave := UserRef{ID: "d", Name: "dave"}
		got := ComputeUserBalance(dave.ID, []Expense{dinner}, nil)
		if got.Net != 0 || len(got.Owes) != 0 || len(got.OwedBy) != 0 {
			t.Errorf("expected empty balance, got %+v", got)
		}
	})

	t.Run("settlement cancels the debt exactly", func(t *testing.T) {
		settle := Settlement{ID: "s1", PaidBy: bob, PaidTo: alice, Amount: 100, CreatedAt: day(2)}
		got := ComputeUserBalance("b", []Expense{dinner}, []Settlement{settle})
		if !almostEqual(got.Net, 0) {
			t.Errorf("net = %f, expected 0", got.Net)
		}
		if len(got.Owes) != 0 {
			t.Errorf("owes = %+v, expected fully settled leg to be dropped", got.Owes)
		}

		// The payee's side moves symmetrically
		gotAlice := ComputeUserBalance("a", []Expense{dinner}, []Settlement{settle})
		if !almostEqual(gotAlice.Net, 100) {
			t.Errorf("alice net = %f, expected 100", gotAlice.Net)
		}
	})

	t.Run("settlement monotonicity", func(t *testing.T) {
		before := ComputeUserBalance("b", []Expense{dinner}, nil)
		settle := Settlement{ID: "s1", PaidBy: bob, PaidTo: alice, Amount: 40, CreatedAt: day(2)}
		after := ComputeUserBalance("b", []Expense{dinner}, []Settlement{settle})
		if !almostEqual(after.Net-before.Net, 40) {
			t.Errorf("net moved by %f, expected exactly 40", after.Net-before.Net)
		}
		if len(after.Owes) != 1 || !almostEqual(after.Owes[0].Amount, 60) {
			t.Errorf("owes = %+v, expected one leg of 60", after.Owes)
		}
	})

	t.Run("overpayment is accepted and flips the net", func(t *testing.T) {
		settle := Settlement{ID: "s1", PaidBy: bob, PaidTo: alice, Amount: 150, CreatedAt: day(2)}
		got := ComputeUserBalance("b", []Expense{dinner}, []Settlement{settle})
		if !almostEqual(got.Net, 50) {
			t.Errorf("net = %f, expected 50", got.Net)
		}
		if len(got.Owes) != 0 {
			t.Errorf("owes = %+v, expected empty", got.Owes)
		}
	})

	t.Run("recomputation is idempotent", func(t *testing.T) {
		settle := Settlement{ID: "s1", PaidBy: bob, PaidTo: alice, Amount: 40, CreatedAt: day(2)}
		first := ComputeUserBalance("b", []Expense{dinner}, []Settlement{settle})
		second := ComputeUserBalance("b", []Expense{dinner}, []Settlement{settle})
		if !reflect.DeepEqual(first, second) {
			t.Errorf("results differ: %+v vs %+v", first, second)
		}
	})
}

func TestComputeUserBalanceSettlesOldestLegFirst(t *testing.T) {
	// Bob owes alice 60 for lunch (older) and 50 for taxi (newer).
	lunch := equalExpense(t, "e1", "lunch", 120, alice, []UserRef{alice, bob}, day(1))
	taxi := equalExpense(t, "e2", "taxi", 100, alice, []UserRef{alice, bob}, day(2))

	// An 80 settlement clears the lunch leg and takes 20 off the taxi leg.
	settle := Settlement{ID: "s1", PaidBy: bob, PaidTo: alice, Amount: 80, CreatedAt: day(3)}

	// Input order must not matter
	got := ComputeUserBalance("b", []Expense{taxi, lunch}, []Settlement{settle})
	if !almostEqual(got.Net, -30) {
		t.Errorf("net = %f, expected -30", got.Net)
	}
	if len(got.Owes) != 1 {
		t.Fatalf("owes = %+v, expected a single remaining leg", got.Owes)
	}
	if got.Owes[0].Expense != "taxi" || !almostEqual(got.Owes[0].Amount, 30) {
		t.Errorf("remaining leg = %+v, expected 30 on taxi", got.Owes[0])
	}
}

func TestComputeUserBalanceNoNonPositiveEntries(t *testing.T) {
	lunch := equalExpense(t, "e1", "lunch", 120, alice, []UserRef{alice, bob}, day(1))
	settlements := []Settlement{
		{ID: "s1", PaidBy: bob, PaidTo: alice, Amount: 60, CreatedAt: day(2)},
		{ID: "s2", PaidBy: bob, PaidTo: alice, Amount: 10, CreatedAt: day(3)},
	}

	for _, user := range []string{"a", "b"} {
		got := ComputeUserBalance(user, []Expense{lunch}, settlements)
		for _, entry := range got.Owes {
			if entry.Amount <= 0 {
				t.Errorf("user %s has non-positive owes entry %+v", user, entry)
			}
		}
		for _, entry := range got.OwedBy {
			if entry.Amount <= 0 {
				t.Errorf("user %s has non-positive owed_by entry %+v", user, entry)
			}
		}
	}
}

func TestComputeGroupSummary(t *testing.T) {
	members := []UserRef{alice, bob, carol}
	dinner := equalExpense(t, "e1", "dinner", 300, alice, members, day(1))

	t.Run("expense only", func(t *testing.T) {
		got := ComputeGroupSummary(members, []Expense{dinner}, nil)
		expected := map[string]float64{"a": 200, "b": -100, "c": -100}
		if len(got) != len(members) {
			t.Fatalf("expected one row per member, got %d", len(got))
		}
		var total float64
		for _, row := range got {
			if !almostEqual(row.Net, expected[row.User.ID]) {
				t.Errorf("net for %s = %f, expected %f", row.User.ID, row.Net, expected[row.User.ID])
			}
			total += row.Net
		}
		if !almostEqual(total, 0) {
			t.Errorf("group nets sum to %f, expected 0", total)
		}
	})

	t.Run("settlement shifts both parties symmetrically", func(t *testing.T) {
		settle := Settlement{ID: "s1", PaidBy: bob, PaidTo: alice, Amount: 100, GroupID: "g1", CreatedAt: day(2)}
		got := ComputeGroupSummary(members, []Expense{dinner}, []Settlement{settle})
		expected := map[string]float64{"a": 100, "b": 0, "c": -100}
		for _, row := range got {
			if !almostEqual(row.Net, expected[row.User.ID]) {
				t.Errorf("net for %s = %f, expected %f", row.User.ID, row.Net, expected[row.User.ID])
			}
		}
	})

	t.Run("parties outside the member set are ignored", func(t *testing.T) {
		dave := UserRef{ID: "d", Name: "dave"}
		settle := Settlement{ID: "s1", PaidBy: dave, PaidTo: alice, Amount: 25, CreatedAt: day(2)}
		got := ComputeGroupSummary(members, nil, []Settlement{settle})
		for _, row := range got {
			if row.User.ID == "d" {
				t.Errorf("non-member row present: %+v", row)
			}
		}
	})
}
