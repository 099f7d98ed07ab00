package ledger

import (
	"reflect"
	"testing"
)

func TestBuildTimeline(t *testing.T) {
	dinner := equalExpense(t, "e1", "dinner", 300, alice, []UserRef{alice, bob}, day(1))
	taxi := equalExpense(t, "e2", "taxi", 100, bob, []UserRef{alice, bob}, day(3))
	settle := Settlement{ID: "s1", PaidBy: bob, PaidTo: alice, Amount: 150, CreatedAt: day(2)}

	got := BuildTimeline([]Expense{dinner, taxi}, []Settlement{settle})

	ids := make([]string, len(got))
	for i, a := range got {
		ids[i] = a.EventID
	}
	// Newest first
	if !reflect.DeepEqual(ids, []string{"e2", "s1", "e1"}) {
		t.Errorf("event order = %v, expected [e2 s1 e1]", ids)
	}

	if got[0].Type != ActivityExpense || got[1].Type != ActivitySettlement {
		t.Errorf("unexpected activity types: %+v", got)
	}
	if got[1].Message != `bob settled 150.00 with alice` {
		t.Errorf("settlement message = %q", got[1].Message)
	}
	if got[2].Message != `alice added expense "dinner" of 300.00` {
		t.Errorf("expense message = %q", got[2].Message)
	}
}

func TestBuildTimelineTiebreak(t *testing.T) {
	// Same timestamp: event id decides, so rebuilds are deterministic
	first := equalExpense(t, "e1", "coffee", 10, alice, []UserRef{alice, bob}, day(1))
	second := equalExpense(t, "e2", "cake", 12, alice, []UserRef{alice, bob}, day(1))

	for range 5 {
		got := BuildTimeline([]Expense{second, first}, nil)
		if got[0].EventID != "e1" || got[1].EventID != "e2" {
			t.Fatalf("tiebreak order = [%s %s], expected [e1 e2]", got[0].EventID, got[1].EventID)
		}
	}
}

func TestBuildTimelineEmpty(t *testing.T) {
	got := BuildTimeline(nil, nil)
	if len(got) != 0 {
		t.Errorf("expected empty timeline, got %+v", got)
	}
}
