package ledger

import (
	"errors"
	"math"
	"testing"
)

// almostEqual compares two floats within Epsilon
func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

var (
	alice = UserRef{ID: "a", Name: "alice", Email: "alice@example.com"}
	bob   = UserRef{ID: "b", Name: "bob", Email: "bob@example.com"}
	carol = UserRef{ID: "c", Name: "carol", Email: "carol@example.com"}
)

func TestComputeSplitEqual(t *testing.T) {
	details, err := ComputeSplit(300, SplitEqual, []UserRef{alice, bob, carol}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(details) != 3 {
		t.Fatalf("expected 3 details, got %d", len(details))
	}
	for _, d := range details {
		if !almostEqual(d.Amount, 100) {
			t.Errorf("share for %s = %f, expected 100", d.User.ID, d.Amount)
		}
		if d.Status != StatusUnpaid {
			t.Errorf("status for %s = %s, expected unpaid", d.User.ID, d.Status)
		}
	}
}

func TestComputeSplitUnequal(t *testing.T) {
	tests := []struct {
		name    string
		amount  float64
		raw     []RawDetail
		wantErr error
	}{
		{
			name:   "amounts sum to total",
			amount: 300,
			raw:    []RawDetail{{UserID: "a", Amount: 150}, {UserID: "b", Amount: 100}, {UserID: "c", Amount: 50}},
		},
		{
			name:    "amounts sum to less than total",
			amount:  300,
			raw:     []RawDetail{{UserID: "a", Amount: 100}, {UserID: "b", Amount: 100}, {UserID: "c", Amount: 50}},
			wantErr: ErrSplitMismatch,
		},
		{
			name:    "missing participant entry",
			amount:  300,
			raw:     []RawDetail{{UserID: "a", Amount: 200}, {UserID: "b", Amount: 100}},
			wantErr: ErrValidation,
		},
		{
			name:    "entry for non-participant",
			amount:  300,
			raw:     []RawDetail{{UserID: "a", Amount: 100}, {UserID: "b", Amount: 100}, {UserID: "c", Amount: 50}, {UserID: "x", Amount: 50}},
			wantErr: ErrValidation,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			details, err := ComputeSplit(test.amount, SplitUnequal, []UserRef{alice, bob, carol}, test.raw)
			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Fatalf("expected %v, got %v", test.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var total float64
			for _, d := range details {
				total += d.Amount
			}
			if !almostEqual(total, test.amount) {
				t.Errorf("split total = %f, expected %f", total, test.amount)
			}
		})
	}
}

func TestComputeSplitPercentage(t *testing.T) {
	// 50/30/20 on 200 gives 100/60/40
	raw := []RawDetail{
		{UserID: "a", Percentage: 50},
		{UserID: "b", Percentage: 30},
		{UserID: "c", Percentage: 20},
	}
	details, err := ComputeSplit(200, SplitPercentage, []UserRef{alice, bob, carol}, raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := map[string]float64{"a": 100, "b": 60, "c": 40}
	for _, d := range details {
		if !almostEqual(d.Amount, expected[d.User.ID]) {
			t.Errorf("share for %s = %f, expected %f", d.User.ID, d.Amount, expected[d.User.ID])
		}
	}

	// Percentages summing to 99 must be rejected
	raw[2].Percentage = 19
	_, err = ComputeSplit(200, SplitPercentage, []UserRef{alice, bob, carol}, raw)
	if !errors.Is(err, ErrSplitMismatch) {
		t.Errorf("expected ErrSplitMismatch, got %v", err)
	}
}

func TestComputeSplitConservation(t *testing.T) {
	// For every split type the shares must sum to the expense amount
	tests := []struct {
		name      string
		splitType SplitType
		raw       []RawDetail
	}{
		{"equal", SplitEqual, nil},
		{"unequal", SplitUnequal, []RawDetail{{UserID: "a", Amount: 33.33}, {UserID: "b", Amount: 33.33}, {UserID: "c", Amount: 33.34}}},
		{"percentage", SplitPercentage, []RawDetail{{UserID: "a", Percentage: 25.5}, {UserID: "b", Percentage: 25.5}, {UserID: "c", Percentage: 49}}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			details, err := ComputeSplit(100, test.splitType, []UserRef{alice, bob, carol}, test.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var total float64
			for _, d := range details {
				total += d.Amount
			}
			if math.Abs(total-100) > 1e-6 {
				t.Errorf("shares sum to %f, expected 100", total)
			}
		})
	}
}

func TestComputeSplitRejectsBadInput(t *testing.T) {
	if _, err := ComputeSplit(0, SplitEqual, []UserRef{alice}, nil); !errors.Is(err, ErrValidation) {
		t.Errorf("zero amount: expected ErrValidation, got %v", err)
	}
	if _, err := ComputeSplit(10, SplitEqual, nil, nil); !errors.Is(err, ErrValidation) {
		t.Errorf("no participants: expected ErrValidation, got %v", err)
	}
	if _, err := ComputeSplit(10, SplitType("thirds"), []UserRef{alice}, nil); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown split type: expected ErrValidation, got %v", err)
	}
	raw := []RawDetail{{UserID: "a", Amount: 5}, {UserID: "a", Amount: 5}}
	if _, err := ComputeSplit(10, SplitUnequal, []UserRef{alice}, raw); !errors.Is(err, ErrValidation) {
		t.Errorf("duplicate entry: expected ErrValidation, got %v", err)
	}
}
