package ledger

import (
	"fmt"
	"math"
)

// RawDetail is a caller-supplied split entry for unequal and percentage
// splits. Amount is used for unequal, Percentage for percentage splits.
type RawDetail struct {
	UserID     string  `json:"user"`
	Amount     float64 `json:"amount,omitempty"`
	Percentage float64 `json:"percentage,omitempty"`
}

// ComputeSplit produces the per-participant shares for an expense. It is a
// pure function; persistence and notification happen in the caller.
//
// For equal splits each share is amount / number of participants. For
// unequal splits every participant must appear in raw with an explicit
// amount and the amounts must sum to the total. For percentage splits
// every participant must appear with a percentage and the percentages must
// sum to 100. Sums are compared within Epsilon. All resulting entries
// start unpaid.
func ComputeSplit(amount float64, splitType SplitType, participants []UserRef, raw []RawDetail) ([]SplitDetail, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if len(participants) == 0 {
		return nil, fmt.Errorf("%w: at least one participant is required", ErrValidation)
	}

	switch splitType {
	case SplitEqual:
		share := amount / float64(len(participants))
		details := make([]SplitDetail, len(participants))
		for i, p := range participants {
			details[i] = SplitDetail{User: p, Amount: share, Status: StatusUnpaid}
		}
		return details, nil

	case SplitUnequal:
		byUser, err := indexRawDetails(raw, participants)
		if err != nil {
			return nil, err
		}
		var total float64
		for _, d := range raw {
			total += d.Amount
		}
		if math.Abs(total-amount) > Epsilon {
			return nil, fmt.Errorf("%w: split amounts sum to %.2f, expected %.2f", ErrSplitMismatch, total, amount)
		}
		details := make([]SplitDetail, len(participants))
		for i, p := range participants {
			details[i] = SplitDetail{User: p, Amount: byUser[p.ID].Amount, Status: StatusUnpaid}
		}
		return details, nil

	case SplitPercentage:
		byUser, err := indexRawDetails(raw, participants)
		if err != nil {
			return nil, err
		}
		var total float64
		for _, d := range raw {
			total += d.Percentage
		}
		if math.Abs(total-100) > Epsilon {
			return nil, fmt.Errorf("%w: percentages sum to %.2f, expected 100", ErrSplitMismatch, total)
		}
		details := make([]SplitDetail, len(participants))
		for i, p := range participants {
			pct := byUser[p.ID].Percentage
			details[i] = SplitDetail{
				User:       p,
				Amount:     pct / 100 * amount,
				Percentage: pct,
				Status:     StatusUnpaid,
			}
		}
		return details, nil

	default:
		return nil, fmt.Errorf("%w: unknown split type %q", ErrValidation, splitType)
	}
}

// indexRawDetails maps raw entries by user id and checks they cover the
// participant set exactly.
func indexRawDetails(raw []RawDetail, participants []UserRef) (map[string]RawDetail, error) {
	byUser := make(map[string]RawDetail, len(raw))
	for _, d := range raw {
		if _, dup := byUser[d.UserID]; dup {
			return nil, fmt.Errorf("%w: duplicate split entry for user %s", ErrValidation, d.UserID)
		}
		byUser[d.UserID] = d
	}

	participantSet := make(map[string]bool, len(participants))
	for _, p := range participants {
		participantSet[p.ID] = true
		if _, ok := byUser[p.ID]; !ok {
			return nil, fmt.Errorf("%w: missing split entry for participant %s", ErrValidation, p.ID)
		}
	}
	for id := range byUser {
		if !participantSet[id] {
			return nil, fmt.Errorf("%w: split entry for non-participant %s", ErrValidation, id)
		}
	}

	return byUser, nil
}
