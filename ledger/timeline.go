package ledger

import (
	"fmt"
	"sort"
	"time"
)

// ActivityType distinguishes timeline events.
type ActivityType string

const (
	ActivityExpense    ActivityType = "expense"
	ActivitySettlement ActivityType = "settlement"
)

// Activity is one event in a user's or group's feed.
type Activity struct {
	Type      ActivityType `json:"type"`
	Message   string       `json:"message"`
	CreatedAt time.Time    `json:"created_at"`
	EventID   string       `json:"event_id"`
}

// BuildTimeline merges expenses and settlements into one feed, newest
// first. Events with identical timestamps are ordered by event id so
// repeated builds over the same data produce the same sequence.
func BuildTimeline(expenses []Expense, settlements []Settlement) []Activity {
	activities := make([]Activity, 0, len(expenses)+len(settlements))

	for _, exp := range expenses {
		activities = append(activities, Activity{
			Type:      ActivityExpense,
			Message:   fmt.Sprintf("%s added expense %q of %.2f", exp.PaidBy.Name, exp.Title, exp.Amount),
			CreatedAt: exp.CreatedAt,
			EventID:   exp.ID,
		})
	}

	for _, s := range settlements {
		activities = append(activities, Activity{
			Type:      ActivitySettlement,
			Message:   fmt.Sprintf("%s settled %.2f with %s", s.PaidBy.Name, s.Amount, s.PaidTo.Name),
			CreatedAt: s.CreatedAt,
			EventID:   s.ID,
		})
	}

	sort.SliceStable(activities, func(i, j int) bool {
		if activities[i].CreatedAt.Equal(activities[j].CreatedAt) {
			return activities[i].EventID < activities[j].EventID
		}
		return activities[i].CreatedAt.After(activities[j].CreatedAt)
	})

	return activities
}
