package notify

import "time"

// Message is a real-time event pushed to a user.
type Message struct {
	Type    string    `json:"type"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// Sink delivers messages to users. Delivery is fire-and-forget: a failed
// delivery never fails the write that triggered it.
type Sink interface {
	Notify(userID string, msg Message)
}
