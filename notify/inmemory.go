package notify

import "sync"

// InMemorySink implements the Sink interface by recording messages. It is
// used in tests to assert on notification fanout.
type InMemorySink struct {
	mu       sync.Mutex
	messages map[string][]Message
}

// NewInMemorySink creates an instance of InMemorySink
func NewInMemorySink() *InMemorySink {
	return &InMemorySink{messages: make(map[string][]Message)}
}

// Notify records the message for the user
func (s *InMemorySink) Notify(userID string, msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[userID] = append(s.messages[userID], msg)
}

// Messages returns the messages recorded for a user
func (s *InMemorySink) Messages(userID string) []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message{}, s.messages[userID]...)
}
