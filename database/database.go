package database

import (
	"errors"
	"time"

	"github.com/sangeeta2003/BillBuddy/ledger"
)

// ErrDuplicate is returned when a create request fails due to a duplicate entry
var ErrDuplicate = errors.New("duplicate")

// ErrNotFound is returned when an entry could not be found
var ErrNotFound = errors.New("not found")

// ErrPasswordMismatch is returned when authentication fails due to a bad password
var ErrPasswordMismatch = errors.New("password mismatch")

// User represents a user present in the database
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Ref converts a stored user to the hydrated reference the ledger consumes.
func (u User) Ref() ledger.UserRef {
	return ledger.UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}

// Group is a named set of users sharing expenses. Groups own no balance
// state; balances are always derived from expenses and settlements.
type Group struct {
	ID          string           `json:"id"`
	Name        string           `json:"groupname"`
	Description string           `json:"description,omitempty"`
	Members     []ledger.UserRef `json:"members"`
	CreatedBy   string           `json:"created_by"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Notification is a persisted best-effort message for a user.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatMessage is one message in a group's chat history. Real-time delivery
// is handled elsewhere; this is the durable record only.
type ChatMessage struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"group_id"`
	Sender    User      `json:"sender"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Database is an interface that does nothing more than return a database handle
// It is used to configure different types of databases
type Database interface {
	Connect() Handle
}

// Handle is an interface containing methods to manage a database handle and
// perform user, group, expense, settlement, notification and chat queries
// on it. Reads return records hydrated with user names and emails so
// callers never join by hand. Every write is a single atomic operation.
type Handle interface {
	Close()
	CreateSchema() error

	CreateUser(name, email, password string) (User, error)
	AuthenticateUser(email, password string) (User, error)
	GetUser(id string) (User, error)
	GetUsers() ([]User, error)

	CreateGroup(name, description, createdBy string, members []string) (Group, error)
	GetGroup(id string) (Group, error)
	GetGroups() ([]Group, error)
	AddGroupMembers(groupID string, members []string) (Group, error)

	CreateExpense(e *ledger.Expense) error
	GetExpense(id string) (ledger.Expense, error)
	GetExpenses() ([]ledger.Expense, error)
	GetExpensesByParticipant(userID string) ([]ledger.Expense, error)
	GetExpensesByGroup(groupID string) ([]ledger.Expense, error)
	UpdateSplitStatus(expenseID, userID string, status ledger.SplitStatus) error
	DeleteExpense(id string) error

	CreateSettlement(s *ledger.Settlement) error
	GetSettlementsByUser(userID string) ([]ledger.Settlement, error)
	GetSettlementsByGroup(groupID string) ([]ledger.Settlement, error)

	CreateNotification(userID, kind, message string) (Notification, error)
	GetNotifications(userID string) ([]Notification, error)
	MarkNotificationRead(id string) error

	CreateChatMessage(groupID, senderID, message string) (ChatMessage, error)
	GetChatMessages(groupID string) ([]ChatMessage, error)
}
