package database

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sangeeta2003/BillBuddy/ledger"
)

// userWithPassword is a database entry for a user
type userWithPassword struct {
	User
	Password string
}

// InMemoryDatabase implements the Database interface for an in memory
// database. It is used in tests. Passwords are stored as given.
type InMemoryDatabase struct {
	mu            sync.Mutex
	users         []userWithPassword
	groups        []Group
	expenses      []ledger.Expense
	settlements   []ledger.Settlement
	notifications []Notification
	chatMessages  []ChatMessage
}

// InMemoryHandle implements the Handle interface for an in memory database
type InMemoryHandle struct {
	db *InMemoryDatabase
}

// NewInMemoryDatabase creates an instance of InMemoryDatabase
func NewInMemoryDatabase() Database {
	return new(InMemoryDatabase)
}

// Connect creates a handle for the in memory database
func (d *InMemoryDatabase) Connect() Handle {
	return &InMemoryHandle{db: d}
}

// Close is a noop
func (h *InMemoryHandle) Close() {}

// CreateSchema is a noop
func (h *InMemoryHandle) CreateSchema() error { return nil }

// CreateUser adds a user
func (h *InMemoryHandle) CreateUser(name, email, password string) (User, error) {
	h.db.mu.Lock()
	defer h.db.mu.Unlock()

	for _, u := range h.db.users {
		if u.Email == email {
			return User{}, ErrDuplicate
		}
	}

	user := User{ID: uuid.New().String(), Name: name, Email: email}
	h.db.users = append(h.db.users, userWithPassword{User: user, Password: password})
	return user, nil
}

// AuthenticateUser checks email and password against the stored users
func (h *InMemoryHandle) AuthenticateUser(email, password string) (User, error) {
	h.db.mu.Lock()
	defer h.db.mu.Unlock()

	for _, u := range h.db.users {
		if u.Email == email {
			if u.Password != password {
				return User{}, ErrPasswordMismatch
			}
			return u.User, nil
		}
	}
	return User{}, ErrNotFound
}

// GetUser returns the user with the given id
func (h *InMemoryHandle) GetUser(id string) (User, error) {
	h.db.mu.Lock()
	defer h.db.mu.Unlock()
	return h.lookupUser(id)
}

func (h *InMemoryHandle) lookupUser(id string) (User, error) {
	for _, u := range h.db.users {
		if u.ID == id {
			return u.User, nil
		}
	}
	return User{}, ErrNotFound
}

// GetUsers returns a list of all users
func (h *InMemoryHandle) GetUsers() ([]User, error) {
	h.db.mu.Lock()
	defer h.db.mu.Unlock()

	users := make([]User, len(h.db.users))
	for i, u := range h.db.users {
		users[i] = u.User
	}
	return users, nil
}

// CreateGroup adds a group. The creator is always included as a member.
func (h *InMemoryHandle) CreateGroup(name, description, createdBy string, members []string) (Group, error) {
	h.db.mu.Lock()
	defer h.db.mu.Unlock()

	ids := append([]string{}, members...)
	if !contains(ids, createdBy) {
		ids = append(ids, createdBy)
	}

	refs := make([]ledger.UserRef, 0, len(ids))
	for _, id := range ids {
		u, err := h.lookupUser(id)
		if err != nil {
			return Group{}, err
		}
		refs = append(refs, u.Ref())
	}

	group := Group{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		Members:     refs,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	}
	h.db.groups = append(h.db.groups, group)
	return group, nil
}

// GetGroup returns the group with the given id
func (h *InMemoryHandle) GetGroup(id string) (Group, error) {
	h.db.mu.Lock()
	defer h.db.mu.Unlock()

	for _, g := range h.db.groups {
		if g.ID == id {
			return g, nil
		}
	}
	return Group{}, ErrNotFound
}

// GetGroups returns all groups
func (h *InMemoryHandle) GetGroups() ([]Group, error) {
	h.db.mu.Lock()
	defer h.db.mu.Unlock()
	return append([]Group{}, h.db.groups...), nil
}

// AddGroupMembers appends members not already present and returns the
// updated group
func (h *InMemoryHandle) AddGroupMembers(groupID string, members []string) (Group, error) {
	h.db.mu.Lock()
	defer h.db.mu.Unlock()

	for i, g := range h.db.groups {
		if g.ID != groupID {
			continue
		}
		for _, id := range members {
			if refsInclude(g.Members, id) {
				continue
			}
			u, err := h.lookupUser(id)
			if err != nil {
				return Group{}, err
			}
			g.Members = append(g.Members, u.Ref())
		}
		h.db.groups[i] = g
		return g, nil
	}
	return Group{}, ErrNotFound
}

// CreateExpense stores an expense, assigning its id and creation time
func (h *InMemoryHandle) CreateExpense(e *ledger.Expense) error {
	h.db.mu.Lock()
	defer h.db.mu.Unlock()

	e.ID = uuid.New().String()
	e.CreatedAt = time.Now().UTC()
	h.db.expenses = append(h.db.expenses, *e)
	return nil
}

// GetExpense returns the expense with the given id, hydrated with user
// names and emails
func (h *InMemoryHandle) GetExpense(id string) (ledger.Expense, error) {
	h.db.mu.Lock()
	defer h.db.mu.Unlock()

	for _, e := range h.db.expenses {
		if e.ID == id {
			return h.hydrateExpense(e), nil
		}
	}
	return ledger.Expense{}, ErrNotFound
}

// GetExpenses returns all expenses
func (h *InMemoryHandle) GetExpenses() ([]ledger.Expense, error) {
	h.db.mu.Lock()
	defer h.db.mu.Unlock()

	expenses := make([]ledger.Expense, len(h.db.expenses))
	for i, e := range h.db.expenses {
		expenses[i] = h.hydrateExpense(e)
	}
	return expenses, nil
}

// GetExpensesByParticipant returns expenses where the user is a participant
func (h *InMemoryHandle) GetExpensesByParticipant(userID string) ([]ledger.Expense, error) {
	h.db.mu.Lock()
	defer h.db.mu.Unlock()

	expenses := make([]ledger.Expense, 0)
	for _, e := range h.db.expenses {
		if refsInclude(e.Participants, userID) {
			expenses = append(expenses, h.hydrateExpense(e))
		}
	}
	return expenses, nil
}

// GetExpensesByGroup returns expenses belonging to a group
func (h *InMemoryHandle) GetExpensesByGroup(groupID string) ([]ledger.Expense, error) {
	h.db.mu.Lock()
	defer h.db.mu.Unlock()

	expenses := make([]ledger.Expense, 0)
	for _, e := range h.db.expenses {
		if e.GroupID == groupID {
			expenses = append(expenses, h.hydrateExpense(e))
		}
	}
	return expenses, nil
}

// UpdateSplitStatus sets one participant's split status on an expense
func (h *InMemoryHandle) UpdateSplitStatus(expenseID, userID string, status ledger.SplitStatus) error {
	h.db.mu.Lock()
	defer h.db.mu.Unlock()

	for i, e := range h.db.expenses {
		if e.ID != expenseID {
			continue
		}
		for j, d := range e.SplitDetails {
			if d.User.ID == userID {
				h.db.expenses[i].SplitDetails[j].Status = status
				return nil
			}
		}
		return ErrNotFound
	}
	return ErrNotFound
}

// DeleteExpense removes an expense by id
func (h *InMemoryHandle) DeleteExpense(id string) error {
	h.db.mu.Lock()
	defer h.db.mu.Unlock()

	for i, e := range h.db.expenses {
		if e.ID == id {
			h.db.expenses = append(h.db.expenses[:i], h.db.expenses[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// CreateSettlement stores a settlement, assigning its id and creation time
func (h *InMemoryHandle) CreateSettlement(s *ledger.Settlement) error {
	h.db.mu.Lock()
	defer h.db.mu.Unlock()

	s.ID = uuid.New().String()
	s.CreatedAt = time.Now().UTC()
	h.db.settlements = append(h.db.settlements, *s)
	return nil
}

// GetSettlementsByUser returns settlements where the user is payer or payee
func (h *InMemoryHandle) GetSettlementsByUser(userID string) ([]ledger.Settlement, error) {
	h.db.mu.Lock()
	defer h.db.mu.Unlock()

	settlements := make([]ledger.Settlement, 0)
	for _, s := range h.db.settlements {
		if s.PaidBy.ID == userID || s.PaidTo.ID == userID {
			settlements = append(settlements, h.hydrateSettlement(s))
		}
	}
	return settlements, nil
}

// GetSettlementsByGroup returns settlements belonging to a group
func (h *InMemoryHandle) GetSettlementsByGroup(groupID string) ([]ledger.Settlement, error) {
	h.db.mu.Lock()
	defer h.db.mu.Unlock()

	settlements := make([]ledger.Settlement, 0)
	for _, s := range h.db.settlements {
		if s.GroupID == groupID {
			settlements = append(settlements, h.hydrateSettlement(s))
		}
	}
	return settlements, nil
}

// CreateNotification stores a notification
func (h *InMemoryHandle) CreateNotification(userID, kind, message string) (Notification, error) {
	h.db.mu.Lock()
	defer h.db.mu.Unlock()

	n := Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      kind,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	h.db.notifications = append(h.db.notifications, n)
	return n, nil
}

// GetNotifications returns a user's notifications, newest first
func (h *InMemoryHandle) GetNotifications(userID string) ([]Notification, error) {
	h.db.mu.Lock()
	defer h.db.mu.Unlock()

	notifications := make([]Notification, 0)
	for i := len(h.db.notifications) - 1; i >= 0; i-- {
		if h.db.notifications[i].UserID == userID {
			notifications = append(notifications, h.db.notifications[i])
		}
	}
	return notifications, nil
}

// MarkNotificationRead flags a notification as read
func (h *InMemoryHandle) MarkNotificationRead(id string) error {
	h.db.mu.Lock()
	defer h.db.mu.Unlock()

	for i, n := range h.db.notifications {
		if n.ID == id {
			h.db.notifications[i].Read = true
			return nil
		}
	}
	return ErrNotFound
}

// CreateChatMessage stores a chat message
func (h *InMemoryHandle) CreateChatMessage(groupID, senderID, message string) (ChatMessage, error) {
	h.db.mu.Lock()
	defer h.db.mu.Unlock()

	sender, err := h.lookupUser(senderID)
	if err != nil {
		return ChatMessage{}, err
	}

	m := ChatMessage{
		ID:        uuid.New().String(),
		GroupID:   groupID,
		Sender:    sender,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	h.db.chatMessages = append(h.db.chatMessages, m)
	return m, nil
}

// GetChatMessages returns a group's messages in insertion order
func (h *InMemoryHandle) GetChatMessages(groupID string) ([]ChatMessage, error) {
	h.db.mu.Lock()
	defer h.db.mu.Unlock()

	messages := make([]ChatMessage, 0)
	for _, m := range h.db.chatMessages {
		if m.GroupID == groupID {
			messages = append(messages, m)
		}
	}
	return messages, nil
}

// hydrateExpense fills in user names and emails on a stored expense
func (h *InMemoryHandle) hydrateExpense(e ledger.Expense) ledger.Expense {
	out := e
	out.PaidBy = h.hydrateRef(e.PaidBy)
	out.Participants = make([]ledger.UserRef, len(e.Participants))
	for i, p := range e.Participants {
		out.Participants[i] = h.hydrateRef(p)
	}
	out.SplitDetails = make([]ledger.SplitDetail, len(e.SplitDetails))
	for i, d := range e.SplitDetails {
		d.User = h.hydrateRef(d.User)
		out.SplitDetails[i] = d
	}
	return out
}

// hydrateSettlement fills in user names and emails on a stored settlement
func (h *InMemoryHandle) hydrateSettlement(s ledger.Settlement) ledger.Settlement {
	out := s
	out.PaidBy = h.hydrateRef(s.PaidBy)
	out.PaidTo = h.hydrateRef(s.PaidTo)
	return out
}

func (h *InMemoryHandle) hydrateRef(ref ledger.UserRef) ledger.UserRef {
	if u, err := h.lookupUser(ref.ID); err == nil {
		return u.Ref()
	}
	return ref
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func refsInclude(refs []ledger.UserRef, id string) bool {
	for _, r := range refs {
		if r.ID == id {
			return true
		}
	}
	return false
}
