package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/sangeeta2003/BillBuddy/ledger"
)

// Database schema, to be run once
const schema = `
CREATE TABLE users (
	id       TEXT PRIMARY KEY,
	name     TEXT NOT NULL,
	email    TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL
);

CREATE TABLE groups (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_by  TEXT NOT NULL REFERENCES users,
	created_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE group_members (
	group_id TEXT NOT NULL REFERENCES groups,
	user_id  TEXT NOT NULL REFERENCES users
);

CREATE UNIQUE INDEX group_members_unique_id ON group_members(group_id, user_id);

CREATE TABLE expenses (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	amount     DOUBLE PRECISION NOT NULL,
	paid_by    TEXT NOT NULL REFERENCES users,
	split_type TEXT NOT NULL,
	group_id   TEXT REFERENCES groups,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX expenses_group_id ON expenses(group_id);

CREATE TABLE expense_participants (
	expense_id TEXT NOT NULL REFERENCES expenses ON DELETE CASCADE,
	user_id    TEXT NOT NULL REFERENCES users
);

CREATE UNIQUE INDEX expense_participants_unique_id ON expense_participants(expense_id, user_id);
CREATE INDEX expense_participants_user_id ON expense_participants(user_id);

CREATE TABLE expense_splits (
	expense_id TEXT NOT NULL REFERENCES expenses ON DELETE CASCADE,
	user_id    TEXT NOT NULL REFERENCES users,
	amount     DOUBLE PRECISION NOT NULL,
	percentage DOUBLE PRECISION NOT NULL DEFAULT 0,
	status     TEXT NOT NULL DEFAULT 'unpaid'
);

CREATE UNIQUE INDEX expense_splits_unique_id ON expense_splits(expense_id, user_id);

CREATE TABLE settlements (
	id         TEXT PRIMARY KEY,
	paid_by    TEXT NOT NULL REFERENCES users,
	paid_to    TEXT NOT NULL REFERENCES users,
	amount     DOUBLE PRECISION NOT NULL,
	group_id   TEXT REFERENCES groups,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX settlements_paid_by ON settlements(paid_by);
CREATE INDEX settlements_paid_to ON settlements(paid_to);
CREATE INDEX settlements_group_id ON settlements(group_id);

CREATE TABLE notifications (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users,
	type       TEXT NOT NULL,
	message    TEXT NOT NULL,
	is_read    BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX notifications_user_id ON notifications(user_id);

CREATE TABLE chat_messages (
	id         TEXT PRIMARY KEY,
	group_id   TEXT NOT NULL REFERENCES groups,
	sender_id  TEXT NOT NULL REFERENCES users,
	message    TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX chat_messages_group_id ON chat_messages(group_id);
`

// Config holds the configuration for the postgresql database
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

// PgDatabase implements the Database interface for postgresql
type PgDatabase struct {
	config Config
}

// PgHandle implements the Handle interface for postgresql
type PgHandle struct {
	db *sql.DB
}

// NewPgDatabase creates an instance of PgDatabase
func NewPgDatabase(config Config) PgDatabase {
	return PgDatabase{config: config}
}

// Connect creates a connection to the postgres database
func (d PgDatabase) Connect() Handle {
	psqlInfo := fmt.Sprintf("host=%s port=%d user=%s "+
		"password=%s dbname=%s sslmode=disable",
		d.config.Host, d.config.Port, d.config.User, d.config.Password, d.config.Name)

	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		panic(err)
	}

	if err = db.Ping(); err != nil {
		panic(err)
	}

	return &PgHandle{db: db}
}

// Close closes the database handle
func (p *PgHandle) Close() {
	p.db.Close()
}

// CreateSchema runs the SQL to create the schema. This is required to
// bootstrap the database.
func (p *PgHandle) CreateSchema() error {
	if _, err := p.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a postgres unique constraint error
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation"
}

// CreateUser inserts a new user with a bcrypt-hashed password. ErrDuplicate
// is returned if another user with the same email already exists.
func (p *PgHandle) CreateUser(name, email, password string) (User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := User{ID: uuid.New().String(), Name: name, Email: email}
	_, err = p.db.Exec(`
		INSERT INTO users (id, name, email, password)
		VALUES($1, $2, $3, $4)
	`, user.ID, name, email, hashedPassword)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrDuplicate
		}
		return User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	return user, nil
}

// AuthenticateUser checks if the user with email/password exists in the
// database and the password matches. ErrNotFound is returned if the user
// doesn't exist, ErrPasswordMismatch if the password mismatches.
func (p *PgHandle) AuthenticateUser(email, password string) (User, error) {
	var user User
	var dbPassword string
	err := p.db.QueryRow(
		"SELECT id, name, email, password FROM users WHERE email=$1", email,
	).Scan(&user.ID, &user.Name, &user.Email, &dbPassword)
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("failed to query user: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(dbPassword), []byte(password)); err != nil {
		return User{}, ErrPasswordMismatch
	}

	return user, nil
}

// GetUser returns the user with the given id
func (p *PgHandle) GetUser(id string) (User, error) {
	var user User
	err := p.db.QueryRow(
		"SELECT id, name, email FROM users WHERE id=$1", id,
	).Scan(&user.ID, &user.Name, &user.Email)
	if err == sql.ErrNoRows {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

// GetUsers returns all users in the database, ordered by email
func (p *PgHandle) GetUsers() ([]User, error) {
	rows, err := p.db.Query("SELECT id, name, email FROM users ORDER BY email")
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CreateGroup inserts a group and its member rows in one transaction. The
// creator is always included as a member.
func (p *PgHandle) CreateGroup(name, description, createdBy string, members []string) (Group, error) {
	id := uuid.New().String()
	createdAt := time.Now().UTC()

	ids := append([]string{}, members...)
	if !contains(ids, createdBy) {
		ids = append(ids, createdBy)
	}

	txn, err := p.db.Begin()
	if err != nil {
		return Group{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer txn.Rollback()

	_, err = txn.Exec(`
		INSERT INTO groups (id, name, description, created_by, created_at)
		VALUES($1, $2, $3, $4, $5)
	`, id, name, description, createdBy, createdAt)
	if err != nil {
		return Group{}, fmt.Errorf("failed to insert group: %w", err)
	}

	for _, userID := range ids {
		_, err = txn.Exec(
			"INSERT INTO group_members (group_id, user_id) VALUES($1, $2)",
			id, userID)
		if err != nil {
			return Group{}, fmt.Errorf("failed to insert group member: %w", err)
		}
	}

	if err := txn.Commit(); err != nil {
		return Group{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return p.GetGroup(id)
}

// GetGroup returns a group with its members hydrated
func (p *PgHandle) GetGroup(id string) (Group, error) {
	var g Group
	err := p.db.QueryRow(`
		SELECT id, name, description, created_by, created_at
		FROM groups WHERE id=$1
	`, id).Scan(&g.ID, &g.Name, &g.Description, &g.CreatedBy, &g.CreatedAt)
	if err == sql.ErrNoRows {
		return Group{}, ErrNotFound
	}
	if err != nil {
		return Group{}, fmt.Errorf("failed to query group: %w", err)
	}

	g.Members, err = p.groupMembers(id)
	if err != nil {
		return Group{}, err
	}
	return g, nil
}

// GetGroups returns all groups with members hydrated
func (p *PgHandle) GetGroups() ([]Group, error) {
	rows, err := p.db.Query(`
		SELECT id, name, description, created_by, created_at
		FROM groups ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	groups := make([]Group, 0)
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedBy, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range groups {
		groups[i].Members, err = p.groupMembers(groups[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return groups, nil
}

// AddGroupMembers inserts the given members, skipping those already
// present, and returns the updated group
func (p *PgHandle) AddGroupMembers(groupID string, members []string) (Group, error) {
	if _, err := p.GetGroup(groupID); err != nil {
		return Group{}, err
	}

	for _, userID := range members {
		_, err := p.db.Exec(`
			INSERT INTO group_members (group_id, user_id)
			VALUES($1, $2)
			ON CONFLICT DO NOTHING
		`, groupID, userID)
		if err != nil {
			return Group{}, fmt.Errorf("failed to insert group member: %w", err)
		}
	}

	return p.GetGroup(groupID)
}

// groupMembers returns the hydrated member list of a group
func (p *PgHandle) groupMembers(groupID string) ([]ledger.UserRef, error) {
	rows, err := p.db.Query(`
		SELECT u.id, u.name, u.email
		FROM group_members m JOIN users u ON (m.user_id = u.id)
		WHERE m.group_id=$1
		ORDER BY u.email
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query group members: %w", err)
	}
	defer rows.Close()

	members := make([]ledger.UserRef, 0)
	for rows.Next() {
		var r ledger.UserRef
		if err := rows.Scan(&r.ID, &r.Name, &r.Email); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		members = append(members, r)
	}
	return members, rows.Err()
}

// CreateExpense creates entries in the expenses, expense_participants and
// expense_splits tables in a single transaction, assigning the expense id
// and creation time.
func (p *PgHandle) CreateExpense(e *ledger.Expense) error {
	e.ID = uuid.New().String()
	e.CreatedAt = time.Now().UTC()

	var groupID interface{}
	if e.GroupID != "" {
		groupID = e.GroupID
	}

	txn, err := p.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer txn.Rollback()

	_, err = txn.Exec(`
		INSERT INTO expenses (id, title, amount, paid_by, split_type, group_id, created_at)
		VALUES($1, $2, $3, $4, $5, $6, $7)
	`, e.ID, e.Title, e.Amount, e.PaidBy.ID, e.SplitType, groupID, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for _, participant := range e.Participants {
		_, err = txn.Exec(
			"INSERT INTO expense_participants (expense_id, user_id) VALUES($1, $2)",
			e.ID, participant.ID)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	for _, d := range e.SplitDetails {
		_, err = txn.Exec(`
			INSERT INTO expense_splits (expense_id, user_id, amount, percentage, status)
			VALUES($1, $2, $3, $4, $5)
		`, e.ID, d.User.ID, d.Amount, d.Percentage, d.Status)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}

	if err := txn.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetExpense returns the expense with the given id, hydrated with user
// names and emails
func (p *PgHandle) GetExpense(id string) (ledger.Expense, error) {
	expenses, err := p.queryExpenses("WHERE e.id=$1", id)
	if err != nil {
		return ledger.Expense{}, err
	}
	if len(expenses) == 0 {
		return ledger.Expense{}, ErrNotFound
	}
	return expenses[0], nil
}

// GetExpenses returns all expenses, oldest first
func (p *PgHandle) GetExpenses() ([]ledger.Expense, error) {
	return p.queryExpenses("")
}

// GetExpensesByParticipant returns expenses where the user is a participant
func (p *PgHandle) GetExpensesByParticipant(userID string) ([]ledger.Expense, error) {
	return p.queryExpenses(`
		WHERE e.id IN (SELECT expense_id FROM expense_participants WHERE user_id=$1)
	`, userID)
}

// GetExpensesByGroup returns expenses belonging to a group
func (p *PgHandle) GetExpensesByGroup(groupID string) ([]ledger.Expense, error) {
	return p.queryExpenses("WHERE e.group_id=$1", groupID)
}

// queryExpenses fetches expense rows matching the filter, then loads and
// hydrates participants and splits per expense.
func (p *PgHandle) queryExpenses(filter string, args ...interface{}) ([]ledger.Expense, error) {
	rows, err := p.db.Query(fmt.Sprintf(`
		SELECT e.id, e.title, e.amount, e.split_type, e.group_id, e.created_at,
		       u.id, u.name, u.email
		FROM expenses e JOIN users u ON (e.paid_by = u.id)
		%s
		ORDER BY e.created_at, e.id
	`, filter), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]ledger.Expense, 0)
	for rows.Next() {
		var e ledger.Expense
		var groupID sql.NullString
		if err := rows.Scan(&e.ID, &e.Title, &e.Amount, &e.SplitType, &groupID, &e.CreatedAt,
			&e.PaidBy.ID, &e.PaidBy.Name, &e.PaidBy.Email); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.GroupID = groupID.String
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range expenses {
		if err := p.loadExpenseDetails(&expenses[i]); err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

// loadExpenseDetails fills the participant and split slices of an expense
func (p *PgHandle) loadExpenseDetails(e *ledger.Expense) error {
	rows, err := p.db.Query(`
		SELECT u.id, u.name, u.email
		FROM expense_participants ep JOIN users u ON (ep.user_id = u.id)
		WHERE ep.expense_id=$1
		ORDER BY u.email
	`, e.ID)
	if err != nil {
		return fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	e.Participants = make([]ledger.UserRef, 0)
	for rows.Next() {
		var r ledger.UserRef
		if err := rows.Scan(&r.ID, &r.Name, &r.Email); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		e.Participants = append(e.Participants, r)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	splitRows, err := p.db.Query(`
		SELECT u.id, u.name, u.email, s.amount, s.percentage, s.status
		FROM expense_splits s JOIN users u ON (s.user_id = u.id)
		WHERE s.expense_id=$1
		ORDER BY u.email
	`, e.ID)
	if err != nil {
		return fmt.Errorf("failed to query splits: %w", err)
	}
	defer splitRows.Close()

	e.SplitDetails = make([]ledger.SplitDetail, 0)
	for splitRows.Next() {
		var d ledger.SplitDetail
		if err := splitRows.Scan(&d.User.ID, &d.User.Name, &d.User.Email,
			&d.Amount, &d.Percentage, &d.Status); err != nil {
			return fmt.Errorf("failed to scan split: %w", err)
		}
		e.SplitDetails = append(e.SplitDetails, d)
	}
	return splitRows.Err()
}

// UpdateSplitStatus sets one participant's split status on an expense
func (p *PgHandle) UpdateSplitStatus(expenseID, userID string, status ledger.SplitStatus) error {
	result, err := p.db.Exec(`
		UPDATE expense_splits SET status=$1
		WHERE expense_id=$2 AND user_id=$3
	`, status, expenseID, userID)
	if err != nil {
		return fmt.Errorf("failed to update split status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpense removes an expense by id. Participant and split rows are
// removed by the cascade.
func (p *PgHandle) DeleteExpense(id string) error {
	result, err := p.db.Exec("DELETE FROM expenses WHERE id=$1", id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateSettlement appends a settlement record, assigning the id and
// creation time
func (p *PgHandle) CreateSettlement(s *ledger.Settlement) error {
	s.ID = uuid.New().String()
	s.CreatedAt = time.Now().UTC()

	var groupID interface{}
	if s.GroupID != "" {
		groupID = s.GroupID
	}

	_, err := p.db.Exec(`
		INSERT INTO settlements (id, paid_by, paid_to, amount, group_id, created_at)
		VALUES($1, $2, $3, $4, $5, $6)
	`, s.ID, s.PaidBy.ID, s.PaidTo.ID, s.Amount, groupID, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}
	return nil
}

// GetSettlementsByUser returns settlements where the user is payer or payee
func (p *PgHandle) GetSettlementsByUser(userID string) ([]ledger.Settlement, error) {
	return p.querySettlements("WHERE s.paid_by=$1 OR s.paid_to=$1", userID)
}

// GetSettlementsByGroup returns settlements belonging to a group
func (p *PgHandle) GetSettlementsByGroup(groupID string) ([]ledger.Settlement, error) {
	return p.querySettlements("WHERE s.group_id=$1", groupID)
}

// querySettlements fetches hydrated settlement rows matching the filter
func (p *PgHandle) querySettlements(filter string, args ...interface{}) ([]ledger.Settlement, error) {
	rows, err := p.db.Query(fmt.Sprintf(`
		SELECT s.id, s.amount, s.group_id, s.created_at,
		       payer.id, payer.name, payer.email,
		       payee.id, payee.name, payee.email
		FROM settlements s
		JOIN users payer ON (s.paid_by = payer.id)
		JOIN users payee ON (s.paid_to = payee.id)
		%s
		ORDER BY s.created_at, s.id
	`, filter), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query settlements: %w", err)
	}
	defer rows.Close()

	settlements := make([]ledger.Settlement, 0)
	for rows.Next() {
		var s ledger.Settlement
		var groupID sql.NullString
		if err := rows.Scan(&s.ID, &s.Amount, &groupID, &s.CreatedAt,
			&s.PaidBy.ID, &s.PaidBy.Name, &s.PaidBy.Email,
			&s.PaidTo.ID, &s.PaidTo.Name, &s.PaidTo.Email); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		s.GroupID = groupID.String
		settlements = append(settlements, s)
	}
	return settlements, rows.Err()
}

// CreateNotification stores a notification
func (p *PgHandle) CreateNotification(userID, kind, message string) (Notification, error) {
	n := Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      kind,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	_, err := p.db.Exec(`
		INSERT INTO notifications (id, user_id, type, message, is_read, created_at)
		VALUES($1, $2, $3, $4, $5, $6)
	`, n.ID, n.UserID, n.Type, n.Message, n.Read, n.CreatedAt)
	if err != nil {
		return Notification{}, fmt.Errorf("failed to insert notification: %w", err)
	}
	return n, nil
}

// GetNotifications returns a user's notifications, newest first
func (p *PgHandle) GetNotifications(userID string) ([]Notification, error) {
	rows, err := p.db.Query(`
		SELECT id, user_id, type, message, is_read, created_at
		FROM notifications WHERE user_id=$1
		ORDER BY created_at DESC, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]Notification, 0)
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkNotificationRead flags a notification as read
func (p *PgHandle) MarkNotificationRead(id string) error {
	result, err := p.db.Exec("UPDATE notifications SET is_read=TRUE WHERE id=$1", id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateChatMessage stores a chat message
func (p *PgHandle) CreateChatMessage(groupID, senderID, message string) (ChatMessage, error) {
	sender, err := p.GetUser(senderID)
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
	_, err = p.db.Exec(`
		INSERT INTO chat_messages (id, group_id, sender_id, message, created_at)
		VALUES($1, $2, $3, $4, $5)
	`, m.ID, m.GroupID, senderID, m.Message, m.CreatedAt)
	if err != nil {
		return ChatMessage{}, fmt.Errorf("failed to insert chat message: %w", err)
	}
	return m, nil
}

// GetChatMessages returns a group's messages with senders hydrated, oldest
// first
func (p *PgHandle) GetChatMessages(groupID string) ([]ChatMessage, error) {
	rows, err := p.db.Query(`
		SELECT m.id, m.group_id, m.message, m.created_at, u.id, u.name, u.email
		FROM chat_messages m JOIN users u ON (m.sender_id = u.id)
		WHERE m.group_id=$1
		ORDER BY m.created_at, m.id
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}
	defer rows.Close()

	messages := make([]ChatMessage, 0)
	for rows.Next() {
		var m ChatMessage
		if err := rows.Scan(&m.ID, &m.GroupID, &m.Message, &m.CreatedAt,
			&m.Sender.ID, &m.Sender.Name, &m.Sender.Email); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
