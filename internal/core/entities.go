package core

import (
	"time"

	"github.com/google/uuid"
)

// User is an account holder. PasswordHash is persisted by the storage
// backends but must never be rendered by the HTTP layer.
type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Login        string    `json:"login"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	LastLogin    time.Time `json:"last_login"`
}

// Budget is a named pot of money owned by a single user.
type Budget struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	UserID      string    `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Category labels transactions. The (UserID, Name, Type) combination is
// unique at creation time; the same name with a different type is allowed.
type Category struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Type        CategoryType `json:"type"`
	EmojiIcon   *string      `json:"emoji_icon"`
	IsArchived  bool         `json:"is_archived"`
	UserID      string       `json:"user_id"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// Transaction is a single income or expense entry. Timestamp is the logical
// event time, distinct from CreatedAt. BudgetID is optional.
type Transaction struct {
	ID          string    `json:"id"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	CategoryID  string    `json:"category_id"`
	BudgetID    *string   `json:"budget_id"`
	UserID      string    `json:"user_id"`
	Timestamp   time.Time `json:"timestamp"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UTCNow returns the current time in UTC. All entity timestamps use it so
// that serialized records compare consistently across backends.
func UTCNow() time.Time {
	return time.Now().UTC()
}

// NewID returns a fresh UUIDv4 string, the ID format shared by all entities.
func NewID() string {
	return uuid.NewString()
}

func NewUser(firstName, lastName, login, passwordHash string) *User {
	now := UTCNow()
	return &User{
		ID:           NewID(),
		FirstName:    firstName,
		LastName:     lastName,
		Login:        login,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		LastLogin:    now,
	}
}

func NewBudget(name, description string, amount float64, userID string) *Budget {
	now := UTCNow()
	return &Budget{
		ID:          NewID(),
		Name:        name,
		Description: description,
		Amount:      amount,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func NewCategory(name, description string, categoryType CategoryType, emojiIcon *string, userID string) *Category {
	now := UTCNow()
	return &Category{
		ID:          NewID(),
		Name:        name,
		Description: description,
		Type:        categoryType,
		EmojiIcon:   emojiIcon,
		IsArchived:  false,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func NewTransaction(amount float64, description, categoryID string, budgetID *string, userID string, timestamp time.Time) *Transaction {
	now := UTCNow()
	return &Transaction{
		ID:          NewID(),
		Amount:      amount,
		Description: description,
		CategoryID:  categoryID,
		BudgetID:    budgetID,
		UserID:      userID,
		Timestamp:   timestamp,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
