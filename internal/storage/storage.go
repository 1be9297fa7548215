// Package storage defines the repository interfaces shared by the memory,
// file, and sqlite backends, plus the pagination and text-matching helpers
// that keep their query semantics identical.
package storage

import (
	"context"
	"time"

	"github.com/artempelyovin/rashodomer-be/internal/core"
)

// Page bounds a listing. A nil Limit applies no cap; Offset skips that many
// records after filtering.
type Page struct {
	Limit  *int
	Offset int
}

// Repositories return (nil, nil) on lookup misses; the service layer
// translates misses into typed not-found errors.

type UserRepo interface {
	Add(ctx context.Context, user *core.User) error
	Get(ctx context.Context, userID string) (*core.User, error)
	FindByLogin(ctx context.Context, login string) (*core.User, error)
	UpdateLastLogin(ctx context.Context, userID string, lastLogin time.Time) error
	Delete(ctx context.Context, userID string) error
}

// TokenRepo maps each user to their single live token. Creating a token for
// a user replaces any previous one.
type TokenRepo interface {
	Create(ctx context.Context, userID, token string) error
	UserIDByToken(ctx context.Context, token string) (string, error)
}

type BudgetRepo interface {
	Add(ctx context.Context, budget *core.Budget) error
	Get(ctx context.Context, budgetID string) (*core.Budget, error)
	List(ctx context.Context, userID string, page Page) (int, []*core.Budget, error)
	FindByName(ctx context.Context, userID, name string) ([]*core.Budget, error)
	FindByText(ctx context.Context, userID, text string, caseSensitive bool, page Page) (int, []*core.Budget, error)
	Update(ctx context.Context, budget *core.Budget) error
	Delete(ctx context.Context, budgetID string) error
}

type CategoryRepo interface {
	Add(ctx context.Context, category *core.Category) error
	Get(ctx context.Context, categoryID string) (*core.Category, error)
	List(ctx context.Context, userID string, categoryType *core.CategoryType, showArchived bool, page Page) (int, []*core.Category, error)
	FindByNameAndType(ctx context.Context, userID, name string, categoryType core.CategoryType) ([]*core.Category, error)
	FindByText(ctx context.Context, userID, text string, caseSensitive bool, page Page) (int, []*core.Category, error)
	Update(ctx context.Context, category *core.Category) error
	Delete(ctx context.Context, categoryID string) error
}

type TransactionRepo interface {
	Add(ctx context.Context, transaction *core.Transaction) error
	Get(ctx context.Context, transactionID string) (*core.Transaction, error)
	List(ctx context.Context, userID string, page Page) (int, []*core.Transaction, error)
	FindByText(ctx context.Context, userID, text string, caseSensitive bool, page Page) (int, []*core.Transaction, error)
	Update(ctx context.Context, transaction *core.Transaction) error
	Delete(ctx context.Context, transactionID string) error
}

// Store aggregates the per-entity repositories of one backend.
type Store interface {
	Users() UserRepo
	Tokens() TokenRepo
	Budgets() BudgetRepo
	Categories() CategoryRepo
	Transactions() TransactionRepo
	Close() error
}
