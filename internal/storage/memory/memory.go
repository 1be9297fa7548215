// Package memory implements the storage interfaces on plain in-process maps.
// The store is an explicit object with an injected lifetime: construct one
// per process or per test, never share package-level state.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/artempelyovin/rashodomer-be/internal/core"
	"github.com/artempelyovin/rashodomer-be/internal/storage"
)

type Store struct {
	mu           sync.Mutex
	users        map[string]*core.User
	tokens       map[string]string // user_id -> token
	budgets      map[string]*core.Budget
	categories   map[string]*core.Category
	transactions map[string]*core.Transaction
}

func New() *Store {
	return &Store{
		users:        make(map[string]*core.User),
		tokens:       make(map[string]string),
		budgets:      make(map[string]*core.Budget),
		categories:   make(map[string]*core.Category),
		transactions: make(map[string]*core.Transaction),
	}
}

func (s *Store) Users() storage.UserRepo               { return &userRepo{s} }
func (s *Store) Tokens() storage.TokenRepo             { return &tokenRepo{s} }
func (s *Store) Budgets() storage.BudgetRepo           { return &budgetRepo{s} }
func (s *Store) Categories() storage.CategoryRepo      { return &categoryRepo{s} }
func (s *Store) Transactions() storage.TransactionRepo { return &transactionRepo{s} }

func (s *Store) Close() error { return nil }

type userRepo struct{ s *Store }

func (r *userRepo) Add(_ context.Context, user *core.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	clone := *user
	r.s.users[user.ID] = &clone
	return nil
}

func (r *userRepo) Get(_ context.Context, userID string) (*core.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[userID]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (r *userRepo) FindByLogin(_ context.Context, login string) (*core.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, user := range r.s.users {
		if user.Login == login {
			clone := *user
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *userRepo) UpdateLastLogin(_ context.Context, userID string, lastLogin time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if user, ok := r.s.users[userID]; ok {
		user.LastLogin = lastLogin
	}
	return nil
}

func (r *userRepo) Delete(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, userID)
	return nil
}

type tokenRepo struct{ s *Store }

func (r *tokenRepo) Create(_ context.Context, userID, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.tokens[userID] = token
	return nil
}

func (r *tokenRepo) UserIDByToken(_ context.Context, token string) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for userID, existing := range r.s.tokens {
		if existing == token {
			return userID, nil
		}
	}
	return "", nil
}

type budgetRepo struct{ s *Store }

func (r *budgetRepo) Add(_ context.Context, budget *core.Budget) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	clone := *budget
	r.s.budgets[budget.ID] = &clone
	return nil
}

func (r *budgetRepo) Get(_ context.Context, budgetID string) (*core.Budget, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	budget, ok := r.s.budgets[budgetID]
	if !ok {
		return nil, nil
	}
	clone := *budget
	return &clone, nil
}

func (r *budgetRepo) List(_ context.Context, userID string, page storage.Page) (int, []*core.Budget, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []*core.Budget
	for _, budget := range r.s.budgets {
		if budget.UserID == userID {
			clone := *budget
			matched = append(matched, &clone)
		}
	}
	storage.SortByCreation(matched, func(b *core.Budget) time.Time { return b.CreatedAt }, func(b *core.Budget) string { return b.ID })
	total, pageItems := storage.Paginate(matched, page)
	return total, pageItems, nil
}

func (r *budgetRepo) FindByName(_ context.Context, userID, name string) ([]*core.Budget, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []*core.Budget
	for _, budget := range r.s.budgets {
		if budget.UserID == userID && budget.Name == name {
			clone := *budget
			matched = append(matched, &clone)
		}
	}
	return matched, nil
}

func (r *budgetRepo) FindByText(_ context.Context, userID, text string, caseSensitive bool, page storage.Page) (int, []*core.Budget, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []*core.Budget
	for _, budget := range r.s.budgets {
		if budget.UserID == userID && storage.MatchSubstring(text, caseSensitive, budget.Name, budget.Description) {
			clone := *budget
			matched = append(matched, &clone)
		}
	}
	storage.SortByCreation(matched, func(b *core.Budget) time.Time { return b.CreatedAt }, func(b *core.Budget) string { return b.ID })
	total, pageItems := storage.Paginate(matched, page)
	return total, pageItems, nil
}

func (r *budgetRepo) Update(_ context.Context, budget *core.Budget) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	clone := *budget
	r.s.budgets[budget.ID] = &clone
	return nil
}

func (r *budgetRepo) Delete(_ context.Context, budgetID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.budgets, budgetID)
	return nil
}

type categoryRepo struct{ s *Store }

func (r *categoryRepo) Add(_ context.Context, category *core.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	clone := *category
	r.s.categories[category.ID] = &clone
	return nil
}

func (r *categoryRepo) Get(_ context.Context, categoryID string) (*core.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	category, ok := r.s.categories[categoryID]
	if !ok {
		return nil, nil
	}
	clone := *category
	return &clone, nil
}

func (r *categoryRepo) List(_ context.Context, userID string, categoryType *core.CategoryType, showArchived bool, page storage.Page) (int, []*core.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []*core.Category
	for _, category := range r.s.categories {
		if category.UserID != userID {
			continue
		}
		if categoryType != nil && category.Type != *categoryType {
			continue
		}
		if category.IsArchived && !showArchived {
			continue
		}
		clone := *category
		matched = append(matched, &clone)
	}
	storage.SortByCreation(matched, func(c *core.Category) time.Time { return c.CreatedAt }, func(c *core.Category) string { return c.ID })
	total, pageItems := storage.Paginate(matched, page)
	return total, pageItems, nil
}

func (r *categoryRepo) FindByNameAndType(_ context.Context, userID, name string, categoryType core.CategoryType) ([]*core.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []*core.Category
	for _, category := range r.s.categories {
		if category.UserID == userID && category.Name == name && category.Type == categoryType {
			clone := *category
			matched = append(matched, &clone)
		}
	}
	return matched, nil
}

func (r *categoryRepo) FindByText(_ context.Context, userID, text string, caseSensitive bool, page storage.Page) (int, []*core.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []*core.Category
	for _, category := range r.s.categories {
		if category.UserID == userID && storage.MatchSubstring(text, caseSensitive, category.Name, category.Description) {
			clone := *category
			matched = append(matched, &clone)
		}
	}
	storage.SortByCreation(matched, func(c *core.Category) time.Time { return c.CreatedAt }, func(c *core.Category) string { return c.ID })
	total, pageItems := storage.Paginate(matched, page)
	return total, pageItems, nil
}

func (r *categoryRepo) Update(_ context.Context, category *core.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	clone := *category
	r.s.categories[category.ID] = &clone
	return nil
}

func (r *categoryRepo) Delete(_ context.Context, categoryID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.categories, categoryID)
	return nil
}

type transactionRepo struct{ s *Store }

func (r *transactionRepo) Add(_ context.Context, transaction *core.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	clone := *transaction
	r.s.transactions[transaction.ID] = &clone
	return nil
}

func (r *transactionRepo) Get(_ context.Context, transactionID string) (*core.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	transaction, ok := r.s.transactions[transactionID]
	if !ok {
		return nil, nil
	}
	clone := *transaction
	return &clone, nil
}

func (r *transactionRepo) List(_ context.Context, userID string, page storage.Page) (int, []*core.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []*core.Transaction
	for _, transaction := range r.s.transactions {
		if transaction.UserID == userID {
			clone := *transaction
			matched = append(matched, &clone)
		}
	}
	storage.SortByCreation(matched, func(t *core.Transaction) time.Time { return t.CreatedAt }, func(t *core.Transaction) string { return t.ID })
	total, pageItems := storage.Paginate(matched, page)
	return total, pageItems, nil
}

func (r *transactionRepo) FindByText(_ context.Context, userID, text string, caseSensitive bool, page storage.Page) (int, []*core.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []*core.Transaction
	for _, transaction := range r.s.transactions {
		if transaction.UserID == userID && storage.MatchSubstring(text, caseSensitive, transaction.Description) {
			clone := *transaction
			matched = append(matched, &clone)
		}
	}
	storage.SortByCreation(matched, func(t *core.Transaction) time.Time { return t.CreatedAt }, func(t *core.Transaction) string { return t.ID })
	total, pageItems := storage.Paginate(matched, page)
	return total, pageItems, nil
}

func (r *transactionRepo) Update(_ context.Context, transaction *core.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	clone := *transaction
	r.s.transactions[transaction.ID] = &clone
	return nil
}

func (r *transactionRepo) Delete(_ context.Context, transactionID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.transactions, transactionID)
	return nil
}
