// Package file implements the storage interfaces on a single JSON document:
// one top-level key per entity collection, each collection a map from ID to
// serialized record. The whole document is rewritten on every mutation, which
// keeps the format trivially inspectable at the cost of write amplification.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/artempelyovin/rashodomer-be/internal/core"
	"github.com/artempelyovin/rashodomer-be/internal/storage"
)

type document struct {
	Users        map[string]*core.User        `json:"users"`
	Tokens       map[string]string            `json:"tokens"`
	Budgets      map[string]*core.Budget      `json:"budgets"`
	Categories   map[string]*core.Category    `json:"categories"`
	Transactions map[string]*core.Transaction `json:"transactions"`
}

func emptyDocument() document {
	return document{
		Users:        make(map[string]*core.User),
		Tokens:       make(map[string]string),
		Budgets:      make(map[string]*core.Budget),
		Categories:   make(map[string]*core.Category),
		Transactions: make(map[string]*core.Transaction),
	}
}

type Store struct {
	mu   sync.Mutex
	path string
	doc  document
}

// Open loads the document at path, treating a missing file as an empty store.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	s := &Store{path: path, doc: emptyDocument()}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store file: %w", err)
	}
	if err := json.Unmarshal(data, &s.doc); err != nil {
		return nil, fmt.Errorf("decode store file: %w", err)
	}
	// Collections absent from the document stay usable.
	if s.doc.Users == nil {
		s.doc.Users = make(map[string]*core.User)
	}
	if s.doc.Tokens == nil {
		s.doc.Tokens = make(map[string]string)
	}
	if s.doc.Budgets == nil {
		s.doc.Budgets = make(map[string]*core.Budget)
	}
	if s.doc.Categories == nil {
		s.doc.Categories = make(map[string]*core.Category)
	}
	if s.doc.Transactions == nil {
		s.doc.Transactions = make(map[string]*core.Transaction)
	}
	return s, nil
}

// save persists the whole document. Callers hold s.mu.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store file: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	return nil
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
	r.s.doc.Users[user.ID] = &clone
	return r.s.save()
}

func (r *userRepo) Get(_ context.Context, userID string) (*core.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.doc.Users[userID]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (r *userRepo) FindByLogin(_ context.Context, login string) (*core.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, user := range r.s.doc.Users {
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
	user, ok := r.s.doc.Users[userID]
	if !ok {
		return nil
	}
	user.LastLogin = lastLogin
	return r.s.save()
}

func (r *userRepo) Delete(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.doc.Users, userID)
	return r.s.save()
}

type tokenRepo struct{ s *Store }

func (r *tokenRepo) Create(_ context.Context, userID, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.doc.Tokens[userID] = token
	return r.s.save()
}

func (r *tokenRepo) UserIDByToken(_ context.Context, token string) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for userID, existing := range r.s.doc.Tokens {
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
	r.s.doc.Budgets[budget.ID] = &clone
	return r.s.save()
}

func (r *budgetRepo) Get(_ context.Context, budgetID string) (*core.Budget, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	budget, ok := r.s.doc.Budgets[budgetID]
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
	for _, budget := range r.s.doc.Budgets {
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
	for _, budget := range r.s.doc.Budgets {
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
	for _, budget := range r.s.doc.Budgets {
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
	r.s.doc.Budgets[budget.ID] = &clone
	return r.s.save()
}

func (r *budgetRepo) Delete(_ context.Context, budgetID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.doc.Budgets, budgetID)
	return r.s.save()
}

type categoryRepo struct{ s *Store }

func (r *categoryRepo) Add(_ context.Context, category *core.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	clone := *category
	r.s.doc.Categories[category.ID] = &clone
	return r.s.save()
}

func (r *categoryRepo) Get(_ context.Context, categoryID string) (*core.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	category, ok := r.s.doc.Categories[categoryID]
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
	for _, category := range r.s.doc.Categories {
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
	for _, category := range r.s.doc.Categories {
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
	for _, category := range r.s.doc.Categories {
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
	r.s.doc.Categories[category.ID] = &clone
	return r.s.save()
}

func (r *categoryRepo) Delete(_ context.Context, categoryID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.doc.Categories, categoryID)
	return r.s.save()
}

type transactionRepo struct{ s *Store }

func (r *transactionRepo) Add(_ context.Context, transaction *core.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	clone := *transaction
	r.s.doc.Transactions[transaction.ID] = &clone
	return r.s.save()
}

func (r *transactionRepo) Get(_ context.Context, transactionID string) (*core.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	transaction, ok := r.s.doc.Transactions[transactionID]
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
	for _, transaction := range r.s.doc.Transactions {
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
	for _, transaction := range r.s.doc.Transactions {
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
	r.s.doc.Transactions[transaction.ID] = &clone
	return r.s.save()
}

func (r *transactionRepo) Delete(_ context.Context, transactionID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.doc.Transactions, transactionID)
	return r.s.save()
}
