// Package sqlite implements the storage interfaces on a SQLite database via
// modernc.org/sqlite, with schema managed by golang-migrate. Timestamps are
// stored as RFC 3339 text so rows stay readable with the sqlite3 CLI.
//
// Substring search filters rows in Go through the shared MatchSubstring
// helper rather than SQL LIKE, so case sensitivity behaves exactly as in the
// memory and file backends.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/artempelyovin/rashodomer-be/internal/core"
	"github.com/artempelyovin/rashodomer-be/internal/storage"
)

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at dbPath and applies pending
// migrations.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Users() storage.UserRepo               { return &userRepo{s.db} }
func (s *Store) Tokens() storage.TokenRepo             { return &tokenRepo{s.db} }
func (s *Store) Budgets() storage.BudgetRepo           { return &budgetRepo{s.db} }
func (s *Store) Categories() storage.CategoryRepo      { return &categoryRepo{s.db} }
func (s *Store) Transactions() storage.TransactionRepo { return &transactionRepo{s.db} }

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func decodeTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored timestamp %q: %w", s, err)
	}
	return t, nil
}

type userRepo struct{ db *sql.DB }

func (r *userRepo) Add(ctx context.Context, user *core.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, first_name, last_name, login, password_hash, created_at, last_login)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.FirstName, user.LastName, user.Login, user.PasswordHash,
		encodeTime(user.CreatedAt), encodeTime(user.LastLogin))
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func scanUser(row *sql.Row) (*core.User, error) {
	var user core.User
	var createdAt, lastLogin string
	err := row.Scan(&user.ID, &user.FirstName, &user.LastName, &user.Login,
		&user.PasswordHash, &createdAt, &lastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	if user.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	if user.LastLogin, err = decodeTime(lastLogin); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) Get(ctx context.Context, userID string) (*core.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, login, password_hash, created_at, last_login
		 FROM users WHERE id = ?`, userID)
	return scanUser(row)
}

func (r *userRepo) FindByLogin(ctx context.Context, login string) (*core.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, login, password_hash, created_at, last_login
		 FROM users WHERE login = ?`, login)
	return scanUser(row)
}

func (r *userRepo) UpdateLastLogin(ctx context.Context, userID string, lastLogin time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login = ? WHERE id = ?`, encodeTime(lastLogin), userID)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

type tokenRepo struct{ db *sql.DB }

func (r *tokenRepo) Create(ctx context.Context, userID, token string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tokens (user_id, token) VALUES (?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET token = excluded.token`,
		userID, token)
	if err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	return nil
}

func (r *tokenRepo) UserIDByToken(ctx context.Context, token string) (string, error) {
	var userID string
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id FROM tokens WHERE token = ?`, token).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup token: %w", err)
	}
	return userID, nil
}

type budgetRepo struct{ db *sql.DB }

func (r *budgetRepo) Add(ctx context.Context, budget *core.Budget) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (id, name, description, amount, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		budget.ID, budget.Name, budget.Description, budget.Amount, budget.UserID,
		encodeTime(budget.CreatedAt), encodeTime(budget.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert budget: %w", err)
	}
	return nil
}

func scanBudget(scan func(dest ...any) error) (*core.Budget, error) {
	var budget core.Budget
	var createdAt, updatedAt string
	err := scan(&budget.ID, &budget.Name, &budget.Description, &budget.Amount,
		&budget.UserID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if budget.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	if budget.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return nil, err
	}
	return &budget, nil
}

func (r *budgetRepo) Get(ctx context.Context, budgetID string) (*core.Budget, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, amount, user_id, created_at, updated_at
		 FROM budgets WHERE id = ?`, budgetID)
	budget, err := scanBudget(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan budget: %w", err)
	}
	return budget, nil
}

func (r *budgetRepo) queryBudgets(ctx context.Context, query string, args ...any) ([]*core.Budget, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*core.Budget
	for rows.Next() {
		budget, err := scanBudget(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, budget)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate budgets: %w", err)
	}
	return budgets, nil
}

func (r *budgetRepo) List(ctx context.Context, userID string, page storage.Page) (int, []*core.Budget, error) {
	budgets, err := r.queryBudgets(ctx,
		`SELECT id, name, description, amount, user_id, created_at, updated_at
		 FROM budgets WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return 0, nil, err
	}
	total, pageItems := storage.Paginate(budgets, page)
	return total, pageItems, nil
}

func (r *budgetRepo) FindByName(ctx context.Context, userID, name string) ([]*core.Budget, error) {
	return r.queryBudgets(ctx,
		`SELECT id, name, description, amount, user_id, created_at, updated_at
		 FROM budgets WHERE user_id = ? AND name = ?`, userID, name)
}

func (r *budgetRepo) FindByText(ctx context.Context, userID, text string, caseSensitive bool, page storage.Page) (int, []*core.Budget, error) {
	budgets, err := r.queryBudgets(ctx,
		`SELECT id, name, description, amount, user_id, created_at, updated_at
		 FROM budgets WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return 0, nil, err
	}
	var matched []*core.Budget
	for _, budget := range budgets {
		if storage.MatchSubstring(text, caseSensitive, budget.Name, budget.Description) {
			matched = append(matched, budget)
		}
	}
	total, pageItems := storage.Paginate(matched, page)
	return total, pageItems, nil
}

func (r *budgetRepo) Update(ctx context.Context, budget *core.Budget) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE budgets SET name = ?, description = ?, amount = ?, updated_at = ? WHERE id = ?`,
		budget.Name, budget.Description, budget.Amount, encodeTime(budget.UpdatedAt), budget.ID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return nil
}

func (r *budgetRepo) Delete(ctx context.Context, budgetID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, budgetID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return nil
}

type categoryRepo struct{ db *sql.DB }

func (r *categoryRepo) Add(ctx context.Context, category *core.Category) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, description, type, emoji_icon, is_archived, user_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		category.ID, category.Name, category.Description, string(category.Type),
		category.EmojiIcon, category.IsArchived, category.UserID,
		encodeTime(category.CreatedAt), encodeTime(category.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func scanCategory(scan func(dest ...any) error) (*core.Category, error) {
	var category core.Category
	var categoryType, createdAt, updatedAt string
	err := scan(&category.ID, &category.Name, &category.Description, &categoryType,
		&category.EmojiIcon, &category.IsArchived, &category.UserID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	category.Type = core.CategoryType(categoryType)
	if category.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	if category.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepo) Get(ctx context.Context, categoryID string) (*core.Category, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, type, emoji_icon, is_archived, user_id, created_at, updated_at
		 FROM categories WHERE id = ?`, categoryID)
	category, err := scanCategory(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan category: %w", err)
	}
	return category, nil
}

func (r *categoryRepo) queryCategories(ctx context.Context, query string, args ...any) ([]*core.Category, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []*core.Category
	for rows.Next() {
		category, err := scanCategory(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

func (r *categoryRepo) List(ctx context.Context, userID string, categoryType *core.CategoryType, showArchived bool, page storage.Page) (int, []*core.Category, error) {
	query := `SELECT id, name, description, type, emoji_icon, is_archived, user_id, created_at, updated_at
		 FROM categories WHERE user_id = ?`
	args := []any{userID}
	if categoryType != nil {
		query += ` AND type = ?`
		args = append(args, string(*categoryType))
	}
	if !showArchived {
		query += ` AND is_archived = 0`
	}
	query += ` ORDER BY created_at, id`

	categories, err := r.queryCategories(ctx, query, args...)
	if err != nil {
		return 0, nil, err
	}
	total, pageItems := storage.Paginate(categories, page)
	return total, pageItems, nil
}

func (r *categoryRepo) FindByNameAndType(ctx context.Context, userID, name string, categoryType core.CategoryType) ([]*core.Category, error) {
	return r.queryCategories(ctx,
		`SELECT id, name, description, type, emoji_icon, is_archived, user_id, created_at, updated_at
		 FROM categories WHERE user_id = ? AND name = ? AND type = ?`,
		userID, name, string(categoryType))
}

func (r *categoryRepo) FindByText(ctx context.Context, userID, text string, caseSensitive bool, page storage.Page) (int, []*core.Category, error) {
	categories, err := r.queryCategories(ctx,
		`SELECT id, name, description, type, emoji_icon, is_archived, user_id, created_at, updated_at
		 FROM categories WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return 0, nil, err
	}
	var matched []*core.Category
	for _, category := range categories {
		if storage.MatchSubstring(text, caseSensitive, category.Name, category.Description) {
			matched = append(matched, category)
		}
	}
	total, pageItems := storage.Paginate(matched, page)
	return total, pageItems, nil
}

func (r *categoryRepo) Update(ctx context.Context, category *core.Category) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, description = ?, type = ?, emoji_icon = ?, is_archived = ?, updated_at = ?
		 WHERE id = ?`,
		category.Name, category.Description, string(category.Type), category.EmojiIcon,
		category.IsArchived, encodeTime(category.UpdatedAt), category.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

func (r *categoryRepo) Delete(ctx context.Context, categoryID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, categoryID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

type transactionRepo struct{ db *sql.DB }

func (r *transactionRepo) Add(ctx context.Context, transaction *core.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, amount, description, category_id, budget_id, user_id, timestamp, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		transaction.ID, transaction.Amount, transaction.Description, transaction.CategoryID,
		transaction.BudgetID, transaction.UserID, encodeTime(transaction.Timestamp),
		encodeTime(transaction.CreatedAt), encodeTime(transaction.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func scanTransaction(scan func(dest ...any) error) (*core.Transaction, error) {
	var transaction core.Transaction
	var timestamp, createdAt, updatedAt string
	err := scan(&transaction.ID, &transaction.Amount, &transaction.Description,
		&transaction.CategoryID, &transaction.BudgetID, &transaction.UserID,
		&timestamp, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if transaction.Timestamp, err = decodeTime(timestamp); err != nil {
		return nil, err
	}
	if transaction.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	if transaction.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepo) Get(ctx context.Context, transactionID string) (*core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, amount, description, category_id, budget_id, user_id, timestamp, created_at, updated_at
		 FROM transactions WHERE id = ?`, transactionID)
	transaction, err := scanTransaction(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return transaction, nil
}

func (r *transactionRepo) queryTransactions(ctx context.Context, query string, args ...any) ([]*core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*core.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return transactions, nil
}

func (r *transactionRepo) List(ctx context.Context, userID string, page storage.Page) (int, []*core.Transaction, error) {
	transactions, err := r.queryTransactions(ctx,
		`SELECT id, amount, description, category_id, budget_id, user_id, timestamp, created_at, updated_at
		 FROM transactions WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return 0, nil, err
	}
	total, pageItems := storage.Paginate(transactions, page)
	return total, pageItems, nil
}

func (r *transactionRepo) FindByText(ctx context.Context, userID, text string, caseSensitive bool, page storage.Page) (int, []*core.Transaction, error) {
	transactions, err := r.queryTransactions(ctx,
		`SELECT id, amount, description, category_id, budget_id, user_id, timestamp, created_at, updated_at
		 FROM transactions WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return 0, nil, err
	}
	var matched []*core.Transaction
	for _, transaction := range transactions {
		if storage.MatchSubstring(text, caseSensitive, transaction.Description) {
			matched = append(matched, transaction)
		}
	}
	total, pageItems := storage.Paginate(matched, page)
	return total, pageItems, nil
}

func (r *transactionRepo) Update(ctx context.Context, transaction *core.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET amount = ?, description = ?, category_id = ?, budget_id = ?, timestamp = ?, updated_at = ?
		 WHERE id = ?`,
		transaction.Amount, transaction.Description, transaction.CategoryID,
		transaction.BudgetID, encodeTime(transaction.Timestamp),
		encodeTime(transaction.UpdatedAt), transaction.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return nil
}

func (r *transactionRepo) Delete(ctx context.Context, transactionID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, transactionID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}
