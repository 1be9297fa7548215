package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/artempelyovin/rashodomer-be/internal/core"
	"github.com/artempelyovin/rashodomer-be/internal/events"
	"github.com/artempelyovin/rashodomer-be/internal/storage"
)

// TransactionManager orchestrates transaction CRUD plus the linked budget
// adjustment. Change notifications go out over AMQP; a nil events client
// disables them.
type TransactionManager struct {
	store  storage.Store
	events *events.Client
}

func NewTransactionManager(store storage.Store, eventsClient *events.Client) *TransactionManager {
	return &TransactionManager{store: store, events: eventsClient}
}

// TransactionPatch is a merge-patch payload. A changed CategoryID is
// re-validated for existence and ownership.
type TransactionPatch struct {
	Amount      core.Optional[float64]
	Description core.Optional[string]
	CategoryID  core.Optional[string]
	Timestamp   core.Optional[time.Time]
}

// Create validates the transaction, persists it and then adjusts the linked
// budget for EXPENSE categories. INCOME categories with a linked budget fail
// with UnsupportedTransactionTypeError after the transaction is already
// persisted; there is no rollback. That mirrors the historical accounting
// behavior and must not be changed without deciding the intended sign of the
// income adjustment.
func (m *TransactionManager) Create(ctx context.Context, userID string, amount float64, description, categoryID string, budgetID *string, timestamp time.Time) (*core.Transaction, error) {
	if amount <= 0 {
		return nil, core.ErrAmountMustBePositive
	}

	category, err := m.store.Categories().Get(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("lookup category: %w", err)
	}
	if category == nil {
		return nil, &core.CategoryNotExistsError{CategoryID: categoryID}
	}
	if category.UserID != userID {
		return nil, core.ErrCategoryAccessDenied
	}

	now := core.UTCNow()
	if timestamp.After(now) {
		return nil, &core.TimestampInFutureError{Timestamp: timestamp, Now: now}
	}

	var budget *core.Budget
	if budgetID != nil {
		budget, err = m.store.Budgets().Get(ctx, *budgetID)
		if err != nil {
			return nil, fmt.Errorf("lookup budget: %w", err)
		}
		if budget == nil {
			return nil, &core.BudgetNotExistsError{BudgetID: *budgetID}
		}
		if budget.UserID != userID {
			return nil, core.ErrBudgetAccessDenied
		}
	}

	transaction := core.NewTransaction(amount, description, categoryID, budgetID, userID, timestamp)
	if err := m.store.Transactions().Add(ctx, transaction); err != nil {
		return nil, fmt.Errorf("save transaction: %w", err)
	}

	if budget != nil {
		switch category.Type {
		case core.CategoryTypeExpense:
			budget.Amount -= amount
			budget.UpdatedAt = core.UTCNow()
			if err := m.store.Budgets().Update(ctx, budget); err != nil {
				return nil, fmt.Errorf("adjust budget: %w", err)
			}
		default:
			return nil, &core.UnsupportedTransactionTypeError{Type: category.Type}
		}
	}

	if err := m.events.PublishEntityEvent(ctx, events.EntityTransaction, transaction.ID, userID, events.ActionCreated); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"transaction_id", transaction.ID, "error", err)
		// The transaction is saved; notification failures never fail the request.
	}

	slog.InfoContext(ctx, "Transaction created",
		"transaction_id", transaction.ID,
		"user_id", userID,
		"amount", amount,
		"category_id", categoryID)
	return transaction, nil
}

func (m *TransactionManager) Get(ctx context.Context, userID, transactionID string) (*core.Transaction, error) {
	transaction, err := m.store.Transactions().Get(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("lookup transaction: %w", err)
	}
	if transaction == nil {
		return nil, &core.TransactionNotExistsError{TransactionID: transactionID}
	}
	if transaction.UserID != userID {
		return nil, core.ErrTransactionAccessDenied
	}
	return transaction, nil
}

func (m *TransactionManager) List(ctx context.Context, userID string, page storage.Page) (int, []*core.Transaction, error) {
	return m.store.Transactions().List(ctx, userID, page)
}

func (m *TransactionManager) Find(ctx context.Context, userID, text string, caseSensitive bool, page storage.Page) (int, []*core.Transaction, error) {
	if text == "" {
		return 0, nil, core.ErrEmptySearchText
	}
	return m.store.Transactions().FindByText(ctx, userID, text, caseSensitive, page)
}

func (m *TransactionManager) Update(ctx context.Context, userID, transactionID string, patch TransactionPatch) (*core.Transaction, error) {
	transaction, err := m.Get(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}

	// None of the transaction fields has a null representation.
	switch {
	case patch.Amount.IsNull():
		return nil, &core.FieldCannotBeNullError{Field: "amount"}
	case patch.Description.IsNull():
		return nil, &core.FieldCannotBeNullError{Field: "description"}
	case patch.CategoryID.IsNull():
		return nil, &core.FieldCannotBeNullError{Field: "category_id"}
	case patch.Timestamp.IsNull():
		return nil, &core.FieldCannotBeNullError{Field: "timestamp"}
	}

	if amount, ok := patch.Amount.Get(); ok && amount <= 0 {
		return nil, core.ErrAmountMustBePositive
	}
	if categoryID, ok := patch.CategoryID.Get(); ok && categoryID != transaction.CategoryID {
		category, err := m.store.Categories().Get(ctx, categoryID)
		if err != nil {
			return nil, fmt.Errorf("lookup category: %w", err)
		}
		if category == nil {
			return nil, &core.CategoryNotExistsError{CategoryID: categoryID}
		}
		if category.UserID != userID {
			return nil, core.ErrCategoryAccessDenied
		}
	}

	changed := false
	if amount, ok := patch.Amount.Get(); ok && amount != transaction.Amount {
		transaction.Amount = amount
		changed = true
	}
	if description, ok := patch.Description.Get(); ok && description != transaction.Description {
		transaction.Description = description
		changed = true
	}
	if categoryID, ok := patch.CategoryID.Get(); ok && categoryID != transaction.CategoryID {
		transaction.CategoryID = categoryID
		changed = true
	}
	if timestamp, ok := patch.Timestamp.Get(); ok && !timestamp.Equal(transaction.Timestamp) {
		transaction.Timestamp = timestamp
		changed = true
	}

	if !changed {
		return transaction, nil
	}

	transaction.UpdatedAt = core.UTCNow()
	if err := m.store.Transactions().Update(ctx, transaction); err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction updated", "transaction_id", transaction.ID, "user_id", userID)
	return transaction, nil
}

// Delete removes the transaction and returns the record as it was before
// removal. The linked budget is not credited back.
func (m *TransactionManager) Delete(ctx context.Context, userID, transactionID string) (*core.Transaction, error) {
	transaction, err := m.Get(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}

	if err := m.store.Transactions().Delete(ctx, transactionID); err != nil {
		return nil, fmt.Errorf("delete transaction: %w", err)
	}

	if err := m.events.PublishEntityEvent(ctx, events.EntityTransaction, transactionID, userID, events.ActionDeleted); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"transaction_id", transactionID, "error", err)
	}

	slog.InfoContext(ctx, "Transaction deleted", "transaction_id", transactionID, "user_id", userID)
	return transaction, nil
}
