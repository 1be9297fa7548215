package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/artempelyovin/rashodomer-be/internal/core"
	"github.com/artempelyovin/rashodomer-be/internal/storage"
)

type BudgetManager struct {
	store storage.Store
}

func NewBudgetManager(store storage.Store) *BudgetManager {
	return &BudgetManager{store: store}
}

// BudgetPatch is a merge-patch payload: fields left unset preserve the
// stored value.
type BudgetPatch struct {
	Name        core.Optional[string]
	Description core.Optional[string]
	Amount      core.Optional[float64]
}

func (m *BudgetManager) Create(ctx context.Context, userID, name, description string, amount float64) (*core.Budget, error) {
	if amount < 0 {
		return nil, core.ErrAmountMustBePositive
	}

	existing, err := m.store.Budgets().FindByName(ctx, userID, name)
	if err != nil {
		return nil, fmt.Errorf("lookup budget name: %w", err)
	}
	if len(existing) > 0 {
		return nil, &core.BudgetAlreadyExistsError{Name: name}
	}

	budget := core.NewBudget(name, description, amount, userID)
	if err := m.store.Budgets().Add(ctx, budget); err != nil {
		return nil, fmt.Errorf("save budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget created", "budget_id", budget.ID, "user_id", userID)
	return budget, nil
}

func (m *BudgetManager) Get(ctx context.Context, userID, budgetID string) (*core.Budget, error) {
	budget, err := m.store.Budgets().Get(ctx, budgetID)
	if err != nil {
		return nil, fmt.Errorf("lookup budget: %w", err)
	}
	if budget == nil {
		return nil, &core.BudgetNotExistsError{BudgetID: budgetID}
	}
	if budget.UserID != userID {
		return nil, core.ErrBudgetAccessDenied
	}
	return budget, nil
}

func (m *BudgetManager) List(ctx context.Context, userID string, page storage.Page) (int, []*core.Budget, error) {
	return m.store.Budgets().List(ctx, userID, page)
}

func (m *BudgetManager) Find(ctx context.Context, userID, text string, caseSensitive bool, page storage.Page) (int, []*core.Budget, error) {
	if text == "" {
		return 0, nil, core.ErrEmptySearchText
	}
	return m.store.Budgets().FindByText(ctx, userID, text, caseSensitive, page)
}

func (m *BudgetManager) Update(ctx context.Context, userID, budgetID string, patch BudgetPatch) (*core.Budget, error) {
	budget, err := m.Get(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}

	// None of the budget fields has a null representation.
	switch {
	case patch.Name.IsNull():
		return nil, &core.FieldCannotBeNullError{Field: "name"}
	case patch.Description.IsNull():
		return nil, &core.FieldCannotBeNullError{Field: "description"}
	case patch.Amount.IsNull():
		return nil, &core.FieldCannotBeNullError{Field: "amount"}
	}

	if amount, ok := patch.Amount.Get(); ok && amount < 0 {
		return nil, core.ErrAmountMustBePositive
	}

	changed := false
	if name, ok := patch.Name.Get(); ok && name != budget.Name {
		budget.Name = name
		changed = true
	}
	if description, ok := patch.Description.Get(); ok && description != budget.Description {
		budget.Description = description
		changed = true
	}
	if amount, ok := patch.Amount.Get(); ok && amount != budget.Amount {
		budget.Amount = amount
		changed = true
	}

	if !changed {
		return budget, nil
	}

	budget.UpdatedAt = core.UTCNow()
	if err := m.store.Budgets().Update(ctx, budget); err != nil {
		return nil, fmt.Errorf("update budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget updated", "budget_id", budget.ID, "user_id", userID)
	return budget, nil
}

// Delete removes the budget and returns the record as it was before removal.
func (m *BudgetManager) Delete(ctx context.Context, userID, budgetID string) (*core.Budget, error) {
	budget, err := m.Get(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}

	if err := m.store.Budgets().Delete(ctx, budgetID); err != nil {
		return nil, fmt.Errorf("delete budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget deleted", "budget_id", budgetID, "user_id", userID)
	return budget, nil
}
