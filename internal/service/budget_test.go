package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artempelyovin/rashodomer-be/internal/core"
	"github.com/artempelyovin/rashodomer-be/internal/storage"
	"github.com/artempelyovin/rashodomer-be/internal/storage/memory"
)

func TestBudgetCreate(t *testing.T) {
	m := NewBudgetManager(memory.New())
	ctx := context.Background()

	budget, err := m.Create(ctx, "user-1", "Cash", "daily spending", 100)
	require.NoError(t, err)
	assert.NotEmpty(t, budget.ID)
	assert.Equal(t, "Cash", budget.Name)
	assert.Equal(t, 100.0, budget.Amount)
	assert.Equal(t, "user-1", budget.UserID)
}

func TestBudgetCreateNegativeAmount(t *testing.T) {
	m := NewBudgetManager(memory.New())

	_, err := m.Create(context.Background(), "user-1", "Cash", "", -5)
	assert.ErrorIs(t, err, core.ErrAmountMustBePositive)

	// Zero is allowed for budgets.
	_, err = m.Create(context.Background(), "user-1", "Empty", "", 0)
	assert.NoError(t, err)
}

func TestBudgetCreateDuplicateName(t *testing.T) {
	m := NewBudgetManager(memory.New())
	ctx := context.Background()

	_, err := m.Create(ctx, "user-1", "Cash", "", 100)
	require.NoError(t, err)

	_, err = m.Create(ctx, "user-1", "Cash", "", 50)
	var alreadyExists *core.BudgetAlreadyExistsError
	require.ErrorAs(t, err, &alreadyExists)
	assert.Equal(t, "Cash", alreadyExists.Name)

	// Same name under a different owner is fine.
	_, err = m.Create(ctx, "user-2", "Cash", "", 100)
	assert.NoError(t, err)
}

func TestBudgetOwnership(t *testing.T) {
	m := NewBudgetManager(memory.New())
	ctx := context.Background()

	budget, err := m.Create(ctx, "user-1", "Cash", "", 100)
	require.NoError(t, err)

	_, err = m.Get(ctx, "user-2", budget.ID)
	assert.ErrorIs(t, err, core.ErrBudgetAccessDenied)

	_, err = m.Update(ctx, "user-2", budget.ID, BudgetPatch{Name: core.Set("Stolen")})
	assert.ErrorIs(t, err, core.ErrBudgetAccessDenied)

	_, err = m.Delete(ctx, "user-2", budget.ID)
	assert.ErrorIs(t, err, core.ErrBudgetAccessDenied)
}

func TestBudgetGetNotExists(t *testing.T) {
	m := NewBudgetManager(memory.New())

	_, err := m.Get(context.Background(), "user-1", "no-such-id")
	var notExists *core.BudgetNotExistsError
	require.ErrorAs(t, err, &notExists)
	assert.Equal(t, "no-such-id", notExists.BudgetID)
}

func TestBudgetList(t *testing.T) {
	m := NewBudgetManager(memory.New())
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		_, err := m.Create(ctx, "user-1", name, "", 0)
		require.NoError(t, err)
	}
	_, err := m.Create(ctx, "user-2", "other", "", 0)
	require.NoError(t, err)

	total, budgets, err := m.List(ctx, "user-1", storage.Page{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, budgets, 3)

	limit := 2
	total, budgets, err = m.List(ctx, "user-1", storage.Page{Limit: &limit, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, budgets, 1)
}

func TestBudgetFind(t *testing.T) {
	m := NewBudgetManager(memory.New())
	ctx := context.Background()

	_, err := m.Create(ctx, "user-1", "Cash", "daily spending", 100)
	require.NoError(t, err)
	_, err = m.Create(ctx, "user-1", "Savings", "long term", 500)
	require.NoError(t, err)

	_, _, err = m.Find(ctx, "user-1", "", false, storage.Page{})
	assert.ErrorIs(t, err, core.ErrEmptySearchText)

	total, budgets, err := m.Find(ctx, "user-1", "SPEND", false, storage.Page{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, budgets, 1)
	assert.Equal(t, "Cash", budgets[0].Name)

	total, _, err = m.Find(ctx, "user-1", "SPEND", true, storage.Page{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestBudgetUpdateMergePatch(t *testing.T) {
	m := NewBudgetManager(memory.New())
	ctx := context.Background()

	budget, err := m.Create(ctx, "user-1", "Cash", "daily spending", 100)
	require.NoError(t, err)

	updated, err := m.Update(ctx, "user-1", budget.ID, BudgetPatch{Amount: core.Set(50.0)})
	require.NoError(t, err)
	assert.Equal(t, "Cash", updated.Name)
	assert.Equal(t, "daily spending", updated.Description)
	assert.Equal(t, 50.0, updated.Amount)
	assert.True(t, updated.UpdatedAt.After(budget.UpdatedAt) || !updated.UpdatedAt.Equal(budget.UpdatedAt))

	_, err = m.Update(ctx, "user-1", budget.ID, BudgetPatch{Amount: core.Set(-1.0)})
	assert.ErrorIs(t, err, core.ErrAmountMustBePositive)
}

func TestBudgetUpdateRejectsNullFields(t *testing.T) {
	m := NewBudgetManager(memory.New())
	ctx := context.Background()

	budget, err := m.Create(ctx, "user-1", "Cash", "daily spending", 100)
	require.NoError(t, err)

	var patch struct {
		Name   core.Optional[string]  `json:"name"`
		Amount core.Optional[float64] `json:"amount"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"amount": null, "name": null}`), &patch))

	_, err = m.Update(ctx, "user-1", budget.ID, BudgetPatch{Name: patch.Name, Amount: patch.Amount})
	var nullField *core.FieldCannotBeNullError
	require.ErrorAs(t, err, &nullField)

	// The record must be untouched.
	got, err := m.Get(ctx, "user-1", budget.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cash", got.Name)
	assert.Equal(t, 100.0, got.Amount)
}

func TestBudgetUpdateNoChangeKeepsUpdatedAt(t *testing.T) {
	m := NewBudgetManager(memory.New())
	ctx := context.Background()

	budget, err := m.Create(ctx, "user-1", "Cash", "", 100)
	require.NoError(t, err)

	same, err := m.Update(ctx, "user-1", budget.ID, BudgetPatch{Name: core.Set("Cash")})
	require.NoError(t, err)
	assert.True(t, same.UpdatedAt.Equal(budget.UpdatedAt))

	empty, err := m.Update(ctx, "user-1", budget.ID, BudgetPatch{})
	require.NoError(t, err)
	assert.True(t, empty.UpdatedAt.Equal(budget.UpdatedAt))
}

func TestBudgetDeleteReturnsRecord(t *testing.T) {
	m := NewBudgetManager(memory.New())
	ctx := context.Background()

	budget, err := m.Create(ctx, "user-1", "Cash", "", 100)
	require.NoError(t, err)

	deleted, err := m.Delete(ctx, "user-1", budget.ID)
	require.NoError(t, err)
	assert.Equal(t, budget.ID, deleted.ID)
	assert.Equal(t, "Cash", deleted.Name)

	_, err = m.Get(ctx, "user-1", budget.ID)
	var notExists *core.BudgetNotExistsError
	assert.ErrorAs(t, err, &notExists)
}
