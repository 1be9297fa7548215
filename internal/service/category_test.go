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

func strPtr(s string) *string { return &s }

func TestCategoryCreate(t *testing.T) {
	m := NewCategoryManager(memory.New())
	ctx := context.Background()

	category, err := m.Create(ctx, "user-1", "Food", "groceries", core.CategoryTypeExpense, strPtr("\U0001F355"))
	require.NoError(t, err)
	assert.NotEmpty(t, category.ID)
	assert.Equal(t, core.CategoryTypeExpense, category.Type)
	require.NotNil(t, category.EmojiIcon)
	assert.False(t, category.IsArchived)
}

func TestCategoryCreateEmptyName(t *testing.T) {
	m := NewCategoryManager(memory.New())

	_, err := m.Create(context.Background(), "user-1", "", "", core.CategoryTypeExpense, nil)
	assert.ErrorIs(t, err, core.ErrEmptyCategoryName)
}

func TestCategoryCreateInvalidEmoji(t *testing.T) {
	m := NewCategoryManager(memory.New())

	_, err := m.Create(context.Background(), "user-1", "Food", "", core.CategoryTypeExpense, strPtr("not an emoji"))
	var notEmoji *core.NotEmojiIconError
	require.ErrorAs(t, err, &notEmoji)
	assert.Equal(t, "not an emoji", notEmoji.EmojiIcon)
}

func TestCategoryUniquenessScopedToNameAndType(t *testing.T) {
	m := NewCategoryManager(memory.New())
	ctx := context.Background()

	_, err := m.Create(ctx, "user-1", "Salary", "", core.CategoryTypeExpense, nil)
	require.NoError(t, err)

	_, err = m.Create(ctx, "user-1", "Salary", "", core.CategoryTypeExpense, nil)
	var alreadyExists *core.CategoryAlreadyExistsError
	require.ErrorAs(t, err, &alreadyExists)
	assert.Equal(t, "Salary", alreadyExists.Name)
	assert.Equal(t, core.CategoryTypeExpense, alreadyExists.Type)

	// Same name with a different type is allowed.
	_, err = m.Create(ctx, "user-1", "Salary", "", core.CategoryTypeIncome, nil)
	assert.NoError(t, err)

	// As is the same name under a different owner.
	_, err = m.Create(ctx, "user-2", "Salary", "", core.CategoryTypeExpense, nil)
	assert.NoError(t, err)
}

func TestCategoryOwnership(t *testing.T) {
	m := NewCategoryManager(memory.New())
	ctx := context.Background()

	category, err := m.Create(ctx, "user-1", "Food", "", core.CategoryTypeExpense, nil)
	require.NoError(t, err)

	_, err = m.Get(ctx, "user-2", category.ID)
	assert.ErrorIs(t, err, core.ErrCategoryAccessDenied)

	_, err = m.Update(ctx, "user-2", category.ID, CategoryPatch{Name: core.Set("Stolen")})
	assert.ErrorIs(t, err, core.ErrCategoryAccessDenied)

	_, err = m.Delete(ctx, "user-2", category.ID)
	assert.ErrorIs(t, err, core.ErrCategoryAccessDenied)
}

func TestCategoryListFilters(t *testing.T) {
	m := NewCategoryManager(memory.New())
	ctx := context.Background()

	_, err := m.Create(ctx, "user-1", "Food", "", core.CategoryTypeExpense, nil)
	require.NoError(t, err)
	_, err = m.Create(ctx, "user-1", "Salary", "", core.CategoryTypeIncome, nil)
	require.NoError(t, err)
	archived, err := m.Create(ctx, "user-1", "Old", "", core.CategoryTypeExpense, nil)
	require.NoError(t, err)
	_, err = m.Update(ctx, "user-1", archived.ID, CategoryPatch{IsArchived: core.Set(true)})
	require.NoError(t, err)

	total, _, err := m.List(ctx, "user-1", nil, false, storage.Page{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	total, _, err = m.List(ctx, "user-1", nil, true, storage.Page{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	expenseType := core.CategoryTypeExpense
	total, categories, err := m.List(ctx, "user-1", &expenseType, false, storage.Page{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, categories, 1)
	assert.Equal(t, "Food", categories[0].Name)
}

func TestCategoryUpdateMergePatch(t *testing.T) {
	m := NewCategoryManager(memory.New())
	ctx := context.Background()

	category, err := m.Create(ctx, "user-1", "Food", "groceries", core.CategoryTypeExpense, strPtr("\U0001F355"))
	require.NoError(t, err)

	updated, err := m.Update(ctx, "user-1", category.ID, CategoryPatch{Description: core.Set("weekly groceries")})
	require.NoError(t, err)
	assert.Equal(t, "Food", updated.Name)
	assert.Equal(t, "weekly groceries", updated.Description)
	require.NotNil(t, updated.EmojiIcon)

	// An explicit null clears the icon.
	updated, err = m.Update(ctx, "user-1", category.ID, CategoryPatch{EmojiIcon: core.Set[*string](nil)})
	require.NoError(t, err)
	assert.Nil(t, updated.EmojiIcon)

	_, err = m.Update(ctx, "user-1", category.ID, CategoryPatch{EmojiIcon: core.Set(strPtr("nope"))})
	var notEmoji *core.NotEmojiIconError
	assert.ErrorAs(t, err, &notEmoji)
}

func TestCategoryUpdateNullFields(t *testing.T) {
	m := NewCategoryManager(memory.New())
	ctx := context.Background()

	category, err := m.Create(ctx, "user-1", "Food", "", core.CategoryTypeExpense, strPtr("\U0001F355"))
	require.NoError(t, err)

	var patch struct {
		Name      core.Optional[string]  `json:"name"`
		EmojiIcon core.Optional[*string] `json:"emoji_icon"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"name": null}`), &patch))

	_, err = m.Update(ctx, "user-1", category.ID, CategoryPatch{Name: patch.Name})
	var nullField *core.FieldCannotBeNullError
	require.ErrorAs(t, err, &nullField)
	assert.Equal(t, "name", nullField.Field)

	// A null emoji icon is the one valid null: it clears the icon.
	patch.Name = core.Optional[string]{}
	require.NoError(t, json.Unmarshal([]byte(`{"emoji_icon": null}`), &patch))
	updated, err := m.Update(ctx, "user-1", category.ID, CategoryPatch{EmojiIcon: patch.EmojiIcon})
	require.NoError(t, err)
	assert.Nil(t, updated.EmojiIcon)
	assert.Equal(t, "Food", updated.Name)
}

func TestCategoryUpdateNoChangeKeepsUpdatedAt(t *testing.T) {
	m := NewCategoryManager(memory.New())
	ctx := context.Background()

	category, err := m.Create(ctx, "user-1", "Food", "", core.CategoryTypeExpense, nil)
	require.NoError(t, err)

	same, err := m.Update(ctx, "user-1", category.ID, CategoryPatch{Name: core.Set("Food")})
	require.NoError(t, err)
	assert.True(t, same.UpdatedAt.Equal(category.UpdatedAt))
}

func TestCategoryFind(t *testing.T) {
	m := NewCategoryManager(memory.New())
	ctx := context.Background()

	_, err := m.Create(ctx, "user-1", "Food", "weekly groceries", core.CategoryTypeExpense, nil)
	require.NoError(t, err)

	_, _, err = m.Find(ctx, "user-1", "", false, storage.Page{})
	assert.ErrorIs(t, err, core.ErrEmptySearchText)

	total, categories, err := m.Find(ctx, "user-1", "GROC", false, storage.Page{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, categories, 1)
	assert.Equal(t, "Food", categories[0].Name)
}

func TestCategoryDeleteReturnsRecord(t *testing.T) {
	m := NewCategoryManager(memory.New())
	ctx := context.Background()

	category, err := m.Create(ctx, "user-1", "Food", "", core.CategoryTypeExpense, nil)
	require.NoError(t, err)

	deleted, err := m.Delete(ctx, "user-1", category.ID)
	require.NoError(t, err)
	assert.Equal(t, category.ID, deleted.ID)

	_, err = m.Get(ctx, "user-1", category.ID)
	var notExists *core.CategoryNotExistsError
	assert.ErrorAs(t, err, &notExists)
}
