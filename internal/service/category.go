package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/forPelevin/gomoji"

	"github.com/artempelyovin/rashodomer-be/internal/core"
	"github.com/artempelyovin/rashodomer-be/internal/storage"
)

type CategoryManager struct {
	store storage.Store
}

func NewCategoryManager(store storage.Store) *CategoryManager {
	return &CategoryManager{store: store}
}

// CategoryPatch is a merge-patch payload. EmojiIcon distinguishes "not
// provided" from an explicit null, which clears the icon.
type CategoryPatch struct {
	Name        core.Optional[string]
	Description core.Optional[string]
	Type        core.Optional[core.CategoryType]
	IsArchived  core.Optional[bool]
	EmojiIcon   core.Optional[*string]
}

// validateEmojiIcon accepts exactly one recognized emoji.
func validateEmojiIcon(icon string) error {
	if _, err := gomoji.GetInfo(icon); err != nil {
		return &core.NotEmojiIconError{EmojiIcon: icon}
	}
	return nil
}

func (m *CategoryManager) Create(ctx context.Context, userID, name, description string, categoryType core.CategoryType, emojiIcon *string) (*core.Category, error) {
	if name == "" {
		return nil, core.ErrEmptyCategoryName
	}
	if emojiIcon != nil {
		if err := validateEmojiIcon(*emojiIcon); err != nil {
			return nil, err
		}
	}

	existing, err := m.store.Categories().FindByNameAndType(ctx, userID, name, categoryType)
	if err != nil {
		return nil, fmt.Errorf("lookup category name: %w", err)
	}
	if len(existing) > 0 {
		return nil, &core.CategoryAlreadyExistsError{Name: name, Type: categoryType}
	}

	category := core.NewCategory(name, description, categoryType, emojiIcon, userID)
	if err := m.store.Categories().Add(ctx, category); err != nil {
		return nil, fmt.Errorf("save category: %w", err)
	}

	slog.InfoContext(ctx, "Category created", "category_id", category.ID, "user_id", userID, "type", category.Type)
	return category, nil
}

func (m *CategoryManager) Get(ctx context.Context, userID, categoryID string) (*core.Category, error) {
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
	return category, nil
}

// List filters the caller's categories by exact type when categoryType is
// non-nil. Archived categories are excluded unless showArchived.
func (m *CategoryManager) List(ctx context.Context, userID string, categoryType *core.CategoryType, showArchived bool, page storage.Page) (int, []*core.Category, error) {
	return m.store.Categories().List(ctx, userID, categoryType, showArchived, page)
}

func (m *CategoryManager) Find(ctx context.Context, userID, text string, caseSensitive bool, page storage.Page) (int, []*core.Category, error) {
	if text == "" {
		return 0, nil, core.ErrEmptySearchText
	}
	return m.store.Categories().FindByText(ctx, userID, text, caseSensitive, page)
}

func (m *CategoryManager) Update(ctx context.Context, userID, categoryID string, patch CategoryPatch) (*core.Category, error) {
	category, err := m.Get(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}

	// Only the emoji icon can be null (clearing it); the rest cannot.
	switch {
	case patch.Name.IsNull():
		return nil, &core.FieldCannotBeNullError{Field: "name"}
	case patch.Description.IsNull():
		return nil, &core.FieldCannotBeNullError{Field: "description"}
	case patch.Type.IsNull():
		return nil, &core.FieldCannotBeNullError{Field: "type"}
	case patch.IsArchived.IsNull():
		return nil, &core.FieldCannotBeNullError{Field: "is_archived"}
	}

	if icon, ok := patch.EmojiIcon.Get(); ok && icon != nil {
		if err := validateEmojiIcon(*icon); err != nil {
			return nil, err
		}
	}

	changed := false
	if name, ok := patch.Name.Get(); ok && name != category.Name {
		category.Name = name
		changed = true
	}
	if description, ok := patch.Description.Get(); ok && description != category.Description {
		category.Description = description
		changed = true
	}
	if categoryType, ok := patch.Type.Get(); ok && categoryType != category.Type {
		category.Type = categoryType
		changed = true
	}
	if isArchived, ok := patch.IsArchived.Get(); ok && isArchived != category.IsArchived {
		category.IsArchived = isArchived
		changed = true
	}
	if icon, ok := patch.EmojiIcon.Get(); ok && !equalIcon(icon, category.EmojiIcon) {
		category.EmojiIcon = icon
		changed = true
	}

	if !changed {
		return category, nil
	}

	category.UpdatedAt = core.UTCNow()
	if err := m.store.Categories().Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	slog.InfoContext(ctx, "Category updated", "category_id", category.ID, "user_id", userID)
	return category, nil
}

func equalIcon(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Delete removes the category and returns the record as it was before
// removal.
func (m *CategoryManager) Delete(ctx context.Context, userID, categoryID string) (*core.Category, error) {
	category, err := m.Get(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}

	if err := m.store.Categories().Delete(ctx, categoryID); err != nil {
		return nil, fmt.Errorf("delete category: %w", err)
	}

	slog.InfoContext(ctx, "Category deleted", "category_id", categoryID, "user_id", userID)
	return category, nil
}
