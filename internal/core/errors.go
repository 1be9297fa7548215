package core

import (
	"errors"
	"fmt"
	"time"
)

// Validation and ownership failures are typed so the HTTP boundary can map
// them to statuses with errors.Is/As. Errors that carry no context are plain
// sentinels; the rest are small structs holding what the message needs.

var (
	ErrIncorrectPassword               = errors.New("incorrect password")
	ErrPasswordMissingSpecialCharacter = errors.New("password is missing special character")
	ErrAmountMustBePositive            = errors.New("amount must be positive")
	ErrBudgetAccessDenied              = errors.New("attempt to access another user's budget")
	ErrCategoryAccessDenied            = errors.New("attempt to access another user's category")
	ErrTransactionAccessDenied         = errors.New("attempt to access another user's transaction")
	ErrUnauthorized                    = errors.New("authentication failed")
	ErrEmptySearchText                 = errors.New("search text cannot be empty")
	ErrEmptyCategoryName               = errors.New("category name cannot be empty")
)

type FieldCannotBeNullError struct {
	Field string
}

func (e *FieldCannotBeNullError) Error() string {
	return fmt.Sprintf("field %q cannot be null", e.Field)
}

type LoginAlreadyExistsError struct {
	Login string
}

func (e *LoginAlreadyExistsError) Error() string {
	return fmt.Sprintf("login %q already exists", e.Login)
}

type LoginNotExistsError struct {
	Login string
}

func (e *LoginNotExistsError) Error() string {
	return fmt.Sprintf("login %q does not exist", e.Login)
}

type UserNotExistsError struct {
	UserID string
}

func (e *UserNotExistsError) Error() string {
	return fmt.Sprintf("user with ID %q does not exist", e.UserID)
}

type PasswordTooShortError struct {
	MinLength int
}

func (e *PasswordTooShortError) Error() string {
	return fmt.Sprintf("password is too short, it must be at least %d characters long", e.MinLength)
}

type BudgetAlreadyExistsError struct {
	Name string
}

func (e *BudgetAlreadyExistsError) Error() string {
	return fmt.Sprintf("a budget with the name %q already exists", e.Name)
}

type BudgetNotExistsError struct {
	BudgetID string
}

func (e *BudgetNotExistsError) Error() string {
	return fmt.Sprintf("budget with ID %q does not exist", e.BudgetID)
}

type NotEmojiIconError struct {
	EmojiIcon string
}

func (e *NotEmojiIconError) Error() string {
	return fmt.Sprintf("the provided icon %q is not a valid emoji", e.EmojiIcon)
}

type CategoryAlreadyExistsError struct {
	Name string
	Type CategoryType
}

func (e *CategoryAlreadyExistsError) Error() string {
	return fmt.Sprintf("a category with the name %q and type %q already exists", e.Name, e.Type)
}

type CategoryNotExistsError struct {
	CategoryID string
}

func (e *CategoryNotExistsError) Error() string {
	return fmt.Sprintf("category with ID %q does not exist", e.CategoryID)
}

type TransactionNotExistsError struct {
	TransactionID string
}

func (e *TransactionNotExistsError) Error() string {
	return fmt.Sprintf("transaction with ID %q does not exist", e.TransactionID)
}

type TimestampInFutureError struct {
	Timestamp time.Time
	Now       time.Time
}

func (e *TimestampInFutureError) Error() string {
	return fmt.Sprintf("timestamp %s is in the future (current time %s)",
		e.Timestamp.Format(time.RFC3339), e.Now.Format(time.RFC3339))
}

type UnsupportedTransactionTypeError struct {
	Type CategoryType
}

func (e *UnsupportedTransactionTypeError) Error() string {
	return fmt.Sprintf("unsupported transaction type %q", e.Type)
}
