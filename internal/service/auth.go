// Package service implements the use-case layer: one manager per entity that
// validates input, enforces ownership, and orchestrates repository calls.
// Managers hold an injected store and carry no state of their own.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/artempelyovin/rashodomer-be/internal/auth"
	"github.com/artempelyovin/rashodomer-be/internal/core"
	"github.com/artempelyovin/rashodomer-be/internal/storage"
)

type AuthManager struct {
	store storage.Store
}

func NewAuthManager(store storage.Store) *AuthManager {
	return &AuthManager{store: store}
}

// Register creates a new account. The login must be unused and the password
// must be at least MinPasswordLength characters with at least one special
// character.
func (m *AuthManager) Register(ctx context.Context, firstName, lastName, login, password string) (*core.User, error) {
	existing, err := m.store.Users().FindByLogin(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("lookup login: %w", err)
	}
	if existing != nil {
		return nil, &core.LoginAlreadyExistsError{Login: login}
	}

	if len(password) < auth.MinPasswordLength {
		return nil, &core.PasswordTooShortError{MinLength: auth.MinPasswordLength}
	}
	if !auth.HasSpecialCharacter(password) {
		return nil, core.ErrPasswordMissingSpecialCharacter
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := core.NewUser(firstName, lastName, login, hash)
	if err := m.store.Users().Add(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}

	slog.InfoContext(ctx, "User registered", "user_id", user.ID, "login", user.Login)
	return user, nil
}

// Login verifies credentials, updates last_login and issues a fresh token.
// Issuing replaces the user's previous token, so only one is live at a time.
func (m *AuthManager) Login(ctx context.Context, login, password string) (string, error) {
	user, err := m.store.Users().FindByLogin(ctx, login)
	if err != nil {
		return "", fmt.Errorf("lookup login: %w", err)
	}
	if user == nil {
		return "", &core.LoginNotExistsError{Login: login}
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", core.ErrIncorrectPassword
	}

	if err := m.store.Users().UpdateLastLogin(ctx, user.ID, core.UTCNow()); err != nil {
		return "", fmt.Errorf("update last login: %w", err)
	}

	token := auth.GenerateToken()
	if err := m.store.Tokens().Create(ctx, user.ID, token); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}

	slog.InfoContext(ctx, "User logged in", "user_id", user.ID, "login", user.Login)
	return token, nil
}

// Authenticate resolves a bearer token to its user. An unknown token fails
// with ErrUnauthorized; a token pointing at a vanished user surfaces the
// integrity problem as UserNotExistsError.
func (m *AuthManager) Authenticate(ctx context.Context, token string) (*core.User, error) {
	if token == "" {
		return nil, core.ErrUnauthorized
	}

	userID, err := m.store.Tokens().UserIDByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("lookup token: %w", err)
	}
	if userID == "" {
		return nil, core.ErrUnauthorized
	}

	user, err := m.store.Users().Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, &core.UserNotExistsError{UserID: userID}
	}
	return user, nil
}
