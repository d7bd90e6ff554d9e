package services

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"expensetracker/internal/core"
	"expensetracker/internal/storage"
)

// AuthService gates access to the expense store by validating or
// creating accounts. Each call is a stateless request against storage.
type AuthService struct {
	storage    *storage.SQLiteRepository
	bcryptCost int
}

func NewAuthService(storage *storage.SQLiteRepository, bcryptCost int) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		storage:    storage,
		bcryptCost: bcryptCost,
	}
}

// Login validates the username/secret pair and returns a session bound
// to the username. Any mismatch, including an unknown username, is
// core.ErrInvalidCredentials: the caller learns nothing about which
// half failed.
func (s *AuthService) Login(ctx context.Context, username, secret string) (core.Session, error) {
	user, err := s.storage.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, core.ErrUnknownUser) {
			return core.Session{}, core.ErrInvalidCredentials
		}
		return core.Session{}, storeErr(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(secret)); err != nil {
		return core.Session{}, core.ErrInvalidCredentials
	}

	slog.InfoContext(ctx, "Login successful", "username", username)
	return core.NewSession(username), nil
}

// Register creates a new account. Both fields must be non-empty and the
// username must be unused. The secret is stored as a salted bcrypt
// hash; the raw value never reaches the database.
func (s *AuthService) Register(ctx context.Context, username, secret string) error {
	if err := core.ValidateCredentials(username, secret); err != nil {
		return err
	}

	// Uniqueness check first so the common collision gets the domain
	// error even before the UNIQUE constraint backstop fires.
	_, err := s.storage.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		return core.ErrDuplicateUsername
	case !errors.Is(err, core.ErrUnknownUser):
		return storeErr(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), s.bcryptCost)
	if err != nil {
		return storeErr(err)
	}

	if _, err := s.storage.CreateUser(ctx, username, string(hash)); err != nil {
		if errors.Is(err, core.ErrDuplicateUsername) {
			return core.ErrDuplicateUsername
		}
		return storeErr(err)
	}

	slog.InfoContext(ctx, "User registered", "username", username)
	return nil
}
