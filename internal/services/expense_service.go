package services

import (
	"context"
	"log/slog"
	"strings"

	"expensetracker/internal/core"
	"expensetracker/internal/storage"
)

// ExpenseService performs scoped CRUD over expense rows for the user a
// session identifies. Every operation resolves the session's username
// to the internal user id before touching expense rows, so visibility
// and mutation stay restricted to that user.
type ExpenseService struct {
	storage *storage.SQLiteRepository
}

func NewExpenseService(storage *storage.SQLiteRepository) *ExpenseService {
	return &ExpenseService{
		storage: storage,
	}
}

// Ping reports whether the backing store is reachable. The readiness
// endpoint calls this so a broken pool turns the process not-ready.
func (s *ExpenseService) Ping(ctx context.Context) error {
	if err := s.storage.Ping(ctx); err != nil {
		return storeErr(err)
	}
	return nil
}

// List returns every expense owned by the session's user, in
// store-native order.
func (s *ExpenseService) List(ctx context.Context, session core.Session) ([]core.Expense, error) {
	userID, err := s.resolve(ctx, session)
	if err != nil {
		return nil, err
	}

	expenses, err := s.storage.ListExpensesByUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	return expenses, nil
}

// Add validates the form input, parses the amount and inserts one row
// with today's date. Validation runs before the write: invalid input
// never reaches the store.
func (s *ExpenseService) Add(ctx context.Context, session core.Session, amountText, category, description string) (core.Expense, error) {
	amount, category, description, err := parseExpenseInput(amountText, category, description)
	if err != nil {
		return core.Expense{}, err
	}

	userID, err := s.resolve(ctx, session)
	if err != nil {
		return core.Expense{}, err
	}

	expense, err := s.storage.InsertExpense(ctx, userID, amount, category, description)
	if err != nil {
		return core.Expense{}, storeErr(err)
	}

	return expense, nil
}

// Edit rewrites amount, category and description of one owned row.
// Date and owner are immutable. A row that does not exist, or belongs
// to another user, is core.ErrExpenseNotFound.
func (s *ExpenseService) Edit(ctx context.Context, session core.Session, id int64, amountText, category, description string) error {
	amount, category, description, err := parseExpenseInput(amountText, category, description)
	if err != nil {
		return err
	}

	userID, err := s.resolve(ctx, session)
	if err != nil {
		return err
	}

	if err := s.storage.UpdateExpense(ctx, id, userID, amount, category, description); err != nil {
		return storeErr(err)
	}
	return nil
}

// Delete removes one owned row. Confirmation belongs to the
// presentation layer; once called the delete is unconditional.
func (s *ExpenseService) Delete(ctx context.Context, session core.Session, id int64) error {
	userID, err := s.resolve(ctx, session)
	if err != nil {
		return err
	}

	if err := s.storage.DeleteExpense(ctx, id, userID); err != nil {
		return storeErr(err)
	}

	slog.InfoContext(ctx, "Expense removed", "id", id, "username", session.Username)
	return nil
}

// resolve maps the session's username to the internal user id. A
// username that no longer resolves (account deleted underneath a live
// session) is core.ErrUnknownUser rather than an empty result.
func (s *ExpenseService) resolve(ctx context.Context, session core.Session) (int64, error) {
	if err := session.Validate(); err != nil {
		return 0, err
	}

	userID, err := s.storage.UserIDByUsername(ctx, session.Username)
	if err != nil {
		return 0, storeErr(err)
	}
	return userID, nil
}

// parseExpenseInput runs the shared add/edit validation: required
// fields first, then the numeric parse. Returns the trimmed fields.
func parseExpenseInput(amountText, category, description string) (core.Money, string, string, error) {
	if err := core.ValidateExpenseInput(amountText, category); err != nil {
		return core.Money{}, "", "", err
	}

	cents, err := core.ParseDecimalToCents(amountText)
	if err != nil {
		return core.Money{}, "", "", err
	}

	return core.Money{Cents: cents}, strings.TrimSpace(category), strings.TrimSpace(description), nil
}
