package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"expensetracker/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create test repository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestCreateUser_Duplicate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.CreateUser(ctx, "alice", "hash1"); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := repo.CreateUser(ctx, "alice", "hash2")
	if !errors.Is(err, core.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}

	count, err := repo.CountUsers(ctx)
	if err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Fatalf("user count expected 1 after rejected duplicate, got %d", count)
	}
}

func TestGetUserByUsername(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.CreateUser(ctx, "alice", "somehash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	user, err := repo.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.ID != id || user.Username != "alice" || user.Password != "somehash" {
		t.Fatalf("unexpected user row: %+v", user)
	}

	// Lookup is exact and case-sensitive
	if _, err := repo.GetUserByUsername(ctx, "Alice"); !errors.Is(err, core.ErrUnknownUser) {
		t.Fatalf("expected ErrUnknownUser for case mismatch, got %v", err)
	}
	if _, err := repo.GetUserByUsername(ctx, "ghost"); !errors.Is(err, core.ErrUnknownUser) {
		t.Fatalf("expected ErrUnknownUser, got %v", err)
	}
}

func TestUserIDByUsername(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.CreateUser(ctx, "bob", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	got, err := repo.UserIDByUsername(ctx, "bob")
	if err != nil {
		t.Fatalf("resolve id: %v", err)
	}
	if got != id {
		t.Fatalf("expected id %d, got %d", id, got)
	}

	if _, err := repo.UserIDByUsername(ctx, "nobody"); !errors.Is(err, core.ErrUnknownUser) {
		t.Fatalf("expected ErrUnknownUser, got %v", err)
	}
}

func TestInsertExpense_DefaultsToToday(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	fixed := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }

	userID, err := repo.CreateUser(ctx, "alice", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	expense, err := repo.InsertExpense(ctx, userID, core.Money{Cents: 1250}, "Food", "lunch")
	if err != nil {
		t.Fatalf("insert expense: %v", err)
	}

	if expense.ID == 0 {
		t.Error("expected store-assigned id")
	}
	if expense.UserID != userID {
		t.Errorf("owner expected %d, got %d", userID, expense.UserID)
	}
	if expense.Amount.Cents != 1250 {
		t.Errorf("amount expected 1250 cents, got %d", expense.Amount.Cents)
	}
	if got := expense.Date.Format(core.DateLayout); got != "2024-03-15" {
		t.Errorf("date expected 2024-03-15, got %s", got)
	}

	listed, err := repo.ListExpensesByUser(ctx, userID)
	if err != nil {
		t.Fatalf("list expenses: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 expense, got %d", len(listed))
	}
	got := listed[0]
	if got.Category != "Food" || got.Description != "lunch" || got.Amount.Cents != 1250 {
		t.Fatalf("unexpected row: %+v", got)
	}
	if got.Date.Format(core.DateLayout) != "2024-03-15" {
		t.Fatalf("listed date expected 2024-03-15, got %s", got.Date.Format(core.DateLayout))
	}
}

func TestListExpensesByUser_ScopedToOwner(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	aliceID, _ := repo.CreateUser(ctx, "alice", "h1")
	bobID, _ := repo.CreateUser(ctx, "bob", "h2")

	if _, err := repo.InsertExpense(ctx, aliceID, core.Money{Cents: 100}, "Food", ""); err != nil {
		t.Fatalf("insert for alice: %v", err)
	}
	if _, err := repo.InsertExpense(ctx, bobID, core.Money{Cents: 200}, "Travel", ""); err != nil {
		t.Fatalf("insert for bob: %v", err)
	}

	aliceRows, err := repo.ListExpensesByUser(ctx, aliceID)
	if err != nil {
		t.Fatalf("list alice: %v", err)
	}
	if len(aliceRows) != 1 || aliceRows[0].Category != "Food" {
		t.Fatalf("alice should only see her own row, got %+v", aliceRows)
	}
}

func TestUpdateExpense(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	aliceID, _ := repo.CreateUser(ctx, "alice", "h1")
	bobID, _ := repo.CreateUser(ctx, "bob", "h2")

	expense, err := repo.InsertExpense(ctx, aliceID, core.Money{Cents: 1250}, "Food", "lunch")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := repo.UpdateExpense(ctx, expense.ID, aliceID, core.Money{Cents: 2000}, "Food", "lunch updated"); err != nil {
		t.Fatalf("update: %v", err)
	}

	rows, _ := repo.ListExpensesByUser(ctx, aliceID)
	if len(rows) != 1 || rows[0].Amount.Cents != 2000 || rows[0].Description != "lunch updated" {
		t.Fatalf("update not applied: %+v", rows)
	}
	// Date is immutable through update
	if rows[0].Date.IsZero() {
		t.Fatal("date lost on update")
	}

	// Non-existent row
	if err := repo.UpdateExpense(ctx, 9999, aliceID, core.Money{Cents: 1}, "x", ""); !errors.Is(err, core.ErrExpenseNotFound) {
		t.Fatalf("expected ErrExpenseNotFound, got %v", err)
	}

	// Another user's row is invisible to the owner predicate
	if err := repo.UpdateExpense(ctx, expense.ID, bobID, core.Money{Cents: 1}, "hijack", ""); !errors.Is(err, core.ErrExpenseNotFound) {
		t.Fatalf("expected ErrExpenseNotFound for foreign row, got %v", err)
	}
	rows, _ = repo.ListExpensesByUser(ctx, aliceID)
	if rows[0].Amount.Cents != 2000 {
		t.Fatal("foreign update must not alter the row")
	}
}

func TestDeleteExpense(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	aliceID, _ := repo.CreateUser(ctx, "alice", "h1")
	bobID, _ := repo.CreateUser(ctx, "bob", "h2")

	expense, err := repo.InsertExpense(ctx, aliceID, core.Money{Cents: 500}, "Food", "")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	// Foreign delete sees nothing
	if err := repo.DeleteExpense(ctx, expense.ID, bobID); !errors.Is(err, core.ErrExpenseNotFound) {
		t.Fatalf("expected ErrExpenseNotFound for foreign row, got %v", err)
	}

	if err := repo.DeleteExpense(ctx, expense.ID, aliceID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	rows, _ := repo.ListExpensesByUser(ctx, aliceID)
	if len(rows) != 0 {
		t.Fatalf("expected empty list after delete, got %d rows", len(rows))
	}

	// Deleting the same id twice is NotFound the second time
	if err := repo.DeleteExpense(ctx, expense.ID, aliceID); !errors.Is(err, core.ErrExpenseNotFound) {
		t.Fatalf("expected ErrExpenseNotFound on second delete, got %v", err)
	}
}
