package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"expensetracker/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository holds the connection pool for the users and expenses
// tables. Every method acquires a pooled connection for the duration of
// the call; nothing is cached between calls.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Enforce FKs so expenses can never outlive their owner
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:  db,
		now: time.Now,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping verifies the database connection is still alive. The readiness
// endpoint reports not-ready when this fails.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// CreateUser inserts a new account and returns its id. The username
// carries a UNIQUE constraint, reported as core.ErrDuplicateUsername.
func (r *SQLiteRepository) CreateUser(ctx context.Context, username, passwordHash string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password) VALUES (?, ?)`,
		username, passwordHash)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, core.ErrDuplicateUsername
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert user id: %w", err)
	}

	slog.InfoContext(ctx, "User created", "id", id, "username", username)
	return id, nil
}

// GetUserByUsername returns the full account row, including the stored
// credential hash, or core.ErrUnknownUser when no row matches.
func (r *SQLiteRepository) GetUserByUsername(ctx context.Context, username string) (core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password FROM users WHERE username = ?`,
		username).Scan(&u.ID, &u.Username, &u.Password)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.User{}, core.ErrUnknownUser
		}
		return core.User{}, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}

// UserIDByUsername resolves the textual username to the internal user
// id. Every scoped expense operation starts here.
func (r *SQLiteRepository) UserIDByUsername(ctx context.Context, username string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM users WHERE username = ?`,
		username).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, core.ErrUnknownUser
		}
		return 0, fmt.Errorf("resolve user id: %w", err)
	}
	return id, nil
}

// InsertExpense records a new expense for the given user. The recorded
// date is assigned here from the store-side clock, never by the caller.
func (r *SQLiteRepository) InsertExpense(ctx context.Context, userID int64, amount core.Money, category, description string) (core.Expense, error) {
	date := r.now().Format(core.DateLayout)

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (user_id, amount_cents, category, description, date) VALUES (?, ?, ?, ?, ?)`,
		userID, amount.Cents, category, description, date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense rows affected: %w", err)
	}
	if rows == 0 {
		return core.Expense{}, fmt.Errorf("insert expense: no row written")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense id: %w", err)
	}

	recorded, _ := time.Parse(core.DateLayout, date)

	slog.InfoContext(ctx, "Expense saved",
		"id", id,
		"user_id", userID,
		"amount_cents", amount.Cents,
		"category", category)

	return core.Expense{
		ID:          id,
		UserID:      userID,
		Amount:      amount,
		Category:    category,
		Description: description,
		Date:        recorded,
	}, nil
}

// ListExpensesByUser returns every expense owned by the user in
// store-native order.
func (r *SQLiteRepository) ListExpensesByUser(ctx context.Context, userID int64) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, amount_cents, category, description, date FROM expenses WHERE user_id = ?`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("select expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		var (
			e       core.Expense
			rawDate string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount.Cents, &e.Category, &e.Description, &rawDate); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if d, err := time.Parse(core.DateLayout, rawDate); err == nil {
			e.Date = d
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}

	return expenses, nil
}

// UpdateExpense rewrites amount, category and description in place.
// Date and owner are untouched. The owner id predicate keeps one user
// from editing another user's rows by guessing an id; a non-existent or
// non-owned row is core.ErrExpenseNotFound.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, id, userID int64, amount core.Money, category, description string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET amount_cents = ?, category = ?, description = ? WHERE id = ? AND user_id = ?`,
		amount.Cents, category, description, id, userID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update expense rows affected: %w", err)
	}
	if rows == 0 {
		return core.ErrExpenseNotFound
	}

	slog.InfoContext(ctx, "Expense updated", "id", id, "user_id", userID)
	return nil
}

// DeleteExpense removes one owned row; same ownership predicate as
// UpdateExpense.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = ? AND user_id = ?`,
		id, userID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense rows affected: %w", err)
	}
	if rows == 0 {
		return core.ErrExpenseNotFound
	}

	slog.InfoContext(ctx, "Expense deleted", "id", id, "user_id", userID)
	return nil
}

// CountUsers reports the number of accounts.
func (r *SQLiteRepository) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// isUniqueViolation detects the sqlite UNIQUE constraint error without
// tying the repository to driver-internal error codes.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
