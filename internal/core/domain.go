package core

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used throughout the store.
const DateLayout = "2006-01-02"

type (
	// Money is a currency amount in integer cents.
	Money struct {
		Cents int64
	}

	// User is an account row. Password holds the bcrypt hash, never the
	// raw secret.
	User struct {
		ID       int64
		Username string
		Password string
	}

	// Session is the authenticated username carried from login to every
	// scoped expense operation. It is not a token and has no expiry.
	Session struct {
		Username string
	}

	// Expense is one recorded expense. Date and UserID are immutable
	// after creation; Amount, Category and Description may be edited.
	Expense struct {
		ID          int64
		UserID      int64
		Amount      Money
		Category    string
		Description string
		Date        time.Time
	}
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmptyInput         = errors.New("username and password cannot be empty")
	ErrMissingField       = errors.New("amount and category cannot be empty")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrUnknownUser        = errors.New("unknown user")
	ErrExpenseNotFound    = errors.New("expense not found")
	ErrStoreUnavailable   = errors.New("store unavailable")
)

// NewSession binds a session to an authenticated username.
func NewSession(username string) Session {
	return Session{Username: username}
}

func (s Session) Validate() error {
	if strings.TrimSpace(s.Username) == "" {
		return ErrUnknownUser
	}
	return nil
}

// ValidateCredentials rejects blank registration input. Login does not
// call this: a blank field simply never matches a row.
func ValidateCredentials(username, secret string) error {
	if username == "" || secret == "" {
		return ErrEmptyInput
	}
	return nil
}

// ValidateExpenseInput checks the required text fields before any
// parsing or write is attempted. Description is optional.
func ValidateExpenseInput(amountText, category string) error {
	if strings.TrimSpace(amountText) == "" || strings.TrimSpace(category) == "" {
		return ErrMissingField
	}
	return nil
}
