package core

import (
	"errors"
	"testing"
)

func TestValidateCredentials(t *testing.T) {
	cases := []struct {
		name     string
		username string
		secret   string
		wantErr  error
	}{
		{"both filled", "alice", "pw1", nil},
		{"empty username", "", "pw1", ErrEmptyInput},
		{"empty secret", "alice", "", ErrEmptyInput},
		{"both empty", "", "", ErrEmptyInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateCredentials(tc.username, tc.secret)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestValidateExpenseInput(t *testing.T) {
	cases := []struct {
		name     string
		amount   string
		category string
		wantErr  error
	}{
		{"both filled", "12.50", "Food", nil},
		{"blank amount", "", "Food", ErrMissingField},
		{"whitespace amount", "   ", "Food", ErrMissingField},
		{"blank category", "12.50", "", ErrMissingField},
		{"whitespace category", "12.50", "  ", ErrMissingField},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateExpenseInput(tc.amount, tc.category)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestSessionValidate(t *testing.T) {
	if err := NewSession("alice").Validate(); err != nil {
		t.Fatalf("valid session rejected: %v", err)
	}
	if err := (Session{}).Validate(); !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("empty session expected ErrUnknownUser, got %v", err)
	}
	if err := (Session{Username: "  "}).Validate(); !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("blank session expected ErrUnknownUser, got %v", err)
	}
}
