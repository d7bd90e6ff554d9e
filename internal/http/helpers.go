package http

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"expensetracker/internal/core"
)

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// parseExpenseID extracts the expense row id from a form field.
func parseExpenseID(form string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(form), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid expense id %q", form)
	}
	return id, nil
}

// extractClientIP extracts the real client IP, trusting forwarding
// headers only from loopback/private sources.
func extractClientIP(r *http.Request) string {
	directIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		directIP = r.RemoteAddr
	}

	parsed := net.ParseIP(directIP)
	if parsed == nil {
		return directIP
	}

	if parsed.IsLoopback() || parsed.IsPrivate() {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first := strings.TrimSpace(strings.Split(xff, ",")[0])
			if net.ParseIP(first) != nil {
				return first
			}
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			if net.ParseIP(xri) != nil {
				return xri
			}
		}
	}

	return directIP
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// errorMessage maps a service failure to the message the dashboard or
// login form renders. Every taxonomy kind has a message; anything else
// is a store failure and carries the diagnostic for display.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidCredentials):
		return "Invalid Credentials!"
	case errors.Is(err, core.ErrEmptyInput):
		return "Username and Password cannot be empty!"
	case errors.Is(err, core.ErrDuplicateUsername):
		return "Username already exists!"
	case errors.Is(err, core.ErrMissingField):
		return "Amount and Category cannot be empty!"
	case errors.Is(err, core.ErrInvalidAmount):
		return "Invalid amount entered!"
	case errors.Is(err, core.ErrUnknownUser):
		return "Session expired. Please login again."
	case errors.Is(err, core.ErrExpenseNotFound):
		return "Expense not found."
	default:
		return "Database error: " + err.Error()
	}
}

// errorStatus picks the HTTP status for a service failure.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidCredentials), errors.Is(err, core.ErrUnknownUser):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrEmptyInput), errors.Is(err, core.ErrMissingField), errors.Is(err, core.ErrInvalidAmount):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrDuplicateUsername):
		return http.StatusConflict
	case errors.Is(err, core.ErrExpenseNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
