package http

import (
	"log/slog"
	"net/http"

	"expensetracker/internal/core"
)

// dashboardPage is the data the dashboard template renders.
type dashboardPage struct {
	Username string
	Expenses []core.Expense
	Error    string
	Message  string
}

// flash codes carried on the redirect back to the dashboard after a
// successful write.
var flashMessages = map[string]string{
	"added":   "Expense added successfully!",
	"updated": "Expense updated successfully!",
	"deleted": "Expense deleted successfully!",
}

// requireSession resolves the cookie to a session or bounces the
// browser back to the login form.
func (s *Server) requireSession(w http.ResponseWriter, r *http.Request) (core.Session, bool) {
	session, _, ok := s.sessions.sessionFromRequest(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return core.Session{}, false
	}
	return session, true
}

func (s *Server) renderDashboard(w http.ResponseWriter, r *http.Request, status int, page dashboardPage) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, "dashboard.html", page); err != nil {
		slog.ErrorContext(r.Context(), "Dashboard template execution failed", "error", err)
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	session, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	expenses, err := s.expenses.List(r.Context(), session)
	if err != nil {
		slog.ErrorContext(r.Context(), "Expense list error", "error", err, "username", session.Username)
		s.renderDashboard(w, r, errorStatus(err), dashboardPage{
			Username: session.Username,
			Error:    errorMessage(err),
		})
		return
	}

	page := dashboardPage{
		Username: session.Username,
		Expenses: expenses,
		Message:  flashMessages[r.URL.Query().Get("msg")],
	}
	s.renderDashboard(w, r, http.StatusOK, page)
}

// dashboardError re-renders the dashboard with the current list and the
// failure message, so a validation error never loses the table.
func (s *Server) dashboardError(w http.ResponseWriter, r *http.Request, session core.Session, failure error) {
	expenses, err := s.expenses.List(r.Context(), session)
	if err != nil {
		expenses = nil
	}
	s.renderDashboard(w, r, errorStatus(failure), dashboardPage{
		Username: session.Username,
		Expenses: expenses,
		Error:    errorMessage(failure),
	})
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	session, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	amount := sanitizeInput(r.Form.Get("amount"))
	category := sanitizeInput(r.Form.Get("category"))
	description := sanitizeInput(r.Form.Get("description"))

	if _, err := s.expenses.Add(r.Context(), session, amount, category, description); err != nil {
		slog.WarnContext(r.Context(), "Expense add failed", "error", err, "username", session.Username)
		s.dashboardError(w, r, session, err)
		return
	}

	http.Redirect(w, r, "/dashboard?msg=added", http.StatusSeeOther)
}

func (s *Server) handleEditExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	session, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	id, err := parseExpenseID(r.Form.Get("id"))
	if err != nil {
		s.dashboardError(w, r, session, core.ErrExpenseNotFound)
		return
	}

	amount := sanitizeInput(r.Form.Get("amount"))
	category := sanitizeInput(r.Form.Get("category"))
	description := sanitizeInput(r.Form.Get("description"))

	if err := s.expenses.Edit(r.Context(), session, id, amount, category, description); err != nil {
		slog.WarnContext(r.Context(), "Expense edit failed", "error", err, "id", id, "username", session.Username)
		s.dashboardError(w, r, session, err)
		return
	}

	http.Redirect(w, r, "/dashboard?msg=updated", http.StatusSeeOther)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	session, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	id, err := parseExpenseID(r.Form.Get("id"))
	if err != nil {
		s.dashboardError(w, r, session, core.ErrExpenseNotFound)
		return
	}

	if err := s.expenses.Delete(r.Context(), session, id); err != nil {
		slog.WarnContext(r.Context(), "Expense delete failed", "error", err, "id", id, "username", session.Username)
		s.dashboardError(w, r, session, err)
		return
	}

	http.Redirect(w, r, "/dashboard?msg=deleted", http.StatusSeeOther)
}
