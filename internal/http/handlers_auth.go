package http

import (
	"log/slog"
	"net/http"
)

// loginPage is the data the login/registration template renders.
type loginPage struct {
	Error   string
	Message string
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, status int, page loginPage) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, "login.html", page); err != nil {
		slog.ErrorContext(r.Context(), "Login template execution failed", "error", err)
	}
}

// handleIndex shows the login form, or sends an already-authenticated
// browser straight to the dashboard.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if _, _, ok := s.sessions.sessionFromRequest(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	s.renderLogin(w, r, http.StatusOK, loginPage{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		s.renderLogin(w, r, http.StatusBadRequest, loginPage{Error: "Invalid request."})
		return
	}

	username := sanitizeInput(r.Form.Get("username"))
	secret := r.Form.Get("password")

	session, err := s.auth.Login(r.Context(), username, secret)
	if err != nil {
		slog.WarnContext(r.Context(), "Login failed", "username", username, "error", err)
		s.renderLogin(w, r, errorStatus(err), loginPage{Error: errorMessage(err)})
		return
	}

	token := s.sessions.Create(session)
	setSessionCookie(w, token)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "url", r.URL.Path)
		s.renderLogin(w, r, http.StatusBadRequest, loginPage{Error: "Invalid request."})
		return
	}

	username := sanitizeInput(r.Form.Get("username"))
	secret := r.Form.Get("password")

	if err := s.auth.Register(r.Context(), username, secret); err != nil {
		slog.WarnContext(r.Context(), "Registration failed", "username", username, "error", err)
		s.renderLogin(w, r, errorStatus(err), loginPage{Error: errorMessage(err)})
		return
	}

	s.renderLogin(w, r, http.StatusOK, loginPage{Message: "Registration Successful! Please login."})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if _, token, ok := s.sessions.sessionFromRequest(r); ok {
		s.sessions.Delete(token)
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
