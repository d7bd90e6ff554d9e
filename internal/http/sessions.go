package http

import (
	"net/http"
	"sync"

	"github.com/google/uuid"

	"expensetracker/internal/core"
)

const sessionCookie = "session"

// sessionStore keeps the logged-in sessions in memory for the process
// lifetime. The cookie value is an opaque uuid; the session it points
// at is just the authenticated username.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]core.Session
}

func newSessionStore() *sessionStore {
	return &sessionStore{
		sessions: make(map[string]core.Session),
	}
}

func (s *sessionStore) Create(session core.Session) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = session
	s.mu.Unlock()
	return token
}

func (s *sessionStore) Get(token string) (core.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[token]
	return session, ok
}

func (s *sessionStore) Delete(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// sessionFromRequest resolves the session cookie, if any.
func (s *sessionStore) sessionFromRequest(r *http.Request) (core.Session, string, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return core.Session{}, "", false
	}
	session, ok := s.Get(cookie.Value)
	return session, cookie.Value, ok
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
