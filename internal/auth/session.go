package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/oklog/ulid/v2"
)

// SessionCookie is the name of the browser session cookie.
const SessionCookie = "wastewise_session"

// SessionExpiry is the lifetime of a browser session.
const SessionExpiry = 7 * 24 * time.Hour

const (
	sessionUserKey = "user_id"
	sessionIDKey   = "sid"
)

// Sessions manages signed cookie sessions. A session carries the user id
// and a session id that can be revoked on logout.
type Sessions struct {
	store *sessions.CookieStore
}

// NewSessions creates a session manager signing cookies with secret.
func NewSessions(secret string, secure bool) *Sessions {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(SessionExpiry / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: store}
}

// Establish starts a new session for userID and writes the cookie.
// It returns the session id and its expiry.
func (s *Sessions) Establish(w http.ResponseWriter, r *http.Request, userID int64) (string, time.Time, error) {
	session, _ := s.store.New(r, SessionCookie)
	sid := ulid.Make().String()
	session.Values[sessionUserKey] = userID
	session.Values[sessionIDKey] = sid
	if err := session.Save(r, w); err != nil {
		return "", time.Time{}, fmt.Errorf("saving session: %w", err)
	}
	return sid, time.Now().Add(SessionExpiry), nil
}

// Lookup returns the user id and session id carried by the request's
// session cookie.
func (s *Sessions) Lookup(r *http.Request) (userID int64, sid string, ok bool) {
	session, err := s.store.Get(r, SessionCookie)
	if err != nil || session.IsNew {
		return 0, "", false
	}
	userID, ok1 := session.Values[sessionUserKey].(int64)
	sid, ok2 := session.Values[sessionIDKey].(string)
	if !ok1 || !ok2 || userID <= 0 || sid == "" {
		return 0, "", false
	}
	return userID, sid, true
}

// Clear expires the session cookie.
func (s *Sessions) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.store.Get(r, SessionCookie)
	session.Values = map[any]any{}
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
