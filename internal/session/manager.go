package session

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// userIDField is the single fixed key the session record holds.
const userIDField = "user_id"

// Manager binds the Redis store to the session cookie. Cookie values are
// "<id>.<hmac>" so a tampered id is indistinguishable from no session.
type Manager struct {
	store      *Store
	cookieName string
	secret     []byte
	secure     bool
}

func NewManager(store *Store, cookieName string, secret []byte, secure bool) *Manager {
	return &Manager{
		store:      store,
		cookieName: cookieName,
		secret:     secret,
		secure:     secure,
	}
}

// Load extracts the session from the request cookie. A missing, malformed or
// badly signed cookie yields an empty session; state is only allocated in the
// store once something is written.
func (m *Manager) Load(r *http.Request) *Session {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return &Session{manager: m}
	}

	id, ok := m.verifyCookieValue(cookie.Value)
	if !ok {
		return &Session{manager: m}
	}
	return &Session{manager: m, id: id}
}

func (m *Manager) sign(id string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(id))
	return hex.EncodeToString(mac.Sum(nil))
}

func (m *Manager) verifyCookieValue(value string) (string, bool) {
	id, sig, found := strings.Cut(value, ".")
	if !found || id == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(m.sign(id))) {
		return "", false
	}
	return id, true
}

func (m *Manager) writeCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    id + "." + m.sign(id),
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Session is the typed view of one client's server-side state for the
// duration of a request.
type Session struct {
	manager *Manager
	id      string
	sentID  string
}

// writeCookie sets the session cookie once per id, so renewing and then
// storing the identity in the same request emits a single Set-Cookie header.
func (s *Session) writeCookie(w http.ResponseWriter) {
	if s.sentID == s.id {
		return
	}
	s.manager.writeCookie(w, s.id)
	s.sentID = s.id
}

// UserID returns the authenticated identity stored in the session, if any.
// The second return is false for anonymous sessions and for records holding
// an undecodable value.
func (s *Session) UserID(ctx context.Context) (uuid.UUID, bool, error) {
	if s.id == "" {
		return uuid.Nil, false, nil
	}

	raw, found, err := s.manager.store.Get(ctx, s.id, userIDField)
	if err != nil {
		return uuid.Nil, false, err
	}
	if !found {
		return uuid.Nil, false, nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, nil
	}
	return id, true, nil
}

// SetUserID stores the authenticated identity and sets the session cookie.
func (s *Session) SetUserID(ctx context.Context, w http.ResponseWriter, id uuid.UUID) error {
	if s.id == "" {
		s.id = uuid.NewString()
	}
	if err := s.manager.store.Set(ctx, s.id, userIDField, id.String()); err != nil {
		return err
	}
	s.writeCookie(w)
	return nil
}

// Renew rotates the session id while preserving stored entries. Called on
// every successful authentication.
func (s *Session) Renew(ctx context.Context, w http.ResponseWriter) error {
	newID, err := s.manager.store.Renew(ctx, s.id)
	if err != nil {
		return err
	}
	s.id = newID
	s.writeCookie(w)
	return nil
}

// LogOut purges the whole server-side record and expires the cookie, forcing
// a fresh session id on next contact.
func (s *Session) LogOut(ctx context.Context, w http.ResponseWriter) error {
	if s.id != "" {
		if err := s.manager.store.Purge(ctx, s.id); err != nil {
			return err
		}
		s.id = ""
	}
	s.sentID = ""
	s.manager.clearCookie(w)
	return nil
}
