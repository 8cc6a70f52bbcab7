package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	cookieName = "fitplan_session"
	idField    = "sid"
)

// Cookies issues and reads the signed cookie holding the session id.
type Cookies struct {
	store *sessions.CookieStore
}

// NewCookies builds a cookie store signed with secret. Cookies are Secure
// outside development.
func NewCookies(secret []byte, ttl time.Duration, secure bool) *Cookies {
	store := sessions.NewCookieStore(secret)
	store.MaxAge(int(ttl / time.Second))
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.Secure = secure
	store.Options.SameSite = http.SameSiteLaxMode
	return &Cookies{store: store}
}

// SessionID returns the id from the request cookie, minting and writing a
// new one when the cookie is missing or fails verification.
func (c *Cookies) SessionID(w http.ResponseWriter, r *http.Request) (string, error) {
	// A bad signature still yields a fresh, usable session.
	sess, _ := c.store.Get(r, cookieName)

	if id, ok := sess.Values[idField].(string); ok && id != "" {
		return id, nil
	}

	id := uuid.NewString()
	sess.Values[idField] = id
	if err := sess.Save(r, w); err != nil {
		return "", err
	}
	return id, nil
}
