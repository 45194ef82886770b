// Package session carries the signed identity cookie between requests and
// exposes the resolved identity as a request-scoped value.
package session

import (
	"context"
	"net/http"
	"time"

	jwtutil "feedback-board/backend/app/jwt"

	"github.com/rs/zerolog"
)

// Identity is the authenticated username for one request. The zero value is
// an anonymous request.
type Identity struct {
	Username string
}

func (i Identity) Authenticated() bool { return i.Username != "" }

type ctxKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity resolved for the request, or an anonymous
// identity if none was set.
func FromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(ctxKey{}).(Identity)
	return id
}

type Manager struct {
	Signer     *jwtutil.Signer
	CookieName string
	Secure     bool
	Logger     zerolog.Logger
}

// SetIdentity issues a fresh cookie for username.
func (m *Manager) SetIdentity(w http.ResponseWriter, username string) error {
	token, err := m.Signer.Sign(username)
	if err != nil {
		return err
	}
	http.SetCookie(w, m.cookie(token, time.Now().Add(m.Signer.TTL), int(m.Signer.TTL.Seconds())))
	return nil
}

// ClearIdentity expires the cookie on the client.
func (m *Manager) ClearIdentity(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie("", time.Unix(0, 0), -1))
}

// Identity resolves the identity from the request cookie. ok is false for
// anonymous requests and for cookies that fail verification.
func (m *Manager) Identity(r *http.Request) (id Identity, ok bool, err error) {
	c, err := r.Cookie(m.CookieName)
	if err != nil || c.Value == "" {
		return Identity{}, false, nil
	}
	claims, err := m.Signer.Parse(c.Value)
	if err != nil {
		return Identity{}, false, err
	}
	return Identity{Username: claims.Username}, true, nil
}

// Load resolves the cookie once and stores the identity on the request
// context. A cookie that does not verify is cleared and the request continues
// anonymously.
func (m *Manager) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _, err := m.Identity(r)
		if err != nil {
			m.Logger.Debug().Err(err).Str("path", r.URL.Path).Msg("dropping invalid session cookie")
			m.ClearIdentity(w)
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

func (m *Manager) cookie(value string, expires time.Time, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
