package login

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Restore materializes the principal behind a verified session identifier,
// typically a user-repository lookup.
type Restore[U Session] func(ctx context.Context, id string) (U, error)

// Manager wires the cookie codec and the cookie policy into a request
// pipeline. Decoding happens once on the way in, sealing once on the way
// out (Remember/Forget); every handler behind the middleware sees the same
// configuration.
type Manager[U Session] struct {
	codec   Codec
	restore Restore[U]
	config  Config
}

type ManagerOption[U Session] func(*Manager[U])

// WithConfig overrides the default cookie policy.
func WithConfig[U Session](config Config) ManagerOption[U] {
	return func(m *Manager[U]) {
		m.config = config
	}
}

func NewManager[U Session](codec Codec, restore Restore[U], options ...ManagerOption[U]) (*Manager[U], error) {
	if codec == nil {
		return nil, errors.New("[login.NewManager] codec is required")
	}
	if restore == nil {
		return nil, errors.New("[login.NewManager] restore func is required")
	}
	m := &Manager[U]{codec: codec, restore: restore, config: DefaultConfig()}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

// Config returns the cookie policy in force.
func (m *Manager[U]) Config() Config { return m.config }

// FromRequest decodes and verifies the login cookie into a per-request Login.
// Anything that fails to verify - a missing cookie, a tampered signature, an
// identifier that no longer resolves - behaves identically to no session.
func (m *Manager[U]) FromRequest(r *http.Request) Login[U] {
	cookie, err := r.Cookie(m.config.CookieName)
	if err != nil || cookie.Value == "" {
		return Anonymous[U](m.config)
	}
	id, ok := m.codec.Unseal(cookie.Value)
	if !ok {
		log.Debug().Str("cookie", m.config.CookieName).Msg("login cookie failed verification")
		return Anonymous[U](m.config)
	}
	session, err := m.restore(r.Context(), id)
	if err != nil {
		log.Debug().Err(err).Msg("login session restore failed")
		return Anonymous[U](m.config)
	}
	return New(m.config, session)
}

// Remember seals the session's identifier into the login cookie.
func (m *Manager[U]) Remember(w http.ResponseWriter, session U) error {
	id, ok := session.UserID()
	if !ok {
		return errors.New("[Manager.Remember] session has no identifier")
	}
	sealed, err := m.codec.Seal(id)
	if err != nil {
		return errors.Wrap(err, "[Manager.Remember] codec.Seal")
	}
	http.SetCookie(w, m.config.cookie(sealed, m.config.MaxAge))
	return nil
}

// Forget expires the login cookie.
func (m *Manager[U]) Forget(w http.ResponseWriter) {
	http.SetCookie(w, m.config.cookie("", -1))
}

type loginContextKey struct{}

// Middleware installs the decoded Login into the request context so every
// downstream handler sees the same session and cookie policy.
func (m *Manager[U]) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), loginContextKey{}, m.FromRequest(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext retrieves the Login installed by Middleware.
func FromContext[U Session](ctx context.Context) (Login[U], bool) {
	l, ok := ctx.Value(loginContextKey{}).(Login[U])
	return l, ok
}
