// Package login wraps a signed-cookie codec with a typed session concept.
// The cookie, held by the client, is the durable representation of a login;
// a Login value is its per-request, in-memory form, generic over any
// principal type that can yield a stable identifier.
package login

import "net/http"

// Session is implemented by any principal that can be stored in a login
// cookie. UserID reports false when no stable identifier is available; such
// a session is equivalent to not being logged in.
type Session interface {
	UserID() (string, bool)
}

// Config is the cookie policy in force for a deployment. It is set once at
// startup and read-only afterwards. The defaults describe a secure,
// HTTP-only, root-scoped cookie that persists until logout.
type Config struct {
	CookieName string
	Path       string
	HTTPOnly   bool
	Secure     bool
	SameSite   http.SameSite
	MaxAge     int // 0 keeps the cookie until logout
}

// DefaultConfig returns the default cookie policy. Callers may override any
// attribute, e.g. Secure for plain-HTTP development setups.
func DefaultConfig() Config {
	return Config{
		CookieName: "logged_in_user",
		Path:       "/",
		HTTPOnly:   true,
		Secure:     true,
		SameSite:   http.SameSiteLaxMode,
	}
}

func (c Config) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     c.CookieName,
		Value:    value,
		Path:     c.Path,
		HttpOnly: c.HTTPOnly,
		Secure:   c.Secure,
		SameSite: c.SameSite,
		MaxAge:   maxAge,
	}
}

// Login pairs an optional session with the cookie policy for one request. It
// is constructed from the verified cookie at the start of the request and
// discarded at the end; it never touches the cookie bytes itself.
type Login[U Session] struct {
	session U
	present bool

	Config Config
}

// New pairs a session with the configuration. It has no side effects;
// reading and writing the cookie is the Manager's job.
func New[U Session](config Config, session U) Login[U] {
	return Login[U]{session: session, present: true, Config: config}
}

// Anonymous is the Login of a request with no (or no verifiable) cookie.
func Anonymous[U Session](config Config) Login[U] {
	return Login[U]{Config: config}
}

// Session returns the principal when one is present.
func (l Login[U]) Session() (U, bool) {
	return l.session, l.present
}

// UserID returns the logged-in principal's identifier. A present session
// with no retrievable identifier reports false, exactly like no session.
func (l Login[U]) UserID() (string, bool) {
	if !l.present {
		return "", false
	}
	return l.session.UserID()
}

// LoggedIn reports whether the request carries an identifiable principal.
func (l Login[U]) LoggedIn() bool {
	_, ok := l.UserID()
	return ok
}
