package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-oidc-provider/auth"
	"github.com/jrsteele09/go-oidc-provider/internal/utils"
	"github.com/jrsteele09/go-oidc-provider/login"
	"github.com/jrsteele09/go-oidc-provider/oidcerr"
	"github.com/jrsteele09/go-oidc-provider/users"
	"github.com/jrsteele09/go-oidc-provider/validation"
)

// LoginRequest is the validated credential submission. The authorization
// fields are optional; a present RedirectURI asks for an auth-code redirect
// after the login succeeds.
type LoginRequest struct {
	Username    string
	Password    string
	RedirectURI *string
	Nonce       *string
	Scope       *string
	State       *string
}

// LoginRequestBuilder follows the same two-phase lifecycle as the token
// request builder: load raw fields, accumulate violations, then build or
// fail with the complete rejection set. Every field, optional ones included,
// goes through MaybeOne so duplicated keys fail as ambiguous input.
type LoginRequestBuilder struct {
	username    *string
	password    *string
	redirectURI *string
	nonce       *string
	scope       *string
	formState   *string

	state *validation.State
}

func NewLoginRequestBuilder() *LoginRequestBuilder {
	return &LoginRequestBuilder{state: validation.NewState()}
}

func (b *LoginRequestBuilder) LoadParams(params map[string][]string) error {
	var err error
	if b.username, err = validation.MaybeOne(params, "username"); err != nil {
		return oidcerr.Param(err)
	}
	if b.password, err = validation.MaybeOne(params, "password"); err != nil {
		return oidcerr.Param(err)
	}
	if b.redirectURI, err = validation.MaybeOne(params, "redirect_uri"); err != nil {
		return oidcerr.Param(err)
	}
	if b.nonce, err = validation.MaybeOne(params, "nonce"); err != nil {
		return oidcerr.Param(err)
	}
	if b.scope, err = validation.MaybeOne(params, "scope"); err != nil {
		return oidcerr.Param(err)
	}
	if b.formState, err = validation.MaybeOne(params, "state"); err != nil {
		return oidcerr.Param(err)
	}
	return nil
}

func (b *LoginRequestBuilder) Validate() (bool, error) {
	b.state = validation.NewState()

	if b.username == nil || strings.TrimSpace(*b.username) == "" {
		b.state.Reject("username", validation.MissingRequiredValue("username"))
	}
	if b.password == nil || *b.password == "" {
		b.state.Reject("password", validation.MissingRequiredValue("password"))
	}
	return b.state.Valid, nil
}

func (b *LoginRequestBuilder) Build() (*LoginRequest, error) {
	if !b.state.Valid {
		return nil, oidcerr.Validation(b.state)
	}
	if b.username == nil || b.password == nil {
		return nil, oidcerr.Internal("login request built without validated credentials")
	}
	return &LoginRequest{
		Username:    *b.username,
		Password:    *b.password,
		RedirectURI: b.redirectURI,
		Nonce:       b.nonce,
		Scope:       b.scope,
		State:       b.formState,
	}, nil
}

func buildLoginRequest(params map[string][]string) (*LoginRequest, error) {
	builder := NewLoginRequestBuilder()
	if err := builder.LoadParams(params); err != nil {
		return nil, err
	}
	if _, err := builder.Validate(); err != nil {
		return nil, err
	}
	return builder.Build()
}

// Login authenticates the submitted credentials and establishes the signed
// login cookie. Whether the username or the password was wrong is never
// visible to the caller. When the form carries a redirect_uri, a single-use
// authorization code is issued and appended to the redirect.
func (s *Server) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.writeError(w, oidcerr.URLDecoding(err))
			return
		}
		creds, err := buildLoginRequest(r.PostForm)
		if err != nil {
			s.writeError(w, err)
			return
		}

		status, err := s.authn.Authenticate(r.Context(), creds.Username, creds.Password)
		if err != nil {
			s.writeError(w, err)
			return
		}
		if status != auth.StatusSuccess {
			// UserNotFound and IncorrectPassword collapse into one wire error.
			log.Debug().Str("status", status.String()).Msg("login refused")
			s.writeError(w, oidcerr.InvalidUsernameOrPassword())
			return
		}

		user, err := s.users.Find(r.Context(), creds.Username)
		if err != nil {
			s.writeError(w, oidcerr.Persistence(err))
			return
		}
		if user == nil {
			s.writeError(w, oidcerr.InvalidUsernameOrPassword())
			return
		}

		if err := s.logins.Remember(w, user); err != nil {
			s.writeError(w, err)
			return
		}

		if creds.RedirectURI != nil && *creds.RedirectURI != "" {
			s.redirectWithAuthCode(w, r, user, creds)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) redirectWithAuthCode(w http.ResponseWriter, r *http.Request, user *users.User, creds *LoginRequest) {
	target, err := url.Parse(*creds.RedirectURI)
	if err != nil {
		s.writeError(w, oidcerr.URLParse(err))
		return
	}

	code, err := s.codes.IssueAuthCode(r.Context(), user.Username, *creds.RedirectURI, utils.Value(creds.Nonce), utils.Value(creds.Scope))
	if err != nil {
		s.writeError(w, err)
		return
	}

	query := target.Query()
	query.Set("code", code)
	if state := utils.Value(creds.State); state != "" {
		query.Set("state", state)
	}
	target.RawQuery = query.Encode()
	http.Redirect(w, r, target.String(), http.StatusSeeOther)
}

// Logout clears the login cookie and revokes the refresh token when one is
// submitted.
func (s *Server) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.writeError(w, oidcerr.URLDecoding(err))
			return
		}
		refreshToken, err := validation.MaybeOne(r.PostForm, "refresh_token")
		if err != nil {
			s.writeError(w, oidcerr.Param(err))
			return
		}
		if refreshToken != nil && *refreshToken != "" {
			if err := s.codes.RevokeRefreshToken(r.Context(), *refreshToken); err != nil {
				log.Error().Err(err).Msg("refresh token revocation failed")
			}
		}
		s.logins.Forget(w)
		w.WriteHeader(http.StatusNoContent)
	}
}

// Me reports the identity behind the login cookie.
func (s *Server) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, ok := login.FromContext[*users.User](r.Context())
		if !ok || !current.LoggedIn() {
			s.writeJSON(w, http.StatusUnauthorized, oidcerr.Response{
				Code:        "access_denied",
				Description: "not logged in",
			})
			return
		}
		user, _ := current.Session()
		s.writeJSON(w, http.StatusOK, user)
	}
}
