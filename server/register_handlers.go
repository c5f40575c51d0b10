package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/go-oidc-provider/oidcerr"
	"github.com/jrsteele09/go-oidc-provider/users"
	"github.com/jrsteele09/go-oidc-provider/validation"
)

// RegisterRequest is a validated registration submission.
type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

// RegisterRequestBuilder validates registrations with the shared builder
// lifecycle. Password strength is checked here so a weak password surfaces
// alongside any other field violations rather than after them.
type RegisterRequestBuilder struct {
	username *string
	email    *string
	password *string

	state *validation.State
}

func NewRegisterRequestBuilder() *RegisterRequestBuilder {
	return &RegisterRequestBuilder{state: validation.NewState()}
}

func (b *RegisterRequestBuilder) LoadParams(params map[string][]string) error {
	var err error
	if b.username, err = validation.MaybeOne(params, "username"); err != nil {
		return oidcerr.Param(err)
	}
	if b.email, err = validation.MaybeOne(params, "email"); err != nil {
		return oidcerr.Param(err)
	}
	if b.password, err = validation.MaybeOne(params, "password"); err != nil {
		return oidcerr.Param(err)
	}
	return nil
}

func (b *RegisterRequestBuilder) Validate() (bool, error) {
	b.state = validation.NewState()

	if b.username == nil || strings.TrimSpace(*b.username) == "" {
		b.state.Reject("username", validation.MissingRequiredValue("username"))
	}
	if b.email != nil && !strings.Contains(*b.email, "@") {
		b.state.Reject("email", validation.InvalidValue("email"))
	}
	if b.password == nil {
		b.state.Reject("password", validation.MissingRequiredValue("password"))
	} else if err := users.ValidatePasswordStrength(*b.password); err != nil {
		b.state.Reject("password", validation.InvalidValuef("%s", err.Error()))
	}
	return b.state.Valid, nil
}

func (b *RegisterRequestBuilder) Build() (*RegisterRequest, error) {
	if !b.state.Valid {
		return nil, oidcerr.Validation(b.state)
	}
	if b.username == nil || b.password == nil {
		return nil, oidcerr.Internal("register request built without validated fields")
	}
	req := &RegisterRequest{Username: *b.username, Password: *b.password}
	if b.email != nil {
		req.Email = *b.email
	}
	return req, nil
}

func buildRegisterRequest(params map[string][]string) (*RegisterRequest, error) {
	builder := NewRegisterRequestBuilder()
	if err := builder.LoadParams(params); err != nil {
		return nil, err
	}
	if _, err := builder.Validate(); err != nil {
		return nil, err
	}
	return builder.Build()
}

// Register creates a new user with a bcrypt-hashed password.
func (s *Server) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.writeError(w, oidcerr.URLDecoding(err))
			return
		}
		req, err := buildRegisterRequest(r.PostForm)
		if err != nil {
			s.writeError(w, err)
			return
		}

		user, err := users.New(req.Username, req.Email, req.Password)
		if err != nil {
			s.writeError(w, oidcerr.Wrap(err))
			return
		}
		if err := s.users.Add(r.Context(), user); err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, user)
	}
}
