package auth

import (
	"context"

	"github.com/jrsteele09/go-oidc-provider/oidcerr"
	"github.com/jrsteele09/go-oidc-provider/users"
	"github.com/pkg/errors"
)

// Authenticator checks credentials against a repository of users. An error is
// returned only for collaborator faults (storage unavailable); a wrong
// password or an unknown user is a Status, never an error.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (Status, error)
}

// RepoAuthenticator authenticates against a users.Repo using the stored
// bcrypt hash.
type RepoAuthenticator struct {
	users users.Repo
}

var _ Authenticator = (*RepoAuthenticator)(nil)

func NewRepoAuthenticator(userRepo users.Repo) (*RepoAuthenticator, error) {
	if userRepo == nil {
		return nil, errors.New("[NewRepoAuthenticator] users repo is required")
	}
	return &RepoAuthenticator{users: userRepo}, nil
}

// Authenticate looks the user up by username and compares the supplied
// password against the stored hash. The comparison is constant-time via
// bcrypt.
func (a *RepoAuthenticator) Authenticate(ctx context.Context, username, password string) (Status, error) {
	user, err := a.users.Find(ctx, username)
	if err != nil {
		return StatusUserNotFound, oidcerr.Persistence(errors.Wrap(err, "[Authenticate] users.Find"))
	}
	if user == nil {
		return StatusUserNotFound, nil
	}
	if !users.CheckPasswordHash(password, user.PasswordHash) {
		return StatusIncorrectPassword, nil
	}
	return StatusSuccess, nil
}
