// Package repomem provides an in-memory users.Repo used by tests and by
// deployments without external storage.
package repomem

import (
	"context"
	"sort"
	"sync"

	"github.com/jrsteele09/go-oidc-provider/oidcerr"
	"github.com/jrsteele09/go-oidc-provider/users"
)

var _ users.Repo = (*Repo)(nil)

type Repo struct {
	byUsername map[string]*users.User
	byID       map[string]string // user ID -> username
	lock       sync.RWMutex
}

func New() *Repo {
	return &Repo{
		byUsername: make(map[string]*users.User),
		byID:       make(map[string]string),
	}
}

func (r *Repo) Add(_ context.Context, user *users.User) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.byUsername[user.Username]; ok {
		return oidcerr.UserAlreadyExists()
	}
	copied := *user
	r.byUsername[user.Username] = &copied
	r.byID[user.ID] = user.Username
	return nil
}

func (r *Repo) Find(_ context.Context, username string) (*users.User, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	user, ok := r.byUsername[username]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (r *Repo) FindByID(ctx context.Context, id string) (*users.User, error) {
	r.lock.RLock()
	username, ok := r.byID[id]
	r.lock.RUnlock()
	if !ok {
		return nil, nil
	}
	return r.Find(ctx, username)
}

func (r *Repo) Delete(_ context.Context, username string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	user, ok := r.byUsername[username]
	if !ok {
		return oidcerr.UserNotFound()
	}
	delete(r.byID, user.ID)
	delete(r.byUsername, username)
	return nil
}

func (r *Repo) List(_ context.Context, offset, limit int) ([]*users.User, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	all := make([]*users.User, 0, len(r.byUsername))
	for _, u := range r.byUsername {
		copied := *u
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Username < all[j].Username
	})

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}
