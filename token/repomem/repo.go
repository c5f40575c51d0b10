// Package repomem provides an in-memory token.RefreshTokenRepo used by tests
// and by deployments without external storage.
package repomem

import (
	"context"
	"sort"
	"sync"

	"github.com/jrsteele09/go-oidc-provider/token"
)

var _ token.RefreshTokenRepo = (*Repo)(nil)

type Repo struct {
	tokens map[string]*token.RefreshToken
	lock   sync.RWMutex
}

func New() *Repo {
	return &Repo{tokens: make(map[string]*token.RefreshToken)}
}

func (r *Repo) Upsert(_ context.Context, refreshToken *token.RefreshToken) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	copied := *refreshToken
	r.tokens[refreshToken.Token] = &copied
	return nil
}

func (r *Repo) Delete(_ context.Context, t string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	delete(r.tokens, t)
	return nil
}

func (r *Repo) Get(_ context.Context, t string) (*token.RefreshToken, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	rt, ok := r.tokens[t]
	if !ok {
		return nil, nil
	}
	copied := *rt
	return &copied, nil
}

func (r *Repo) List(_ context.Context, offset, limit int) ([]*token.RefreshToken, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	all := make([]*token.RefreshToken, 0, len(r.tokens))
	for _, rt := range r.tokens {
		copied := *rt
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Iat.Before(all[j].Iat)
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
