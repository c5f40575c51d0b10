// Package repomem provides an in-memory sessions.Repo used by tests and by
// deployments without external storage.
package repomem

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-oidc-provider/sessions"
)

var _ sessions.Repo = (*Repo)(nil)

type Repo struct {
	byID   map[string]*sessions.SessionData
	byCode map[string]string // auth code -> session ID
	lock   sync.RWMutex
}

func New() *Repo {
	return &Repo{
		byID:   make(map[string]*sessions.SessionData),
		byCode: make(map[string]string),
	}
}

func (r *Repo) Upsert(_ context.Context, session *sessions.SessionData) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if existing, ok := r.byID[session.ID]; ok && existing.AuthCode != "" {
		delete(r.byCode, existing.AuthCode)
	}
	copied := *session
	r.byID[session.ID] = &copied
	if session.AuthCode != "" {
		r.byCode[session.AuthCode] = session.ID
	}
	return nil
}

func (r *Repo) Get(_ context.Context, id string) (*sessions.SessionData, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	session, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (r *Repo) GetByCode(ctx context.Context, code string) (*sessions.SessionData, error) {
	r.lock.RLock()
	id, ok := r.byCode[code]
	r.lock.RUnlock()
	if !ok {
		return nil, nil
	}
	return r.Get(ctx, id)
}

// ConsumeByCode looks the session up and removes it under one write lock, so
// concurrent presentations of the same code yield it to exactly one caller.
func (r *Repo) ConsumeByCode(_ context.Context, code string) (*sessions.SessionData, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	id, ok := r.byCode[code]
	if !ok {
		return nil, nil
	}
	session, ok := r.byID[id]
	if !ok {
		delete(r.byCode, code)
		return nil, nil
	}
	delete(r.byCode, code)
	delete(r.byID, id)
	copied := *session
	return &copied, nil
}

func (r *Repo) Delete(_ context.Context, id string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	session, ok := r.byID[id]
	if !ok {
		return nil
	}
	if session.AuthCode != "" {
		delete(r.byCode, session.AuthCode)
	}
	delete(r.byID, id)
	return nil
}
