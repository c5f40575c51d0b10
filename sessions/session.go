// Package sessions stores the short-lived state between a successful login
// and the exchange of the resulting authorization code at the token
// endpoint.
package sessions

import (
	"context"
	"time"
)

// SessionData tracks one pending authorization. The auth code is single-use:
// the exchange consumes the session atomically, whether or not it succeeds
// past that point.
type SessionData struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	AuthCode    string    `json:"auth_code"`
	RedirectURI string    `json:"redirect_uri"` // must match the redirect_uri presented at exchange
	Nonce       string    `json:"nonce,omitempty"`
	Scope       string    `json:"scope,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Repo is the session persistence collaborator. Implementations must be safe
// for concurrent use. Get, GetByCode and ConsumeByCode return (nil, nil) when
// nothing matches; errors are reserved for storage faults.
//
// ConsumeByCode must remove the session atomically with the lookup: when
// several callers present the same code at once, at most one of them receives
// the session.
type Repo interface {
	Upsert(ctx context.Context, session *SessionData) error
	Get(ctx context.Context, id string) (*SessionData, error)
	GetByCode(ctx context.Context, code string) (*SessionData, error)
	ConsumeByCode(ctx context.Context, code string) (*SessionData, error)
	Delete(ctx context.Context, id string) error
}
