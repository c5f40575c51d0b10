package token

import (
	"context"
	"time"
)

// RefreshToken is an opaque, long-lived credential exchanged for fresh
// access tokens.
type RefreshToken struct {
	Token  string
	UserID string
	Iat    time.Time
}

// RefreshTokenRepo persists issued refresh tokens. Get returns (nil, nil)
// when the token is unknown.
type RefreshTokenRepo interface {
	Upsert(ctx context.Context, refreshToken *RefreshToken) error
	Delete(ctx context.Context, token string) error
	Get(ctx context.Context, token string) (*RefreshToken, error)
	List(ctx context.Context, offset, limit int) ([]*RefreshToken, error)
}
