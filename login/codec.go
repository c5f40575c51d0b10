package login

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Codec seals a session identifier into tamper-evident cookie bytes and
// verifies them on the way back in. Unseal reports false for anything that
// does not verify - expired, malformed or tampered input all look the same.
type Codec interface {
	Seal(id string) (string, error)
	Unseal(sealed string) (string, bool)
}

// JWTCodec signs session identifiers as compact HS256 JWTs.
type JWTCodec struct {
	signingKey []byte
	ttl        time.Duration // 0 disables the exp claim
	nowFunc    func() time.Time
}

var _ Codec = (*JWTCodec)(nil)

type JWTCodecOption func(*JWTCodec)

// WithTTL sets an expiry on sealed cookies.
func WithTTL(ttl time.Duration) JWTCodecOption {
	return func(c *JWTCodec) {
		c.ttl = ttl
	}
}

// WithNowFunc sets the clock (primarily for testing).
func WithNowFunc(now func() time.Time) JWTCodecOption {
	return func(c *JWTCodec) {
		c.nowFunc = now
	}
}

func NewJWTCodec(signingKey []byte, options ...JWTCodecOption) (*JWTCodec, error) {
	if len(signingKey) == 0 {
		return nil, errors.New("[NewJWTCodec] signing key is required")
	}
	c := &JWTCodec{signingKey: signingKey, nowFunc: time.Now}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

func (c *JWTCodec) Seal(id string) (string, error) {
	now := c.nowFunc()
	claims := jwt.RegisteredClaims{
		Subject:  id,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if c.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))
	}
	sealed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.signingKey)
	if err != nil {
		return "", errors.Wrap(err, "[JWTCodec.Seal] SignedString")
	}
	return sealed, nil
}

func (c *JWTCodec) Unseal(sealed string) (string, bool) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(sealed, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return c.signingKey, nil
	}, jwt.WithTimeFunc(c.nowFunc))
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}
