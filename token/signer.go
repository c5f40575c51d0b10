package token

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Signer signs token claims into a compact JWT. Key management and the
// choice of algorithm live behind this interface.
type Signer interface {
	Sign(claims jwt.Claims) (string, error)
}

// HMACSigner signs tokens with HS256.
type HMACSigner struct {
	key []byte
}

var _ Signer = (*HMACSigner)(nil)

func NewHMACSigner(key []byte) (*HMACSigner, error) {
	if len(key) == 0 {
		return nil, errors.New("[NewHMACSigner] signing key is required")
	}
	return &HMACSigner{key: key}, nil
}

func (s *HMACSigner) Sign(claims jwt.Claims) (string, error) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", errors.Wrap(err, "[HMACSigner.Sign] SignedString")
	}
	return signed, nil
}
