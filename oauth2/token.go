package oauth2

import (
	"encoding/json"
	"fmt"
	"time"
)

// TokenType indicates how the access token is presented to resource servers.
// Bearer is the only supported value; deserializing anything else fails.
type TokenType string

// TokenTypeBearer grants access to whoever presents the token.
const TokenTypeBearer TokenType = "Bearer"

func (t TokenType) String() string { return string(t) }

// MarshalJSON serializes the token type as its wire literal.
func (t TokenType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

// UnmarshalJSON rejects any token_type other than Bearer.
func (t *TokenType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if TokenType(s) != TokenTypeBearer {
		return fmt.Errorf("unexpected token_type: %q", s)
	}
	*t = TokenTypeBearer
	return nil
}

// TokenDuration is a token lifetime that crosses the wire as integer seconds,
// per the expires_in field of RFC 6749.
type TokenDuration time.Duration

// Duration converts back to a time.Duration.
func (d TokenDuration) Duration() time.Duration { return time.Duration(d) }

// MarshalJSON serializes the duration as whole seconds.
func (d TokenDuration) MarshalJSON() ([]byte, error) {
	return json.Marshal(int64(time.Duration(d) / time.Second))
}

// UnmarshalJSON reads a whole-seconds integer.
func (d *TokenDuration) UnmarshalJSON(data []byte) error {
	var seconds int64
	if err := json.Unmarshal(data, &seconds); err != nil {
		return err
	}
	*d = TokenDuration(time.Duration(seconds) * time.Second)
	return nil
}

// Token is the artifact issued by a successful exchange. It is created once,
// never mutated, and serialized verbatim to the client.
type Token struct {
	AccessToken  string        `json:"access_token"`
	TokenType    TokenType     `json:"token_type"`
	RefreshToken *string       `json:"refresh_token,omitempty"`
	ExpiresIn    TokenDuration `json:"expires_in"`
	IDToken      *string       `json:"id_token,omitempty"`
}

// NewToken builds a Bearer token. refreshToken and idToken are optional.
func NewToken(accessToken string, refreshToken *string, expiresIn time.Duration, idToken *string) *Token {
	return &Token{
		AccessToken:  accessToken,
		TokenType:    TokenTypeBearer,
		RefreshToken: refreshToken,
		ExpiresIn:    TokenDuration(expiresIn),
		IDToken:      idToken,
	}
}
