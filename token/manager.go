package token

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/jrsteele09/go-oidc-provider/internal/utils"
	"github.com/jrsteele09/go-oidc-provider/oauth2"
	"github.com/jrsteele09/go-oidc-provider/oidcerr"
	"github.com/jrsteele09/go-oidc-provider/sessions"
	"github.com/jrsteele09/go-oidc-provider/users"
)

const codeGenerationLength = 32

// Manager owns the authorization-code lifecycle: it issues codes after a
// successful login and exchanges them, exactly once, for signed tokens. It
// implements the token-exchange collaborator consumed by the grant dispatch.
type Manager struct {
	sessions           sessions.Repo
	users              users.Repo
	refresh            RefreshTokenRepo
	signer             Signer
	issuer             string
	audience           string
	accessTokenExpiry  time.Duration
	idTokenExpiry      time.Duration
	refreshTokenExpiry time.Duration // 0 disables refresh tokens
	authCodeTimeout    time.Duration
	nowFunc            func() time.Time
}

type ManagerOption func(*Manager)

func WithTokenExpiry(accessTokenExpiry, idTokenExpiry, refreshTokenExpiry time.Duration) ManagerOption {
	return func(m *Manager) {
		m.accessTokenExpiry = accessTokenExpiry
		m.idTokenExpiry = idTokenExpiry
		m.refreshTokenExpiry = refreshTokenExpiry
	}
}

// WithAuthCodeTimeout sets the window an issued authorization code stays
// exchangeable. Deployments with a TTL-scoped session store should pass the
// same value there so both expiries agree.
func WithAuthCodeTimeout(timeout time.Duration) ManagerOption {
	return func(m *Manager) {
		m.authCodeTimeout = timeout
	}
}

func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

func WithIssuer(issuer string) ManagerOption {
	return func(m *Manager) {
		m.issuer = issuer
	}
}

func WithAudience(audience string) ManagerOption {
	return func(m *Manager) {
		m.audience = audience
	}
}

func New(sessionRepo sessions.Repo, userRepo users.Repo, refreshRepo RefreshTokenRepo, signer Signer, options ...ManagerOption) (*Manager, error) {
	if sessionRepo == nil {
		return nil, errors.New("[token.New] sessions repo is required")
	}
	if userRepo == nil {
		return nil, errors.New("[token.New] users repo is required")
	}
	if refreshRepo == nil {
		return nil, errors.New("[token.New] refresh token repo is required")
	}
	if signer == nil {
		return nil, errors.New("[token.New] signer is required")
	}

	m := &Manager{
		sessions: sessionRepo,
		users:    userRepo,
		refresh:  refreshRepo,
		signer:   signer,
		nowFunc:  time.Now,
	}
	for _, opt := range options {
		opt(m)
	}

	if m.accessTokenExpiry == 0 {
		m.accessTokenExpiry = 15 * time.Minute
	}
	if m.idTokenExpiry == 0 {
		m.idTokenExpiry = time.Hour
	}
	if m.authCodeTimeout == 0 {
		m.authCodeTimeout = 15 * time.Minute
	}

	return m, nil
}

// IssueAuthCode creates a pending authorization session and returns its
// single-use code.
func (m *Manager) IssueAuthCode(ctx context.Context, username, redirectURI, nonce, scope string) (string, error) {
	buf := make([]byte, codeGenerationLength)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "[IssueAuthCode] rand.Read")
	}
	code := base64.URLEncoding.EncodeToString(buf)

	session := &sessions.SessionData{
		ID:          uuid.New().String(),
		Username:    username,
		AuthCode:    code,
		RedirectURI: redirectURI,
		Nonce:       nonce,
		Scope:       scope,
		CreatedAt:   m.nowFunc(),
	}
	if err := m.sessions.Upsert(ctx, session); err != nil {
		return "", oidcerr.Persistence(errors.Wrap(err, "[IssueAuthCode] sessions.Upsert"))
	}
	return code, nil
}

// ExchangeAuthCode consumes an authorization code and mints the token
// artifact. The code is single-use: consumption is atomic at the store, so
// at most one of any concurrent presentations of the same code receives the
// session, and a failed exchange never restores it. An unknown, expired or
// already-consumed code and a mismatched redirect URI are indistinguishable
// client faults apart from their kind.
func (m *Manager) ExchangeAuthCode(ctx context.Context, code, redirectURI string) (*oauth2.Token, error) {
	session, err := m.sessions.ConsumeByCode(ctx, code)
	if err != nil {
		return nil, oidcerr.Persistence(errors.Wrap(err, "[ExchangeAuthCode] sessions.ConsumeByCode"))
	}
	if session == nil {
		return nil, oidcerr.AuthCodeInvalid()
	}

	if m.nowFunc().Sub(session.CreatedAt) > m.authCodeTimeout {
		return nil, oidcerr.AuthCodeInvalid()
	}
	if session.RedirectURI != redirectURI {
		return nil, oidcerr.InvalidRedirectURI()
	}

	user, err := m.users.Find(ctx, session.Username)
	if err != nil {
		return nil, oidcerr.Persistence(errors.Wrap(err, "[ExchangeAuthCode] users.Find"))
	}
	if user == nil {
		return nil, oidcerr.UserNotFound()
	}

	accessToken, err := m.accessToken(user, session.Scope)
	if err != nil {
		return nil, oidcerr.TokenSigning(err)
	}
	idToken, err := m.idToken(user, session.Nonce)
	if err != nil {
		return nil, oidcerr.TokenSigning(err)
	}

	var refreshToken *string
	if m.refreshTokenExpiry > 0 {
		rt, err := m.issueRefreshToken(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		refreshToken = utils.Ptr(rt)
	}

	return oauth2.NewToken(accessToken, refreshToken, m.accessTokenExpiry, utils.Ptr(idToken)), nil
}

// RevokeRefreshToken drops a refresh token; revoking an unknown token is not
// an error.
func (m *Manager) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	if err := m.refresh.Delete(ctx, refreshToken); err != nil {
		return oidcerr.Persistence(errors.Wrap(err, "[RevokeRefreshToken] refresh.Delete"))
	}
	return nil
}

func (m *Manager) accessToken(user *users.User, scope string) (string, error) {
	now := m.nowFunc()
	claims := jwt.MapClaims{
		"iss":        m.issuer,
		"aud":        m.audience,
		"sub":        user.ID,
		"iat":        now.Unix(),
		"exp":        now.Add(m.accessTokenExpiry).Unix(),
		"jti":        uuid.New().String(),
		"token_type": "user",
	}
	if scope != "" {
		claims["scope"] = scope
	}
	return m.signer.Sign(claims)
}

func (m *Manager) idToken(user *users.User, nonce string) (string, error) {
	now := m.nowFunc()
	claims := jwt.MapClaims{
		"iss":   m.issuer,
		"aud":   m.audience,
		"sub":   user.ID,
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(m.idTokenExpiry).Unix(),
		"jti":   uuid.New().String(),
	}
	if nonce != "" {
		claims["nonce"] = nonce
	}
	return m.signer.Sign(claims)
}

func (m *Manager) issueRefreshToken(ctx context.Context, userID string) (string, error) {
	buf := make([]byte, codeGenerationLength)
	if _, err := rand.Read(buf); err != nil {
		return "", oidcerr.IO(errors.Wrap(err, "[issueRefreshToken] rand.Read"))
	}
	rt := base64.URLEncoding.EncodeToString(buf)

	if err := m.refresh.Upsert(ctx, &RefreshToken{
		Token:  rt,
		UserID: userID,
		Iat:    m.nowFunc(),
	}); err != nil {
		return "", oidcerr.Persistence(errors.Wrap(err, "[issueRefreshToken] refresh.Upsert"))
	}
	return rt, nil
}
