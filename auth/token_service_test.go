package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/jrsteele09/go-oidc-provider/auth"
	"github.com/jrsteele09/go-oidc-provider/oauth2"
	"github.com/jrsteele09/go-oidc-provider/oidcerr"
	"github.com/stretchr/testify/require"
)

type sitePolicy map[oauth2.GrantType]bool

func (p sitePolicy) GrantEnabled(grantType oauth2.GrantType) bool {
	return p[grantType]
}

// spyTokenRepo records exchange calls so tests can assert the policy gate
// runs before the collaborator.
type spyTokenRepo struct {
	calls       int
	code        string
	redirectURI string
	token       *oauth2.Token
	err         error
}

func (s *spyTokenRepo) ExchangeAuthCode(_ context.Context, code, redirectURI string) (*oauth2.Token, error) {
	s.calls++
	s.code = code
	s.redirectURI = redirectURI
	return s.token, s.err
}

func mustTokenRequest(t *testing.T, params map[string][]string) *oauth2.TokenRequest {
	t.Helper()
	req, err := oauth2.BuildTokenRequest(params)
	require.NoError(t, err)
	return req
}

func TestTokenService_Exchange(t *testing.T) {
	ctx := context.Background()

	authCodeRequest := func(t *testing.T) *oauth2.TokenRequest {
		return mustTokenRequest(t, map[string][]string{
			"grant_type":   {"authorization_code"},
			"code":         {"ABC123"},
			"redirect_uri": {"https://client/cb"},
		})
	}

	t.Run("enabled grant reaches the exchange collaborator once", func(t *testing.T) {
		spy := &spyTokenRepo{token: oauth2.NewToken("signed-access-token", nil, 15*time.Minute, nil)}
		service, err := auth.NewTokenService(sitePolicy{oauth2.AuthorizationCodeGrant: true}, spy)
		require.NoError(t, err)

		issued, err := service.Exchange(ctx, authCodeRequest(t))
		require.NoError(t, err)
		require.Equal(t, "signed-access-token", issued.AccessToken)
		require.Equal(t, oauth2.TokenTypeBearer, issued.TokenType)
		require.Equal(t, 1, spy.calls)
		require.Equal(t, "ABC123", spy.code)
		require.Equal(t, "https://client/cb", spy.redirectURI)
	})

	t.Run("disabled grant never invokes the collaborator", func(t *testing.T) {
		spy := &spyTokenRepo{}
		service, err := auth.NewTokenService(sitePolicy{}, spy)
		require.NoError(t, err)

		issued, err := service.Exchange(ctx, authCodeRequest(t))
		require.Error(t, err)
		require.Nil(t, issued)
		require.Equal(t, oidcerr.KindUnsupportedGrantType, oidcerr.KindOf(err))
		require.Zero(t, spy.calls)
	})

	t.Run("client_credentials is enabled but unimplemented", func(t *testing.T) {
		spy := &spyTokenRepo{}
		service, err := auth.NewTokenService(sitePolicy{oauth2.ClientCredentialsGrant: true}, spy)
		require.NoError(t, err)

		req := mustTokenRequest(t, map[string][]string{"grant_type": {"client_credentials"}})
		issued, err := service.Exchange(ctx, req)
		require.Error(t, err)
		require.Nil(t, issued)
		require.Equal(t, oidcerr.KindNotImplemented, oidcerr.KindOf(err))
		require.Zero(t, spy.calls)
	})

	t.Run("collaborator failure surfaces as a taxonomy error and is not retried", func(t *testing.T) {
		spy := &spyTokenRepo{err: oidcerr.AuthCodeInvalid()}
		service, err := auth.NewTokenService(sitePolicy{oauth2.AuthorizationCodeGrant: true}, spy)
		require.NoError(t, err)

		issued, err := service.Exchange(ctx, authCodeRequest(t))
		require.Error(t, err)
		require.Nil(t, issued)
		require.Equal(t, oidcerr.KindAuthCodeInvalid, oidcerr.KindOf(err))
		require.Equal(t, 1, spy.calls)
	})

	t.Run("constructor rejects missing collaborators", func(t *testing.T) {
		_, err := auth.NewTokenService(nil, &spyTokenRepo{})
		require.Error(t, err)
		_, err = auth.NewTokenService(sitePolicy{}, nil)
		require.Error(t, err)
	})
}
