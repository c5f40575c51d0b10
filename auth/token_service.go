package auth

import (
	"context"

	"github.com/jrsteele09/go-oidc-provider/oauth2"
	"github.com/jrsteele09/go-oidc-provider/oidcerr"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// SiteConfig is the per-deployment grant policy, injected once at startup and
// read-only afterwards.
type SiteConfig interface {
	GrantEnabled(grantType oauth2.GrantType) bool
}

// TokenRepo is the token-exchange collaborator. ExchangeAuthCode owns
// single-use consumption of the code, redirect-URI consistency checking and
// ID-token minting; it must apply no side effects when it fails.
type TokenRepo interface {
	ExchangeAuthCode(ctx context.Context, code, redirectURI string) (*oauth2.Token, error)
}

// TokenService dispatches validated token requests to the exchange strategy
// for their grant type. Requests reach it only through
// oauth2.TokenRequestBuilder, so syntactic validation always precedes the
// policy gate: a disabled-but-malformed request reports the malformation,
// not the policy denial.
type TokenService struct {
	site   SiteConfig
	tokens TokenRepo
}

func NewTokenService(site SiteConfig, tokens TokenRepo) (*TokenService, error) {
	if site == nil {
		return nil, errors.New("[NewTokenService] site config is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewTokenService] token repo is required")
	}
	return &TokenService{site: site, tokens: tokens}, nil
}

// Exchange produces exactly one token on success and exactly one taxonomy
// error otherwise. At most one call is made to the exchange collaborator per
// request and a failed exchange is never retried: authorization codes are
// single-use, so a retry would be a no-op at best and a security hazard at
// worst.
func (s *TokenService) Exchange(ctx context.Context, req *oauth2.TokenRequest) (*oauth2.Token, error) {
	grantType := req.GrantType()

	if !s.site.GrantEnabled(grantType) {
		return nil, oidcerr.UnsupportedGrantType(string(grantType))
	}

	switch grantType {
	case oauth2.AuthorizationCodeGrant:
		code, ok := req.Code()
		if !ok {
			// Validation guarantees the code; its absence here is an
			// internal-consistency fault, not a client error.
			return nil, oidcerr.Internal("authorization_code request reached exchange without a code")
		}
		redirectURI, _ := req.RedirectURI()

		token, err := s.tokens.ExchangeAuthCode(ctx, code, redirectURI)
		if err != nil {
			oidcErr := oidcerr.Wrap(err)
			log.Debug().Object("error", oidcErr).Msg("auth code exchange failed")
			return nil, oidcErr
		}
		return token, nil

	case oauth2.ClientCredentialsGrant:
		return nil, oidcerr.NotImplemented("client_credentials token exchange")

	default:
		return nil, oidcerr.UnknownGrantType(string(grantType))
	}
}
