package oauth2

import (
	"strings"

	"github.com/jrsteele09/go-oidc-provider/oidcerr"
	"github.com/jrsteele09/go-oidc-provider/validation"
)

// TokenRequest is the validated form of a token-endpoint request. It is
// valid by construction: the only way to obtain one is through a builder
// whose validation pass succeeded, so consumers never re-check field
// presence.
type TokenRequest struct {
	grantType   GrantType
	code        *string
	redirectURI *string
}

// GrantType returns the requested grant type.
func (r *TokenRequest) GrantType() GrantType { return r.grantType }

// Code returns the authorization code when one was supplied. Validation
// guarantees presence for the authorization_code grant.
func (r *TokenRequest) Code() (string, bool) {
	if r.code == nil {
		return "", false
	}
	return *r.code, true
}

// RedirectURI returns the redirect URI when one was supplied. Validation
// guarantees presence for every grant type except client_credentials.
func (r *TokenRequest) RedirectURI() (string, bool) {
	if r.redirectURI == nil {
		return "", false
	}
	return *r.redirectURI, true
}

// TokenRequestBuilder accumulates raw optional fields from an untyped form
// multimap and a validation state. Lifecycle: NewTokenRequestBuilder ->
// LoadParams -> Validate -> Build. Build never yields a partially valid
// request: it returns either a complete TokenRequest or a complete error.
type TokenRequestBuilder struct {
	grantType   *string
	code        *string
	redirectURI *string

	state *validation.State
}

// NewTokenRequestBuilder returns an empty builder.
func NewTokenRequestBuilder() *TokenRequestBuilder {
	return &TokenRequestBuilder{state: validation.NewState()}
}

// LoadParams copies at most one value per recognized key out of the form
// multimap. A key supplied more than once is ambiguous input and fails here
// rather than being resolved by taking the first value.
func (b *TokenRequestBuilder) LoadParams(params map[string][]string) error {
	var err error
	if b.grantType, err = validation.MaybeOne(params, "grant_type"); err != nil {
		return oidcerr.Param(err)
	}
	if b.code, err = validation.MaybeOne(params, "code"); err != nil {
		return oidcerr.Param(err)
	}
	if b.redirectURI, err = validation.MaybeOne(params, "redirect_uri"); err != nil {
		return oidcerr.Param(err)
	}
	return nil
}

// Validate resets the validation state and applies field-presence and
// cross-field rules, recording every violation found. It never stops at the
// first failure.
func (b *TokenRequestBuilder) Validate() (bool, error) {
	b.state = validation.NewState()

	var grantType GrantType
	if b.grantType == nil {
		b.state.Reject("grant_type", validation.MissingRequiredValue("grant_type"))
	} else {
		var err error
		if grantType, err = ParseGrantType(*b.grantType); err != nil {
			b.state.Reject("grant_type", validation.InvalidValue("grant_type"))
		}
	}

	if grantType == AuthorizationCodeGrant {
		if b.code == nil {
			b.state.Reject("code", validation.MissingRequiredValue("code"))
		} else if strings.TrimSpace(*b.code) == "" {
			b.state.Reject("code", validation.InvalidValuef("code must not be empty"))
		}
	}

	// The redirect_uri is required for every grant type except
	// client_credentials, including requests whose grant_type is missing or
	// unknown, so one round trip reports every problem.
	if grantType != ClientCredentialsGrant {
		if b.redirectURI == nil {
			b.state.Reject("redirect_uri", validation.MissingRequiredValue("redirect_uri"))
		} else if strings.TrimSpace(*b.redirectURI) == "" {
			b.state.Reject("redirect_uri", validation.InvalidValuef("redirect_uri must not be empty"))
		}
	}

	return b.state.Valid, nil
}

// Build is the single gate into TokenRequest. It fails with the complete
// validation state when any rule was violated.
func (b *TokenRequestBuilder) Build() (*TokenRequest, error) {
	if !b.state.Valid {
		return nil, oidcerr.Validation(b.state)
	}
	if b.grantType == nil {
		// Unreachable through Validate; trips when Build is called on a
		// builder that never validated.
		return nil, oidcerr.Internal("token request built without a grant_type")
	}
	grantType, err := ParseGrantType(*b.grantType)
	if err != nil {
		return nil, err
	}
	return &TokenRequest{
		grantType:   grantType,
		code:        b.code,
		redirectURI: b.redirectURI,
	}, nil
}

// BuildTokenRequest runs the full builder lifecycle against a raw form
// multimap.
func BuildTokenRequest(params map[string][]string) (*TokenRequest, error) {
	builder := NewTokenRequestBuilder()
	if err := builder.LoadParams(params); err != nil {
		return nil, err
	}
	if _, err := builder.Validate(); err != nil {
		return nil, err
	}
	return builder.Build()
}
