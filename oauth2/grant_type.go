// Package oauth2 holds the wire model for the token endpoint: grant types,
// the issued token artifact, and the validated token request together with
// its builder.
package oauth2

import "github.com/jrsteele09/go-oidc-provider/oidcerr"

// GrantType represents the OAuth 2.0 grant type used at the token endpoint.
// The set is closed; values are parsed case-sensitively and an unknown wire
// string is an error, never a default.
type GrantType string

const (
	// AuthorizationCodeGrant exchanges a single-use authorization code for tokens.
	AuthorizationCodeGrant GrantType = "authorization_code"

	// ClientCredentialsGrant allows machine-to-machine authentication with no
	// user context.
	ClientCredentialsGrant GrantType = "client_credentials"
)

// ParseGrantType parses a wire string into a GrantType.
func ParseGrantType(s string) (GrantType, error) {
	switch GrantType(s) {
	case AuthorizationCodeGrant:
		return AuthorizationCodeGrant, nil
	case ClientCredentialsGrant:
		return ClientCredentialsGrant, nil
	default:
		return "", oidcerr.UnknownGrantType(s)
	}
}
