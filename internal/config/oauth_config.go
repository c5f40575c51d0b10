package config

import (
	"strings"
	"time"

	"github.com/jrsteele09/go-oidc-provider/oauth2"
)

const enabledGrantsVar = "ENABLED_GRANTS"

type OAuthConfig interface {
	// GrantEnabled reports whether site policy allows a grant type. The
	// policy is fixed at startup.
	GrantEnabled(grantType oauth2.GrantType) bool
	GetAccessTokenExpiry() time.Duration
	GetIDTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	GetAuthCodeTimeout() time.Duration
}

type OAuth struct {
	enabledGrants map[oauth2.GrantType]struct{}
}

var _ OAuthConfig = OAuth{}

// NewOAuth resolves the grant policy from ENABLED_GRANTS, a comma-separated
// list of grant type names. Unknown names are ignored rather than enabled.
func NewOAuth() OAuth {
	enabled := make(map[oauth2.GrantType]struct{})
	for _, name := range strings.Split(GetEnv(enabledGrantsVar, string(oauth2.AuthorizationCodeGrant)), ",") {
		grantType, err := oauth2.ParseGrantType(strings.TrimSpace(name))
		if err != nil {
			continue
		}
		enabled[grantType] = struct{}{}
	}
	return OAuth{enabledGrants: enabled}
}

func (o OAuth) GrantEnabled(grantType oauth2.GrantType) bool {
	_, ok := o.enabledGrants[grantType]
	return ok
}

func (OAuth) GetAccessTokenExpiry() time.Duration {
	return 15 * time.Minute
}

func (OAuth) GetIDTokenExpiry() time.Duration {
	return 1 * time.Hour
}

func (OAuth) GetRefreshTokenExpiry() time.Duration {
	return 7 * 24 * time.Hour
}

func (OAuth) GetAuthCodeTimeout() time.Duration {
	return 15 * time.Minute
}
