// Package config exposes process-wide configuration behind composed
// read-only interfaces. Everything is resolved once at startup; nothing here
// is mutable afterwards.
package config

type Config interface {
	EnvConfig
	OAuthConfig
}

type mainConfig struct {
	EnvVars
	OAuth
}

func New() Config {
	return mainConfig{OAuth: NewOAuth()}
}
