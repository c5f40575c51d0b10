package config

import (
	"fmt"
	"os"
)

const (
	portEnvVar       = "PORT"
	appNameVar       = "APP_NAME"
	issuerVar        = "ISSUER"
	audienceVar      = "AUDIENCE"
	tokenKeyVar      = "TOKEN_SIGNING_KEY"
	cookieKeyVar     = "COOKIE_SIGNING_KEY"
	redisAddrVar     = "REDIS_ADDR"
	redisPasswordVar = "REDIS_PASSWORD"
)

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetIssuer() string
	GetAudience() string
	GetTokenSigningKey() []byte
	GetCookieSigningKey() []byte
	GetRedisAddr() string
	GetRedisPassword() string
}

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Go OIDC Provider")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

// GetIssuer returns the issuer URL stamped into every token
// (e.g. "https://auth.example.com").
func (EnvVars) GetIssuer() string {
	return GetEnv(issuerVar, "http://localhost:8080")
}

func (EnvVars) GetAudience() string {
	return GetEnv(audienceVar, "api")
}

func (EnvVars) GetTokenSigningKey() []byte {
	return []byte(GetEnv(tokenKeyVar, "insecure-dev-token-key"))
}

func (EnvVars) GetCookieSigningKey() []byte {
	return []byte(GetEnv(cookieKeyVar, "insecure-dev-cookie-key"))
}

// GetRedisAddr returns the redis address for the session store; empty keeps
// sessions in memory.
func (EnvVars) GetRedisAddr() string {
	return GetEnv(redisAddrVar, "")
}

func (EnvVars) GetRedisPassword() string {
	return GetEnv(redisPasswordVar, "")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
