// Package server wires the HTTP edge: the token endpoint, login/logout and
// registration, on top of the grant dispatch, the authenticator and the
// login session manager.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-oidc-provider/auth"
	"github.com/jrsteele09/go-oidc-provider/internal/config"
	"github.com/jrsteele09/go-oidc-provider/login"
	"github.com/jrsteele09/go-oidc-provider/sessions"
	"github.com/jrsteele09/go-oidc-provider/token"
	"github.com/jrsteele09/go-oidc-provider/users"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
)

// Repos holds the persistence collaborators a Server is built on.
type Repos struct {
	Users    users.Repo
	Sessions sessions.Repo
	Refresh  token.RefreshTokenRepo
}

type Server struct {
	env    string
	mux    *http.ServeMux
	routes []string
	config config.Config

	users  users.Repo
	authn  auth.Authenticator
	tokens *auth.TokenService
	codes  *token.Manager
	logins *login.Manager[*users.User]
}

func New(cfg config.Config, repos Repos) (*Server, error) {
	if repos.Users == nil {
		return nil, errors.New("[server.New] users repo is required")
	}
	if repos.Sessions == nil {
		return nil, errors.New("[server.New] sessions repo is required")
	}
	if repos.Refresh == nil {
		return nil, errors.New("[server.New] refresh token repo is required")
	}

	signer, err := token.NewHMACSigner(cfg.GetTokenSigningKey())
	if err != nil {
		return nil, errors.Wrap(err, "[server.New] token signer")
	}
	codes, err := token.New(repos.Sessions, repos.Users, repos.Refresh, signer,
		token.WithIssuer(cfg.GetIssuer()),
		token.WithAudience(cfg.GetAudience()),
		token.WithTokenExpiry(cfg.GetAccessTokenExpiry(), cfg.GetIDTokenExpiry(), cfg.GetRefreshTokenExpiry()),
		token.WithAuthCodeTimeout(cfg.GetAuthCodeTimeout()),
	)
	if err != nil {
		return nil, errors.Wrap(err, "[server.New] token manager")
	}

	tokenService, err := auth.NewTokenService(cfg, codes)
	if err != nil {
		return nil, errors.Wrap(err, "[server.New] token service")
	}
	authenticator, err := auth.NewRepoAuthenticator(repos.Users)
	if err != nil {
		return nil, errors.Wrap(err, "[server.New] authenticator")
	}

	logins, err := newLoginManager(cfg, repos.Users)
	if err != nil {
		return nil, errors.Wrap(err, "[server.New] login manager")
	}

	s := &Server{
		env:    cfg.GetEnv(),
		mux:    http.NewServeMux(),
		config: cfg,
		users:  repos.Users,
		authn:  authenticator,
		tokens: tokenService,
		codes:  codes,
		logins: logins,
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func newLoginManager(cfg config.Config, userRepo users.Repo) (*login.Manager[*users.User], error) {
	codec, err := login.NewJWTCodec(cfg.GetCookieSigningKey())
	if err != nil {
		return nil, err
	}

	loginConfig := login.DefaultConfig()
	if cfg.GetEnv() == "DEV" {
		loginConfig.Secure = false // local development runs over plain HTTP
	}

	return login.NewManager(codec, func(ctx context.Context, id string) (*users.User, error) {
		user, err := userRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, errors.Errorf("no user for session id %q", id)
		}
		return user, nil
	}, login.WithConfig[*users.User](loginConfig))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			log.Debug().Msg(fmt.Sprintf("[%-7s] %s", parts[0], parts[1]))
		} else {
			log.Debug().Msg(fmt.Sprintf("[%-7s] %s", "", parts[0]))
		}
	}
}
