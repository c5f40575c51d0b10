package server

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-oidc-provider/oauth2"
	"github.com/jrsteele09/go-oidc-provider/oidcerr"
)

// Token exchanges an authorization artifact for tokens. The pipeline is
// strictly ordered: body decode, then syntactic validation via the request
// builder, then the policy gate and exchange inside the token service. On
// success exactly one token is serialized; on failure exactly one taxonomy
// error is.
func (s *Server) Token() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.writeError(w, oidcerr.URLDecoding(err))
			return
		}
		if len(r.PostForm) == 0 {
			s.writeError(w, oidcerr.EmptyPostBody())
			return
		}

		tokenRequest, err := oauth2.BuildTokenRequest(r.PostForm)
		if err != nil {
			s.writeError(w, err)
			return
		}

		issued, err := s.tokens.Exchange(r.Context(), tokenRequest)
		if err != nil {
			s.writeError(w, err)
			return
		}

		log.Debug().Str("grant_type", string(tokenRequest.GrantType())).Msg("token issued")
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Pragma", "no-cache")
		s.writeJSON(w, http.StatusOK, issued)
	}
}
