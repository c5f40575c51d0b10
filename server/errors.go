package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-oidc-provider/oidcerr"
)

// writeError renders any error through the taxonomy: the status class and
// wire body come from the error's kind, the full cause chain goes to the log
// and nowhere else.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	oidcErr := oidcerr.Wrap(err)
	if oidcErr.StatusCode() >= http.StatusInternalServerError {
		log.Error().Object("error", oidcErr).Msg("request failed")
	} else {
		log.Debug().Object("error", oidcErr).Msg("request rejected")
	}

	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(oidcErr.StatusCode())
	if encodeErr := json.NewEncoder(w).Encode(oidcErr.Wire()); encodeErr != nil {
		log.Error().Err(encodeErr).Msg("failed to encode error response")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
