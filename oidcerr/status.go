package oidcerr

import (
	"net/http"

	"github.com/rs/zerolog"
)

// StatusCode maps an error kind onto its wire-visible status. The mapping is
// total: client faults land in the 4xx class, unimplemented branches report
// themselves as such, and every other kind collapses to 500 so collaborator
// internals never leak into the response class.
func (e *Error) StatusCode() int {
	switch e.kind {
	case KindUnknownResponseType,
		KindUnknownGrantType,
		KindUnsupportedGrantType,
		KindScopeNotFound,
		KindURLDecoding,
		KindParam,
		KindValidation,
		KindEmptyPostBody,
		KindJSON,
		KindPostBodyParse,
		KindInvalidRedirectURI,
		KindAuthCodeInvalid:
		return http.StatusBadRequest
	case KindInvalidUsernameOrPassword:
		return http.StatusUnauthorized
	case KindUserAlreadyExists, KindClientApplicationAlreadyExists:
		return http.StatusConflict
	case KindNotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// StatusCode classifies any error: taxonomy errors use their own mapping,
// everything else is an internal fault.
func StatusCode(err error) int {
	return Wrap(err).StatusCode()
}

// Response is the JSON error body sent to clients. Code follows the RFC 6749
// error vocabulary where one applies. Fields enumerates every rejected field
// for validation failures and is omitted otherwise.
type Response struct {
	Code        string              `json:"error"`
	Description string              `json:"error_description,omitempty"`
	Fields      map[string][]string `json:"fields,omitempty"`
}

// Wire renders the external representation of the error. Internal causes are
// deliberately absent: server-class errors carry only their generic fault
// class.
func (e *Error) Wire() Response {
	resp := Response{Code: e.wireCode()}
	switch {
	case e.kind == KindValidation && e.state != nil:
		resp.Description = "one or more request parameters were rejected"
		resp.Fields = e.state.Messages()
	case e.StatusCode() >= http.StatusInternalServerError && e.kind != KindNotImplemented:
		resp.Description = "internal server error"
	default:
		resp.Description = e.Error()
	}
	return resp
}

func (e *Error) wireCode() string {
	switch e.kind {
	case KindValidation, KindParam, KindURLDecoding, KindEmptyPostBody, KindJSON, KindPostBodyParse:
		return "invalid_request"
	case KindUnknownGrantType, KindUnsupportedGrantType:
		return "unsupported_grant_type"
	case KindUnknownResponseType:
		return "unsupported_response_type"
	case KindScopeNotFound:
		return "invalid_scope"
	case KindAuthCodeInvalid, KindInvalidRedirectURI:
		return "invalid_grant"
	case KindInvalidUsernameOrPassword:
		return "access_denied"
	case KindUserAlreadyExists, KindClientApplicationAlreadyExists:
		return "conflict"
	default:
		return "server_error"
	}
}

// MarshalZerologObject emits the full internal representation, including the
// wrapped cause, for structured diagnostics. This is the log-side counterpart
// of Wire.
func (e *Error) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("kind", e.kind.String()).Int("status", e.StatusCode())
	if e.detail != "" {
		ev.Str("detail", e.detail)
	}
	if e.state != nil {
		ev.Str("rejections", e.state.String())
	}
	if e.err != nil {
		ev.AnErr("cause", e.err)
	}
}
