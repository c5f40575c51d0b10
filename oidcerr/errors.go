// Package oidcerr defines the closed error taxonomy for the authorization
// server. Every failure mode in the core maps to exactly one Kind, every Kind
// maps to exactly one wire status class, and causes are preserved internally
// without ever reaching the response body.
package oidcerr

import (
	"errors"
	"fmt"

	"github.com/jrsteele09/go-oidc-provider/validation"
)

// Kind identifies one variant of the taxonomy. The set is closed: code in
// this module never fabricates kinds at runtime and the status mapping below
// is total over it.
type Kind int

const (
	KindUnknown Kind = iota
	KindIO
	KindUnknownResponseType
	KindUnknownGrantType
	KindUnsupportedGrantType
	KindScopeNotFound
	KindNotImplemented
	KindURLDecoding
	KindParam
	KindURLParse
	KindUserAlreadyExists
	KindUserNotFound
	KindClientApplicationAlreadyExists
	KindClientApplicationNotFound
	KindInvalidRedirectURI
	KindValidation
	KindEmptyPostBody
	KindJSON
	KindPostBodyParse
	KindPersistence
	KindTokenSigning
	KindAuthCodeInvalid
	KindInvalidUsernameOrPassword
	KindInternal
)

var kindNames = map[Kind]string{
	KindUnknown:                        "unknown",
	KindIO:                             "io_error",
	KindUnknownResponseType:            "unknown_response_type",
	KindUnknownGrantType:               "unknown_grant_type",
	KindUnsupportedGrantType:           "unsupported_grant_type",
	KindScopeNotFound:                  "scope_not_found",
	KindNotImplemented:                 "not_implemented",
	KindURLDecoding:                    "url_decoding_error",
	KindParam:                          "param_error",
	KindURLParse:                       "url_parse_error",
	KindUserAlreadyExists:              "user_already_exists",
	KindUserNotFound:                   "user_not_found",
	KindClientApplicationAlreadyExists: "client_application_already_exists",
	KindClientApplicationNotFound:      "client_application_not_found",
	KindInvalidRedirectURI:             "invalid_redirect_uri",
	KindValidation:                     "validation_error",
	KindEmptyPostBody:                  "empty_post_body",
	KindJSON:                           "json_error",
	KindPostBodyParse:                  "post_body_parse_error",
	KindPersistence:                    "persistence_error",
	KindTokenSigning:                   "token_signing_error",
	KindAuthCodeInvalid:                "auth_code_invalid",
	KindInvalidUsernameOrPassword:      "invalid_username_or_password",
	KindInternal:                       "internal_error",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Error is one instance of the taxonomy. Detail carries the offending value
// (grant type, scope, ...) for logs, state carries the full rejection set for
// validation failures, and err is the wrapped collaborator cause.
type Error struct {
	kind   Kind
	detail string
	state  *validation.State
	err    error
}

func (e *Error) Error() string {
	switch e.kind {
	case KindIO:
		return fmt.Sprintf("I/O error: %v", e.err)
	case KindUnknownResponseType:
		return fmt.Sprintf("unknown response_type: %s", e.detail)
	case KindUnknownGrantType:
		return fmt.Sprintf("unknown grant_type: %s", e.detail)
	case KindUnsupportedGrantType:
		return fmt.Sprintf("unsupported grant_type: %s", e.detail)
	case KindScopeNotFound:
		return fmt.Sprintf("scope not found: %s", e.detail)
	case KindNotImplemented:
		if e.detail == "" {
			return "not implemented"
		}
		return fmt.Sprintf("not implemented: %s", e.detail)
	case KindURLDecoding:
		return fmt.Sprintf("url decoding error: %v", e.err)
	case KindParam:
		return fmt.Sprintf("param error: %v", e.err)
	case KindURLParse:
		return fmt.Sprintf("error parsing url: %v", e.err)
	case KindUserAlreadyExists:
		return "user already exists"
	case KindUserNotFound:
		return "user not found"
	case KindClientApplicationAlreadyExists:
		return "application already exists"
	case KindClientApplicationNotFound:
		return "application not found"
	case KindInvalidRedirectURI:
		return "redirect uri is not recognised"
	case KindValidation:
		return fmt.Sprintf("validation error: %s", e.state)
	case KindEmptyPostBody:
		return "empty post body"
	case KindJSON:
		return fmt.Sprintf("json error: %v", e.err)
	case KindPostBodyParse:
		return fmt.Sprintf("error parsing post body: %v", e.err)
	case KindPersistence:
		return fmt.Sprintf("persistence error: %v", e.err)
	case KindTokenSigning:
		return fmt.Sprintf("token signing error: %v", e.err)
	case KindAuthCodeInvalid:
		return "authorization code invalid"
	case KindInvalidUsernameOrPassword:
		return "invalid username or password"
	case KindInternal:
		if e.detail != "" {
			return fmt.Sprintf("internal error: %s", e.detail)
		}
		return fmt.Sprintf("internal error: %v", e.err)
	}
	return "unknown error"
}

// Unwrap exposes the collaborator cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.err }

// Kind returns the taxonomy variant.
func (e *Error) Kind() Kind { return e.kind }

// Detail returns the variant-specific context value, if any.
func (e *Error) Detail() string { return e.detail }

// ValidationState returns the accumulated rejection set for KindValidation
// errors, nil for every other kind.
func (e *Error) ValidationState() *validation.State { return e.state }

// IO wraps a collaborator I/O failure.
func IO(err error) *Error { return &Error{kind: KindIO, err: err} }

// UnknownResponseType reports an unrecognised response_type wire value.
func UnknownResponseType(responseType string) *Error {
	return &Error{kind: KindUnknownResponseType, detail: responseType}
}

// UnknownGrantType reports an unrecognised grant_type wire value.
func UnknownGrantType(grantType string) *Error {
	return &Error{kind: KindUnknownGrantType, detail: grantType}
}

// UnsupportedGrantType reports a recognised grant type that site policy has
// disabled for this deployment.
func UnsupportedGrantType(grantType string) *Error {
	return &Error{kind: KindUnsupportedGrantType, detail: grantType}
}

// ScopeNotFound reports a scope no client application is registered for.
func ScopeNotFound(scope string) *Error {
	return &Error{kind: KindScopeNotFound, detail: scope}
}

// NotImplemented marks a branch that must fail loudly rather than fall
// through to behaviour it does not have.
func NotImplemented(what string) *Error {
	return &Error{kind: KindNotImplemented, detail: what}
}

// URLDecoding wraps a form/query decoding failure.
func URLDecoding(err error) *Error { return &Error{kind: KindURLDecoding, err: err} }

// Param wraps a parameter-access failure such as an ambiguous multi-valued key.
func Param(err error) *Error { return &Error{kind: KindParam, err: err} }

// URLParse wraps a URL parsing failure.
func URLParse(err error) *Error { return &Error{kind: KindURLParse, err: err} }

// UserAlreadyExists reports a registration conflict.
func UserAlreadyExists() *Error { return &Error{kind: KindUserAlreadyExists} }

// UserNotFound reports a missing user where one was required.
func UserNotFound() *Error { return &Error{kind: KindUserNotFound} }

// ClientApplicationAlreadyExists reports a client registration conflict.
func ClientApplicationAlreadyExists() *Error {
	return &Error{kind: KindClientApplicationAlreadyExists}
}

// ClientApplicationNotFound reports a missing client application.
func ClientApplicationNotFound() *Error {
	return &Error{kind: KindClientApplicationNotFound}
}

// InvalidRedirectURI reports a redirect URI that does not match the one
// registered or used at authorization time.
func InvalidRedirectURI() *Error { return &Error{kind: KindInvalidRedirectURI} }

// Validation wraps a completed validation pass that found violations. The
// state is carried whole so the caller can enumerate every rejected field.
func Validation(state *validation.State) *Error {
	return &Error{kind: KindValidation, state: state}
}

// EmptyPostBody reports a POST with no body where one was required.
func EmptyPostBody() *Error { return &Error{kind: KindEmptyPostBody} }

// JSON wraps a JSON encode/decode failure.
func JSON(err error) *Error { return &Error{kind: KindJSON, err: err} }

// PostBodyParse wraps a request-body parsing failure.
func PostBodyParse(err error) *Error { return &Error{kind: KindPostBodyParse, err: err} }

// Persistence wraps a storage collaborator failure.
func Persistence(err error) *Error { return &Error{kind: KindPersistence, err: err} }

// TokenSigning wraps a JWT signing failure.
func TokenSigning(err error) *Error { return &Error{kind: KindTokenSigning, err: err} }

// AuthCodeInvalid reports an authorization code that is unknown, expired or
// already consumed. The variants are deliberately indistinguishable on the
// wire.
func AuthCodeInvalid() *Error { return &Error{kind: KindAuthCodeInvalid} }

// InvalidUsernameOrPassword is the single wire-visible credential failure.
// Whether the username or the password was wrong is never distinguishable to
// the caller.
func InvalidUsernameOrPassword() *Error {
	return &Error{kind: KindInvalidUsernameOrPassword}
}

// Internal reports an internal-consistency fault with a diagnostic message.
func Internal(detail string) *Error { return &Error{kind: KindInternal, detail: detail} }

// Wrap coerces any error into the taxonomy. Errors already belonging to it
// pass through unchanged; anything else becomes an internal error with the
// cause preserved.
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}
	var oidcErr *Error
	if errors.As(err, &oidcErr) {
		return oidcErr
	}
	return &Error{kind: KindInternal, err: err}
}

// KindOf returns the taxonomy kind of err, or KindUnknown when err is not
// part of the taxonomy.
func KindOf(err error) Kind {
	var oidcErr *Error
	if errors.As(err, &oidcErr) {
		return oidcErr.kind
	}
	return KindUnknown
}
