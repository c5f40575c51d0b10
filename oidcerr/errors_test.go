package oidcerr_test

import (
	"net/http"
	"testing"

	"github.com/jrsteele09/go-oidc-provider/oidcerr"
	"github.com/jrsteele09/go-oidc-provider/validation"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	t.Run("client faults are 400", func(t *testing.T) {
		for _, err := range []*oidcerr.Error{
			oidcerr.UnknownGrantType("bogus"),
			oidcerr.UnsupportedGrantType("client_credentials"),
			oidcerr.UnknownResponseType("bogus"),
			oidcerr.ScopeNotFound("admin"),
			oidcerr.URLDecoding(errors.New("bad form")),
			oidcerr.Param(errors.New("duplicate key")),
			oidcerr.EmptyPostBody(),
			oidcerr.AuthCodeInvalid(),
			oidcerr.InvalidRedirectURI(),
		} {
			require.Equal(t, http.StatusBadRequest, err.StatusCode(), err.Error())
		}
	})

	t.Run("credential failure is 401", func(t *testing.T) {
		require.Equal(t, http.StatusUnauthorized, oidcerr.InvalidUsernameOrPassword().StatusCode())
	})

	t.Run("conflicts are 409", func(t *testing.T) {
		require.Equal(t, http.StatusConflict, oidcerr.UserAlreadyExists().StatusCode())
		require.Equal(t, http.StatusConflict, oidcerr.ClientApplicationAlreadyExists().StatusCode())
	})

	t.Run("not implemented is 501", func(t *testing.T) {
		require.Equal(t, http.StatusNotImplemented, oidcerr.NotImplemented("client_credentials token exchange").StatusCode())
	})

	t.Run("collaborator faults are 500", func(t *testing.T) {
		for _, err := range []*oidcerr.Error{
			oidcerr.IO(errors.New("disk gone")),
			oidcerr.Persistence(errors.New("connection refused")),
			oidcerr.TokenSigning(errors.New("bad key")),
			oidcerr.Internal("invariant broken"),
		} {
			require.Equal(t, http.StatusInternalServerError, err.StatusCode(), err.Error())
		}
	})

	t.Run("non-taxonomy errors classify as internal", func(t *testing.T) {
		require.Equal(t, http.StatusInternalServerError, oidcerr.StatusCode(errors.New("plain error")))
	})
}

func TestWire(t *testing.T) {
	t.Run("validation errors enumerate rejected fields", func(t *testing.T) {
		state := validation.NewState()
		state.Reject("grant_type", validation.MissingRequiredValue("grant_type"))
		state.Reject("redirect_uri", validation.MissingRequiredValue("redirect_uri"))

		resp := oidcerr.Validation(state).Wire()
		require.Equal(t, "invalid_request", resp.Code)
		require.Contains(t, resp.Fields, "grant_type")
		require.Contains(t, resp.Fields, "redirect_uri")
	})

	t.Run("server-class errors never leak the cause", func(t *testing.T) {
		resp := oidcerr.Persistence(errors.New("dial tcp 10.0.0.5:5432: connection refused")).Wire()
		require.Equal(t, "server_error", resp.Code)
		require.Equal(t, "internal server error", resp.Description)
		require.NotContains(t, resp.Description, "10.0.0.5")
	})

	t.Run("grant errors use the RFC 6749 vocabulary", func(t *testing.T) {
		require.Equal(t, "unsupported_grant_type", oidcerr.UnknownGrantType("bogus").Wire().Code)
		require.Equal(t, "unsupported_grant_type", oidcerr.UnsupportedGrantType("client_credentials").Wire().Code)
		require.Equal(t, "invalid_grant", oidcerr.AuthCodeInvalid().Wire().Code)
		require.Equal(t, "invalid_grant", oidcerr.InvalidRedirectURI().Wire().Code)
		require.Equal(t, "access_denied", oidcerr.InvalidUsernameOrPassword().Wire().Code)
	})
}

func TestWrap(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		require.Nil(t, oidcerr.Wrap(nil))
	})

	t.Run("taxonomy errors survive wrapping unchanged", func(t *testing.T) {
		original := oidcerr.AuthCodeInvalid()
		wrapped := oidcerr.Wrap(errors.Wrap(original, "exchange failed"))
		require.Equal(t, oidcerr.KindAuthCodeInvalid, wrapped.Kind())
	})

	t.Run("foreign errors become internal with cause preserved", func(t *testing.T) {
		cause := errors.New("boom")
		wrapped := oidcerr.Wrap(cause)
		require.Equal(t, oidcerr.KindInternal, wrapped.Kind())
		require.ErrorIs(t, wrapped, cause)
	})
}

func TestKindOf(t *testing.T) {
	require.Equal(t, oidcerr.KindUserNotFound, oidcerr.KindOf(oidcerr.UserNotFound()))
	require.Equal(t, oidcerr.KindUnknown, oidcerr.KindOf(errors.New("plain")))
	require.Equal(t, oidcerr.KindUnknown, oidcerr.KindOf(nil))
}
