package validation_test

import (
	"testing"

	"github.com/jrsteele09/go-oidc-provider/validation"
	"github.com/stretchr/testify/require"
)

func TestState(t *testing.T) {
	t.Run("new state is valid and empty", func(t *testing.T) {
		s := validation.NewState()
		require.True(t, s.Valid)
		require.Empty(t, s.Rejections)
		require.Equal(t, "valid", s.String())
	})

	t.Run("reject latches invalid", func(t *testing.T) {
		s := validation.NewState()
		s.Reject("grant_type", validation.MissingRequiredValue("grant_type"))
		require.False(t, s.Valid)
		require.Len(t, s.Rejections["grant_type"], 1)
	})

	t.Run("accumulates multiple rejections per field", func(t *testing.T) {
		s := validation.NewState()
		s.Reject("password", validation.MissingRequiredValue("password"))
		s.Reject("password", validation.InvalidValuef("password must be at least 8 characters long"))
		require.Len(t, s.Rejections["password"], 2)
	})

	t.Run("fields are stable-ordered", func(t *testing.T) {
		s := validation.NewState()
		s.Reject("redirect_uri", validation.MissingRequiredValue("redirect_uri"))
		s.Reject("code", validation.MissingRequiredValue("code"))
		s.Reject("grant_type", validation.MissingRequiredValue("grant_type"))
		require.Equal(t, []string{"code", "grant_type", "redirect_uri"}, s.Fields())
	})

	t.Run("messages mirror every rejection", func(t *testing.T) {
		s := validation.NewState()
		s.Reject("code", validation.InvalidValuef("code must not be empty"))
		messages := s.Messages()
		require.Equal(t, []string{"code must not be empty"}, messages["code"])
	})
}

func TestMaybeOne(t *testing.T) {
	t.Run("absent key yields nil without error", func(t *testing.T) {
		v, err := validation.MaybeOne(map[string][]string{}, "grant_type")
		require.NoError(t, err)
		require.Nil(t, v)
	})

	t.Run("empty value list yields nil", func(t *testing.T) {
		v, err := validation.MaybeOne(map[string][]string{"grant_type": {}}, "grant_type")
		require.NoError(t, err)
		require.Nil(t, v)
	})

	t.Run("single value is returned", func(t *testing.T) {
		v, err := validation.MaybeOne(map[string][]string{"grant_type": {"authorization_code"}}, "grant_type")
		require.NoError(t, err)
		require.NotNil(t, v)
		require.Equal(t, "authorization_code", *v)
	})

	t.Run("duplicate key is ambiguous, not first-wins", func(t *testing.T) {
		v, err := validation.MaybeOne(map[string][]string{"code": {"a", "b"}}, "code")
		require.Error(t, err)
		require.Nil(t, v)

		var ambiguous *validation.AmbiguousValueError
		require.ErrorAs(t, err, &ambiguous)
		require.Equal(t, "code", ambiguous.Key)
		require.Equal(t, 2, ambiguous.Count)
	})
}
