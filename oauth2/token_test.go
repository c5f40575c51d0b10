package oauth2_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/jrsteele09/go-oidc-provider/internal/utils"
	"github.com/jrsteele09/go-oidc-provider/oauth2"
	"github.com/stretchr/testify/require"
)

func TestToken_JSON(t *testing.T) {
	t.Run("serializes expires_in as whole seconds", func(t *testing.T) {
		issued := oauth2.NewToken("access", nil, 15*time.Minute, nil)
		body, err := json.Marshal(issued)
		require.NoError(t, err)

		var wire map[string]any
		require.NoError(t, json.Unmarshal(body, &wire))
		require.Equal(t, float64(900), wire["expires_in"])
		require.Equal(t, "Bearer", wire["token_type"])
	})

	t.Run("omits optional refresh and id tokens", func(t *testing.T) {
		issued := oauth2.NewToken("access", nil, time.Minute, nil)
		body, err := json.Marshal(issued)
		require.NoError(t, err)
		require.NotContains(t, string(body), "refresh_token")
		require.NotContains(t, string(body), "id_token")
	})

	t.Run("carries refresh and id tokens when present", func(t *testing.T) {
		issued := oauth2.NewToken("access", utils.Ptr("refresh"), time.Minute, utils.Ptr("identity"))
		body, err := json.Marshal(issued)
		require.NoError(t, err)

		var decoded oauth2.Token
		require.NoError(t, json.Unmarshal(body, &decoded))
		require.Equal(t, "refresh", utils.Value(decoded.RefreshToken))
		require.Equal(t, "identity", utils.Value(decoded.IDToken))
	})

	t.Run("rejects non-Bearer token_type", func(t *testing.T) {
		var decoded oauth2.Token
		err := json.Unmarshal([]byte(`{"access_token":"a","token_type":"MAC","expires_in":60}`), &decoded)
		require.Error(t, err)
		require.Contains(t, err.Error(), "MAC")
	})
}
