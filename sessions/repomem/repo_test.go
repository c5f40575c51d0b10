package repomem_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/go-oidc-provider/sessions"
	"github.com/jrsteele09/go-oidc-provider/sessions/repomem"
	"github.com/stretchr/testify/require"
)

func testSession() *sessions.SessionData {
	return &sessions.SessionData{
		ID:          "session-1",
		Username:    "john.doe",
		AuthCode:    "ABC123",
		RedirectURI: "https://client/cb",
		CreatedAt:   time.Now(),
	}
}

func TestConsumeByCode(t *testing.T) {
	ctx := context.Background()

	t.Run("consume returns the session and removes it", func(t *testing.T) {
		repo := repomem.New()
		require.NoError(t, repo.Upsert(ctx, testSession()))

		session, err := repo.ConsumeByCode(ctx, "ABC123")
		require.NoError(t, err)
		require.NotNil(t, session)
		require.Equal(t, "session-1", session.ID)

		again, err := repo.ConsumeByCode(ctx, "ABC123")
		require.NoError(t, err)
		require.Nil(t, again)

		byID, err := repo.Get(ctx, "session-1")
		require.NoError(t, err)
		require.Nil(t, byID)
	})

	t.Run("GetByCode is a non-consuming read", func(t *testing.T) {
		repo := repomem.New()
		require.NoError(t, repo.Upsert(ctx, testSession()))

		first, err := repo.GetByCode(ctx, "ABC123")
		require.NoError(t, err)
		require.NotNil(t, first)

		second, err := repo.GetByCode(ctx, "ABC123")
		require.NoError(t, err)
		require.NotNil(t, second)
	})

	t.Run("unknown code is nil, not an error", func(t *testing.T) {
		repo := repomem.New()
		session, err := repo.ConsumeByCode(ctx, "never-issued")
		require.NoError(t, err)
		require.Nil(t, session)
	})

	t.Run("concurrent consumers get the session at most once", func(t *testing.T) {
		repo := repomem.New()
		require.NoError(t, repo.Upsert(ctx, testSession()))

		const consumers = 8
		var (
			got   atomic.Int32
			start sync.WaitGroup
			done  sync.WaitGroup
		)
		start.Add(1)
		done.Add(consumers)
		for i := 0; i < consumers; i++ {
			go func() {
				defer done.Done()
				start.Wait()
				session, err := repo.ConsumeByCode(ctx, "ABC123")
				require.NoError(t, err)
				if session != nil {
					got.Add(1)
				}
			}()
		}
		start.Done()
		done.Wait()

		require.Equal(t, int32(1), got.Load())
	})
}
