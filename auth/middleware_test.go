package auth_test

import (
	"net/http"
	"testing"

	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/safespace/safespace-api/auth"
)

func TestProtectedRoute(t *testing.T) {
	cfg := newTestConfig()
	auther := auth.NewAuthenticator(new(MockIdentityProvider), cfg)

	middleware := auth.ProtectedRoute(cfg, auther.TokenService(), func(c router.Context, err error) error {
		return err
	})

	handler := middleware(func(ctx router.Context) error {
		return ctx.Next()
	})

	t.Run("Valid token reaches the handler", func(t *testing.T) {
		token, err := auther.TokenForIdentity(TestIdentity{id: "user-1", verified: true})
		require.NoError(t, err)

		ctx := router.NewMockContext()
		ctx.On("GetString", "Authorization", "").Return("Bearer " + token)
		ctx.On("Locals", "user", mock.Anything).Return(nil)

		err = handler(ctx)
		require.NoError(t, err)
		assert.True(t, ctx.NextCalled)
	})

	t.Run("Missing token is rejected", func(t *testing.T) {
		ctx := router.NewMockContext()
		ctx.On("GetString", "Authorization", "").Return("")

		err := handler(ctx)
		require.Error(t, err)
		assert.False(t, ctx.NextCalled)
	})

	t.Run("Tampered token is rejected", func(t *testing.T) {
		other := auth.NewAuthenticator(new(MockIdentityProvider), testConfig{
			signingKey: "a-completely-different-secret!!!",
			expiration: 1,
		})

		token, err := other.TokenForIdentity(TestIdentity{id: "user-1"})
		require.NoError(t, err)

		ctx := router.NewMockContext()
		ctx.On("GetString", "Authorization", "").Return("Bearer " + token)

		err = handler(ctx)
		require.Error(t, err)
		assert.False(t, ctx.NextCalled)
	})
}

func TestDefaultAuthErrorHandler(t *testing.T) {
	t.Run("Generic failures", func(t *testing.T) {
		ctx := router.NewMockContext()

		var payload map[string]any
		ctx.On("JSON", http.StatusUnauthorized, mock.Anything).Run(func(args mock.Arguments) {
			payload = args.Get(1).(map[string]any)
		}).Return(nil)

		err := auth.DefaultAuthErrorHandler(ctx, auth.ErrTokenMalformed)
		require.NoError(t, err)
		assert.Equal(t, "fail", payload["status"])
		assert.Contains(t, payload["message"], "not logged in")
	})

	t.Run("Expired sessions get their own message", func(t *testing.T) {
		ctx := router.NewMockContext()

		var payload map[string]any
		ctx.On("JSON", http.StatusUnauthorized, mock.Anything).Run(func(args mock.Arguments) {
			payload = args.Get(1).(map[string]any)
		}).Return(nil)

		err := auth.DefaultAuthErrorHandler(ctx, auth.ErrTokenExpired)
		require.NoError(t, err)
		assert.Contains(t, payload["message"], "expired")
	})
}
