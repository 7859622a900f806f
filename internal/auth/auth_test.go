package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"powerbooks/internal/storage"
)

func newTestService(t *testing.T) (*Service, *MockClient, *storage.Local) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	store, err := storage.OpenLocal(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	client := NewMockClient(ctrl)
	return NewService(client, store, zap.NewNop()), client, store
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success persists the token", func(t *testing.T) {
		svc, client, store := newTestService(t)
		client.EXPECT().
			Login(ctx, "reader@example.com", "hunter2").
			Return(Identity{Token: "tok-1", Email: "reader@example.com", Role: "customer", Username: "reader"}, nil)

		id, err := svc.Login(ctx, "reader@example.com", "hunter2")
		require.NoError(t, err)
		assert.True(t, id.SignedIn())
		assert.Equal(t, "reader", id.Username)

		v, ok, err := store.Get(storage.KeyToken)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "tok-1", v)
	})

	t.Run("upstream rejection reads as invalid credentials", func(t *testing.T) {
		svc, client, _ := newTestService(t)
		client.EXPECT().
			Login(ctx, "reader@example.com", "wrong").
			Return(Identity{}, errors.New("401 from upstream"))

		_, err := svc.Login(ctx, "reader@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("upstream outage reads the same", func(t *testing.T) {
		svc, client, _ := newTestService(t)
		client.EXPECT().
			Login(ctx, "reader@example.com", "hunter2").
			Return(Identity{}, errors.New("connection refused"))

		_, err := svc.Login(ctx, "reader@example.com", "hunter2")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("empty token in response is a failure", func(t *testing.T) {
		svc, client, _ := newTestService(t)
		client.EXPECT().
			Login(ctx, "reader@example.com", "hunter2").
			Return(Identity{Email: "reader@example.com"}, nil)

		_, err := svc.Login(ctx, "reader@example.com", "hunter2")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_Logout(t *testing.T) {
	svc, _, store := newTestService(t)
	require.NoError(t, store.Set(storage.KeyToken, "tok"))

	require.NoError(t, svc.Logout())

	_, ok, err := store.Get(storage.KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)
}

func signToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": "reader"}
	if !exp.IsZero() {
		claims["exp"] = exp.Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestTokenUsable(t *testing.T) {
	now := time.Now()

	assert.False(t, TokenUsable("", now))
	assert.False(t, TokenUsable("not.a.jwt", now))
	assert.False(t, TokenUsable(signToken(t, now.Add(-time.Minute)), now), "expired")
	assert.True(t, TokenUsable(signToken(t, now.Add(time.Hour)), now))
	assert.True(t, TokenUsable(signToken(t, time.Time{}), now), "no expiry claim")
}
