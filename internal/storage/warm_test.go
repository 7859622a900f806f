package storage

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestWarmer(t *testing.T, prime func(ctx context.Context) error) (*Warmer, *Local) {
	t.Helper()
	store := openTestStore(t)
	w := NewWarmer(store, DefaultWarmTTL, prime, zap.NewNop())
	return w, store
}

func stampWarmedAt(t *testing.T, store *Local, at time.Time) {
	t.Helper()
	require.NoError(t, store.Set(KeyWarmedAt, strconv.FormatInt(at.UnixMilli(), 10)))
}

func TestWarmer_ColdVisit(t *testing.T) {
	primed := 0
	w, store := newTestWarmer(t, func(ctx context.Context) error {
		primed++
		return nil
	})

	status := w.Check(context.Background())

	assert.Equal(t, Status{Splash: true, Promotion: true}, status)
	assert.Equal(t, 1, primed)
	assert.True(t, w.PromotionActive())

	// The warm timestamp was stamped.
	_, ok, err := store.Get(KeyWarmedAt)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWarmer_WarmVisit(t *testing.T) {
	w, store := newTestWarmer(t, func(ctx context.Context) error {
		t.Fatal("priming fetch must not run on a warm visit")
		return nil
	})
	stampWarmedAt(t, store, time.Now().Add(-time.Minute))

	status := w.Check(context.Background())

	assert.Equal(t, Status{Warm: true}, status)
	assert.False(t, w.PromotionActive(), "a warm visit clears the promotion flag")
}

func TestWarmer_TTLBoundary(t *testing.T) {
	now := time.Now()

	t.Run("just past the window shows splash and promotion", func(t *testing.T) {
		w, store := newTestWarmer(t, func(ctx context.Context) error { return nil })
		w.now = func() time.Time { return now }
		stampWarmedAt(t, store, now.Add(-(DefaultWarmTTL + time.Millisecond)))

		status := w.Check(context.Background())
		assert.Equal(t, Status{Splash: true, Promotion: true}, status)
	})

	t.Run("just inside the window skips both", func(t *testing.T) {
		w, store := newTestWarmer(t, func(ctx context.Context) error {
			t.Fatal("priming fetch must not run inside the window")
			return nil
		})
		w.now = func() time.Time { return now }
		stampWarmedAt(t, store, now.Add(-(DefaultWarmTTL - time.Millisecond)))

		status := w.Check(context.Background())
		assert.Equal(t, Status{Warm: true}, status)
	})
}

func TestWarmer_PrimeFailure(t *testing.T) {
	w, store := newTestWarmer(t, func(ctx context.Context) error {
		return errors.New("upstream down")
	})

	status := w.Check(context.Background())

	assert.Equal(t, Status{Splash: true}, status, "promotion stays off when priming fails")
	assert.False(t, w.PromotionActive())

	// The timestamp is stamped regardless, so the next visit within the
	// window does not retry.
	_, ok, err := store.Get(KeyWarmedAt)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWarmer_GarbageTimestampIsCold(t *testing.T) {
	primed := false
	w, store := newTestWarmer(t, func(ctx context.Context) error {
		primed = true
		return nil
	})
	require.NoError(t, store.Set(KeyWarmedAt, "not-a-number"))

	status := w.Check(context.Background())
	assert.True(t, status.Splash)
	assert.True(t, primed)
}

func TestWarmer_DismissPromotion(t *testing.T) {
	w, _ := newTestWarmer(t, func(ctx context.Context) error { return nil })
	w.Check(context.Background())
	require.True(t, w.PromotionActive())

	require.NoError(t, w.DismissPromotion())
	assert.False(t, w.PromotionActive())
}
