package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Local {
	t.Helper()
	s, err := OpenLocal(filepath.Join(t.TempDir(), "powerbooks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLocal_GetSet(t *testing.T) {
	s := openTestStore(t)

	t.Run("missing key", func(t *testing.T) {
		_, ok, err := s.Get("nope")
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("round trip", func(t *testing.T) {
		require.NoError(t, s.Set(KeyToken, "abc"))
		v, ok, err := s.Get(KeyToken)
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "abc", v)
	})

	t.Run("set overwrites", func(t *testing.T) {
		require.NoError(t, s.Set(KeyPromotion, "Y"))
		require.NoError(t, s.Set(KeyPromotion, "N"))
		v, _, _ := s.Get(KeyPromotion)
		assert.Equal(t, "N", v)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Set("k", "v"))
		require.NoError(t, s.Delete("k"))
		_, ok, _ := s.Get("k")
		assert.False(t, ok)

		assert.NoError(t, s.Delete("k"), "deleting an absent key is a no-op")
	})
}

func TestOpenLocal_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "store.db")
	s, err := OpenLocal(path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set("k", "v"))
}
