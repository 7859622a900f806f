package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState(t *testing.T) {
	t.Run("starts on home", func(t *testing.T) {
		s := NewState()
		assert.Equal(t, Home, s.Current())
	})

	t.Run("set remembers the previous view", func(t *testing.T) {
		s := NewState()
		s.Set(Shop)
		assert.Equal(t, Shop, s.Current())
		assert.Equal(t, Home, s.Previous())

		s.Set(Details)
		assert.Equal(t, Details, s.Current())
		assert.Equal(t, Shop, s.Previous())
	})

	t.Run("unknown views are ignored", func(t *testing.T) {
		s := NewState()
		s.Set(Shop)
		s.Set(View("checkout"))
		assert.Equal(t, Shop, s.Current())
		assert.Equal(t, Home, s.Previous())
	})

	t.Run("back is a single step", func(t *testing.T) {
		s := NewState()
		s.Set(Shop)
		s.Set(Details)

		assert.Equal(t, Shop, s.Back())
		assert.Equal(t, Shop, s.Current())

		// History is one level deep; a second back lands on home.
		assert.Equal(t, Home, s.Back())
	})
}
