package theme_test

import (
	"testing"

	"github.com/aaravmahajanofficial/teagram/internal/storage"
	"github.com/aaravmahajanofficial/teagram/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolder(t *testing.T) {
	ctx := t.Context()

	t.Run("Defaults to light", func(t *testing.T) {
		h := theme.Load(ctx, storage.NewMemoryStorage(), nil)

		assert.Equal(t, theme.Light, h.Get())
	})

	t.Run("Reads stored preference", func(t *testing.T) {
		mem := storage.NewMemoryStorage()
		require.NoError(t, mem.Set(ctx, storage.ThemeKey, "dark"))

		assert.Equal(t, theme.Dark, theme.Load(ctx, mem, nil).Get())
	})

	t.Run("Unknown stored value falls back to light", func(t *testing.T) {
		mem := storage.NewMemoryStorage()
		require.NoError(t, mem.Set(ctx, storage.ThemeKey, "sepia"))

		assert.Equal(t, theme.Light, theme.Load(ctx, mem, nil).Get())
	})

	t.Run("Toggle persists under its own key", func(t *testing.T) {
		mem := storage.NewMemoryStorage()
		h := theme.Load(ctx, mem, nil)

		next, err := h.Toggle(ctx)
		require.NoError(t, err)
		assert.Equal(t, theme.Dark, next)

		stored, err := mem.Get(ctx, storage.ThemeKey)
		require.NoError(t, err)
		assert.Equal(t, "dark", stored)

		next, err = h.Toggle(ctx)
		require.NoError(t, err)
		assert.Equal(t, theme.Light, next)

		_, err = mem.Get(ctx, storage.AuthTokensKey)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Invalid theme is rejected", func(t *testing.T) {
		h := theme.Load(ctx, storage.NewMemoryStorage(), nil)

		assert.Error(t, h.Set(ctx, "sepia"))
		assert.Equal(t, theme.Light, h.Get())
	})
}
