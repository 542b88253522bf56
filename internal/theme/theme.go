// Package theme keeps the light/dark preference in durable storage.
package theme

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aaravmahajanofficial/teagram/internal/storage"
)

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

func (t Theme) Valid() bool {
	return t == Light || t == Dark
}

type Holder struct {
	mu      sync.RWMutex
	storage storage.Storage
	current Theme
	logger  *slog.Logger
}

// Load reads the stored preference; a missing or unknown value means light.
func Load(ctx context.Context, s storage.Storage, logger *slog.Logger) *Holder {
	if logger == nil {
		logger = slog.Default()
	}

	h := &Holder{storage: s, current: Light, logger: logger}

	value, err := s.Get(ctx, storage.ThemeKey)
	switch {
	case err == nil && Theme(value).Valid():
		h.current = Theme(value)
	case err == nil:
		logger.Warn("Ignoring unknown stored theme", slog.String("theme", value))
	case !errors.Is(err, storage.ErrNotFound):
		logger.Error("Failed to read theme preference", slog.String("error", err.Error()))
	}

	return h
}

func (h *Holder) Get() Theme {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return h.current
}

func (h *Holder) Set(ctx context.Context, t Theme) error {
	if !t.Valid() {
		return fmt.Errorf("unknown theme %q", t)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.storage.Set(ctx, storage.ThemeKey, string(t)); err != nil {
		return fmt.Errorf("failed to persist theme: %w", err)
	}
	h.current = t

	return nil
}

// Toggle flips between light and dark and returns the new theme.
func (h *Holder) Toggle(ctx context.Context) (Theme, error) {
	next := Dark
	if h.Get() == Dark {
		next = Light
	}

	if err := h.Set(ctx, next); err != nil {
		return h.Get(), err
	}

	return next, nil
}
