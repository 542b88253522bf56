package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aaravmahajanofficial/teagram/internal/models"
	"github.com/aaravmahajanofficial/teagram/internal/storage"
)

// TokenStore persists the session tokens under storage.AuthTokensKey.
type TokenStore struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewTokenStore(s storage.Storage, logger *slog.Logger) *TokenStore {
	if logger == nil {
		logger = slog.Default()
	}

	return &TokenStore{storage: s, logger: logger}
}

// Read never fails: unreadable or malformed entries are logged and treated
// as absent.
func (s *TokenStore) Read(ctx context.Context) *models.AuthTokens {

	raw, err := s.storage.Get(ctx, storage.AuthTokensKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Error("Failed to read auth tokens", slog.String("error", err.Error()))
		}
		return nil
	}

	if raw == "" {
		return nil
	}

	var tokens models.AuthTokens
	if err := json.Unmarshal([]byte(raw), &tokens); err != nil {
		s.logger.Error("Failed to parse auth tokens", slog.String("error", err.Error()))
		return nil
	}

	return &tokens
}

// Write persists tokens; nil clears the entry.
func (s *TokenStore) Write(ctx context.Context, tokens *models.AuthTokens) error {

	if tokens == nil {
		if err := s.storage.Delete(ctx, storage.AuthTokensKey); err != nil {
			return fmt.Errorf("failed to clear auth tokens: %w", err)
		}
		return nil
	}

	data, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("failed to marshal auth tokens: %w", err)
	}

	if err := s.storage.Set(ctx, storage.AuthTokensKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist auth tokens: %w", err)
	}

	return nil
}
