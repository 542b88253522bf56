// Package storage is the durable client-side key/value store the storefront
// keeps its session state in (auth tokens, theme preference).
package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: key not found")

type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

const (
	AuthTokensKey = "teagram-auth"
	ThemeKey      = "tea-shop-theme"
)
