package devserver

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aaravmahajanofficial/teagram/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidRefreshToken = errors.New("refresh token is invalid or expired")

type refreshEntry struct {
	userID    string
	expiresAt time.Time
}

// Tokens issues HS256 access tokens and opaque, single-use refresh tokens.
type Tokens struct {
	key        []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time

	mu      sync.Mutex
	refresh map[string]refreshEntry
}

func NewTokens(key []byte, accessTTL, refreshTTL time.Duration) *Tokens {
	return &Tokens{
		key:        key,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
		refresh:    make(map[string]refreshEntry),
	}
}

// Bootstrap creates a refresh token for userID, used to start a session.
func (t *Tokens) Bootstrap(userID string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.newRefreshLocked(userID)
}

// Issue returns a fresh token pair for userID.
func (t *Tokens) Issue(userID string) (*models.AuthTokens, error) {

	now := t.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.accessTTL)),
	}

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	t.mu.Lock()
	refresh := t.newRefreshLocked(userID)
	t.mu.Unlock()

	return &models.AuthTokens{
		AccessToken:      access,
		RefreshToken:     refresh,
		ExpiresIn:        int(t.accessTTL / time.Second),
		RefreshExpiresIn: int(t.refreshTTL / time.Second),
	}, nil
}

// Refresh rotates refreshToken into a new token pair. Each refresh token
// works once.
func (t *Tokens) Refresh(refreshToken string) (*models.AuthTokens, error) {

	t.mu.Lock()
	entry, ok := t.refresh[refreshToken]
	delete(t.refresh, refreshToken)
	t.mu.Unlock()

	if !ok || !t.now().Before(entry.expiresAt) {
		return nil, ErrInvalidRefreshToken
	}

	return t.Issue(entry.userID)
}

// Verify checks an access token and returns its subject.
func (t *Tokens) Verify(access string) (string, error) {

	var claims jwt.RegisteredClaims

	token, err := jwt.ParseWithClaims(access, &claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.key, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil {
		return "", err
	}

	if !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid token")
	}

	return claims.Subject, nil
}

func (t *Tokens) newRefreshLocked(userID string) string {
	token := uuid.NewString()
	t.refresh[token] = refreshEntry{userID: userID, expiresAt: t.now().Add(t.refreshTTL)}

	return token
}
