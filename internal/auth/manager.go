package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	appErrors "github.com/aaravmahajanofficial/teagram/internal/errors"
	"github.com/aaravmahajanofficial/teagram/internal/metrics"
	"github.com/aaravmahajanofficial/teagram/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
)

var ErrNoSession = errors.New("auth: no refresh token stored")

const (
	refreshPath    = "/auth/refresh"
	refreshTimeout = 30 * time.Second
	expiryLeeway   = 10 * time.Second
)

// Manager hands out access tokens and refreshes them. Concurrent refreshes
// collapse into one backend call.
type Manager struct {
	store      *TokenStore
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	group      singleflight.Group
	now        func() time.Time
}

func NewManager(store *TokenStore, baseURL string, httpClient *http.Client, logger *slog.Logger) *Manager {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		store:      store,
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: httpClient,
		logger:     logger,
		now:        time.Now,
	}
}

// AccessToken returns the stored access token, refreshing it first when it
// is a JWT that has already expired. An empty string means no session.
func (m *Manager) AccessToken(ctx context.Context) string {

	tokens := m.store.Read(ctx)
	if tokens == nil {
		return ""
	}

	if tokens.AccessToken != "" && tokens.RefreshToken != "" && m.expired(tokens.AccessToken) {
		fresh, err := m.Refresh(ctx, tokens.AccessToken)
		if err != nil {
			return ""
		}
		return fresh.AccessToken
	}

	return tokens.AccessToken
}

// Refresh exchanges the stored refresh token for a new token pair. stale is
// the access token the caller was rejected with; if the store already holds
// a different, unexpired access token, it is returned without a backend
// call. On any failure the stored tokens are cleared.
func (m *Manager) Refresh(ctx context.Context, stale string) (*models.AuthTokens, error) {

	ch := m.group.DoChan("refresh", func() (any, error) {
		refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refreshTimeout)
		defer cancel()

		return m.refresh(refreshCtx, stale)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.AuthTokens), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Login stores a bootstrap refresh token and exchanges it for a session.
func (m *Manager) Login(ctx context.Context, refreshToken string) (*models.AuthTokens, error) {

	if err := m.store.Write(ctx, &models.AuthTokens{RefreshToken: refreshToken}); err != nil {
		return nil, err
	}

	return m.Refresh(ctx, "")
}

func (m *Manager) Logout(ctx context.Context) error {
	return m.store.Write(ctx, nil)
}

func (m *Manager) refresh(ctx context.Context, stale string) (*models.AuthTokens, error) {

	tokens := m.store.Read(ctx)
	if tokens == nil || tokens.RefreshToken == "" {
		return nil, ErrNoSession
	}

	if tokens.AccessToken != "" && tokens.AccessToken != stale && !m.expired(tokens.AccessToken) {
		return tokens, nil
	}

	payload, err := json.Marshal(models.RefreshRequest{RefreshToken: tokens.RefreshToken})
	if err != nil {
		return m.fail(ctx, appErrors.InternalError("Failed to encode refresh request").WithError(err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+refreshPath, bytes.NewReader(payload))
	if err != nil {
		return m.fail(ctx, appErrors.InternalError("Failed to build refresh request").WithError(err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return m.fail(ctx, appErrors.NetworkError("Failed to refresh tokens").WithError(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return m.fail(ctx, appErrors.NetworkError("Failed to read refresh response").WithError(err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return m.fail(ctx, appErrors.FromStatus(resp.StatusCode, appErrors.ParseBody(body)))
	}

	var next models.AuthTokens
	if err := json.Unmarshal(body, &next); err != nil || next.AccessToken == "" {
		return m.fail(ctx, appErrors.DecodeError("Invalid refresh response", resp.StatusCode).WithError(err))
	}

	if err := m.store.Write(ctx, &next); err != nil {
		m.logger.Error("Failed to persist refreshed tokens", slog.String("error", err.Error()))
	}

	metrics.RecordTokenRefresh(metrics.ResultSuccess)

	return &next, nil
}

func (m *Manager) fail(ctx context.Context, err error) (*models.AuthTokens, error) {

	m.logger.Error("Token refresh failed", slog.String("error", err.Error()))
	metrics.RecordTokenRefresh(metrics.ResultFailure)

	if clearErr := m.store.Write(ctx, nil); clearErr != nil {
		m.logger.Error("Failed to clear auth tokens", slog.String("error", clearErr.Error()))
	}

	return nil, err
}

// expired reports whether token is a JWT whose exp claim has passed. Opaque
// tokens are never considered expired; the server decides with a 401.
func (m *Manager) expired(token string) bool {

	var claims jwt.RegisteredClaims

	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}

	if claims.ExpiresAt == nil {
		return false
	}

	return !m.now().Add(expiryLeeway).Before(claims.ExpiresAt.Time)
}
