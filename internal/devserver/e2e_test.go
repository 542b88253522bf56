package devserver_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/teagram/internal/apiclient"
	"github.com/aaravmahajanofficial/teagram/internal/auth"
	"github.com/aaravmahajanofficial/teagram/internal/cache"
	"github.com/aaravmahajanofficial/teagram/internal/cart"
	"github.com/aaravmahajanofficial/teagram/internal/catalog"
	"github.com/aaravmahajanofficial/teagram/internal/checkout"
	"github.com/aaravmahajanofficial/teagram/internal/config"
	"github.com/aaravmahajanofficial/teagram/internal/devserver"
	appErrors "github.com/aaravmahajanofficial/teagram/internal/errors"
	"github.com/aaravmahajanofficial/teagram/internal/models"
	"github.com/aaravmahajanofficial/teagram/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stack struct {
	server  *devserver.Server
	tokens  *auth.TokenStore
	manager *auth.Manager
	client  *apiclient.Client
	catalog *catalog.Client
	cart    *cart.Store
	flow    *checkout.Flow
}

func newStack(t *testing.T) *stack {
	t.Helper()

	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.DiscardHandler)

	server := devserver.New(config.DevServer{JWTKey: "e2e", AccessTTL: time.Minute, RefreshTTL: time.Hour}, logger)
	httpServer := httptest.NewServer(server.Engine())
	t.Cleanup(httpServer.Close)

	tokens := auth.NewTokenStore(storage.NewMemoryStorage(), logger)
	manager := auth.NewManager(tokens, httpServer.URL, httpServer.Client(), logger)
	client := apiclient.New(httpServer.URL, manager,
		apiclient.WithHTTPClient(httpServer.Client()),
		apiclient.WithRetryPolicy(apiclient.RetryPolicy{MaxAttempts: 1}),
		apiclient.WithLogger(logger),
	)

	catalogClient := catalog.NewClient(client, cache.NewMemoryCache(&config.CacheConfig{DefaultTTL: time.Minute}), time.Minute, logger)
	cartStore := cart.NewStore(cart.NewAPI(client), catalogClient, logger)

	return &stack{
		server:  server,
		tokens:  tokens,
		manager: manager,
		client:  client,
		catalog: catalogClient,
		cart:    cartStore,
		flow:    checkout.NewFlow(checkout.NewOrderAPI(client), cartStore, logger),
	}
}

func TestBrowseAddAndCheckout(t *testing.T) {
	ctx := t.Context()
	s := newStack(t)

	// Arrange
	_, err := s.manager.Login(ctx, s.server.Tokens().Bootstrap("user-1"))
	require.NoError(t, err)

	pager := catalog.NewPager(s.catalog, 1)
	_, err = pager.Reset(ctx, models.CategoryGreen, "")
	require.NoError(t, err)
	for pager.HasMore() {
		_, err = pager.LoadMore(ctx)
		require.NoError(t, err)
	}
	require.Len(t, pager.Items(), 2)

	// Act
	require.NoError(t, s.cart.Load(ctx))
	require.NoError(t, s.cart.AddItem(ctx, "dragonwell-green", "dragonwell-50", 1))
	require.NoError(t, s.cart.AddItem(ctx, "dragonwell-green", "dragonwell-50", 1))
	require.NoError(t, s.cart.AddItem(ctx, "biluochun-green", "biluochun-100", 1))

	require.NoError(t, s.flow.Set(checkout.FieldName, "Анна"))
	require.NoError(t, s.flow.Set(checkout.FieldPhone, "89991234567"))
	require.NoError(t, s.flow.Set(checkout.FieldDelivery, "courier"))
	require.NoError(t, s.flow.Set(checkout.FieldAddress, "Москва, Тверская, 1"))

	summary, err := s.flow.Submit(ctx)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Курьер", summary.DeliveryMethod)
	assert.Equal(t, int64(2*450+960), summary.Total)
	assert.Equal(t, "Анна", summary.CustomerName)
	assert.True(t, s.cart.IsEmpty())
	assert.Equal(t, checkout.NewForm(), s.flow.Form())
}

func TestRejectedAccessTokenIsRefreshed(t *testing.T) {
	ctx := t.Context()
	s := newStack(t)

	// Arrange
	refresh := s.server.Tokens().Bootstrap("user-1")
	require.NoError(t, s.tokens.Write(ctx, &models.AuthTokens{AccessToken: "revoked", RefreshToken: refresh}))

	// Act
	err := s.cart.AddItem(ctx, "sheng-puer", "sheng-100", 1)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, s.cart.TotalCount())
	stored := s.tokens.Read(ctx)
	require.NotNil(t, stored)
	assert.NotEqual(t, "revoked", stored.AccessToken)
	assert.NotEqual(t, refresh, stored.RefreshToken)
}

func TestStaleTotalIsRejected(t *testing.T) {
	ctx := t.Context()
	s := newStack(t)
	_, err := s.manager.Login(ctx, s.server.Tokens().Bootstrap("user-1"))
	require.NoError(t, err)

	// Arrange: the local mirror misses a change made elsewhere
	require.NoError(t, s.cart.AddItem(ctx, "lapsang-black", "lapsang-50", 1))
	_, err = cart.NewAPI(s.client).AddItem(ctx, models.CartItem{ProductID: "lapsang-black", VariantID: "lapsang-50", Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, s.flow.Set(checkout.FieldName, "Анна"))
	require.NoError(t, s.flow.Set(checkout.FieldPhone, "+7 999 123-45-67"))

	// Act
	_, err = s.flow.Submit(ctx)

	// Assert
	require.Error(t, err)
	assert.True(t, appErrors.HasStatus(err, http.StatusConflict))
	assert.Equal(t, "Не удалось оформить заказ, попробуйте ещё раз", s.flow.SubmitError())
	assert.Equal(t, "Анна", s.flow.Form().Name)
}
