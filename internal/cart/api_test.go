package cart_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/teagram/internal/apiclient"
	"github.com/aaravmahajanofficial/teagram/internal/cart"
	"github.com/aaravmahajanofficial/teagram/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	body   string
}

func newAPI(t *testing.T, status int, response string) (*cart.API, *[]recorded) {
	t.Helper()

	var calls []recorded
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, recorded{method: r.Method, path: r.URL.EscapedPath(), body: string(body)})
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))

		w.WriteHeader(status)
		if response != "" {
			_, _ = w.Write([]byte(response))
		}
	}))
	t.Cleanup(server.Close)

	client := apiclient.New(server.URL, staticToken("token-1"), apiclient.WithHTTPClient(server.Client()))

	return cart.NewAPI(client), &calls
}

type staticToken string

func (s staticToken) AccessToken(_ context.Context) string { return string(s) }

func (s staticToken) Refresh(_ context.Context, _ string) (*models.AuthTokens, error) {
	return nil, errors.New("refresh unavailable")
}

const oneItemCart = `{"items":[{"productId":"sheng-puer","variantId":"sheng-100","quantity":2}],"totalCount":2,"totalPrice":1960}`

func TestAPIRoutes(t *testing.T) {
	ctx := t.Context()

	tests := []struct {
		name   string
		call   func(*cart.API) (*models.Cart, error)
		method string
		path   string
		body   string
	}{
		{
			name:   "Fetch",
			call:   func(a *cart.API) (*models.Cart, error) { return a.Fetch(ctx) },
			method: http.MethodGet,
			path:   "/cart",
		},
		{
			name: "AddItem",
			call: func(a *cart.API) (*models.Cart, error) {
				return a.AddItem(ctx, models.CartItem{ProductID: "sheng-puer", VariantID: "sheng-100", Quantity: 2})
			},
			method: http.MethodPost,
			path:   "/cart/items",
			body:   `{"productId":"sheng-puer","variantId":"sheng-100","quantity":2}`,
		},
		{
			name: "ReplaceItems",
			call: func(a *cart.API) (*models.Cart, error) {
				return a.ReplaceItems(ctx, []models.CartItem{{ProductID: "sheng-puer", VariantID: "sheng-100", Quantity: 2}})
			},
			method: http.MethodPut,
			path:   "/cart/items",
			body:   `{"items":[{"productId":"sheng-puer","variantId":"sheng-100","quantity":2}]}`,
		},
		{
			name:   "UpdateItem",
			call:   func(a *cart.API) (*models.Cart, error) { return a.UpdateItem(ctx, "sheng-puer", "sheng-100", 2) },
			method: http.MethodPatch,
			path:   "/cart/items/sheng-puer/sheng-100",
			body:   `{"quantity":2}`,
		},
		{
			name:   "RemoveItem escapes path segments",
			call:   func(a *cart.API) (*models.Cart, error) { return a.RemoveItem(ctx, "set/1", "5 × 25") },
			method: http.MethodDelete,
			path:   "/cart/items/set%2F1/5%20%C3%97%2025",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			api, calls := newAPI(t, http.StatusOK, oneItemCart)

			// Act
			got, err := tt.call(api)

			// Assert
			require.NoError(t, err)
			require.Len(t, *calls, 1)
			assert.Equal(t, tt.method, (*calls)[0].method)
			assert.Equal(t, tt.path, (*calls)[0].path)
			if tt.body != "" {
				assert.JSONEq(t, tt.body, (*calls)[0].body)
			}
			assert.Equal(t, 2, got.TotalCount)
			assert.Equal(t, int64(1960), got.TotalPrice)
		})
	}
}

func TestAPIClearNoContent(t *testing.T) {
	api, calls := newAPI(t, http.StatusNoContent, "")

	got, err := api.Clear(t.Context())

	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, (*calls)[0].method)
	assert.Empty(t, got.Items)
	assert.NotNil(t, got.Items)
	assert.Zero(t, got.TotalCount)
}

func TestAPIReplaceWithNilSendsEmptyList(t *testing.T) {
	api, calls := newAPI(t, http.StatusOK, `{"items":[],"totalCount":0,"totalPrice":0}`)

	_, err := api.ReplaceItems(t.Context(), nil)

	require.NoError(t, err)
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte((*calls)[0].body), &body))
	assert.Equal(t, "[]", string(body["items"]))
}
