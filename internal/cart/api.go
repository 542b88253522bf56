// Package cart mirrors the server-side cart and serializes every mutation
// issued against it.
package cart

import (
	"context"
	"net/http"
	"net/url"

	"github.com/aaravmahajanofficial/teagram/internal/apiclient"
	"github.com/aaravmahajanofficial/teagram/internal/models"
)

const (
	cartPath  = "/cart"
	itemsPath = "/cart/items"
)

// API is the authenticated cart endpoint set. Every call returns the
// server's authoritative cart.
type API struct {
	client *apiclient.Client
}

func NewAPI(client *apiclient.Client) *API {
	return &API{client: client}
}

func (a *API) Fetch(ctx context.Context) (*models.Cart, error) {
	return a.call(ctx, http.MethodGet, cartPath, nil)
}

// Clear empties the cart. A 204 yields an empty cart.
func (a *API) Clear(ctx context.Context) (*models.Cart, error) {
	return a.call(ctx, http.MethodDelete, cartPath, nil)
}

func (a *API) AddItem(ctx context.Context, item models.CartItem) (*models.Cart, error) {
	return a.call(ctx, http.MethodPost, itemsPath, item)
}

func (a *API) ReplaceItems(ctx context.Context, items []models.CartItem) (*models.Cart, error) {
	if items == nil {
		items = []models.CartItem{}
	}

	return a.call(ctx, http.MethodPut, itemsPath, models.ReplaceItemsRequest{Items: items})
}

func (a *API) UpdateItem(ctx context.Context, productID, variantID string, quantity int) (*models.Cart, error) {
	return a.call(ctx, http.MethodPatch, itemPath(productID, variantID), models.UpdateQuantityRequest{Quantity: quantity})
}

func (a *API) RemoveItem(ctx context.Context, productID, variantID string) (*models.Cart, error) {
	return a.call(ctx, http.MethodDelete, itemPath(productID, variantID), nil)
}

func (a *API) call(ctx context.Context, method, path string, body any) (*models.Cart, error) {

	cart := models.Cart{Items: []models.CartItem{}}
	if err := a.client.Do(ctx, apiclient.Request{Method: method, Path: path, Body: body}, &cart); err != nil {
		return nil, err
	}

	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}

	return &cart, nil
}

func itemPath(productID, variantID string) string {
	return itemsPath + "/" + url.PathEscape(productID) + "/" + url.PathEscape(variantID)
}
