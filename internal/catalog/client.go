// Package catalog reads the public product catalog and pages through it.
package catalog

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aaravmahajanofficial/teagram/internal/apiclient"
	"github.com/aaravmahajanofficial/teagram/internal/cache"
	appErrors "github.com/aaravmahajanofficial/teagram/internal/errors"
	"github.com/aaravmahajanofficial/teagram/internal/models"
)

const (
	categoriesPath = "/catalog/categories"
	productsPath   = "/catalog/products"
)

type Client struct {
	api    *apiclient.Client
	cache  cache.Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewClient returns a catalog client. productCache may be nil, in which case
// every GetProduct goes to the backend.
func NewClient(api *apiclient.Client, productCache cache.Cache, ttl time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		api:    api,
		cache:  productCache,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *Client) ListCategories(ctx context.Context) ([]models.CategoryOption, error) {

	key := cache.Key(cache.CategoryKeyPrefix, string(models.CategoryAll))

	var cached models.CategoryList
	if c.lookup(ctx, key, &cached) {
		return cached.Items, nil
	}

	var list models.CategoryList
	if err := c.api.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: categoriesPath, Public: true}, &list); err != nil {
		return nil, err
	}

	c.store(ctx, key, list)

	return list.Items, nil
}

func (c *Client) ListProducts(ctx context.Context, query models.ProductQuery) (*models.ProductList, error) {

	params := url.Values{}
	if query.Category != "" && query.Category != models.CategoryAll {
		params.Set("category", string(query.Category))
	}
	if query.Search != "" {
		params.Set("search", query.Search)
	}
	if query.Limit > 0 {
		params.Set("limit", strconv.Itoa(query.Limit))
		params.Set("offset", strconv.Itoa(query.Offset))
	} else if query.Offset > 0 {
		params.Set("offset", strconv.Itoa(query.Offset))
	}

	var list models.ProductList
	err := c.api.Do(ctx, apiclient.Request{
		Method: http.MethodGet,
		Path:   productsPath,
		Query:  params,
		Public: true,
	}, &list)
	if err != nil {
		return nil, err
	}

	for i := range list.Items {
		c.store(ctx, cache.Key(cache.ProductKeyPrefix, list.Items[i].ID), list.Items[i])
	}

	return &list, nil
}

// GetProduct returns product details, from the cache when possible.
func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {

	if id == "" {
		return nil, appErrors.ValidationError("Product id is required")
	}

	key := cache.Key(cache.ProductKeyPrefix, id)

	var cached models.Product
	if c.lookup(ctx, key, &cached) {
		return &cached, nil
	}

	var product models.Product
	err := c.api.Do(ctx, apiclient.Request{
		Method: http.MethodGet,
		Path:   productsPath + "/" + url.PathEscape(id),
		Public: true,
	}, &product)
	if err != nil {
		return nil, err
	}

	if err := product.Validate(); err != nil {
		return nil, appErrors.DecodeError("Invalid product payload", http.StatusOK).WithError(err)
	}

	c.store(ctx, key, product)

	return &product, nil
}

// cache failures degrade to a backend call
func (c *Client) lookup(ctx context.Context, key string, value any) bool {
	if c.cache == nil {
		return false
	}

	found, err := c.cache.Get(ctx, key, value)
	if err != nil {
		c.logger.Warn("Catalog cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}

	return found
}

func (c *Client) store(ctx context.Context, key string, value any) {
	if c.cache == nil {
		return
	}

	if err := c.cache.Set(ctx, key, value, c.ttl); err != nil {
		c.logger.Warn("Catalog cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}
