// Package checkout validates the order form and submits it.
package checkout

import (
	"context"
	"net/http"

	"github.com/aaravmahajanofficial/teagram/internal/apiclient"
	"github.com/aaravmahajanofficial/teagram/internal/models"
)

const ordersPath = "/orders"

// OrderAPI creates orders on the backend.
type OrderAPI struct {
	client *apiclient.Client
}

func NewOrderAPI(client *apiclient.Client) *OrderAPI {
	return &OrderAPI{client: client}
}

// CreateOrder posts req. Retries of the same submission reuse
// idempotencyKey so the backend can drop duplicates.
func (a *OrderAPI) CreateOrder(ctx context.Context, req models.OrderRequest, idempotencyKey string) (*models.OrderSummary, error) {

	header := http.Header{}
	if idempotencyKey != "" {
		header.Set("Idempotency-Key", idempotencyKey)
	}

	var summary models.OrderSummary
	err := a.client.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   ordersPath,
		Body:   req,
		Header: header,
	}, &summary)
	if err != nil {
		return nil, err
	}

	return &summary, nil
}
