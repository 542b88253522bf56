package models

type CartItem struct {
	ProductID string `json:"productId" validate:"required"`
	VariantID string `json:"variantId" validate:"required"`
	Quantity  int    `json:"quantity"  validate:"required,min=1"`
}

// Cart mirrors the server's cart. Totals are server-computed and are never
// recomputed on the client.
type Cart struct {
	Items      []CartItem `json:"items"`
	TotalCount int        `json:"totalCount"`
	TotalPrice int64      `json:"totalPrice"`
}

func (c *Cart) Quantity(productID, variantID string) int {
	for _, item := range c.Items {
		if item.ProductID == productID && item.VariantID == variantID {
			return item.Quantity
		}
	}

	return 0
}

// ProductIDs returns the distinct product ids referenced by the cart, in
// first-seen order.
func (c *Cart) ProductIDs() []string {
	seen := make(map[string]struct{}, len(c.Items))
	ids := make([]string, 0, len(c.Items))

	for _, item := range c.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	return ids
}

type ReplaceItemsRequest struct {
	Items []CartItem `json:"items" validate:"dive"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=1"`
}
