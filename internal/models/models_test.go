package models_test

import (
	"testing"

	"github.com/aaravmahajanofficial/teagram/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductValidate(t *testing.T) {
	t.Run("Valid product", func(t *testing.T) {
		p := models.Product{ID: "p1", Variants: []models.ProductVariant{{ID: "v1", Price: 100}, {ID: "v2", Price: 0}}}

		assert.NoError(t, p.Validate())
	})

	t.Run("No variants", func(t *testing.T) {
		p := models.Product{ID: "p1"}

		assert.ErrorContains(t, p.Validate(), "no variants")
	})

	t.Run("Duplicate variant", func(t *testing.T) {
		p := models.Product{ID: "p1", Variants: []models.ProductVariant{{ID: "v1"}, {ID: "v1"}}}

		assert.ErrorContains(t, p.Validate(), "duplicate variant")
	})

	t.Run("Negative price", func(t *testing.T) {
		p := models.Product{ID: "p1", Variants: []models.ProductVariant{{ID: "v1", Price: -1}}}

		assert.ErrorContains(t, p.Validate(), "negative price")
	})
}

func TestProductVariant(t *testing.T) {
	p := models.Product{ID: "p1", Variants: []models.ProductVariant{{ID: "v1", Price: 450}, {ID: "v2", Price: 820}}}

	v, ok := p.Variant("v2")
	require.True(t, ok)
	assert.Equal(t, int64(820), v.Price)

	_, ok = p.Variant("missing")
	assert.False(t, ok)
}

func TestCartLookups(t *testing.T) {
	cart := models.Cart{Items: []models.CartItem{
		{ProductID: "a", VariantID: "a-50", Quantity: 2},
		{ProductID: "b", VariantID: "b-50", Quantity: 1},
		{ProductID: "a", VariantID: "a-100", Quantity: 3},
	}}

	assert.Equal(t, 3, cart.Quantity("a", "a-100"))
	assert.Equal(t, 0, cart.Quantity("a", "a-250"))
	assert.Equal(t, []string{"a", "b"}, cart.ProductIDs())
}

func TestDeliveryMethod(t *testing.T) {
	assert.Equal(t, "Самовывоз", models.DeliveryPickup.Label())
	assert.Equal(t, "Курьер", models.DeliveryCourier.Label())
	assert.Equal(t, "СДЭК", models.DeliveryCDEK.Label())
	assert.Equal(t, "drone", models.DeliveryMethod("drone").Label())

	assert.False(t, models.DeliveryPickup.RequiresAddress())
	assert.True(t, models.DeliveryCourier.RequiresAddress())
	assert.False(t, models.DeliveryMethod("drone").Valid())
}

func TestProductCategory(t *testing.T) {
	assert.True(t, models.CategoryPuer.Valid())
	assert.False(t, models.CategoryAll.Valid())
	assert.Len(t, models.ProductCategories(), 5)
}
