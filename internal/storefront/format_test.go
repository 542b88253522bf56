package storefront

import (
	"testing"
	"time"

	"github.com/aaravmahajanofficial/teagram/internal/models"
	"github.com/aaravmahajanofficial/teagram/internal/navigation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPrice(t *testing.T) {
	cases := map[int64]string{
		0:       "0 ₽",
		450:     "450 ₽",
		1640:    "1\u00a0640 ₽",
		2500000: "2\u00a0500\u00a0000 ₽",
		-1200:   "-1\u00a0200 ₽",
	}

	for amount, want := range cases {
		assert.Equal(t, want, formatPrice(amount))
	}
}

func TestMinPrice(t *testing.T) {
	p := models.Product{Variants: []models.ProductVariant{{Price: 820}, {Price: 450}, {Price: 1850}}}

	assert.Equal(t, int64(450), minPrice(p))
	assert.Equal(t, int64(0), minPrice(models.Product{}))
}

func TestText(t *testing.T) {
	a := New(Deps{Router: navigation.NewRouter()})

	assert.Equal(t, "Чай & мёд", a.text(`<b>Чай</b> &amp; мёд<script>alert(1)</script>`))
}

func TestPageChangeCancelsView(t *testing.T) {
	// Arrange
	router := navigation.NewRouter()
	a := New(Deps{Router: router})
	defer a.Close()

	scoped, cancel := a.scope(t.Context())
	defer cancel()

	// Act
	router.SetPage(navigation.PageCart)

	// Assert
	select {
	case <-scoped.Done():
	case <-time.After(time.Second):
		t.Fatal("view context was not cancelled")
	}

	fresh, cancelFresh := a.scope(t.Context())
	defer cancelFresh()
	require.NoError(t, fresh.Err())
}
