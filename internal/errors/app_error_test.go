package errors_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	appErrors "github.com/aaravmahajanofficial/teagram/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromStatus(t *testing.T) {
	tests := []struct {
		status int
		code   string
	}{
		{http.StatusBadRequest, appErrors.ErrCodeBadRequest},
		{http.StatusUnauthorized, appErrors.ErrCodeUnauthorized},
		{http.StatusNotFound, appErrors.ErrCodeNotFound},
		{http.StatusConflict, appErrors.ErrCodeBusiness},
		{http.StatusUnprocessableEntity, appErrors.ErrCodeBusiness},
		{http.StatusTooManyRequests, appErrors.ErrCodeTooManyRequests},
		{http.StatusBadGateway, appErrors.ErrCodeHTTP},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			body := map[string]any{"message": "nope"}

			err := appErrors.FromStatus(tt.status, body)

			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.status, err.Status())
			assert.Equal(t, body, err.Data)
		})
	}
}

func TestIsAppError(t *testing.T) {
	t.Run("Wrapped AppError", func(t *testing.T) {
		wrapped := fmt.Errorf("load cart: %w", appErrors.NotFoundError("Cart not found"))

		appErr, ok := appErrors.IsAppError(wrapped)

		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
		assert.True(t, appErrors.HasStatus(wrapped, http.StatusNotFound))
	})

	t.Run("Plain error", func(t *testing.T) {
		_, ok := appErrors.IsAppError(errors.New("boom"))

		assert.False(t, ok)
		assert.False(t, appErrors.HasStatus(errors.New("boom"), http.StatusNotFound))
	})

	t.Run("Cause is preserved", func(t *testing.T) {
		err := appErrors.NetworkError("Network request failed").WithError(context.Canceled)

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, err.Status())
	})
}

func TestErrorMessage(t *testing.T) {
	err := appErrors.BusinessError("Order rejected").WithDetail("total mismatch")

	assert.Equal(t, "Order rejected: total mismatch", err.Error())
	assert.Equal(t, "Invalid field 'phone': too short", appErrors.AddValidationError("phone", "too short").Message)
}

func TestParseBody(t *testing.T) {
	assert.Nil(t, appErrors.ParseBody(nil))
	assert.Nil(t, appErrors.ParseBody([]byte("<html>bad gateway</html>")))
	assert.Equal(t, map[string]any{"code": "out_of_stock"}, appErrors.ParseBody([]byte(`{"code":"out_of_stock"}`)))
}
