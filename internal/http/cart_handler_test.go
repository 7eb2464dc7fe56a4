package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestCart_Flow(t *testing.T) {
	shop := newTestShop(t)
	c := shop.browser(t)

	resp := shop.do(t, c, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	empty := decodeBody[CartResponse](t, resp)
	assert.Empty(t, empty.Items)
	assert.NotNil(t, empty.Items)

	resp = shop.do(t, c, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{
		Slug:      "vanilla-caramel-candle",
		VariantID: "v1-m",
		Quantity:  intPtr(2),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody[CartResponse](t, resp)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "350g (Wooden Bowl)", body.Items[0].VariantName)
	assert.Equal(t, 2, body.TotalItems)
	assert.Equal(t, 36000.0, body.Subtotal)
	assert.Contains(t, body.FormattedSubtotal, "36.000")

	// same pair merges, omitted quantity counts as one
	resp = shop.do(t, c, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{
		Slug:      "vanilla-caramel-candle",
		VariantID: "v1-m",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body = decodeBody[CartResponse](t, resp)
	require.Len(t, body.Items, 1)
	assert.Equal(t, 3, body.Items[0].Quantity)

	resp = shop.do(t, c, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{Slug: "lavender-linen-spray"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body = decodeBody[CartResponse](t, resp)
	require.Len(t, body.Items, 2)
	assert.Equal(t, "v3-s", body.Items[1].VariantID)

	resp = shop.do(t, c, http.MethodPut, "/api/v1/cart/items/1/v1-m", UpdateQuantityRequestDTO{Quantity: 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody[CartResponse](t, resp)
	assert.Equal(t, 2, body.TotalItems)
	assert.Equal(t, 18000.0+9800.0, body.Subtotal)

	resp = shop.do(t, c, http.MethodPut, "/api/v1/cart/items/1/v1-m", UpdateQuantityRequestDTO{Quantity: 0})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, decodeBody[CartResponse](t, resp).TotalItems)

	resp = shop.do(t, c, http.MethodDelete, "/api/v1/cart/items/3/v3-s", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody[CartResponse](t, resp)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "1", body.Items[0].ProductID)

	resp = shop.do(t, c, http.MethodDelete, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeBody[CartResponse](t, resp).Items)
}

func TestCart_SeparateSessions(t *testing.T) {
	shop := newTestShop(t)
	alice, bob := shop.browser(t), shop.browser(t)

	resp := shop.do(t, alice, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{Slug: "sandalwood-candle"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = shop.do(t, bob, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeBody[CartResponse](t, resp).Items)

	resp = shop.do(t, alice, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, decodeBody[CartResponse](t, resp).TotalItems)
}

func TestCart_AddItemErrors(t *testing.T) {
	shop := newTestShop(t)
	c := shop.browser(t)

	tests := []struct {
		name       string
		body       any
		wantStatus int
		wantCode   string
	}{
		{"missing slug", AddItemRequestDTO{}, http.StatusBadRequest, "invalid_product"},
		{"unknown product", AddItemRequestDTO{Slug: "ghost"}, http.StatusNotFound, "not_found"},
		{"quantity too large", AddItemRequestDTO{Slug: "sandalwood-candle", Quantity: intPtr(100)}, http.StatusBadRequest, "invalid_quantity"},
		{"unknown field", map[string]string{"sku": "x"}, http.StatusBadRequest, "invalid_request"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := shop.do(t, c, http.MethodPost, "/api/v1/cart/items", tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCode, decodeBody[ErrorResponse](t, resp).Code)
		})
	}
}

func TestCart_AddItemIgnoresNonPositiveQuantity(t *testing.T) {
	shop := newTestShop(t)
	c := shop.browser(t)

	for _, q := range []int{0, -3} {
		resp := shop.do(t, c, http.MethodPost, "/api/v1/cart/items", AddItemRequestDTO{
			Slug:     "sandalwood-candle",
			Quantity: intPtr(q),
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody[CartResponse](t, resp)
		assert.Empty(t, body.Items)
		assert.Zero(t, body.TotalItems)
	}
}
