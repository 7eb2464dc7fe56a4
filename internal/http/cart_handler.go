package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ManuC12/Raices-de-vida/internal/cart"
	"github.com/ManuC12/Raices-de-vida/internal/catalog"
	"github.com/ManuC12/Raices-de-vida/internal/domain"
	"github.com/go-chi/chi/v5"
)

const maxQuantity = 99

type CartHandler struct {
	carts       *cart.Service
	catalog     *catalog.Catalog
	timeout     time.Duration
	maxBodySize int64
}

func NewCartHandler(carts *cart.Service, c *catalog.Catalog, timeout time.Duration, maxBodySize int64) *CartHandler {
	return &CartHandler{
		carts:       carts,
		catalog:     c,
		timeout:     timeout,
		maxBodySize: maxBodySize,
	}
}

type AddItemRequestDTO struct {
	Slug      string `json:"slug"`
	VariantID string `json:"variantId,omitempty"`
	// Quantity defaults to one when omitted.
	Quantity *int `json:"quantity,omitempty"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponse struct {
	Items             []domain.CartItem `json:"items"`
	TotalItems        int               `json:"totalItems"`
	Subtotal          float64           `json:"subtotal"`
	FormattedSubtotal string            `json:"formattedSubtotal"`
}

func newCartResponse(s *cart.Store) CartResponse {
	items := s.Items()
	if items == nil {
		items = []domain.CartItem{}
	}
	return CartResponse{
		Items:             items,
		TotalItems:        s.TotalItems(),
		Subtotal:          s.Subtotal(),
		FormattedSubtotal: formatPrice(s.Subtotal()),
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	s, err := h.carts.Get(ctx, sessionID(r.Context()))
	if err != nil {
		handleCartError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newCartResponse(s))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := decodeJSON(w, r, h.maxBodySize, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Slug == "" {
		respondError(w, http.StatusBadRequest, "invalid_product", "slug is required")
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity > maxQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}

	p, err := h.catalog.ProductBySlug(ctx, req.Slug)
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	sel := catalog.NewSelection(p)
	if req.VariantID != "" {
		sel.Select(req.VariantID)
	}
	variant, ok := sel.Variant()
	if !ok {
		respondError(w, http.StatusUnprocessableEntity, "no_variants", "product has no purchasable variants")
		return
	}

	s, err := h.carts.Update(ctx, sessionID(r.Context()), func(s *cart.Store) error {
		return s.AddItem(ctx, p, variant, quantity)
	})
	if err != nil {
		handleCartError(w, err)
		return
	}

	status := http.StatusCreated
	if quantity < 1 {
		// ignored, nothing was added
		status = http.StatusOK
	}
	respondJSON(w, status, newCartResponse(s))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req UpdateQuantityRequestDTO
	if err := decodeJSON(w, r, h.maxBodySize, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity > maxQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}

	productID, variantID := chi.URLParam(r, "productID"), chi.URLParam(r, "variantID")
	s, err := h.carts.Update(ctx, sessionID(r.Context()), func(s *cart.Store) error {
		return s.UpdateQuantity(ctx, productID, variantID, req.Quantity)
	})
	if err != nil {
		handleCartError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newCartResponse(s))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, variantID := chi.URLParam(r, "productID"), chi.URLParam(r, "variantID")
	s, err := h.carts.Update(ctx, sessionID(r.Context()), func(s *cart.Store) error {
		return s.RemoveItem(ctx, productID, variantID)
	})
	if err != nil {
		handleCartError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newCartResponse(s))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	s, err := h.carts.Update(ctx, sessionID(r.Context()), func(s *cart.Store) error {
		return s.ClearCart(ctx)
	})
	if err != nil {
		handleCartError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, newCartResponse(s))
}

func handleCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrMissingSession):
		respondError(w, http.StatusBadRequest, "missing_session", "missing session cookie")
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, "timeout", "cart storage timed out")
	default:
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", "cart storage unavailable")
	}
}
