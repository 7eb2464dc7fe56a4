package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"github.com/ManuC12/Raices-de-vida/internal/checkout"
	"github.com/ManuC12/Raices-de-vida/internal/contact"
	"github.com/ManuC12/Raices-de-vida/internal/domain"
)

type CheckoutHandler struct {
	simulator   *checkout.Simulator
	contact     contact.Links
	maxBodySize int64
}

func NewCheckoutHandler(s *checkout.Simulator, links contact.Links, maxBodySize int64) *CheckoutHandler {
	return &CheckoutHandler{
		simulator:   s,
		contact:     links,
		maxBodySize: maxBodySize,
	}
}

type CheckoutRequestDTO struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type CheckoutResponse struct {
	checkout.Receipt
	FormattedTotal string `json:"formattedTotal"`
	// CoordinateLink opens a WhatsApp chat to arrange pickup.
	CoordinateLink string `json:"coordinateLink"`
}

// PlaceOrder runs the simulated checkout. It does not use the request
// timeout: the artificial delay is part of the response.
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequestDTO
	if err := decodeJSON(w, r, h.maxBodySize, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "invalid_customer", "name is required")
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_customer", "a valid email is required")
		return
	}

	receipt, err := h.simulator.PlaceOrder(r.Context(), sessionID(r.Context()), domain.Customer{
		Name:  req.Name,
		Phone: strings.TrimSpace(req.Phone),
		Email: req.Email,
	})
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusGatewayTimeout, "timeout", "checkout was interrupted")
		return
	case errors.Is(err, checkout.ErrClosed):
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", "shop is shutting down")
		return
	default:
		handleCartError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, CheckoutResponse{
		Receipt:        *receipt,
		FormattedTotal: formatPrice(receipt.Total),
		CoordinateLink: h.contact.WhatsApp(fmt.Sprintf("Hi! I just placed order #%d.", receipt.OrderNumber)),
	})
}
