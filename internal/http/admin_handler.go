package http

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/ManuC12/Raices-de-vida/internal/admin"
	"github.com/ManuC12/Raices-de-vida/internal/catalog"
	"github.com/ManuC12/Raices-de-vida/internal/domain"
	"github.com/go-chi/chi/v5"
)

type AdminHandler struct {
	catalog     *catalog.Catalog
	board       *admin.Board
	timeout     time.Duration
	maxBodySize int64
}

func NewAdminHandler(c *catalog.Catalog, board *admin.Board, timeout time.Duration, maxBodySize int64) *AdminHandler {
	return &AdminHandler{
		catalog:     c,
		board:       board,
		timeout:     timeout,
		maxBodySize: maxBodySize,
	}
}

type OrdersResponse struct {
	Orders []domain.Order `json:"orders"`
}

type StatsResponse struct {
	Stats            admin.Stats `json:"stats"`
	FormattedRevenue string      `json:"formattedRevenue"`
}

type SetStatusRequestDTO struct {
	Status string `json:"status"`
}

func (h *AdminHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	rows := admin.Inventory(h.catalog.Products(ctx), r.URL.Query().Get("q"))
	respondJSON(w, http.StatusOK, map[string]any{"products": rows})
}

func (h *AdminHandler) OpenOrders(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, OrdersResponse{Orders: h.board.Open()})
}

func (h *AdminHandler) History(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, OrdersResponse{Orders: h.board.History()})
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st := h.board.Stats()
	respondJSON(w, http.StatusOK, StatsResponse{
		Stats:            st,
		FormattedRevenue: formatPrice(st.Revenue),
	})
}

// SetStatus handles PUT /admin/orders/{number}/status. The leading '#' of
// order numbers is optional in the path.
func (h *AdminHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req SetStatusRequestDTO
	if err := decodeJSON(w, r, h.maxBodySize, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	number, err := url.PathUnescape(chi.URLParam(r, "number"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "malformed order number")
		return
	}
	if number != "" && number[0] != '#' {
		number = "#" + number
	}

	o, err := h.board.SetStatus(number, domain.OrderStatus(req.Status))
	switch {
	case errors.Is(err, domain.ErrUnknownStatus):
		respondError(w, http.StatusBadRequest, "invalid_status", err.Error())
	case errors.Is(err, admin.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case err != nil:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	default:
		respondJSON(w, http.StatusOK, o)
	}
}
