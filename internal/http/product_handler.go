package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ManuC12/Raices-de-vida/internal/catalog"
	"github.com/ManuC12/Raices-de-vida/internal/contact"
	"github.com/ManuC12/Raices-de-vida/internal/domain"
	"github.com/go-chi/chi/v5"
)

const homeListSize = 4

type ProductHandler struct {
	catalog *catalog.Catalog
	contact contact.Links
	timeout time.Duration
}

func NewProductHandler(c *catalog.Catalog, links contact.Links, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog: c,
		contact: links,
		timeout: timeout,
	}
}

type ProductsResponse struct {
	Products   []domain.Product `json:"products"`
	Category   string           `json:"category"`
	SubFilter  string           `json:"subFilter"`
	SubFilters []string         `json:"subFilters,omitempty"`
}

type ProductDetailResponse struct {
	Product         domain.Product  `json:"product"`
	SelectedVariant *domain.Variant `json:"selectedVariant,omitempty"`
	Price           float64         `json:"price"`
	FormattedPrice  string          `json:"formattedPrice"`
	QuestionLink    string          `json:"questionLink"`
}

// List serves the shop page: ?category=candles&tag=Warm
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	category, err := domain.ParseCategoryFilter(r.URL.Query().Get("category"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_category", err.Error())
		return
	}
	subFilter := r.URL.Query().Get("tag")
	if subFilter == "" {
		subFilter = catalog.ShowAll
	}

	respondJSON(w, http.StatusOK, ProductsResponse{
		Products:   h.catalog.Browse(ctx, category, subFilter),
		Category:   category.String(),
		SubFilter:  subFilter,
		SubFilters: catalog.SubFilters(category),
	})
}

func (h *ProductHandler) Featured(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	respondJSON(w, http.StatusOK, ProductsResponse{
		Products: h.catalog.Featured(ctx, homeListSize),
		Category: domain.AllCategories.String(),
	})
}

func (h *ProductHandler) ByAroma(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	aroma := chi.URLParam(r, "aroma")
	respondJSON(w, http.StatusOK, ProductsResponse{
		Products:  h.catalog.ByAroma(ctx, aroma, homeListSize),
		Category:  domain.AllCategories.String(),
		SubFilter: aroma,
	})
}

// Get serves the product page. ?variant= picks a variant; unknown ids keep the first one.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	slug := chi.URLParam(r, "slug")
	p, err := h.catalog.ProductBySlug(ctx, slug)
	if errors.Is(err, catalog.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	sel := catalog.NewSelection(p)
	if id := r.URL.Query().Get("variant"); id != "" {
		sel.Select(id)
	}

	resp := ProductDetailResponse{
		Product:        p,
		Price:          sel.Price(),
		FormattedPrice: formatPrice(sel.Price()),
		QuestionLink:   h.contact.ProductQuestion(p.Name),
	}
	if v, ok := sel.Variant(); ok {
		resp.SelectedVariant = &v
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *ProductHandler) Testimonials(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"testimonials": catalog.Testimonials()})
}
