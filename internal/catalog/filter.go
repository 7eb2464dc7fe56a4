package catalog

import (
	"strings"

	"github.com/ManuC12/Raices-de-vida/internal/domain"
)

// ShowAll is the sub-filter value that disables tag matching.
const ShowAll = "all"

func isShowAll(subFilter string) bool {
	return subFilter == "" || strings.EqualFold(subFilter, ShowAll)
}

// Filter returns, in source order, the products in the selected category whose
// tags contain subFilter. ShowAll (or "") skips the tag check.
func Filter(products []domain.Product, category domain.CategoryFilter, subFilter string) []domain.Product {
	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if !category.Matches(p.Category) {
			continue
		}
		if !isShowAll(subFilter) && !p.HasTag(subFilter) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

// SubFilters lists the tag vocabulary offered for a category, ShowAll first.
// Categories without a vocabulary return nil.
func SubFilters(category domain.CategoryFilter) []string {
	c, ok := category.Category()
	if !ok {
		return nil
	}
	switch c {
	case domain.Candles:
		return []string{ShowAll, "Holistic", "Fresh", "Classic", "Warm"}
	case domain.Diffusers:
		return []string{ShowAll, "Diffuser", "Spray"}
	case domain.Combos:
		return nil
	default:
		return nil
	}
}

// Featured returns the first limit featured products. A limit <= 0 means no limit.
func Featured(products []domain.Product, limit int) []domain.Product {
	return takeMatching(products, limit, func(p domain.Product) bool {
		return p.IsFeatured
	})
}

// ByAroma returns the first limit products tagged with aroma or listing it
// within one of their notes.
func ByAroma(products []domain.Product, aroma string, limit int) []domain.Product {
	return takeMatching(products, limit, func(p domain.Product) bool {
		if p.HasTag(aroma) {
			return true
		}
		for _, n := range p.Notes {
			if strings.Contains(n, aroma) {
				return true
			}
		}
		return false
	})
}

func takeMatching(products []domain.Product, limit int, match func(domain.Product) bool) []domain.Product {
	out := make([]domain.Product, 0)
	for _, p := range products {
		if limit > 0 && len(out) == limit {
			break
		}
		if match(p) {
			out = append(out, p)
		}
	}
	return out
}

func findBySlug(products []domain.Product, slug string) (domain.Product, bool) {
	for _, p := range products {
		if p.Slug == slug {
			return p, true
		}
	}
	return domain.Product{}, false
}
