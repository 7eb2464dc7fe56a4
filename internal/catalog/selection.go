package catalog

import "github.com/ManuC12/Raices-de-vida/internal/domain"

// Selection is the variant picked on a product page. It starts on the first variant.
type Selection struct {
	product domain.Product
	index   int
}

func NewSelection(product domain.Product) *Selection {
	return &Selection{product: product}
}

// Select switches to variantID and reports whether it exists.
// Unknown ids keep the current selection.
func (s *Selection) Select(variantID string) bool {
	for i, v := range s.product.Variants {
		if v.ID == variantID {
			s.index = i
			return true
		}
	}
	return false
}

// Variant returns the selected variant; false only for a product without variants.
func (s *Selection) Variant() (domain.Variant, bool) {
	if len(s.product.Variants) == 0 {
		return domain.Variant{}, false
	}
	return s.product.Variants[s.index], true
}

// Price is the selected variant's price, or the product's base price when it has none.
func (s *Selection) Price() float64 {
	if v, ok := s.Variant(); ok {
		return v.Price
	}
	return s.product.Price
}

func (s *Selection) Product() domain.Product {
	return s.product
}
