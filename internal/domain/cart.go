package domain

// CartItem is a snapshot of a product variant taken when it was added to the cart.
// Display fields are copied, so later catalog edits do not reach existing lines.
type CartItem struct {
	ProductID   string  `json:"productId" yaml:"productId"`
	VariantID   string  `json:"variantId" yaml:"variantId"`
	Name        string  `json:"name" yaml:"name"`
	VariantName string  `json:"variantName" yaml:"variantName"`
	Price       float64 `json:"price" yaml:"price"`
	Quantity    int     `json:"quantity" yaml:"quantity"`
	Image       string  `json:"image" yaml:"image"`
	Slug        string  `json:"slug" yaml:"slug"`
}

type ItemKey struct {
	ProductID string
	VariantID string
}

func (i CartItem) Key() ItemKey {
	return ItemKey{ProductID: i.ProductID, VariantID: i.VariantID}
}

func (i CartItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}
