package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/ManuC12/Raices-de-vida/internal/domain"
	"github.com/ManuC12/Raices-de-vida/internal/kv"
	"go.uber.org/zap"
)

// Store holds the cart of one browser and writes every change through to its key.
// A Store is not safe for concurrent use; Service serialises access per session.
type Store struct {
	kv    kv.Store
	key   string
	items []domain.CartItem
	log   *zap.Logger
}

// Load restores the cart saved under key. Missing or unreadable data
// starts an empty cart.
func Load(ctx context.Context, store kv.Store, key string, log *zap.Logger) *Store {
	s := &Store{kv: store, key: key, log: log}

	data, err := store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			log.Warn("cart load failed, starting empty", zap.String("key", key), zap.Error(err))
		}
		return s
	}

	var items []domain.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		log.Warn("discarding corrupt cart", zap.String("key", key), zap.Error(err))
		return s
	}
	if err := validateLines(items); err != nil {
		log.Warn("discarding corrupt cart", zap.String("key", key), zap.Error(err))
		return s
	}
	s.items = items
	return s
}

// validateLines checks that every line has a positive quantity and that no
// (product, variant) pair appears twice.
func validateLines(items []domain.CartItem) error {
	type pair struct{ product, variant string }
	seen := make(map[pair]struct{}, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return fmt.Errorf("line %s/%s has quantity %d", item.ProductID, item.VariantID, item.Quantity)
		}
		k := pair{item.ProductID, item.VariantID}
		if _, dup := seen[k]; dup {
			return fmt.Errorf("duplicate line %s/%s", item.ProductID, item.VariantID)
		}
		seen[k] = struct{}{}
	}
	return nil
}

func (s *Store) Items() []domain.CartItem {
	return slices.Clone(s.items)
}

func (s *Store) Len() int {
	return len(s.items)
}

func (s *Store) TotalItems() int {
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

func (s *Store) Subtotal() float64 {
	var subtotal float64
	for _, item := range s.items {
		subtotal += item.LineTotal()
	}
	return subtotal
}

func (s *Store) indexOf(productID, variantID string) int {
	return slices.IndexFunc(s.items, func(item domain.CartItem) bool {
		return item.ProductID == productID && item.VariantID == variantID
	})
}

// AddItem merges quantity into the existing line for the pair, or appends a
// new line copying the product's display data. Quantities below one are ignored.
func (s *Store) AddItem(ctx context.Context, product domain.Product, variant domain.Variant, quantity int) error {
	if quantity < 1 {
		return nil
	}

	if i := s.indexOf(product.ID, variant.ID); i >= 0 {
		s.items[i].Quantity += quantity
		return s.save(ctx)
	}

	s.items = append(s.items, domain.CartItem{
		ProductID:   product.ID,
		VariantID:   variant.ID,
		Name:        product.Name,
		VariantName: variant.Name,
		Price:       variant.Price,
		Quantity:    quantity,
		Image:       product.Image(),
		Slug:        product.Slug,
	})
	return s.save(ctx)
}

func (s *Store) RemoveItem(ctx context.Context, productID, variantID string) error {
	s.items = slices.DeleteFunc(s.items, func(item domain.CartItem) bool {
		return item.ProductID == productID && item.VariantID == variantID
	})
	return s.save(ctx)
}

// UpdateQuantity overwrites the quantity of a line. Values below one leave the
// line untouched; use RemoveItem to drop it.
func (s *Store) UpdateQuantity(ctx context.Context, productID, variantID string, quantity int) error {
	if quantity < 1 {
		return nil
	}
	if i := s.indexOf(productID, variantID); i >= 0 {
		s.items[i].Quantity = quantity
	}
	return s.save(ctx)
}

func (s *Store) ClearCart(ctx context.Context) error {
	s.items = nil
	return s.save(ctx)
}

func (s *Store) save(ctx context.Context) error {
	items := s.items
	if items == nil {
		items = []domain.CartItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("cart: marshal: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("cart: save: %w", err)
	}
	return nil
}
