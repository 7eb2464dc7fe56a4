// Package catalog serves the product list, falling back to built-in products
// whenever the products table cannot be read.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/ManuC12/Raices-de-vida/internal/domain"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

var ErrProductNotFound = errors.New("product not found")

const defaultFetchTimeout = 10 * time.Second

// Source is the remote "products" collection.
type Source interface {
	Products(ctx context.Context) ([]domain.Product, error)
}

type Catalog struct {
	source       Source
	fallback     []domain.Product
	breaker      *gobreaker.CircuitBreaker[[]domain.Product]
	sfg          singleflight.Group // collapses concurrent fetches
	fetchTimeout time.Duration
	log          *zap.Logger
}

type Option func(*Catalog)

// WithFallback replaces the built-in product list.
func WithFallback(products []domain.Product) Option {
	return func(c *Catalog) {
		c.fallback = products
	}
}

// WithBreakerSettings replaces the default breaker configuration.
func WithBreakerSettings(st gobreaker.Settings) Option {
	return func(c *Catalog) {
		c.breaker = gobreaker.NewCircuitBreaker[[]domain.Product](st)
	}
}

// WithFetchTimeout bounds a shared fetch of the products table.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Catalog) {
		c.fetchTimeout = d
	}
}

// New builds a catalog over source. A nil source always serves the fallback list.
func New(source Source, log *zap.Logger, opts ...Option) *Catalog {
	c := &Catalog{
		source:       source,
		fallback:     Fallback(),
		fetchTimeout: defaultFetchTimeout,
		log:          log,
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]domain.Product](gobreaker.Settings{
		Name:    "catalog",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsExcluded: func(err error) bool {
			return errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("catalog breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to))
		},
	})
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Products returns the fetched product list in source order, or the fallback
// list when the fetch fails or comes back empty. The result is the caller's
// own copy.
func (c *Catalog) Products(ctx context.Context) []domain.Product {
	return cloneProducts(c.current(ctx))
}

// current is the list being served. It may be shared with other callers.
func (c *Catalog) current(ctx context.Context) []domain.Product {
	if c.source == nil {
		return c.fallback
	}

	// the fetch is shared, so it must outlive any single caller
	ch := c.sfg.DoChan("products", func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()
		return c.breaker.Execute(func() ([]domain.Product, error) {
			return c.source.Products(fetchCtx)
		})
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return c.fallback
	}
	if res.Err != nil {
		c.log.Warn("catalog fetch failed, using built-in products", zap.Error(res.Err))
		return c.fallback
	}

	products := res.Val.([]domain.Product)
	if len(products) == 0 {
		c.log.Warn("no products found, using built-in products")
		return c.fallback
	}
	return products
}

// ProductBySlug looks slug up in the list Products is currently serving.
func (c *Catalog) ProductBySlug(ctx context.Context, slug string) (domain.Product, error) {
	if p, ok := findBySlug(c.current(ctx), slug); ok {
		return cloneProduct(p), nil
	}
	return domain.Product{}, ErrProductNotFound
}

// Browse applies Filter to the current product list.
func (c *Catalog) Browse(ctx context.Context, category domain.CategoryFilter, subFilter string) []domain.Product {
	return Filter(c.Products(ctx), category, subFilter)
}

func (c *Catalog) Featured(ctx context.Context, limit int) []domain.Product {
	return Featured(c.Products(ctx), limit)
}

func (c *Catalog) ByAroma(ctx context.Context, aroma string, limit int) []domain.Product {
	return ByAroma(c.Products(ctx), aroma, limit)
}

// Ping reports whether the products table is currently reachable.
func (c *Catalog) Ping(ctx context.Context) error {
	if c.source == nil {
		return nil
	}
	if p, ok := c.source.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	_, err := c.source.Products(ctx)
	return err
}

func (c *Catalog) BreakerState() gobreaker.State {
	return c.breaker.State()
}
