// Package checkout simulates placing an order: it waits, draws an order
// number and empties the cart. Nothing is charged or stored.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/ManuC12/Raices-de-vida/internal/cart"
	"github.com/ManuC12/Raices-de-vida/internal/domain"
	"go.uber.org/zap"
)

const (
	DefaultDelay   = 2 * time.Second
	MaxOrderNumber = 1_000_000

	publishTimeout = 5 * time.Second
)

var ErrClosed = errors.New("checkout simulator closed")

type Receipt struct {
	OrderNumber int               `json:"orderNumber"`
	Customer    domain.Customer   `json:"customer"`
	Items       []domain.CartItem `json:"items"`
	Total       float64           `json:"total"`
	PlacedAt    time.Time         `json:"placedAt"`
}

type Simulator struct {
	carts     *cart.Service
	publisher Publisher
	delay     time.Duration
	draw      func() int
	now       func() time.Time
	log       *zap.Logger

	m      sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

type Option func(*Simulator)

func WithDelay(d time.Duration) Option {
	return func(s *Simulator) {
		s.delay = d
	}
}

func WithPublisher(p Publisher) Option {
	return func(s *Simulator) {
		s.publisher = p
	}
}

// WithOrderNumbers replaces the random order number source.
func WithOrderNumbers(draw func() int) Option {
	return func(s *Simulator) {
		s.draw = draw
	}
}

func NewSimulator(carts *cart.Service, log *zap.Logger, opts ...Option) *Simulator {
	s := &Simulator{
		carts:     carts,
		publisher: NopPublisher{},
		delay:     DefaultDelay,
		draw:      func() int { return rand.IntN(MaxOrderNumber) },
		now:       time.Now,
		log:       log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrder waits out the processing delay, then empties the session's cart
// and returns what was in it. An empty cart still yields an order number.
func (s *Simulator) PlaceOrder(ctx context.Context, sessionID string, customer domain.Customer) (*Receipt, error) {
	s.m.RLock()
	closed := s.closed
	s.m.RUnlock()
	if closed {
		return nil, ErrClosed
	}

	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	receipt := &Receipt{
		OrderNumber: s.draw(),
		Customer:    customer,
		PlacedAt:    s.now(),
	}
	_, err := s.carts.Update(ctx, sessionID, func(c *cart.Store) error {
		receipt.Items = c.Items()
		receipt.Total = c.Subtotal()
		return c.ClearCart(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("checkout: %w", err)
	}

	s.log.Info("order placed",
		zap.Int("order_number", receipt.OrderNumber),
		zap.Int("lines", len(receipt.Items)),
		zap.Float64("total", receipt.Total))

	s.publish(ctx, sessionID, receipt)
	return receipt, nil
}

func (s *Simulator) publish(ctx context.Context, sessionID string, r *Receipt) {
	event := OrderPlaced{
		OrderNumber: r.OrderNumber,
		SessionID:   sessionID,
		Customer:    r.Customer,
		Items:       r.Items,
		Total:       r.Total,
		PlacedAt:    r.PlacedAt,
	}

	s.m.RLock()
	defer s.m.RUnlock()
	if s.closed {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()
		if err := s.publisher.Publish(pubCtx, event); err != nil {
			s.log.Warn("order event not published", zap.Int("order_number", event.OrderNumber), zap.Error(err))
		}
	}()
}

// Close waits for in-flight events and closes the publisher.
func (s *Simulator) Close() error {
	s.m.Lock()
	if s.closed {
		s.m.Unlock()
		return nil
	}
	s.closed = true
	s.m.Unlock()

	s.wg.Wait()
	return s.publisher.Close()
}
