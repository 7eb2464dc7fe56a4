package admin

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/ManuC12/Raices-de-vida/internal/domain"
	"gopkg.in/yaml.v3"
)

var ErrOrderNotFound = errors.New("order not found")

//go:embed data/orders.yaml
var demoOrdersYAML []byte

// DemoOrders returns the orders the board starts with.
func DemoOrders() ([]domain.Order, error) {
	var doc struct {
		Orders []domain.Order `yaml:"orders"`
	}
	if err := yaml.Unmarshal(demoOrdersYAML, &doc); err != nil {
		return nil, fmt.Errorf("parse demo orders: %w", err)
	}
	for _, o := range doc.Orders {
		if _, err := domain.ParseOrderStatus(string(o.Status)); err != nil {
			return nil, fmt.Errorf("demo order %s: %w", o.Number, err)
		}
	}
	return doc.Orders, nil
}

// Board holds the orders in memory. Status changes are lost on restart.
type Board struct {
	m      sync.RWMutex
	orders []domain.Order
}

func NewBoard(orders []domain.Order) *Board {
	return &Board{orders: cloneOrders(orders)}
}

// Open returns the orders still being handled, i.e. everything not shipped.
func (b *Board) Open() []domain.Order {
	return b.where(func(o domain.Order) bool { return o.Status != domain.OrderShipped })
}

// History returns shipped orders.
func (b *Board) History() []domain.Order {
	return b.where(func(o domain.Order) bool { return o.Status == domain.OrderShipped })
}

func (b *Board) SetStatus(number string, status domain.OrderStatus) (domain.Order, error) {
	if _, err := domain.ParseOrderStatus(string(status)); err != nil {
		return domain.Order{}, err
	}

	b.m.Lock()
	defer b.m.Unlock()
	for i := range b.orders {
		if b.orders[i].Number == number {
			b.orders[i].Status = status
			return cloneOrder(b.orders[i]), nil
		}
	}
	return domain.Order{}, fmt.Errorf("%w: %s", ErrOrderNotFound, number)
}

// Record adds o to the board, replacing an order with the same number.
func (b *Board) Record(o domain.Order) {
	o = cloneOrder(o)

	b.m.Lock()
	defer b.m.Unlock()
	for i := range b.orders {
		if b.orders[i].Number == o.Number {
			b.orders[i] = o
			return
		}
	}
	b.orders = append(b.orders, o)
}

type Stats struct {
	Orders   int                        `json:"orders"`
	ByStatus map[domain.OrderStatus]int `json:"byStatus"`
	// Revenue sums every order that was not cancelled.
	Revenue float64 `json:"revenue"`
}

func (b *Board) Stats() Stats {
	b.m.RLock()
	defer b.m.RUnlock()

	st := Stats{ByStatus: make(map[domain.OrderStatus]int, len(domain.OrderStatuses))}
	for _, s := range domain.OrderStatuses {
		st.ByStatus[s] = 0
	}
	for _, o := range b.orders {
		st.Orders++
		st.ByStatus[o.Status]++
		if o.Status != domain.OrderCancelled {
			st.Revenue += o.Total
		}
	}
	return st
}

func (b *Board) where(keep func(domain.Order) bool) []domain.Order {
	b.m.RLock()
	defer b.m.RUnlock()

	out := make([]domain.Order, 0, len(b.orders))
	for _, o := range b.orders {
		if keep(o) {
			out = append(out, cloneOrder(o))
		}
	}
	return out
}

func cloneOrder(o domain.Order) domain.Order {
	o.Items = slices.Clone(o.Items)
	return o
}

func cloneOrders(orders []domain.Order) []domain.Order {
	out := make([]domain.Order, len(orders))
	for i, o := range orders {
		out[i] = cloneOrder(o)
	}
	return out
}
