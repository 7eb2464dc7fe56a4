package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrUnknownStatus = errors.New("unknown order status")

// OrderStatus represents where an order stands on the admin board
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderShipped   OrderStatus = "shipped"
	OrderCancelled OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{OrderPending, OrderPaid, OrderShipped, OrderCancelled}

func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range OrderStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

func (s OrderStatus) String() string {
	return string(s)
}

type Customer struct {
	Name  string `json:"name" yaml:"name"`
	Phone string `json:"phone,omitempty" yaml:"phone"`
	Email string `json:"email" yaml:"email"`
}

// Order is display data only. Checkout never stores one.
type Order struct {
	Number        string      `json:"orderNumber" yaml:"orderNumber"`
	Customer      Customer    `json:"customer" yaml:"customer"`
	Items         []CartItem  `json:"items" yaml:"items"`
	Total         float64     `json:"total" yaml:"total"`
	Status        OrderStatus `json:"status" yaml:"status"`
	PaymentMethod string      `json:"paymentMethod,omitempty" yaml:"paymentMethod"`
	PlacedAt      time.Time   `json:"placedAt" yaml:"placedAt"`
}

type Testimonial struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Text     string `json:"text" yaml:"text"`
	Rating   int    `json:"rating" yaml:"rating"`
	Location string `json:"location,omitempty" yaml:"location"`
	Date     string `json:"date" yaml:"date"`
}
