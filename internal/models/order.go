package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/storefront/internal/money"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

var orderStatuses = map[OrderStatus]struct{}{
	OrderStatusPending:   {},
	OrderStatusConfirmed: {},
	OrderStatusShipped:   {},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// ParseOrderStatus accepts a status name in any letter case.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	status := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := orderStatuses[status]
	return status, ok
}

// Terminal reports whether no further transitions are allowed.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCancelled
}

// Order is created once from a set of cart-derived lines. Only Status and
// DeliveryDate change afterwards.
type Order struct {
	BaseModel
	UserID          uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	Items           []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount     money.Money `gorm:"not null" json:"total_amount"`
	Status          OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	ShippingAddress string      `json:"shipping_address"`
	PaymentMethod   string      `json:"payment_method"`
	OrderDate       time.Time   `gorm:"not null;index" json:"order_date"`
	DeliveryDate    *time.Time  `json:"delivery_date"`
}

// OrderItem is an order line. PriceAtTime is the product price captured when
// the order was created and never changes.
type OrderItem struct {
	BaseModel
	OrderID        uuid.UUID   `gorm:"type:uuid;not null;index" json:"order_id"`
	Line           int         `gorm:"not null" json:"line"`
	ProductID      string      `gorm:"not null" json:"product_id"`
	Quantity       int         `gorm:"not null" json:"quantity"`
	PriceAtTime    money.Money `gorm:"not null" json:"price_at_time"`
	DeliveryOption string      `json:"delivery_option"`
}

// Subtotal is Quantity x PriceAtTime.
func (i OrderItem) Subtotal() money.Money {
	return i.PriceAtTime.Mul(i.Quantity)
}

// CheckedTotal is ComputeTotal that reports money.ErrOverflow instead of
// wrapping around.
func CheckedTotal(items []OrderItem) (money.Money, error) {
	total := money.Zero
	for _, item := range items {
		sub, err := item.PriceAtTime.MulChecked(item.Quantity)
		if err != nil {
			return money.Zero, err
		}
		if total, err = total.AddChecked(sub); err != nil {
			return money.Zero, err
		}
	}
	return total, nil
}

// ComputeTotal sums line subtotals.
func ComputeTotal(items []OrderItem) money.Money {
	total := money.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}
