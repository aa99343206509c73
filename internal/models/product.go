package models

import (
	"time"

	"github.com/example/storefront/internal/money"
)

// Rating is the aggregated review score of a product.
type Rating struct {
	Stars float64 `json:"stars"`
	Count int     `json:"count"`
}

// Product is a catalog entry keyed by a stable external string id.
type Product struct {
	ID            string      `gorm:"primaryKey" json:"id"`
	Name          string      `json:"name"`
	Image         string      `json:"image"`
	Rating        Rating      `gorm:"embedded;embeddedPrefix:rating_" json:"rating"`
	PriceCents    money.Money `gorm:"index" json:"priceCents"`
	Keywords      Keywords    `json:"keywords"`
	Type          *string     `gorm:"index" json:"type,omitempty"`
	SizeChartLink *string     `json:"sizeChartLink,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}
