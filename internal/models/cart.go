package models

import "github.com/google/uuid"

const (
	// DefaultDeliveryOption is used when a cart item or order line names none.
	DefaultDeliveryOption = "1"
	// MaxQuantity bounds the quantity of a single add, update or order line.
	MaxQuantity = 10000
)

// CartItem is one consolidated line of a user's cart. The (user, product)
// pair is unique; repeated adds merge into Quantity.
type CartItem struct {
	BaseModel
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID      string    `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"product_id"`
	Quantity       int       `gorm:"not null" json:"quantity"`
	DeliveryOption string    `gorm:"not null;default:'1'" json:"delivery_option"`
}
