package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/money"
)

// ProductStore is the catalog lookup and maintenance contract.
type ProductStore interface {
	Get(ctx context.Context, id string) (*models.Product, error)
	GetMany(ctx context.Context, ids []string) (map[string]models.Product, error)
	List(ctx context.Context, limit, offset int) ([]models.Product, int64, error)
	Search(ctx context.Context, keyword string) ([]models.Product, error)
	ByType(ctx context.Context, productType string) ([]models.Product, error)
	ByMinRating(ctx context.Context, minStars float64) ([]models.Product, error)
	ByPriceRange(ctx context.Context, low, high money.Money) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Save(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) (bool, error)
}

// UserStore persists registered users.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Count(ctx context.Context) (int64, error)
}

// CartStore persists cart items keyed by (user, product).
type CartStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	Get(ctx context.Context, id uuid.UUID) (*models.CartItem, error)
	// Upsert inserts a new item or atomically adds quantity to the existing
	// one. deliveryOption overwrites only when non-nil.
	Upsert(ctx context.Context, userID uuid.UUID, productID string, quantity int, deliveryOption *string) (*models.CartItem, error)
	Update(ctx context.Context, id uuid.UUID, quantity *int, deliveryOption *string) (*models.CartItem, error)
	Delete(ctx context.Context, userID uuid.UUID, productID string) (bool, error)
	ClearUser(ctx context.Context, userID uuid.UUID) error
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

// OrderStats aggregates orders for operational dashboards.
type OrderStats struct {
	TotalOrders    int64                        `json:"total_orders"`
	OrdersByStatus map[models.OrderStatus]int64 `json:"orders_by_status"`
	Revenue        money.Money                  `json:"revenue"`
}

// OrderStore persists orders together with their lines.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
	ListByUserAndStatus(ctx context.Context, userID uuid.UUID, status models.OrderStatus) ([]models.Order, error)
	// SetStatus overwrites the status unless the order is cancelled. It
	// reports false when no row was changed.
	SetStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (bool, error)
	// CompareAndSetStatus changes the status only if it still equals expected.
	CompareAndSetStatus(ctx context.Context, id uuid.UUID, expected, status models.OrderStatus) (bool, error)
	SetDeliveryDate(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	Stats(ctx context.Context) (*OrderStats, error)
}

// OTPStore persists issued codes.
type OTPStore interface {
	Create(ctx context.Context, otp *models.OTP) error
	Get(ctx context.Context, id uuid.UUID) (*models.OTP, error)
	// Claim marks the OTP used if id and code match, it is unused and
	// now < expires_at, in a single conditional write. It returns the email
	// and true only for the caller that performed the transition.
	Claim(ctx context.Context, id uuid.UUID, code string, now time.Time) (string, bool, error)
}

// Notifier delivers an OTP out of band.
type Notifier interface {
	Send(ctx context.Context, email, code string, otpID uuid.UUID) error
}

// OrderNotifier is told about newly placed orders. Failures are logged and
// never affect the order.
type OrderNotifier interface {
	OrderPlaced(ctx context.Context, order *models.Order) error
}
