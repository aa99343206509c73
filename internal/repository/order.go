package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/money"
	"github.com/example/storefront/internal/services"
)

const ordersTable = "orders"

// OrderRepository is the gorm-backed order store.
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository constructs OrderRepository.
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("line")
	})
}

// Create inserts the order and all of its lines in one transaction.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
	return storeError(err, "insert", ordersTable)
}

// Get returns (nil, nil) when the order does not exist.
func (r *OrderRepository) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := preloadItems(r.db.WithContext(ctx)).First(&order, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, storeError(err, "select", ordersTable)
	}
	return &order, nil
}

func (r *OrderRepository) find(ctx context.Context, query interface{}, args ...interface{}) ([]models.Order, error) {
	var orders []models.Order
	if err := preloadItems(r.db.WithContext(ctx)).
		Where(query, args...).
		Order("order_date desc, id").
		Find(&orders).Error; err != nil {
		return nil, storeError(err, "select", ordersTable)
	}
	return orders, nil
}

// ListByUser returns the user's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return r.find(ctx, "user_id = ?", userID)
}

func (r *OrderRepository) ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	return r.find(ctx, "status = ?", status)
}

func (r *OrderRepository) ListByUserAndStatus(ctx context.Context, userID uuid.UUID, status models.OrderStatus) ([]models.Order, error) {
	return r.find(ctx, "user_id = ? AND status = ?", userID, status)
}

func (r *OrderRepository) SetStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status <> ?", id, models.OrderStatusCancelled).
		Update("status", status)
	if res.Error != nil {
		return false, storeError(res.Error, "update", ordersTable)
	}
	return res.RowsAffected > 0, nil
}

func (r *OrderRepository) CompareAndSetStatus(ctx context.Context, id uuid.UUID, expected, status models.OrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, expected).
		Update("status", status)
	if res.Error != nil {
		return false, storeError(res.Error, "update", ordersTable)
	}
	return res.RowsAffected > 0, nil
}

func (r *OrderRepository) SetDeliveryDate(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Update("delivery_date", at)
	if res.Error != nil {
		return false, storeError(res.Error, "update", ordersTable)
	}
	return res.RowsAffected > 0, nil
}

// Stats counts orders per status and sums the totals of non-cancelled ones.
func (r *OrderRepository) Stats(ctx context.Context) (*services.OrderStats, error) {
	db := r.db.WithContext(ctx)

	type statusCount struct {
		Status models.OrderStatus
		Count  int64
	}
	var counts []statusCount
	if err := db.Model(&models.Order{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, storeError(err, "aggregate", ordersTable)
	}

	stats := &services.OrderStats{OrdersByStatus: make(map[models.OrderStatus]int64)}
	for _, c := range counts {
		stats.OrdersByStatus[c.Status] = c.Count
		stats.TotalOrders += c.Count
	}

	var revenue int64
	if err := db.Model(&models.Order{}).
		Where("status <> ?", models.OrderStatusCancelled).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&revenue).Error; err != nil {
		return nil, storeError(err, "aggregate", ordersTable)
	}
	stats.Revenue = money.Cents(revenue)

	return stats, nil
}
