package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/storefront/internal/models"
)

const cartItemsTable = "cart_items"

// CartRepository is the gorm-backed cart store.
type CartRepository struct {
	db *gorm.DB
}

// NewCartRepository constructs CartRepository.
func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at, product_id").
		Find(&items).Error; err != nil {
		return nil, storeError(err, "select", cartItemsTable)
	}
	return items, nil
}

// Get returns (nil, nil) when the item does not exist.
func (r *CartRepository) Get(ctx context.Context, id uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, storeError(err, "select", cartItemsTable)
	}
	return &item, nil
}

// Upsert relies on the (user_id, product_id) unique index so concurrent adds
// for the same pair add up instead of overwriting each other.
func (r *CartRepository) Upsert(ctx context.Context, userID uuid.UUID, productID string, quantity int, deliveryOption *string) (*models.CartItem, error) {
	item := models.CartItem{
		UserID:         userID,
		ProductID:      productID,
		Quantity:       quantity,
		DeliveryOption: models.DefaultDeliveryOption,
	}
	updates := map[string]interface{}{
		"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
		"updated_at": gorm.Expr("excluded.updated_at"),
	}
	if deliveryOption != nil {
		item.DeliveryOption = *deliveryOption
		updates["delivery_option"] = gorm.Expr("excluded.delivery_option")
	}

	db := r.db.WithContext(ctx)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(updates),
	}).Create(&item).Error; err != nil {
		return nil, storeError(err, "upsert", cartItemsTable)
	}

	var stored models.CartItem
	if err := db.Where("user_id = ? AND product_id = ?", userID, productID).First(&stored).Error; err != nil {
		return nil, storeError(err, "select", cartItemsTable)
	}
	return &stored, nil
}

// Update applies the non-nil fields. It returns (nil, nil) when the item
// does not exist.
func (r *CartRepository) Update(ctx context.Context, id uuid.UUID, quantity *int, deliveryOption *string) (*models.CartItem, error) {
	updates := map[string]interface{}{}
	if quantity != nil {
		updates["quantity"] = *quantity
	}
	if deliveryOption != nil {
		updates["delivery_option"] = *deliveryOption
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).Model(&models.CartItem{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, storeError(res.Error, "update", cartItemsTable)
		}
		if res.RowsAffected == 0 {
			return nil, nil
		}
	}
	return r.Get(ctx, id)
}

func (r *CartRepository) Delete(ctx context.Context, userID uuid.UUID, productID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return false, storeError(res.Error, "delete", cartItemsTable)
	}
	return res.RowsAffected > 0, nil
}

func (r *CartRepository) ClearUser(ctx context.Context, userID uuid.UUID) error {
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
	return storeError(err, "delete", cartItemsTable)
}

// CountByUser counts distinct cart lines, not units.
func (r *CartRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, storeError(err, "count", cartItemsTable)
	}
	return int(count), nil
}
