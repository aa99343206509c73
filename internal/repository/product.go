package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/money"
)

const productsTable = "products"

// ProductRepository is the gorm-backed catalog store.
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository constructs ProductRepository.
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Get returns (nil, nil) when the product does not exist.
func (r *ProductRepository) Get(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, storeError(err, "select", productsTable)
	}
	return &product, nil
}

// GetMany returns the products that exist among ids, keyed by id.
func (r *ProductRepository) GetMany(ctx context.Context, ids []string) (map[string]models.Product, error) {
	out := make(map[string]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var products []models.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, storeError(err, "select", productsTable)
	}
	for _, p := range products {
		out[p.ID] = p
	}
	return out, nil
}

func (r *ProductRepository) List(ctx context.Context, limit, offset int) ([]models.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, storeError(err, "count", productsTable)
	}

	var products []models.Product
	if err := query.Order("created_at desc, id").
		Limit(limit).Offset(offset).
		Find(&products).Error; err != nil {
		return nil, 0, storeError(err, "select", productsTable)
	}
	return products, total, nil
}

// Search matches the keyword case-insensitively against the name and the
// keyword list.
func (r *ProductRepository) Search(ctx context.Context, keyword string) ([]models.Product, error) {
	q := "%" + strings.ToLower(strings.TrimSpace(keyword)) + "%"

	var products []models.Product
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(CAST(keywords AS TEXT)) LIKE ?", q, q).
		Order("id").
		Find(&products).Error; err != nil {
		return nil, storeError(err, "search", productsTable)
	}
	return products, nil
}

func (r *ProductRepository) ByType(ctx context.Context, productType string) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Where("type = ?", productType).Order("id").Find(&products).Error; err != nil {
		return nil, storeError(err, "select", productsTable)
	}
	return products, nil
}

func (r *ProductRepository) ByMinRating(ctx context.Context, minStars float64) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Where("rating_stars >= ?", minStars).
		Order("rating_stars desc, id").
		Find(&products).Error; err != nil {
		return nil, storeError(err, "select", productsTable)
	}
	return products, nil
}

// ByPriceRange is inclusive on both ends.
func (r *ProductRepository) ByPriceRange(ctx context.Context, low, high money.Money) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Where("price_cents BETWEEN ? AND ?", low, high).
		Order("price_cents, id").
		Find(&products).Error; err != nil {
		return nil, storeError(err, "select", productsTable)
	}
	return products, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	return storeError(r.db.WithContext(ctx).Create(product).Error, "insert", productsTable)
}

func (r *ProductRepository) Save(ctx context.Context, product *models.Product) error {
	return storeError(r.db.WithContext(ctx).Save(product).Error, "update", productsTable)
}

func (r *ProductRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return false, storeError(res.Error, "delete", productsTable)
	}
	return res.RowsAffected > 0, nil
}
