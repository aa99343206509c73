package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/example/storefront/internal/apperr"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/money"
)

// ProductInput is used both for creation and partial updates; on update
// nil fields are left untouched.
type ProductInput struct {
	ID            string          `json:"id"`
	Name          *string         `json:"name"`
	Image         *string         `json:"image"`
	Rating        *models.Rating  `json:"rating"`
	PriceCents    *money.Money    `json:"priceCents"`
	Keywords      models.Keywords `json:"keywords"`
	Type          *string         `json:"type"`
	SizeChartLink *string         `json:"sizeChartLink"`
}

// ProductPage is one page of the catalog listing.
type ProductPage struct {
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
}

// ProductService manages the catalog.
type ProductService struct {
	products ProductStore
	log      *zap.Logger
}

// NewProductService constructs ProductService.
func NewProductService(products ProductStore, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{products: products, log: logger.Named("product")}
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.NotFound("%s: %s", apperr.ErrMsgProductNotFound, id)
	}
	return product, nil
}

func (s *ProductService) List(ctx context.Context, limit, offset int) (*ProductPage, error) {
	products, total, err := s.products.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return &ProductPage{Products: products, Total: total}, nil
}

// Search matches keyword case-insensitively against names and keywords.
func (s *ProductService) Search(ctx context.Context, keyword string) ([]models.Product, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, apperr.InvalidArgument("keyword is required")
	}
	return s.products.Search(ctx, keyword)
}

func (s *ProductService) ByType(ctx context.Context, productType string) ([]models.Product, error) {
	return s.products.ByType(ctx, productType)
}

func (s *ProductService) ByMinRating(ctx context.Context, minStars float64) ([]models.Product, error) {
	if minStars < 0 || minStars > 5 {
		return nil, apperr.InvalidArgument("min rating must be between 0 and 5")
	}
	return s.products.ByMinRating(ctx, minStars)
}

// ByPriceRange returns products priced within [low, high].
func (s *ProductService) ByPriceRange(ctx context.Context, low, high money.Money) ([]models.Product, error) {
	if low.IsNegative() || high.Cmp(low) < 0 {
		return nil, apperr.InvalidArgument("invalid price range")
	}
	return s.products.ByPriceRange(ctx, low, high)
}

func (s *ProductService) Create(ctx context.Context, input ProductInput) (*models.Product, error) {
	if strings.TrimSpace(input.ID) == "" {
		return nil, apperr.InvalidArgument("product id is required")
	}
	if input.Name == nil || strings.TrimSpace(*input.Name) == "" {
		return nil, apperr.InvalidArgument("product name is required")
	}
	if input.PriceCents == nil {
		return nil, apperr.InvalidArgument("price is required")
	}

	product := &models.Product{ID: input.ID}
	applyProductInput(product, input)
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	s.log.Info("product created", zap.String("product_id", product.ID))
	return product, nil
}

// Update applies the non-nil fields of input. Existing orders keep the price
// they were placed at.
func (s *ProductService) Update(ctx context.Context, id string, input ProductInput) (*models.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyProductInput(product, input)
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	deleted, err := s.products.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound("%s: %s", apperr.ErrMsgProductNotFound, id)
	}
	return nil
}

func applyProductInput(p *models.Product, in ProductInput) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Image != nil {
		p.Image = *in.Image
	}
	if in.Rating != nil {
		p.Rating = *in.Rating
	}
	if in.PriceCents != nil {
		p.PriceCents = *in.PriceCents
	}
	if in.Keywords != nil {
		p.Keywords = in.Keywords
	}
	if in.Type != nil {
		p.Type = in.Type
	}
	if in.SizeChartLink != nil {
		p.SizeChartLink = in.SizeChartLink
	}
}

func validateProduct(p *models.Product) error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return apperr.InvalidArgument("product name is required")
	case p.PriceCents.IsNegative():
		return apperr.InvalidArgument("price must not be negative")
	case p.Rating.Stars < 0 || p.Rating.Stars > 5:
		return apperr.InvalidArgument("rating stars must be between 0 and 5")
	case p.Rating.Count < 0:
		return apperr.InvalidArgument("rating count must not be negative")
	}
	return nil
}
