package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/apperr"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/money"
)

// CartService maintains per-user carts. Totals are computed from live
// catalog prices.
type CartService struct {
	carts    CartStore
	products ProductStore
	users    UserStore
	log      *zap.Logger
}

// NewCartService constructs CartService.
func NewCartService(carts CartStore, products ProductStore, users UserStore, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{carts: carts, products: products, users: users, log: logger.Named("cart")}
}

// CartLine is a cart item joined with its current catalog entry.
type CartLine struct {
	models.CartItem
	Product  models.Product `json:"product"`
	Subtotal money.Money    `json:"subtotal"`
}

// GetCart returns the user's items in insertion order.
func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	if err := requireUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	return s.carts.ListByUser(ctx, userID)
}

// View returns the cart with product details and live subtotals.
func (s *CartService) View(ctx context.Context, userID uuid.UUID) ([]CartLine, error) {
	items, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	products, err := s.resolve(ctx, items)
	if err != nil {
		return nil, err
	}

	lines := make([]CartLine, 0, len(items))
	for _, item := range items {
		p := products[item.ProductID]
		lines = append(lines, CartLine{
			CartItem: item,
			Product:  p,
			Subtotal: p.PriceCents.Mul(item.Quantity),
		})
	}
	return lines, nil
}

// AddItem adds quantity units of a product. An existing line for the same
// product is merged by summing quantities; deliveryOption replaces the
// existing option only when given.
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, productID string, quantity int, deliveryOption *string) (*models.CartItem, error) {
	if err := checkQuantity(quantity); err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	product, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.NotFound("%s: %s", apperr.ErrMsgProductNotFound, productID)
	}

	item, err := s.carts.Upsert(ctx, userID, productID, quantity, deliveryOption)
	if err != nil {
		return nil, err
	}
	s.log.Debug("item added",
		zap.Stringer("user_id", userID),
		zap.String("product_id", productID),
		zap.Int("quantity", item.Quantity))
	return item, nil
}

// UpdateItem overwrites the fields that are non-nil.
func (s *CartService) UpdateItem(ctx context.Context, itemID uuid.UUID, quantity *int, deliveryOption *string) (*models.CartItem, error) {
	if quantity != nil {
		if err := checkQuantity(*quantity); err != nil {
			return nil, err
		}
	}
	item, err := s.carts.Update(ctx, itemID, quantity, deliveryOption)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.NotFound(apperr.ErrMsgCartItemNotFound)
	}
	return item, nil
}

// RemoveItem deletes the user's line for productID and reports whether one
// existed.
func (s *CartService) RemoveItem(ctx context.Context, userID uuid.UUID, productID string) (bool, error) {
	return s.carts.Delete(ctx, userID, productID)
}

// ClearCart removes every line of the user's cart.
func (s *CartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return s.carts.ClearUser(ctx, userID)
}

// ItemCount returns the number of distinct lines in the cart.
func (s *CartService) ItemCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.carts.CountByUser(ctx, userID)
}

// Total is the sum of quantity x current price over the cart.
func (s *CartService) Total(ctx context.Context, userID uuid.UUID) (money.Money, error) {
	items, err := s.carts.ListByUser(ctx, userID)
	if err != nil {
		return money.Zero, err
	}
	products, err := s.resolve(ctx, items)
	if err != nil {
		return money.Zero, err
	}

	total := money.Zero
	for _, item := range items {
		sub, err := products[item.ProductID].PriceCents.MulChecked(item.Quantity)
		if err == nil {
			total, err = total.AddChecked(sub)
		}
		if err != nil {
			return money.Zero, apperr.InvalidArgument(apperr.ErrMsgAmountOutOfRange)
		}
	}
	return total, nil
}

func checkQuantity(quantity int) error {
	switch {
	case quantity < 1:
		return apperr.InvalidArgument(apperr.ErrMsgQuantityPositive)
	case quantity > models.MaxQuantity:
		return apperr.InvalidArgument(apperr.ErrMsgQuantityTooLarge)
	}
	return nil
}

// resolve loads the catalog entries for items. A product removed from the
// catalog while still in a cart is reported as NotFound.
func (s *CartService) resolve(ctx context.Context, items []models.CartItem) (map[string]models.Product, error) {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, ok := products[id]; !ok {
			return nil, apperr.NotFound("%s: %s", apperr.ErrMsgProductNotFound, id)
		}
	}
	return products, nil
}

func requireUser(ctx context.Context, users UserStore, userID uuid.UUID) error {
	user, err := users.Get(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound(apperr.ErrMsgUserNotFound)
	}
	return nil
}
