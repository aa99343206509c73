package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/apperr"
	"github.com/example/storefront/internal/models"
)

// OrderService turns carts into orders and drives the order status lifecycle.
type OrderService struct {
	orders   OrderStore
	products ProductStore
	carts    CartStore
	users    UserStore
	alerts   OrderNotifier
	log      *zap.Logger
	now      func() time.Time
}

// NewOrderService constructs OrderService.
func NewOrderService(orders OrderStore, products ProductStore, carts CartStore, users UserStore, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orders:   orders,
		products: products,
		carts:    carts,
		users:    users,
		log:      logger.Named("order"),
		now:      time.Now,
	}
}

// SetOrderNotifier registers a best-effort listener for new orders.
func (s *OrderService) SetOrderNotifier(n OrderNotifier) {
	s.alerts = n
}

// OrderLineInput is one requested line of a new order.
type OrderLineInput struct {
	ProductID      string `json:"product_id" validate:"required"`
	Quantity       int    `json:"quantity" validate:"required,min=1,max=10000"`
	DeliveryOption string `json:"delivery_option"`
}

// CreateOrderInput carries everything needed to place an order.
type CreateOrderInput struct {
	ShippingAddress string           `json:"shipping_address" validate:"required"`
	PaymentMethod   string           `json:"payment_method" validate:"required"`
	Items           []OrderLineInput `json:"items" validate:"required,min=1,dive"`
}

// CreateOrder snapshots current prices into a new PENDING order and then
// empties the user's cart. Nothing is written if any product is missing.
func (s *OrderService) CreateOrder(ctx context.Context, userID uuid.UUID, input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, apperr.InvalidArgument(apperr.ErrMsgItemsRequired)
	}
	ids := make([]string, 0, len(input.Items))
	for _, item := range input.Items {
		if err := checkQuantity(item.Quantity); err != nil {
			return nil, apperr.InvalidArgument("%s: %s", apperr.Message(err), item.ProductID)
		}
		ids = append(ids, item.ProductID)
	}
	if err := requireUser(ctx, s.users, userID); err != nil {
		return nil, err
	}

	products, err := s.products.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	lines := make([]models.OrderItem, 0, len(input.Items))
	for i, item := range input.Items {
		product, ok := products[item.ProductID]
		if !ok {
			return nil, apperr.NotFound("%s: %s", apperr.ErrMsgProductNotFound, item.ProductID)
		}
		option := item.DeliveryOption
		if option == "" {
			option = models.DefaultDeliveryOption
		}
		lines = append(lines, models.OrderItem{
			Line:           i + 1,
			ProductID:      product.ID,
			Quantity:       item.Quantity,
			PriceAtTime:    product.PriceCents,
			DeliveryOption: option,
		})
	}

	total, err := models.CheckedTotal(lines)
	if err != nil {
		return nil, apperr.InvalidArgument(apperr.ErrMsgAmountOutOfRange)
	}

	order := &models.Order{
		UserID:          userID,
		Items:           lines,
		TotalAmount:     total,
		Status:          models.OrderStatusPending,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		OrderDate:       s.now().UTC(),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.log.Info("order created",
		zap.Stringer("order_id", order.ID),
		zap.Stringer("user_id", userID),
		zap.Int("lines", len(lines)),
		zap.Stringer("total", order.TotalAmount))

	if err := s.carts.ClearUser(ctx, userID); err != nil {
		s.log.Warn("clear cart after checkout",
			zap.Stringer("order_id", order.ID),
			zap.Stringer("user_id", userID),
			zap.Error(err))
	}

	if s.alerts != nil {
		if err := s.alerts.OrderPlaced(ctx, order); err != nil {
			s.log.Warn("order alert failed", zap.Stringer("order_id", order.ID), zap.Error(err))
		}
	}

	return order, nil
}

// GetOrder returns NotFound when the order does not exist.
func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperr.NotFound(apperr.ErrMsgOrderNotFound)
	}
	return order, nil
}

// GetUserOrders lists the user's orders, newest first.
func (s *OrderService) GetUserOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *OrderService) GetOrdersByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	return s.orders.ListByStatus(ctx, status)
}

func (s *OrderService) GetUserOrdersByStatus(ctx context.Context, userID uuid.UUID, status models.OrderStatus) ([]models.Order, error) {
	return s.orders.ListByUserAndStatus(ctx, userID, status)
}

// UpdateStatus is the administrative override: any known status may be set
// unless the order is already CANCELLED.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	status, ok := models.ParseOrderStatus(string(status))
	if !ok {
		return nil, apperr.InvalidArgument("%s: %s", apperr.ErrMsgUnknownOrderStatus, status)
	}

	changed, err := s.orders.SetStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}
	if !changed {
		// Either missing or cancelled; tell them apart for the caller.
		if _, err := s.GetOrder(ctx, orderID); err != nil {
			return nil, err
		}
		return nil, apperr.InvalidState(apperr.ErrMsgOrderCancelled)
	}

	s.log.Info("order status updated", zap.Stringer("order_id", orderID), zap.String("status", string(status)))
	return s.GetOrder(ctx, orderID)
}

// Cancel moves a PENDING order to CANCELLED. Any other status is rejected
// with InvalidState and left unchanged.
func (s *OrderService) Cancel(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	changed, err := s.orders.CompareAndSetStatus(ctx, orderID, models.OrderStatusPending, models.OrderStatusCancelled)
	if err != nil {
		return nil, err
	}
	if !changed {
		if _, err := s.GetOrder(ctx, orderID); err != nil {
			return nil, err
		}
		return nil, apperr.InvalidState(apperr.ErrMsgOnlyPendingCancel)
	}

	s.log.Info("order cancelled", zap.Stringer("order_id", orderID))
	return s.GetOrder(ctx, orderID)
}

// SetDeliveryDate records when the order is expected to arrive.
func (s *OrderService) SetDeliveryDate(ctx context.Context, orderID uuid.UUID, at time.Time) (*models.Order, error) {
	changed, err := s.orders.SetDeliveryDate(ctx, orderID, at.UTC())
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, apperr.NotFound(apperr.ErrMsgOrderNotFound)
	}
	return s.GetOrder(ctx, orderID)
}

func (s *OrderService) Stats(ctx context.Context) (*OrderStats, error) {
	return s.orders.Stats(ctx)
}
