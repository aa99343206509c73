package handlers

import (
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/example/storefront/internal/services"
	"github.com/example/storefront/internal/validation"
)

// AdminHandler manages operator endpoints.
type AdminHandler struct {
	orders   *services.OrderService
	users    *services.UserService
	validate *validatorv10.Validate
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(orders *services.OrderService, users *services.UserService, validate *validatorv10.Validate) *AdminHandler {
	return &AdminHandler{orders: orders, users: users, validate: validate}
}

// DashboardStats returns aggregate statistics for the admin dashboard.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	ctx := c.UserContext()

	totalUsers, err := h.users.Count(ctx)
	if err != nil {
		return err
	}

	stats, err := h.orders.Stats(ctx)
	if err != nil {
		return err
	}

	return ok(c, fiber.Map{
		"total_users":      totalUsers,
		"total_orders":     stats.TotalOrders,
		"orders_by_status": stats.OrdersByStatus,
		"revenue_cents":    stats.Revenue,
		"revenue":          stats.Revenue.String(),
	})
}

type deliveryDateRequest struct {
	DeliveryDate *time.Time `json:"delivery_date" validate:"required"`
}

// SetDeliveryDate records the expected delivery date of an order.
func (h *AdminHandler) SetDeliveryDate(c *fiber.Ctx) error {
	orderID, err := uuidParam(c, "orderId")
	if err != nil {
		return err
	}
	var req deliveryDateRequest
	if err := validation.Bind(c, h.validate, &req); err != nil {
		return err
	}

	order, err := h.orders.SetDeliveryDate(c.UserContext(), orderID, *req.DeliveryDate)
	if err != nil {
		return err
	}
	return ok(c, order)
}
