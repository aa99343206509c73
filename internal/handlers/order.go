package handlers

import (
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/services"
	"github.com/example/storefront/internal/validation"
)

// OrderHandler manages checkout and the order lifecycle.
type OrderHandler struct {
	orders   *services.OrderService
	validate *validatorv10.Validate
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(orders *services.OrderService, validate *validatorv10.Validate) *OrderHandler {
	return &OrderHandler{orders: orders, validate: validate}
}

// CreateOrder places an order for the user and empties their cart.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}
	var req services.CreateOrderInput
	if err := validation.Bind(c, h.validate, &req); err != nil {
		return err
	}

	order, err := h.orders.CreateOrder(c.UserContext(), userID, req)
	if err != nil {
		return err
	}
	return created(c, order)
}

func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	orderID, err := uuidParam(c, "orderId")
	if err != nil {
		return err
	}
	order, err := h.orders.GetOrder(c.UserContext(), orderID)
	if err != nil {
		return err
	}
	return ok(c, order)
}

func (h *OrderHandler) GetUserOrders(c *fiber.Ctx) error {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}
	orders, err := h.orders.GetUserOrders(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return ok(c, orders)
}

func (h *OrderHandler) GetUserOrdersByStatus(c *fiber.Ctx) error {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}
	status, err := statusParam(c.Params("status"))
	if err != nil {
		return err
	}
	orders, err := h.orders.GetUserOrdersByStatus(c.UserContext(), userID, status)
	if err != nil {
		return err
	}
	return ok(c, orders)
}

func (h *OrderHandler) GetOrdersByStatus(c *fiber.Ctx) error {
	status, err := statusParam(c.Params("status"))
	if err != nil {
		return err
	}
	orders, err := h.orders.GetOrdersByStatus(c.UserContext(), status)
	if err != nil {
		return err
	}
	return ok(c, orders)
}

type statusQuery struct {
	Status string `query:"status" json:"status" validate:"required,order_status"`
}

// UpdateStatus takes the new status from the ?status= query parameter.
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	orderID, err := uuidParam(c, "orderId")
	if err != nil {
		return err
	}
	var q statusQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query")
	}
	if err := validation.Struct(h.validate, q); err != nil {
		return err
	}
	order, err := h.orders.UpdateStatus(c.UserContext(), orderID, models.OrderStatus(q.Status))
	if err != nil {
		return err
	}
	return ok(c, order)
}

func (h *OrderHandler) CancelOrder(c *fiber.Ctx) error {
	orderID, err := uuidParam(c, "orderId")
	if err != nil {
		return err
	}
	order, err := h.orders.Cancel(c.UserContext(), orderID)
	if err != nil {
		return err
	}
	return ok(c, order)
}

func statusParam(raw string) (models.OrderStatus, error) {
	status, valid := models.ParseOrderStatus(raw)
	if !valid {
		return "", fiber.NewError(fiber.StatusBadRequest, "unknown order status")
	}
	return status, nil
}

// RegisterOrderRoutes attaches order routes to the router.
func (h *OrderHandler) RegisterOrderRoutes(router fiber.Router) {
	router.Get("/user/:userId", h.GetUserOrders)
	router.Get("/user/:userId/status/:status", h.GetUserOrdersByStatus)
	router.Get("/status/:status", h.GetOrdersByStatus)
	router.Post("/:userId", h.CreateOrder)
	router.Get("/:orderId", h.GetOrder)
	router.Put("/:orderId/status", h.UpdateStatus)
	router.Post("/:orderId/cancel", h.CancelOrder)
}
