package handlers

import (
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/example/storefront/internal/services"
	"github.com/example/storefront/internal/validation"
)

// CartHandler exposes the per-user cart.
type CartHandler struct {
	carts    *services.CartService
	validate *validatorv10.Validate
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(carts *services.CartService, validate *validatorv10.Validate) *CartHandler {
	return &CartHandler{carts: carts, validate: validate}
}

// GetCart returns cart lines with product details and live subtotals.
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}
	lines, err := h.carts.View(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return ok(c, lines)
}

type addToCartRequest struct {
	ProductID      string  `json:"product_id" validate:"required"`
	Quantity       int     `json:"quantity" validate:"required,min=1,max=10000"`
	DeliveryOption *string `json:"delivery_option"`
}

func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}
	var req addToCartRequest
	if err := validation.Bind(c, h.validate, &req); err != nil {
		return err
	}

	item, err := h.carts.AddItem(c.UserContext(), userID, req.ProductID, req.Quantity, req.DeliveryOption)
	if err != nil {
		return err
	}
	return ok(c, item)
}

type updateCartItemRequest struct {
	Quantity       *int    `json:"quantity" validate:"omitempty,min=1,max=10000"`
	DeliveryOption *string `json:"delivery_option"`
}

func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	itemID, err := uuidParam(c, "cartItemId")
	if err != nil {
		return err
	}
	var req updateCartItemRequest
	if err := validation.Bind(c, h.validate, &req); err != nil {
		return err
	}

	item, err := h.carts.UpdateItem(c.UserContext(), itemID, req.Quantity, req.DeliveryOption)
	if err != nil {
		return err
	}
	return ok(c, item)
}

func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}
	removed, err := h.carts.RemoveItem(c.UserContext(), userID, c.Params("productId"))
	if err != nil {
		return err
	}
	if !removed {
		return fiber.NewError(fiber.StatusNotFound, "item not in cart")
	}
	return c.JSON(fiber.Map{"success": true, "message": "item removed"})
}

func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}
	if err := h.carts.ClearCart(c.UserContext(), userID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "cart cleared"})
}

func (h *CartHandler) Count(c *fiber.Ctx) error {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}
	count, err := h.carts.ItemCount(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return ok(c, fiber.Map{"count": count})
}

func (h *CartHandler) Total(c *fiber.Ctx) error {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}
	total, err := h.carts.Total(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return ok(c, fiber.Map{"total_cents": total, "total": total.String()})
}

// RegisterCartRoutes attaches cart routes to the router.
func (h *CartHandler) RegisterCartRoutes(router fiber.Router) {
	router.Put("/items/:cartItemId", h.UpdateItem)
	router.Get("/:userId", h.GetCart)
	router.Post("/:userId/add", h.AddItem)
	router.Delete("/:userId/remove/:productId", h.RemoveItem)
	router.Delete("/:userId/clear", h.ClearCart)
	router.Get("/:userId/count", h.Count)
	router.Get("/:userId/total", h.Total)
}
