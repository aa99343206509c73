package handlers

import (
	"strconv"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/example/storefront/internal/money"
	"github.com/example/storefront/internal/services"
	"github.com/example/storefront/internal/utils"
	"github.com/example/storefront/internal/validation"
)

// ProductHandler manages product CRUD and catalog queries.
type ProductHandler struct {
	products *services.ProductService
	validate *validatorv10.Validate
}

// NewProductHandler constructs ProductHandler.
func NewProductHandler(products *services.ProductService, validate *validatorv10.Validate) *ProductHandler {
	return &ProductHandler{products: products, validate: validate}
}

// ListProducts returns paginated products.
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	page, err := h.products.List(c.UserContext(), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"data":       page.Products,
		"pagination": pg.Meta(page.Total),
	})
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.products.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, product)
}

func (h *ProductHandler) Search(c *fiber.Ctx) error {
	products, err := h.products.Search(c.UserContext(), c.Query("keyword"))
	if err != nil {
		return err
	}
	return ok(c, products)
}

func (h *ProductHandler) ByType(c *fiber.Ctx) error {
	products, err := h.products.ByType(c.UserContext(), c.Params("type"))
	if err != nil {
		return err
	}
	return ok(c, products)
}

func (h *ProductHandler) ByRating(c *fiber.Ctx) error {
	minRating, err := strconv.ParseFloat(c.Query("min_rating", "0"), 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid min_rating")
	}
	products, err := h.products.ByMinRating(c.UserContext(), minRating)
	if err != nil {
		return err
	}
	return ok(c, products)
}

// ByPriceRange takes min_price and max_price in currency units ("10.50"),
// not cents, and converts them to cents before comparing with priceCents.
// Amounts with more than two fractional digits are rejected.
func (h *ProductHandler) ByPriceRange(c *fiber.Ctx) error {
	low, err := money.Parse(c.Query("min_price", "0"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid min_price")
	}
	high, err := money.Parse(c.Query("max_price"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid max_price")
	}

	products, err := h.products.ByPriceRange(c.UserContext(), low, high)
	if err != nil {
		return err
	}
	return ok(c, products)
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req services.ProductInput
	if err := validation.Bind(c, h.validate, &req); err != nil {
		return err
	}
	product, err := h.products.Create(c.UserContext(), req)
	if err != nil {
		return err
	}
	return created(c, product)
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	var req services.ProductInput
	if err := validation.Bind(c, h.validate, &req); err != nil {
		return err
	}
	product, err := h.products.Update(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return err
	}
	return ok(c, product)
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	if err := h.products.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "product deleted"})
}

// RegisterProductRoutes attaches product routes to the router. Fixed paths
// come before /:id.
func (h *ProductHandler) RegisterProductRoutes(router fiber.Router) {
	router.Get("/", h.ListProducts)
	router.Get("/search", h.Search)
	router.Get("/type/:type", h.ByType)
	router.Get("/rating", h.ByRating)
	router.Get("/price-range", h.ByPriceRange)
	router.Get("/:id", h.GetProduct)
	router.Post("/", h.CreateProduct)
	router.Put("/:id", h.UpdateProduct)
	router.Delete("/:id", h.DeleteProduct)
}
