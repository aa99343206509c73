package routes

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/handlers"
	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/repository"
	"github.com/example/storefront/internal/services"
	"github.com/example/storefront/internal/validation"
)

// Options carries the optional collaborators of Register. A nil Notifier
// leaves OTP codes undelivered; OrderAlerts is told about new orders.
type Options struct {
	Notifier    services.Notifier
	OrderAlerts services.OrderNotifier
	Logger      *zap.Logger
}

// Register wires repositories, services and handlers and mounts all HTTP
// routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, opts Options) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := validation.New()

	productRepo := repository.NewProductRepository(db)
	userRepo := repository.NewUserRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	otpRepo := repository.NewOTPRepository(db)

	productService := services.NewProductService(productRepo, logger)
	userService := services.NewUserService(userRepo, logger)
	cartService := services.NewCartService(cartRepo, productRepo, userRepo, logger)
	orderService := services.NewOrderService(orderRepo, productRepo, cartRepo, userRepo, logger)
	if opts.OrderAlerts != nil {
		orderService.SetOrderNotifier(opts.OrderAlerts)
	}
	otpService := services.NewOTPService(otpRepo, opts.Notifier, services.OTPConfig{
		TTL:       cfg.OTPTTL,
		TokenTTL:  cfg.VerificationTokenTTL,
		JWTSecret: cfg.JWTSecret,
	}, logger)

	productHandler := handlers.NewProductHandler(productService, validate)
	userHandler := handlers.NewUserHandler(userService, otpService, validate)
	cartHandler := handlers.NewCartHandler(cartService, validate)
	orderHandler := handlers.NewOrderHandler(orderService, validate)
	adminHandler := handlers.NewAdminHandler(orderService, userService, validate)
	healthHandler := handlers.NewHealthHandler(db)

	app.Get("/health", healthHandler.Check)

	api := app.Group("/api")

	// Products
	products := api.Group("/products")
	productHandler.RegisterProductRoutes(products)

	// Users and OTP
	users := api.Group("/users")
	users.Post("/", userHandler.Register)
	users.Get("/", userHandler.ListUsers)
	users.Post("/generate-otp", userHandler.GenerateOTP)
	users.Post("/verify-otp", userHandler.VerifyOTP)
	users.Get("/verification", middleware.VerifiedEmail(cfg.JWTSecret), userHandler.Verification)
	users.Get("/email/:email", userHandler.GetUserByEmail)
	users.Get("/:id", userHandler.GetUser)

	// Cart
	cart := api.Group("/cart")
	cartHandler.RegisterCartRoutes(cart)

	// Orders
	orders := api.Group("/orders")
	orderHandler.RegisterOrderRoutes(orders)

	// Admin
	admin := api.Group("/admin")
	admin.Get("/stats", adminHandler.DashboardStats)
	admin.Put("/orders/:orderId/delivery-date", adminHandler.SetDeliveryDate)
}
