// Package server assembles the Fiber application: middleware, static
// uploads, health check and every API route.
package server

import (
	"time"

	"eshop/internal/config"
	"eshop/internal/handlers"
	"eshop/internal/idempotency"
	"eshop/internal/middleware"
	"eshop/internal/repositories"
	"eshop/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Dependencies are the resources owned by the caller and shared by all
// requests. Publisher and Idempotency may be nil.
type Dependencies struct {
	Store       *repositories.Store
	Publisher   services.OrderEventPublisher
	Idempotency idempotency.Store
	Images      *services.ImageStore
}

// New builds the HTTP application.
func New(cfg *config.Config, deps Dependencies) *fiber.App {
	productService := services.NewProductService(deps.Store.Products, deps.Store.Categories)
	categoryService := services.NewCategoryService(deps.Store.Categories)
	orderService := services.NewOrderService(deps.Store, deps.Publisher, cfg.OrderWorkers)
	authService := services.NewAuthService(deps.Store.Users, cfg.JWTSecret, cfg.JWTTTL)
	userService := services.NewUserService(deps.Store.Users)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    16 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())

	app.Static("/public/uploads", deps.Images.Dir())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":      "healthy",
			"time":        time.Now().Format(time.RFC3339),
			"events":      deps.Publisher != nil,
			"idempotency": deps.Idempotency != nil,
		})
	})

	authed := middleware.AuthRequired(authService)
	admin := middleware.AdminOnly()

	api := app.Group(cfg.APIURL)
	handlers.NewAuthHandler(authService).RegisterRoutes(api)
	handlers.NewUserHandler(userService).RegisterRoutes(api, authed, admin)
	handlers.NewCategoryHandler(categoryService).RegisterRoutes(api, authed, admin)
	handlers.NewProductHandler(productService, deps.Images).RegisterRoutes(api, authed, admin)
	handlers.NewOrderHandler(orderService, deps.Idempotency).RegisterRoutes(api, authed, admin)

	return app
}
