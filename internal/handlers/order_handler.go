package handlers

import (
	"errors"

	"eshop/internal/idempotency"
	"eshop/internal/middleware"
	"eshop/internal/models"
	"eshop/internal/repositories"
	"eshop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// IdempotencyKeyHeader lets clients retry order creation safely.
const IdempotencyKeyHeader = "Idempotency-Key"

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	idem     idempotency.Store // nil disables Idempotency-Key handling
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, idem idempotency.Store) *OrderHandler {
	return &OrderHandler{
		service:  service,
		idem:     idem,
		validate: models.NewValidator(),
	}
}

// RegisterRoutes registers the order routes. authed guards every route;
// admin additionally guards the management routes.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, authed, admin fiber.Handler) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", authed, admin, h.HandleGetOrders)
	orderRoutes.Get("/get/totalsales", authed, admin, h.HandleGetTotalSales)
	orderRoutes.Get("/get/count", authed, admin, h.HandleGetOrderCount)
	orderRoutes.Get("/get/userorders/:userid", authed, h.HandleGetUserOrders)
	orderRoutes.Get("/:id", authed, h.HandleGetOrderByID)
	orderRoutes.Post("/", authed, h.HandleCreateOrder)
	orderRoutes.Put("/:id", authed, admin, h.HandleUpdateOrderStatus)
	orderRoutes.Delete("/:id", authed, admin, h.HandleDeleteOrder)
}

// HandleGetOrders retrieves all orders, newest first.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListOrders(c.UserContext())
	if err != nil {
		log.WithError(err).Error("Error getting all orders")
		return respondError(c, fiber.StatusInternalServerError, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single fully resolved order. Any failure,
// including an unknown ID, is reported as a server error.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.service.GetOrder(c.UserContext(), orderID)
	if err != nil {
		log.WithError(err).WithField("order_id", orderID).Warn("Error getting order")
		return respondError(c, fiber.StatusInternalServerError, "Could not retrieve order", err)
	}
	if !middleware.IsAdmin(c) && order.UserID != middleware.UserID(c) {
		return respondError(c, fiber.StatusForbidden, "Order belongs to another user", nil)
	}
	return c.JSON(order)
}

// HandleCreateOrder places a new order for the caller; admins may place one
// for any user. A repeated Idempotency-Key from the same caller returns the
// order created by the first request.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req models.OrderRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	if !middleware.IsAdmin(c) && req.User != middleware.UserID(c) {
		return respondError(c, fiber.StatusForbidden, "Orders can only be placed for the authenticated user", nil)
	}

	// Idempotency keys are per user.
	var key string
	if raw := c.Get(IdempotencyKeyHeader); raw != "" {
		key = middleware.UserID(c) + ":" + raw
	}
	if key != "" && h.idem != nil {
		if orderID, ok, err := h.idem.Lookup(ctx, key); err != nil {
			log.WithError(err).Warn("Idempotency lookup failed, creating order anyway")
		} else if ok {
			order, err := h.service.GetOrder(ctx, orderID)
			if err == nil {
				return c.JSON(order)
			}
			log.WithError(err).WithField("order_id", orderID).Warn("Order behind idempotency key is gone")
		}
	}

	order, err := h.service.CreateOrder(ctx, req)
	if err != nil {
		log.WithError(err).Warn("Error creating order")
		switch {
		case errors.Is(err, services.ErrOrderCreation),
			errors.Is(err, services.ErrValidation),
			errors.Is(err, repositories.ErrInvalidReference),
			errors.Is(err, repositories.ErrNotFound):
			return respondError(c, fiber.StatusBadRequest, "The order cannot be created", err)
		default:
			return respondError(c, fiber.StatusInternalServerError, "Could not create order", err)
		}
	}

	if key != "" && h.idem != nil {
		if err := h.idem.Remember(ctx, key, order.ID); err != nil {
			log.WithError(err).WithField("order_id", order.ID).Warn("Could not store idempotency key")
		}
	}
	return c.JSON(order)
}

type statusUpdateRequest struct {
	Status string `json:"status" validate:"required,orderstatus"`
}

// HandleUpdateOrderStatus changes the status of an order. Every failure,
// including an unknown ID, is reported as a client error.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")

	var req statusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body for status update", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	order, err := h.service.UpdateOrderStatus(c.UserContext(), orderID, req.Status)
	if err != nil {
		log.WithError(err).WithField("order_id", orderID).Warn("Error updating order status")
		return respondError(c, fiber.StatusBadRequest, "The order cannot be updated", err)
	}
	return c.JSON(order)
}

// HandleDeleteOrder deletes an order together with its order items.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	if err := h.service.DeleteOrder(c.UserContext(), orderID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return respondError(c, fiber.StatusNotFound, "Order not found", err)
		}
		log.WithError(err).WithField("order_id", orderID).Error("Error deleting order")
		return respondError(c, fiber.StatusInternalServerError, "Could not delete order", err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "The order is deleted",
	})
}

// HandleGetTotalSales sums the total price of every order.
func (h *OrderHandler) HandleGetTotalSales(c *fiber.Ctx) error {
	total, err := h.service.TotalSales(c.UserContext())
	if err != nil {
		if errors.Is(err, services.ErrNoSales) {
			return respondError(c, fiber.StatusBadRequest, "The order sales cannot be generated", err)
		}
		return respondError(c, fiber.StatusInternalServerError, "Could not compute total sales", err)
	}
	return c.JSON(fiber.Map{"totalsales": total})
}

// HandleGetOrderCount returns the number of orders.
func (h *OrderHandler) HandleGetOrderCount(c *fiber.Ctx) error {
	n, err := h.service.CountOrders(c.UserContext())
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Could not count orders", err)
	}
	return c.JSON(fiber.Map{"orderCount": n})
}

// HandleGetUserOrders lists the orders of one user. Users other than admins
// may only list their own.
func (h *OrderHandler) HandleGetUserOrders(c *fiber.Ctx) error {
	userID := c.Params("userid")
	if !middleware.IsAdmin(c) && userID != middleware.UserID(c) {
		return respondError(c, fiber.StatusForbidden, "Orders belong to another user", nil)
	}

	orders, err := h.service.ListUserOrders(c.UserContext(), userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Error getting user orders")
		return respondError(c, fiber.StatusInternalServerError, "Could not retrieve user orders", err)
	}
	return c.JSON(orders)
}
