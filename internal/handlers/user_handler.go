package handlers

import (
	"errors"

	"eshop/internal/models"
	"eshop/internal/repositories"
	"eshop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// UserHandler serves the administrative user endpoints.
type UserHandler struct {
	service  *services.UserService
	validate *validator.Validate
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: models.NewValidator(),
	}
}

// RegisterRoutes registers the user management routes; all are admin only.
func (h *UserHandler) RegisterRoutes(router fiber.Router, authed, admin fiber.Handler) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/", authed, admin, h.HandleGetUsers)
	userRoutes.Get("/get/count", authed, admin, h.HandleGetUserCount)
	userRoutes.Get("/:id", authed, admin, h.HandleGetUserByID)
	userRoutes.Post("/", authed, admin, h.HandleCreateUser)
	userRoutes.Put("/:id", authed, admin, h.HandleUpdateUser)
	userRoutes.Delete("/:id", authed, admin, h.HandleDeleteUser)
}

func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.UserContext())
	if err != nil {
		log.WithError(err).Error("Error getting users")
		return respondError(c, fiber.StatusInternalServerError, "Could not retrieve users", err)
	}
	return c.JSON(users)
}

func (h *UserHandler) HandleGetUserByID(c *fiber.Ctx) error {
	user, err := h.service.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return respondError(c, fiber.StatusNotFound, "The user with the given ID was not found", err)
		}
		return respondError(c, fiber.StatusInternalServerError, "Could not retrieve user", err)
	}
	return c.JSON(user)
}

func (h *UserHandler) HandleGetUserCount(c *fiber.Ctx) error {
	n, err := h.service.CountUsers(c.UserContext())
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Could not count users", err)
	}
	return c.JSON(fiber.Map{"userCount": n})
}

func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req models.UserRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	user, err := h.service.CreateUser(c.UserContext(), req)
	if err != nil {
		return userWriteError(c, err, "The user cannot be created")
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	var req models.UserRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidation(c, err)
	}

	user, err := h.service.UpdateUser(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return userWriteError(c, err, "The user cannot be updated")
	}
	return c.JSON(user)
}

func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	if err := h.service.DeleteUser(c.UserContext(), c.Params("id")); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return respondError(c, fiber.StatusNotFound, "User not found", err)
		}
		return respondError(c, fiber.StatusInternalServerError, "Could not delete user", err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "The user is deleted",
	})
}

func userWriteError(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return respondError(c, fiber.StatusNotFound, message, err)
	case errors.Is(err, services.ErrEmailTaken):
		return respondError(c, fiber.StatusConflict, message, err)
	case errors.Is(err, services.ErrValidation):
		return respondError(c, fiber.StatusBadRequest, message, err)
	}
	log.WithError(err).Error(message)
	return respondError(c, fiber.StatusInternalServerError, message, err)
}
