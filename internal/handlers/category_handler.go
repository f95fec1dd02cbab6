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

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service  *services.CategoryService
	validate *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		service:  service,
		validate: models.NewValidator(),
	}
}

// RegisterRoutes registers the category routes. Reads are public.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router, authed, admin fiber.Handler) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleGetCategories)
	categoryRoutes.Get("/:id", h.HandleGetCategoryByID)
	categoryRoutes.Post("/", authed, admin, h.HandleCreateCategory)
	categoryRoutes.Put("/:id", authed, admin, h.HandleUpdateCategory)
	categoryRoutes.Delete("/:id", authed, admin, h.HandleDeleteCategory)
}

func (h *CategoryHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.GetAllCategories(c.UserContext())
	if err != nil {
		log.WithError(err).Error("Error getting categories")
		return respondError(c, fiber.StatusInternalServerError, "Could not retrieve categories", err)
	}
	return c.JSON(categories)
}

func (h *CategoryHandler) HandleGetCategoryByID(c *fiber.Ctx) error {
	category, err := h.service.GetCategoryByID(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return respondError(c, fiber.StatusNotFound, "The category with the given ID was not found", err)
		}
		return respondError(c, fiber.StatusInternalServerError, "Could not retrieve category", err)
	}
	return c.JSON(category)
}

func (h *CategoryHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var category models.Category
	if err := c.BodyParser(&category); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := h.validate.Struct(category); err != nil {
		return respondValidation(c, err)
	}

	if err := h.service.CreateCategory(c.UserContext(), &category); err != nil {
		log.WithError(err).Error("Error creating category")
		return respondError(c, fiber.StatusInternalServerError, "The category cannot be created", err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

func (h *CategoryHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	var category models.Category
	if err := c.BodyParser(&category); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := h.validate.Struct(category); err != nil {
		return respondValidation(c, err)
	}

	updated, err := h.service.UpdateCategory(c.UserContext(), c.Params("id"), &category)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return respondError(c, fiber.StatusNotFound, "The category cannot be updated", err)
		}
		return respondError(c, fiber.StatusInternalServerError, "The category cannot be updated", err)
	}
	return c.JSON(updated)
}

func (h *CategoryHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	if err := h.service.DeleteCategory(c.UserContext(), c.Params("id")); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return respondError(c, fiber.StatusNotFound, "Category not found", err)
		}
		return respondError(c, fiber.StatusInternalServerError, "Could not delete category", err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "The category is deleted",
	})
}
