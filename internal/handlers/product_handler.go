package handlers

import (
	"errors"
	"mime/multipart"
	"strconv"
	"strings"

	"eshop/internal/models"
	"eshop/internal/repositories"
	"eshop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
)

// maxGalleryImages bounds the files accepted by one gallery upload.
const maxGalleryImages = 10

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	images   *services.ImageStore
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, images *services.ImageStore) *ProductHandler {
	return &ProductHandler{
		service:  service,
		images:   images,
		validate: models.NewValidator(),
	}
}

// RegisterRoutes registers the product routes. Reads are public.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, authed, admin fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/get/count", h.HandleGetProductCount)
	productRoutes.Get("/get/featured/:count", h.HandleGetFeaturedProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", authed, admin, h.HandleCreateProduct)
	productRoutes.Put("/gallery-images/:id", authed, admin, h.HandleUploadGallery)
	productRoutes.Put("/:id", authed, admin, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", authed, admin, h.HandleDeleteProduct)
}

// HandleGetProducts lists products, optionally filtered by
// ?categories=id1,id2.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	var filter models.ProductFilter
	if raw := c.Query("categories"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				filter.CategoryIDs = append(filter.CategoryIDs, id)
			}
		}
	}

	products, err := h.service.GetAllProducts(c.UserContext(), filter)
	if err != nil {
		log.WithError(err).Error("Error getting products")
		return respondError(c, fiber.StatusInternalServerError, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return respondError(c, fiber.StatusNotFound, "Product not found", err)
		}
		return respondError(c, fiber.StatusInternalServerError, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) HandleGetProductCount(c *fiber.Ctx) error {
	n, err := h.service.CountProducts(c.UserContext())
	if err != nil {
		return respondError(c, fiber.StatusInternalServerError, "Could not count products", err)
	}
	return c.JSON(fiber.Map{"productCount": n})
}

func (h *ProductHandler) HandleGetFeaturedProducts(c *fiber.Ctx) error {
	count, err := strconv.Atoi(c.Params("count"))
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Count must be a number", err)
	}

	products, err := h.service.GetFeaturedProducts(c.UserContext(), count)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			return respondError(c, fiber.StatusBadRequest, "Invalid count", err)
		}
		return respondError(c, fiber.StatusInternalServerError, "Could not retrieve featured products", err)
	}
	return c.JSON(products)
}

// HandleCreateProduct accepts a multipart form with the product fields and a
// required "image" file.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := h.validate.Struct(product); err != nil {
		return respondValidation(c, err)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "No image in the request", err)
	}
	url, err := h.saveImage(c, file)
	if err != nil {
		return imageError(c, err)
	}
	product.Image = url

	if err := h.service.CreateProduct(c.UserContext(), &product); err != nil {
		if errors.Is(err, services.ErrValidation) {
			return respondError(c, fiber.StatusBadRequest, "Invalid Category", err)
		}
		log.WithError(err).Error("Error creating product")
		return respondError(c, fiber.StatusInternalServerError, "The product cannot be created", err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct replaces the product fields; a new "image" file is
// optional.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := h.validate.Struct(product); err != nil {
		return respondValidation(c, err)
	}

	if file, err := c.FormFile("image"); err == nil {
		url, err := h.saveImage(c, file)
		if err != nil {
			return imageError(c, err)
		}
		product.Image = url
	}

	updated, err := h.service.UpdateProduct(c.UserContext(), c.Params("id"), &product)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return respondError(c, fiber.StatusNotFound, "Product not found", err)
		case errors.Is(err, services.ErrValidation):
			return respondError(c, fiber.StatusBadRequest, "Invalid Category", err)
		}
		return respondError(c, fiber.StatusInternalServerError, "The product cannot be updated", err)
	}
	return c.JSON(updated)
}

// HandleUploadGallery replaces the gallery with up to ten "images" files.
func (h *ProductHandler) HandleUploadGallery(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return respondError(c, fiber.StatusBadRequest, "Invalid multipart form", err)
	}
	files := form.File["images"]
	if len(files) == 0 {
		return respondError(c, fiber.StatusBadRequest, "No images in the request", nil)
	}
	if len(files) > maxGalleryImages {
		return respondError(c, fiber.StatusBadRequest, "Too many images, at most 10 are accepted", nil)
	}

	urls := make([]string, 0, len(files))
	for _, file := range files {
		url, err := h.saveImage(c, file)
		if err != nil {
			return imageError(c, err)
		}
		urls = append(urls, url)
	}

	product, err := h.service.SetGalleryImages(c.UserContext(), c.Params("id"), urls)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return respondError(c, fiber.StatusNotFound, "Product not found", err)
		}
		return respondError(c, fiber.StatusInternalServerError, "The gallery cannot be updated", err)
	}
	return c.JSON(product)
}

func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.UserContext(), c.Params("id")); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return respondError(c, fiber.StatusNotFound, "Product not found", err)
		}
		return respondError(c, fiber.StatusInternalServerError, "Could not delete product", err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "The product is deleted",
	})
}

// saveImage stores file in the upload directory and returns its public URL.
func (h *ProductHandler) saveImage(c *fiber.Ctx, file *multipart.FileHeader) (string, error) {
	name, err := h.images.Save(file, c.SaveFile)
	if err != nil {
		return "", err
	}
	return c.BaseURL() + "/public/uploads/" + name, nil
}

func imageError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrUnsupportedImage) {
		return respondError(c, fiber.StatusBadRequest, "Invalid image type", err)
	}
	log.WithError(err).Error("Error saving uploaded image")
	return respondError(c, fiber.StatusInternalServerError, "Could not save image", err)
}
