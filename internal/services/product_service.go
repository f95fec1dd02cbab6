package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eshop/internal/models"
	"eshop/internal/repositories"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo       repositories.ProductRepository
	categories repositories.CategoryRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, categories repositories.CategoryRepository) *ProductService {
	return &ProductService{
		repo:       repo,
		categories: categories,
	}
}

// GetAllProducts retrieves products with their category attached.
func (s *ProductService) GetAllProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	products, err := s.repo.GetAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := s.attachCategories(ctx, products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetFeaturedProducts retrieves at most limit featured products.
func (s *ProductService) GetFeaturedProducts(ctx context.Context, limit int) ([]models.Product, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: count must be positive", ErrValidation)
	}
	return s.repo.GetFeatured(ctx, limit)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	products := []models.Product{*product}
	if err := s.attachCategories(ctx, products); err != nil {
		return nil, err
	}
	return &products[0], nil
}

// CreateProduct creates a new product in an existing category.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := s.checkCategory(ctx, product.CategoryID); err != nil {
		return err
	}
	if product.Images == nil {
		product.Images = []string{}
	}
	if product.DateCreated.IsZero() {
		product.DateCreated = time.Now().UTC()
	}
	return s.repo.Create(ctx, product)
}

// UpdateProduct replaces the editable fields of product id. An empty Image
// keeps the current one; the gallery and creation date are never changed here.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, product *models.Product) (*models.Product, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, product.CategoryID); err != nil {
		return nil, err
	}

	product.ID = current.ID
	product.Images = current.Images
	product.DateCreated = current.DateCreated
	if product.Image == "" {
		product.Image = current.Image
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// SetGalleryImages replaces the gallery of product id with urls.
func (s *ProductService) SetGalleryImages(ctx context.Context, id string, urls []string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Images = urls
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *ProductService) CountProducts(ctx context.Context) (int64, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}

func (s *ProductService) checkCategory(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: category is required", ErrValidation)
	}
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: invalid category %s", ErrValidation, id)
		}
		return err
	}
	return nil
}

func (s *ProductService) attachCategories(ctx context.Context, products []models.Product) error {
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.CategoryID)
	}
	categories, err := s.categories.GetByIDs(ctx, distinct(ids))
	if err != nil {
		return fmt.Errorf("failed to load product categories: %w", err)
	}
	byID := make(map[string]models.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}
	for i := range products {
		if c, ok := byID[products[i].CategoryID]; ok {
			products[i].Category = &c
		}
	}
	return nil
}
