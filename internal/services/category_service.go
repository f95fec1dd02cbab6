package services

import (
	"context"

	"eshop/internal/models"
	"eshop/internal/repositories"

	"github.com/gosimple/slug"
)

// CategoryService handles business logic related to categories.
type CategoryService struct {
	repo repositories.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.GetAll(ctx)
}

func (s *CategoryService) GetCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateCategory stores a category, deriving its slug from the name.
func (s *CategoryService) CreateCategory(ctx context.Context, category *models.Category) error {
	category.Slug = slug.Make(category.Name)
	return s.repo.Create(ctx, category)
}

// UpdateCategory overwrites category id and refreshes the slug.
func (s *CategoryService) UpdateCategory(ctx context.Context, id string, category *models.Category) (*models.Category, error) {
	category.ID = id
	category.Slug = slug.Make(category.Name)
	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
