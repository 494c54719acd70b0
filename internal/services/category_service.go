package services

import (
	"context"
	"log"

	"maninews/internal/apperror"
	"maninews/internal/models"
	"maninews/internal/repositories"
	"maninews/pkg/slug"
)

// CategoryService handles business logic related to categories.
type CategoryService struct {
	repo repositories.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{
		repo: repo,
	}
}

// GetCategories retrieves all categories ordered by name.
func (s *CategoryService) GetCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.GetCategories(ctx)
}

// GetCategoryBySlug retrieves a single category by its slug.
func (s *CategoryService) GetCategoryBySlug(ctx context.Context, categorySlug string) (*models.Category, error) {
	return s.repo.GetCategoryBySlug(ctx, categorySlug)
}

// CreateCategory creates a category, deriving the slug from the name when
// none is given.
func (s *CategoryService) CreateCategory(ctx context.Context, input models.CategoryInput) (*models.Category, error) {
	categorySlug := input.Slug
	if categorySlug == "" {
		categorySlug = slug.Make(input.Name)
	}
	if categorySlug == "" {
		return nil, apperror.NewValidation("a slug cannot be derived from the category name")
	}

	category := &models.Category{
		Name:  input.Name,
		Slug:  categorySlug,
		Color: input.Color,
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, err
	}

	log.Printf("Category %s created", category.Slug)
	return category, nil
}

// UpdateCategory applies a partial update.
func (s *CategoryService) UpdateCategory(ctx context.Context, id string, patch models.CategoryPatch) (*models.Category, error) {
	return s.repo.UpdateCategory(ctx, id, patch)
}

// DeleteCategory deletes a category that no article references.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	log.Printf("Category %s deleted", id)
	return nil
}
