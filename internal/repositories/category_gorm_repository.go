package repositories

import (
	"context"
	"errors"
	"fmt"

	"maninews/internal/apperror"
	"maninews/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errCategoryInUse = apperror.NewConstraint("category has associated articles", nil)

// GetCategories retrieves all categories ordered by name.
func (r *GORMStorage) GetCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, translateError("get categories", err)
	}
	sortCategoriesByName(categories, r.locale)
	return categories, nil
}

// GetCategoryByID retrieves a category by its ID.
func (r *GORMStorage) GetCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, lookupError("category", fmt.Sprintf("get category %s", id), err)
	}
	return &category, nil
}

// GetCategoryBySlug retrieves a category by its slug.
func (r *GORMStorage) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "slug = ?", slug).Error; err != nil {
		return nil, lookupError("category", fmt.Sprintf("get category by slug %s", slug), err)
	}
	return &category, nil
}

// CreateCategory inserts a category, failing on a duplicate name or slug.
func (r *GORMStorage) CreateCategory(ctx context.Context, category *models.Category) error {
	row := *category
	if row.ID == "" {
		row.ID = uuid.New().String()
	}
	if row.Color == "" {
		row.Color = models.DefaultCategoryColor
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureUnique(tx, &models.Category{}, "category name already exists", "name = ?", row.Name); err != nil {
			return err
		}
		if err := ensureUnique(tx, &models.Category{}, "category slug already exists", "slug = ?", row.Slug); err != nil {
			return err
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		return translateError("create category", err)
	}

	*category = row
	return nil
}

// UpdateCategory merges patch into the category.
func (r *GORMStorage) UpdateCategory(ctx context.Context, id string, patch models.CategoryPatch) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&category, "id = ?", id).Error; err != nil {
			return lookupError("category", "update category", err)
		}
		if patch.Name != nil && *patch.Name != category.Name {
			if err := ensureUnique(tx, &models.Category{}, "category name already exists", "name = ? AND id <> ?", *patch.Name, id); err != nil {
				return err
			}
		}
		if patch.Slug != nil && *patch.Slug != category.Slug {
			if err := ensureUnique(tx, &models.Category{}, "category slug already exists", "slug = ? AND id <> ?", *patch.Slug, id); err != nil {
				return err
			}
		}
		patch.Apply(&category)
		return tx.Model(&category).Select("name", "slug", "color").Updates(&category).Error
	})
	if err != nil {
		return nil, translateError(fmt.Sprintf("update category %s", id), err)
	}
	return &category, nil
}

// DeleteCategory removes a category that no article references. The check
// and the delete share a transaction and the articles foreign key is
// declared ON DELETE RESTRICT, so an article created concurrently makes
// the delete fail instead of leaving a dangling reference.
func (r *GORMStorage) DeleteCategory(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Article{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errCategoryInUse
		}
		return tx.Delete(&models.Category{}, "id = ?", id).Error
	})
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return errCategoryInUse
	}
	if err != nil {
		return translateError(fmt.Sprintf("delete category %s", id), err)
	}
	return nil
}

// CountCategories returns the number of categories.
func (r *GORMStorage) CountCategories(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Category{}).Count(&count).Error; err != nil {
		return 0, translateError("count categories", err)
	}
	return count, nil
}
