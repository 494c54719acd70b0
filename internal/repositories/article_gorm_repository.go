package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"maninews/internal/apperror"
	"maninews/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	newestFirst     = "published_at DESC, created_at DESC, id ASC"
	mostViewedFirst = "views DESC, published_at DESC, id ASC"
)

var articleColumns = []string{
	"title", "subtitle", "slug", "summary", "content", "featured_image",
	"image_caption", "category_id", "author", "published", "published_at",
	"tags", "meta_description", "meta_keywords", "updated_at",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *GORMStorage) publishedArticles(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Category").Where("published = ?", true)
}

// GetArticles retrieves published articles, newest first.
func (r *GORMStorage) GetArticles(ctx context.Context, limit, offset int) ([]models.Article, error) {
	articles := []models.Article{}
	err := r.publishedArticles(ctx).
		Order(newestFirst).
		Limit(normalizeLimit(limit, DefaultArticleLimit)).
		Offset(normalizeOffset(offset)).
		Find(&articles).Error
	if err != nil {
		return nil, translateError("get articles", err)
	}
	return articles, nil
}

// ListArticles retrieves drafts and published articles for the admin
// console, most recently created first.
func (r *GORMStorage) ListArticles(ctx context.Context, filter models.ArticleFilter) ([]models.Article, error) {
	query := r.db.WithContext(ctx).Preload("Category")
	if filter.Published != nil {
		query = query.Where("published = ?", *filter.Published)
	}

	articles := []models.Article{}
	err := query.
		Order("created_at DESC, id ASC").
		Limit(normalizeLimit(filter.Limit, DefaultArticleLimit)).
		Offset(normalizeOffset(filter.Offset)).
		Find(&articles).Error
	if err != nil {
		return nil, translateError("list articles", err)
	}
	return articles, nil
}

// GetArticleByID retrieves an article by its ID, published or not.
func (r *GORMStorage) GetArticleByID(ctx context.Context, id string) (*models.Article, error) {
	var article models.Article
	if err := r.db.WithContext(ctx).Preload("Category").First(&article, "id = ?", id).Error; err != nil {
		return nil, lookupError("article", fmt.Sprintf("get article %s", id), err)
	}
	return &article, nil
}

// GetArticleBySlug retrieves an article by its slug, published or not.
func (r *GORMStorage) GetArticleBySlug(ctx context.Context, slug string) (*models.Article, error) {
	var article models.Article
	if err := r.db.WithContext(ctx).Preload("Category").First(&article, "slug = ?", slug).Error; err != nil {
		return nil, lookupError("article", fmt.Sprintf("get article by slug %s", slug), err)
	}
	return &article, nil
}

// GetArticlesByCategory retrieves published articles of one category.
func (r *GORMStorage) GetArticlesByCategory(ctx context.Context, categoryID string, limit int) ([]models.Article, error) {
	articles := []models.Article{}
	err := r.publishedArticles(ctx).
		Where("category_id = ?", categoryID).
		Order(newestFirst).
		Limit(normalizeLimit(limit, DefaultCategoryLimit)).
		Find(&articles).Error
	if err != nil {
		return nil, translateError(fmt.Sprintf("get articles by category %s", categoryID), err)
	}
	return articles, nil
}

// SearchArticles runs a case-insensitive substring match over title,
// summary and content of published articles.
func (r *GORMStorage) SearchArticles(ctx context.Context, query string, limit int) ([]models.Article, error) {
	articles := []models.Article{}
	query = strings.TrimSpace(query)
	if query == "" {
		return articles, nil
	}

	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
	err := r.publishedArticles(ctx).
		Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(summary) LIKE ? ESCAPE '\' OR LOWER(content) LIKE ? ESCAPE '\')`, pattern, pattern, pattern).
		Order(newestFirst).
		Limit(normalizeLimit(limit, DefaultSearchLimit)).
		Find(&articles).Error
	if err != nil {
		return nil, translateError("search articles", err)
	}
	return articles, nil
}

// CreateArticle inserts an article after checking its category and slug.
func (r *GORMStorage) CreateArticle(ctx context.Context, article *models.Article) error {
	now := time.Now()
	row := *article
	row.Category = nil
	if row.ID == "" {
		row.ID = uuid.New().String()
	}
	row.Views = 0
	row.CreatedAt = now
	row.UpdatedAt = now
	if row.PublishedAt.IsZero() {
		row.PublishedAt = now
	}
	if row.Tags == nil {
		row.Tags = []string{}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureCategoryExists(tx, row.CategoryID); err != nil {
			return err
		}
		if err := ensureUnique(tx, &models.Article{}, "article slug already exists", "slug = ?", row.Slug); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(&row).Error
	})
	if err != nil {
		return translateError("create article", err)
	}

	*article = row
	return nil
}

// UpdateArticle merges patch into the article and refreshes UpdatedAt.
func (r *GORMStorage) UpdateArticle(ctx context.Context, id string, patch models.ArticlePatch) (*models.Article, error) {
	var article models.Article
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&article, "id = ?", id).Error; err != nil {
			return lookupError("article", "update article", err)
		}
		if patch.Slug != nil && *patch.Slug != article.Slug {
			if err := ensureUnique(tx, &models.Article{}, "article slug already exists", "slug = ? AND id <> ?", *patch.Slug, id); err != nil {
				return err
			}
		}
		if patch.CategoryID != nil && *patch.CategoryID != article.CategoryID {
			if err := ensureCategoryExists(tx, *patch.CategoryID); err != nil {
				return err
			}
		}

		patch.Apply(&article)
		article.UpdatedAt = time.Now()
		if err := tx.Model(&article).Select(articleColumns).Updates(&article).Error; err != nil {
			return err
		}
		return tx.Preload("Category").First(&article, "id = ?", id).Error
	})
	if err != nil {
		return nil, translateError(fmt.Sprintf("update article %s", id), err)
	}
	return &article, nil
}

// DeleteArticle removes the article. Missing articles are not an error.
func (r *GORMStorage) DeleteArticle(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.Article{}, "id = ?", id).Error; err != nil {
		return translateError(fmt.Sprintf("delete article %s", id), err)
	}
	return nil
}

// UpdateArticleViews increments the view counter in the database so that
// concurrent readers never lose an increment.
func (r *GORMStorage) UpdateArticleViews(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Article{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
	if err != nil {
		return translateError(fmt.Sprintf("update views of article %s", id), err)
	}
	return nil
}

// GetMostViewedArticles retrieves the published articles with most views.
func (r *GORMStorage) GetMostViewedArticles(ctx context.Context, limit int) ([]models.Article, error) {
	articles := []models.Article{}
	err := r.publishedArticles(ctx).
		Order(mostViewedFirst).
		Limit(normalizeLimit(limit, DefaultTrendingLimit)).
		Find(&articles).Error
	if err != nil {
		return nil, translateError("get most viewed articles", err)
	}
	return articles, nil
}

// CountArticles aggregates article totals.
func (r *GORMStorage) CountArticles(ctx context.Context) (models.ArticleCounts, error) {
	var counts models.ArticleCounts
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Article{}).Count(&counts.Total).Error; err != nil {
		return counts, translateError("count articles", err)
	}
	if err := db.Model(&models.Article{}).Where("published = ?", true).Count(&counts.Published).Error; err != nil {
		return counts, translateError("count published articles", err)
	}
	if err := db.Model(&models.Article{}).Select("COALESCE(SUM(views), 0)").Scan(&counts.Views).Error; err != nil {
		return counts, translateError("sum article views", err)
	}
	return counts, nil
}

func ensureCategoryExists(tx *gorm.DB, categoryID string) error {
	var count int64
	if err := tx.Model(&models.Category{}).Where("id = ?", categoryID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperror.NewConstraint("category does not exist", nil)
	}
	return nil
}
