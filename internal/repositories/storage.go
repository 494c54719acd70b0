package repositories

import (
	"context"

	"maninews/internal/models"

	"golang.org/x/text/language"
)

// UserRepository defines user data access. Lookups return an
// apperror.NotFound error on absence.
type UserRepository interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	HasAdmin(ctx context.Context) (bool, error)
	// CreateUser hashes user.Password (plaintext on input) before
	// persisting and fails with a Conflict error on duplicate
	// username or email.
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, id string, patch models.UserPatch) (*models.User, error)
	// DeleteUser is idempotent: deleting a missing user succeeds.
	DeleteUser(ctx context.Context, id string) error
}

// CategoryRepository defines category data access.
type CategoryRepository interface {
	// GetCategories returns all categories ordered by name using the
	// storage locale's collation.
	GetCategories(ctx context.Context) ([]models.Category, error)
	GetCategoryByID(ctx context.Context, id string) (*models.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, id string, patch models.CategoryPatch) (*models.Category, error)
	// DeleteCategory fails with a Constraint error while any article
	// references the category. Deleting a missing category is a no-op.
	DeleteCategory(ctx context.Context, id string) error
	CountCategories(ctx context.Context) (int64, error)
}

// ArticleRepository defines article data access. Listing operations
// other than ListArticles only return published articles and attach the
// article's category.
type ArticleRepository interface {
	GetArticles(ctx context.Context, limit, offset int) ([]models.Article, error)
	ListArticles(ctx context.Context, filter models.ArticleFilter) ([]models.Article, error)
	GetArticleByID(ctx context.Context, id string) (*models.Article, error)
	GetArticleBySlug(ctx context.Context, slug string) (*models.Article, error)
	GetArticlesByCategory(ctx context.Context, categoryID string, limit int) ([]models.Article, error)
	// SearchArticles matches query case-insensitively against title,
	// summary and content. A blank query matches nothing.
	SearchArticles(ctx context.Context, query string, limit int) ([]models.Article, error)
	CreateArticle(ctx context.Context, article *models.Article) error
	UpdateArticle(ctx context.Context, id string, patch models.ArticlePatch) (*models.Article, error)
	DeleteArticle(ctx context.Context, id string) error
	// UpdateArticleViews increments the view counter by one in a single
	// store-level update.
	UpdateArticleViews(ctx context.Context, id string) error
	// GetMostViewedArticles orders by views desc, then publishedAt desc,
	// then id.
	GetMostViewedArticles(ctx context.Context, limit int) ([]models.Article, error)
	CountArticles(ctx context.Context) (models.ArticleCounts, error)
}

// SiteConfigRepository defines access to the singleton site configuration.
type SiteConfigRepository interface {
	GetSiteConfig(ctx context.Context) (*models.SiteConfig, error)
	// UpdateSiteConfig creates the row from the defaults merged with
	// patch when absent, otherwise updates the patched fields in place.
	UpdateSiteConfig(ctx context.Context, patch models.SiteConfigPatch) (*models.SiteConfig, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	HashPassword(plain string) (string, error)
	VerifyPassword(plain, hash string) bool
}

// Storage is the data-access contract for the whole application.
type Storage interface {
	UserRepository
	CategoryRepository
	ArticleRepository
	SiteConfigRepository
	PasswordHasher
}

// Options configures a storage implementation.
type Options struct {
	// PasswordCost is the bcrypt work factor.
	PasswordCost int
	// Locale drives category name ordering.
	Locale language.Tag
}

// Default page sizes for listing operations.
const (
	DefaultArticleLimit  = 20
	DefaultCategoryLimit = 10
	DefaultSearchLimit   = 10
	DefaultTrendingLimit = 5
	MaxLimit             = 100
)

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
