package repositories_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"maninews/internal/apperror"
	"maninews/internal/database"
	"maninews/internal/models"
	"maninews/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/language"
	"gorm.io/gorm/logger"
)

var testOptions = repositories.Options{
	PasswordCost: bcrypt.MinCost,
	Locale:       language.BrazilianPortuguese,
}

// newGORMStorage opens a private in-memory sqlite database per test.
func newGORMStorage(t *testing.T) repositories.Storage {
	t.Helper()
	db, err := database.Open(database.Options{
		Driver:   "sqlite",
		DSN:      fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return repositories.NewGORMStorage(db, testOptions)
}

func newMockStorage(t *testing.T) repositories.Storage {
	return repositories.NewMockStorage(testOptions)
}

// forEachStorage runs fn against every Storage implementation.
func forEachStorage(t *testing.T, fn func(t *testing.T, s repositories.Storage)) {
	factories := map[string]func(t *testing.T) repositories.Storage{
		"gorm": newGORMStorage,
		"mock": newMockStorage,
	}
	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			fn(t, factory(t))
		})
	}
}

func createCategory(t *testing.T, s repositories.Storage, name, slug string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name, Slug: slug}
	require.NoError(t, s.CreateCategory(context.Background(), category))
	return category
}

func createArticle(t *testing.T, s repositories.Storage, categoryID, slug string, published bool, publishedAt time.Time) *models.Article {
	t.Helper()
	article := &models.Article{
		Title:         "Title " + slug,
		Slug:          slug,
		Summary:       "Summary of " + slug,
		Content:       "<p>Content of " + slug + "</p>",
		FeaturedImage: "/uploads/" + slug + ".jpg",
		CategoryID:    categoryID,
		Author:        "Redação",
		Published:     published,
		PublishedAt:   publishedAt,
		Tags:          []string{"news"},
	}
	require.NoError(t, s.CreateArticle(context.Background(), article))
	return article
}

func slugsOf(articles []models.Article) []string {
	slugs := make([]string, 0, len(articles))
	for _, a := range articles {
		slugs = append(slugs, a.Slug)
	}
	return slugs
}

func TestStorage_Users(t *testing.T) {
	forEachStorage(t, func(t *testing.T, s repositories.Storage) {
		ctx := context.Background()

		hasAdmin, err := s.HasAdmin(ctx)
		require.NoError(t, err)
		assert.False(t, hasAdmin)

		user := &models.User{Username: "ana", Email: "ana@example.com", Password: "secret123", Role: models.RoleAdmin, IsActive: true}
		require.NoError(t, s.CreateUser(ctx, user))
		assert.NotEmpty(t, user.ID)
		assert.NotEqual(t, "secret123", user.Password)
		assert.True(t, s.VerifyPassword("secret123", user.Password))

		hasAdmin, err = s.HasAdmin(ctx)
		require.NoError(t, err)
		assert.True(t, hasAdmin)

		found, err := s.GetUserByUsername(ctx, "ana")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
		assert.True(t, found.IsActive)

		found, err = s.GetUserByEmail(ctx, "ana@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)

		_, err = s.GetUser(ctx, "missing")
		assert.True(t, apperror.IsNotFound(err))

		err = s.CreateUser(ctx, &models.User{Username: "ana", Email: "other@example.com", Password: "secret123"})
		assert.True(t, apperror.IsConflict(err))
		err = s.CreateUser(ctx, &models.User{Username: "bia", Email: "ana@example.com", Password: "secret123"})
		assert.True(t, apperror.IsConflict(err))

		inactive := false
		newPassword := "another456"
		updated, err := s.UpdateUser(ctx, user.ID, models.UserPatch{IsActive: &inactive, Password: &newPassword})
		require.NoError(t, err)
		assert.False(t, updated.IsActive)
		assert.True(t, s.VerifyPassword("another456", updated.Password))
		assert.False(t, s.VerifyPassword("secret123", updated.Password))

		users, err := s.ListUsers(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 1)

		require.NoError(t, s.DeleteUser(ctx, user.ID))
		require.NoError(t, s.DeleteUser(ctx, user.ID))
		_, err = s.GetUser(ctx, user.ID)
		assert.True(t, apperror.IsNotFound(err))
	})
}

func TestStorage_VerifyPasswordRejectsVariants(t *testing.T) {
	forEachStorage(t, func(t *testing.T, s repositories.Storage) {
		const password = "secret123"
		hash, err := s.HashPassword(password)
		require.NoError(t, err)
		require.True(t, s.VerifyPassword(password, hash))

		other, err := s.HashPassword(password)
		require.NoError(t, err)
		assert.NotEqual(t, hash, other, "hashes must be salted")

		variants := []string{"", password + "x", password[:len(password)-1]}
		for i := range password {
			b := []byte(password)
			b[i] ^= 0x01
			variants = append(variants, string(b))
		}
		for _, v := range variants {
			assert.False(t, s.VerifyPassword(v, hash), "variant %q must not verify", v)
		}
		assert.False(t, s.VerifyPassword(password, "not-a-hash"))
	})
}

func TestStorage_Categories(t *testing.T) {
	forEachStorage(t, func(t *testing.T, s repositories.Storage) {
		ctx := context.Background()

		futebol := createCategory(t, s, "Futebol", "futebol")
		etica := createCategory(t, s, "Ética", "etica")
		createCategory(t, s, "Ambiente", "ambiente")
		assert.Equal(t, models.DefaultCategoryColor, futebol.Color)

		categories, err := s.GetCategories(ctx)
		require.NoError(t, err)
		names := []string{}
		for _, c := range categories {
			names = append(names, c.Name)
		}
		assert.Equal(t, []string{"Ambiente", "Ética", "Futebol"}, names)

		err = s.CreateCategory(ctx, &models.Category{Name: "Futebol", Slug: "futebol-2"})
		assert.True(t, apperror.IsConflict(err))
		err = s.CreateCategory(ctx, &models.Category{Name: "Futebol 2", Slug: "futebol"})
		assert.True(t, apperror.IsConflict(err))

		found, err := s.GetCategoryBySlug(ctx, "etica")
		require.NoError(t, err)
		assert.Equal(t, etica.ID, found.ID)

		color := "#123456"
		updated, err := s.UpdateCategory(ctx, etica.ID, models.CategoryPatch{Color: &color})
		require.NoError(t, err)
		assert.Equal(t, "#123456", updated.Color)
		assert.Equal(t, "Ética", updated.Name)

		taken := "futebol"
		_, err = s.UpdateCategory(ctx, etica.ID, models.CategoryPatch{Slug: &taken})
		assert.True(t, apperror.IsConflict(err))

		_, err = s.UpdateCategory(ctx, "missing", models.CategoryPatch{Color: &color})
		assert.True(t, apperror.IsNotFound(err))

		count, err := s.CountCategories(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})
}

func TestStorage_CategoryDeleteGuardedByArticles(t *testing.T) {
	forEachStorage(t, func(t *testing.T, s repositories.Storage) {
		ctx := context.Background()
		category := createCategory(t, s, "Política", "politica")
		article := createArticle(t, s, category.ID, "eleicoes", true, time.Now())

		err := s.DeleteCategory(ctx, category.ID)
		assert.True(t, apperror.IsConstraint(err))

		_, err = s.GetCategoryByID(ctx, category.ID)
		require.NoError(t, err)

		require.NoError(t, s.DeleteArticle(ctx, article.ID))
		require.NoError(t, s.DeleteCategory(ctx, category.ID))
		require.NoError(t, s.DeleteCategory(ctx, category.ID))

		_, err = s.GetCategoryByID(ctx, category.ID)
		assert.True(t, apperror.IsNotFound(err))
	})
}

func TestStorage_ArticleRequiresExistingCategory(t *testing.T) {
	forEachStorage(t, func(t *testing.T, s repositories.Storage) {
		ctx := context.Background()
		err := s.CreateArticle(ctx, &models.Article{
			Title: "Orphan", Slug: "orphan", Summary: "s", Content: "c",
			FeaturedImage: "/x.jpg", CategoryID: "missing", Author: "a",
		})
		assert.True(t, apperror.IsConstraint(err))

		category := createCategory(t, s, "Economia", "economia")
		article := createArticle(t, s, category.ID, "juros", false, time.Now())

		missing := "missing"
		_, err = s.UpdateArticle(ctx, article.ID, models.ArticlePatch{CategoryID: &missing})
		assert.True(t, apperror.IsConstraint(err))

		err = s.CreateArticle(ctx, &models.Article{
			Title: "Dup", Slug: "juros", Summary: "s", Content: "c",
			FeaturedImage: "/x.jpg", CategoryID: category.ID, Author: "a",
		})
		assert.True(t, apperror.IsConflict(err))
	})
}

func TestStorage_PublishedListings(t *testing.T) {
	forEachStorage(t, func(t *testing.T, s repositories.Storage) {
		ctx := context.Background()
		base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		esportes := createCategory(t, s, "Esportes", "esportes")
		cultura := createCategory(t, s, "Cultura", "cultura")

		createArticle(t, s, esportes.ID, "old", true, base)
		createArticle(t, s, esportes.ID, "new", true, base.Add(2*time.Hour))
		createArticle(t, s, cultura.ID, "middle", true, base.Add(time.Hour))
		draft := createArticle(t, s, esportes.ID, "draft", false, base.Add(3*time.Hour))

		articles, err := s.GetArticles(ctx, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"new", "middle", "old"}, slugsOf(articles))
		require.NotNil(t, articles[0].Category)
		assert.Equal(t, "Esportes", articles[0].Category.Name)

		articles, err = s.GetArticles(ctx, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, []string{"middle"}, slugsOf(articles))

		articles, err = s.GetArticlesByCategory(ctx, esportes.ID, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"new", "old"}, slugsOf(articles))

		published := false
		articles, err = s.ListArticles(ctx, models.ArticleFilter{Published: &published})
		require.NoError(t, err)
		assert.Equal(t, []string{"draft"}, slugsOf(articles))

		articles, err = s.ListArticles(ctx, models.ArticleFilter{})
		require.NoError(t, err)
		assert.Len(t, articles, 4)

		// Drafts stay reachable by slug and id.
		found, err := s.GetArticleBySlug(ctx, "draft")
		require.NoError(t, err)
		assert.Equal(t, draft.ID, found.ID)
		assert.Equal(t, []string{"news"}, found.Tags)

		_, err = s.GetArticleByID(ctx, "missing")
		assert.True(t, apperror.IsNotFound(err))

		publish := true
		updated, err := s.UpdateArticle(ctx, draft.ID, models.ArticlePatch{Published: &publish})
		require.NoError(t, err)
		assert.True(t, updated.Published)
		require.NotNil(t, updated.Category)

		articles, err = s.GetArticles(ctx, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"draft", "new", "middle", "old"}, slugsOf(articles))

		counts, err := s.CountArticles(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.ArticleCounts{Total: 4, Published: 4, Views: 0}, counts)
	})
}

func TestStorage_SearchArticles(t *testing.T) {
	forEachStorage(t, func(t *testing.T, s repositories.Storage) {
		ctx := context.Background()
		category := createCategory(t, s, "Tecnologia", "tecnologia")
		article := createArticle(t, s, category.ID, "chips", true, time.Now())
		title := "Nova Geração de CHIPS"
		_, err := s.UpdateArticle(ctx, article.ID, models.ArticlePatch{Title: &title})
		require.NoError(t, err)
		createArticle(t, s, category.ID, "hidden-chips", false, time.Now())

		results, err := s.SearchArticles(ctx, "  geração de chips ", 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"chips"}, slugsOf(results))

		results, err = s.SearchArticles(ctx, "CONTENT OF", 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"chips"}, slugsOf(results))

		results, err = s.SearchArticles(ctx, "100%", 0)
		require.NoError(t, err)
		assert.Empty(t, results)

		results, err = s.SearchArticles(ctx, "   ", 0)
		require.NoError(t, err)
		assert.NotNil(t, results)
		assert.Empty(t, results)
	})
}

func TestStorage_ConcurrentViews(t *testing.T) {
	forEachStorage(t, func(t *testing.T, s repositories.Storage) {
		ctx := context.Background()
		category := createCategory(t, s, "Saúde", "saude")
		popular := createArticle(t, s, category.ID, "popular", true, time.Now().Add(-time.Hour))
		createArticle(t, s, category.ID, "fresh", true, time.Now())

		const readers = 25
		var wg sync.WaitGroup
		for i := 0; i < readers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, s.UpdateArticleViews(ctx, popular.ID))
			}()
		}
		wg.Wait()

		found, err := s.GetArticleByID(ctx, popular.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(readers), found.Views)

		trending, err := s.GetMostViewedArticles(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"popular", "fresh"}, slugsOf(trending))

		counts, err := s.CountArticles(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(readers), counts.Views)

		assert.NoError(t, s.UpdateArticleViews(ctx, "missing"))
	})
}

func TestStorage_SiteConfigUpsert(t *testing.T) {
	forEachStorage(t, func(t *testing.T, s repositories.Storage) {
		ctx := context.Background()

		_, err := s.GetSiteConfig(ctx)
		assert.True(t, apperror.IsNotFound(err))

		cfg, err := s.UpdateSiteConfig(ctx, models.SiteConfigPatch{})
		require.NoError(t, err)
		assert.Equal(t, "Mani News", cfg.SiteName)

		name := "Portal Norte"
		cfg, err = s.UpdateSiteConfig(ctx, models.SiteConfigPatch{SiteName: &name})
		require.NoError(t, err)
		assert.Equal(t, "Portal Norte", cfg.SiteName)
		assert.Equal(t, "#e50914", cfg.PrimaryColor)

		color := "#000000"
		cfg, err = s.UpdateSiteConfig(ctx, models.SiteConfigPatch{PrimaryColor: &color})
		require.NoError(t, err)
		assert.Equal(t, "Portal Norte", cfg.SiteName)
		assert.Equal(t, "#000000", cfg.PrimaryColor)

		stored, err := s.GetSiteConfig(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.SiteConfigID, stored.ID)
		assert.Equal(t, "Portal Norte", stored.SiteName)
	})
}
