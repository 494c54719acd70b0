package handlers

import (
	"maninews/internal/middleware"
	"maninews/internal/models"
	"maninews/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// defaultPageSize is the public article listing size when no limit is given.
const defaultPageSize = 20

// ArticleHandler handles HTTP requests for articles.
type ArticleHandler struct {
	service  *services.ArticleService
	validate *validator.Validate
}

// NewArticleHandler creates a new ArticleHandler.
func NewArticleHandler(service *services.ArticleService) *ArticleHandler {
	return &ArticleHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the public article routes. The fixed paths are
// registered before /:slug so they are not taken for slugs.
func (h *ArticleHandler) RegisterRoutes(router fiber.Router) {
	articleRoutes := router.Group("/articles")
	articleRoutes.Get("/", h.HandleGetArticles)
	articleRoutes.Get("/search", h.HandleSearchArticles)
	articleRoutes.Get("/most-viewed", h.HandleGetMostViewedArticles)
	articleRoutes.Get("/:slug", h.HandleReadArticle)
}

// RegisterAdminRoutes registers the admin article routes. Reads only need
// authentication, mutations need the admin role.
func (h *ArticleHandler) RegisterAdminRoutes(router fiber.Router) {
	articleRoutes := router.Group("/articles")
	articleRoutes.Get("/", h.HandleListArticles)
	articleRoutes.Get("/:id", h.HandleGetArticleByID)
	articleRoutes.Post("/", middleware.RequireAdmin(), h.HandleCreateArticle)
	articleRoutes.Put("/:id", middleware.RequireAdmin(), h.HandleUpdateArticle)
	articleRoutes.Delete("/:id", middleware.RequireAdmin(), h.HandleDeleteArticle)
}

// HandleGetArticles lists published articles, optionally of one category.
// Both branches default to a page of 20; the offset is ignored when
// filtering by category.
func (h *ArticleHandler) HandleGetArticles(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultPageSize)

	var (
		articles []models.Article
		err      error
	)
	if categoryID := c.Query("categoryId"); categoryID != "" {
		articles, err = h.service.GetArticlesByCategory(c.UserContext(), categoryID, limit)
	} else {
		articles, err = h.service.GetArticles(c.UserContext(), limit, c.QueryInt("offset", 0))
	}
	if err != nil {
		return respondError(c, "Failed to fetch articles", err)
	}
	return c.JSON(articles)
}

// HandleSearchArticles searches published articles by q.
func (h *ArticleHandler) HandleSearchArticles(c *fiber.Ctx) error {
	articles, err := h.service.SearchArticles(c.UserContext(), c.Query("q"), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, "Failed to search articles", err)
	}
	return c.JSON(articles)
}

// HandleGetMostViewedArticles lists the most viewed published articles.
func (h *ArticleHandler) HandleGetMostViewedArticles(c *fiber.Ctx) error {
	articles, err := h.service.GetMostViewedArticles(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, "Failed to fetch most viewed articles", err)
	}
	return c.JSON(articles)
}

// HandleReadArticle returns one article by slug and counts the view.
func (h *ArticleHandler) HandleReadArticle(c *fiber.Ctx) error {
	article, err := h.service.ReadArticle(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondError(c, "Failed to fetch article", err)
	}
	return c.JSON(article)
}

// HandleListArticles lists drafts and published articles.
func (h *ArticleHandler) HandleListArticles(c *fiber.Ctx) error {
	published, err := queryBool(c, "published")
	if err != nil {
		return respondError(c, "Failed to fetch articles", err)
	}

	articles, err := h.service.ListArticles(c.UserContext(), models.ArticleFilter{
		Published: published,
		Limit:     c.QueryInt("limit", 0),
		Offset:    c.QueryInt("offset", 0),
	})
	if err != nil {
		return respondError(c, "Failed to fetch articles", err)
	}
	return c.JSON(articles)
}

// HandleGetArticleByID retrieves a single article, drafts included.
func (h *ArticleHandler) HandleGetArticleByID(c *fiber.Ctx) error {
	article, err := h.service.GetArticleByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, "Failed to fetch article", err)
	}
	return c.JSON(article)
}

// HandleCreateArticle creates a new article.
func (h *ArticleHandler) HandleCreateArticle(c *fiber.Ctx) error {
	var input models.ArticleInput
	if err := parseBody(c, h.validate, &input); err != nil {
		return respondError(c, "Failed to create article", err)
	}

	article, err := h.service.CreateArticle(c.UserContext(), input)
	if err != nil {
		return respondError(c, "Failed to create article", err)
	}
	return c.Status(fiber.StatusCreated).JSON(article)
}

// HandleUpdateArticle applies a partial update to an article.
func (h *ArticleHandler) HandleUpdateArticle(c *fiber.Ctx) error {
	var patch models.ArticlePatch
	if err := parseBody(c, h.validate, &patch); err != nil {
		return respondError(c, "Failed to update article", err)
	}

	article, err := h.service.UpdateArticle(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return respondError(c, "Failed to update article", err)
	}
	return c.JSON(article)
}

// HandleDeleteArticle deletes an article.
func (h *ArticleHandler) HandleDeleteArticle(c *fiber.Ctx) error {
	if err := h.service.DeleteArticle(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, "Failed to delete article", err)
	}
	return c.JSON(fiber.Map{"message": "Article deleted successfully"})
}
