package handlers

import (
	"maninews/internal/middleware"
	"maninews/internal/models"
	"maninews/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
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
		validate: newValidator(),
	}
}

// RegisterRoutes registers the public category routes.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleGetCategories)
	categoryRoutes.Get("/:slug", h.HandleGetCategoryBySlug)
}

// RegisterAdminRoutes registers the admin category routes. Listing only
// needs authentication, mutations need the admin role.
func (h *CategoryHandler) RegisterAdminRoutes(router fiber.Router) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleGetCategories)
	categoryRoutes.Post("/", middleware.RequireAdmin(), h.HandleCreateCategory)
	categoryRoutes.Put("/:id", middleware.RequireAdmin(), h.HandleUpdateCategory)
	categoryRoutes.Delete("/:id", middleware.RequireAdmin(), h.HandleDeleteCategory)
}

// HandleGetCategories retrieves all categories.
func (h *CategoryHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.GetCategories(c.UserContext())
	if err != nil {
		return respondError(c, "Failed to fetch categories", err)
	}
	return c.JSON(categories)
}

// HandleGetCategoryBySlug retrieves a single category by its slug.
func (h *CategoryHandler) HandleGetCategoryBySlug(c *fiber.Ctx) error {
	category, err := h.service.GetCategoryBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondError(c, "Failed to fetch category", err)
	}
	return c.JSON(category)
}

// HandleCreateCategory creates a new category.
func (h *CategoryHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var input models.CategoryInput
	if err := parseBody(c, h.validate, &input); err != nil {
		return respondError(c, "Failed to create category", err)
	}

	category, err := h.service.CreateCategory(c.UserContext(), input)
	if err != nil {
		return respondError(c, "Failed to create category", err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleUpdateCategory applies a partial update to a category.
func (h *CategoryHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	var patch models.CategoryPatch
	if err := parseBody(c, h.validate, &patch); err != nil {
		return respondError(c, "Failed to update category", err)
	}

	category, err := h.service.UpdateCategory(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return respondError(c, "Failed to update category", err)
	}
	return c.JSON(category)
}

// HandleDeleteCategory deletes a category without articles.
func (h *CategoryHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	if err := h.service.DeleteCategory(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, "Failed to delete category", err)
	}
	return c.JSON(fiber.Map{"message": "Category deleted successfully"})
}
