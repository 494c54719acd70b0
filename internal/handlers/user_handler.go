package handlers

import (
	"maninews/internal/middleware"
	"maninews/internal/models"
	"maninews/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles account administration.
type UserHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService) *UserHandler {
	return &UserHandler{
		authService: authService,
		validate:    newValidator(),
	}
}

// RegisterAdminRoutes registers the admin-only user routes.
func (h *UserHandler) RegisterAdminRoutes(router fiber.Router) {
	userRoutes := router.Group("/users", middleware.RequireAdmin())
	userRoutes.Get("/", h.HandleListUsers)
	userRoutes.Put("/:id", h.HandleUpdateUser)
	userRoutes.Delete("/:id", h.HandleDeleteUser)
}

// HandleListUsers lists every account.
func (h *UserHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.authService.ListUsers(c.UserContext())
	if err != nil {
		return respondError(c, "Failed to fetch users", err)
	}
	return c.JSON(users)
}

// HandleUpdateUser changes the role, status, email or password of an account.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	var patch models.UserPatch
	if err := parseBody(c, h.validate, &patch); err != nil {
		return respondError(c, "Failed to update user", err)
	}

	actor, _ := middleware.CurrentIdentity(c)
	user, err := h.authService.UpdateUser(c.UserContext(), actor, c.Params("id"), patch)
	if err != nil {
		return respondError(c, "Failed to update user", err)
	}
	return c.JSON(user)
}

// HandleDeleteUser deletes an account.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	actor, _ := middleware.CurrentIdentity(c)
	if err := h.authService.DeleteUser(c.UserContext(), actor, c.Params("id")); err != nil {
		return respondError(c, "Failed to delete user", err)
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}
