package handlers

import (
	"maninews/internal/middleware"
	"maninews/internal/models"
	"maninews/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
	loginGuards []fiber.Handler
}

// NewAuthHandler creates a new AuthHandler. loginGuards run before the
// login handler, e.g. a rate limiter.
func NewAuthHandler(authService *services.AuthService, loginGuards ...fiber.Handler) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    newValidator(),
		loginGuards: loginGuards,
	}
}

// RegisterRoutes registers the unauthenticated login and registration
// routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	login := append(append([]fiber.Handler{}, h.loginGuards...), h.HandleLogin)
	router.Post("/login", login...)
	router.Post("/register", h.HandleRegister)
}

// RegisterAdminRoutes registers the routes that need an authenticated
// identity.
func (h *AuthHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Get("/me", h.HandleMe)
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var input models.RegisterInput
	if err := parseBody(c, h.validate, &input); err != nil {
		return respondError(c, "Registration failed", err)
	}

	user, err := h.authService.Register(c.UserContext(), input)
	if err != nil {
		return respondError(c, "Registration failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var input models.LoginInput
	if err := parseBody(c, h.validate, &input); err != nil {
		return respondError(c, "Login failed", err)
	}

	result, err := h.authService.Login(c.UserContext(), input)
	if err != nil {
		return respondError(c, "Login failed", err)
	}
	return c.JSON(result)
}

// HandleMe returns the identity of the caller.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication required",
		})
	}
	return c.JSON(identity)
}
