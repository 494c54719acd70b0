package middleware

import (
	"log"
	"strings"

	"maninews/internal/apperror"
	"maninews/internal/models"
	"maninews/internal/services"

	"github.com/gofiber/fiber/v2"
)

const identityKey = "user"

// Authenticate is a Fiber middleware that requires a valid bearer token of
// an active user. A missing token is 401; an invalid or expired token, or
// one whose user is gone or inactive, is 403.
func Authenticate(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c.Get(fiber.HeaderAuthorization))
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Access token required",
			})
		}

		identity, err := authService.Authenticate(c.UserContext(), tokenString)
		if err != nil {
			appErr := apperror.From(err)
			if appErr.Kind == apperror.Forbidden {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"message": appErr.Message,
				})
			}
			log.Printf("Authentication error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Authentication failed",
			})
		}

		// Store the identity in Fiber context for subsequent handlers
		c.Locals(identityKey, *identity)
		return c.Next()
	}
}

// RequireAdmin rejects requests whose identity is not an admin. It must
// run after Authenticate.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := CurrentIdentity(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication required",
			})
		}
		if !identity.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Admin access required",
			})
		}
		return c.Next()
	}
}

// CurrentIdentity returns the identity attached by Authenticate.
func CurrentIdentity(c *fiber.Ctx) (models.Identity, bool) {
	identity, ok := c.Locals(identityKey).(models.Identity)
	return identity, ok
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
