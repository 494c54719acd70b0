package handlers

import (
	"maninews/internal/middleware"
	"maninews/internal/models"
	"maninews/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// SiteConfigHandler handles HTTP requests for the site configuration.
type SiteConfigHandler struct {
	service  *services.SiteConfigService
	validate *validator.Validate
}

// NewSiteConfigHandler creates a new SiteConfigHandler.
func NewSiteConfigHandler(service *services.SiteConfigService) *SiteConfigHandler {
	return &SiteConfigHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the public read route.
func (h *SiteConfigHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/site-config", h.HandleGetSiteConfig)
}

// RegisterAdminRoutes registers the admin routes; updating needs the admin
// role.
func (h *SiteConfigHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Get("/site-config", h.HandleGetSiteConfig)
	router.Put("/site-config", middleware.RequireAdmin(), h.HandleUpdateSiteConfig)
}

// HandleGetSiteConfig returns the site configuration.
func (h *SiteConfigHandler) HandleGetSiteConfig(c *fiber.Ctx) error {
	cfg, err := h.service.GetSiteConfig(c.UserContext())
	if err != nil {
		return respondError(c, "Failed to fetch site configuration", err)
	}
	return c.JSON(cfg)
}

// HandleUpdateSiteConfig updates the site configuration.
func (h *SiteConfigHandler) HandleUpdateSiteConfig(c *fiber.Ctx) error {
	var patch models.SiteConfigPatch
	if err := parseBody(c, h.validate, &patch); err != nil {
		return respondError(c, "Failed to update site configuration", err)
	}

	cfg, err := h.service.UpdateSiteConfig(c.UserContext(), patch)
	if err != nil {
		return respondError(c, "Failed to update site configuration", err)
	}
	return c.JSON(cfg)
}
