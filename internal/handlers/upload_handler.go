package handlers

import (
	"fmt"

	"maninews/internal/apperror"
	"maninews/internal/middleware"
	"maninews/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UploadHandler accepts image uploads.
type UploadHandler struct {
	service  *services.UploadService
	maxBytes int64
}

// NewUploadHandler creates a new UploadHandler rejecting files larger than
// maxBytes.
func NewUploadHandler(service *services.UploadService, maxBytes int64) *UploadHandler {
	return &UploadHandler{service: service, maxBytes: maxBytes}
}

// RegisterAdminRoutes registers the admin-only upload route.
func (h *UploadHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Post("/upload", middleware.RequireAdmin(), h.HandleUpload)
}

// HandleUpload stores the multipart "image" field and returns its URL.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	header, err := c.FormFile("image")
	if err != nil {
		return respondError(c, "Upload failed", apperror.NewInvalidFields("No image provided", map[string]string{"image": "required"}))
	}
	if header.Size > h.maxBytes {
		return respondError(c, "Upload failed", apperror.NewValidation(fmt.Sprintf("image exceeds the %d bytes limit", h.maxBytes)))
	}

	file, err := header.Open()
	if err != nil {
		return respondError(c, "Upload failed", apperror.NewFault("open upload", err))
	}
	defer file.Close()

	upload, err := h.service.SaveImage(header.Filename, file)
	if err != nil {
		return respondError(c, "Upload failed", err)
	}
	return c.JSON(upload)
}
