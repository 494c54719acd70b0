package services

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"maninews/internal/apperror"
	"maninews/internal/models"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp" // WebP decoder
)

// UploadConfig configures where and how uploaded images are stored.
type UploadConfig struct {
	Dir       string
	URLPrefix string
	MaxWidth  int
	MaxBytes  int64
}

// UploadService stores uploaded images on disk.
type UploadService struct {
	cfg UploadConfig
}

// NewUploadService creates a new UploadService.
func NewUploadService(cfg UploadConfig) *UploadService {
	cfg.URLPrefix = strings.TrimRight(cfg.URLPrefix, "/")
	return &UploadService{cfg: cfg}
}

// SaveImage decodes the image read from r, applies its EXIF orientation,
// scales it down to the configured width and writes it under a random
// name. JPEG, PNG and GIF keep their format, anything else is stored as
// JPEG.
func (s *UploadService) SaveImage(originalName string, r io.Reader) (*models.Upload, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.cfg.MaxBytes+1))
	if err != nil {
		return nil, apperror.NewFault("read upload", err)
	}
	if int64(len(data)) > s.cfg.MaxBytes {
		return nil, apperror.NewValidation(fmt.Sprintf("image exceeds the %d bytes limit", s.cfg.MaxBytes))
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, apperror.NewValidation("file is not a supported image")
	}
	if s.cfg.MaxWidth > 0 && img.Bounds().Dx() > s.cfg.MaxWidth {
		img = imaging.Resize(img, s.cfg.MaxWidth, 0, imaging.Lanczos)
	}

	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return nil, apperror.NewFault("create upload directory", err)
	}

	filename := uuid.New().String() + storedExtension(originalName)
	path := filepath.Join(s.cfg.Dir, filename)
	if err := imaging.Save(img, path, imaging.JPEGQuality(85)); err != nil {
		return nil, apperror.NewFault(fmt.Sprintf("save upload %s", filename), err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, apperror.NewFault(fmt.Sprintf("stat upload %s", filename), err)
	}

	bounds := img.Bounds()
	log.Printf("Stored upload %s (%dx%d, %d bytes)", filename, bounds.Dx(), bounds.Dy(), info.Size())
	return &models.Upload{
		URL:          s.cfg.URLPrefix + "/" + filename,
		Filename:     filename,
		OriginalName: filepath.Base(originalName),
		Size:         info.Size(),
		Width:        bounds.Dx(),
		Height:       bounds.Dy(),
	}, nil
}

func storedExtension(originalName string) string {
	format, err := imaging.FormatFromFilename(originalName)
	if err != nil {
		return ".jpg"
	}
	switch format {
	case imaging.PNG:
		return ".png"
	case imaging.GIF:
		return ".gif"
	default:
		return ".jpg"
	}
}
