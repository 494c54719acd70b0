package services

import (
	"context"

	"maninews/internal/apperror"
	"maninews/internal/models"
	"maninews/internal/repositories"
)

// SiteConfigService reads and updates the site configuration.
type SiteConfigService struct {
	repo repositories.SiteConfigRepository
}

// NewSiteConfigService creates a new SiteConfigService.
func NewSiteConfigService(repo repositories.SiteConfigRepository) *SiteConfigService {
	return &SiteConfigService{repo: repo}
}

// GetSiteConfig returns the stored configuration, or the defaults when
// none has been saved yet.
func (s *SiteConfigService) GetSiteConfig(ctx context.Context) (*models.SiteConfig, error) {
	cfg, err := s.repo.GetSiteConfig(ctx)
	if apperror.IsNotFound(err) {
		defaults := models.DefaultSiteConfig()
		return &defaults, nil
	}
	return cfg, err
}

// UpdateSiteConfig merges patch into the configuration, creating it from
// the defaults when absent.
func (s *SiteConfigService) UpdateSiteConfig(ctx context.Context, patch models.SiteConfigPatch) (*models.SiteConfig, error) {
	return s.repo.UpdateSiteConfig(ctx, patch)
}
