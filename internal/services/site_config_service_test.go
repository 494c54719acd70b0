package services_test

import (
	"context"
	"errors"
	"testing"

	"maninews/internal/apperror"
	"maninews/internal/models"
	"maninews/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteConfigService_DefaultsUntilSaved(t *testing.T) {
	ctx := context.Background()
	siteConfigService := services.NewSiteConfigService(newStore())

	cfg, err := siteConfigService.GetSiteConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSiteConfig(), *cfg)

	name := "Outro Portal"
	_, err = siteConfigService.UpdateSiteConfig(ctx, models.SiteConfigPatch{SiteName: &name})
	require.NoError(t, err)

	cfg, err = siteConfigService.GetSiteConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Outro Portal", cfg.SiteName)
	assert.Equal(t, "contato@maninews.com", cfg.ContactEmail)
}

type failingSiteConfigRepo struct{}

func (failingSiteConfigRepo) GetSiteConfig(context.Context) (*models.SiteConfig, error) {
	return nil, apperror.NewFault("get site config", errors.New("timeout"))
}

func (failingSiteConfigRepo) UpdateSiteConfig(context.Context, models.SiteConfigPatch) (*models.SiteConfig, error) {
	return nil, apperror.NewFault("update site config", errors.New("timeout"))
}

func TestSiteConfigService_PropagatesFaults(t *testing.T) {
	_, err := services.NewSiteConfigService(failingSiteConfigRepo{}).GetSiteConfig(context.Background())
	assert.True(t, apperror.IsFault(err))
}
