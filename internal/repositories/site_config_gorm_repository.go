package repositories

import (
	"context"
	"time"

	"maninews/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetSiteConfig retrieves the site configuration row.
func (r *GORMStorage) GetSiteConfig(ctx context.Context) (*models.SiteConfig, error) {
	var cfg models.SiteConfig
	if err := r.db.WithContext(ctx).First(&cfg, "id = ?", models.SiteConfigID).Error; err != nil {
		return nil, lookupError("site configuration", "get site config", err)
	}
	return &cfg, nil
}

// UpdateSiteConfig upserts the singleton row in one statement: the insert
// carries the defaults merged with patch, the conflict branch only touches
// the patched columns.
func (r *GORMStorage) UpdateSiteConfig(ctx context.Context, patch models.SiteConfigPatch) (*models.SiteConfig, error) {
	row := models.DefaultSiteConfig()
	patch.Apply(&row)
	row.UpdatedAt = time.Now()

	onConflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}
	if columns := patch.Columns(); len(columns) > 0 {
		onConflict = clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(append(columns, "updated_at")),
		}
	}

	var cfg models.SiteConfig
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(onConflict).Create(&row).Error; err != nil {
			return err
		}
		return tx.First(&cfg, "id = ?", models.SiteConfigID).Error
	})
	if err != nil {
		return nil, translateError("update site config", err)
	}
	return &cfg, nil
}
