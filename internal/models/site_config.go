package models

import "time"

// SiteConfigID is the primary key of the only site_config row.
const SiteConfigID = 1

// SiteConfig holds site-wide branding, SEO and social settings. The table
// holds at most one row, pinned to SiteConfigID.
type SiteConfig struct {
	ID                int       `json:"id" gorm:"primaryKey;autoIncrement:false"`
	SiteName          string    `json:"siteName" gorm:"type:varchar(150);not null"`
	SiteDescription   string    `json:"siteDescription" gorm:"type:text"`
	SiteKeywords      string    `json:"siteKeywords" gorm:"type:text"`
	SiteLogo          string    `json:"siteLogo" gorm:"type:text"`
	Favicon           string    `json:"favicon" gorm:"type:text"`
	PrimaryColor      string    `json:"primaryColor" gorm:"type:varchar(9)"`
	SecondaryColor    string    `json:"secondaryColor" gorm:"type:varchar(9)"`
	ContactEmail      string    `json:"contactEmail" gorm:"type:varchar(255)"`
	FacebookURL       string    `json:"facebookUrl" gorm:"type:text"`
	TwitterURL        string    `json:"twitterUrl" gorm:"type:text"`
	InstagramURL      string    `json:"instagramUrl" gorm:"type:text"`
	YoutubeURL        string    `json:"youtubeUrl" gorm:"type:text"`
	GoogleAnalyticsID string    `json:"googleAnalyticsId" gorm:"type:varchar(50)"`
	MetaDescription   string    `json:"metaDescription" gorm:"type:text"`
	MetaKeywords      string    `json:"metaKeywords" gorm:"type:text"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// TableName pins the singular table name.
func (SiteConfig) TableName() string {
	return "site_config"
}

// DefaultSiteConfig returns the settings used when no row exists yet.
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		ID:              SiteConfigID,
		SiteName:        "Mani News",
		SiteDescription: "Portal de notícias",
		SiteKeywords:    "notícias",
		PrimaryColor:    "#e50914",
		SecondaryColor:  "#dc2626",
		ContactEmail:    "contato@maninews.com",
	}
}

// SiteConfigPatch is a partial site configuration update. An empty URL or
// contact email clears the stored value.
type SiteConfigPatch struct {
	SiteName          *string `json:"siteName" validate:"omitempty,min=1,max=150"`
	SiteDescription   *string `json:"siteDescription" validate:"omitempty,max=500"`
	SiteKeywords      *string `json:"siteKeywords" validate:"omitempty,max=500"`
	SiteLogo          *string `json:"siteLogo" validate:"omitempty,max=2048"`
	Favicon           *string `json:"favicon" validate:"omitempty,max=2048"`
	PrimaryColor      *string `json:"primaryColor" validate:"omitempty,hexcolor"`
	SecondaryColor    *string `json:"secondaryColor" validate:"omitempty,hexcolor"`
	ContactEmail      *string `json:"contactEmail" validate:"omitempty,eq=|email"`
	FacebookURL       *string `json:"facebookUrl" validate:"omitempty,eq=|url"`
	TwitterURL        *string `json:"twitterUrl" validate:"omitempty,eq=|url"`
	InstagramURL      *string `json:"instagramUrl" validate:"omitempty,eq=|url"`
	YoutubeURL        *string `json:"youtubeUrl" validate:"omitempty,eq=|url"`
	GoogleAnalyticsID *string `json:"googleAnalyticsId" validate:"omitempty,max=50"`
	MetaDescription   *string `json:"metaDescription" validate:"omitempty,max=320"`
	MetaKeywords      *string `json:"metaKeywords" validate:"omitempty,max=500"`
}

func (p SiteConfigPatch) fields(c *SiteConfig) []struct {
	column string
	value  *string
	target *string
} {
	return []struct {
		column string
		value  *string
		target *string
	}{
		{"site_name", p.SiteName, &c.SiteName},
		{"site_description", p.SiteDescription, &c.SiteDescription},
		{"site_keywords", p.SiteKeywords, &c.SiteKeywords},
		{"site_logo", p.SiteLogo, &c.SiteLogo},
		{"favicon", p.Favicon, &c.Favicon},
		{"primary_color", p.PrimaryColor, &c.PrimaryColor},
		{"secondary_color", p.SecondaryColor, &c.SecondaryColor},
		{"contact_email", p.ContactEmail, &c.ContactEmail},
		{"facebook_url", p.FacebookURL, &c.FacebookURL},
		{"twitter_url", p.TwitterURL, &c.TwitterURL},
		{"instagram_url", p.InstagramURL, &c.InstagramURL},
		{"youtube_url", p.YoutubeURL, &c.YoutubeURL},
		{"google_analytics_id", p.GoogleAnalyticsID, &c.GoogleAnalyticsID},
		{"meta_description", p.MetaDescription, &c.MetaDescription},
		{"meta_keywords", p.MetaKeywords, &c.MetaKeywords},
	}
}

// Apply copies the set fields onto c.
func (p SiteConfigPatch) Apply(c *SiteConfig) {
	for _, f := range p.fields(c) {
		if f.value != nil {
			*f.target = *f.value
		}
	}
}

// Columns returns the database column names of the set fields.
func (p SiteConfigPatch) Columns() []string {
	var columns []string
	for _, f := range p.fields(&SiteConfig{}) {
		if f.value != nil {
			columns = append(columns, f.column)
		}
	}
	return columns
}
