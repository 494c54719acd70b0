package models

import "time"

// Article is the core content entity. Category is populated on reads that
// join the category and is never written through the article.
type Article struct {
	ID              string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title           string    `json:"title" gorm:"type:varchar(255);not null"`
	Subtitle        *string   `json:"subtitle"`
	Slug            string    `json:"slug" gorm:"uniqueIndex;type:varchar(255);not null"`
	Summary         string    `json:"summary" gorm:"type:text;not null"`
	Content         string    `json:"content" gorm:"type:text;not null"`
	FeaturedImage   string    `json:"featuredImage" gorm:"type:text;not null"`
	ImageCaption    *string   `json:"imageCaption"`
	CategoryID      string    `json:"categoryId" gorm:"type:varchar(36);index;not null"`
	Category        *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Author          string    `json:"author" gorm:"type:varchar(150);not null"`
	Views           int64     `json:"views" gorm:"not null;default:0"`
	Published       bool      `json:"published" gorm:"index;not null"`
	PublishedAt     time.Time `json:"publishedAt" gorm:"index"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	Tags            []string  `json:"tags" gorm:"type:text;serializer:json"`
	MetaDescription *string   `json:"metaDescription"`
	MetaKeywords    *string   `json:"metaKeywords"`
}

// ArticleInput is the create-article request body. Articles are drafts
// unless Published is set; an empty slug is derived from the title and a
// missing PublishedAt defaults to the creation time.
type ArticleInput struct {
	Title           string     `json:"title" validate:"required,min=3,max=255"`
	Subtitle        *string    `json:"subtitle" validate:"omitempty,max=255"`
	Slug            string     `json:"slug" validate:"omitempty,max=255,slug"`
	Summary         string     `json:"summary" validate:"required,max=1000"`
	Content         string     `json:"content" validate:"required"`
	FeaturedImage   string     `json:"featuredImage" validate:"required,max=2048"`
	ImageCaption    *string    `json:"imageCaption" validate:"omitempty,max=255"`
	CategoryID      string     `json:"categoryId" validate:"required"`
	Author          string     `json:"author" validate:"required,max=150"`
	Published       bool       `json:"published"`
	PublishedAt     *time.Time `json:"publishedAt"`
	Tags            []string   `json:"tags" validate:"omitempty,max=30,dive,required,max=50"`
	MetaDescription *string    `json:"metaDescription" validate:"omitempty,max=320"`
	MetaKeywords    *string    `json:"metaKeywords" validate:"omitempty,max=255"`
}

// ArticlePatch is a partial article update. Views is deliberately absent:
// the counter only moves through the increment operation.
type ArticlePatch struct {
	Title           *string    `json:"title" validate:"omitempty,min=3,max=255"`
	Subtitle        *string    `json:"subtitle" validate:"omitempty,max=255"`
	Slug            *string    `json:"slug" validate:"omitempty,max=255,slug"`
	Summary         *string    `json:"summary" validate:"omitempty,min=1,max=1000"`
	Content         *string    `json:"content" validate:"omitempty,min=1"`
	FeaturedImage   *string    `json:"featuredImage" validate:"omitempty,min=1,max=2048"`
	ImageCaption    *string    `json:"imageCaption" validate:"omitempty,max=255"`
	CategoryID      *string    `json:"categoryId" validate:"omitempty,min=1"`
	Author          *string    `json:"author" validate:"omitempty,min=1,max=150"`
	Published       *bool      `json:"published"`
	PublishedAt     *time.Time `json:"publishedAt"`
	Tags            *[]string  `json:"tags" validate:"omitempty,max=30,dive,required,max=50"`
	MetaDescription *string    `json:"metaDescription" validate:"omitempty,max=320"`
	MetaKeywords    *string    `json:"metaKeywords" validate:"omitempty,max=255"`
}

// Apply copies the set fields onto a.
func (p ArticlePatch) Apply(a *Article) {
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Subtitle != nil {
		a.Subtitle = p.Subtitle
	}
	if p.Slug != nil {
		a.Slug = *p.Slug
	}
	if p.Summary != nil {
		a.Summary = *p.Summary
	}
	if p.Content != nil {
		a.Content = *p.Content
	}
	if p.FeaturedImage != nil {
		a.FeaturedImage = *p.FeaturedImage
	}
	if p.ImageCaption != nil {
		a.ImageCaption = p.ImageCaption
	}
	if p.CategoryID != nil {
		a.CategoryID = *p.CategoryID
	}
	if p.Author != nil {
		a.Author = *p.Author
	}
	if p.Published != nil {
		a.Published = *p.Published
	}
	if p.PublishedAt != nil {
		a.PublishedAt = *p.PublishedAt
	}
	if p.Tags != nil {
		a.Tags = append([]string{}, (*p.Tags)...)
	}
	if p.MetaDescription != nil {
		a.MetaDescription = p.MetaDescription
	}
	if p.MetaKeywords != nil {
		a.MetaKeywords = p.MetaKeywords
	}
}

// ArticleFilter selects articles for the admin listing, drafts included.
// A nil Published matches both states.
type ArticleFilter struct {
	Published *bool
	Limit     int
	Offset    int
}

// ArticleSummary is the short form used by the dashboard.
type ArticleSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Published   bool      `json:"published"`
	Views       int64     `json:"views"`
	PublishedAt time.Time `json:"publishedAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToSummary returns the dashboard projection of a.
func (a *Article) ToSummary() ArticleSummary {
	return ArticleSummary{
		ID:          a.ID,
		Title:       a.Title,
		Slug:        a.Slug,
		Published:   a.Published,
		Views:       a.Views,
		PublishedAt: a.PublishedAt,
		CreatedAt:   a.CreatedAt,
	}
}

// ArticleCounts aggregates article totals for the dashboard.
type ArticleCounts struct {
	Total     int64
	Published int64
	Views     int64
}

// Stats is the dashboard payload.
type Stats struct {
	TotalArticles     int64            `json:"totalArticles"`
	PublishedArticles int64            `json:"publishedArticles"`
	TotalCategories   int64            `json:"totalCategories"`
	TotalViews        int64            `json:"totalViews"`
	RecentArticles    []ArticleSummary `json:"recentArticles"`
}
