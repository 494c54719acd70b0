package services

import (
	"context"
	"log"
	"strings"
	"time"

	"maninews/internal/apperror"
	"maninews/internal/models"
	"maninews/internal/repositories"
	"maninews/pkg/slug"

	"github.com/microcosm-cc/bluemonday"
)

// Routing keys of the article events.
const (
	EventArticleCreated   = "article.created"
	EventArticleUpdated   = "article.updated"
	EventArticlePublished = "article.published"
	EventArticleDeleted   = "article.deleted"
)

// EventPublisher delivers domain events to a message broker.
type EventPublisher interface {
	Publish(routingKey string, payload interface{}) error
}

// ArticleEvent is the payload of every article event.
type ArticleEvent struct {
	Event      string    `json:"event"`
	ArticleID  string    `json:"articleId"`
	Slug       string    `json:"slug,omitempty"`
	Title      string    `json:"title,omitempty"`
	CategoryID string    `json:"categoryId,omitempty"`
	Published  bool      `json:"published"`
	OccurredAt time.Time `json:"occurredAt"`
}

// ArticleService handles business logic related to articles.
type ArticleService struct {
	repo      repositories.ArticleRepository
	publisher EventPublisher
	policy    *bluemonday.Policy
}

// NewArticleService creates a new ArticleService. publisher may be nil, in
// which case no events are sent.
func NewArticleService(repo repositories.ArticleRepository, publisher EventPublisher) *ArticleService {
	return &ArticleService{
		repo:      repo,
		publisher: publisher,
		policy:    bluemonday.UGCPolicy(),
	}
}

// GetArticles retrieves published articles, newest first.
func (s *ArticleService) GetArticles(ctx context.Context, limit, offset int) ([]models.Article, error) {
	return s.repo.GetArticles(ctx, limit, offset)
}

// GetArticlesByCategory retrieves published articles of one category.
func (s *ArticleService) GetArticlesByCategory(ctx context.Context, categoryID string, limit int) ([]models.Article, error) {
	return s.repo.GetArticlesByCategory(ctx, categoryID, limit)
}

// SearchArticles searches published articles. A blank query is invalid.
func (s *ArticleService) SearchArticles(ctx context.Context, query string, limit int) ([]models.Article, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperror.NewValidation("search query is required")
	}
	return s.repo.SearchArticles(ctx, query, limit)
}

// GetMostViewedArticles retrieves the published articles with most views.
func (s *ArticleService) GetMostViewedArticles(ctx context.Context, limit int) ([]models.Article, error) {
	return s.repo.GetMostViewedArticles(ctx, limit)
}

// ReadArticle fetches an article by slug and counts the view. Drafts are
// readable by anyone holding their slug.
func (s *ArticleService) ReadArticle(ctx context.Context, articleSlug string) (*models.Article, error) {
	article, err := s.repo.GetArticleBySlug(ctx, articleSlug)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateArticleViews(ctx, article.ID); err != nil {
		return nil, err
	}
	article.Views++
	return article, nil
}

// ListArticles lists drafts and published articles for the admin console.
func (s *ArticleService) ListArticles(ctx context.Context, filter models.ArticleFilter) ([]models.Article, error) {
	return s.repo.ListArticles(ctx, filter)
}

// GetArticleByID retrieves a single article by its ID.
func (s *ArticleService) GetArticleByID(ctx context.Context, id string) (*models.Article, error) {
	return s.repo.GetArticleByID(ctx, id)
}

// CreateArticle sanitizes and stores a new article.
func (s *ArticleService) CreateArticle(ctx context.Context, input models.ArticleInput) (*models.Article, error) {
	articleSlug := input.Slug
	if articleSlug == "" {
		articleSlug = slug.Make(input.Title)
	}
	if articleSlug == "" {
		return nil, apperror.NewValidation("a slug cannot be derived from the article title")
	}

	content, err := s.sanitize(input.Content)
	if err != nil {
		return nil, err
	}

	article := &models.Article{
		Title:           input.Title,
		Subtitle:        input.Subtitle,
		Slug:            articleSlug,
		Summary:         input.Summary,
		Content:         content,
		FeaturedImage:   input.FeaturedImage,
		ImageCaption:    input.ImageCaption,
		CategoryID:      input.CategoryID,
		Author:          input.Author,
		Published:       input.Published,
		Tags:            input.Tags,
		MetaDescription: input.MetaDescription,
		MetaKeywords:    input.MetaKeywords,
	}
	if input.PublishedAt != nil {
		article.PublishedAt = *input.PublishedAt
	}

	if err := s.repo.CreateArticle(ctx, article); err != nil {
		return nil, err
	}

	log.Printf("Article %s created (published=%t)", article.Slug, article.Published)
	s.publish(EventArticleCreated, article)
	if article.Published {
		s.publish(EventArticlePublished, article)
	}
	return article, nil
}

// UpdateArticle applies a partial update. Turning a draft into a published
// article also emits the published event.
func (s *ArticleService) UpdateArticle(ctx context.Context, id string, patch models.ArticlePatch) (*models.Article, error) {
	if patch.Content != nil {
		content, err := s.sanitize(*patch.Content)
		if err != nil {
			return nil, err
		}
		patch.Content = &content
	}

	wasPublished := false
	if patch.Published != nil && *patch.Published {
		current, err := s.repo.GetArticleByID(ctx, id)
		if err != nil {
			return nil, err
		}
		wasPublished = current.Published
	}

	article, err := s.repo.UpdateArticle(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	log.Printf("Article %s updated", article.Slug)
	s.publish(EventArticleUpdated, article)
	if article.Published && !wasPublished && patch.Published != nil {
		s.publish(EventArticlePublished, article)
	}
	return article, nil
}

// DeleteArticle deletes an article. Deleting a missing article succeeds.
func (s *ArticleService) DeleteArticle(ctx context.Context, id string) error {
	if err := s.repo.DeleteArticle(ctx, id); err != nil {
		return err
	}
	log.Printf("Article %s deleted", id)
	s.publish(EventArticleDeleted, &models.Article{ID: id})
	return nil
}

func (s *ArticleService) sanitize(content string) (string, error) {
	clean := strings.TrimSpace(s.policy.Sanitize(content))
	if clean == "" {
		return "", apperror.NewValidation("content is empty after removing unsafe markup")
	}
	return clean, nil
}

// publish sends an article event. Broker failures are logged and never
// fail the operation that produced the event.
func (s *ArticleService) publish(event string, article *models.Article) {
	if s.publisher == nil {
		return
	}
	payload := ArticleEvent{
		Event:      event,
		ArticleID:  article.ID,
		Slug:       article.Slug,
		Title:      article.Title,
		CategoryID: article.CategoryID,
		Published:  article.Published,
		OccurredAt: time.Now(),
	}
	if err := s.publisher.Publish(event, payload); err != nil {
		log.Printf("Failed to publish %s for article %s: %v", event, article.ID, err)
	}
}
