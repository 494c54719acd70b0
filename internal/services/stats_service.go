package services

import (
	"context"

	"maninews/internal/models"
	"maninews/internal/repositories"
)

// RecentArticlesLimit is the number of articles listed on the dashboard.
const RecentArticlesLimit = 5

// StatsStore is the slice of the storage engine the dashboard reads.
type StatsStore interface {
	CountArticles(ctx context.Context) (models.ArticleCounts, error)
	CountCategories(ctx context.Context) (int64, error)
	ListArticles(ctx context.Context, filter models.ArticleFilter) ([]models.Article, error)
}

var _ StatsStore = (repositories.Storage)(nil)

// StatsService aggregates the dashboard figures.
type StatsService struct {
	store StatsStore
}

// NewStatsService creates a new StatsService.
func NewStatsService(store StatsStore) *StatsService {
	return &StatsService{store: store}
}

// GetStats returns article, category and view totals plus the most
// recently created articles, drafts included.
func (s *StatsService) GetStats(ctx context.Context) (*models.Stats, error) {
	counts, err := s.store.CountArticles(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.store.CountCategories(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.store.ListArticles(ctx, models.ArticleFilter{Limit: RecentArticlesLimit})
	if err != nil {
		return nil, err
	}

	stats := &models.Stats{
		TotalArticles:     counts.Total,
		PublishedArticles: counts.Published,
		TotalCategories:   categories,
		TotalViews:        counts.Views,
		RecentArticles:    make([]models.ArticleSummary, 0, len(recent)),
	}
	for i := range recent {
		stats.RecentArticles = append(stats.RecentArticles, recent[i].ToSummary())
	}
	return stats, nil
}
