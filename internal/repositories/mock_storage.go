package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"maninews/internal/apperror"
	"maninews/internal/models"

	"github.com/google/uuid"
	"golang.org/x/text/language"
)

// MockStorage is an in-memory implementation of Storage used by tests and
// local runs without a database.
type MockStorage struct {
	*BcryptHasher
	locale language.Tag

	mu         sync.RWMutex
	users      map[string]models.User
	categories map[string]models.Category
	articles   map[string]models.Article
	siteConfig *models.SiteConfig
}

// NewMockStorage creates a new, empty MockStorage.
func NewMockStorage(opts Options) *MockStorage {
	return &MockStorage{
		BcryptHasher: NewBcryptHasher(opts.PasswordCost),
		locale:       opts.Locale,
		users:        make(map[string]models.User),
		categories:   make(map[string]models.Category),
		articles:     make(map[string]models.Article),
	}
}

var _ Storage = (*MockStorage)(nil)

// --- Users ---

func (s *MockStorage) GetUser(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, apperror.NewNotFound("user not found")
	}
	return &user, nil
}

func (s *MockStorage) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	return s.findUser(func(u models.User) bool { return u.Username == username })
}

func (s *MockStorage) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return s.findUser(func(u models.User) bool { return u.Email == email })
}

func (s *MockStorage) findUser(match func(models.User) bool) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if match(u) {
			user := u
			return &user, nil
		}
	}
	return nil, apperror.NewNotFound("user not found")
}

func (s *MockStorage) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.SliceStable(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}

func (s *MockStorage) HasAdmin(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Role == models.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (s *MockStorage) CreateUser(_ context.Context, user *models.User) error {
	hashed, err := s.HashPassword(user.Password)
	if err != nil {
		return apperror.NewFault("create user", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return apperror.NewConflict("username already exists", nil)
		}
		if u.Email == user.Email {
			return apperror.NewConflict("email already exists", nil)
		}
	}

	row := *user
	if row.ID == "" {
		row.ID = uuid.New().String()
	}
	if row.Role == "" {
		row.Role = models.RoleUser
	}
	row.Password = hashed
	row.CreatedAt = time.Now()
	row.UpdatedAt = row.CreatedAt
	s.users[row.ID] = row

	*user = row
	return nil
}

func (s *MockStorage) UpdateUser(_ context.Context, id string, patch models.UserPatch) (*models.User, error) {
	if patch.Password != nil {
		hashed, err := s.HashPassword(*patch.Password)
		if err != nil {
			return nil, apperror.NewFault("update user", err)
		}
		patch.Password = &hashed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, apperror.NewNotFound("user not found")
	}
	if patch.Email != nil {
		for _, u := range s.users {
			if u.ID != id && u.Email == *patch.Email {
				return nil, apperror.NewConflict("email already exists", nil)
			}
		}
	}
	patch.Apply(&user)
	user.UpdatedAt = time.Now()
	s.users[id] = user
	return &user, nil
}

func (s *MockStorage) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, id)
	return nil
}

// --- Categories ---

func (s *MockStorage) GetCategories(_ context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make([]models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		categories = append(categories, c)
	}
	sort.SliceStable(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	sortCategoriesByName(categories, s.locale)
	return categories, nil
}

func (s *MockStorage) GetCategoryByID(_ context.Context, id string) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	category, ok := s.categories[id]
	if !ok {
		return nil, apperror.NewNotFound("category not found")
	}
	return &category, nil
}

func (s *MockStorage) GetCategoryBySlug(_ context.Context, slug string) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.categories {
		if c.Slug == slug {
			category := c
			return &category, nil
		}
	}
	return nil, apperror.NewNotFound("category not found")
}

func (s *MockStorage) CreateCategory(_ context.Context, category *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkCategoryUnique("", category.Name, category.Slug); err != nil {
		return err
	}

	row := *category
	if row.ID == "" {
		row.ID = uuid.New().String()
	}
	if row.Color == "" {
		row.Color = models.DefaultCategoryColor
	}
	s.categories[row.ID] = row

	*category = row
	return nil
}

func (s *MockStorage) UpdateCategory(_ context.Context, id string, patch models.CategoryPatch) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	category, ok := s.categories[id]
	if !ok {
		return nil, apperror.NewNotFound("category not found")
	}
	patch.Apply(&category)
	if err := s.checkCategoryUnique(id, category.Name, category.Slug); err != nil {
		return nil, err
	}
	s.categories[id] = category
	return &category, nil
}

// checkCategoryUnique must be called with s.mu held.
func (s *MockStorage) checkCategoryUnique(exceptID, name, slug string) error {
	for _, c := range s.categories {
		if c.ID == exceptID {
			continue
		}
		if c.Name == name {
			return apperror.NewConflict("category name already exists", nil)
		}
		if c.Slug == slug {
			return apperror.NewConflict("category slug already exists", nil)
		}
	}
	return nil
}

func (s *MockStorage) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.articles {
		if a.CategoryID == id {
			return errCategoryInUse
		}
	}
	delete(s.categories, id)
	return nil
}

func (s *MockStorage) CountCategories(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.categories)), nil
}

// --- Articles ---

// withCategory returns a copy of a that shares no slices with the stored
// row. s.mu must be held.
func (s *MockStorage) withCategory(a models.Article) models.Article {
	a.Tags = append([]string{}, a.Tags...)
	if c, ok := s.categories[a.CategoryID]; ok {
		category := c
		a.Category = &category
	}
	return a
}

// selectArticles filters, orders and pages the stored articles.
func (s *MockStorage) selectArticles(match func(models.Article) bool, less func(a, b models.Article) bool, limit, offset int) []models.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()

	selected := []models.Article{}
	for _, a := range s.articles {
		if match(a) {
			selected = append(selected, s.withCategory(a))
		}
	}
	sort.SliceStable(selected, func(i, j int) bool { return less(selected[i], selected[j]) })

	if offset >= len(selected) {
		return []models.Article{}
	}
	selected = selected[offset:]
	if limit < len(selected) {
		selected = selected[:limit]
	}
	return selected
}

func newestArticleFirst(a, b models.Article) bool {
	if !a.PublishedAt.Equal(b.PublishedAt) {
		return a.PublishedAt.After(b.PublishedAt)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID < b.ID
}

func mostViewedArticleFirst(a, b models.Article) bool {
	if a.Views != b.Views {
		return a.Views > b.Views
	}
	if !a.PublishedAt.Equal(b.PublishedAt) {
		return a.PublishedAt.After(b.PublishedAt)
	}
	return a.ID < b.ID
}

func recentlyCreatedFirst(a, b models.Article) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID < b.ID
}

func isPublished(a models.Article) bool {
	return a.Published
}

func (s *MockStorage) GetArticles(_ context.Context, limit, offset int) ([]models.Article, error) {
	return s.selectArticles(isPublished, newestArticleFirst,
		normalizeLimit(limit, DefaultArticleLimit), normalizeOffset(offset)), nil
}

func (s *MockStorage) ListArticles(_ context.Context, filter models.ArticleFilter) ([]models.Article, error) {
	match := func(a models.Article) bool {
		return filter.Published == nil || a.Published == *filter.Published
	}
	return s.selectArticles(match, recentlyCreatedFirst,
		normalizeLimit(filter.Limit, DefaultArticleLimit), normalizeOffset(filter.Offset)), nil
}

func (s *MockStorage) GetArticleByID(_ context.Context, id string) (*models.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.articles[id]
	if !ok {
		return nil, apperror.NewNotFound("article not found")
	}
	article := s.withCategory(a)
	return &article, nil
}

func (s *MockStorage) GetArticleBySlug(_ context.Context, slug string) (*models.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.articles {
		if a.Slug == slug {
			article := s.withCategory(a)
			return &article, nil
		}
	}
	return nil, apperror.NewNotFound("article not found")
}

func (s *MockStorage) GetArticlesByCategory(_ context.Context, categoryID string, limit int) ([]models.Article, error) {
	match := func(a models.Article) bool {
		return a.Published && a.CategoryID == categoryID
	}
	return s.selectArticles(match, newestArticleFirst, normalizeLimit(limit, DefaultCategoryLimit), 0), nil
}

func (s *MockStorage) SearchArticles(_ context.Context, query string, limit int) ([]models.Article, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []models.Article{}, nil
	}
	match := func(a models.Article) bool {
		return a.Published && (strings.Contains(strings.ToLower(a.Title), query) ||
			strings.Contains(strings.ToLower(a.Summary), query) ||
			strings.Contains(strings.ToLower(a.Content), query))
	}
	return s.selectArticles(match, newestArticleFirst, normalizeLimit(limit, DefaultSearchLimit), 0), nil
}

func (s *MockStorage) CreateArticle(_ context.Context, article *models.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[article.CategoryID]; !ok {
		return apperror.NewConstraint("category does not exist", nil)
	}
	for _, a := range s.articles {
		if a.Slug == article.Slug {
			return apperror.NewConflict("article slug already exists", nil)
		}
	}

	now := time.Now()
	row := *article
	row.Category = nil
	if row.ID == "" {
		row.ID = uuid.New().String()
	}
	row.Views = 0
	row.CreatedAt = now
	row.UpdatedAt = now
	if row.PublishedAt.IsZero() {
		row.PublishedAt = now
	}
	row.Tags = append([]string{}, row.Tags...)
	s.articles[row.ID] = row

	*article = row
	return nil
}

func (s *MockStorage) UpdateArticle(_ context.Context, id string, patch models.ArticlePatch) (*models.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	article, ok := s.articles[id]
	if !ok {
		return nil, apperror.NewNotFound("article not found")
	}
	if patch.Slug != nil {
		for _, a := range s.articles {
			if a.ID != id && a.Slug == *patch.Slug {
				return nil, apperror.NewConflict("article slug already exists", nil)
			}
		}
	}
	if patch.CategoryID != nil {
		if _, ok := s.categories[*patch.CategoryID]; !ok {
			return nil, apperror.NewConstraint("category does not exist", nil)
		}
	}

	patch.Apply(&article)
	article.UpdatedAt = time.Now()
	s.articles[id] = article

	updated := s.withCategory(article)
	return &updated, nil
}

func (s *MockStorage) DeleteArticle(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.articles, id)
	return nil
}

func (s *MockStorage) UpdateArticleViews(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if article, ok := s.articles[id]; ok {
		article.Views++
		s.articles[id] = article
	}
	return nil
}

func (s *MockStorage) GetMostViewedArticles(_ context.Context, limit int) ([]models.Article, error) {
	return s.selectArticles(isPublished, mostViewedArticleFirst, normalizeLimit(limit, DefaultTrendingLimit), 0), nil
}

func (s *MockStorage) CountArticles(_ context.Context) (models.ArticleCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var counts models.ArticleCounts
	for _, a := range s.articles {
		counts.Total++
		if a.Published {
			counts.Published++
		}
		counts.Views += a.Views
	}
	return counts, nil
}

// --- Site configuration ---

func (s *MockStorage) GetSiteConfig(_ context.Context) (*models.SiteConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.siteConfig == nil {
		return nil, apperror.NewNotFound("site configuration not found")
	}
	cfg := *s.siteConfig
	return &cfg, nil
}

func (s *MockStorage) UpdateSiteConfig(_ context.Context, patch models.SiteConfigPatch) (*models.SiteConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.siteConfig == nil {
		cfg := models.DefaultSiteConfig()
		cfg.UpdatedAt = time.Now()
		s.siteConfig = &cfg
	}
	if len(patch.Columns()) > 0 {
		patch.Apply(s.siteConfig)
		s.siteConfig.UpdatedAt = time.Now()
	}
	cfg := *s.siteConfig
	return &cfg, nil
}
