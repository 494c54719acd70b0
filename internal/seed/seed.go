// Package seed prepares a fresh database: site configuration, default
// categories, the first admin account and sample articles. Every step
// checks for existing data first, so running it on each start is safe.
package seed

import (
	"context"
	"fmt"
	"log"
	"time"

	"maninews/internal/apperror"
	"maninews/internal/models"
	"maninews/internal/repositories"
	"maninews/internal/services"
)

// Options selects the optional bootstrap steps.
type Options struct {
	SampleData    bool
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

// DefaultCategories are created when the store has no category.
var DefaultCategories = []models.Category{
	{Name: "Política", Slug: "politica", Color: "#e50914"},
	{Name: "Economia", Slug: "economia", Color: "#3b82f6"},
	{Name: "Esportes", Slug: "esportes", Color: "#10b981"},
	{Name: "Tecnologia", Slug: "tecnologia", Color: "#8b5cf6"},
	{Name: "Ambiente", Slug: "ambiente", Color: "#059669"},
	{Name: "Educação", Slug: "educacao", Color: "#f59e0b"},
	{Name: "Saúde", Slug: "saude", Color: "#ef4444"},
	{Name: "Cultura", Slug: "cultura", Color: "#f97316"},
}

// Run executes the bootstrap against store.
func Run(ctx context.Context, store repositories.Storage, authService *services.AuthService, opts Options) error {
	if err := seedSiteConfig(ctx, store); err != nil {
		return fmt.Errorf("seed site config: %w", err)
	}
	if err := seedCategories(ctx, store); err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	if err := seedAdmin(ctx, store, authService, opts); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if opts.SampleData {
		if err := seedArticles(ctx, store); err != nil {
			return fmt.Errorf("seed articles: %w", err)
		}
	}
	log.Println("Database bootstrap completed")
	return nil
}

func seedSiteConfig(ctx context.Context, store repositories.Storage) error {
	_, err := store.GetSiteConfig(ctx)
	if err == nil || !apperror.IsNotFound(err) {
		return err
	}

	description := "Portal de notícias em tempo real"
	keywords := "notícias, tempo real, brasil, política, economia"
	if _, err := store.UpdateSiteConfig(ctx, models.SiteConfigPatch{
		SiteDescription: &description,
		SiteKeywords:    &keywords,
	}); err != nil {
		return err
	}
	log.Println("Default site configuration created")
	return nil
}

func seedCategories(ctx context.Context, store repositories.Storage) error {
	count, err := store.CountCategories(ctx)
	if err != nil || count > 0 {
		return err
	}

	for _, c := range DefaultCategories {
		category := c
		if err := store.CreateCategory(ctx, &category); err != nil {
			return err
		}
		log.Printf("Category created: %s", category.Name)
	}
	return nil
}

// provisionsAdmin reports whether an admin account is configured.
func (o Options) provisionsAdmin() bool {
	return o.AdminUsername != "" && o.AdminEmail != "" && o.AdminPassword != ""
}

func seedAdmin(ctx context.Context, store repositories.Storage, authService *services.AuthService, opts Options) error {
	if !opts.provisionsAdmin() {
		hasAdmin, err := store.HasAdmin(ctx)
		if err != nil {
			return err
		}
		if !hasAdmin {
			log.Println("No admin user found. The first account registered at /api/admin/register becomes admin")
		}
		return nil
	}

	created, err := authService.ProvisionAdmin(ctx, opts.AdminUsername, opts.AdminEmail, opts.AdminPassword)
	if err != nil {
		return err
	}
	if created {
		log.Printf("Admin user %s provisioned", opts.AdminUsername)
	}
	return nil
}

func seedArticles(ctx context.Context, store repositories.Storage) error {
	counts, err := store.CountArticles(ctx)
	if err != nil || counts.Total > 0 {
		return err
	}

	categories, err := store.GetCategories(ctx)
	if err != nil || len(categories) == 0 {
		return err
	}
	firstCategory := categories[0].ID
	techCategory := firstCategory
	if tech, err := store.GetCategoryBySlug(ctx, "tecnologia"); err == nil {
		techCategory = tech.ID
	}

	now := time.Now()
	for _, article := range sampleArticles(firstCategory, techCategory, now) {
		article := article
		if err := store.CreateArticle(ctx, &article); err != nil {
			return err
		}
		log.Printf("Sample article created: %s", article.Title)
	}
	return nil
}

func sampleArticles(firstCategory, techCategory string, now time.Time) []models.Article {
	welcomeCaption := "Bem-vindos ao Mani News - Sua fonte de informações"
	welcomeDescription := "Conheça o Mani News, sua nova plataforma de notícias moderna e responsiva"
	welcomeKeywords := "mani news, lançamento, notícias, plataforma"
	guideCaption := "Interface moderna e intuitiva do Mani News"
	guideDescription := "Aprenda a usar todas as funcionalidades do Mani News"
	guideKeywords := "tutorial, navegação, funcionalidades, mani news"

	return []models.Article{
		{
			Title:           "Bem-vindos ao Mani News",
			Slug:            "bem-vindos-ao-mani-news",
			Summary:         "O Mani News está no ar! Conheça nossa plataforma de notícias moderna e responsiva.",
			Content:         "<p>Seja bem-vindo ao <strong>Mani News</strong>, sua nova fonte de informações confiáveis e atualizadas!</p><p>Nossa plataforma foi desenvolvida para oferecer a melhor experiência em leitura de notícias, com design moderno e recursos avançados.</p><h2>O que você encontrará aqui:</h2><ul><li>Notícias em tempo real</li><li>Categorias organizadas</li><li>Interface responsiva</li><li>Recursos de compartilhamento</li></ul><p>Explore nosso conteúdo e mantenha-se sempre informado!</p>",
			FeaturedImage:   "https://images.unsplash.com/photo-1504711434969-e33886168f5c?ixlib=rb-4.0.3&auto=format&fit=crop&w=1200&h=600",
			ImageCaption:    &welcomeCaption,
			CategoryID:      firstCategory,
			Author:          "Equipe Mani News",
			Published:       true,
			PublishedAt:     now,
			Tags:            []string{"bem-vindos", "lancamento", "plataforma"},
			MetaDescription: &welcomeDescription,
			MetaKeywords:    &welcomeKeywords,
		},
		{
			Title:           "Como navegar pelo Mani News",
			Slug:            "como-navegar-pelo-mani-news",
			Summary:         "Aprenda a usar todas as funcionalidades da nossa plataforma de notícias.",
			Content:         "<p>O <strong>Mani News</strong> foi projetado para ser intuitivo e fácil de usar. Aqui está um guia rápido:</p><h2>Navegação Principal</h2><p>Use o menu superior para acessar diferentes seções:</p><ul><li><strong>Início:</strong> Últimas notícias e destaques</li><li><strong>Categorias:</strong> Notícias organizadas por tema</li><li><strong>Trending:</strong> Artigos mais populares</li><li><strong>Busca:</strong> Encontre notícias específicas</li></ul>",
			FeaturedImage:   "https://images.unsplash.com/photo-1516321318423-f06f85e504b3?ixlib=rb-4.0.3&auto=format&fit=crop&w=1200&h=600",
			ImageCaption:    &guideCaption,
			CategoryID:      techCategory,
			Author:          "Equipe Mani News",
			Published:       true,
			PublishedAt:     now.Add(-time.Hour),
			Tags:            []string{"tutorial", "navegacao", "funcionalidades"},
			MetaDescription: &guideDescription,
			MetaKeywords:    &guideKeywords,
		},
	}
}
