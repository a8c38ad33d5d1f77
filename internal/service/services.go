package service

import (
	"context"

	"github.com/news-content-service/internal/config"
	"github.com/news-content-service/internal/models"
	"github.com/news-content-service/internal/repository"
	"github.com/rs/zerolog"
)

// ContentService is the single entry point other subsystems use to resolve
// articles. It hides which backend served a given call.
type ContentService interface {
	ArticlesByChannel(ctx context.Context, channelID string) ([]*models.Article, error)
	Article(ctx context.Context, channelID, slug string) (*models.Article, error)
	FeaturedArticles(ctx context.Context, channelID string) ([]*models.Article, error)
	ArticlesByCategory(ctx context.Context, channelID, category string) ([]*models.Article, error)
	Categories(ctx context.Context, channelID string) ([]string, error)
	AllArticles(ctx context.Context) ([]*models.Article, error)

	CreateArticle(ctx context.Context, input *models.ArticleInput) (*models.Article, error)
	UpdateArticle(ctx context.Context, channelID, slug string, upd *models.ArticleUpdate) (*models.Article, error)
	DeleteArticle(ctx context.Context, channelID, slug string) error
	Versions(ctx context.Context, channelID, slug string) ([]*models.ArticleVersion, int, error)
}

// SearchService turns free-text queries into ranked results and runs faceted
// queries.
type SearchService interface {
	Search(ctx context.Context, channelID, query string) ([]*models.Article, error)
	SearchAdvanced(ctx context.Context, filter *models.SearchFilter, page, perPage int) (*models.SearchResult, error)
}

// MarkdownStore is what the façade needs from the flat-file shadow store:
// fallback reads and best-effort export writes.
type MarkdownStore interface {
	Read(ctx context.Context, channelID, slug string) (*models.Article, error)
	Write(ctx context.Context, article *models.Article) error
	Delete(ctx context.Context, channelID, slug string) error
	List(ctx context.Context, channelID string) ([]*models.Article, error)
}

// Services holds all service interfaces
type Services struct {
	Content ContentService
	Search  SearchService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, md MarkdownStore, cfg *config.Config, log zerolog.Logger) *Services {
	return &Services{
		Content: newContentService(repos, md, cfg, log),
		Search:  newSearchService(repos.Search, log),
	}
}
