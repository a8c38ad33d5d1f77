package repository

import (
	"context"

	"github.com/news-content-service/internal/database"
	"github.com/news-content-service/internal/models"
)

// ArticleRepository defines the interface for article data operations against
// the relational store. All errors are mapped onto the shared taxonomy:
// models.ErrNotFound, models.ErrConflict, models.ErrUnavailable.
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	GetBySlug(ctx context.Context, channelID, slug string) (*models.Article, error)
	ListByChannel(ctx context.Context, channelID string) ([]*models.Article, error)
	ListFeatured(ctx context.Context, channelID string) ([]*models.Article, error)
	ListByCategory(ctx context.Context, channelID, category string) ([]*models.Article, error)
	Categories(ctx context.Context, channelID string) ([]string, error)
	ListAll(ctx context.Context, limit int) ([]*models.Article, error)
	Update(ctx context.Context, channelID, slug string, upd *models.ArticleUpdate) (*models.Article, error)
	Delete(ctx context.Context, channelID, slug string) error
	IncrementViewCount(ctx context.Context, id string) error
}

// VersionRepository defines the interface for reading the immutable version
// log. Writing versions happens inside the article update transaction and is
// not exposed separately.
type VersionRepository interface {
	ListByArticle(ctx context.Context, articleID string) ([]*models.ArticleVersion, error)
	CountByArticle(ctx context.Context, articleID string) (int, error)
}

// SearchRepository defines the interface for full-text and faceted queries.
type SearchRepository interface {
	SearchRanked(ctx context.Context, channelID, tsQuery string) ([]*models.Article, error)
	SearchSubstring(ctx context.Context, channelID, rawQuery string) ([]*models.Article, error)
	SearchAdvanced(ctx context.Context, filter *models.SearchFilter, page, perPage int) ([]*models.Article, int, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Article ArticleRepository
	Version VersionRepository
	Search  SearchRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Article: NewArticleRepo(db),
		Version: NewVersionRepo(db),
		Search:  NewSearchRepo(db),
	}
}
