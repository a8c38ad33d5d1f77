package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/news-content-service/internal/config"
	"github.com/news-content-service/internal/models"
	"github.com/news-content-service/internal/repository"
	"github.com/rs/zerolog"
)

// contentService is the concrete implementation of ContentService
type contentService struct {
	articles repository.ArticleRepository
	versions repository.VersionRepository
	markdown MarkdownStore

	exportEnabled   bool
	fallbackEnabled bool
	maxListResults  int

	log zerolog.Logger
}

func newContentService(repos *repository.Repositories, md MarkdownStore, cfg *config.Config, log zerolog.Logger) *contentService {
	return &contentService{
		articles:        repos.Article,
		versions:        repos.Version,
		markdown:        md,
		exportEnabled:   cfg.Content.ExportEnabled,
		fallbackEnabled: cfg.Content.FallbackEnabled,
		maxListResults:  cfg.Content.MaxListResults,
		log:             log.With().Str("component", "content_service").Logger(),
	}
}

// canFallback reports whether a read that failed with err should retry
// against the markdown store. NotFound is an answer, not an availability
// problem, so only typed store failures trigger the fallback.
func (s *contentService) canFallback(err error) bool {
	return s.fallbackEnabled && errors.Is(err, models.ErrUnavailable)
}

// ArticlesByChannel returns all published articles for a channel, newest
// publish date first. When the relational store cannot answer, the markdown
// shadow store answers instead; the caller never sees the failure.
func (s *contentService) ArticlesByChannel(ctx context.Context, channelID string) ([]*models.Article, error) {
	articles, err := s.articles.ListByChannel(ctx, channelID)
	if err == nil {
		return articles, nil
	}
	if !s.canFallback(err) {
		return nil, err
	}

	s.log.Warn().Err(err).
		Str("channel", channelID).
		Msg("Article store unavailable, serving markdown fallback")
	return s.markdown.List(ctx, channelID)
}

// Article resolves a single article. A relational hit increments the view
// counter; fallback reads never mutate anything. NotFound is only returned
// once neither backend has the document.
func (s *contentService) Article(ctx context.Context, channelID, slug string) (*models.Article, error) {
	article, err := s.articles.GetBySlug(ctx, channelID, slug)
	if err == nil {
		if incErr := s.articles.IncrementViewCount(ctx, article.ID); incErr != nil {
			s.log.Warn().Err(incErr).
				Str("channel", channelID).
				Str("slug", slug).
				Msg("View count increment failed")
		} else {
			article.ViewCount++
		}
		return article, nil
	}

	if errors.Is(err, models.ErrNotFound) {
		// The relational store answered; the markdown store may still hold a
		// document the database never had (fallback-only representation).
		if md, mdErr := s.markdown.Read(ctx, channelID, slug); mdErr == nil {
			return md, nil
		}
		return nil, err
	}
	if !s.canFallback(err) {
		return nil, err
	}

	s.log.Warn().Err(err).
		Str("channel", channelID).
		Str("slug", slug).
		Msg("Article store unavailable, serving markdown fallback")
	return s.markdown.Read(ctx, channelID, slug)
}

// FeaturedArticles is a secondary view: relational only, degrades to an empty
// result on failure.
func (s *contentService) FeaturedArticles(ctx context.Context, channelID string) ([]*models.Article, error) {
	articles, err := s.articles.ListFeatured(ctx, channelID)
	if err != nil {
		s.log.Error().Err(err).Str("channel", channelID).Msg("Featured listing failed")
		return []*models.Article{}, nil
	}
	return articles, nil
}

// ArticlesByCategory is a secondary view: relational only, degrades to an
// empty result on failure.
func (s *contentService) ArticlesByCategory(ctx context.Context, channelID, category string) ([]*models.Article, error) {
	articles, err := s.articles.ListByCategory(ctx, channelID, category)
	if err != nil {
		s.log.Error().Err(err).
			Str("channel", channelID).
			Str("category", category).
			Msg("Category listing failed")
		return []*models.Article{}, nil
	}
	return articles, nil
}

// Categories is a secondary view: relational only, degrades to an empty
// result on failure.
func (s *contentService) Categories(ctx context.Context, channelID string) ([]string, error) {
	categories, err := s.articles.Categories(ctx, channelID)
	if err != nil {
		s.log.Error().Err(err).Str("channel", channelID).Msg("Category listing failed")
		return []string{}, nil
	}
	return categories, nil
}

// AllArticles is the cross-channel listing used by global search and admin
// tooling, capped to bound response size.
func (s *contentService) AllArticles(ctx context.Context) ([]*models.Article, error) {
	return s.articles.ListAll(ctx, s.maxListResults)
}

// CreateArticle inserts a new article and exports it to the markdown shadow
// store. A duplicate (channel, slug) surfaces as models.ErrConflict; a failed
// export is logged and never fails the create.
func (s *contentService) CreateArticle(ctx context.Context, input *models.ArticleInput) (*models.Article, error) {
	now := time.Now().UTC()

	article := &models.Article{
		ID:              uuid.NewString(),
		ChannelID:       input.ChannelID,
		Slug:            input.Slug,
		Title:           input.Title,
		Excerpt:         input.Excerpt,
		Content:         input.Content,
		Author:          input.Author,
		AuthorID:        input.AuthorID,
		Category:        input.Category,
		Tags:            input.Tags,
		ImageURL:        input.ImageURL,
		ImageAlt:        input.ImageAlt,
		Status:          input.Status,
		Featured:        input.Featured,
		ScheduledFor:    input.ScheduledFor,
		MetaTitle:       input.MetaTitle,
		MetaDescription: input.MetaDescription,
		MetaKeywords:    input.MetaKeywords,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if article.Status == "" {
		article.Status = models.StatusDraft
	}
	if article.Tags == nil {
		article.Tags = []string{}
	}
	if article.MetaKeywords == nil {
		article.MetaKeywords = []string{}
	}
	if article.Status == models.StatusPublished {
		published := now
		article.PublishedAt = &published
	}

	if err := s.articles.Create(ctx, article); err != nil {
		return nil, err
	}

	s.export(ctx, article)
	return article, nil
}

// UpdateArticle applies a partial update. The store snapshots the pre-update
// state into the version log inside the same transaction, then the new state
// is exported to markdown best-effort.
func (s *contentService) UpdateArticle(ctx context.Context, channelID, slug string, upd *models.ArticleUpdate) (*models.Article, error) {
	article, err := s.articles.Update(ctx, channelID, slug, upd)
	if err != nil {
		return nil, err
	}

	s.export(ctx, article)
	return article, nil
}

// DeleteArticle removes an article, its version rows (schema cascade) and its
// shadow file.
func (s *contentService) DeleteArticle(ctx context.Context, channelID, slug string) error {
	if err := s.articles.Delete(ctx, channelID, slug); err != nil {
		return err
	}

	if err := s.markdown.Delete(ctx, channelID, slug); err != nil {
		s.log.Warn().Err(err).
			Str("channel", channelID).
			Str("slug", slug).
			Msg("Markdown shadow delete failed")
	}
	return nil
}

// Versions returns the immutable version log for an article, oldest first,
// plus the total revision count. For a healthy log the count equals the list
// length and the latest version number.
func (s *contentService) Versions(ctx context.Context, channelID, slug string) ([]*models.ArticleVersion, int, error) {
	article, err := s.articles.GetBySlug(ctx, channelID, slug)
	if err != nil {
		return nil, 0, err
	}

	versions, err := s.versions.ListByArticle(ctx, article.ID)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.versions.CountByArticle(ctx, article.ID)
	if err != nil {
		return nil, 0, err
	}
	return versions, total, nil
}

// export is the best-effort write-behind backup: the primary write already
// committed, so a failure here is logged and swallowed, never surfaced.
func (s *contentService) export(ctx context.Context, article *models.Article) {
	if !s.exportEnabled {
		return
	}

	if err := s.markdown.Write(ctx, article); err != nil {
		s.log.Error().Err(err).
			Str("channel", article.ChannelID).
			Str("slug", article.Slug).
			Msg("Markdown export failed")
	}
}
