package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/news-content-service/internal/database"
	"github.com/news-content-service/internal/models"
)

// articleColumns is the canonical column list; search_vector is deliberately
// absent, it belongs to the storage layer.
const articleColumns = `id, channel_id, slug, title, excerpt, content, author, author_id, category, tags,
	image_url, image_alt, status, featured, published_at, scheduled_for, view_count,
	meta_title, meta_description, meta_keywords, created_at, updated_at`

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db *database.DB
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanArticle(row rowScanner) (*models.Article, error) {
	var a models.Article
	var authorID sql.NullString
	var publishedAt, scheduledFor sql.NullTime

	err := row.Scan(
		&a.ID, &a.ChannelID, &a.Slug, &a.Title, &a.Excerpt, &a.Content, &a.Author,
		&authorID, &a.Category, pq.Array(&a.Tags), &a.ImageURL, &a.ImageAlt,
		&a.Status, &a.Featured, &publishedAt, &scheduledFor, &a.ViewCount,
		&a.MetaTitle, &a.MetaDescription, pq.Array(&a.MetaKeywords),
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if authorID.Valid {
		a.AuthorID = &authorID.String
	}
	if publishedAt.Valid {
		t := publishedAt.Time
		a.PublishedAt = &t
	}
	if scheduledFor.Valid {
		t := scheduledFor.Time
		a.ScheduledFor = &t
	}
	return &a, nil
}

func collectArticles(rows *sql.Rows) ([]*models.Article, error) {
	defer rows.Close()

	articles := []*models.Article{}
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

// Create inserts a new article. A duplicate (channel_id, slug) surfaces as
// models.ErrConflict via the unique constraint, not an application check.
func (r *articleRepo) Create(ctx context.Context, article *models.Article) error {
	ctx, cancel := r.db.OpContext(ctx)
	defer cancel()

	query := `
		INSERT INTO articles (` + articleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`
	_, err := r.db.ExecContext(ctx, query,
		article.ID, article.ChannelID, article.Slug, article.Title, article.Excerpt,
		article.Content, article.Author, article.AuthorID, article.Category,
		pq.Array(article.Tags), article.ImageURL, article.ImageAlt, article.Status,
		article.Featured, article.PublishedAt, article.ScheduledFor, article.ViewCount,
		article.MetaTitle, article.MetaDescription, pq.Array(article.MetaKeywords),
		article.CreatedAt, article.UpdatedAt,
	)
	return storeErr("create article", err)
}

// GetBySlug retrieves an article by its natural key
func (r *articleRepo) GetBySlug(ctx context.Context, channelID, slug string) (*models.Article, error) {
	ctx, cancel := r.db.OpContext(ctx)
	defer cancel()

	query := `SELECT ` + articleColumns + ` FROM articles WHERE channel_id = $1 AND slug = $2`

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, channelID, slug))
	if err != nil {
		return nil, storeErr("get article", err)
	}
	return article, nil
}

// ListByChannel retrieves all published articles for a channel, newest first
func (r *articleRepo) ListByChannel(ctx context.Context, channelID string) ([]*models.Article, error) {
	ctx, cancel := r.db.OpContext(ctx)
	defer cancel()

	query := `
		SELECT ` + articleColumns + ` FROM articles
		WHERE channel_id = $1 AND status = 'published'
		ORDER BY published_at DESC NULLS LAST
	`
	rows, err := r.db.QueryContext(ctx, query, channelID)
	if err != nil {
		return nil, storeErr("list articles", err)
	}

	articles, err := collectArticles(rows)
	if err != nil {
		return nil, storeErr("list articles", err)
	}
	return articles, nil
}

// ListFeatured retrieves published featured articles for a channel
func (r *articleRepo) ListFeatured(ctx context.Context, channelID string) ([]*models.Article, error) {
	ctx, cancel := r.db.OpContext(ctx)
	defer cancel()

	query := `
		SELECT ` + articleColumns + ` FROM articles
		WHERE channel_id = $1 AND status = 'published' AND featured
		ORDER BY published_at DESC NULLS LAST
	`
	rows, err := r.db.QueryContext(ctx, query, channelID)
	if err != nil {
		return nil, storeErr("list featured articles", err)
	}

	articles, err := collectArticles(rows)
	if err != nil {
		return nil, storeErr("list featured articles", err)
	}
	return articles, nil
}

// ListByCategory retrieves published articles for a channel and category
func (r *articleRepo) ListByCategory(ctx context.Context, channelID, category string) ([]*models.Article, error) {
	ctx, cancel := r.db.OpContext(ctx)
	defer cancel()

	query := `
		SELECT ` + articleColumns + ` FROM articles
		WHERE channel_id = $1 AND status = 'published' AND category = $2
		ORDER BY published_at DESC NULLS LAST
	`
	rows, err := r.db.QueryContext(ctx, query, channelID, category)
	if err != nil {
		return nil, storeErr("list articles by category", err)
	}

	articles, err := collectArticles(rows)
	if err != nil {
		return nil, storeErr("list articles by category", err)
	}
	return articles, nil
}

// Categories retrieves the distinct categories with published articles in a channel
func (r *articleRepo) Categories(ctx context.Context, channelID string) ([]string, error) {
	ctx, cancel := r.db.OpContext(ctx)
	defer cancel()

	query := `
		SELECT DISTINCT category FROM articles
		WHERE channel_id = $1 AND status = 'published' AND category <> ''
		ORDER BY category
	`
	rows, err := r.db.QueryContext(ctx, query, channelID)
	if err != nil {
		return nil, storeErr("list categories", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, storeErr("list categories", err)
		}
		categories = append(categories, category)
	}
	return categories, storeErr("list categories", rows.Err())
}

// ListAll retrieves articles across all channels, capped at limit, for global
// search and admin tooling
func (r *articleRepo) ListAll(ctx context.Context, limit int) ([]*models.Article, error) {
	ctx, cancel := r.db.OpContext(ctx)
	defer cancel()

	query := `
		SELECT ` + articleColumns + ` FROM articles
		ORDER BY updated_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, storeErr("list all articles", err)
	}

	articles, err := collectArticles(rows)
	if err != nil {
		return nil, storeErr("list all articles", err)
	}
	return articles, nil
}

// Update applies a partial update inside a single transaction:
//
//  1. lock the article row (FOR UPDATE) so concurrent editors of the same
//     article are serialized,
//  2. snapshot the pre-update state into article_versions with the next
//     version number computed in the same transaction,
//  3. apply the field update.
//
// Setting status to published for the first time stamps published_at; a
// republish keeps the original timestamp.
func (r *articleRepo) Update(ctx context.Context, channelID, slug string, upd *models.ArticleUpdate) (*models.Article, error) {
	ctx, cancel := r.db.OpContext(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, storeErr("update article", err)
	}
	defer tx.Rollback()

	current, err := scanArticle(tx.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE channel_id = $1 AND slug = $2 FOR UPDATE`,
		channelID, slug,
	))
	if err != nil {
		return nil, storeErr("update article", err)
	}

	if err := insertVersionTx(ctx, tx, current, upd.ChangeDescription); err != nil {
		return nil, storeErr("snapshot article version", err)
	}

	next := current.Apply(upd, time.Now().UTC())

	_, err = tx.ExecContext(ctx, `
		UPDATE articles SET
			title = $1, excerpt = $2, content = $3, author = $4, author_id = $5,
			category = $6, tags = $7, image_url = $8, image_alt = $9, status = $10,
			featured = $11, published_at = $12, scheduled_for = $13,
			meta_title = $14, meta_description = $15, meta_keywords = $16,
			updated_at = $17
		WHERE id = $18`,
		next.Title, next.Excerpt, next.Content, next.Author, next.AuthorID,
		next.Category, pq.Array(next.Tags), next.ImageURL, next.ImageAlt, next.Status,
		next.Featured, next.PublishedAt, next.ScheduledFor,
		next.MetaTitle, next.MetaDescription, pq.Array(next.MetaKeywords),
		next.UpdatedAt, next.ID,
	)
	if err != nil {
		return nil, storeErr("update article", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, storeErr("update article", err)
	}
	return next, nil
}

// Delete removes an article; version rows go with it via ON DELETE CASCADE.
// Deleting a nonexistent slug returns models.ErrNotFound.
func (r *articleRepo) Delete(ctx context.Context, channelID, slug string) error {
	ctx, cancel := r.db.OpContext(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM articles WHERE channel_id = $1 AND slug = $2`,
		channelID, slug,
	)
	if err != nil {
		return storeErr("delete article", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return storeErr("delete article", err)
	}
	if affected == 0 {
		return storeErr("delete article", sql.ErrNoRows)
	}
	return nil
}

// IncrementViewCount adds one to the article's view counter. The increment is
// additive in SQL, never read-modify-write, so concurrent readers cannot lose
// counts.
func (r *articleRepo) IncrementViewCount(ctx context.Context, id string) error {
	ctx, cancel := r.db.OpContext(ctx)
	defer cancel()

	_, err := r.db.ExecContext(ctx,
		`UPDATE articles SET view_count = view_count + 1 WHERE id = $1`,
		id,
	)
	return storeErr("increment view count", err)
}
