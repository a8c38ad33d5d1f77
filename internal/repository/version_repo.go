package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"github.com/news-content-service/internal/database"
	"github.com/news-content-service/internal/models"
)

// versionRepo is the concrete implementation of VersionRepository
type versionRepo struct {
	db *database.DB
}

// NewVersionRepo creates a new version repository
func NewVersionRepo(db *database.DB) VersionRepository {
	return &versionRepo{db: db}
}

// insertVersionTx snapshots the article's current state into the version log.
// The next version number is computed inside the caller's transaction, which
// also holds a row lock on the article, so concurrent updates to the same
// article cannot compute the same number or leave a gap.
func insertVersionTx(ctx context.Context, tx *sql.Tx, article *models.Article, changeDescription string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO article_versions
			(article_id, version_number, title, excerpt, content, category, tags,
			 image_url, image_alt, change_description)
		VALUES
			($1,
			 (SELECT COALESCE(MAX(version_number), 0) + 1 FROM article_versions WHERE article_id = $1),
			 $2, $3, $4, $5, $6, $7, $8, $9)`,
		article.ID, article.Title, article.Excerpt, article.Content, article.Category,
		pq.Array(article.Tags), article.ImageURL, article.ImageAlt, changeDescription,
	)
	return err
}

// ListByArticle retrieves all version snapshots for an article, oldest first
func (r *versionRepo) ListByArticle(ctx context.Context, articleID string) ([]*models.ArticleVersion, error) {
	ctx, cancel := r.db.OpContext(ctx)
	defer cancel()

	query := `
		SELECT id, article_id, version_number, title, excerpt, content, category,
			tags, image_url, image_alt, change_description, created_at
		FROM article_versions
		WHERE article_id = $1
		ORDER BY version_number
	`
	rows, err := r.db.QueryContext(ctx, query, articleID)
	if err != nil {
		return nil, storeErr("list article versions", err)
	}
	defer rows.Close()

	versions := []*models.ArticleVersion{}
	for rows.Next() {
		var v models.ArticleVersion
		err := rows.Scan(
			&v.ID, &v.ArticleID, &v.VersionNumber, &v.Title, &v.Excerpt, &v.Content,
			&v.Category, pq.Array(&v.Tags), &v.ImageURL, &v.ImageAlt,
			&v.ChangeDescription, &v.CreatedAt,
		)
		if err != nil {
			return nil, storeErr("list article versions", err)
		}
		versions = append(versions, &v)
	}
	return versions, storeErr("list article versions", rows.Err())
}

// CountByArticle returns the number of version snapshots for an article. For
// a healthy log this always equals the latest version number.
func (r *versionRepo) CountByArticle(ctx context.Context, articleID string) (int, error) {
	ctx, cancel := r.db.OpContext(ctx)
	defer cancel()

	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM article_versions WHERE article_id = $1`,
		articleID,
	).Scan(&count)
	if err != nil {
		return 0, storeErr("count article versions", err)
	}
	return count, nil
}
