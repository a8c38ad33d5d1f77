package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/news-content-service/internal/database"
	"github.com/news-content-service/internal/models"
)

// searchResultCap bounds free-text result sets.
const searchResultCap = 100

// searchRepo is the concrete implementation of SearchRepository
type searchRepo struct {
	db *database.DB
}

// NewSearchRepo creates a new search repository
func NewSearchRepo(db *database.DB) SearchRepository {
	return &searchRepo{db: db}
}

// SearchRanked runs a ranked full-text query against the precomputed search
// vector. tsQuery is an AND-conjunction of terms (built by the search
// service); results are ordered by relevance, publish date breaking ties.
func (r *searchRepo) SearchRanked(ctx context.Context, channelID, tsQuery string) ([]*models.Article, error) {
	ctx, cancel := r.db.OpContext(ctx)
	defer cancel()

	query := `
		SELECT ` + articleColumns + ` FROM articles
		WHERE status = 'published'
			AND ($1 = '' OR channel_id = $1)
			AND search_vector @@ to_tsquery('english', $2)
		ORDER BY ts_rank(search_vector, to_tsquery('english', $2)) DESC,
			published_at DESC NULLS LAST
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, channelID, tsQuery, searchResultCap)
	if err != nil {
		return nil, storeErr("ranked search", err)
	}

	articles, err := collectArticles(rows)
	if err != nil {
		return nil, storeErr("ranked search", err)
	}
	return articles, nil
}

// SearchSubstring is the degraded mode used when ranked search fails:
// case-insensitive contains matching per term, OR-ed across title, excerpt and
// content, publish date descending. OR-ing the terms makes the result a
// superset of what the ranked AND-query would have matched; it trades
// precision for availability.
func (r *searchRepo) SearchSubstring(ctx context.Context, channelID, rawQuery string) ([]*models.Article, error) {
	ctx, cancel := r.db.OpContext(ctx)
	defer cancel()

	clause, args := substringPredicate(rawQuery, []interface{}{channelID})
	if clause == "" {
		return []*models.Article{}, nil
	}

	query := fmt.Sprintf(`
		SELECT `+articleColumns+` FROM articles
		WHERE status = 'published'
			AND ($1 = '' OR channel_id = $1)
			AND (%s)
		ORDER BY published_at DESC NULLS LAST
		LIMIT $%d`,
		clause, len(args)+1,
	)
	args = append(args, searchResultCap)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("substring search", err)
	}

	articles, err := collectArticles(rows)
	if err != nil {
		return nil, storeErr("substring search", err)
	}
	return articles, nil
}

// SearchAdvanced runs a faceted query and returns both the requested page and
// the total match count. Page and count share buildPredicates, so the two can
// never disagree on what matches.
func (r *searchRepo) SearchAdvanced(ctx context.Context, filter *models.SearchFilter, page, perPage int) ([]*models.Article, int, error) {
	ctx, cancel := r.db.OpContext(ctx)
	defer cancel()

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > searchResultCap {
		perPage = 10
	}

	where, args := buildPredicates(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM articles WHERE ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, storeErr("advanced search count", err)
	}

	pageQuery := fmt.Sprintf(`
		SELECT `+articleColumns+` FROM articles
		WHERE `+where+`
		ORDER BY published_at DESC NULLS LAST
		LIMIT $%d OFFSET $%d`,
		len(args)+1, len(args)+2,
	)
	args = append(args, perPage, (page-1)*perPage)

	rows, err := r.db.QueryContext(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, storeErr("advanced search", err)
	}

	articles, err := collectArticles(rows)
	if err != nil {
		return nil, 0, storeErr("advanced search", err)
	}
	return articles, total, nil
}

// substringPredicate ORs one contains-match per whitespace-separated term over
// the searchable text fields. A single multi-word pattern would silently
// require the words to be adjacent and drop articles the ranked query matches;
// per-term ORs keep the degraded mode a superset.
func substringPredicate(rawQuery string, args []interface{}) (string, []interface{}) {
	clauses := []string{}
	for _, term := range strings.Fields(rawQuery) {
		args = append(args, "%"+escapeLike(term)+"%")
		n := len(args)
		clauses = append(clauses,
			fmt.Sprintf("(title ILIKE $%d OR excerpt ILIKE $%d OR content ILIKE $%d)", n, n, n))
	}
	return strings.Join(clauses, " OR "), args
}

// buildPredicates turns a filter into an explicit conjunction of predicates.
// Advanced search is always scoped to published articles.
func buildPredicates(filter *models.SearchFilter) (string, []interface{}) {
	predicates := []string{"status = 'published'"}
	args := []interface{}{}

	add := func(format string, value interface{}) {
		args = append(args, value)
		predicates = append(predicates, fmt.Sprintf(format, len(args)))
	}

	if filter.ChannelID != "" {
		add("channel_id = $%d", filter.ChannelID)
	}
	if filter.Query != "" {
		add("search_vector @@ plainto_tsquery('english', $%d)", filter.Query)
	}
	if filter.Category != "" {
		add("category = $%d", filter.Category)
	}
	if filter.Author != "" {
		add("author ILIKE $%d", "%"+escapeLike(filter.Author)+"%")
	}
	if filter.StartDate != nil {
		add("published_at >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("published_at <= $%d", *filter.EndDate)
	}
	if filter.Featured != nil {
		add("featured = $%d", *filter.Featured)
	}

	return strings.Join(predicates, " AND "), args
}

// escapeLike escapes LIKE metacharacters in user input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
