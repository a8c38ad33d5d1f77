package service

import (
	"context"
	"strings"

	"github.com/news-content-service/internal/models"
	"github.com/news-content-service/internal/repository"
	"github.com/rs/zerolog"
)

// searchService is the concrete implementation of SearchService
type searchService struct {
	search repository.SearchRepository
	log    zerolog.Logger
}

func newSearchService(search repository.SearchRepository, log zerolog.Logger) *searchService {
	return &searchService{
		search: search,
		log:    log.With().Str("component", "search_service").Logger(),
	}
}

// Search runs a ranked full-text query: terms are AND-ed so every term must
// match. When the ranked path fails for any reason, the query degrades to
// case-insensitive substring matching ordered by publish date. The degraded
// mode loses ranking and widens matching to OR across terms and fields, so it
// returns a superset of what the ranked query would have matched; that is the
// documented availability trade-off, not a bug.
func (s *searchService) Search(ctx context.Context, channelID, query string) ([]*models.Article, error) {
	tsQuery := buildTSQuery(query)
	if tsQuery == "" {
		// No terms must never mean "match everything".
		return []*models.Article{}, nil
	}

	articles, err := s.search.SearchRanked(ctx, channelID, tsQuery)
	if err == nil {
		return articles, nil
	}

	s.log.Warn().Err(err).
		Str("channel", channelID).
		Str("query", query).
		Msg("Ranked search failed, degrading to substring match")

	return s.search.SearchSubstring(ctx, channelID, strings.TrimSpace(query))
}

// SearchAdvanced runs a faceted query scoped to published articles and
// returns one page plus the total count computed with identical predicates.
func (s *searchService) SearchAdvanced(ctx context.Context, filter *models.SearchFilter, page, perPage int) (*models.SearchResult, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}

	articles, total, err := s.search.SearchAdvanced(ctx, filter, page, perPage)
	if err != nil {
		return nil, err
	}

	return &models.SearchResult{
		Articles: articles,
		Total:    total,
		Page:     page,
		PerPage:  perPage,
	}, nil
}

// buildTSQuery tokenizes a free-text query on whitespace and joins the terms
// with the AND operator so all terms are required. Quotes are stripped so a
// stray quote cannot break the tsquery syntax; other malformed input is left
// to the ranked path to reject, which triggers the substring fallback.
func buildTSQuery(query string) string {
	fields := strings.Fields(query)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, `'"`)
		if f != "" {
			terms = append(terms, f)
		}
	}
	return strings.Join(terms, " & ")
}
