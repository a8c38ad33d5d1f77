package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/news-content-service/internal/models"
)

func key(channelID, slug string) string {
	return channelID + "/" + slug
}

func copyArticle(a *models.Article) *models.Article {
	cp := *a
	cp.Tags = append([]string(nil), a.Tags...)
	cp.MetaKeywords = append([]string(nil), a.MetaKeywords...)
	return &cp
}

// MockArticleRepository is an in-memory implementation of
// repository.ArticleRepository. It mirrors the relational store's contract:
// unique (channel, slug), atomic view increments, pre-update snapshots with
// gapless version numbers, cascade delete of versions. FailWith makes every
// operation fail, simulating an unavailable store.
type MockArticleRepository struct {
	mu       sync.Mutex
	Articles map[string]*models.Article
	Versions map[string][]*models.ArticleVersion

	FailWith       error
	IncrementErr   error
	IncrementCalls int
}

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{
		Articles: make(map[string]*models.Article),
		Versions: make(map[string][]*models.ArticleVersion),
	}
}

func (m *MockArticleRepository) Create(ctx context.Context, article *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	k := key(article.ChannelID, article.Slug)
	if _, exists := m.Articles[k]; exists {
		return models.ErrConflict
	}
	m.Articles[k] = copyArticle(article)
	return nil
}

func (m *MockArticleRepository) GetBySlug(ctx context.Context, channelID, slug string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	article, ok := m.Articles[key(channelID, slug)]
	if !ok {
		return nil, models.ErrNotFound
	}
	return copyArticle(article), nil
}

func (m *MockArticleRepository) ListByChannel(ctx context.Context, channelID string) ([]*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	return m.listLocked(func(a *models.Article) bool {
		return a.ChannelID == channelID && a.Status == models.StatusPublished
	}), nil
}

func (m *MockArticleRepository) ListFeatured(ctx context.Context, channelID string) ([]*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	return m.listLocked(func(a *models.Article) bool {
		return a.ChannelID == channelID && a.Status == models.StatusPublished && a.Featured
	}), nil
}

func (m *MockArticleRepository) ListByCategory(ctx context.Context, channelID, category string) ([]*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	return m.listLocked(func(a *models.Article) bool {
		return a.ChannelID == channelID && a.Status == models.StatusPublished && a.Category == category
	}), nil
}

func (m *MockArticleRepository) Categories(ctx context.Context, channelID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	seen := map[string]bool{}
	categories := []string{}
	for _, a := range m.Articles {
		if a.ChannelID == channelID && a.Status == models.StatusPublished && a.Category != "" && !seen[a.Category] {
			seen[a.Category] = true
			categories = append(categories, a.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

func (m *MockArticleRepository) ListAll(ctx context.Context, limit int) ([]*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	articles := m.listLocked(func(*models.Article) bool { return true })
	if len(articles) > limit {
		articles = articles[:limit]
	}
	return articles, nil
}

func (m *MockArticleRepository) Update(ctx context.Context, channelID, slug string, upd *models.ArticleUpdate) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return nil, m.FailWith
	}

	k := key(channelID, slug)
	current, ok := m.Articles[k]
	if !ok {
		return nil, models.ErrNotFound
	}

	now := time.Now().UTC()
	versionNumber := len(m.Versions[current.ID]) + 1
	m.Versions[current.ID] = append(m.Versions[current.ID],
		current.Snapshot(versionNumber, upd.ChangeDescription, now))

	next := current.Apply(upd, now)
	m.Articles[k] = next
	return copyArticle(next), nil
}

func (m *MockArticleRepository) Delete(ctx context.Context, channelID, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}

	k := key(channelID, slug)
	article, ok := m.Articles[k]
	if !ok {
		return models.ErrNotFound
	}
	delete(m.Articles, k)
	delete(m.Versions, article.ID)
	return nil
}

func (m *MockArticleRepository) IncrementViewCount(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.IncrementCalls++
	if m.IncrementErr != nil {
		return m.IncrementErr
	}
	if m.FailWith != nil {
		return m.FailWith
	}
	for _, a := range m.Articles {
		if a.ID == id {
			a.ViewCount++
			return nil
		}
	}
	return models.ErrNotFound
}

func (m *MockArticleRepository) listLocked(match func(*models.Article) bool) []*models.Article {
	articles := []*models.Article{}
	for _, a := range m.Articles {
		if match(a) {
			articles = append(articles, copyArticle(a))
		}
	}
	sort.Slice(articles, func(i, j int) bool {
		return publishTime(articles[j]).Before(publishTime(articles[i]))
	})
	return articles
}

func publishTime(a *models.Article) time.Time {
	if a.PublishedAt != nil {
		return *a.PublishedAt
	}
	return a.CreatedAt
}

// MockVersionRepository reads the version log written by a
// MockArticleRepository, the way the real pair shares one database.
type MockVersionRepository struct {
	Articles *MockArticleRepository
}

func NewMockVersionRepository(articles *MockArticleRepository) *MockVersionRepository {
	return &MockVersionRepository{Articles: articles}
}

func (m *MockVersionRepository) ListByArticle(ctx context.Context, articleID string) ([]*models.ArticleVersion, error) {
	m.Articles.mu.Lock()
	defer m.Articles.mu.Unlock()
	if m.Articles.FailWith != nil {
		return nil, m.Articles.FailWith
	}
	return append([]*models.ArticleVersion{}, m.Articles.Versions[articleID]...), nil
}

func (m *MockVersionRepository) CountByArticle(ctx context.Context, articleID string) (int, error) {
	m.Articles.mu.Lock()
	defer m.Articles.mu.Unlock()
	if m.Articles.FailWith != nil {
		return 0, m.Articles.FailWith
	}
	return len(m.Articles.Versions[articleID]), nil
}

// MockSearchRepository is a mock implementation of repository.SearchRepository
// with injectable behavior per query mode.
type MockSearchRepository struct {
	RankedFunc    func(ctx context.Context, channelID, tsQuery string) ([]*models.Article, error)
	SubstringFunc func(ctx context.Context, channelID, rawQuery string) ([]*models.Article, error)
	AdvancedFunc  func(ctx context.Context, filter *models.SearchFilter, page, perPage int) ([]*models.Article, int, error)

	RankedCalls    int
	SubstringCalls int
	AdvancedCalls  int
}

func NewMockSearchRepository() *MockSearchRepository {
	return &MockSearchRepository{}
}

func (m *MockSearchRepository) SearchRanked(ctx context.Context, channelID, tsQuery string) ([]*models.Article, error) {
	m.RankedCalls++
	if m.RankedFunc != nil {
		return m.RankedFunc(ctx, channelID, tsQuery)
	}
	return []*models.Article{}, nil
}

func (m *MockSearchRepository) SearchSubstring(ctx context.Context, channelID, rawQuery string) ([]*models.Article, error) {
	m.SubstringCalls++
	if m.SubstringFunc != nil {
		return m.SubstringFunc(ctx, channelID, rawQuery)
	}
	return []*models.Article{}, nil
}

func (m *MockSearchRepository) SearchAdvanced(ctx context.Context, filter *models.SearchFilter, page, perPage int) ([]*models.Article, int, error) {
	m.AdvancedCalls++
	if m.AdvancedFunc != nil {
		return m.AdvancedFunc(ctx, filter, page, perPage)
	}
	return []*models.Article{}, 0, nil
}

// MockMarkdownStore is an in-memory implementation of service.MarkdownStore.
type MockMarkdownStore struct {
	mu   sync.Mutex
	Docs map[string]*models.Article

	ReadErr    error
	WriteErr   error
	WriteCalls int
}

func NewMockMarkdownStore() *MockMarkdownStore {
	return &MockMarkdownStore{Docs: make(map[string]*models.Article)}
}

func (m *MockMarkdownStore) Read(ctx context.Context, channelID, slug string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	doc, ok := m.Docs[key(channelID, slug)]
	if !ok {
		return nil, models.ErrNotFound
	}
	return copyArticle(doc), nil
}

func (m *MockMarkdownStore) Write(ctx context.Context, article *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteCalls++
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Docs[key(article.ChannelID, article.Slug)] = copyArticle(article)
	return nil
}

func (m *MockMarkdownStore) Delete(ctx context.Context, channelID, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Docs, key(channelID, slug))
	return nil
}

func (m *MockMarkdownStore) List(ctx context.Context, channelID string) ([]*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	articles := []*models.Article{}
	for _, doc := range m.Docs {
		if doc.ChannelID == channelID {
			articles = append(articles, copyArticle(doc))
		}
	}
	sort.Slice(articles, func(i, j int) bool {
		return publishTime(articles[j]).Before(publishTime(articles[i]))
	})
	return articles, nil
}
