package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/news-content-service/internal/api"
	"github.com/news-content-service/internal/config"
	"github.com/news-content-service/internal/mocks"
	"github.com/news-content-service/internal/models"
	"github.com/news-content-service/internal/repository"
	"github.com/news-content-service/internal/service"
	"github.com/rs/zerolog"
)

const testToken = "test-admin-token"

type apiEnv struct {
	router   *gin.Engine
	articles *mocks.MockArticleRepository
	search   *mocks.MockSearchRepository
	markdown *mocks.MockMarkdownStore
}

func newAPIEnv(t *testing.T, adminToken string) *apiEnv {
	t.Helper()

	articles := mocks.NewMockArticleRepository()
	search := mocks.NewMockSearchRepository()
	markdown := mocks.NewMockMarkdownStore()
	repos := &repository.Repositories{
		Article: articles,
		Version: mocks.NewMockVersionRepository(articles),
		Search:  search,
	}
	cfg := &config.Config{
		Content: config.ContentConfig{
			ExportEnabled:   true,
			FallbackEnabled: true,
			MaxListResults:  500,
			AdminToken:      adminToken,
		},
	}
	services := service.NewServices(repos, markdown, cfg, zerolog.Nop())

	return &apiEnv{
		router:   api.NewRouter(services, cfg, zerolog.Nop()),
		articles: articles,
		search:   search,
		markdown: markdown,
	}
}

func (env *apiEnv) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func seedArticle(t *testing.T, env *apiEnv, channel, slug, title string) {
	t.Helper()
	w := env.do(t, http.MethodPost, "/v1/admin/channels/"+channel+"/articles", map[string]interface{}{
		"slug":    slug,
		"title":   title,
		"content": "body of " + slug,
		"status":  models.StatusPublished,
	}, testToken)
	if w.Code != http.StatusCreated {
		t.Fatalf("seed create = %d: %s", w.Code, w.Body.String())
	}
}

func TestHealthCheck(t *testing.T) {
	env := newAPIEnv(t, testToken)

	w := env.do(t, http.MethodGet, "/health", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %q, want healthy", body["status"])
	}
}

func TestCreateAndGetArticle(t *testing.T) {
	env := newAPIEnv(t, testToken)
	seedArticle(t, env, "ambal", "banjir-kebumen", "Banjir Kebumen")

	w := env.do(t, http.MethodGet, "/v1/channels/ambal/articles/banjir-kebumen", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var article models.Article
	if err := json.Unmarshal(w.Body.Bytes(), &article); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if article.Title != "Banjir Kebumen" {
		t.Errorf("Title = %q", article.Title)
	}
	if article.PublishedAt == nil {
		t.Error("published article must carry published_at")
	}
}

func TestGetArticle_NotFound(t *testing.T) {
	env := newAPIEnv(t, testToken)

	w := env.do(t, http.MethodGet, "/v1/channels/ambal/articles/ghost", nil, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestGetArticle_StoreUnavailable(t *testing.T) {
	env := newAPIEnv(t, testToken)
	env.articles.FailWith = models.ErrUnavailable
	env.markdown.ReadErr = models.ErrUnavailable

	w := env.do(t, http.MethodGet, "/v1/channels/ambal/articles/banjir-kebumen", nil, "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestListArticles(t *testing.T) {
	env := newAPIEnv(t, testToken)
	seedArticle(t, env, "ambal", "first", "First")
	seedArticle(t, env, "ambal", "second", "Second")
	seedArticle(t, env, "petanahan", "other", "Other")

	w := env.do(t, http.MethodGet, "/v1/channels/ambal/articles", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		Articles []*models.Article `json:"articles"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body.Articles) != 2 {
		t.Errorf("got %d articles, want 2 scoped to the channel", len(body.Articles))
	}
}

func TestCreateArticle_Conflict(t *testing.T) {
	env := newAPIEnv(t, testToken)
	seedArticle(t, env, "ambal", "banjir-kebumen", "Original")

	w := env.do(t, http.MethodPost, "/v1/admin/channels/ambal/articles", map[string]interface{}{
		"slug":    "banjir-kebumen",
		"title":   "Usurper",
		"content": "body",
	}, testToken)
	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409: %s", w.Code, w.Body.String())
	}
}

func TestCreateArticle_ValidationErrors(t *testing.T) {
	env := newAPIEnv(t, testToken)

	w := env.do(t, http.MethodPost, "/v1/admin/channels/ambal/articles", map[string]interface{}{
		"slug":   "Bad Slug!",
		"status": "archived",
	}, testToken)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var body struct {
		Errors []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	fields := map[string]bool{}
	for _, e := range body.Errors {
		fields[e.Field] = true
	}
	for _, want := range []string{"slug", "title", "content", "status"} {
		if !fields[want] {
			t.Errorf("missing validation error for %q, got %v", want, fields)
		}
	}
}

func TestAdmin_Unauthorized(t *testing.T) {
	env := newAPIEnv(t, testToken)

	w := env.do(t, http.MethodGet, "/v1/admin/articles", nil, "wrong-token")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token: status = %d, want 401", w.Code)
	}

	w = env.do(t, http.MethodGet, "/v1/admin/articles", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("missing token: status = %d, want 401", w.Code)
	}
}

func TestAdmin_DisabledWithoutConfiguredToken(t *testing.T) {
	env := newAPIEnv(t, "")

	w := env.do(t, http.MethodGet, "/v1/admin/articles", nil, "anything")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 when no token configured", w.Code)
	}
}

func TestUpdateDeleteAndVersions(t *testing.T) {
	env := newAPIEnv(t, testToken)
	seedArticle(t, env, "ambal", "banjir-kebumen", "Original")

	w := env.do(t, http.MethodPut, "/v1/admin/channels/ambal/articles/banjir-kebumen", map[string]interface{}{
		"title":              "Retitled",
		"change_description": "fix headline",
	}, testToken)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/v1/admin/channels/ambal/articles/banjir-kebumen/versions", nil, testToken)
	if w.Code != http.StatusOK {
		t.Fatalf("versions status = %d", w.Code)
	}
	var body struct {
		Versions []*models.ArticleVersion `json:"versions"`
		Total    int                      `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body.Versions) != 1 || body.Versions[0].Title != "Original" {
		t.Errorf("versions = %+v, want one pre-update snapshot", body.Versions)
	}
	if body.Total != 1 {
		t.Errorf("total = %d, want 1", body.Total)
	}

	w = env.do(t, http.MethodDelete, "/v1/admin/channels/ambal/articles/banjir-kebumen", nil, testToken)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", w.Code)
	}
	w = env.do(t, http.MethodDelete, "/v1/admin/channels/ambal/articles/banjir-kebumen", nil, testToken)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
}

func TestSearch_FreeText(t *testing.T) {
	env := newAPIEnv(t, testToken)

	env.search.RankedFunc = func(ctx context.Context, channelID, tsQuery string) ([]*models.Article, error) {
		if channelID != "ambal" {
			t.Errorf("channelID = %q, want ambal", channelID)
		}
		if tsQuery != "banjir & kebumen" {
			t.Errorf("tsQuery = %q", tsQuery)
		}
		return []*models.Article{{Slug: "banjir-kebumen"}}, nil
	}

	w := env.do(t, http.MethodGet, "/v1/search?channel=ambal&q=banjir+kebumen", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if env.search.RankedCalls != 1 {
		t.Errorf("RankedCalls = %d, want 1", env.search.RankedCalls)
	}
}

func TestSearch_FacetedReturnsTotals(t *testing.T) {
	env := newAPIEnv(t, testToken)

	env.search.AdvancedFunc = func(ctx context.Context, filter *models.SearchFilter, page, perPage int) ([]*models.Article, int, error) {
		if filter.Category != "Peristiwa" {
			t.Errorf("Category = %q", filter.Category)
		}
		return []*models.Article{{Slug: "a"}}, 12, nil
	}

	w := env.do(t, http.MethodGet, "/v1/search?channel=ambal&q=banjir&category=Peristiwa&page=2", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var result models.SearchResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if result.Total != 12 || result.Page != 2 {
		t.Errorf("Total/Page = %d/%d, want 12/2", result.Total, result.Page)
	}
	if env.search.AdvancedCalls != 1 || env.search.RankedCalls != 0 {
		t.Errorf("calls = advanced %d ranked %d, want 1/0", env.search.AdvancedCalls, env.search.RankedCalls)
	}
}

func TestSearch_BadDateParam(t *testing.T) {
	env := newAPIEnv(t, testToken)

	w := env.do(t, http.MethodGet, "/v1/search?q=banjir&from=yesterday", nil, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
