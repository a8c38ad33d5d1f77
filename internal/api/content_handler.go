package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/news-content-service/internal/models"
	"github.com/news-content-service/internal/service"
	"github.com/rs/zerolog"
)

// ContentHandler serves the public read surface
type ContentHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(services *service.Services, log zerolog.Logger) *ContentHandler {
	return &ContentHandler{
		services: services,
		log:      log.With().Str("handler", "content").Logger(),
	}
}

// ListArticles handles GET /v1/channels/:channel/articles[?category=]
func (h *ContentHandler) ListArticles(c *gin.Context) {
	ctx := c.Request.Context()
	channel := c.Param("channel")

	if category := c.Query("category"); category != "" {
		articles, err := h.services.Content.ArticlesByCategory(ctx, channel, category)
		if err != nil {
			writeError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"articles": articles})
		return
	}

	articles, err := h.services.Content.ArticlesByChannel(ctx, channel)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": articles})
}

// GetArticle handles GET /v1/channels/:channel/articles/:slug
func (h *ContentHandler) GetArticle(c *gin.Context) {
	ctx := c.Request.Context()

	article, err := h.services.Content.Article(ctx, c.Param("channel"), c.Param("slug"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// ListFeatured handles GET /v1/channels/:channel/featured
func (h *ContentHandler) ListFeatured(c *gin.Context) {
	ctx := c.Request.Context()

	articles, err := h.services.Content.FeaturedArticles(ctx, c.Param("channel"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": articles})
}

// ListCategories handles GET /v1/channels/:channel/categories
func (h *ContentHandler) ListCategories(c *gin.Context) {
	ctx := c.Request.Context()

	categories, err := h.services.Content.Categories(ctx, c.Param("channel"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// Search handles GET /v1/search. With only q (and optionally channel) it runs
// the ranked free-text search; any facet parameter switches to the advanced
// query, which also returns the total count for pagination.
func (h *ContentHandler) Search(c *gin.Context) {
	ctx := c.Request.Context()

	filter, faceted, err := parseSearchFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !faceted {
		articles, err := h.services.Search.Search(ctx, filter.ChannelID, filter.Query)
		if err != nil {
			writeError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"articles": articles})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	result, err := h.services.Search.SearchAdvanced(ctx, filter, page, perPage)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func parseSearchFilter(c *gin.Context) (*models.SearchFilter, bool, error) {
	filter := &models.SearchFilter{
		ChannelID: c.Query("channel"),
		Query:     c.Query("q"),
		Category:  c.Query("category"),
		Author:    c.Query("author"),
	}
	faceted := filter.Category != "" || filter.Author != "" ||
		c.Query("from") != "" || c.Query("to") != "" ||
		c.Query("featured") != "" || c.Query("page") != "" || c.Query("per_page") != ""

	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return nil, false, errors.New("from must be RFC3339")
		}
		filter.StartDate = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return nil, false, errors.New("to must be RFC3339")
		}
		filter.EndDate = &t
	}
	if featured := c.Query("featured"); featured != "" {
		b, err := strconv.ParseBool(featured)
		if err != nil {
			return nil, false, errors.New("featured must be a boolean")
		}
		filter.Featured = &b
	}

	return filter, faceted, nil
}

// writeError maps the shared error taxonomy onto HTTP statuses
func writeError(c *gin.Context, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, models.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "article with this slug already exists"})
	case errors.Is(err, models.ErrUnavailable):
		log.Error().Err(err).Msg("Store unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "content store unavailable"})
	default:
		log.Error().Err(err).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
