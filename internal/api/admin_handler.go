package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/news-content-service/internal/models"
	"github.com/news-content-service/internal/service"
	"github.com/news-content-service/internal/validation"
	"github.com/rs/zerolog"
)

// AdminHandler serves the authenticated write surface
type AdminHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(services *service.Services, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		services: services,
		log:      log.With().Str("handler", "admin").Logger(),
	}
}

// ListAllArticles handles GET /v1/admin/articles (cross-channel, capped)
func (h *AdminHandler) ListAllArticles(c *gin.Context) {
	ctx := c.Request.Context()

	articles, err := h.services.Content.AllArticles(ctx)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": articles})
}

// CreateArticle handles POST /v1/admin/channels/:channel/articles
func (h *AdminHandler) CreateArticle(c *gin.Context) {
	ctx := c.Request.Context()

	var input models.ArticleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	input.ChannelID = c.Param("channel")

	if errs := validation.ValidateCreate(&input); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	article, err := h.services.Content.CreateArticle(ctx, &input)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	h.log.Info().
		Str("channel", article.ChannelID).
		Str("slug", article.Slug).
		Msg("Article created")
	c.JSON(http.StatusCreated, article)
}

// UpdateArticle handles PUT /v1/admin/channels/:channel/articles/:slug
func (h *AdminHandler) UpdateArticle(c *gin.Context) {
	ctx := c.Request.Context()

	var upd models.ArticleUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if errs := validation.ValidateUpdate(&upd); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	article, err := h.services.Content.UpdateArticle(ctx, c.Param("channel"), c.Param("slug"), &upd)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	h.log.Info().
		Str("channel", article.ChannelID).
		Str("slug", article.Slug).
		Msg("Article updated")
	c.JSON(http.StatusOK, article)
}

// DeleteArticle handles DELETE /v1/admin/channels/:channel/articles/:slug
func (h *AdminHandler) DeleteArticle(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.services.Content.DeleteArticle(ctx, c.Param("channel"), c.Param("slug")); err != nil {
		writeError(c, h.log, err)
		return
	}

	h.log.Info().
		Str("channel", c.Param("channel")).
		Str("slug", c.Param("slug")).
		Msg("Article deleted")
	c.Status(http.StatusNoContent)
}

// ListVersions handles GET /v1/admin/channels/:channel/articles/:slug/versions
func (h *AdminHandler) ListVersions(c *gin.Context) {
	ctx := c.Request.Context()

	versions, total, err := h.services.Content.Versions(ctx, c.Param("channel"), c.Param("slug"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"versions": versions, "total": total})
}
