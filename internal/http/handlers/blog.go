package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sinahmd/ecommerce/internal/http/middleware"
	"github.com/sinahmd/ecommerce/internal/modules/blog"
	"github.com/sinahmd/ecommerce/internal/shared/apperr"
	"github.com/sinahmd/ecommerce/pkg/dto"
)

type BlogHandler struct {
	Blog *blog.Repo
}

func NewBlogHandler(repo *blog.Repo) *BlogHandler {
	return &BlogHandler{Blog: repo}
}

func (h *BlogHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	res, err := h.Blog.List(c.Request.Context(), blog.ListParams{
		TagSlug: c.Query("tag"),
		Search:  c.Query("q"),
		Page:    page,
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"posts": dto.FromPosts(res.Items),
		"total": res.Total,
	})
}

func (h *BlogHandler) Detail(c *gin.Context) {
	p, err := h.Blog.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		middleware.Fail(c, orNotFound(err, "Post not found."))
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": dto.FromPost(p, true)})
}

func (h *BlogHandler) Tags(c *gin.Context) {
	tags, err := h.Blog.ListTags(c.Request.Context())
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	out := make([]dto.Tag, len(tags))
	for i, t := range tags {
		out[i] = dto.Tag{Name: t.Name, Slug: t.Slug}
	}
	c.JSON(http.StatusOK, gin.H{"tags": out})
}
