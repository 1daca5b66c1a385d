package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sinahmd/ecommerce/internal/http/middleware"
	"github.com/sinahmd/ecommerce/internal/http/validation"
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
	page, size := pageParams(c)
	res, err := h.Blog.List(c.Request.Context(), blog.ListParams{
		Search:        c.Query("q"),
		Page:          page,
		PageSize:      size,
		IncludeDrafts: true,
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": dto.FromPosts(res.Items), "total": res.Total})
}

func (h *BlogHandler) Detail(c *gin.Context) {
	p, err := h.Blog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.Fail(c, orNotFound(err, "Post not found."))
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": dto.FromPost(p, true)})
}

type postInput struct {
	Title      string   `json:"title" binding:"required,max=200"`
	Slug       string   `json:"slug" binding:"omitempty,max=220"`
	Excerpt    string   `json:"excerpt" binding:"omitempty,max=500"`
	Body       string   `json:"body" binding:"required"`
	CoverImage string   `json:"cover_image" binding:"omitempty,max=500"`
	Published  bool     `json:"published"`
	Tags       []string `json:"tags" binding:"omitempty,max=20,dive,max=100"`
}

func (h *BlogHandler) Create(c *gin.Context) {
	var in postInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Post data is invalid.", validation.FromBindError(err, &in)))
		return
	}

	cu, _ := middleware.CurrentUser(c)
	p, err := h.Blog.Create(c.Request.Context(), blog.PostInput{
		AuthorID:   cu.ID,
		Title:      in.Title,
		Slug:       in.Slug,
		Excerpt:    in.Excerpt,
		Body:       in.Body,
		CoverImage: in.CoverImage,
		Published:  in.Published,
		TagNames:   in.Tags,
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": dto.FromPost(p, true)})
}

func (h *BlogHandler) Update(c *gin.Context) {
	var in postInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Post data is invalid.", validation.FromBindError(err, &in)))
		return
	}

	cu, _ := middleware.CurrentUser(c)
	id := c.Param("id")
	err := h.Blog.Update(c.Request.Context(), id, blog.PostInput{
		AuthorID:   cu.ID,
		Title:      in.Title,
		Slug:       in.Slug,
		Excerpt:    in.Excerpt,
		Body:       in.Body,
		CoverImage: in.CoverImage,
		Published:  in.Published,
		TagNames:   in.Tags,
	})
	if err != nil {
		middleware.Fail(c, orNotFound(err, "Post not found."))
		return
	}

	p, err := h.Blog.Get(c.Request.Context(), id)
	if err != nil {
		middleware.Fail(c, orNotFound(err, "Post not found."))
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": dto.FromPost(p, true)})
}

func (h *BlogHandler) Delete(c *gin.Context) {
	if err := h.Blog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
