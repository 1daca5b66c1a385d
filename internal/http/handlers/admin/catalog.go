package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sinahmd/ecommerce/internal/http/middleware"
	"github.com/sinahmd/ecommerce/internal/http/validation"
	"github.com/sinahmd/ecommerce/internal/modules/catalog"
	"github.com/sinahmd/ecommerce/internal/shared/apperr"
	"github.com/sinahmd/ecommerce/pkg/dto"
)

// CatalogHandler is the admin write surface for categories and
// products. Every write invalidates the catalog cache.
type CatalogHandler struct {
	Catalog *catalog.Repo
	Cache   *catalog.Cache
}

func NewCatalogHandler(repo *catalog.Repo, cache *catalog.Cache) *CatalogHandler {
	return &CatalogHandler{Catalog: repo, Cache: cache}
}

type categoryInput struct {
	Name        string `json:"name" binding:"required,max=100"`
	Slug        string `json:"slug" binding:"omitempty,max=120"`
	Description string `json:"description" binding:"omitempty,max=1000"`
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var in categoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Category data is invalid.", validation.FromBindError(err, &in)))
		return
	}

	cat, err := h.Catalog.CreateCategory(c.Request.Context(), catalog.CategoryInput{
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	h.Cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusCreated, gin.H{"category": dto.FromCategory(cat)})
}

func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	var in categoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Category data is invalid.", validation.FromBindError(err, &in)))
		return
	}

	if err := h.Catalog.UpdateCategory(c.Request.Context(), c.Param("id"), catalog.CategoryInput{
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
	}); err != nil {
		middleware.Fail(c, orNotFound(err, "Category not found."))
		return
	}

	h.Cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	if err := h.Catalog.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	h.Cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ListProducts shows everything, including unavailable products the
// public listing hides.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	ps, err := h.Catalog.ListProducts(c.Request.Context(), catalog.ListProductsParams{
		CategorySlug: c.Query("category"),
		Search:       c.Query("q"),
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": dto.FromProducts(ps)})
}

type productInput struct {
	CategoryID  string `json:"category_id" binding:"required,uuid"`
	Name        string `json:"name" binding:"required,max=200"`
	Slug        string `json:"slug" binding:"omitempty,max=220"`
	Description string `json:"description"`
	PriceCents  int    `json:"price_cents" binding:"required,gt=0"`
	ImageURL    string `json:"image_url" binding:"omitempty,max=500"`
	Stock       int    `json:"stock" binding:"gte=0"`
	Available   bool   `json:"available"`
}

func (in productInput) toModel() catalog.ProductInput {
	return catalog.ProductInput{
		CategoryID:  in.CategoryID,
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		PriceCents:  in.PriceCents,
		ImageURL:    in.ImageURL,
		Stock:       in.Stock,
		Available:   in.Available,
	}
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var in productInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Product data is invalid.", validation.FromBindError(err, &in)))
		return
	}

	p, err := h.Catalog.CreateProduct(c.Request.Context(), in.toModel())
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	h.Cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusCreated, gin.H{"product": dto.FromProduct(p)})
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var in productInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Product data is invalid.", validation.FromBindError(err, &in)))
		return
	}

	id := c.Param("id")
	if err := h.Catalog.UpdateProduct(c.Request.Context(), id, in.toModel()); err != nil {
		middleware.Fail(c, orNotFound(err, "Product not found."))
		return
	}

	h.Cache.Invalidate(c.Request.Context())

	p, err := h.Catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		middleware.Fail(c, orNotFound(err, "Product not found."))
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": dto.FromProduct(p)})
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	if err := h.Catalog.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	h.Cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
