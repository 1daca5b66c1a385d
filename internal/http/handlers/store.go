package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sinahmd/ecommerce/internal/http/middleware"
	"github.com/sinahmd/ecommerce/internal/modules/catalog"
	"github.com/sinahmd/ecommerce/internal/shared/apperr"
	"github.com/sinahmd/ecommerce/pkg/dto"
)

type StoreHandler struct {
	Catalog *catalog.Repo
	Cache   *catalog.Cache
}

func NewStoreHandler(repo *catalog.Repo, cache *catalog.Cache) *StoreHandler {
	return &StoreHandler{Catalog: repo, Cache: cache}
}

type homeOut struct {
	Categories []dto.Category `json:"categories"`
	Featured   []dto.Product  `json:"featured"`
}

// Home is the storefront landing payload: a handful of categories and
// the newest available products.
func (h *StoreHandler) Home(c *gin.Context) {
	ctx := c.Request.Context()

	var cached homeOut
	if h.Cache.Get(ctx, "home", &cached) {
		c.JSON(http.StatusOK, cached)
		return
	}

	cats, err := h.Catalog.ListCategories(ctx, 5)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	ps, err := h.Catalog.ListProducts(ctx, catalog.ListProductsParams{
		OnlyAvailable: true,
		Limit:         8,
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	out := homeOut{Categories: dto.FromCategories(cats), Featured: dto.FromProducts(ps)}
	h.Cache.Set(ctx, "home", out)
	c.JSON(http.StatusOK, out)
}

func (h *StoreHandler) ListCategories(c *gin.Context) {
	ctx := c.Request.Context()

	var cached []dto.Category
	if h.Cache.Get(ctx, "categories", &cached) {
		c.JSON(http.StatusOK, gin.H{"categories": cached})
		return
	}

	cats, err := h.Catalog.ListCategories(ctx, 0)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	out := dto.FromCategories(cats)
	h.Cache.Set(ctx, "categories", out)
	c.JSON(http.StatusOK, gin.H{"categories": out})
}

func (h *StoreHandler) ListProducts(c *gin.Context) {
	ctx := c.Request.Context()

	params := catalog.ListProductsParams{
		CategorySlug:  c.Query("category"),
		Search:        c.Query("search"),
		OnlyAvailable: true,
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 && limit <= 100 {
		params.Limit = limit
	}

	// Only unfiltered listings are cached; the long tail of search
	// queries would just churn the keyspace.
	cacheable := params.CategorySlug == "" && params.Search == ""
	key := fmt.Sprintf("products:limit=%d", params.Limit)

	if cacheable {
		var cached []dto.Product
		if h.Cache.Get(ctx, key, &cached) {
			c.JSON(http.StatusOK, gin.H{"products": cached})
			return
		}
	}

	ps, err := h.Catalog.ListProducts(ctx, params)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	out := dto.FromProducts(ps)
	if cacheable {
		h.Cache.Set(ctx, key, out)
	}
	c.JSON(http.StatusOK, gin.H{"products": out})
}

func (h *StoreHandler) ProductDetail(c *gin.Context) {
	ctx := c.Request.Context()

	p, err := h.Catalog.GetProductBySlug(ctx, c.Param("slug"))
	if err != nil {
		middleware.Fail(c, orNotFound(err, "Product not found."))
		return
	}

	related, err := h.Catalog.RelatedProducts(ctx, p, 4)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": dto.FromProduct(p),
		"related": dto.FromProducts(related),
	})
}

func (h *StoreHandler) CategoryDetail(c *gin.Context) {
	ctx := c.Request.Context()

	cat, err := h.Catalog.GetCategoryBySlug(ctx, c.Param("slug"))
	if err != nil {
		middleware.Fail(c, orNotFound(err, "Category not found."))
		return
	}

	ps, err := h.Catalog.ListProducts(ctx, catalog.ListProductsParams{
		CategorySlug:  cat.Slug,
		OnlyAvailable: true,
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": dto.FromCategory(cat),
		"products": dto.FromProducts(ps),
	})
}
