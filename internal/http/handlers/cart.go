package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sinahmd/ecommerce/internal/http/cartcookie"
	"github.com/sinahmd/ecommerce/internal/http/middleware"
	"github.com/sinahmd/ecommerce/internal/http/validation"
	"github.com/sinahmd/ecommerce/internal/modules/catalog"
	"github.com/sinahmd/ecommerce/internal/shared/apperr"
	"github.com/sinahmd/ecommerce/internal/shared/money"
	"github.com/sinahmd/ecommerce/pkg/dto"
)

// CartHandler keeps the guest cart in a signed cookie and prices it
// from the catalog on every read. Unknown or unavailable products are
// silently dropped rather than failing the whole cart.
type CartHandler struct {
	Catalog *catalog.Repo
	Cookie  *cartcookie.Codec
}

func NewCartHandler(repo *catalog.Repo, cookie *cartcookie.Codec) *CartHandler {
	return &CartHandler{Catalog: repo, Cookie: cookie}
}

type cartItemOut struct {
	Product   dto.Product `json:"product"`
	Quantity  int         `json:"quantity"`
	LineCents int         `json:"line_total_cents"`
	LineTotal string      `json:"line_total"`
}

func (h *CartHandler) Get(c *gin.Context) {
	h.respond(c, h.Cookie.GetLines(c))
}

type cartLineInput struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,gte=1,max=99"`
}

type cartPutInput struct {
	Items []cartLineInput `json:"items" binding:"required,max=100,dive"`
}

// Put replaces the whole cart in one shot, for frontends that keep
// cart state locally and sync it down.
func (h *CartHandler) Put(c *gin.Context) {
	var in cartPutInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Cart data is invalid.", validation.FromBindError(err, &in)))
		return
	}

	lines := make([]cartcookie.Line, len(in.Items))
	for i, it := range in.Items {
		lines[i] = cartcookie.Line{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	if err := h.Cookie.Set(c, lines); err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	h.respond(c, lines)
}

type cartQtyInput struct {
	Quantity int `json:"quantity" binding:"omitempty,gte=1,max=99"`
}

// AddItem puts one product in the cart, stacking on top of an existing
// line for the same product.
func (h *CartHandler) AddItem(c *gin.Context) {
	p, err := h.Catalog.GetProduct(c.Request.Context(), c.Param("product_id"))
	if err != nil || !p.Available {
		middleware.Fail(c, apperr.NotFoundErr("Product not found."))
		return
	}

	var in cartQtyInput
	if err := c.ShouldBindJSON(&in); err != nil && c.Request.ContentLength > 0 {
		middleware.Fail(c, apperr.InvalidErr("Cart data is invalid.", validation.FromBindError(err, &in)))
		return
	}
	qty := in.Quantity
	if qty < 1 {
		qty = 1
	}

	lines := h.Cookie.GetLines(c)
	found := false
	for i := range lines {
		if lines[i].ProductID == p.ID {
			lines[i].Quantity += qty
			if lines[i].Quantity > 99 {
				lines[i].Quantity = 99
			}
			found = true
			break
		}
	}
	if !found {
		lines = append(lines, cartcookie.Line{ProductID: p.ID, Quantity: qty})
	}

	if err := h.Cookie.Set(c, lines); err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	h.respond(c, lines)
}

// UpdateItem sets the quantity of one line.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var in cartQtyInput
	if err := c.ShouldBindJSON(&in); err != nil || in.Quantity < 1 {
		middleware.Fail(c, apperr.InvalidErr("Cart data is invalid.", validation.FromBindError(err, &in)))
		return
	}

	id := c.Param("product_id")
	lines := h.Cookie.GetLines(c)
	found := false
	for i := range lines {
		if lines[i].ProductID == id {
			lines[i].Quantity = in.Quantity
			found = true
			break
		}
	}
	if !found {
		middleware.Fail(c, apperr.NotFoundErr("Item not in cart."))
		return
	}

	if err := h.Cookie.Set(c, lines); err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	h.respond(c, lines)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	id := c.Param("product_id")
	lines := h.Cookie.GetLines(c)

	kept := lines[:0]
	for _, ln := range lines {
		if ln.ProductID != id {
			kept = append(kept, ln)
		}
	}

	if err := h.Cookie.Set(c, kept); err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	h.respond(c, kept)
}

func (h *CartHandler) Clear(c *gin.Context) {
	h.Cookie.Clear(c)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *CartHandler) respond(c *gin.Context, lines []cartcookie.Line) {
	items, totalCents := h.price(c, lines)
	c.JSON(http.StatusOK, gin.H{
		"items":       items,
		"total_cents": totalCents,
		"total":       money.Format(totalCents),
	})
}

func (h *CartHandler) price(c *gin.Context, lines []cartcookie.Line) ([]cartItemOut, int) {
	items := make([]cartItemOut, 0, len(lines))
	total := 0
	for _, ln := range lines {
		p, err := h.Catalog.GetProduct(c.Request.Context(), ln.ProductID)
		if err != nil || !p.Available {
			continue
		}
		lineCents := p.PriceCents * ln.Quantity
		items = append(items, cartItemOut{
			Product:   dto.FromProduct(p),
			Quantity:  ln.Quantity,
			LineCents: lineCents,
			LineTotal: money.Format(lineCents),
		})
		total += lineCents
	}
	return items, total
}
