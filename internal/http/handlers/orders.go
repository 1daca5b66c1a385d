package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sinahmd/ecommerce/internal/http/middleware"
	"github.com/sinahmd/ecommerce/internal/modules/orders"
	"github.com/sinahmd/ecommerce/internal/shared/apperr"
	"github.com/sinahmd/ecommerce/pkg/dto"
)

type OrdersHandler struct {
	Orders *orders.Repo
}

func NewOrdersHandler(repo *orders.Repo) *OrdersHandler {
	return &OrdersHandler{Orders: repo}
}

func (h *OrdersHandler) List(c *gin.Context) {
	cu, _ := middleware.CurrentUser(c)
	out, err := h.Orders.ListByUser(c.Request.Context(), cu.ID)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": dto.FromOrders(out)})
}

func (h *OrdersHandler) Detail(c *gin.Context) {
	cu, _ := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	o, err := h.Orders.GetForUser(ctx, c.Param("id"), cu.ID)
	if err != nil {
		middleware.Fail(c, orNotFound(err, "Order not found."))
		return
	}

	_, items, err := h.Orders.GetWithItems(ctx, o.ID)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	txs, err := h.Orders.ListTransactions(ctx, o.ID)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order":        dto.FromOrderWithItems(o, items),
		"transactions": dto.FromTransactions(txs),
	})
}
