package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sinahmd/ecommerce/internal/http/middleware"
	"github.com/sinahmd/ecommerce/internal/http/validation"
	"github.com/sinahmd/ecommerce/internal/modules/orders"
	"github.com/sinahmd/ecommerce/internal/modules/payments"
	"github.com/sinahmd/ecommerce/internal/shared/apperr"
	"github.com/sinahmd/ecommerce/pkg/dto"
)

type OrdersHandler struct {
	Orders   *orders.Repo
	Admin    *orders.AdminService
	Payments *payments.Service
}

func NewOrdersHandler(repo *orders.Repo, adminSvc *orders.AdminService, paySvc *payments.Service) *OrdersHandler {
	return &OrdersHandler{Orders: repo, Admin: adminSvc, Payments: paySvc}
}

func (h *OrdersHandler) List(c *gin.Context) {
	page, size := pageParams(c)
	res, err := h.Orders.AdminList(c.Request.Context(), orders.AdminListParams{
		Q:        c.Query("q"),
		Status:   c.Query("status"),
		Page:     page,
		PageSize: size,
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orders": dto.FromOrders(res.Items),
		"total":  res.Total,
	})
}

func (h *OrdersHandler) Detail(c *gin.Context) {
	ctx := c.Request.Context()
	o, items, events, err := h.Orders.AdminGetDetail(ctx, c.Param("id"))
	if err != nil {
		middleware.Fail(c, orNotFound(err, "Order not found."))
		return
	}

	txs, err := h.Orders.ListTransactions(ctx, o.ID)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order":        dto.FromOrderWithItems(o, items),
		"events":       dto.FromOrderEvents(events),
		"transactions": dto.FromTransactions(txs),
	})
}

type transitionInput struct {
	Action string `json:"action" binding:"required,oneof=process ship deliver cancel"`
	Note   string `json:"note" binding:"omitempty,max=255"`
}

func (h *OrdersHandler) Transition(c *gin.Context) {
	var in transitionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Transition data is invalid.", validation.FromBindError(err, &in)))
		return
	}

	cu, _ := middleware.CurrentUser(c)
	err := h.Admin.Transition(c.Request.Context(), orders.TransitionInput{
		OrderID:     c.Param("id"),
		ActorUserID: cu.ID,
		Action:      in.Action,
		Note:        in.Note,
	})
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrInvalidTransition):
			middleware.Fail(c, apperr.ConflictErr("This status change is not allowed."))
		default:
			middleware.Fail(c, orNotFound(err, "Order not found."))
		}
		return
	}

	o, err := h.Orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": dto.FromOrder(o)})
}

type refundInput struct {
	Note string `json:"note" binding:"omitempty,max=255"`
}

func (h *OrdersHandler) Refund(c *gin.Context) {
	var in refundInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Refund data is invalid.", validation.FromBindError(err, &in)))
		return
	}

	cu, _ := middleware.CurrentUser(c)
	err := h.Payments.Refund(c.Request.Context(), c.Param("id"), cu.ID, in.Note)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrNotRefundable):
			middleware.Fail(c, apperr.InvalidErr("Only paid orders can be refunded.", nil))
		default:
			middleware.Fail(c, orNotFound(err, "Order not found."))
		}
		return
	}

	o, err := h.Orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": dto.FromOrder(o)})
}
