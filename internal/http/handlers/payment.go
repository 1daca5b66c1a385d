package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/sinahmd/ecommerce/internal/http/middleware"
	"github.com/sinahmd/ecommerce/internal/modules/payments"
	"github.com/sinahmd/ecommerce/internal/shared/apperr"
)

type PaymentHandler struct {
	Payments *payments.Service
	// FrontendBaseURL is where the gateway callback sends the browser
	// after settling; the API itself has no result page.
	FrontendBaseURL string
}

func NewPaymentHandler(svc *payments.Service, frontendBaseURL string) *PaymentHandler {
	return &PaymentHandler{Payments: svc, FrontendBaseURL: frontendBaseURL}
}

func (h *PaymentHandler) Initiate(c *gin.Context) {
	cu, _ := middleware.CurrentUser(c)
	res, err := h.Payments.Initiate(c.Request.Context(), c.Param("id"), cu.ID)
	if err != nil {
		h.failInitiate(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order_id":  res.OrderID,
		"authority": res.Authority,
		"pay_url":   res.PayURL,
	})
}

func (h *PaymentHandler) Retry(c *gin.Context) {
	cu, _ := middleware.CurrentUser(c)
	res, err := h.Payments.Retry(c.Request.Context(), c.Param("id"), cu.ID)
	if err != nil {
		h.failInitiate(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"order_id":  res.OrderID,
		"authority": res.Authority,
		"pay_url":   res.PayURL,
	})
}

func (h *PaymentHandler) failInitiate(c *gin.Context, err error) {
	var gwErr *payments.GatewayError
	switch {
	case errors.Is(err, payments.ErrOrderNotFound):
		middleware.Fail(c, apperr.NotFoundErr("Order not found."))
	case errors.Is(err, payments.ErrOrderNotPayable):
		middleware.Fail(c, apperr.InvalidErr("This order cannot be paid.", nil))
	case errors.As(err, &gwErr):
		middleware.Fail(c, apperr.InvalidErr(payments.StatusText(gwErr.Code), nil))
	default:
		middleware.Fail(c, apperr.Wrap(err))
	}
}

// Callback is the unauthenticated browser return leg from the gateway.
// Whatever happens, the user ends up on the frontend result page; the
// query string tells it what to show.
func (h *PaymentHandler) Callback(c *gin.Context) {
	authority := c.Query("Authority")
	status := c.Query("Status")

	res, err := h.Payments.HandleCallback(c.Request.Context(), authority, status)
	if err != nil {
		h.redirectResult(c, "/checkout/failed", url.Values{})
		return
	}

	q := url.Values{"order_id": {res.OrderID}}
	if res.Paid {
		if res.RefID != "" {
			q.Set("ref_id", res.RefID)
		}
		h.redirectResult(c, "/checkout/success", q)
		return
	}
	h.redirectResult(c, "/checkout/failed", q)
}

func (h *PaymentHandler) redirectResult(c *gin.Context, path string, q url.Values) {
	target := h.FrontendBaseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	c.Redirect(http.StatusFound, target)
}
