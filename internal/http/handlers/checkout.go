package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sinahmd/ecommerce/internal/http/cartcookie"
	"github.com/sinahmd/ecommerce/internal/http/middleware"
	"github.com/sinahmd/ecommerce/internal/http/validation"
	"github.com/sinahmd/ecommerce/internal/modules/orders"
	"github.com/sinahmd/ecommerce/internal/shared/apperr"
	"github.com/sinahmd/ecommerce/pkg/dto"
)

type CheckoutHandler struct {
	Orders        *orders.Service
	Cookie        *cartcookie.Codec
	ShippingCents int
}

func NewCheckoutHandler(svc *orders.Service, cookie *cartcookie.Codec, shippingCents int) *CheckoutHandler {
	return &CheckoutHandler{Orders: svc, Cookie: cookie, ShippingCents: shippingCents}
}

type checkoutItemInput struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,gte=1,max=100"`
}

type checkoutInput struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
	Email     string `json:"email" binding:"required,email,max=255"`
	Phone     string `json:"phone" binding:"required,max=20"`
	Address   string `json:"address" binding:"required"`
	City      string `json:"city" binding:"required,max=100"`
	State     string `json:"state" binding:"required,max=100"`
	Country   string `json:"country" binding:"required,max=100"`
	ZipCode   string `json:"zip_code" binding:"required,max=20"`

	// Items are optional: when absent the signed cart cookie is used.
	Items []checkoutItemInput `json:"items" binding:"omitempty,max=100,dive"`
}

// Create places an order from the posted items or the cart cookie.
// Prices come from the catalog, never from the client. The cart cookie
// is cleared once the order exists.
func (h *CheckoutHandler) Create(c *gin.Context) {
	var in checkoutInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Checkout data is invalid.", validation.FromBindError(err, &in)))
		return
	}

	cu, _ := middleware.CurrentUser(c)

	var lines []orders.CartLine
	if len(in.Items) > 0 {
		for _, it := range in.Items {
			lines = append(lines, orders.CartLine{ProductID: it.ProductID, Quantity: it.Quantity})
		}
	} else {
		for _, ln := range h.Cookie.GetLines(c) {
			lines = append(lines, orders.CartLine{ProductID: ln.ProductID, Quantity: ln.Quantity})
		}
	}

	res, err := h.Orders.CreateOrder(c.Request.Context(), orders.CreateOrderInput{
		UserID:        cu.ID,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Email:         in.Email,
		Phone:         in.Phone,
		Address:       in.Address,
		City:          in.City,
		State:         in.State,
		Country:       in.Country,
		ZipCode:       in.ZipCode,
		ShippingCents: h.ShippingCents,
		Items:         lines,
	})
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrEmptyCart):
			middleware.Fail(c, apperr.InvalidErr("Your cart is empty.", nil))
		case errors.Is(err, orders.ErrProductUnavailable):
			middleware.Fail(c, apperr.NotFoundErr("Some products in your cart are no longer available."))
		default:
			middleware.Fail(c, apperr.Wrap(err))
		}
		return
	}

	h.Cookie.Clear(c)
	c.JSON(http.StatusCreated, gin.H{"order": dto.FromOrderWithItems(res.Order, res.Items)})
}
