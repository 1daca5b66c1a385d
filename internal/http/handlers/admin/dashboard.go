package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sinahmd/ecommerce/internal/http/middleware"
	"github.com/sinahmd/ecommerce/internal/modules/dashboard"
	"github.com/sinahmd/ecommerce/internal/shared/apperr"
	"github.com/sinahmd/ecommerce/internal/shared/money"
	"github.com/sinahmd/ecommerce/pkg/dto"
)

type DashboardHandler struct {
	Dashboard *dashboard.Repo
}

func NewDashboardHandler(repo *dashboard.Repo) *DashboardHandler {
	return &DashboardHandler{Dashboard: repo}
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	s, err := h.Dashboard.Stats(c.Request.Context())
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_orders":        s.TotalOrders,
		"pending_orders":      s.PendingOrders,
		"paid_orders":         s.PaidOrders,
		"total_customers":     s.TotalCustomers,
		"total_products":      s.TotalProducts,
		"revenue_cents":       s.RevenueCents,
		"revenue":             money.Format(int(s.RevenueCents)),
		"month_revenue_cents": s.MonthRevenueCents,
		"month_revenue":       money.Format(int(s.MonthRevenueCents)),
	})
}

func (h *DashboardHandler) Sales(c *gin.Context) {
	rows, err := h.Dashboard.SalesByMonth(c.Request.Context())
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	type monthOut struct {
		Month        string `json:"month"`
		Orders       int64  `json:"orders"`
		RevenueCents int64  `json:"revenue_cents"`
		Revenue      string `json:"revenue"`
	}
	out := make([]monthOut, len(rows))
	for i, r := range rows {
		out[i] = monthOut{
			Month:        r.Month,
			Orders:       r.Orders,
			RevenueCents: r.RevenueCents,
			Revenue:      money.Format(int(r.RevenueCents)),
		}
	}
	c.JSON(http.StatusOK, gin.H{"months": out})
}

func (h *DashboardHandler) TopProducts(c *gin.Context) {
	rows, err := h.Dashboard.TopProducts(c.Request.Context(), 10)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	type productOut struct {
		ProductID    string `json:"product_id"`
		ProductName  string `json:"product_name"`
		UnitsSold    int64  `json:"units_sold"`
		RevenueCents int64  `json:"revenue_cents"`
		Revenue      string `json:"revenue"`
	}
	out := make([]productOut, len(rows))
	for i, r := range rows {
		out[i] = productOut{
			ProductID:    r.ProductID,
			ProductName:  r.ProductName,
			UnitsSold:    r.UnitsSold,
			RevenueCents: r.RevenueCents,
			Revenue:      money.Format(int(r.RevenueCents)),
		}
	}
	c.JSON(http.StatusOK, gin.H{"products": out})
}

func (h *DashboardHandler) RecentOrders(c *gin.Context) {
	rows, err := h.Dashboard.RecentOrders(c.Request.Context(), 10)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": dto.FromOrders(rows)})
}
