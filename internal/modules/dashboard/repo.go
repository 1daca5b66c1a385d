package dashboard

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sinahmd/ecommerce/internal/modules/orders"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

type Stats struct {
	TotalOrders       int64
	PendingOrders     int64
	PaidOrders        int64
	TotalCustomers    int64
	TotalProducts     int64
	RevenueCents      int64
	MonthRevenueCents int64
}

// Stats aggregates the headline numbers for the admin landing page.
// Revenue only counts paid or refunded orders; an initiated payment
// that never settled is not revenue.
func (r *Repo) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	db := r.db.WithContext(ctx)

	if err := db.Model(&orders.Order{}).Count(&s.TotalOrders).Error; err != nil {
		return Stats{}, err
	}
	if err := db.Model(&orders.Order{}).
		Where("status = ?", orders.StatusPending).
		Count(&s.PendingOrders).Error; err != nil {
		return Stats{}, err
	}
	if err := db.Model(&orders.Order{}).
		Where("payment_status = ?", orders.PaymentPaid).
		Count(&s.PaidOrders).Error; err != nil {
		return Stats{}, err
	}
	if err := db.Table("users").
		Where("role = ?", "customer").
		Count(&s.TotalCustomers).Error; err != nil {
		return Stats{}, err
	}
	if err := db.Table("products").Count(&s.TotalProducts).Error; err != nil {
		return Stats{}, err
	}

	if err := db.Model(&orders.Order{}).
		Where("payment_status IN ?", []string{orders.PaymentPaid, orders.PaymentRefunded}).
		Select("COALESCE(SUM(total_cents), 0)").
		Scan(&s.RevenueCents).Error; err != nil {
		return Stats{}, err
	}

	monthStart := time.Now().AddDate(0, 0, -30)
	if err := db.Model(&orders.Order{}).
		Where("payment_status IN ? AND created_at >= ?",
			[]string{orders.PaymentPaid, orders.PaymentRefunded}, monthStart).
		Select("COALESCE(SUM(total_cents), 0)").
		Scan(&s.MonthRevenueCents).Error; err != nil {
		return Stats{}, err
	}
	return s, nil
}

type MonthlySales struct {
	Month        string `gorm:"column:month"`
	Orders       int64  `gorm:"column:orders"`
	RevenueCents int64  `gorm:"column:revenue_cents"`
}

// SalesByMonth returns per-month paid order counts and revenue for the
// trailing twelve months, oldest first.
func (r *Repo) SalesByMonth(ctx context.Context) ([]MonthlySales, error) {
	since := time.Now().AddDate(-1, 0, 0)
	var out []MonthlySales
	err := r.db.WithContext(ctx).
		Model(&orders.Order{}).
		Select("DATE_FORMAT(created_at, '%Y-%m') AS month, COUNT(*) AS orders, COALESCE(SUM(total_cents), 0) AS revenue_cents").
		Where("payment_status IN ? AND created_at >= ?",
			[]string{orders.PaymentPaid, orders.PaymentRefunded}, since).
		Group("month").
		Order("month ASC").
		Scan(&out).Error
	return out, err
}

type TopProduct struct {
	ProductID    string `gorm:"column:product_id"`
	ProductName  string `gorm:"column:product_name"`
	UnitsSold    int64  `gorm:"column:units_sold"`
	RevenueCents int64  `gorm:"column:revenue_cents"`
}

// TopProducts ranks products by units sold across paid orders.
func (r *Repo) TopProducts(ctx context.Context, limit int) ([]TopProduct, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	var out []TopProduct
	err := r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.product_id, order_items.product_name, SUM(order_items.quantity) AS units_sold, SUM(order_items.unit_price_cents * order_items.quantity) AS revenue_cents").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.payment_status = ?", orders.PaymentPaid).
		Group("order_items.product_id, order_items.product_name").
		Order("units_sold DESC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}

// RecentOrders lists the newest orders for the dashboard feed.
func (r *Repo) RecentOrders(ctx context.Context, limit int) ([]orders.Order, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	var out []orders.Order
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
