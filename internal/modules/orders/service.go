package orders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sinahmd/ecommerce/internal/modules/catalog"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

type CartLine struct {
	ProductID string
	Quantity  int
}

type CreateOrderInput struct {
	UserID    string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
	City      string
	State     string
	Country   string
	ZipCode   string

	ShippingCents int
	Items         []CartLine
}

type CreateOrderResult struct {
	Order Order
	Items []OrderItem
}

// CreateOrder validates the cart against the catalog, prices it
// server-side (client-supplied prices are never accepted) and creates
// the order with its items in one transaction. Any unknown or
// unavailable product rejects the whole request; no partial order.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (CreateOrderResult, error) {
	if len(in.Items) == 0 {
		return CreateOrderResult{}, ErrEmptyCart
	}

	// Collapse duplicate lines.
	qtyByID := make(map[string]int, len(in.Items))
	ids := make([]string, 0, len(in.Items))
	for _, ln := range in.Items {
		q := ln.Quantity
		if q < 1 {
			q = 1
		}
		if _, ok := qtyByID[ln.ProductID]; !ok {
			ids = append(ids, ln.ProductID)
		}
		qtyByID[ln.ProductID] += q
	}

	var products []catalog.Product
	if err := s.db.WithContext(ctx).
		Where("id IN ? AND available = ?", ids, true).
		Find(&products).Error; err != nil {
		return CreateOrderResult{}, err
	}
	if len(products) != len(ids) {
		return CreateOrderResult{}, ErrProductUnavailable
	}

	now := time.Now()
	ord := Order{
		ID:            uuid.NewString(),
		UserID:        in.UserID,
		FirstName:     strings.TrimSpace(in.FirstName),
		LastName:      strings.TrimSpace(in.LastName),
		Email:         strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:         strings.TrimSpace(in.Phone),
		Address:       strings.TrimSpace(in.Address),
		City:          strings.TrimSpace(in.City),
		State:         strings.TrimSpace(in.State),
		Country:       strings.TrimSpace(in.Country),
		ZipCode:       strings.TrimSpace(in.ZipCode),
		Status:        StatusPending,
		PaymentStatus: PaymentPending,
		ShippingCents: in.ShippingCents,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// The order total is the item sum alone; shipping lives in its own
	// column and is never folded in.
	items := make([]OrderItem, 0, len(products))
	total := 0
	for _, p := range products {
		qty := qtyByID[p.ID]
		items = append(items, OrderItem{
			ID:             uuid.NewString(),
			OrderID:        ord.ID,
			ProductID:      p.ID,
			ProductName:    p.Name,
			UnitPriceCents: p.PriceCents,
			Quantity:       qty,
			CreatedAt:      now,
		})
		total += p.PriceCents * qty
	}
	ord.TotalCents = total

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&ord).Error; err != nil {
			return err
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		return CreateOrderResult{}, err
	}
	return CreateOrderResult{Order: ord, Items: items}, nil
}
