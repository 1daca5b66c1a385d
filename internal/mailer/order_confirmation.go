package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/sinahmd/ecommerce/internal/config"
	"github.com/sinahmd/ecommerce/internal/modules/orders"
	"github.com/sinahmd/ecommerce/internal/shared/money"
)

// OrderNotifier emails the customer once their payment settles.
type OrderNotifier struct {
	Mailer Service
	Cfg    config.SMTPConfig
}

func NewOrderNotifier(m Service, cfg config.SMTPConfig) *OrderNotifier {
	return &OrderNotifier{Mailer: m, Cfg: cfg}
}

func (n *OrderNotifier) OrderPaid(ctx context.Context, o orders.Order, items []orders.OrderItem) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", o.FirstName)
	fmt.Fprintf(&b, "Your payment for order %s was received.\n\n", o.ID)
	for _, it := range items {
		fmt.Fprintf(&b, "  %dx %s  %s\n", it.Quantity, it.ProductName, money.Format(it.LineTotalCents()))
	}
	fmt.Fprintf(&b, "\nShipping: %s\n", money.Format(o.ShippingCents))
	fmt.Fprintf(&b, "Total:    %s\n", money.Format(o.TotalCents))
	if o.RefID != nil {
		fmt.Fprintf(&b, "Payment reference: %s\n", *o.RefID)
	}
	b.WriteString("\nWe'll let you know when your order ships.\n")

	return n.Mailer.Send(ctx, Email{
		FromName: n.Cfg.FromName,
		From:     n.Cfg.From,
		To:       []string{o.Email},
		Subject:  fmt.Sprintf("Order confirmation %s", o.ID),
		TextBody: b.String(),
	})
}
