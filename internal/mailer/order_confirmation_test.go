package mailer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sinahmd/ecommerce/internal/config"
	"github.com/sinahmd/ecommerce/internal/modules/orders"
)

func TestOrderPaidEmail(t *testing.T) {
	mock := &Mock{}
	n := NewOrderNotifier(mock, config.SMTPConfig{From: "shop@example.com", FromName: "Shop"})

	ref := "201"
	o := orders.Order{
		ID:            "o1",
		FirstName:     "Ada",
		Email:         "ada@example.com",
		TotalCents:    6000,
		ShippingCents: 1000,
		RefID:         &ref,
	}
	items := []orders.OrderItem{
		{ProductName: "Widget", Quantity: 2, UnitPriceCents: 2500},
		{ProductName: "Gadget", Quantity: 1, UnitPriceCents: 1000},
	}

	if err := n.OrderPaid(context.Background(), o, items); err != nil {
		t.Fatalf("OrderPaid: %v", err)
	}
	if len(mock.Sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(mock.Sent))
	}

	e := mock.Sent[0]
	if len(e.To) != 1 || e.To[0] != "ada@example.com" {
		t.Errorf("to = %v", e.To)
	}
	if e.Subject != "Order confirmation o1" {
		t.Errorf("subject = %q", e.Subject)
	}
	for _, want := range []string{"2x Widget", "50.00", "Shipping: 10.00", "Total:    60.00", "201"} {
		if !strings.Contains(e.TextBody, want) {
			t.Errorf("body missing %q:\n%s", want, e.TextBody)
		}
	}
}

func TestOrderPaidPropagatesSendError(t *testing.T) {
	mock := &Mock{Err: errors.New("smtp down")}
	n := NewOrderNotifier(mock, config.SMTPConfig{From: "shop@example.com"})

	err := n.OrderPaid(context.Background(), orders.Order{ID: "o1", Email: "a@b.co"}, nil)
	if err == nil {
		t.Fatal("want send error")
	}
	if len(mock.Sent) != 0 {
		t.Errorf("failed send must not be recorded, got %d", len(mock.Sent))
	}
}
