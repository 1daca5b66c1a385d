package orders

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm open: %v", err)
	}
	return db, mock
}

func productRows(mock sqlmock.Sqlmock) *sqlmock.Rows {
	return mock.NewRows([]string{"id", "category_id", "name", "slug", "price_cents", "available"})
}

func TestCreateOrderPricesServerSide(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewService(db)

	mock.ExpectQuery("SELECT \\* FROM `products`").
		WillReturnRows(productRows(mock).
			AddRow("p1", "c1", "Widget", "widget", 2500, true).
			AddRow("p2", "c1", "Gadget", "gadget", 1000, true))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `orders`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `order_items`").
		WillReturnResult(sqlmock.NewResult(1, 2))
	mock.ExpectCommit()

	res, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		UserID:        "u1",
		FirstName:     "Ada",
		LastName:      "Lovelace",
		Email:         "Ada@Example.com",
		Phone:         "0912",
		Address:       "1 Main St",
		City:          "Tehran",
		State:         "Tehran",
		Country:       "IR",
		ZipCode:       "12345",
		ShippingCents: 1000,
		Items: []CartLine{
			{ProductID: "p1", Quantity: 2},
			{ProductID: "p2", Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	// 2*2500 + 1*1000; shipping stays out of the total.
	if res.Order.TotalCents != 6000 {
		t.Errorf("total = %d, want 6000", res.Order.TotalCents)
	}
	if res.Order.ShippingCents != 1000 {
		t.Errorf("shipping = %d, want 1000", res.Order.ShippingCents)
	}
	if res.Order.Email != "ada@example.com" {
		t.Errorf("email not normalized: %q", res.Order.Email)
	}
	if res.Order.Status != StatusPending || res.Order.PaymentStatus != PaymentPending {
		t.Errorf("new order status = %s/%s", res.Order.Status, res.Order.PaymentStatus)
	}
	if len(res.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(res.Items))
	}
	for _, it := range res.Items {
		if it.ProductID == "p1" && (it.UnitPriceCents != 2500 || it.Quantity != 2) {
			t.Errorf("p1 snapshot wrong: %+v", it)
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCreateOrderCollapsesDuplicateLines(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewService(db)

	mock.ExpectQuery("SELECT \\* FROM `products`").
		WillReturnRows(productRows(mock).
			AddRow("p1", "c1", "Widget", "widget", 2500, true))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `orders`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `order_items`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	res, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		UserID: "u1", FirstName: "A", LastName: "B", Email: "a@b.co",
		Phone: "1", Address: "x", City: "y", State: "z", Country: "IR", ZipCode: "1",
		Items: []CartLine{
			{ProductID: "p1", Quantity: 1},
			{ProductID: "p1", Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if len(res.Items) != 1 {
		t.Fatalf("items = %d, want 1 collapsed line", len(res.Items))
	}
	if res.Items[0].Quantity != 3 {
		t.Errorf("quantity = %d, want 3", res.Items[0].Quantity)
	}
}

func TestCreateOrderRejectsEmptyCart(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewService(db)

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{UserID: "u1"})
	if !errors.Is(err, ErrEmptyCart) {
		t.Errorf("want ErrEmptyCart, got %v", err)
	}
}

func TestCreateOrderRejectsUnavailableProduct(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewService(db)

	// Only one of the two requested products comes back available.
	mock.ExpectQuery("SELECT \\* FROM `products`").
		WillReturnRows(productRows(mock).
			AddRow("p1", "c1", "Widget", "widget", 2500, true))

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		UserID: "u1", FirstName: "A", LastName: "B", Email: "a@b.co",
		Phone: "1", Address: "x", City: "y", State: "z", Country: "IR", ZipCode: "1",
		Items: []CartLine{
			{ProductID: "p1", Quantity: 1},
			{ProductID: "p2", Quantity: 1},
		},
	})
	if !errors.Is(err, ErrProductUnavailable) {
		t.Errorf("want ErrProductUnavailable, got %v", err)
	}
}
