package jobs

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/sinahmd/ecommerce/internal/modules/orders"
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

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

func orderRows(mock sqlmock.Sqlmock) *sqlmock.Rows {
	return mock.NewRows([]string{
		"id", "user_id", "status", "payment_status", "total_cents", "shipping_cents", "authority",
	})
}

// The ledger is append-only: sweeping writes a new failed row and any
// UPDATE against transactions fails the mock.
func TestSweepOneAppendsFailedAttempt(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewSweeper(db, testLogger(), time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `orders` .* FOR UPDATE").
		WillReturnRows(orderRows(mock).
			AddRow("o1", "u1", orders.StatusPending, orders.PaymentPending, 50000, 1000, "A1"))
	mock.ExpectExec("UPDATE `orders`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `transactions`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	stale := orders.Transaction{ID: "t1", OrderID: "o1", Authority: strPtr("A1"), Status: orders.TxPending}
	if err := s.sweepOne(context.Background(), stale); err != nil {
		t.Fatalf("sweepOne: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestSweepOneSkipsSupersededAuthority(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewSweeper(db, testLogger(), time.Hour)

	// A retry replaced the order's authority; the old attempt's stale
	// row must not fail the one in flight.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `orders` .* FOR UPDATE").
		WillReturnRows(orderRows(mock).
			AddRow("o1", "u1", orders.StatusPending, orders.PaymentPending, 50000, 1000, "A2"))
	mock.ExpectCommit()

	stale := orders.Transaction{ID: "t1", OrderID: "o1", Authority: strPtr("A1"), Status: orders.TxPending}
	if err := s.sweepOne(context.Background(), stale); err != nil {
		t.Fatalf("sweepOne: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestSweepOneSkipsSettledOrder(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewSweeper(db, testLogger(), time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `orders` .* FOR UPDATE").
		WillReturnRows(orderRows(mock).
			AddRow("o1", "u1", orders.StatusProcessing, orders.PaymentPaid, 50000, 1000, "A1"))
	mock.ExpectCommit()

	stale := orders.Transaction{ID: "t1", OrderID: "o1", Authority: strPtr("A1"), Status: orders.TxPending}
	if err := s.sweepOne(context.Background(), stale); err != nil {
		t.Fatalf("sweepOne: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRunSweepsStalePending(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewSweeper(db, testLogger(), time.Hour)

	mock.ExpectQuery("SELECT (.+) FROM `transactions` JOIN orders").
		WillReturnRows(mock.NewRows([]string{"id", "order_id", "amount_cents", "authority", "status", "created_at"}).
			AddRow("t1", "o1", 50000, "A1", orders.TxPending, time.Now().Add(-2*time.Hour)))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `orders` .* FOR UPDATE").
		WillReturnRows(orderRows(mock).
			AddRow("o1", "u1", orders.StatusPending, orders.PaymentPending, 50000, 1000, "A1"))
	mock.ExpectExec("UPDATE `orders`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `transactions`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	s.Run(context.Background())

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
