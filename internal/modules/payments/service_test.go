package payments

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/sinahmd/ecommerce/internal/modules/orders"
)

type fakeGateway struct {
	requestResult RequestResult
	requestErr    error
	verifyResult  VerifyResult
	verifyErr     error

	requestCalls int
	verifyCalls  int
}

func (f *fakeGateway) Name() string { return "fake" }

func (f *fakeGateway) RequestPayment(ctx context.Context, in RequestInput) (RequestResult, error) {
	f.requestCalls++
	return f.requestResult, f.requestErr
}

func (f *fakeGateway) VerifyPayment(ctx context.Context, in VerifyInput) (VerifyResult, error) {
	f.verifyCalls++
	return f.verifyResult, f.verifyErr
}

func (f *fakeGateway) StartPayURL(authority string) string {
	return "https://gateway.test/pg/StartPay/" + authority
}

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

func orderRows(mock sqlmock.Sqlmock) *sqlmock.Rows {
	return mock.NewRows([]string{
		"id", "user_id", "email", "phone", "status", "payment_status",
		"total_cents", "shipping_cents", "authority",
	})
}

func TestInitiateHappyPath(t *testing.T) {
	db, mock := newMockDB(t)
	gw := &fakeGateway{
		requestResult: RequestResult{Code: CodeOK, Authority: "A123"},
	}
	svc := NewService(db, gw, "http://api.test/zarinpal/callback", nil, testLogger())

	mock.ExpectQuery("SELECT \\* FROM `orders`").
		WillReturnRows(orderRows(mock).
			AddRow("o1", "u1", "a@b.co", "0912", orders.StatusPending, orders.PaymentPending, 50000, 1000, nil))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `orders` .* FOR UPDATE").
		WillReturnRows(orderRows(mock).
			AddRow("o1", "u1", "a@b.co", "0912", orders.StatusPending, orders.PaymentPending, 50000, 1000, nil))
	mock.ExpectExec("UPDATE `orders`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `transactions`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `gateway_events`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	res, err := svc.Initiate(context.Background(), "o1", "u1")
	if err != nil {
		t.Fatalf("Initiate: %v", err)
	}
	if res.Authority != "A123" {
		t.Errorf("authority = %q", res.Authority)
	}
	if res.PayURL != "https://gateway.test/pg/StartPay/A123" {
		t.Errorf("pay_url = %q", res.PayURL)
	}
	if gw.requestCalls != 1 {
		t.Errorf("request calls = %d", gw.requestCalls)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestInitiateRejectsPaidOrder(t *testing.T) {
	db, mock := newMockDB(t)
	gw := &fakeGateway{}
	svc := NewService(db, gw, "http://api.test/zarinpal/callback", nil, testLogger())

	mock.ExpectQuery("SELECT \\* FROM `orders`").
		WillReturnRows(orderRows(mock).
			AddRow("o1", "u1", "a@b.co", "0912", orders.StatusProcessing, orders.PaymentPaid, 50000, 1000, nil))

	_, err := svc.Initiate(context.Background(), "o1", "u1")
	if !errors.Is(err, ErrOrderNotPayable) {
		t.Fatalf("want ErrOrderNotPayable, got %v", err)
	}
	if gw.requestCalls != 0 {
		t.Errorf("gateway must not be called for a paid order")
	}
}

func TestInitiateGatewayErrorLeavesOrderUntouched(t *testing.T) {
	db, mock := newMockDB(t)
	gw := &fakeGateway{requestErr: &GatewayError{Code: -11}}
	svc := NewService(db, gw, "http://api.test/zarinpal/callback", nil, testLogger())

	mock.ExpectQuery("SELECT \\* FROM `orders`").
		WillReturnRows(orderRows(mock).
			AddRow("o1", "u1", "a@b.co", "0912", orders.StatusPending, orders.PaymentPending, 50000, 1000, nil))

	_, err := svc.Initiate(context.Background(), "o1", "u1")
	var gwErr *GatewayError
	if !errors.As(err, &gwErr) || gwErr.Code != -11 {
		t.Fatalf("want GatewayError(-11), got %v", err)
	}
	// No Begin was expected: a failed gateway call writes nothing.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestHandleCallbackUserCancelled(t *testing.T) {
	db, mock := newMockDB(t)
	gw := &fakeGateway{}
	svc := NewService(db, gw, "http://api.test/zarinpal/callback", nil, testLogger())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `orders` .* FOR UPDATE").
		WillReturnRows(orderRows(mock).
			AddRow("o1", "u1", "a@b.co", "0912", orders.StatusPending, orders.PaymentPending, 50000, 1000, "A123"))
	mock.ExpectExec("INSERT INTO `gateway_events`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `transactions`").
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("UPDATE `orders`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `transactions`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	res, err := svc.HandleCallback(context.Background(), "A123", "NOK")
	if err != nil {
		t.Fatalf("HandleCallback: %v", err)
	}
	if res.Paid {
		t.Error("cancelled payment reported as paid")
	}
	if gw.verifyCalls != 0 {
		t.Errorf("verify must not run for a cancelled callback, calls = %d", gw.verifyCalls)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestHandleCallbackReplayIsNoOp(t *testing.T) {
	db, mock := newMockDB(t)
	gw := &fakeGateway{}
	svc := NewService(db, gw, "http://api.test/zarinpal/callback", nil, testLogger())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `orders` .* FOR UPDATE").
		WillReturnRows(orderRows(mock).
			AddRow("o1", "u1", "a@b.co", "0912", orders.StatusProcessing, orders.PaymentPaid, 50000, 1000, "A123"))
	mock.ExpectExec("INSERT INTO `gateway_events`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `transactions`").
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectCommit()

	res, err := svc.HandleCallback(context.Background(), "A123", "OK")
	if err != nil {
		t.Fatalf("HandleCallback: %v", err)
	}
	if !res.Paid || !res.Replayed {
		t.Errorf("replay result = %+v, want paid replay", res)
	}
	if gw.verifyCalls != 0 {
		t.Errorf("verify must not run for a replayed authority, calls = %d", gw.verifyCalls)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestHandleCallbackUnknownAuthority(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewService(db, &fakeGateway{}, "http://api.test/zarinpal/callback", nil, testLogger())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `orders` .* FOR UPDATE").
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectRollback()

	_, err := svc.HandleCallback(context.Background(), "A999", "OK")
	if !errors.Is(err, ErrUnknownAuthority) {
		t.Errorf("want ErrUnknownAuthority, got %v", err)
	}
}

func TestHandleCallbackVerifySuccess(t *testing.T) {
	db, mock := newMockDB(t)
	gw := &fakeGateway{
		verifyResult: VerifyResult{Code: CodeOK, RefID: "201", CardPan: "5022**", FeeType: "Merchant", FeeRials: 10},
	}
	svc := NewService(db, gw, "http://api.test/zarinpal/callback", nil, testLogger())

	// Phase 1: lock, record, no replay, status OK falls through.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `orders` .* FOR UPDATE").
		WillReturnRows(orderRows(mock).
			AddRow("o1", "u1", "a@b.co", "0912", orders.StatusPending, orders.PaymentPending, 50000, 1000, "A123"))
	mock.ExpectExec("INSERT INTO `gateway_events`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `transactions`").
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectCommit()

	// Phase 3: re-lock and apply the verified outcome.
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `orders` .* FOR UPDATE").
		WillReturnRows(orderRows(mock).
			AddRow("o1", "u1", "a@b.co", "0912", orders.StatusPending, orders.PaymentPending, 50000, 1000, "A123"))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `transactions`").
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO `gateway_events`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE `orders`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `transactions`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	res, err := svc.HandleCallback(context.Background(), "A123", "OK")
	if err != nil {
		t.Fatalf("HandleCallback: %v", err)
	}
	if !res.Paid || res.RefID != "201" {
		t.Errorf("result = %+v, want paid with ref 201", res)
	}
	if gw.verifyCalls != 1 {
		t.Errorf("verify calls = %d, want 1", gw.verifyCalls)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
