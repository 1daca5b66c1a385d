package payments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sinahmd/ecommerce/internal/config"
)

func testGateway(t *testing.T, handler http.HandlerFunc) *ZarinPal {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewZarinPal(config.ZarinPalConfig{
		MerchantID:  "test-merchant",
		BaseURL:     srv.URL,
		HTTPTimeout: 2 * time.Second,
	})
}

func TestRequestPaymentSuccess(t *testing.T) {
	gw := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pg/v4/payment/request.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body["merchant_id"] != "test-merchant" {
			t.Errorf("merchant_id = %v", body["merchant_id"])
		}
		if body["amount"] != float64(5000) {
			t.Errorf("amount = %v, want 5000", body["amount"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"code":      100,
				"message":   "Success",
				"authority": "A0000012345",
				"fee_type":  "Merchant",
				"fee":       0,
			},
			"errors": []any{},
		})
	})

	res, err := gw.RequestPayment(context.Background(), RequestInput{
		AmountRials: 5000,
		CallbackURL: "http://localhost/zarinpal/callback",
		Description: "Order x",
	})
	if err != nil {
		t.Fatalf("RequestPayment: %v", err)
	}
	if res.Code != 100 || res.Authority != "A0000012345" {
		t.Errorf("got %+v", res)
	}
}

func TestRequestPaymentGatewayError(t *testing.T) {
	gw := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data":   []any{},
			"errors": map[string]any{"code": -11, "message": "inactive"},
		})
	})

	_, err := gw.RequestPayment(context.Background(), RequestInput{AmountRials: 5000})
	var gwErr *GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatalf("want GatewayError, got %v", err)
	}
	if gwErr.Code != -11 {
		t.Errorf("code = %d, want -11", gwErr.Code)
	}
}

func TestVerifyPaymentSuccess(t *testing.T) {
	gw := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pg/v4/payment/verify.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"code":      100,
				"ref_id":    201234567,
				"card_pan":  "502229******1234",
				"card_hash": "CAFEBABE",
				"fee_type":  "Merchant",
				"fee":       120,
			},
			"errors": []any{},
		})
	})

	res, err := gw.VerifyPayment(context.Background(), VerifyInput{AmountRials: 5000, Authority: "A0000012345"})
	if err != nil {
		t.Fatalf("VerifyPayment: %v", err)
	}
	if res.RefID != "201234567" {
		t.Errorf("ref_id = %q, want 201234567", res.RefID)
	}
	if res.CardPan != "502229******1234" {
		t.Errorf("card_pan = %q", res.CardPan)
	}
	if res.FeeRials != 120 {
		t.Errorf("fee = %d, want 120", res.FeeRials)
	}
}

func TestVerifyPaymentAlreadyVerified(t *testing.T) {
	gw := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data":   map[string]any{"code": 101, "ref_id": 201234567},
			"errors": []any{},
		})
	})

	res, err := gw.VerifyPayment(context.Background(), VerifyInput{AmountRials: 5000, Authority: "A0000012345"})
	if err != nil {
		t.Fatalf("code 101 must not be an error, got %v", err)
	}
	if res.Code != CodeAlreadyVerified {
		t.Errorf("code = %d, want %d", res.Code, CodeAlreadyVerified)
	}
}

func TestVerifyPaymentFailedCode(t *testing.T) {
	gw := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data":   map[string]any{"code": -51},
			"errors": []any{},
		})
	})

	res, err := gw.VerifyPayment(context.Background(), VerifyInput{AmountRials: 5000, Authority: "A0000012345"})
	var gwErr *GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatalf("want GatewayError, got %v", err)
	}
	if res.Code != -51 {
		t.Errorf("code = %d, want -51", res.Code)
	}
}

func TestStartPayURL(t *testing.T) {
	gw := NewZarinPal(config.ZarinPalConfig{
		MerchantID:  "m",
		BaseURL:     "https://payment.zarinpal.com/",
		HTTPTimeout: time.Second,
	})
	got := gw.StartPayURL("A0000012345")
	want := "https://payment.zarinpal.com/pg/StartPay/A0000012345"
	if got != want {
		t.Errorf("StartPayURL = %q, want %q", got, want)
	}
}
