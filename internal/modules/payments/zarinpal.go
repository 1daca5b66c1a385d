package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sinahmd/ecommerce/internal/config"
)

// ZarinPal implements Gateway against the v4 REST API
// (payment/request.json, payment/verify.json). The HTTP client always
// carries a timeout; a hanging gateway must not pin a handler forever.
type ZarinPal struct {
	merchantID string
	baseURL    string
	client     *http.Client
}

func NewZarinPal(cfg config.ZarinPalConfig) *ZarinPal {
	return &ZarinPal{
		merchantID: cfg.MerchantID,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		client:     &http.Client{Timeout: cfg.HTTPTimeout},
	}
}

func (z *ZarinPal) Name() string { return "zarinpal" }

func (z *ZarinPal) StartPayURL(authority string) string {
	return z.baseURL + "/pg/StartPay/" + authority
}

type zpRequestBody struct {
	MerchantID  string            `json:"merchant_id"`
	Amount      int               `json:"amount"`
	CallbackURL string            `json:"callback_url"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type zpVerifyBody struct {
	MerchantID string `json:"merchant_id"`
	Amount     int    `json:"amount"`
	Authority  string `json:"authority"`
}

// The gateway replies with data as an object on success and an empty
// array on failure, so data is decoded lazily.
type zpEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors json.RawMessage `json:"errors"`
}

type zpRequestData struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Authority string `json:"authority"`
	FeeType   string `json:"fee_type"`
	Fee       int    `json:"fee"`
}

type zpVerifyData struct {
	Code     int         `json:"code"`
	Message  string      `json:"message"`
	RefID    json.Number `json:"ref_id"`
	CardPan  string      `json:"card_pan"`
	CardHash string      `json:"card_hash"`
	FeeType  string      `json:"fee_type"`
	Fee      int         `json:"fee"`
}

type zpError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (z *ZarinPal) RequestPayment(ctx context.Context, in RequestInput) (RequestResult, error) {
	body := zpRequestBody{
		MerchantID:  z.merchantID,
		Amount:      in.AmountRials,
		CallbackURL: in.CallbackURL,
		Description: in.Description,
	}
	if in.Email != "" || in.Mobile != "" {
		body.Metadata = map[string]string{}
		if in.Email != "" {
			body.Metadata["email"] = in.Email
		}
		if in.Mobile != "" {
			body.Metadata["mobile"] = in.Mobile
		}
	}

	env, err := z.post(ctx, "/pg/v4/payment/request.json", body)
	if err != nil {
		return RequestResult{}, err
	}
	if code, ok := decodeError(env); ok {
		return RequestResult{Code: code}, &GatewayError{Code: code}
	}

	var data zpRequestData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return RequestResult{}, fmt.Errorf("zarinpal: malformed request response: %w", err)
	}
	res := RequestResult{
		Code:      data.Code,
		Authority: data.Authority,
		FeeType:   data.FeeType,
		FeeRials:  data.Fee,
	}
	if data.Code != CodeOK || data.Authority == "" {
		return res, &GatewayError{Code: data.Code}
	}
	return res, nil
}

func (z *ZarinPal) VerifyPayment(ctx context.Context, in VerifyInput) (VerifyResult, error) {
	body := zpVerifyBody{
		MerchantID: z.merchantID,
		Amount:     in.AmountRials,
		Authority:  in.Authority,
	}

	env, err := z.post(ctx, "/pg/v4/payment/verify.json", body)
	if err != nil {
		return VerifyResult{}, err
	}
	if code, ok := decodeError(env); ok {
		return VerifyResult{Code: code}, &GatewayError{Code: code}
	}

	var data zpVerifyData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return VerifyResult{}, fmt.Errorf("zarinpal: malformed verify response: %w", err)
	}
	res := VerifyResult{
		Code:     data.Code,
		RefID:    data.RefID.String(),
		CardPan:  data.CardPan,
		CardHash: data.CardHash,
		FeeType:  data.FeeType,
		FeeRials: data.Fee,
	}
	if data.Code != CodeOK && data.Code != CodeAlreadyVerified {
		return res, &GatewayError{Code: data.Code}
	}
	return res, nil
}

func (z *ZarinPal) post(ctx context.Context, path string, body any) (zpEnvelope, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return zpEnvelope{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, z.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return zpEnvelope{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := z.client.Do(req)
	if err != nil {
		return zpEnvelope{}, fmt.Errorf("zarinpal: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return zpEnvelope{}, fmt.Errorf("zarinpal: reading response: %w", err)
	}

	var env zpEnvelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return zpEnvelope{}, fmt.Errorf("zarinpal: malformed response (http %d): %w", resp.StatusCode, err)
	}
	return env, nil
}

// decodeError extracts the error code when the envelope carries an
// errors object instead of data.
func decodeError(env zpEnvelope) (int, bool) {
	if len(env.Errors) == 0 || string(env.Errors) == "[]" || string(env.Errors) == "null" {
		return 0, false
	}
	var e zpError
	if err := json.Unmarshal(env.Errors, &e); err != nil {
		return 0, false
	}
	if e.Code == 0 {
		return 0, false
	}
	return e.Code, true
}
