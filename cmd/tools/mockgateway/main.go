// Command mockgateway runs a local stand-in for the payment gateway:
// it accepts payment requests, shows a bare approval page and drives
// the callback + verify flow against a locally running API, so the
// whole payment loop works without real merchant credentials.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
)

type session struct {
	Authority   string
	AmountRials int
	CallbackURL string
	Verified    bool
}

type server struct {
	mu       sync.Mutex
	sessions map[string]*session
}

func main() {
	addr := flag.String("addr", ":8090", "listen address")
	flag.Parse()

	s := &server{sessions: map[string]*session{}}

	mux := http.NewServeMux()
	mux.HandleFunc("/pg/v4/payment/request.json", s.handleRequest)
	mux.HandleFunc("/pg/v4/payment/verify.json", s.handleVerify)
	mux.HandleFunc("/pg/StartPay/", s.handleStartPay)

	log.Printf("mock gateway listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, mux))
}

func (s *server) handleRequest(w http.ResponseWriter, r *http.Request) {
	var in struct {
		MerchantID  string `json:"merchant_id"`
		Amount      int    `json:"amount"`
		CallbackURL string `json:"callback_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, -9)
		return
	}
	if in.MerchantID == "" || in.Amount <= 0 || in.CallbackURL == "" {
		writeError(w, -9)
		return
	}

	authority := "A" + strings.ReplaceAll(uuid.NewString(), "-", "")
	s.mu.Lock()
	s.sessions[authority] = &session{
		Authority:   authority,
		AmountRials: in.Amount,
		CallbackURL: in.CallbackURL,
	}
	s.mu.Unlock()

	writeData(w, map[string]any{
		"code":      100,
		"message":   "Success",
		"authority": authority,
		"fee_type":  "Merchant",
		"fee":       0,
	})
}

// handleStartPay renders a minimal approve/cancel page in place of the
// hosted gateway UI.
func (s *server) handleStartPay(w http.ResponseWriter, r *http.Request) {
	authority := strings.TrimPrefix(r.URL.Path, "/pg/StartPay/")

	s.mu.Lock()
	sess, ok := s.sessions[authority]
	s.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}

	if outcome := r.URL.Query().Get("outcome"); outcome != "" {
		status := "OK"
		if outcome != "ok" {
			status = "NOK"
		}
		http.Redirect(w, r, fmt.Sprintf("%s?Authority=%s&Status=%s", sess.CallbackURL, authority, status), http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<html><body>
<h1>Mock gateway</h1>
<p>Authority %s, amount %d rials</p>
<p><a href="?outcome=ok">Pay</a> | <a href="?outcome=cancel">Cancel</a></p>
</body></html>`, authority, sess.AmountRials)
}

func (s *server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var in struct {
		MerchantID string `json:"merchant_id"`
		Amount     int    `json:"amount"`
		Authority  string `json:"authority"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, -9)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[in.Authority]
	if !ok {
		writeError(w, -54)
		return
	}
	if in.Amount != sess.AmountRials {
		writeError(w, -50)
		return
	}

	code := 100
	if sess.Verified {
		code = 101
	}
	sess.Verified = true

	writeData(w, map[string]any{
		"code":      code,
		"message":   "Verified",
		"ref_id":    json.Number(fmt.Sprintf("%d", 100000000+len(s.sessions))),
		"card_pan":  "502229******1234",
		"card_hash": strings.Repeat("F", 64),
		"fee_type":  "Merchant",
		"fee":       0,
	})
}

func writeData(w http.ResponseWriter, data map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data, "errors": []any{}})
}

func writeError(w http.ResponseWriter, code int) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data":   []any{},
		"errors": map[string]any{"code": code, "message": "error"},
	})
}
