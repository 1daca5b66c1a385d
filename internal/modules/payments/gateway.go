package payments

import "context"

// Gateway codes that mean the payment is settled. 100 is a fresh
// verification, 101 means the authority was already verified.
const (
	CodeOK              = 100
	CodeAlreadyVerified = 101
)

// CallbackStatusOK is the Status query value the gateway sends on the
// first (non-authoritative) callback leg.
const CallbackStatusOK = "OK"

type RequestInput struct {
	AmountRials int
	CallbackURL string
	Description string
	Email       string
	Mobile      string
}

type RequestResult struct {
	Code      int
	Authority string
	FeeType   string
	FeeRials  int
}

type VerifyInput struct {
	AmountRials int
	Authority   string
}

type VerifyResult struct {
	Code     int
	RefID    string
	CardPan  string
	CardHash string
	FeeType  string
	FeeRials int
}

// Gateway is the outbound payment provider surface. The real
// implementation talks to ZarinPal over HTTPS; tests use fakes.
type Gateway interface {
	Name() string
	RequestPayment(ctx context.Context, in RequestInput) (RequestResult, error)
	VerifyPayment(ctx context.Context, in VerifyInput) (VerifyResult, error)
	// StartPayURL builds the hosted payment page URL for an authority.
	StartPayURL(authority string) string
}
