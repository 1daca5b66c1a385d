package payments

import "fmt"

// Gateway result code descriptions, keyed by ZarinPal's documented
// codes. Kept as a pure lookup so it is testable on its own.
var statusTexts = map[int]string{
	-9:  "Validation error in the payment request.",
	-10: "Invalid merchant id or IP address.",
	-11: "Merchant id is not active.",
	-12: "Too many attempts, try again later.",
	-15: "Merchant access has been suspended.",
	-16: "Merchant level does not allow this operation.",
	-30: "Merchant is not allowed to use floating wages.",
	-33: "Floating wage percentages are out of range.",
	-50: "Paid amount differs from the requested amount.",
	-51: "Payment session was unsuccessful.",
	-52: "Unexpected gateway error, contact support.",
	-53: "Payment session does not belong to this merchant.",
	-54: "Invalid authority.",
	-55: "Payment session not found.",
	100: "Payment request accepted.",
	101: "Payment already verified.",
}

// StatusText returns a human-readable description for a gateway code.
func StatusText(code int) string {
	if s, ok := statusTexts[code]; ok {
		return s
	}
	return fmt.Sprintf("Unknown gateway error (code %d).", code)
}

// GatewayError is a non-success result code returned by the gateway.
// Transport failures are plain errors, not GatewayErrors.
type GatewayError struct {
	Code int
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway code %d: %s", e.Code, StatusText(e.Code))
}
