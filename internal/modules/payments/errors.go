package payments

import "errors"

var (
	// ErrOrderNotFound means no order matches the id for this caller.
	ErrOrderNotFound = errors.New("order not found")

	// ErrOrderNotPayable means the order cannot start a payment: it is
	// cancelled or already paid.
	ErrOrderNotPayable = errors.New("order is not payable")

	// ErrUnknownAuthority means no order carries the callback authority.
	ErrUnknownAuthority = errors.New("unknown payment authority")

	// ErrNotRefundable means the order's payment status does not allow
	// a refund.
	ErrNotRefundable = errors.New("order is not refundable")
)
