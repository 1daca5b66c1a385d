package orders

import "errors"

var ErrInvalidTransition = errors.New("invalid status transition")

// Payment events that can move an order's payment status.
const (
	PayEventSucceed = "succeed"
	PayEventFail    = "fail"
	PayEventRefund  = "refund"
	PayEventRetry   = "retry"
)

// NextPaymentStatus is the single place the payment status machine
// lives: pending -> {paid, failed}; paid -> refunded; failed ->
// pending (retry). Everything else is rejected.
func NextPaymentStatus(from, event string) (string, error) {
	switch event {
	case PayEventSucceed:
		if from == PaymentPending || from == PaymentFailed {
			return PaymentPaid, nil
		}
	case PayEventFail:
		if from == PaymentPending || from == PaymentFailed {
			return PaymentFailed, nil
		}
	case PayEventRefund:
		if from == PaymentPaid {
			return PaymentRefunded, nil
		}
	case PayEventRetry:
		if from != PaymentPaid {
			return PaymentPending, nil
		}
	}
	return "", ErrInvalidTransition
}

// NextStatus maps an admin fulfillment action onto the order status
// machine: pending -> processing -> shipped -> delivered, cancel from
// pending/processing.
func NextStatus(from, action string) (string, error) {
	switch action {
	case "process":
		if from == StatusPending {
			return StatusProcessing, nil
		}
	case "ship":
		if from == StatusProcessing {
			return StatusShipped, nil
		}
	case "deliver":
		if from == StatusShipped {
			return StatusDelivered, nil
		}
	case "cancel":
		if from == StatusPending || from == StatusProcessing {
			return StatusCancelled, nil
		}
	}
	return "", ErrInvalidTransition
}
