package orders

import (
	"errors"
	"testing"
)

func TestNextPaymentStatus(t *testing.T) {
	cases := []struct {
		from, event string
		want        string
		wantErr     bool
	}{
		{PaymentPending, PayEventSucceed, PaymentPaid, false},
		{PaymentPending, PayEventFail, PaymentFailed, false},
		{PaymentFailed, PayEventSucceed, PaymentPaid, false},
		{PaymentFailed, PayEventFail, PaymentFailed, false},
		{PaymentFailed, PayEventRetry, PaymentPending, false},
		{PaymentPending, PayEventRetry, PaymentPending, false},
		{PaymentPaid, PayEventRefund, PaymentRefunded, false},

		{PaymentPaid, PayEventSucceed, "", true},
		{PaymentPaid, PayEventFail, "", true},
		{PaymentPaid, PayEventRetry, "", true},
		{PaymentPending, PayEventRefund, "", true},
		{PaymentRefunded, PayEventSucceed, "", true},
		{PaymentRefunded, PayEventRefund, "", true},
	}

	for _, tc := range cases {
		got, err := NextPaymentStatus(tc.from, tc.event)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("NextPaymentStatus(%s, %s): want ErrInvalidTransition, got %v", tc.from, tc.event, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("NextPaymentStatus(%s, %s): unexpected error %v", tc.from, tc.event, err)
			continue
		}
		if got != tc.want {
			t.Errorf("NextPaymentStatus(%s, %s) = %s, want %s", tc.from, tc.event, got, tc.want)
		}
	}
}

func TestNextStatus(t *testing.T) {
	cases := []struct {
		from, action string
		want         string
		wantErr      bool
	}{
		{StatusPending, "process", StatusProcessing, false},
		{StatusProcessing, "ship", StatusShipped, false},
		{StatusShipped, "deliver", StatusDelivered, false},
		{StatusPending, "cancel", StatusCancelled, false},
		{StatusProcessing, "cancel", StatusCancelled, false},

		{StatusPending, "ship", "", true},
		{StatusShipped, "cancel", "", true},
		{StatusDelivered, "deliver", "", true},
		{StatusCancelled, "process", "", true},
		{StatusPending, "bogus", "", true},
	}

	for _, tc := range cases {
		got, err := NextStatus(tc.from, tc.action)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("NextStatus(%s, %s): want ErrInvalidTransition, got %v", tc.from, tc.action, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("NextStatus(%s, %s): unexpected error %v", tc.from, tc.action, err)
			continue
		}
		if got != tc.want {
			t.Errorf("NextStatus(%s, %s) = %s, want %s", tc.from, tc.action, got, tc.want)
		}
	}
}
