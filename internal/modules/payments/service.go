package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sinahmd/ecommerce/internal/modules/orders"
	"github.com/sinahmd/ecommerce/internal/shared/money"
)

// Notifier receives best-effort notifications after a payment settles.
// Failures are logged, never surfaced to the gateway callback.
type Notifier interface {
	OrderPaid(ctx context.Context, o orders.Order, items []orders.OrderItem) error
}

type Service struct {
	db          *gorm.DB
	gw          Gateway
	callbackURL string
	notifier    Notifier
	log         *slog.Logger
}

func NewService(db *gorm.DB, gw Gateway, callbackURL string, notifier Notifier, log *slog.Logger) *Service {
	return &Service{db: db, gw: gw, callbackURL: callbackURL, notifier: notifier, log: log}
}

type InitiateResult struct {
	OrderID   string
	Authority string
	PayURL    string
}

// Initiate starts a gateway payment for an order the caller owns.
// The provider call happens outside any transaction; the authority and
// the pending transaction row are persisted only after the gateway
// accepted the request.
func (s *Service) Initiate(ctx context.Context, orderID, userID string) (InitiateResult, error) {
	var o orders.Order
	if err := s.db.WithContext(ctx).
		First(&o, "id = ? AND user_id = ?", orderID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InitiateResult{}, ErrOrderNotFound
		}
		return InitiateResult{}, err
	}
	if o.PaymentStatus == orders.PaymentPaid || o.Status == orders.StatusCancelled {
		return InitiateResult{}, ErrOrderNotPayable
	}

	req := RequestInput{
		AmountRials: money.RialAmount(o.TotalCents),
		CallbackURL: s.callbackURL,
		Description: fmt.Sprintf("Order %s", o.ID),
		Email:       o.Email,
		Mobile:      o.Phone,
	}
	res, err := s.gw.RequestPayment(ctx, req)
	if err != nil {
		return InitiateResult{}, err
	}

	authority := res.Authority
	now := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked orders.Order
		if err := tx.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&locked, "id = ?", o.ID).Error; err != nil {
			return err
		}
		if locked.PaymentStatus == orders.PaymentPaid || locked.Status == orders.StatusCancelled {
			return ErrOrderNotPayable
		}

		if err := tx.WithContext(ctx).
			Model(&orders.Order{}).
			Where("id = ?", locked.ID).
			Updates(map[string]any{"authority": authority, "updated_at": now}).Error; err != nil {
			return err
		}

		t := orders.Transaction{
			ID:          uuid.NewString(),
			OrderID:     locked.ID,
			AmountCents: locked.TotalCents,
			Authority:   &authority,
			Status:      orders.TxPending,
			CreatedAt:   now,
		}
		if err := tx.WithContext(ctx).Create(&t).Error; err != nil {
			return err
		}

		return recordEvent(ctx, tx, locked.ID, s.gw.Name(), EventRequest, &authority, map[string]any{
			"amount_rials": req.AmountRials,
			"code":         res.Code,
			"authority":    authority,
		})
	})
	if err != nil {
		return InitiateResult{}, err
	}

	return InitiateResult{
		OrderID:   o.ID,
		Authority: authority,
		PayURL:    s.gw.StartPayURL(authority),
	}, nil
}

type CallbackResult struct {
	OrderID string
	Paid    bool
	RefID   string
	Code    int
	// Replayed marks a callback for an authority that was already
	// verified; the order state was left untouched.
	Replayed bool
}

// HandleCallback settles the gateway's return leg. The flow is three
// phases: lock and gate under a transaction, verify with the provider
// outside any transaction, then re-lock and apply the outcome. A
// replayed callback for a settled authority is a no-op success; no
// second successful transaction row is ever written.
func (s *Service) HandleCallback(ctx context.Context, authority, callbackStatus string) (CallbackResult, error) {
	if authority == "" {
		return CallbackResult{}, ErrUnknownAuthority
	}

	// Phase 1: resolve the order, record the callback, short-circuit
	// replays and user-aborted payments.
	var (
		orderID     string
		amountRials int
		done        CallbackResult
		settled     bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o orders.Order
		if err := tx.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&o, "authority = ?", authority).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUnknownAuthority
			}
			return err
		}
		orderID = o.ID
		amountRials = money.RialAmount(o.TotalCents)

		if err := recordEvent(ctx, tx, o.ID, s.gw.Name(), EventCallback, &authority, map[string]any{
			"status": callbackStatus,
		}); err != nil {
			return err
		}

		replayed, err := s.hasSuccessfulTx(ctx, tx, authority)
		if err != nil {
			return err
		}
		if replayed {
			done = CallbackResult{OrderID: o.ID, Paid: true, RefID: deref(o.RefID), Replayed: true}
			settled = true
			return nil
		}

		if callbackStatus != CallbackStatusOK {
			if err := s.applyFailure(ctx, tx, &o, authority, nil); err != nil {
				return err
			}
			done = CallbackResult{OrderID: o.ID, Paid: false}
			settled = true
		}
		return nil
	})
	if err != nil {
		return CallbackResult{}, err
	}
	if settled {
		return done, nil
	}

	// Phase 2: verify with the provider, no locks held.
	vr, verr := s.gw.VerifyPayment(ctx, VerifyInput{AmountRials: amountRials, Authority: authority})
	var gwErr *GatewayError
	if verr != nil && !errors.As(verr, &gwErr) {
		// Transport failure: the payment outcome is unknown, leave the
		// order pending so the callback can be retried.
		return CallbackResult{}, verr
	}

	// Phase 3: re-lock and apply. The replay guard runs again because
	// a concurrent callback may have settled the order in between.
	var out CallbackResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o orders.Order
		if err := tx.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&o, "id = ?", orderID).Error; err != nil {
			return err
		}

		replayed, err := s.hasSuccessfulTx(ctx, tx, authority)
		if err != nil {
			return err
		}
		if replayed {
			out = CallbackResult{OrderID: o.ID, Paid: true, RefID: deref(o.RefID), Replayed: true}
			return nil
		}

		if err := recordEvent(ctx, tx, o.ID, s.gw.Name(), EventVerify, &authority, map[string]any{
			"code":   vr.Code,
			"ref_id": vr.RefID,
		}); err != nil {
			return err
		}

		if vr.Code == CodeOK || vr.Code == CodeAlreadyVerified {
			if err := s.applySuccess(ctx, tx, &o, authority, vr); err != nil {
				return err
			}
			out = CallbackResult{OrderID: o.ID, Paid: true, RefID: vr.RefID, Code: vr.Code}
			return nil
		}

		code := vr.Code
		if err := s.applyFailure(ctx, tx, &o, authority, &code); err != nil {
			return err
		}
		out = CallbackResult{OrderID: o.ID, Paid: false, Code: vr.Code}
		return nil
	})
	if err != nil {
		return CallbackResult{}, err
	}

	if out.Paid && !out.Replayed {
		s.notifyPaid(ctx, orderID)
	}
	return out, nil
}

func (s *Service) hasSuccessfulTx(ctx context.Context, tx *gorm.DB, authority string) (bool, error) {
	var n int64
	err := tx.WithContext(ctx).
		Model(&orders.Transaction{}).
		Where("authority = ? AND status = ?", authority, orders.TxSuccessful).
		Count(&n).Error
	return n > 0, err
}

func (s *Service) applySuccess(ctx context.Context, tx *gorm.DB, o *orders.Order, authority string, vr VerifyResult) error {
	next, err := orders.NextPaymentStatus(o.PaymentStatus, orders.PayEventSucceed)
	if err != nil {
		return err
	}

	now := time.Now()
	updates := map[string]any{
		"payment_status": next,
		"ref_id":         vr.RefID,
		"updated_at":     now,
	}
	// A settled payment moves a pending order into fulfillment.
	if o.Status == orders.StatusPending {
		updates["status"] = orders.StatusProcessing
	}
	if err := tx.WithContext(ctx).
		Model(&orders.Order{}).
		Where("id = ?", o.ID).
		Updates(updates).Error; err != nil {
		return err
	}

	feeCents := vr.FeeRials * 10
	code := vr.Code
	t := orders.Transaction{
		ID:          uuid.NewString(),
		OrderID:     o.ID,
		AmountCents: o.TotalCents,
		Authority:   &authority,
		RefID:       strPtr(vr.RefID),
		CardPan:     strPtr(vr.CardPan),
		CardHash:    strPtr(vr.CardHash),
		FeeType:     strPtr(vr.FeeType),
		FeeCents:    &feeCents,
		StatusCode:  &code,
		Status:      orders.TxSuccessful,
		CreatedAt:   now,
	}
	return tx.WithContext(ctx).Create(&t).Error
}

func (s *Service) applyFailure(ctx context.Context, tx *gorm.DB, o *orders.Order, authority string, code *int) error {
	next, err := orders.NextPaymentStatus(o.PaymentStatus, orders.PayEventFail)
	if err != nil {
		// Failure callbacks for orders that are past pending carry no
		// state change, only the event row already written.
		if errors.Is(err, orders.ErrInvalidTransition) {
			return nil
		}
		return err
	}

	now := time.Now()
	if err := tx.WithContext(ctx).
		Model(&orders.Order{}).
		Where("id = ?", o.ID).
		Updates(map[string]any{"payment_status": next, "updated_at": now}).Error; err != nil {
		return err
	}

	t := orders.Transaction{
		ID:          uuid.NewString(),
		OrderID:     o.ID,
		AmountCents: o.TotalCents,
		Authority:   &authority,
		StatusCode:  code,
		Status:      orders.TxFailed,
		CreatedAt:   now,
	}
	return tx.WithContext(ctx).Create(&t).Error
}

// Retry resets a failed payment back to pending and starts a new
// gateway request. The fresh authority replaces the stale one on the
// order.
func (s *Service) Retry(ctx context.Context, orderID, userID string) (InitiateResult, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o orders.Order
		if err := tx.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&o, "id = ? AND user_id = ?", orderID, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if o.Status == orders.StatusCancelled {
			return ErrOrderNotPayable
		}
		next, err := orders.NextPaymentStatus(o.PaymentStatus, orders.PayEventRetry)
		if err != nil {
			return ErrOrderNotPayable
		}
		return tx.WithContext(ctx).
			Model(&orders.Order{}).
			Where("id = ?", o.ID).
			Updates(map[string]any{"payment_status": next, "updated_at": time.Now()}).Error
	})
	if err != nil {
		return InitiateResult{}, err
	}
	return s.Initiate(ctx, orderID, userID)
}

// Refund marks a paid order refunded. The money movement itself is
// settled out of band with the provider; here it is a guarded status
// flip plus an audit trail.
func (s *Service) Refund(ctx context.Context, orderID, actorUserID, note string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o orders.Order
		if err := tx.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&o, "id = ?", orderID).Error; err != nil {
			return err
		}

		next, err := orders.NextPaymentStatus(o.PaymentStatus, orders.PayEventRefund)
		if err != nil {
			return ErrNotRefundable
		}

		now := time.Now()
		if err := tx.WithContext(ctx).
			Model(&orders.Order{}).
			Where("id = ? AND payment_status = ?", o.ID, o.PaymentStatus).
			Updates(map[string]any{"payment_status": next, "updated_at": now}).Error; err != nil {
			return err
		}

		t := orders.Transaction{
			ID:          uuid.NewString(),
			OrderID:     o.ID,
			AmountCents: o.TotalCents,
			Authority:   o.Authority,
			RefID:       o.RefID,
			Status:      orders.TxRefunded,
			CreatedAt:   now,
		}
		if err := tx.WithContext(ctx).Create(&t).Error; err != nil {
			return err
		}

		var notePtr *string
		if note != "" {
			notePtr = &note
		}
		ev := orders.OrderEvent{
			ID:          uuid.NewString(),
			OrderID:     o.ID,
			ActorUserID: actorUserID,
			Action:      "refund",
			FromStatus:  o.PaymentStatus,
			ToStatus:    next,
			Note:        notePtr,
			CreatedAt:   now,
		}
		return tx.WithContext(ctx).Create(&ev).Error
	})
}

func (s *Service) notifyPaid(ctx context.Context, orderID string) {
	if s.notifier == nil {
		return
	}
	var o orders.Order
	if err := s.db.WithContext(ctx).First(&o, "id = ?", orderID).Error; err != nil {
		s.log.Error("load order for notification", "order_id", orderID, "error", err)
		return
	}
	var items []orders.OrderItem
	if err := s.db.WithContext(ctx).Find(&items, "order_id = ?", orderID).Error; err != nil {
		s.log.Error("load items for notification", "order_id", orderID, "error", err)
		return
	}
	if err := s.notifier.OrderPaid(ctx, o, items); err != nil {
		s.log.Error("order paid notification", "order_id", orderID, "error", err)
	}
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
