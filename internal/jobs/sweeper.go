// Package jobs runs the background schedules: today that is the
// pending-payment sweeper, which fails orders whose gateway session
// was started but never came back.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sinahmd/ecommerce/internal/config"
	"github.com/sinahmd/ecommerce/internal/modules/orders"
)

type Sweeper struct {
	db     *gorm.DB
	log    *slog.Logger
	maxAge time.Duration
}

func NewSweeper(db *gorm.DB, log *slog.Logger, maxAge time.Duration) *Sweeper {
	return &Sweeper{db: db, log: log, maxAge: maxAge}
}

// Run fails orders whose payment attempt went stale. The transaction
// ledger is append-only: the stale pending row is left as is and a
// failed row is inserted next to it, mirroring what a failure callback
// would have written. The order stays pending fulfillment; the
// customer can retry the payment.
func (s *Sweeper) Run(ctx context.Context) {
	cutoff := time.Now().Add(-s.maxAge)

	var stale []orders.Transaction
	err := s.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = transactions.order_id").
		Where("transactions.status = ? AND transactions.created_at < ? AND orders.payment_status = ?",
			orders.TxPending, cutoff, orders.PaymentPending).
		Find(&stale).Error
	if err != nil {
		s.log.Error("sweep query failed", "error", err)
		return
	}
	if len(stale) == 0 {
		return
	}

	swept := 0
	for _, t := range stale {
		if err := s.sweepOne(ctx, t); err != nil {
			s.log.Error("sweep transaction failed", "transaction_id", t.ID, "error", err)
			continue
		}
		swept++
	}
	s.log.Info("pending payment sweep", "stale", len(stale), "swept", swept)
}

func (s *Sweeper) sweepOne(ctx context.Context, t orders.Transaction) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The callback handler takes the same lock, so a late callback
		// and the sweep serialize on the order row.
		var o orders.Order
		if err := tx.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&o, "id = ?", t.OrderID).Error; err != nil {
			return err
		}

		if o.PaymentStatus != orders.PaymentPending {
			// A callback settled it between the query and now.
			return nil
		}
		// A retry replaces the authority on the order; a stale row from
		// a superseded attempt must not fail the attempt in flight.
		if t.Authority == nil || o.Authority == nil || *o.Authority != *t.Authority {
			return nil
		}

		next, err := orders.NextPaymentStatus(o.PaymentStatus, orders.PayEventFail)
		if err != nil {
			return nil
		}

		now := time.Now()
		if err := tx.WithContext(ctx).
			Model(&orders.Order{}).
			Where("id = ?", o.ID).
			Updates(map[string]any{"payment_status": next, "updated_at": now}).Error; err != nil {
			return err
		}

		failed := orders.Transaction{
			ID:          uuid.NewString(),
			OrderID:     o.ID,
			AmountCents: o.TotalCents,
			Authority:   t.Authority,
			Status:      orders.TxFailed,
			CreatedAt:   now,
		}
		return tx.WithContext(ctx).Create(&failed).Error
	})
}

// Schedule registers the sweeper on a cron and starts it. An empty
// spec disables the job.
func Schedule(cfg config.JobsConfig, db *gorm.DB, log *slog.Logger) (*cron.Cron, error) {
	if cfg.SweepSchedule == "" {
		return nil, nil
	}

	sweeper := NewSweeper(db, log, cfg.PendingPaymentMaxAge)
	c := cron.New()
	_, err := c.AddFunc(cfg.SweepSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		sweeper.Run(ctx)
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
