package payments

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GatewayEvent kinds.
const (
	EventRequest  = "request"
	EventCallback = "callback"
	EventVerify   = "verify"
)

// GatewayEvent is an append-only record of every exchange with the
// payment provider, keyed by authority where one exists. It is the raw
// trail the transactions table summarises.
type GatewayEvent struct {
	ID        string         `gorm:"type:char(36);primaryKey"`
	OrderID   string         `gorm:"type:char(36);not null;index:ix_gateway_events_order_id"`
	Provider  string         `gorm:"type:varchar(32);not null"`
	Kind      string         `gorm:"type:varchar(16);not null"`
	Authority *string        `gorm:"type:varchar(255);index:ix_gateway_events_authority"`
	Payload   datatypes.JSON `gorm:"not null"`
	CreatedAt time.Time      `gorm:"type:datetime(3);not null"`
}

func (GatewayEvent) TableName() string { return "gateway_events" }

func recordEvent(ctx context.Context, tx *gorm.DB, orderID, provider, kind string, authority *string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	ev := GatewayEvent{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		Provider:  provider,
		Kind:      kind,
		Authority: authority,
		Payload:   datatypes.JSON(raw),
		CreatedAt: time.Now(),
	}
	return tx.WithContext(ctx).Create(&ev).Error
}
