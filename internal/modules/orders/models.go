package orders

import "time"

// Fulfillment lifecycle, independent of payment outcome.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// Payment outcome for the order as a whole. Stored redundantly from
// the latest transaction; only the transition helpers flip it.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

// Transaction row statuses. One row per payment attempt; the ledger
// is append-only, rows are never rewritten.
const (
	TxPending    = "pending"
	TxSuccessful = "successful"
	TxFailed     = "failed"
	TxRefunded   = "refunded"
)

type Order struct {
	ID        string `gorm:"type:char(36);primaryKey"`
	UserID    string `gorm:"type:char(36);not null;index:ix_orders_user_id"`
	FirstName string `gorm:"type:varchar(100);not null"`
	LastName  string `gorm:"type:varchar(100);not null"`
	Email     string `gorm:"type:varchar(255);not null"`
	Phone     string `gorm:"type:varchar(20);not null"`
	Address   string `gorm:"type:text;not null"`
	City      string `gorm:"type:varchar(100);not null"`
	State     string `gorm:"type:varchar(100);not null"`
	Country   string `gorm:"type:varchar(100);not null"`
	ZipCode   string `gorm:"type:varchar(20);not null"`

	Status        string `gorm:"type:varchar(20);not null;default:pending"`
	PaymentStatus string `gorm:"type:varchar(20);not null;default:pending;index:ix_orders_payment_status"`
	TotalCents    int    `gorm:"not null"`
	ShippingCents int    `gorm:"not null;default:0"`

	// Gateway join keys. Authority identifies the in-flight payment
	// request; the unauthenticated callback resolves the order by it.
	Authority *string `gorm:"type:varchar(255);uniqueIndex:ux_orders_authority"`
	RefID     *string `gorm:"type:varchar(255)"`

	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (Order) TableName() string { return "orders" }

type OrderItem struct {
	ID             string    `gorm:"type:char(36);primaryKey"`
	OrderID        string    `gorm:"type:char(36);not null;index:ix_order_items_order_id"`
	ProductID      string    `gorm:"type:char(36);not null;index:ix_order_items_product_id"`
	ProductName    string    `gorm:"type:varchar(200);not null"`
	UnitPriceCents int       `gorm:"not null"`
	Quantity       int       `gorm:"not null"`
	CreatedAt      time.Time `gorm:"type:datetime(3);not null"`
}

func (OrderItem) TableName() string { return "order_items" }

func (it OrderItem) LineTotalCents() int { return it.UnitPriceCents * it.Quantity }

type Transaction struct {
	ID          string  `gorm:"type:char(36);primaryKey"`
	OrderID     string  `gorm:"type:char(36);not null;index:ix_transactions_order_id"`
	AmountCents int     `gorm:"not null"`
	Authority   *string `gorm:"type:varchar(255);index:ix_transactions_authority"`
	RefID       *string `gorm:"type:varchar(255)"`
	CardPan     *string `gorm:"type:varchar(255)"`
	CardHash    *string `gorm:"type:varchar(255)"`
	FeeType     *string `gorm:"type:varchar(255)"`
	FeeCents    *int
	StatusCode  *int
	Status      string    `gorm:"type:varchar(50);not null;default:pending"`
	CreatedAt   time.Time `gorm:"type:datetime(3);not null"`
}

func (Transaction) TableName() string { return "transactions" }

// OrderEvent is an audit row for admin transitions and refunds.
type OrderEvent struct {
	ID          string    `gorm:"type:char(36);primaryKey"`
	OrderID     string    `gorm:"type:char(36);not null;index:ix_order_events_order_id"`
	ActorUserID string    `gorm:"type:char(36);not null"`
	Action      string    `gorm:"type:varchar(32);not null"`
	FromStatus  string    `gorm:"type:varchar(20);not null"`
	ToStatus    string    `gorm:"type:varchar(20);not null"`
	Note        *string   `gorm:"type:varchar(255)"`
	CreatedAt   time.Time `gorm:"type:datetime(3);not null"`
}

func (OrderEvent) TableName() string { return "order_events" }
