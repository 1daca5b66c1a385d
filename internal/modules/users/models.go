package users

import "time"

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

const (
	AddressShipping = "shipping"
	AddressBilling  = "billing"
)

type User struct {
	ID           string    `gorm:"type:char(36);primaryKey"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex:ux_users_email"`
	PasswordHash []byte    `gorm:"type:varbinary(72);not null"`
	FirstName    string    `gorm:"type:varchar(100);not null"`
	LastName     string    `gorm:"type:varchar(100);not null"`
	Role         string    `gorm:"type:varchar(20);not null;default:customer"`
	IsActive     bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt    time.Time `gorm:"type:datetime(3);not null"`
}

func (User) TableName() string { return "users" }

type Address struct {
	ID          string    `gorm:"type:char(36);primaryKey"`
	UserID      string    `gorm:"type:char(36);not null;index:ix_addresses_user_id"`
	AddressType string    `gorm:"type:varchar(20);not null;default:shipping"`
	Street      string    `gorm:"type:varchar(255);not null"`
	City        string    `gorm:"type:varchar(100);not null"`
	State       string    `gorm:"type:varchar(100);not null"`
	ZipCode     string    `gorm:"type:varchar(20);not null"`
	Country     string    `gorm:"type:varchar(100);not null"`
	IsDefault   bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt   time.Time `gorm:"type:datetime(3);not null"`
}

func (Address) TableName() string { return "addresses" }
