package catalog

import "time"

type Category struct {
	ID          string `gorm:"type:char(36);primaryKey"`
	Name        string `gorm:"type:varchar(100);not null"`
	Slug        string `gorm:"type:varchar(120);not null;uniqueIndex:ux_categories_slug"`
	Description string `gorm:"type:text"`
}

func (Category) TableName() string { return "categories" }

type Product struct {
	ID          string    `gorm:"type:char(36);primaryKey"`
	CategoryID  string    `gorm:"type:char(36);not null;index:ix_products_category_id"`
	Name        string    `gorm:"type:varchar(200);not null"`
	Slug        string    `gorm:"type:varchar(250);not null;uniqueIndex:ux_products_slug"`
	Description string    `gorm:"type:text"`
	PriceCents  int       `gorm:"not null"`
	ImageURL    string    `gorm:"type:varchar(500)"`
	Stock       int       `gorm:"not null;default:0"`
	Available   bool      `gorm:"not null;default:true"`
	CreatedAt   time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt   time.Time `gorm:"type:datetime(3);not null"`

	Category *Category `gorm:"foreignKey:CategoryID"`
}

func (Product) TableName() string { return "products" }
