package model

import (
	"time"

	"github.com/google/uuid"
)

// ProductModel mirrors the 'products' table. Stock carries a CHECK constraint
// as a second line of defense; the conditional-update reservation is the
// primary guarantee that it never goes negative.
type ProductModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Code            string    `gorm:"type:varchar(64);unique;not null"`
	Name            string    `gorm:"type:varchar(255);not null"`
	Category        string    `gorm:"type:varchar(100);index"`
	Description     string    `gorm:"type:text"`
	Price           float64
	PricingState    string `gorm:"type:varchar(16);not null;index"`
	Stock           int    `gorm:"not null;check:stock >= 0"`
	DiscountRate    *float64
	DiscountedPrice *float64
	AverageRating   float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}
