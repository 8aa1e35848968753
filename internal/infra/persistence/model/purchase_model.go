package model

import (
	"time"

	"github.com/google/uuid"
)

// PurchaseModel mirrors the 'purchases' table, one row per order line.
type PurchaseModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderID      string    `gorm:"type:varchar(64);not null;index"`
	Quantity     int       `gorm:"not null"`
	UnitPrice    float64   `gorm:"not null"`
	LineTotal    float64   `gorm:"not null"`
	Status       string    `gorm:"type:varchar(16);not null"`
	RefundStatus string    `gorm:"type:varchar(16);not null"`
	DeliveredAt  *time.Time
	CreatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (PurchaseModel) TableName() string {
	return "purchases"
}
