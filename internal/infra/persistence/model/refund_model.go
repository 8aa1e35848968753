package model

import (
	"time"

	"github.com/google/uuid"
)

// RefundRequestModel mirrors the 'refund_requests' table. The partial unique
// index enforces at most one pending request per purchase at the store level.
type RefundRequestModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	PurchaseID uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null"`
	Quantity   int       `gorm:"not null"`
	Amount     float64   `gorm:"not null"`
	Reason     string    `gorm:"type:text"`
	Status     string    `gorm:"type:varchar(16);not null;index"`
	AdminNotes string    `gorm:"type:text"`
	DecidedAt  *time.Time
	CreatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (RefundRequestModel) TableName() string {
	return "refund_requests"
}
