package entity

import (
	"time"

	"github.com/google/uuid"
)

// CartLine is one (user, product) entry of a shopping cart. The pair is
// unique; adding the same product again merges by summing quantities.
type CartLine struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int // Invariant: >= 1.
	CreatedAt time.Time
	UpdatedAt time.Time
}
