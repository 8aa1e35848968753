package entity

import (
	"time"

	"github.com/google/uuid"
)

// ReviewStatus is the moderation state of a review. A rating without free
// text auto-approves; free text starts pending until moderated.
type ReviewStatus string

const (
	ReviewApproved ReviewStatus = "approved"
	ReviewPending  ReviewStatus = "pending"
	ReviewDeclined ReviewStatus = "declined"
)

// IsTerminal reports whether the review moderation is already decided.
func (s ReviewStatus) IsTerminal() bool {
	return s == ReviewApproved || s == ReviewDeclined
}

// Review is a (user, product) unique rating with an optional comment.
// Pending and declined ratings still count toward the product's average
// rating; only the comment visibility is moderated.
type Review struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	Rating    int // Invariant: within [1, 5].
	Comment   string
	Status    ReviewStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
