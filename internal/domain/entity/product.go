package entity

import (
	"time"

	"github.com/google/uuid"
)

// PricingState is the explicit pricing lifecycle of a product. A product is
// created unpriced and becomes visible to customers only once a sales admin
// sets its price.
type PricingState string

const (
	// PricingPending means the product awaits sales-admin pricing and is
	// excluded from every customer-facing listing, search and aggregation.
	PricingPending PricingState = "pending"
	// PricingSet means the product carries a sales-admin approved price.
	PricingSet PricingState = "set"
)

// IsValid checks if the PricingState is a valid value.
func (s PricingState) IsValid() bool {
	switch s {
	case PricingPending, PricingSet:
		return true
	default:
		return false
	}
}

// Product is a catalog entry. Stock is the only cross-request mutable counter
// in the system; it is adjusted exclusively through conditional updates in the
// repository so that it can never be observed below zero.
type Product struct {
	ID           uuid.UUID // The Global Unique Identifier for the product.
	Code         string    // Human-readable product id, e.g. "SKU-1042".
	Name         string
	Category     string
	Description  string
	Price        float64      // Unit price. Meaningful only when PricingState is set.
	PricingState PricingState
	Stock        int          // Units on hand. Invariant: never negative.
	// DiscountRate and DiscountedPrice are mutually present or absent.
	DiscountRate    *float64 // Percentage off, e.g. 20 for -20%.
	DiscountedPrice *float64 // Price after applying DiscountRate.
	AverageRating   float64  // Mean rating over all reviews, regardless of moderation status.
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// EffectiveUnitPrice returns the price a buyer pays for one unit,
// preferring the discounted price when a discount is active.
func (p *Product) EffectiveUnitPrice() float64 {
	if p.DiscountedPrice != nil {
		return *p.DiscountedPrice
	}

	return p.Price
}

// Priced reports whether the product may appear in customer-facing views.
func (p *Product) Priced() bool {
	return p.PricingState == PricingSet
}
