package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductEffectiveUnitPrice(t *testing.T) {
	product := &Product{Price: 100, PricingState: PricingSet}
	assert.InDelta(t, 100.0, product.EffectiveUnitPrice(), 1e-9)

	rate := 20.0
	discounted := 80.0
	product.DiscountRate = &rate
	product.DiscountedPrice = &discounted
	assert.InDelta(t, 80.0, product.EffectiveUnitPrice(), 1e-9)
}

func TestProductPriced(t *testing.T) {
	assert.False(t, (&Product{PricingState: PricingPending}).Priced())
	assert.True(t, (&Product{PricingState: PricingSet, Price: 1}).Priced())
}
