package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/uniclubs/campus-api/internal/domain"
	"github.com/uniclubs/campus-api/internal/pricing"
)

func TestComputePrice(t *testing.T) {
	badge := func(tier string, credits int) *domain.DiscountBadge {
		return &domain.DiscountBadge{Tier: tier, UsageCredits: credits}
	}

	tests := []struct {
		name      string
		basePrice float64
		badge     *domain.DiscountBadge
		want      int
	}{
		{"no badge", 100, nil, 100},
		{"exhausted badge", 100, badge("old star", 0), 100},
		{"rising star", 100, badge("rising star", 1), 90},
		{"old star", 100, badge("old star", 1), 80},
		{"top fan", 100, badge("top fan", 1), 70},
		{"tier is case-insensitive", 100, badge("Old Star", 2), 80},
		{"unknown tier keeps base price", 100, badge("galaxy brain", 5), 100},
		{"half rounds away from zero", 25, badge("rising star", 1), 23}, // 22.5 -> 23
		{"base price rounds too", 99.5, nil, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pricing.ComputePrice(tt.basePrice, tt.badge))
		})
	}
}

func TestDiscountApplies(t *testing.T) {
	assert.False(t, pricing.DiscountApplies(nil))
	assert.False(t, pricing.DiscountApplies(&domain.DiscountBadge{Tier: "top fan", UsageCredits: 0}))
	assert.False(t, pricing.DiscountApplies(&domain.DiscountBadge{Tier: "no such tier", UsageCredits: 3}))
	assert.True(t, pricing.DiscountApplies(&domain.DiscountBadge{Tier: "TOP FAN", UsageCredits: 1}))
}
