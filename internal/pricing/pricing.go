// Package pricing computes ticket prices. It is pure: callers decide whether
// a discount credit actually gets consumed.
package pricing

import (
	"math"
	"strings"

	"github.com/uniclubs/campus-api/internal/domain"
)

var tierMultipliers = map[string]float64{
	"rising star": 0.90,
	"old star":    0.80,
	"top fan":     0.70,
}

// Multiplier returns the discount multiplier for a badge tier, matched
// case-insensitively. Unknown tiers get no discount.
func Multiplier(tier string) float64 {
	if m, ok := tierMultipliers[strings.ToLower(tier)]; ok {
		return m
	}

	return 1.0
}

// ComputePrice returns the final ticket price in whole currency units.
// Without a badge, or with an exhausted one, the base price applies.
// Rounding is half away from zero so every caller lands on the same integer.
func ComputePrice(basePrice float64, badge *domain.DiscountBadge) int {
	if badge == nil || badge.UsageCredits <= 0 {
		return round(basePrice)
	}

	return round(basePrice * Multiplier(badge.Tier))
}

// DiscountApplies reports whether ComputePrice would charge less than the
// base price, i.e. whether a usage credit must be consumed alongside it.
func DiscountApplies(badge *domain.DiscountBadge) bool {
	return badge != nil && badge.UsageCredits > 0 && Multiplier(badge.Tier) < 1.0
}

func round(v float64) int {
	return int(math.Round(v))
}
