// Package risk converts trade levels and an account risk budget into
// share counts, following the Minervini 1% rule with pilot tiers.
package risk

import "math"

// DefaultRiskFraction is the Minervini 1% rule: the dollar amount risked
// on one trade is 1% of the account.
const DefaultRiskFraction = 0.01

// PositionPlan is the share-count breakdown for one setup.
type PositionPlan struct {
	MaxShares         int
	PilotQuarter      int
	PilotHalf         int
	PilotThreeQuarter int
	TotalInvestment   float64
	AllocationPct     float64
	RiskBudget        float64
}

// Sizer computes position sizes from a fixed risk fraction.
type Sizer struct {
	riskFraction float64
}

// NewSizer creates a position sizer. A non-positive riskFraction falls
// back to the 1% rule.
func NewSizer(riskFraction float64) *Sizer {
	if riskFraction <= 0 {
		riskFraction = DefaultRiskFraction
	}
	return &Sizer{riskFraction: riskFraction}
}

// Size computes the maximum position and pilot tiers for a setup.
// A non-positive risk per share yields a zero position rather than an
// error; the plan is still complete.
func (s *Sizer) Size(accountBalance, buyPoint, stopLoss float64) PositionPlan {
	riskBudget := accountBalance * s.riskFraction
	riskPerShare := buyPoint - stopLoss

	maxShares := 0
	if riskPerShare > 0 {
		maxShares = int(math.Floor(riskBudget / riskPerShare))
	}

	totalInvestment := float64(maxShares) * buyPoint
	allocationPct := 0.0
	if accountBalance > 0 {
		allocationPct = totalInvestment / accountBalance * 100
	}

	return PositionPlan{
		MaxShares:         maxShares,
		PilotQuarter:      maxShares / 4,
		PilotHalf:         maxShares / 2,
		PilotThreeQuarter: maxShares * 3 / 4,
		TotalInvestment:   totalInvestment,
		AllocationPct:     allocationPct,
		RiskBudget:        riskBudget,
	}
}
