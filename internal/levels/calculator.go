// Package levels turns a pattern scan into a trade plan: buy point,
// stop loss, profit targets and an entry status.
package levels

import (
	"minervini-screener/internal/marketdata"
	"minervini-screener/internal/patterns"
)

// Entry status labels
const (
	StatusAtBuyPoint  = "AT BUY POINT"
	StatusBreakingOut = "BREAKING OUT"
	StatusExtended    = "EXTENDED"
	StatusBelowPivot  = "BELOW PIVOT"
)

// Pivot lookbacks for patterns that do not carry their own pivot.
const (
	vcpPivotLookback      = 10
	fallbackPivotLookback = 20
	stopLookback          = 10
)

// Plan is the computed entry/exit plan for one security.
type Plan struct {
	Pattern              patterns.PatternType
	PatternMessage       string
	BuyPoint             float64
	StopLoss             float64
	RiskPerShare         float64
	Target20Pct          float64
	Target2To1           float64
	Target3To1           float64
	DistanceFromPivotPct float64
	Status               string
}

// Build selects the winning pattern and derives the trade plan.
// Selection priority: cup-with-handle, then flat base, then VCP, then
// the recent swing high as fallback. The VCP pivot is the 10-bar high
// rather than anything the detector itself measured.
func Build(series marketdata.Series, scan patterns.Scan) Plan {
	var (
		pattern patterns.PatternType
		message string
		pivot   float64
	)

	switch {
	case scan.Cup.Detected:
		pattern = patterns.CupWithHandle
		message = scan.Cup.Message
		pivot = scan.Cup.Pivot
	case scan.Flat.Detected:
		pattern = patterns.FlatBase
		message = scan.Flat.Message
		pivot = scan.Flat.Pivot
	case scan.VCP.Detected:
		pattern = patterns.VCP
		message = scan.VCP.Message
		pivot = series.HighestHigh(vcpPivotLookback)
	default:
		pattern = patterns.SwingHigh
		message = "No base pattern; using recent swing high"
		pivot = series.HighestHigh(fallbackPivotLookback)
	}

	// Stop is the looser of a tight technical stop under the 10-bar low
	// and a structural 7% stop under the pivot. The 10-bar low cannot
	// exceed the pivot in a valid setup, which keeps stop < pivot.
	recentLow := series.LowestLow(stopLookback)
	technicalStop := recentLow * 0.99
	structuralStop := pivot * 0.93
	stop := technicalStop
	if structuralStop > stop {
		stop = structuralStop
	}

	risk := pivot - stop

	plan := Plan{
		Pattern:        pattern,
		PatternMessage: message,
		BuyPoint:       pivot,
		StopLoss:       stop,
		RiskPerShare:   risk,
		Target20Pct:    pivot * 1.20,
		Target2To1:     pivot + 2*risk,
		Target3To1:     pivot + 3*risk,
	}

	if pivot > 0 {
		plan.DistanceFromPivotPct = (series.LastClose()/pivot - 1) * 100
	}
	plan.Status = classifyStatus(plan.DistanceFromPivotPct)

	return plan
}

// classifyStatus maps the distance from pivot (in %) to an entry status.
func classifyStatus(distance float64) string {
	switch {
	case distance >= -2 && distance <= 0:
		return StatusAtBuyPoint
	case distance > 0 && distance <= 5:
		return StatusBreakingOut
	case distance > 5:
		return StatusExtended
	default:
		return StatusBelowPivot
	}
}
