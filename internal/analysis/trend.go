package analysis

import (
	"minervini-screener/internal/indicators"
	"minervini-screener/internal/marketdata"
)

// CriterionState is the outcome of one trend-template check.
type CriterionState int

const (
	CriterionFail CriterionState = iota
	CriterionPass
	// CriterionUnavailable means the inputs did not exist (not enough
	// history); the criterion is excluded from the valid denominator.
	CriterionUnavailable
)

// Criterion is one named trend-template check.
type Criterion struct {
	Name  string
	State CriterionState
}

// Trend-template criterion names, in evaluation order.
var criterionNames = []string{
	"price_above_150sma",
	"price_above_200sma",
	"sma150_above_200sma",
	"sma200_trending_up",
	"sma50_above_150sma",
	"sma50_above_200sma",
	"price_above_50sma",
	"price_above_52w_low",
	"price_near_52w_high",
	"outperforming_market",
}

// sma200TrendLookback is roughly one month of sessions.
const sma200TrendLookback = 22

// yearLookback is roughly 52 weeks of sessions.
const yearLookback = 252

// TrendTemplate is the evaluated Minervini trend checklist.
type TrendTemplate struct {
	Criteria   []Criterion
	Passed     int // criteria that passed
	TotalValid int // criteria whose inputs were available
	Qualified  bool
}

// passThreshold is evaluated against the valid-criteria count, so a
// short history can qualify with a denominator below the full template
// size. That matches the methodology as applied, not a bug.
const passThreshold = 7

// EvaluateTrendTemplate runs the trend checklist against the most recent
// bar. Criteria whose moving averages are not yet computable come back
// unavailable rather than failing the template outright.
func EvaluateTrendTemplate(series marketdata.Series, ind indicators.IndicatorSet, rsAdvantage float64, rsAvailable bool) TrendTemplate {
	if len(series) == 0 {
		return trendTemplateError()
	}

	close := indicators.Some(series.LastClose())
	sma50 := ind.SMA50.Last()
	sma150 := ind.SMA150.Last()
	sma200 := ind.SMA200.Last()

	states := make([]CriterionState, 0, len(criterionNames))

	states = append(states,
		compare(close, sma150),
		compare(close, sma200),
		compare(sma150, sma200),
		sma200TrendingUp(ind.SMA200),
		compare(sma50, sma150),
		compare(sma50, sma200),
		compare(close, sma50),
		priceAbove52wLow(series),
		priceNear52wHigh(series),
	)

	if rsAvailable {
		states = append(states, boolState(rsAdvantage > 0))
	} else {
		states = append(states, CriterionUnavailable)
	}

	criteria := make([]Criterion, len(states))
	passed, valid := 0, 0
	for i, st := range states {
		criteria[i] = Criterion{Name: criterionNames[i], State: st}
		if st != CriterionUnavailable {
			valid++
		}
		if st == CriterionPass {
			passed++
		}
	}

	return TrendTemplate{
		Criteria:   criteria,
		Passed:     passed,
		TotalValid: valid,
		Qualified:  passed >= passThreshold,
	}
}

// trendTemplateError is the safe default when evaluation cannot run at
// all: not qualified, zero passed, full denominator.
func trendTemplateError() TrendTemplate {
	criteria := make([]Criterion, len(criterionNames))
	for i, name := range criterionNames {
		criteria[i] = Criterion{Name: name, State: CriterionUnavailable}
	}
	return TrendTemplate{Criteria: criteria, Passed: 0, TotalValid: 8}
}

// compare checks a > b, unavailable unless both sides exist.
func compare(a, b indicators.Value) CriterionState {
	if !a.Valid || !b.Valid {
		return CriterionUnavailable
	}
	return boolState(a.Float64 > b.Float64)
}

func boolState(b bool) CriterionState {
	if b {
		return CriterionPass
	}
	return CriterionFail
}

// sma200TrendingUp checks the 200-session SMA sits higher than it did a
// month ago. Needs 22 bars of SMA200 history on both ends.
func sma200TrendingUp(sma200 indicators.SMASeries) CriterionState {
	now := sma200.Last()
	monthAgo := sma200.Ago(sma200TrendLookback - 1)
	if !now.Valid || !monthAgo.Valid {
		return CriterionUnavailable
	}
	return boolState(now.Float64 > monthAgo.Float64)
}

// priceAbove52wLow checks the close is at least 30% above the 52-week low
// (full history when shorter).
func priceAbove52wLow(series marketdata.Series) CriterionState {
	low := series.LowestLow(yearLookback)
	if low <= 0 {
		return CriterionUnavailable
	}
	return boolState(series.LastClose()/low-1 >= 0.30)
}

// priceNear52wHigh checks the close is within 25% of the 52-week high
// (full history when shorter).
func priceNear52wHigh(series marketdata.Series) CriterionState {
	high := series.HighestHigh(yearLookback)
	if high <= 0 {
		return CriterionUnavailable
	}
	distance := (high - series.LastClose()) / high
	return boolState(distance <= 0.25)
}
