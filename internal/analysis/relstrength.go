package analysis

import (
	"minervini-screener/internal/marketdata"
)

// Relative strength ratings
const (
	RSExceptional     = "EXCEPTIONAL"
	RSStrong          = "STRONG"
	RSOutperforming   = "Outperforming"
	RSUnderperforming = "Underperforming"
	RSUnavailable     = "Unable to calculate"
)

// rsLookback is roughly six months of trading sessions.
const rsLookback = 126

// RelativeStrength compares a security's trailing return to the market
// benchmark's.
type RelativeStrength struct {
	Advantage       float64 // stock return minus benchmark return, in %
	StockReturn     float64
	BenchmarkReturn float64
	Rating          string
}

// neutralRS is the degraded result when the benchmark is missing or a
// return cannot be computed.
func neutralRS() RelativeStrength {
	return RelativeStrength{Rating: RSUnavailable}
}

// CompareToBenchmark computes the relative-strength advantage of stock
// over benchmark. Both series need 126 bars for the standard half-year
// comparison; shorter histories fall back to full-series returns. Any
// failure (empty benchmark, zero starting price) degrades to a neutral
// result instead of an error.
func CompareToBenchmark(stock, benchmark marketdata.Series) RelativeStrength {
	if len(stock) == 0 || len(benchmark) == 0 {
		return neutralRS()
	}

	// The half-year comparison is only fair when both sides have the
	// full lookback; otherwise both fall back to full-series returns.
	use126 := len(stock) >= rsLookback && len(benchmark) >= rsLookback

	stockReturn, ok1 := trailingReturn(stock, use126)
	benchReturn, ok2 := trailingReturn(benchmark, use126)
	if !ok1 || !ok2 {
		return neutralRS()
	}

	advantage := stockReturn - benchReturn

	var rating string
	switch {
	case advantage >= 20:
		rating = RSExceptional
	case advantage >= 10:
		rating = RSStrong
	case advantage >= 0:
		rating = RSOutperforming
	default:
		rating = RSUnderperforming
	}

	return RelativeStrength{
		Advantage:       advantage,
		StockReturn:     stockReturn,
		BenchmarkReturn: benchReturn,
		Rating:          rating,
	}
}

// trailingReturn computes the 126-bar return, or the full-series return
// when use126 is false.
func trailingReturn(s marketdata.Series, use126 bool) (float64, bool) {
	last := s.LastClose()
	var base float64
	if use126 {
		base = s[len(s)-rsLookback].Close
	} else {
		base = s[0].Close
	}
	if base == 0 {
		return 0, false
	}
	return (last/base - 1) * 100, true
}
