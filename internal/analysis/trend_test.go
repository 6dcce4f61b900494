package analysis

import (
	"testing"

	"minervini-screener/internal/indicators"
	"minervini-screener/internal/marketdata"
)

// uptrend builds n bars of a steady linear advance starting at base.
func uptrend(n int, base float64) marketdata.Series {
	s := make(marketdata.Series, n)
	for i := range s {
		c := base + float64(i)
		s[i] = marketdata.Bar{Open: c - 0.5, High: c + 1, Low: c - 1, Close: c, Volume: 1000}
	}
	return s
}

// downtrend builds n bars of a steady linear decline starting at top.
func downtrend(n int, top float64) marketdata.Series {
	s := make(marketdata.Series, n)
	for i := range s {
		c := top - float64(i)
		s[i] = marketdata.Bar{Open: c + 0.5, High: c + 1, Low: c - 1, Close: c, Volume: 1000}
	}
	return s
}

func TestTrendTemplateStrongUptrend(t *testing.T) {
	series := uptrend(300, 100)
	ind := indicators.Compute(series.Closes())

	tmpl := EvaluateTrendTemplate(series, ind, 5.0, true)

	if tmpl.Passed != 10 {
		t.Errorf("Expected all 10 criteria to pass, got %d", tmpl.Passed)
	}
	if tmpl.TotalValid != 10 {
		t.Errorf("Expected 10 valid criteria, got %d", tmpl.TotalValid)
	}
	if !tmpl.Qualified {
		t.Error("A strong uptrend should qualify")
	}
	for _, c := range tmpl.Criteria {
		if c.State != CriterionPass {
			t.Errorf("Criterion %s should pass in a strong uptrend", c.Name)
		}
	}
}

func TestTrendTemplateDowntrend(t *testing.T) {
	series := downtrend(300, 400)
	ind := indicators.Compute(series.Closes())

	tmpl := EvaluateTrendTemplate(series, ind, -10.0, true)

	if tmpl.Passed != 0 {
		t.Errorf("Expected 0 passed criteria in a downtrend, got %d", tmpl.Passed)
	}
	if tmpl.Qualified {
		t.Error("A downtrend should not qualify")
	}
}

func TestTrendTemplateShortHistory(t *testing.T) {
	series := uptrend(30, 100)
	ind := indicators.Compute(series.Closes())

	tmpl := EvaluateTrendTemplate(series, ind, 0, false)

	// SMA-based criteria lack history; only the 52-week range checks
	// (evaluated over what exists) stay valid.
	if tmpl.TotalValid != 2 {
		t.Errorf("Expected 2 valid criteria, got %d", tmpl.TotalValid)
	}
	if tmpl.Qualified {
		t.Error("A 30-bar history should not qualify")
	}

	byName := make(map[string]CriterionState)
	for _, c := range tmpl.Criteria {
		byName[c.Name] = c.State
	}
	if byName["price_above_150sma"] != CriterionUnavailable {
		t.Error("price_above_150sma should be unavailable with 30 bars")
	}
	if byName["outperforming_market"] != CriterionUnavailable {
		t.Error("outperforming_market should be unavailable without benchmark data")
	}
}

func TestTrendTemplateEmptySeries(t *testing.T) {
	tmpl := EvaluateTrendTemplate(nil, indicators.IndicatorSet{}, 0, false)

	if tmpl.Passed != 0 {
		t.Errorf("Expected 0 passed, got %d", tmpl.Passed)
	}
	if tmpl.TotalValid != 8 {
		t.Errorf("Expected default denominator 8, got %d", tmpl.TotalValid)
	}
	if tmpl.Qualified {
		t.Error("Empty series should not qualify")
	}
	if len(tmpl.Criteria) != 10 {
		t.Fatalf("Expected 10 criteria, got %d", len(tmpl.Criteria))
	}
	for _, c := range tmpl.Criteria {
		if c.State != CriterionUnavailable {
			t.Errorf("Criterion %s should be unavailable", c.Name)
		}
	}
}

func TestTrendTemplateRSUnavailableShrinksDenominator(t *testing.T) {
	series := uptrend(300, 100)
	ind := indicators.Compute(series.Closes())

	tmpl := EvaluateTrendTemplate(series, ind, 0, false)

	if tmpl.TotalValid != 9 {
		t.Errorf("Expected 9 valid criteria without relative strength, got %d", tmpl.TotalValid)
	}
	if tmpl.Passed != 9 {
		t.Errorf("Expected 9 passed, got %d", tmpl.Passed)
	}
	if !tmpl.Qualified {
		t.Error("9 of 9 should still qualify")
	}
}

func TestTrendTemplateSMA200TrendingDown(t *testing.T) {
	// Rise then roll over hard enough to turn the 200-session SMA down
	series := uptrend(300, 100)
	for i := 250; i < 300; i++ {
		c := 350.0 - 6*float64(i-250)
		series[i] = marketdata.Bar{Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 1000}
	}
	ind := indicators.Compute(series.Closes())

	tmpl := EvaluateTrendTemplate(series, ind, 0, true)

	byName := make(map[string]CriterionState)
	for _, c := range tmpl.Criteria {
		byName[c.Name] = c.State
	}
	if byName["sma200_trending_up"] != CriterionFail {
		t.Error("sma200_trending_up should fail after a hard rollover")
	}
}
