package screener

// Verdict values
const (
	VerdictBuy  = "BUY"
	VerdictWait = "WAIT"
)

// CriterionResult is one trend-template check in display order.
// Available is false when the check's inputs did not exist (too little
// history); such checks are excluded from the trend-score denominator.
type CriterionResult struct {
	Name      string `json:"name"`
	Met       bool   `json:"met"`
	Available bool   `json:"available"`
}

// AnalysisResult is the terminal record for one security. It is
// assembled once per analysis and never mutated afterwards.
type AnalysisResult struct {
	Symbol       string  `json:"symbol"`
	Verdict      string  `json:"verdict"`
	Grade        string  `json:"grade"`
	Score        float64 `json:"score"`
	CurrentPrice float64 `json:"current_price"`

	// Trade plan
	BuyPoint             float64 `json:"buy_point"`
	StopLoss             float64 `json:"stop_loss"`
	RiskPerShare         float64 `json:"risk_per_share"`
	Target20Pct          float64 `json:"target_20pct"`
	Target2To1           float64 `json:"target_2to1"`
	Target3To1           float64 `json:"target_3to1"`
	Status               string  `json:"status"`
	Pattern              string  `json:"pattern"`
	DistanceFromPivotPct float64 `json:"distance_from_pivot_pct"`

	// Classification
	Stage       string            `json:"stage"`
	TrendScore  string            `json:"trend_score"` // "passed/valid"
	TrendPassed bool              `json:"trend_passed"`
	Criteria    []CriterionResult `json:"criteria"`

	// Volume and relative strength
	VolumeRatio     float64 `json:"volume_ratio"`
	VolumeSignal    string  `json:"volume_signal"`
	RSAdvantage     float64 `json:"rs_advantage"`
	RSRating        string  `json:"rs_rating"`
	StockReturn     float64 `json:"stock_return"`
	BenchmarkReturn float64 `json:"benchmark_return"`

	// Position sizing
	MaxShares              int     `json:"max_shares"`
	PilotQuarter           int     `json:"pilot_quarter"`
	PilotHalf              int     `json:"pilot_half"`
	TotalInvestment        float64 `json:"total_investment"`
	PortfolioAllocationPct float64 `json:"portfolio_allocation_pct"`
	RiskBudget             float64 `json:"risk_budget"`
}
