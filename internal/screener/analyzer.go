// Package screener runs the full Minervini SEPA pipeline for one
// security: indicators, volume, relative strength, trend template,
// stage, base patterns, trade levels, position sizing and grading.
package screener

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"minervini-screener/internal/analysis"
	"minervini-screener/internal/indicators"
	"minervini-screener/internal/levels"
	"minervini-screener/internal/marketdata"
	"minervini-screener/internal/patterns"
	"minervini-screener/internal/risk"
)

// ErrNoData means the symbol's history was empty or unfetchable. This is
// the only total-failure path: every other problem degrades into a
// neutral value inside a still-complete result.
var ErrNoData = errors.New("no history available")

// Config holds the analysis parameters lifted out of the engine.
type Config struct {
	AccountBalance  float64
	RiskFraction    float64 // fraction of account risked per trade, default 0.01
	HistoryRange    string  // provider range for the security, default "2y"
	BenchmarkRange  string  // provider range for the benchmark, default "1y"
	VolumeAvgPeriod int     // sessions in the volume average, default 50
}

func (c Config) withDefaults() Config {
	if c.RiskFraction <= 0 {
		c.RiskFraction = risk.DefaultRiskFraction
	}
	if c.HistoryRange == "" {
		c.HistoryRange = "2y"
	}
	if c.BenchmarkRange == "" {
		c.BenchmarkRange = "1y"
	}
	if c.VolumeAvgPeriod <= 0 {
		c.VolumeAvgPeriod = 50
	}
	return c
}

// Analyzer runs the analysis pipeline. It holds no per-symbol state;
// every call is a pure function of the fetched series and the config.
type Analyzer struct {
	provider marketdata.HistoryProvider
	volume   *analysis.VolumeAnalyzer
	detector *patterns.Detector
	sizer    *risk.Sizer
	config   Config
	logger   zerolog.Logger
}

// NewAnalyzer creates an analyzer around a history provider.
func NewAnalyzer(provider marketdata.HistoryProvider, cfg Config, logger zerolog.Logger) *Analyzer {
	cfg = cfg.withDefaults()
	return &Analyzer{
		provider: provider,
		volume:   analysis.NewVolumeAnalyzer(cfg.VolumeAvgPeriod),
		detector: patterns.NewDetector(),
		sizer:    risk.NewSizer(cfg.RiskFraction),
		config:   cfg,
		logger:   logger.With().Str("component", "analyzer").Logger(),
	}
}

// Config returns the analyzer's effective configuration.
func (a *Analyzer) Config() Config {
	return a.config
}

// Analyze fetches the symbol's history and the benchmark, runs the full
// pipeline and assembles the result. It fails (ErrNoData) only when the
// symbol itself has no history; a missing benchmark degrades the
// relative-strength fields and nothing else.
func (a *Analyzer) Analyze(ctx context.Context, symbol string) (*AnalysisResult, error) {
	series, err := a.provider.FetchHistory(ctx, symbol, a.config.HistoryRange)
	if err != nil {
		return nil, fmt.Errorf("fetching %s history: %w", symbol, err)
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNoData)
	}

	benchmark, err := a.provider.FetchBenchmarkHistory(ctx, a.config.BenchmarkRange)
	if err != nil {
		a.logger.Warn().Err(err).Str("symbol", symbol).Msg("benchmark fetch failed, relative strength degraded")
		benchmark = nil
	}

	return a.AnalyzeSeries(symbol, series, benchmark), nil
}

// AnalyzeWithBalance runs Analyze and re-sizes the position against an
// overridden account balance. balance <= 0 keeps the configured one.
func (a *Analyzer) AnalyzeWithBalance(ctx context.Context, symbol string, balance float64) (*AnalysisResult, error) {
	result, err := a.Analyze(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if balance > 0 && balance != a.config.AccountBalance {
		position := a.sizer.Size(balance, result.BuyPoint, result.StopLoss)
		result.MaxShares = position.MaxShares
		result.PilotQuarter = position.PilotQuarter
		result.PilotHalf = position.PilotHalf
		result.TotalInvestment = position.TotalInvestment
		result.PortfolioAllocationPct = position.AllocationPct
		result.RiskBudget = position.RiskBudget
	}
	return result, nil
}

// AnalyzeSeries runs the pipeline over already-fetched data. The
// benchmark may be nil or empty; relative strength then degrades to its
// neutral value.
func (a *Analyzer) AnalyzeSeries(symbol string, series, benchmark marketdata.Series) *AnalysisResult {
	ind := indicators.Compute(series.Closes())

	volume := a.volume.Analyze(series)
	rs := analysis.CompareToBenchmark(series, benchmark)
	rsAvailable := rs.Rating != analysis.RSUnavailable

	trend := analysis.EvaluateTrendTemplate(series, ind, rs.Advantage, rsAvailable)
	stage := analysis.ClassifyStage(series, ind)

	scan := a.detector.DetectAll(series)
	plan := levels.Build(series, scan)

	position := a.sizer.Size(a.config.AccountBalance, plan.BuyPoint, plan.StopLoss)

	grade, score := GradeSetup(trend.Passed, stage, plan.Pattern)

	criteria := make([]CriterionResult, len(trend.Criteria))
	for i, c := range trend.Criteria {
		criteria[i] = CriterionResult{
			Name:      c.Name,
			Met:       c.State == analysis.CriterionPass,
			Available: c.State != analysis.CriterionUnavailable,
		}
	}

	return &AnalysisResult{
		Symbol:       symbol,
		Verdict:      verdict(plan.Status, grade),
		Grade:        grade,
		Score:        score,
		CurrentPrice: series.LastClose(),

		BuyPoint:             plan.BuyPoint,
		StopLoss:             plan.StopLoss,
		RiskPerShare:         plan.RiskPerShare,
		Target20Pct:          plan.Target20Pct,
		Target2To1:           plan.Target2To1,
		Target3To1:           plan.Target3To1,
		Status:               plan.Status,
		Pattern:              string(plan.Pattern),
		DistanceFromPivotPct: plan.DistanceFromPivotPct,

		Stage:       stage.Label,
		TrendScore:  fmt.Sprintf("%d/%d", trend.Passed, trend.TotalValid),
		TrendPassed: trend.Qualified,
		Criteria:    criteria,

		VolumeRatio:     volume.Ratio,
		VolumeSignal:    volume.Signal,
		RSAdvantage:     rs.Advantage,
		RSRating:        rs.Rating,
		StockReturn:     rs.StockReturn,
		BenchmarkReturn: rs.BenchmarkReturn,

		MaxShares:              position.MaxShares,
		PilotQuarter:           position.PilotQuarter,
		PilotHalf:              position.PilotHalf,
		TotalInvestment:        position.TotalInvestment,
		PortfolioAllocationPct: position.AllocationPct,
		RiskBudget:             position.RiskBudget,
	}
}
