package analysis

import (
	"minervini-screener/internal/indicators"
	"minervini-screener/internal/marketdata"
)

// Stage labels
const (
	StageAdvancingIdeal   = "Stage 2: Advancing (IDEAL)"
	StageAdvancing        = "Stage 2: Advancing"
	StageBasing           = "Stage 1: Basing"
	StageDeclining        = "Stage 4: Declining"
	StageInsufficientData = "Insufficient data"
	StageError            = "Error"
)

// stageRiseLookback and stageHighLookback are the windows for the
// rising-SMA and new-high checks.
const (
	stageRiseLookback = 10
	stageHighLookback = 60
)

// Stage is a market-cycle classification. Number is 0 (unknown), 1, 2
// or 4; Label carries the descriptive text shown to the user.
type Stage struct {
	Number int
	Label  string
}

// IsAdvancingIdeal reports the strongest stage-2 variant.
func (s Stage) IsAdvancingIdeal() bool {
	return s.Number == 2 && s.Label == StageAdvancingIdeal
}

// ClassifyStage assigns the market stage from the 150-session SMA and
// recent highs. Without a computable SMA150 the stage is unknown.
func ClassifyStage(series marketdata.Series, ind indicators.IndicatorSet) Stage {
	if len(series) == 0 {
		return Stage{Number: 0, Label: StageError}
	}

	sma150Now := ind.SMA150.Last()
	if !sma150Now.Valid {
		return Stage{Number: 0, Label: StageInsufficientData}
	}

	// Rising means the SMA150 sits above its value ten sessions back;
	// not rising when that value does not exist yet.
	sma150Then := ind.SMA150.Ago(stageRiseLookback - 1)
	rising := sma150Now.GreaterThan(sma150Then)

	above := series.LastClose() > sma150Now.Float64

	// A new high means today's high tops the trailing 60-session window.
	windowHigh := series.HighestHigh(stageHighLookback)
	newHigh := series[len(series)-1].High >= windowHigh

	switch {
	case above && rising && newHigh:
		return Stage{Number: 2, Label: StageAdvancingIdeal}
	case above && rising:
		return Stage{Number: 2, Label: StageAdvancing}
	case above:
		return Stage{Number: 1, Label: StageBasing}
	default:
		return Stage{Number: 4, Label: StageDeclining}
	}
}
