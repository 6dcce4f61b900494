package analysis

import (
	"testing"

	"minervini-screener/internal/indicators"
	"minervini-screener/internal/marketdata"
)

func classify(series marketdata.Series) Stage {
	return ClassifyStage(series, indicators.Compute(series.Closes()))
}

func TestStageAdvancingIdeal(t *testing.T) {
	// Steady advance making a fresh high on the last bar
	series := uptrend(200, 100)

	stage := classify(series)

	if stage.Number != 2 {
		t.Errorf("Expected stage 2, got %d", stage.Number)
	}
	if stage.Label != StageAdvancingIdeal {
		t.Errorf("Expected %q, got %q", StageAdvancingIdeal, stage.Label)
	}
	if !stage.IsAdvancingIdeal() {
		t.Error("IsAdvancingIdeal should report true")
	}
}

func TestStageAdvancingWithoutNewHigh(t *testing.T) {
	// Advance with a final-bar dip below the 60-session high
	series := uptrend(200, 100)
	series[199] = marketdata.Bar{Open: 292, High: 293, Low: 288, Close: 290, Volume: 1000}

	stage := classify(series)

	if stage.Label != StageAdvancing {
		t.Errorf("Expected %q, got %q", StageAdvancing, stage.Label)
	}
	if stage.IsAdvancingIdeal() {
		t.Error("IsAdvancingIdeal should report false without a new high")
	}
}

func TestStageBasing(t *testing.T) {
	// Long decline then a recovery above a still-falling SMA150
	series := make(marketdata.Series, 160)
	for i := 0; i < 140; i++ {
		c := 400.0 - float64(i)
		series[i] = marketdata.Bar{Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 1000}
	}
	for i := 140; i < 160; i++ {
		series[i] = marketdata.Bar{Open: 350, High: 351, Low: 349, Close: 350, Volume: 1000}
	}

	stage := classify(series)

	if stage.Number != 1 {
		t.Errorf("Expected stage 1, got %d", stage.Number)
	}
	if stage.Label != StageBasing {
		t.Errorf("Expected %q, got %q", StageBasing, stage.Label)
	}
}

func TestStageDeclining(t *testing.T) {
	series := downtrend(300, 400)

	stage := classify(series)

	if stage.Number != 4 {
		t.Errorf("Expected stage 4, got %d", stage.Number)
	}
	if stage.Label != StageDeclining {
		t.Errorf("Expected %q, got %q", StageDeclining, stage.Label)
	}
}

func TestStageInsufficientData(t *testing.T) {
	series := uptrend(100, 100)

	stage := classify(series)

	if stage.Number != 0 {
		t.Errorf("Expected stage 0, got %d", stage.Number)
	}
	if stage.Label != StageInsufficientData {
		t.Errorf("Expected %q, got %q", StageInsufficientData, stage.Label)
	}
}

func TestStageEmptySeries(t *testing.T) {
	stage := classify(nil)

	if stage.Number != 0 || stage.Label != StageError {
		t.Errorf("Expected stage 0 %q, got %d %q", StageError, stage.Number, stage.Label)
	}
}
