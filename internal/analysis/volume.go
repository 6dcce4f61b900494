package analysis

import (
	"minervini-screener/internal/marketdata"
)

// Volume signal labels
const (
	VolumeStrongAccumulation  = "Strong Accumulation"
	VolumeInstitutionalBuying = "Institutional Buying"
	VolumeAboveAverage        = "Above Average"
	VolumeBelowAverage        = "Below Average"
	VolumeUnavailable         = "Unable to calculate"
)

// VolumeProfile classifies the latest session's volume against its
// trailing average.
type VolumeProfile struct {
	CurrentVolume float64
	AverageVolume float64
	Ratio         float64
	Signal        string
}

// VolumeAnalyzer compares current volume to a trailing average.
type VolumeAnalyzer struct {
	avgPeriod int
}

// NewVolumeAnalyzer creates a volume analyzer. avgPeriod defaults to the
// Minervini 50-session average.
func NewVolumeAnalyzer(avgPeriod int) *VolumeAnalyzer {
	if avgPeriod <= 0 {
		avgPeriod = 50
	}
	return &VolumeAnalyzer{avgPeriod: avgPeriod}
}

// Analyze classifies the last bar's volume. A series too short or with a
// zero average degrades to a neutral 1.0 ratio instead of failing.
func (va *VolumeAnalyzer) Analyze(series marketdata.Series) VolumeProfile {
	if len(series) == 0 {
		return VolumeProfile{Ratio: 1.0, Signal: VolumeUnavailable}
	}

	period := va.avgPeriod
	if len(series) < period {
		period = len(series)
	}

	sum := 0.0
	for i := len(series) - period; i < len(series); i++ {
		sum += series[i].Volume
	}
	avg := sum / float64(period)
	if avg <= 0 {
		return VolumeProfile{Ratio: 1.0, Signal: VolumeUnavailable}
	}

	current := series[len(series)-1].Volume
	ratio := current / avg

	var signal string
	switch {
	case ratio >= 2.0:
		signal = VolumeStrongAccumulation
	case ratio >= 1.5:
		signal = VolumeInstitutionalBuying
	case ratio >= 1.0:
		signal = VolumeAboveAverage
	default:
		signal = VolumeBelowAverage
	}

	return VolumeProfile{
		CurrentVolume: current,
		AverageVolume: avg,
		Ratio:         ratio,
		Signal:        signal,
	}
}
