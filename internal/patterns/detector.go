package patterns

import (
	"minervini-screener/internal/marketdata"
)

// PatternType identifies a base pattern
type PatternType string

const (
	CupWithHandle PatternType = "Cup-with-Handle"
	FlatBase      PatternType = "Flat Base"
	VCP           PatternType = "VCP"
	// SwingHigh is the fallback when no base pattern is present; the
	// pivot is simply the recent swing high.
	SwingHigh PatternType = "Recent Swing High"
)

// Minimum history each detector needs
const (
	minBarsVCP  = 50
	minBarsCup  = 60
	minBarsFlat = 25
)

// Detection is the outcome of one detector. HasPivot is false for
// detectors that leave the pivot to the level calculator (VCP).
type Detection struct {
	Detected bool
	Pivot    float64
	HasPivot bool
	Message  string
}

func notDetected(msg string) Detection {
	return Detection{Message: msg}
}

// Detector evaluates the three Minervini base patterns independently.
type Detector struct{}

// NewDetector creates a pattern detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Scan runs all three detectors over the series.
type Scan struct {
	Cup  Detection
	Flat Detection
	VCP  Detection
}

// DetectAll evaluates every base pattern; each detector degrades to
// not-detected on its own, so a failure in one never hides another.
func (d *Detector) DetectAll(series marketdata.Series) Scan {
	return Scan{
		Cup:  d.DetectCupWithHandle(series),
		Flat: d.DetectFlatBase(series),
		VCP:  d.DetectVCP(series),
	}
}

// DetectVCP looks for a volatility contraction over the last 50 bars:
// the 10-bar mean daily range must shrink across three checkpoints 20
// bars apart. The last three sessions trading in under 1.5% of price is
// the "tight" confirmation.
func (d *Detector) DetectVCP(series marketdata.Series) Detection {
	if len(series) < minBarsVCP {
		return notDetected("Insufficient data")
	}

	recent := series.Tail(minBarsVCP)
	ranges := make([]float64, len(recent))
	for i, b := range recent {
		ranges[i] = b.High - b.Low
	}

	vol := rollingMean(ranges, 10)

	volNow, ok1 := vol[len(vol)-1], len(vol) >= 1
	vol20, ok2 := value(vol, len(vol)-20)
	vol40, ok3 := value(vol, len(vol)-40)
	if !ok1 || !ok2 || !ok3 {
		return notDetected("Error")
	}

	contracting := volNow < vol20 && vol20 < vol40
	if !contracting {
		return notDetected("No VCP")
	}

	tight := true
	for _, b := range recent[len(recent)-3:] {
		if b.Close <= 0 || (b.High-b.Low)/b.Close >= 0.015 {
			tight = false
			break
		}
	}

	if tight {
		return Detection{Detected: true, Message: "VCP detected: Tight action"}
	}
	return Detection{Detected: true, Message: "VCP forming"}
}

// DetectCupWithHandle looks for a 10-35% deep cup over up to 120 bars
// with a shallow 15-bar handle holding near the cup high. The pivot is
// the handle high.
func (d *Detector) DetectCupWithHandle(series marketdata.Series) Detection {
	if len(series) < minBarsCup {
		return notDetected("Insufficient data")
	}

	window := series.Tail(120)

	// Cup high: the peak before the handle region (last 20 bars excluded).
	cupHighIdx := 0
	for i := 1; i < len(window)-20; i++ {
		if window[i].High > window[cupHighIdx].High {
			cupHighIdx = i
		}
	}
	cupHigh := window[cupHighIdx].High
	if cupHigh <= 0 {
		return notDetected("Error")
	}

	// Cup low: the trough within 40 bars after the peak, or the window
	// low when the peak sits too close to the end.
	afterHigh := window[cupHighIdx:]
	var cupLow float64
	if len(afterHigh) >= 40 {
		cupLow = afterHigh[:40].LowestLow(40)
	} else {
		cupLow = window.LowestLow(len(window))
	}

	cupDepth := (cupHigh - cupLow) / cupHigh
	if cupDepth < 0.10 || cupDepth > 0.35 {
		return notDetected("No valid cup")
	}

	handle := window.Tail(15)
	handleHigh := handle.HighestHigh(len(handle))
	handleLow := handle.LowestLow(len(handle))
	if handleHigh <= 0 {
		return notDetected("Error")
	}
	handleDepth := (handleHigh - handleLow) / handleHigh

	if handleDepth >= 0.05 && handleDepth <= 0.15 && handleHigh >= cupHigh*0.95 {
		return Detection{Detected: true, Pivot: handleHigh, HasPivot: true, Message: "Cup-with-Handle detected"}
	}
	return notDetected("Cup present, handle not ideal")
}

// DetectFlatBase looks for a tight consolidation: at most a 15% range
// over up to 50 bars with the close holding within 5% of the range high.
// The pivot is the range high.
func (d *Detector) DetectFlatBase(series marketdata.Series) Detection {
	if len(series) < minBarsFlat {
		return notDetected("Insufficient data")
	}

	window := series.Tail(50)
	high := window.HighestHigh(len(window))
	low := window.LowestLow(len(window))
	if high <= 0 {
		return notDetected("Error")
	}

	depth := (high - low) / high
	if depth < 0.15 {
		distance := (window.LastClose()/high - 1) * 100
		if distance >= -5 {
			return Detection{Detected: true, Pivot: high, HasPivot: true, Message: "Flat Base detected"}
		}
	}
	return notDetected("No flat base")
}

// rollingMean computes the trailing window mean over non-negative
// inputs; positions with fewer than window values hold a negative
// sentinel and are reported unavailable by value().
func rollingMean(xs []float64, window int) []float64 {
	out := make([]float64, len(xs))
	sum := 0.0
	for i, x := range xs {
		sum += x
		if i >= window {
			sum -= xs[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		} else {
			out[i] = -1 // sentinel: not enough history
		}
	}
	return out
}

// value reads a rolling-mean position, rejecting out-of-range indices
// and positions without a full window.
func value(xs []float64, i int) (float64, bool) {
	if i < 0 || i >= len(xs) || xs[i] < 0 {
		return 0, false
	}
	return xs[i], true
}
