// Package indicators computes simple moving averages over close prices.
// Values are tagged with validity so an indicator that needs more history
// than exists reports unavailable instead of a wrong number.
package indicators

// Standard Minervini SMA windows
const (
	Window10  = 10
	Window20  = 20
	Window50  = 50
	Window150 = 150
	Window200 = 200
)

// Value is an indicator reading that may be unavailable.
type Value struct {
	Float64 float64
	Valid   bool
}

// Unavailable is the zero Value, returned when not enough history exists.
var Unavailable = Value{}

// Some wraps a computed reading.
func Some(v float64) Value {
	return Value{Float64: v, Valid: true}
}

// GreaterThan reports whether both values are available and v > other.
func (v Value) GreaterThan(other Value) bool {
	return v.Valid && other.Valid && v.Float64 > other.Float64
}

// SMASeries holds per-bar simple moving averages for one window.
type SMASeries struct {
	Window int
	Values []Value
}

// At returns the SMA at bar index i, or Unavailable when out of range.
func (s SMASeries) At(i int) Value {
	if i < 0 || i >= len(s.Values) {
		return Unavailable
	}
	return s.Values[i]
}

// Last returns the most recent SMA value.
func (s SMASeries) Last() Value {
	return s.At(len(s.Values) - 1)
}

// Ago returns the SMA value n bars before the most recent one.
func (s SMASeries) Ago(n int) Value {
	return s.At(len(s.Values) - 1 - n)
}

// SMA computes the simple moving average of closes for one window. The
// value at index i is the arithmetic mean of closes[i-window+1..i], or
// unavailable while fewer than window bars exist.
func SMA(closes []float64, window int) SMASeries {
	values := make([]Value, len(closes))
	if window <= 0 {
		return SMASeries{Window: window, Values: values}
	}

	sum := 0.0
	for i, c := range closes {
		sum += c
		if i >= window {
			sum -= closes[i-window]
		}
		if i >= window-1 {
			values[i] = Some(sum / float64(window))
		}
	}
	return SMASeries{Window: window, Values: values}
}

// IndicatorSet bundles the SMA series the trend template and stage
// classifier consume.
type IndicatorSet struct {
	SMA10  SMASeries
	SMA20  SMASeries
	SMA50  SMASeries
	SMA150 SMASeries
	SMA200 SMASeries
}

// Compute builds the full indicator set for a close-price sequence.
func Compute(closes []float64) IndicatorSet {
	return IndicatorSet{
		SMA10:  SMA(closes, Window10),
		SMA20:  SMA(closes, Window20),
		SMA50:  SMA(closes, Window50),
		SMA150: SMA(closes, Window150),
		SMA200: SMA(closes, Window200),
	}
}
