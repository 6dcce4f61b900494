package marketdata

import "time"

// Bar represents one daily trading session
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Series is an ordered sequence of bars, ascending by date.
// Missing history simply shortens the series; no gap filling is done.
type Series []Bar

// Closes returns the close prices in series order.
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, b := range s {
		closes[i] = b.Close
	}
	return closes
}

// LastClose returns the most recent close, or 0 for an empty series.
func (s Series) LastClose() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].Close
}

// Tail returns the last n bars (the whole series if it is shorter).
func (s Series) Tail(n int) Series {
	if n <= 0 {
		return Series{}
	}
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// HighestHigh returns the maximum high over the last n bars.
// Returns 0 for an empty series.
func (s Series) HighestHigh(n int) float64 {
	tail := s.Tail(n)
	if len(tail) == 0 {
		return 0
	}
	high := tail[0].High
	for _, b := range tail[1:] {
		if b.High > high {
			high = b.High
		}
	}
	return high
}

// LowestLow returns the minimum low over the last n bars.
// Returns 0 for an empty series.
func (s Series) LowestLow(n int) float64 {
	tail := s.Tail(n)
	if len(tail) == 0 {
		return 0
	}
	low := tail[0].Low
	for _, b := range tail[1:] {
		if b.Low < low {
			low = b.Low
		}
	}
	return low
}
