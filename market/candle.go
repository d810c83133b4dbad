package market

import "time"

// Candle is one OHLC bar for a single asset over one sampling interval.
// Candles are immutable once created: producers build them, consumers
// only read them.
type Candle struct {
	Asset  string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
	Time   time.Time
}

// Bullish reports whether the bar closed above its open.
func (c Candle) Bullish() bool {
	return c.Close > c.Open
}

// Range returns the high-low spread of the bar.
func (c Candle) Range() float64 {
	return c.High - c.Low
}
