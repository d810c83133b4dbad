package indicators

import (
	"fmt"

	"tradeloop/market"
)

// RSI is a streaming Relative Strength Index using Wilder smoothing.
// Warmup takes period+1 candles: the first close only establishes the
// baseline for the first gain/loss pair.
type RSI struct {
	period   int
	avgGain  float64
	avgLoss  float64
	prev     float64
	count    int
	havePrev bool
}

func NewRSI(period int) *RSI {
	if period <= 0 {
		panic("RSI period must be > 0")
	}
	return &RSI{period: period}
}

func (r *RSI) Name() string {
	return fmt.Sprintf("RSI(%d)", r.period)
}

func (r *RSI) Warmup() int {
	return r.period + 1
}

func (r *RSI) Reset() {
	r.avgGain = 0
	r.avgLoss = 0
	r.prev = 0
	r.count = 0
	r.havePrev = false
}

func (r *RSI) Update(c market.Candle) {
	if !r.havePrev {
		r.prev = c.Close
		r.havePrev = true
		return
	}

	change := c.Close - r.prev
	r.prev = c.Close

	gain, loss := 0.0, 0.0
	if change > 0 {
		gain = change
	} else {
		loss = -change
	}

	if r.count < r.period {
		// Accumulate plain averages during warmup.
		r.avgGain += gain / float64(r.period)
		r.avgLoss += loss / float64(r.period)
		r.count++
		return
	}

	// Wilder smoothing after warmup.
	n := float64(r.period)
	r.avgGain = (r.avgGain*(n-1) + gain) / n
	r.avgLoss = (r.avgLoss*(n-1) + loss) / n
}

func (r *RSI) Ready() bool {
	return r.count >= r.period
}

func (r *RSI) Value() float64 {
	if !r.Ready() {
		return 0
	}
	if r.avgLoss == 0 {
		return 100
	}
	rs := r.avgGain / r.avgLoss
	return 100 - 100/(1+rs)
}
