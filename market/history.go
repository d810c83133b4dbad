package market

// History is a bounded rolling window of candles for one asset,
// oldest first. When the window is full the oldest candle is evicted.
// History is owned by a single trader loop and is not safe for
// concurrent use.
type History struct {
	max     int
	candles []Candle
}

// NewHistory creates a window holding at most max candles.
func NewHistory(max int) *History {
	if max <= 0 {
		panic("history window must be > 0")
	}
	return &History{
		max:     max,
		candles: make([]Candle, 0, max),
	}
}

func (h *History) Push(c Candle) {
	if len(h.candles) == h.max {
		copy(h.candles, h.candles[1:])
		h.candles = h.candles[:h.max-1]
	}
	h.candles = append(h.candles, c)
}

func (h *History) Len() int {
	return len(h.candles)
}

// Last returns the most recent candle, if any.
func (h *History) Last() (Candle, bool) {
	if len(h.candles) == 0 {
		return Candle{}, false
	}
	return h.candles[len(h.candles)-1], true
}

// Candles returns a copy of the window, oldest first. The copy is safe
// to hand to code running outside the owning loop.
func (h *History) Candles() []Candle {
	out := make([]Candle, len(h.candles))
	copy(out, h.candles)
	return out
}
