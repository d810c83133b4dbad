// Package orders holds the order-side data model and the order engine
// that turns accepted orders into portfolio mutations after a
// simulated fill delay.
package orders

import "time"

// Side is the direction of a signal or order.
type Side int

const (
	SideBuy Side = iota
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "BUY"
	case SideSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// TradeSignal is a strategy's request to change a position. A strategy
// that wants no action this tick returns no signal at all rather than
// a zero-quantity one.
type TradeSignal struct {
	Asset     string
	Side      Side
	Quantity  float64
	PriceHint float64 // 0 means no hint; the trader fills it in
}

// OrderEvent is a signal accepted by a trader and submitted to the
// order engine. The id is a ULID, so events sort by submission time.
// PriceHint is always positive: a signal without one is stamped with
// the close of the candle that produced it, so the fill models never
// see a zero price.
type OrderEvent struct {
	ID          string
	Asset       string
	Side        Side
	Quantity    float64
	PriceHint   float64
	SubmittedAt time.Time
}

// Fill is the resolution of an order into an executed trade. Fills are
// ephemeral: they exist inside a single fill task and in the journal,
// never in the portfolio.
type Fill struct {
	Order    OrderEvent
	Price    float64
	FilledAt time.Time
}

// SignedQuantity returns the position delta of the fill: positive for
// buys, negative for sells.
func (f Fill) SignedQuantity() float64 {
	if f.Order.Side == SideSell {
		return -f.Order.Quantity
	}
	return f.Order.Quantity
}
