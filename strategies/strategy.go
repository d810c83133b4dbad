// Package strategies defines the signal-generation contract consumed
// by traders, plus the built-in strategy variants. Strategies are
// stateful and mutated in place on every call; each instance belongs
// to exactly one trader and is never invoked concurrently with
// itself, but the call may run on any compute-pool worker.
package strategies

import (
	"fmt"
	"strings"

	"github.com/moznion/go-optional"

	"tradeloop/market"
	"tradeloop/orders"
	"tradeloop/portfolio"
)

// SystemCtx is the value handed to a strategy for one evaluation: a
// cloned position snapshot, the candle that triggered the tick, and a
// copy of the rolling history window. It owns all of its data — no
// field points back into locked portfolio state.
type SystemCtx struct {
	Position portfolio.Position
	Candle   market.Candle
	History  []market.Candle
}

// SignalGenerator turns a SystemCtx into an optional trade signal.
// Implementations must not block, perform I/O, or take locks: they run
// on shared compute-pool workers.
type SignalGenerator interface {
	Name() string
	GenerateSignal(ctx SystemCtx) optional.Option[orders.TradeSignal]
}

// Params carries strategy tuning values from the config file.
type Params map[string]float64

func (p Params) value(key string, fallback float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return fallback
}

// New builds a strategy variant by config name. quantity is the order
// size the variant will signal for the given asset.
func New(name, asset string, quantity float64, params Params) (SignalGenerator, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("strategy %q: quantity must be > 0", name)
	}

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "breakout":
		return NewBreakout(asset, quantity), nil

	case "rsi":
		return NewRSIStrategy(RSIStrategyConfig{
			Asset:      asset,
			Quantity:   quantity,
			Period:     int(params.value("period", 14)),
			Oversold:   params.value("oversold", 30),
			Overbought: params.value("overbought", 70),
		}), nil

	case "momentum":
		return NewMomentum(MomentumConfig{
			Asset:      asset,
			Quantity:   quantity,
			FastPeriod: int(params.value("fast", 5)),
			SlowPeriod: int(params.value("slow", 20)),
		}), nil

	default:
		return nil, fmt.Errorf("unknown strategy %q (supported: breakout, rsi, momentum)", name)
	}
}
