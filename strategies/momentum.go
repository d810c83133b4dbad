package strategies

import (
	"fmt"

	"github.com/moznion/go-optional"

	"tradeloop/indicators"
	"tradeloop/orders"
)

// Momentum signals on fast/slow EMA crosses. A small state machine
// remembers the previous relationship so a signal fires only on the
// cross event, not on every candle while the EMAs stay crossed.
type Momentum struct {
	fast *indicators.ExponentialMA
	slow *indicators.ExponentialMA

	// previous relationship: -1 fast below slow, 0 unknown, +1 above
	prevRel int

	asset    string
	quantity float64
	name     string
}

type MomentumConfig struct {
	Asset      string
	Quantity   float64
	FastPeriod int
	SlowPeriod int
}

func NewMomentum(cfg MomentumConfig) *Momentum {
	if cfg.FastPeriod <= 0 || cfg.SlowPeriod <= 0 {
		panic("Momentum periods must be > 0")
	}
	if cfg.FastPeriod >= cfg.SlowPeriod {
		panic("Momentum requires FastPeriod < SlowPeriod")
	}

	return &Momentum{
		fast:     indicators.NewEMA(cfg.FastPeriod),
		slow:     indicators.NewEMA(cfg.SlowPeriod),
		asset:    cfg.Asset,
		quantity: cfg.Quantity,
		name:     fmt.Sprintf("MOMENTUM(%d,%d)", cfg.FastPeriod, cfg.SlowPeriod),
	}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) GenerateSignal(ctx SystemCtx) optional.Option[orders.TradeSignal] {
	m.fast.Update(ctx.Candle)
	m.slow.Update(ctx.Candle)

	if !m.fast.Ready() || !m.slow.Ready() {
		return optional.None[orders.TradeSignal]()
	}

	rel := 0
	switch diff := m.fast.Value() - m.slow.Value(); {
	case diff > 0:
		rel = 1
	case diff < 0:
		rel = -1
	}

	if rel == 0 || rel == m.prevRel {
		return optional.None[orders.TradeSignal]()
	}

	// First observed relationship is only a baseline.
	if m.prevRel == 0 {
		m.prevRel = rel
		return optional.None[orders.TradeSignal]()
	}
	m.prevRel = rel

	if rel > 0 {
		return optional.Some(orders.TradeSignal{
			Asset:     m.asset,
			Side:      orders.SideBuy,
			Quantity:  m.quantity,
			PriceHint: ctx.Candle.Close,
		})
	}

	// Cross down: exit whatever is held, if anything.
	if ctx.Position.Quantity <= 0 {
		return optional.None[orders.TradeSignal]()
	}
	return optional.Some(orders.TradeSignal{
		Asset:     m.asset,
		Side:      orders.SideSell,
		Quantity:  ctx.Position.Quantity,
		PriceHint: ctx.Candle.Close,
	})
}
