package strategies

import (
	"fmt"

	"github.com/moznion/go-optional"

	"tradeloop/indicators"
	"tradeloop/orders"
)

// RSIStrategy buys when the oscillator drops below the oversold line
// while flat, and sells the whole position when it rises above the
// overbought line while long.
type RSIStrategy struct {
	asset      string
	quantity   float64
	oversold   float64
	overbought float64
	rsi        *indicators.RSI
	name       string
}

type RSIStrategyConfig struct {
	Asset      string
	Quantity   float64
	Period     int
	Oversold   float64
	Overbought float64
}

func NewRSIStrategy(cfg RSIStrategyConfig) *RSIStrategy {
	if cfg.Oversold >= cfg.Overbought {
		panic("RSIStrategy requires Oversold < Overbought")
	}
	return &RSIStrategy{
		asset:      cfg.Asset,
		quantity:   cfg.Quantity,
		oversold:   cfg.Oversold,
		overbought: cfg.Overbought,
		rsi:        indicators.NewRSI(cfg.Period),
		name:       fmt.Sprintf("RSI(%d)", cfg.Period),
	}
}

func (s *RSIStrategy) Name() string { return s.name }

func (s *RSIStrategy) GenerateSignal(ctx SystemCtx) optional.Option[orders.TradeSignal] {
	s.rsi.Update(ctx.Candle)
	if !s.rsi.Ready() {
		return optional.None[orders.TradeSignal]()
	}

	value := s.rsi.Value()

	switch {
	case value <= s.oversold && ctx.Position.Quantity == 0:
		return optional.Some(orders.TradeSignal{
			Asset:     s.asset,
			Side:      orders.SideBuy,
			Quantity:  s.quantity,
			PriceHint: ctx.Candle.Close,
		})

	case value >= s.overbought && ctx.Position.Quantity > 0:
		return optional.Some(orders.TradeSignal{
			Asset:     s.asset,
			Side:      orders.SideSell,
			Quantity:  ctx.Position.Quantity,
			PriceHint: ctx.Candle.Close,
		})
	}

	return optional.None[orders.TradeSignal]()
}
