package strategies

import (
	"fmt"

	"github.com/moznion/go-optional"

	"tradeloop/orders"
)

// Breakout buys whenever a candle closes above its open. It carries no
// rolling state and never sells; it exists as the simplest possible
// variant and as the deterministic strategy used by pipeline tests.
type Breakout struct {
	asset    string
	quantity float64
}

func NewBreakout(asset string, quantity float64) *Breakout {
	return &Breakout{asset: asset, quantity: quantity}
}

func (b *Breakout) Name() string {
	return fmt.Sprintf("BREAKOUT(%s)", b.asset)
}

func (b *Breakout) GenerateSignal(ctx SystemCtx) optional.Option[orders.TradeSignal] {
	if !ctx.Candle.Bullish() {
		return optional.None[orders.TradeSignal]()
	}
	return optional.Some(orders.TradeSignal{
		Asset:     b.asset,
		Side:      orders.SideBuy,
		Quantity:  b.quantity,
		PriceHint: ctx.Candle.Close,
	})
}
