// Package trader implements the per-asset control loop bridging
// market ingestion, the portfolio lock, and compute-pool dispatch.
package trader

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"tradeloop/market"
	"tradeloop/orders"
	"tradeloop/pkg/id"
	"tradeloop/portfolio"
	"tradeloop/strategies"
)

// ComputePool is the bounded evaluation capacity shared by all
// traders. Satisfied by engine.Pool.
type ComputePool interface {
	// Do blocks until the task has run; a panic inside the task comes
	// back as an error.
	Do(fn func()) error
}

// Trader owns one asset: its inbound candle stream, its strategy
// instance, and its slice of the rolling history. It never mutates the
// portfolio — it only reads position snapshots; mutations belong to
// the order engine alone.
type Trader struct {
	asset     string
	strategy  strategies.SignalGenerator
	portfolio *portfolio.Portfolio
	pool      ComputePool
	orders    chan<- orders.OrderEvent
	history   *market.History
	log       *zap.Logger
}

func New(asset string, strategy strategies.SignalGenerator, pf *portfolio.Portfolio,
	pool ComputePool, orderCh chan<- orders.OrderEvent, historyWindow int,
	log *zap.Logger) *Trader {

	return &Trader{
		asset:     asset,
		strategy:  strategy,
		portfolio: pf,
		pool:      pool,
		orders:    orderCh,
		history:   market.NewHistory(historyWindow),
		log:       log.With(zap.String("asset", asset)),
	}
}

// Run consumes candles until the inbound channel is closed, which is
// the feed's end-of-stream signal. Candles arrive and are evaluated in
// production order; that per-asset FIFO is the single-producer,
// single-consumer channel's guarantee. Cancelling ctx does not
// interrupt the drain: shutdown reaches the trader as channel close,
// and every queued candle is still evaluated.
func (t *Trader) Run(ctx context.Context, candles <-chan market.Candle) {
	t.log.Info("trader started", zap.String("strategy", t.strategy.Name()))

	for c := range candles {
		t.onCandle(c)
	}

	t.log.Info("trader stopped")
}

// onCandle is one tick of the loop. The portfolio lock is held only
// inside Read — an O(1) clone — and never across the pool submission
// or the order send, so the cost of the strategy can never stretch a
// lock hold.
func (t *Trader) onCandle(c market.Candle) {
	t.history.Push(c)

	pos := t.portfolio.Read(t.asset)

	sctx := strategies.SystemCtx{
		Position: pos,
		Candle:   c,
		History:  t.history.Candles(),
	}

	// Bounded evaluation: blocks while the pool is saturated,
	// throttling this trader's ingestion and nobody else's.
	var signal optional.Option[orders.TradeSignal]
	if err := t.pool.Do(func() {
		signal = t.strategy.GenerateSignal(sctx)
	}); err != nil {
		// A failing strategy means no signal this tick. The trader and
		// its channel stay alive and the strategy stays in rotation.
		t.log.Error("strategy evaluation failed",
			zap.String("strategy", t.strategy.Name()),
			zap.Error(err),
		)
		return
	}

	if signal.IsNone() {
		return
	}
	sig := signal.Unwrap()

	// A signal without a price hint fills against the candle that
	// produced it.
	hint := sig.PriceHint
	if hint <= 0 {
		hint = c.Close
	}

	ev := orders.OrderEvent{
		ID:          id.New(),
		Asset:       sig.Asset,
		Side:        sig.Side,
		Quantity:    sig.Quantity,
		PriceHint:   hint,
		SubmittedAt: time.Now(),
	}

	// Blocking bounded send on the shared order channel: a saturated
	// order engine backpressures the trader. The channel stays open
	// until every trader has exited, so the send always completes,
	// including while draining after shutdown.
	t.orders <- ev
	t.log.Debug("order submitted",
		zap.String("order_id", ev.ID),
		zap.Stringer("side", ev.Side),
		zap.Float64("quantity", ev.Quantity),
	)
}
