package orders

import (
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"tradeloop/journal"
	"tradeloop/portfolio"
)

// LatencyFunc decides how long an order's simulated fill takes.
type LatencyFunc func(OrderEvent) time.Duration

// PriceFunc decides the realized price of a fill.
type PriceFunc func(OrderEvent) float64

// Engine consumes order events and applies the resulting fills to the
// portfolio. One receive loop accepts events; each accepted event gets
// its own fill task that waits out the simulated broker latency
// without blocking other in-flight fills. The portfolio lock is taken
// only for the final O(1) mutation, never across the delay.
//
// Fills complete in latency order, not submission order, and portfolio
// mutations are applied in completion order. That is deliberate: real
// brokers do the same. An accepted fill always completes, even when
// shutdown starts while it is in flight.
type Engine struct {
	portfolio *portfolio.Portfolio
	journal   journal.Journal
	latency   LatencyFunc
	price     PriceFunc
	runID     string
	log       *zap.Logger

	fills sync.WaitGroup
}

// EngineOption overrides the simulation models, mainly for tests.
type EngineOption func(*Engine)

func WithLatency(fn LatencyFunc) EngineOption {
	return func(e *Engine) { e.latency = fn }
}

func WithPrice(fn PriceFunc) EngineOption {
	return func(e *Engine) { e.price = fn }
}

// NewEngine builds an order engine. minLatency/maxLatency bound the
// default uniform fill delay and slippage the default price deviation
// from the order's price hint (e.g. 0.001 = ±0.1%).
func NewEngine(pf *portfolio.Portfolio, j journal.Journal, runID string,
	minLatency, maxLatency time.Duration, slippage float64,
	log *zap.Logger, opts ...EngineOption) *Engine {

	if maxLatency < minLatency {
		panic("order engine requires minLatency <= maxLatency")
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	var mu sync.Mutex

	e := &Engine{
		portfolio: pf,
		journal:   j,
		runID:     runID,
		log:       log,
		latency: func(OrderEvent) time.Duration {
			mu.Lock()
			defer mu.Unlock()
			span := maxLatency - minLatency
			if span <= 0 {
				return minLatency
			}
			return minLatency + time.Duration(rng.Int63n(int64(span)))
		},
		price: func(ev OrderEvent) float64 {
			mu.Lock()
			defer mu.Unlock()
			return ev.PriceHint * (1 + (rng.Float64()*2-1)*slippage)
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run consumes events until the channel is closed, then waits for
// every in-flight fill to complete before returning. The channel
// receive is the loop's only suspension point; nothing here holds the
// portfolio lock while waiting.
func (e *Engine) Run(events <-chan OrderEvent) {
	e.log.Info("order engine started", zap.String("run_id", e.runID))

	for ev := range events {
		e.fills.Add(1)
		go e.fill(ev)
	}

	e.fills.Wait()
	e.log.Info("order engine drained")
}

func (e *Engine) fill(ev OrderEvent) {
	defer e.fills.Done()

	delay := e.latency(ev)
	time.Sleep(delay)

	f := Fill{
		Order:    ev,
		Price:    e.price(ev),
		FilledAt: time.Now(),
	}

	pos := e.portfolio.Apply(ev.Asset, f.SignedQuantity(), f.Price)

	e.log.Info("fill applied",
		zap.String("order_id", ev.ID),
		zap.String("asset", ev.Asset),
		zap.Stringer("side", ev.Side),
		zap.Float64("quantity", ev.Quantity),
		zap.Float64("price", f.Price),
		zap.Duration("latency", delay),
		zap.Float64("position", pos.Quantity),
	)

	e.record(f)
}

func (e *Engine) record(f Fill) {
	err := e.journal.RecordFill(journal.FillRecord{
		RunID:       e.runID,
		OrderID:     f.Order.ID,
		Asset:       f.Order.Asset,
		Side:        f.Order.Side.String(),
		Quantity:    f.Order.Quantity,
		Price:       f.Price,
		SubmittedAt: f.Order.SubmittedAt,
		FilledAt:    f.FilledAt,
	})
	if err != nil {
		e.log.Error("journal fill failed", zap.String("order_id", f.Order.ID), zap.Error(err))
		return
	}

	cash, positions := e.portfolio.Snapshot()
	exposure := 0.0
	for _, pos := range positions {
		exposure += pos.Quantity * pos.AvgPrice
	}
	if err := e.journal.RecordEquity(journal.EquitySnapshot{
		RunID:    e.runID,
		Time:     f.FilledAt,
		Cash:     cash,
		Exposure: exposure,
	}); err != nil {
		e.log.Error("journal equity failed", zap.Error(err))
	}
}
