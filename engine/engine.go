package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tradeloop/config"
	"tradeloop/feed"
	"tradeloop/journal"
	"tradeloop/market"
	"tradeloop/orders"
	"tradeloop/portfolio"
	"tradeloop/strategies"
	"tradeloop/trader"
)

// holdWatchThreshold flags portfolio critical sections that run long
// enough to suggest someone is doing real work under the lock.
const holdWatchThreshold = 10 * time.Millisecond

// TradingEngine owns the wiring of one run: the single portfolio, the
// journal, and every goroutine of the pipeline. Construct once, Run
// once.
type TradingEngine struct {
	id  uuid.UUID
	cfg *config.Config
	pf  *portfolio.Portfolio
	jnl journal.Journal
	log *zap.Logger

	orderOpts []orders.EngineOption
}

// Option adjusts engine construction.
type Option func(*TradingEngine)

// WithJournal overrides the journal the config would select. Tests use
// it to capture fills in memory.
func WithJournal(j journal.Journal) Option {
	return func(e *TradingEngine) { e.jnl = j }
}

// WithOrderOptions forwards options to the order engine, e.g. a
// deterministic latency model.
func WithOrderOptions(opts ...orders.EngineOption) Option {
	return func(e *TradingEngine) { e.orderOpts = opts }
}

func New(cfg *config.Config, log *zap.Logger, opts ...Option) (*TradingEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &TradingEngine{
		id:  uuid.New(),
		cfg: cfg,
		pf: portfolio.New(cfg.Account.Balance,
			portfolio.WithHoldWatch(holdWatchThreshold, log)),
		log: log,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.jnl == nil {
		jnl, err := newJournal(cfg.Journal)
		if err != nil {
			return nil, err
		}
		e.jnl = jnl
	}
	return e, nil
}

func newJournal(cfg config.JournalConfig) (journal.Journal, error) {
	switch cfg.Type {
	case "none":
		return journal.Nop{}, nil
	case "csv":
		return journal.NewCSV(cfg.FillsFile, cfg.EquityFile)
	case "sqlite":
		return journal.NewSQLite(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unknown journal type %q", cfg.Type)
	}
}

// ID is the run id stamped on journal records.
func (e *TradingEngine) ID() uuid.UUID { return e.id }

// Portfolio exposes the shared position state, e.g. for a status
// printout after shutdown.
func (e *TradingEngine) Portfolio() *portfolio.Portfolio { return e.pf }

// Run wires the pipeline and blocks until ctx is cancelled and every
// stage has drained. Shutdown follows the pipeline: the feed stops and
// closes the per-asset channels, the traders drain and exit, the
// compute pool and order channel close, and finally the order engine
// finishes its in-flight fills. Every accepted order fills even when
// shutdown starts while it is pending.
func (e *TradingEngine) Run(ctx context.Context) error {
	defer e.jnl.Close()

	e.log.Info("trading engine starting",
		zap.String("run_id", e.id.String()),
		zap.Int("assets", len(e.cfg.Assets)),
		zap.Int("pool_size", e.cfg.Engine.PoolSize),
	)

	minLat, maxLat, err := e.cfg.Fill.Latencies()
	if err != nil {
		return err
	}

	// Build everything before the first goroutine starts so wiring
	// errors surface as a plain return.
	dispatch := NewDispatch()
	orderCh := make(chan orders.OrderEvent, e.cfg.Engine.OrderBuffer)

	type wiring struct {
		trader  *trader.Trader
		candles chan market.Candle
	}
	var wired []wiring
	var specs []feed.AssetSpec

	pool := NewPool(e.cfg.Engine.PoolSize, e.log)

	for _, a := range e.cfg.Assets {
		cadence, err := a.ParseCadence()
		if err != nil {
			pool.Close()
			return err
		}
		strat, err := strategies.New(a.Strategy.Name, a.ID, a.Quantity, a.Strategy.Params)
		if err != nil {
			pool.Close()
			return err
		}

		ch := make(chan market.Candle, e.cfg.Engine.MarketBuffer)
		dispatch.Add(a.ID, ch)

		wired = append(wired, wiring{
			trader: trader.New(a.ID, strat, e.pf, pool, orderCh,
				e.cfg.Engine.HistoryWindow, e.log),
			candles: ch,
		})
		specs = append(specs, feed.AssetSpec{
			Asset:      a.ID,
			Cadence:    cadence,
			StartPrice: a.StartPrice,
		})
	}

	oeng := orders.NewEngine(e.pf, e.jnl, e.id.String(),
		minLat, maxLat, e.cfg.Fill.Slippage, e.log, e.orderOpts...)

	var traders sync.WaitGroup
	for _, w := range wired {
		traders.Add(1)
		go func(w wiring) {
			defer traders.Done()
			w.trader.Run(ctx, w.candles)
		}(w)
	}

	gen := feed.NewGenerator(specs, dispatch, e.log)

	// Shutdown sequencer: once the feed has stopped (and closed the
	// market channels), wait for the traders, then retire the pool and
	// close the order channel so the order engine can drain.
	go func() {
		gen.Run(ctx)
		traders.Wait()
		pool.Close()
		close(orderCh)
	}()

	oeng.Run(orderCh)

	cash, positions := e.pf.Snapshot()
	e.log.Info("trading engine stopped",
		zap.Float64("cash", cash),
		zap.Int("positions", len(positions)),
	)
	return nil
}
