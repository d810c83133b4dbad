// Package feed produces synthetic market data. Each configured asset
// gets its own producer goroutine emitting a random-walk OHLC candle
// at that asset's cadence, routed straight to the owning trader's
// channel through the dispatch table.
package feed

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"tradeloop/market"
)

// Router resolves an asset id to the owning trader's inbound channel.
// Satisfied by engine.Dispatch.
type Router interface {
	Route(asset string) (chan<- market.Candle, bool)
}

// AssetSpec configures one asset's producer.
type AssetSpec struct {
	Asset      string
	Cadence    time.Duration
	StartPrice float64
}

// Generator drives one producer per asset. Producers are independent:
// a full channel blocks only that asset's production (the intended
// backpressure), never the other assets'.
type Generator struct {
	specs []AssetSpec
	table Router
	log   *zap.Logger
	seed  int64
}

func NewGenerator(specs []AssetSpec, table Router, log *zap.Logger) *Generator {
	return &Generator{
		specs: specs,
		table: table,
		log:   log,
		seed:  time.Now().UnixNano(),
	}
}

// Run starts every producer and blocks until all have stopped. A
// producer stops when ctx is cancelled and then closes its asset's
// channel, which the owning trader observes as end-of-stream.
func (g *Generator) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i, spec := range g.specs {
		wg.Add(1)
		go g.produce(ctx, &wg, spec, g.seed+int64(i))
	}
	wg.Wait()
}

func (g *Generator) produce(ctx context.Context, wg *sync.WaitGroup, spec AssetSpec, seed int64) {
	defer wg.Done()

	ch, ok := g.table.Route(spec.Asset)
	if !ok {
		g.log.Warn("no route for asset, producer not started",
			zap.String("asset", spec.Asset))
		return
	}
	defer close(ch)

	rng := rand.New(rand.NewSource(seed))
	ticker := time.NewTicker(spec.Cadence)
	defer ticker.Stop()

	last := spec.StartPrice
	g.log.Info("producer started",
		zap.String("asset", spec.Asset),
		zap.Duration("cadence", spec.Cadence),
	)

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			c := Synthesize(rng, spec.Asset, last, now)
			last = c.Close

			// Blocking bounded send: a full trader channel stalls
			// this producer until space frees. ctx unblocks shutdown.
			select {
			case ch <- c:
			case <-ctx.Done():
				return
			}
		}
	}
}

// Synthesize builds the next candle of a bounded random walk: the open
// is the previous close, the close drifts up to ±1%, and the wicks
// extend beyond the body by up to half the body move.
func Synthesize(rng *rand.Rand, asset string, last float64, now time.Time) market.Candle {
	open := last
	close := open * (1 + (rng.Float64()-0.5)*0.02)

	hi, lo := open, close
	if hi < lo {
		hi, lo = lo, hi
	}
	wick := (hi - lo) * 0.5

	return market.Candle{
		Asset:  asset,
		Open:   open,
		High:   hi + rng.Float64()*wick,
		Low:    lo - rng.Float64()*wick,
		Close:  close,
		Volume: 1000 + rng.Float64()*1000,
		Time:   now,
	}
}
