// Package portfolio owns the authoritative position state. Exactly one
// Portfolio exists per engine run; every component that needs it gets
// the same pointer from the orchestrator. All access goes through the
// internal mutex, and every lock-scoped operation is O(1): no caller
// may hold the lock across channel operations, pool submissions, or
// simulated delays.
package portfolio

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Position is the current holding for one asset: signed quantity and
// the average entry price of the open quantity.
type Position struct {
	Asset    string
	Quantity float64
	AvgPrice float64
}

// Portfolio maps asset ids to positions plus an aggregate cash
// balance. Positions are created on first reference and never deleted
// during a run.
type Portfolio struct {
	mu        sync.Mutex
	cash      float64
	positions map[string]Position

	// Development diagnostics: log when a lock hold exceeds the
	// threshold. With a single global lock, a long hold is the only
	// way this design can stall, so it is worth watching for.
	holdWarn time.Duration
	log      *zap.Logger
}

// Option configures optional Portfolio behavior.
type Option func(*Portfolio)

// WithHoldWatch logs a warning whenever a critical section runs longer
// than threshold. Intended for development builds.
func WithHoldWatch(threshold time.Duration, log *zap.Logger) Option {
	return func(p *Portfolio) {
		p.holdWarn = threshold
		p.log = log
	}
}

// New creates a portfolio with the given starting cash balance.
func New(cash float64, opts ...Option) *Portfolio {
	p := &Portfolio{
		cash:      cash,
		positions: make(map[string]Position),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Read returns a copy of the asset's position, or a zero-quantity
// position if the asset has never traded. The lock is held only for
// the map lookup.
func (p *Portfolio) Read(asset string) Position {
	p.mu.Lock()
	start := time.Now()

	pos, ok := p.positions[asset]

	p.unlock(start, "read")

	if !ok {
		return Position{Asset: asset}
	}
	return pos
}

// Apply records a fill against the asset's position: quantity is the
// signed position delta (negative for sells) and price the realized
// fill price. It returns the updated position copy. This is the only
// mutation entry point; only the order engine calls it, and only after
// a fill has resolved.
func (p *Portfolio) Apply(asset string, quantity, price float64) Position {
	p.mu.Lock()
	start := time.Now()

	pos := p.positions[asset]
	pos.Asset = asset

	next := pos.Quantity + quantity
	switch {
	case next == 0:
		pos.AvgPrice = 0
	case sameDirection(pos.Quantity, quantity):
		// Growing the position: weighted average entry price.
		pos.AvgPrice = (pos.AvgPrice*abs(pos.Quantity) + price*abs(quantity)) / abs(next)
	case sameDirection(next, quantity):
		// Crossed through flat: the remainder opens at the fill price.
		pos.AvgPrice = price
	}
	// A plain reduction keeps the entry price of what remains.

	pos.Quantity = next
	p.positions[asset] = pos
	p.cash -= quantity * price

	p.unlock(start, "apply")
	return pos
}

// Cash returns the current cash balance.
func (p *Portfolio) Cash() float64 {
	p.mu.Lock()
	start := time.Now()
	cash := p.cash
	p.unlock(start, "cash")
	return cash
}

// Snapshot returns the cash balance and a copy of every position.
func (p *Portfolio) Snapshot() (float64, map[string]Position) {
	p.mu.Lock()
	start := time.Now()

	out := make(map[string]Position, len(p.positions))
	for asset, pos := range p.positions {
		out[asset] = pos
	}
	cash := p.cash

	p.unlock(start, "snapshot")
	return cash, out
}

func (p *Portfolio) unlock(start time.Time, op string) {
	held := time.Since(start)
	p.mu.Unlock()
	if p.holdWarn > 0 && held > p.holdWarn {
		p.log.Warn("portfolio lock held too long",
			zap.String("op", op),
			zap.Duration("held", held),
			zap.Duration("threshold", p.holdWarn),
		)
	}
}

func sameDirection(a, b float64) bool {
	return (a >= 0 && b >= 0) || (a <= 0 && b <= 0)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
