// Package journal persists what the order engine executed. Fills and
// equity snapshots are append-only; nothing in the trading loop ever
// reads them back during a run.
package journal

import "time"

// FillRecord is one executed fill, stamped with the engine run id.
type FillRecord struct {
	RunID       string
	OrderID     string
	Asset       string
	Side        string
	Quantity    float64
	Price       float64
	SubmittedAt time.Time
	FilledAt    time.Time
}

// EquitySnapshot is the portfolio state right after a fill was
// applied. Exposure is the cost basis of all open positions.
type EquitySnapshot struct {
	RunID    string
	Time     time.Time
	Cash     float64
	Exposure float64
}

type Journal interface {
	RecordFill(FillRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// Nop discards everything. Used when journaling is disabled and by
// tests that don't care about persistence.
type Nop struct{}

func (Nop) RecordFill(FillRecord) error       { return nil }
func (Nop) RecordEquity(EquitySnapshot) error { return nil }
func (Nop) Close() error                      { return nil }
