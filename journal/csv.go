package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"sync"
	"time"
)

// CSVJournal is safe for concurrent use: fills complete on independent
// goroutines and record as they land.
type CSVJournal struct {
	mu     sync.Mutex
	fills  *csv.Writer
	equity *csv.Writer
	ff, ef *os.File
}

func NewCSV(fillsPath, equityPath string) (*CSVJournal, error) {
	ff, err := os.Create(fillsPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		ff.Close()
		return nil, err
	}

	fw := csv.NewWriter(ff)
	ew := csv.NewWriter(ef)

	if err := fw.Write([]string{"order_id", "run_id", "asset", "side", "quantity", "price", "submitted_at", "filled_at"}); err != nil {
		return nil, err
	}
	if err := ew.Write([]string{"run_id", "time", "cash", "exposure"}); err != nil {
		return nil, err
	}

	fw.Flush()
	if err := fw.Error(); err != nil {
		return nil, err
	}
	ew.Flush()
	if err := ew.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{fills: fw, equity: ew, ff: ff, ef: ef}, nil
}

func (j *CSVJournal) RecordFill(f FillRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	err := j.fills.Write([]string{
		f.OrderID,
		f.RunID,
		f.Asset,
		f.Side,
		fl(f.Quantity),
		fl(f.Price),
		f.SubmittedAt.Format(time.RFC3339Nano),
		f.FilledAt.Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}

	j.fills.Flush()
	return j.fills.Error()
}

func (j *CSVJournal) RecordEquity(e EquitySnapshot) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	err := j.equity.Write([]string{
		e.RunID,
		e.Time.Format(time.RFC3339Nano),
		fl(e.Cash),
		fl(e.Exposure),
	})
	if err != nil {
		return err
	}

	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSVJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.fills.Flush()
	if err := j.fills.Error(); err != nil {
		return err
	}
	j.equity.Flush()
	if err := j.equity.Error(); err != nil {
		return err
	}

	if err := j.ff.Close(); err != nil {
		return err
	}
	return j.ef.Close()
}

func fl(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
