package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordFill(f FillRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO fills
		(order_id, run_id, asset, side, quantity, price, submitted_at, filled_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.OrderID, f.RunID, f.Asset, f.Side,
		f.Quantity, f.Price, f.SubmittedAt, f.FilledAt,
	)
	return err
}

func (j *SQLiteJournal) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(run_id, time, cash, exposure)
		VALUES (?, ?, ?, ?)`,
		e.RunID, e.Time, e.Cash, e.Exposure,
	)
	return err
}

// ListFills returns the recorded fills for an asset in submission
// order (order ids are ULIDs, so lexical order is time order).
func (j *SQLiteJournal) ListFills(asset string) ([]FillRecord, error) {
	rows, err := j.db.Query(`
		SELECT order_id, run_id, asset, side, quantity, price, submitted_at, filled_at
		FROM fills WHERE asset = ? ORDER BY order_id`, asset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FillRecord
	for rows.Next() {
		var f FillRecord
		if err := rows.Scan(&f.OrderID, &f.RunID, &f.Asset, &f.Side,
			&f.Quantity, &f.Price, &f.SubmittedAt, &f.FilledAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
