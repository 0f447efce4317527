// Package store keeps a Postgres history of comparison runs.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"regionprice/internal/compare"
	"regionprice/internal/pricing"
)

const schema = `
CREATE TABLE IF NOT EXISTS comparison_runs (
	run_id        UUID PRIMARY KEY,
	app_id        TEXT NOT NULL,
	app_name      TEXT NOT NULL DEFAULT '',
	item_offer    TEXT NOT NULL DEFAULT '',
	base_currency TEXT NOT NULL,
	base_region   TEXT NOT NULL,
	started_at    TIMESTAMPTZ NOT NULL,
	finished_at   TIMESTAMPTZ NOT NULL,
	failures      INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS comparison_prices (
	run_id           UUID NOT NULL REFERENCES comparison_runs (run_id) ON DELETE CASCADE,
	region_code      TEXT NOT NULL,
	region           TEXT NOT NULL,
	amount           NUMERIC NOT NULL,
	currency         TEXT NOT NULL,
	converted_amount NUMERIC,
	strategy         TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (run_id, region_code)
);

CREATE INDEX IF NOT EXISTS comparison_runs_app_started_idx ON comparison_runs (app_id, started_at DESC);
`

const (
	insertRun = `INSERT INTO comparison_runs
	(run_id, app_id, app_name, item_offer, base_currency, base_region, started_at, finished_at, failures)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	insertPrice = `INSERT INTO comparison_prices
	(run_id, region_code, region, amount, currency, converted_amount, strategy)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

	selectRuns = `SELECT r.run_id, r.app_id, r.app_name, r.item_offer, r.base_currency, r.base_region,
	r.started_at, r.finished_at, r.failures,
	(SELECT COUNT(*) FROM comparison_prices p WHERE p.run_id = r.run_id) AS records
	FROM comparison_runs r
	WHERE r.app_id = $1
	ORDER BY r.started_at DESC
	LIMIT $2`

	selectPrices = `SELECT region_code, region, amount, currency, converted_amount, strategy
	FROM comparison_prices
	WHERE run_id = $1
	ORDER BY converted_amount ASC NULLS LAST, region ASC`
)

// RunSummary is one stored run without its prices.
type RunSummary struct {
	RunID        string    `db:"run_id" json:"run_id"`
	AppID        string    `db:"app_id" json:"app_id"`
	AppName      string    `db:"app_name" json:"app_name"`
	ItemOffer    string    `db:"item_offer" json:"item_offer,omitempty"`
	BaseCurrency string    `db:"base_currency" json:"base_currency"`
	BaseRegion   string    `db:"base_region" json:"base_region"`
	StartedAt    time.Time `db:"started_at" json:"started_at"`
	FinishedAt   time.Time `db:"finished_at" json:"finished_at"`
	Failures     int       `db:"failures" json:"failures"`
	Records      int       `db:"records" json:"records"`
}

type priceRow struct {
	RegionCode string              `db:"region_code"`
	Region     string              `db:"region"`
	Amount     decimal.Decimal     `db:"amount"`
	Currency   string              `db:"currency"`
	Converted  decimal.NullDecimal `db:"converted_amount"`
	Strategy   string              `db:"strategy"`
}

type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store { return &Store{db: db} }

// Open connects to Postgres at dsn.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return New(db), nil
}

func (s *Store) Close() error { return s.db.Close() }

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

// SaveRun stores a finished report and its converted records in one
// transaction.
func (s *Store) SaveRun(ctx context.Context, r *compare.Report) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	itemOffer := ""
	if r.Item != nil {
		itemOffer = r.Item.OfferName
	}
	if _, err = tx.ExecContext(ctx, insertRun,
		r.RunID, r.AppID, r.AppName, itemOffer, r.BaseCurrency, r.BaseRegion.Code,
		r.StartedAt, r.FinishedAt, len(r.Failures),
	); err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	for _, p := range r.Records {
		if _, err = tx.ExecContext(ctx, insertPrice,
			r.RunID, p.RegionCode, p.Region, p.Amount, p.Currency, p.Converted, p.Strategy,
		); err != nil {
			return fmt.Errorf("inserting price for %s: %w", p.RegionCode, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	return nil
}

// History lists the most recent runs for an app, newest first.
func (s *Store) History(ctx context.Context, appID string, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []RunSummary
	if err := s.db.SelectContext(ctx, &runs, selectRuns, appID, limit); err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	return runs, nil
}

// Prices returns the stored records of one run in comparison order.
func (s *Store) Prices(ctx context.Context, runID string) ([]pricing.PriceRecord, error) {
	var rows []priceRow
	if err := s.db.SelectContext(ctx, &rows, selectPrices, runID); err != nil {
		return nil, fmt.Errorf("querying prices: %w", err)
	}
	out := make([]pricing.PriceRecord, len(rows))
	for i, r := range rows {
		out[i] = pricing.PriceRecord{
			Region:     r.Region,
			RegionCode: r.RegionCode,
			Amount:     r.Amount,
			Currency:   r.Currency,
			Converted:  r.Converted,
			Strategy:   r.Strategy,
		}
	}
	return out, nil
}
