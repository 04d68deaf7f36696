package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotConfigured indicates the storage pool was not initialised.
	ErrNotConfigured = errors.New("storage: pool not configured")
)

const (
	listLMPSQL = `SELECT
        price_date,
        hour_ending,
        price
    FROM market_price_data
    WHERE node_id = $1
      AND price_type = $2
      AND price_data_type = 'PRICE'
      AND price_date >= $3
      AND price_date <= $4
    ORDER BY price_date, hour_ending;`

	countLMPSQL = `SELECT COUNT(*)
    FROM market_price_data
    WHERE node_id = $1
      AND price_type = $2
      AND price_data_type = 'PRICE'
      AND price_date >= $3
      AND price_date <= $4;`

	listNodesSQL = `SELECT DISTINCT node_id
    FROM market_price_data
    WHERE iso = $1
    ORDER BY node_id;`
)

// Querier is the subset of pgxpool.Pool the repository needs; tests satisfy
// it with pgxmock.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// LMPStore defines read access to the hourly price table.
type LMPStore interface {
	ListLMP(ctx context.Context, nodeID, priceType string, from, to time.Time) ([]LMPRow, error)
	CountLMP(ctx context.Context, nodeID, priceType string, from, to time.Time) (int64, error)
	ListNodes(ctx context.Context, iso string) ([]string, error)
}

// Store provides read-only access to persisted LMP observations.
type Store struct {
	db   Querier
	pool *pgxpool.Pool
}

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{db: pool, pool: pool}
}

// NewStoreWithQuerier wires an arbitrary querier; used by tests.
func NewStoreWithQuerier(db Querier) *Store {
	return &Store{db: db}
}

// Close releases the underlying pool, if owned.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// ListLMP returns hourly price rows for one node over [from, to], ordered by
// (date, hour).
func (s *Store) ListLMP(ctx context.Context, nodeID, priceType string, from, to time.Time) ([]LMPRow, error) {
	if s.db == nil {
		return nil, ErrNotConfigured
	}

	rows, err := s.db.Query(ctx, listLMPSQL, nodeID, priceType, from, to)
	if err != nil {
		return nil, fmt.Errorf("list lmp: %w", err)
	}
	defer rows.Close()

	var out []LMPRow
	for rows.Next() {
		var r LMPRow
		if err := rows.Scan(&r.PriceDate, &r.Hour, &r.Price); err != nil {
			return nil, fmt.Errorf("scan lmp row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lmp rows: %w", err)
	}
	return out, nil
}

// CountLMP returns the number of priced hours for one node over [from, to].
func (s *Store) CountLMP(ctx context.Context, nodeID, priceType string, from, to time.Time) (int64, error) {
	if s.db == nil {
		return 0, ErrNotConfigured
	}

	var count int64
	if err := s.db.QueryRow(ctx, countLMPSQL, nodeID, priceType, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("count lmp: %w", err)
	}
	return count, nil
}

// ListNodes returns the distinct pricing nodes recorded for an ISO.
func (s *Store) ListNodes(ctx context.Context, iso string) ([]string, error) {
	if s.db == nil {
		return nil, ErrNotConfigured
	}

	rows, err := s.db.Query(ctx, listNodesSQL, iso)
	if err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var node string
		if err := rows.Scan(&node); err != nil {
			return nil, fmt.Errorf("scan node id: %w", err)
		}
		out = append(out, node)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate node rows: %w", err)
	}
	return out, nil
}

var _ LMPStore = (*Store)(nil)
