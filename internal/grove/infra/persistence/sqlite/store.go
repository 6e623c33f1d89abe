package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"GroveWorld/internal/grove/app/port"
	"GroveWorld/internal/grove/errs"
)

const (
	OpGet     = "store.sqlite.Get"
	OpSet     = "store.sqlite.Set"
	OpCAS     = "store.sqlite.CompareAndSwap"
	OpMigrate = "store.sqlite.Migrate"
)

var _ port.Store = (*Store)(nil)

// Store keeps every record in one kv table: id, JSON payload, version.
type Store struct {
	db *sql.DB
}

// NewStore takes an opened *sql.DB on the "sqlite" driver and ensures the table exists.
func NewStore(ctx context.Context, db *sql.DB) (*Store, error) {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv (
		id      TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		version INTEGER NOT NULL
	)`); err != nil {
		return nil, errs.Wrap(OpMigrate, errs.KindInfra, fmt.Errorf("create kv table: %w", err), nil)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context, key string) (port.Record, error) {
	var rec port.Record
	err := s.db.QueryRowContext(ctx, `SELECT payload, version FROM kv WHERE id = ?`, key).Scan(&rec.Value, &rec.Version)
	switch {
	case err == nil:
		return rec, nil
	case errors.Is(err, sql.ErrNoRows):
		return port.Record{}, port.ErrNotFound
	default:
		return port.Record{}, errs.Wrap(OpGet, errs.KindInfra, err, map[string]any{"key": key})
	}
}

func (s *Store) Set(ctx context.Context, key string, value []byte) (uint64, error) {
	var version uint64
	err := s.db.QueryRowContext(ctx, `INSERT INTO kv (id, payload, version) VALUES (?, ?, 1)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, version = kv.version + 1
		RETURNING version`, key, value).Scan(&version)
	if err != nil {
		return 0, errs.Wrap(OpSet, errs.KindInfra, err, map[string]any{"key": key})
	}
	return version, nil
}

func (s *Store) CompareAndSwap(ctx context.Context, key string, expected uint64, value []byte) (uint64, error) {
	var (
		res sql.Result
		err error
	)
	if expected == 0 {
		res, err = s.db.ExecContext(ctx, `INSERT INTO kv (id, payload, version) VALUES (?, ?, 1)
			ON CONFLICT(id) DO NOTHING`, key, value)
	} else {
		res, err = s.db.ExecContext(ctx, `UPDATE kv SET payload = ?, version = version + 1
			WHERE id = ? AND version = ?`, value, key, expected)
	}
	if err != nil {
		return 0, errs.Wrap(OpCAS, errs.KindInfra, err, map[string]any{"key": key, "expected": expected})
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errs.Wrap(OpCAS, errs.KindInfra, err, map[string]any{"key": key})
	}
	if n == 0 {
		return 0, port.ErrVersionConflict
	}
	return expected + 1, nil
}

func (s *Store) Close(context.Context) error {
	return s.db.Close()
}
