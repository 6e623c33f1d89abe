package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"GroveWorld/internal/grove/app/port"
	"GroveWorld/internal/grove/errs"
)

const (
	OpGet     = "store.postgres.Get"
	OpSet     = "store.postgres.Set"
	OpCAS     = "store.postgres.CompareAndSwap"
	OpMigrate = "store.postgres.Migrate"
)

const ddl = `CREATE TABLE IF NOT EXISTS grove_kv (
	id         TEXT PRIMARY KEY,
	payload    BYTEA NOT NULL,
	version    BIGINT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

var _ port.Store = (*Store)(nil)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return nil, errs.Wrap(OpMigrate, errs.KindInfra, err, nil)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Get(ctx context.Context, key string) (port.Record, error) {
	var (
		payload []byte
		version int64
	)
	err := s.pool.QueryRow(ctx, `SELECT payload, version FROM grove_kv WHERE id = $1`, key).Scan(&payload, &version)
	switch {
	case err == nil:
		return port.Record{Value: payload, Version: uint64(version)}, nil
	case errors.Is(err, pgx.ErrNoRows):
		return port.Record{}, port.ErrNotFound
	default:
		return port.Record{}, errs.Wrap(OpGet, errs.KindInfra, err, map[string]any{"key": key})
	}
}

func (s *Store) Set(ctx context.Context, key string, value []byte) (uint64, error) {
	var version int64
	err := s.pool.QueryRow(ctx, `INSERT INTO grove_kv (id, payload, version) VALUES ($1, $2, 1)
		ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, version = grove_kv.version + 1, updated_at = now()
		RETURNING version`, key, value).Scan(&version)
	if err != nil {
		return 0, errs.Wrap(OpSet, errs.KindInfra, err, map[string]any{"key": key})
	}
	return uint64(version), nil
}

func (s *Store) CompareAndSwap(ctx context.Context, key string, expected uint64, value []byte) (uint64, error) {
	var (
		sql  string
		args []any
	)
	if expected == 0 {
		sql = `INSERT INTO grove_kv (id, payload, version) VALUES ($1, $2, 1) ON CONFLICT (id) DO NOTHING`
		args = []any{key, value}
	} else {
		sql = `UPDATE grove_kv SET payload = $2, version = version + 1, updated_at = now() WHERE id = $1 AND version = $3`
		args = []any{key, value, int64(expected)}
	}
	tag, err := s.pool.Exec(ctx, sql, args...)
	if err != nil {
		return 0, errs.Wrap(OpCAS, errs.KindInfra, err, map[string]any{"key": key, "expected": expected})
	}
	if tag.RowsAffected() == 0 {
		return 0, port.ErrVersionConflict
	}
	return expected + 1, nil
}

func (s *Store) Close(context.Context) error {
	s.pool.Close()
	return nil
}
