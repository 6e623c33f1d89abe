package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"GroveWorld/internal/shared/serverconfig"
)

const defaultDSN = "postgres://localhost/grove?sslmode=disable"

func Open(ctx context.Context, cfg serverconfig.PostgresConfig, l *zap.Logger) (*pgxpool.Pool, error) {
	if l == nil {
		l = zap.NewNop()
	}
	dsn := cfg.DSN
	if dsn == "" {
		dsn = defaultDSN
	}
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	l.Info("open postgres success",
		zap.String("host", pcfg.ConnConfig.Host),
		zap.String("db", pcfg.ConnConfig.Database),
	)
	return pool, nil
}
