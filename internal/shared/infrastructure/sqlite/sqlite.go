package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"GroveWorld/internal/shared/serverconfig"
)

const defaultPath = "data/grove.db"

// Open opens (creating parent dirs as needed) the sqlite file named by cfg.
func Open(ctx context.Context, cfg serverconfig.SQLiteConfig, l *zap.Logger) (*sql.DB, error) {
	if l == nil {
		l = zap.NewNop()
	}
	path := cfg.Path
	if path == "" {
		path = defaultPath
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer keeps sqlite out of SQLITE_BUSY under concurrent actions.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	l.Info("open sqlite success", zap.String("path", path))
	return db, nil
}
