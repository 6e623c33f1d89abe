package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"GroveWorld/internal/grove/infra/persistence/storetest"
	sqliteinfra "GroveWorld/internal/shared/infrastructure/sqlite"
	"GroveWorld/internal/shared/serverconfig"
)

func TestStore_Contract(t *testing.T) {
	ctx := context.Background()
	db, err := sqliteinfra.Open(ctx, serverconfig.SQLiteConfig{Path: filepath.Join(t.TempDir(), "grove.db")}, nil)
	if err != nil {
		t.Fatalf("open err=%v", err)
	}
	s, err := NewStore(ctx, db)
	if err != nil {
		t.Fatalf("NewStore err=%v", err)
	}
	t.Cleanup(func() { _ = s.Close(ctx) })

	storetest.Run(t, s)
}

func TestStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "grove.db")

	db, err := sqliteinfra.Open(ctx, serverconfig.SQLiteConfig{Path: path}, nil)
	if err != nil {
		t.Fatal(err)
	}
	s, _ := NewStore(ctx, db)
	if _, err := s.CompareAndSwap(ctx, "biome:main", 0, []byte(`{"id":"main"}`)); err != nil {
		t.Fatal(err)
	}
	_ = s.Close(ctx)

	db2, err := sqliteinfra.Open(ctx, serverconfig.SQLiteConfig{Path: path}, nil)
	if err != nil {
		t.Fatal(err)
	}
	s2, _ := NewStore(ctx, db2)
	defer s2.Close(ctx)
	rec, err := s2.Get(ctx, "biome:main")
	if err != nil || rec.Version != 1 || string(rec.Value) != `{"id":"main"}` {
		t.Fatalf("rec=%+v err=%v", rec, err)
	}
}
