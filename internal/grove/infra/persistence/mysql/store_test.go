package mysql

import (
	"context"
	"os"
	"strconv"
	"testing"

	"GroveWorld/internal/grove/infra/persistence/storetest"
	"GroveWorld/internal/shared/infrastructure/db"
	"GroveWorld/internal/shared/serverconfig"
)

// Needs a throwaway database: GROVE_TEST_MYSQL_HOST, _PORT, _USER, _PASSWORD, _DB.
func TestStore_Contract(t *testing.T) {
	host := os.Getenv("GROVE_TEST_MYSQL_HOST")
	if host == "" {
		t.Skip("GROVE_TEST_MYSQL_HOST not set")
	}
	port, _ := strconv.Atoi(os.Getenv("GROVE_TEST_MYSQL_PORT"))
	if port == 0 {
		port = 3306
	}
	gdb, err := db.Open(serverconfig.MySQLConfig{
		Host:     host,
		Port:     port,
		User:     os.Getenv("GROVE_TEST_MYSQL_USER"),
		Password: os.Getenv("GROVE_TEST_MYSQL_PASSWORD"),
		DBName:   os.Getenv("GROVE_TEST_MYSQL_DB"),
	})
	if err != nil {
		t.Fatalf("open err=%v", err)
	}
	ctx := context.Background()
	s, err := NewStore(ctx, gdb)
	if err != nil {
		t.Fatalf("NewStore err=%v", err)
	}
	gdb.Exec("DELETE FROM grove_kv WHERE id LIKE 'storetest:%'")
	t.Cleanup(func() { _ = s.Close(ctx) })

	storetest.Run(t, s)
}

func TestKVRecord_TableName(t *testing.T) {
	if (&KVRecord{}).TableName() != "grove_kv" {
		t.Fatalf("table renamed")
	}
}
