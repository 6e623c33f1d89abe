package mongodb

import (
	"context"
	"os"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	"GroveWorld/internal/grove/infra/persistence/storetest"
	mongoinfra "GroveWorld/internal/shared/infrastructure/mongo"
	"GroveWorld/internal/shared/serverconfig"
)

func TestStore_Contract(t *testing.T) {
	uri := os.Getenv("GROVE_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("GROVE_TEST_MONGO_URI not set")
	}
	client, err := mongoinfra.Open(serverconfig.MongoDBConfig{URI: uri, Database: "grove_test"}, nil)
	if err != nil {
		t.Fatalf("open err=%v", err)
	}
	ctx := context.Background()
	s := NewStore(client, "grove_test", "kv_contract")
	if _, err := s.coll.DeleteMany(ctx, bson.M{}); err != nil {
		t.Fatalf("cleanup err=%v", err)
	}
	t.Cleanup(func() { _ = s.Close(ctx) })

	storetest.Run(t, s)
}
