package surrealdb

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bobmcallan/argos/internal/common"
	tcommon "github.com/bobmcallan/argos/tests/common"
	surreal "github.com/surrealdb/surrealdb.go"
)

// testStore starts the shared SurrealDB container and returns a store bound to
// a database unique to the test.
func testStore(t *testing.T) *Store {
	t.Helper()

	sc := tcommon.StartSurrealDB(t)
	ctx := context.Background()

	db, err := surreal.New(sc.Address())
	if err != nil {
		t.Fatalf("connect to SurrealDB: %v", err)
	}

	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": "root",
		"pass": "root",
	}); err != nil {
		t.Fatalf("sign in to SurrealDB: %v", err)
	}

	// SurrealDB rejects "/" in database names
	sanitized := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dbName := fmt.Sprintf("t_%s_%d", sanitized, time.Now().UnixNano()%100000)
	if err := db.Use(ctx, "argos_test", dbName); err != nil {
		t.Fatalf("select namespace/database: %v", err)
	}

	store, err := newStore(ctx, db, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("init store: %v", err)
	}

	t.Cleanup(func() {
		store.Close()
	})

	return store
}
