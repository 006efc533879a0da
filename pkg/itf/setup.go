// Package itf provides integration test fixtures. Tests that need a real
// database call Setup, which skips when TEST_DB_OPTS is not set so the unit
// suite stays runnable without Postgres.
package itf

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/relayhq/relay-server/migrations"
	"github.com/relayhq/relay-server/pkg/composables"
)

// Tables in child-first order so TRUNCATE ... CASCADE is not required.
var allTables = []string{
	"personnel_events",
	"personnel_shot_requests",
	"project_personnel",
	"event_shot_requests",
	"project_shot_requests",
	"access_requests",
	"images",
	"shot_requests",
	"events",
	"projects",
	"personnels",
	"users",
	"organizations",
	"companies",
}

type Fixtures struct {
	Pool *pgxpool.Pool
	Ctx  context.Context
}

// Setup connects to the test database, applies migrations, and truncates all
// tables. The returned context carries the pool for composables.UseTx.
func Setup(t *testing.T) *Fixtures {
	t.Helper()

	opts := os.Getenv("TEST_DB_OPTS")
	if opts == "" {
		t.Skip("TEST_DB_OPTS not set, skipping database test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	t.Cleanup(cancel)

	config, err := pgxpool.ParseConfig(opts)
	if err != nil {
		t.Fatal(err)
	}
	config.MaxConns = 4
	config.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(pool.Close)

	if err := migrations.Up(ctx, pool); err != nil {
		t.Fatal(err)
	}
	Truncate(t, ctx, pool)

	return &Fixtures{
		Pool: pool,
		Ctx:  composables.WithPool(context.Background(), pool),
	}
}

func Truncate(t *testing.T, ctx context.Context, pool *pgxpool.Pool) {
	t.Helper()
	for _, table := range allTables {
		if _, err := pool.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)); err != nil {
			t.Fatalf("truncate %s: %v", table, err)
		}
	}
}
