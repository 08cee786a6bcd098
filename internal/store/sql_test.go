package store_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"tcs-portal/internal/store"
)

func setupSQL(t *testing.T) *store.SQL {
	t.Helper()
	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("Failed to open in-memory SQLite: %v", err)
	}
	t.Cleanup(func() { sqldb.Close() })

	kv := store.NewSQL(bun.NewDB(sqldb, sqlitedialect.New()), store.NewMemoryBus())
	if err := kv.Init(context.Background()); err != nil {
		t.Fatalf("Failed to create kv table: %v", err)
	}
	return kv
}

func TestSQLSetAndGet(t *testing.T) {
	kv := setupSQL(t)
	ctx := context.Background()

	type record struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	assert.NoError(t, kv.Set(ctx, "tcs_sample", record{Name: "Ali", Count: 3}))

	var got record
	assert.NoError(t, kv.Get(ctx, "tcs_sample", &got))
	assert.Equal(t, record{Name: "Ali", Count: 3}, got)
}

func TestSQLGetMissingKey(t *testing.T) {
	kv := setupSQL(t)

	var into map[string]any
	err := kv.Get(context.Background(), "tcs_absent", &into)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSQLSetOverwrites(t *testing.T) {
	kv := setupSQL(t)
	ctx := context.Background()

	assert.NoError(t, kv.Set(ctx, "tcs_sample", []string{"a"}))
	assert.NoError(t, kv.Set(ctx, "tcs_sample", []string{"a", "b"}))

	var got []string
	assert.NoError(t, kv.Get(ctx, "tcs_sample", &got))
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestSQLDelete(t *testing.T) {
	kv := setupSQL(t)
	ctx := context.Background()

	assert.NoError(t, kv.Set(ctx, "tcs_sample", "value"))
	assert.NoError(t, kv.Delete(ctx, "tcs_sample"))

	var got string
	assert.ErrorIs(t, kv.Get(ctx, "tcs_sample", &got), store.ErrNotFound)

	// Deleting a missing key is not an error.
	assert.NoError(t, kv.Delete(ctx, "tcs_sample"))
}

func TestSQLPublishesAfterWrite(t *testing.T) {
	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("Failed to open in-memory SQLite: %v", err)
	}
	t.Cleanup(func() { sqldb.Close() })

	bus := store.NewMemoryBus()
	kv := store.NewSQL(bun.NewDB(sqldb, sqlitedialect.New()), bus)
	ctx := context.Background()
	assert.NoError(t, kv.Init(ctx))

	changed, cancel := bus.Subscribe()
	defer cancel()

	assert.NoError(t, kv.Set(ctx, "tcs_events", []string{}))
	assert.Equal(t, "tcs_events", <-changed)

	assert.NoError(t, kv.Delete(ctx, "tcs_events"))
	assert.Equal(t, "tcs_events", <-changed)
}
