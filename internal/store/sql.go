package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// Record is one persisted collection blob.
type Record struct {
	bun.BaseModel `bun:"table:kv"`

	Key       string    `bun:"key,pk"`
	Value     []byte    `bun:"value,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// SQL persists the key-value collections in a single table through bun.
// It works against SQLite and Postgres, whichever dialect the bun.DB was
// opened with.
type SQL struct {
	Bun *bun.DB
	bus Bus
}

func NewSQL(bunDB *bun.DB, bus Bus) *SQL {
	return &SQL{Bun: bunDB, bus: bus}
}

// Init creates the kv table if it does not exist yet.
func (s *SQL) Init(ctx context.Context) error {
	_, err := s.Bun.NewCreateTable().
		Model((*Record)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create kv table: %w", err)
	}
	return nil
}

func (s *SQL) Get(ctx context.Context, key string, into any) error {
	var rec Record
	err := s.Bun.NewSelect().
		Model(&rec).
		Where("key = ?", key).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(rec.Value, into)
}

func (s *SQL) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	rec := Record{Key: key, Value: raw, UpdatedAt: time.Now()}
	_, err = s.Bun.NewInsert().
		Model(&rec).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return err
	}
	if s.bus != nil {
		s.bus.Publish(key)
	}
	return nil
}

func (s *SQL) Delete(ctx context.Context, key string) error {
	_, err := s.Bun.NewDelete().
		Model((*Record)(nil)).
		Where("key = ?", key).
		Exec(ctx)
	if err != nil {
		return err
	}
	if s.bus != nil {
		s.bus.Publish(key)
	}
	return nil
}
