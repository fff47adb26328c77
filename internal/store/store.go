// Package store persists applied assistant output. The pipeline itself never
// writes here; the caller decides which created items survive and hands them
// over after the fact.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/lumenplan/dayplanner/api/schemas"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS created_items (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	title      TEXT NOT NULL,
	confidence REAL NOT NULL,
	payload    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_created_items_kind ON created_items(kind);
`

// Store is a sqlite-backed planner store for goals, pillars, chains and time
// blocks.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (creating if needed) the planner database at path. ":memory:"
// gives an ephemeral store for tests.
func Open(path string, logger *zap.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening planner db at %s: %w", path, err)
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying planner schema: %w", err)
	}
	return &Store{db: db, logger: logger.Named("store")}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Apply persists one created item. The item is validated again at this
// boundary; the store refuses half-formed unions no matter who built them.
func (s *Store) Apply(ctx context.Context, item schemas.CreatedItem) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("refusing to persist invalid item: %w", err)
	}

	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshaling item %s: %w", item.ID, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO created_items (id, kind, title, confidence, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID, string(item.Kind), item.Title, item.Confidence, string(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("persisting item %s: %w", item.ID, err)
	}

	s.logger.Debug("Item persisted",
		zap.String("kind", string(item.Kind)), zap.String("id", item.ID), zap.String("title", item.Title))
	return nil
}

// ListByKind returns all stored items of one kind, newest first.
func (s *Store) ListByKind(ctx context.Context, kind schemas.CreatedKind) ([]schemas.CreatedItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM created_items WHERE kind = ? ORDER BY created_at DESC`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("listing %s items: %w", kind, err)
	}
	defer rows.Close()

	var items []schemas.CreatedItem
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var item schemas.CreatedItem
		if err := json.Unmarshal([]byte(payload), &item); err != nil {
			// A row that no longer validates is logged and skipped, not fatal.
			s.logger.Warn("Skipping undecodable stored item", zap.Error(err))
			continue
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Goals returns every stored goal payload.
func (s *Store) Goals(ctx context.Context) ([]schemas.Goal, error) {
	items, err := s.ListByKind(ctx, schemas.CreatedGoal)
	if err != nil {
		return nil, err
	}
	goals := make([]schemas.Goal, 0, len(items))
	for _, it := range items {
		goals = append(goals, *it.Goal)
	}
	return goals, nil
}

// Pillars returns every stored pillar payload.
func (s *Store) Pillars(ctx context.Context) ([]schemas.Pillar, error) {
	items, err := s.ListByKind(ctx, schemas.CreatedPillar)
	if err != nil {
		return nil, err
	}
	pillars := make([]schemas.Pillar, 0, len(items))
	for _, it := range items {
		pillars = append(pillars, *it.Pillar)
	}
	return pillars, nil
}

// Schedule returns every stored time block, soonest first.
func (s *Store) Schedule(ctx context.Context) ([]schemas.TimeBlock, error) {
	items, err := s.ListByKind(ctx, schemas.CreatedEvent)
	if err != nil {
		return nil, err
	}
	blocks := make([]schemas.TimeBlock, 0, len(items))
	for _, it := range items {
		blocks = append(blocks, *it.Event)
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].StartTime.Before(blocks[j].StartTime) })
	return blocks, nil
}
