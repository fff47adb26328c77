package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/lumenplan/dayplanner/api/schemas"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:", zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func eventItem(id, title string, start time.Time) schemas.CreatedItem {
	return schemas.CreatedItem{
		Kind:       schemas.CreatedEvent,
		ID:         id,
		Title:      title,
		Confidence: 0.9,
		Event: &schemas.TimeBlock{
			ID:        id,
			Title:     title,
			StartTime: start,
			Duration:  45 * time.Minute,
			Energy:    schemas.EnergyDaylight,
			Emoji:     "📅",
		},
	}
}

func TestApplyAndSchedule(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	noon := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Apply(ctx, eventItem("e2", "Lunch walk", noon)))
	require.NoError(t, s.Apply(ctx, eventItem("e1", "Morning workout", noon.Add(-5*time.Hour))))
	require.NoError(t, s.Apply(ctx, eventItem("e3", "Evening reading", noon.Add(8*time.Hour))))

	blocks, err := s.Schedule(ctx)
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.Equal(t, "Morning workout", blocks[0].Title)
	assert.Equal(t, "Lunch walk", blocks[1].Title)
	assert.Equal(t, "Evening reading", blocks[2].Title)
}

func TestApplyIsIdempotentPerID(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	start := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)
	require.NoError(t, s.Apply(ctx, eventItem("e1", "Workout", start)))

	renamed := eventItem("e1", "Longer workout", start)
	require.NoError(t, s.Apply(ctx, renamed))

	blocks, err := s.Schedule(ctx)
	require.NoError(t, err)
	require.Len(t, blocks, 1, "re-applying the same id replaces, not duplicates")
	assert.Equal(t, "Longer workout", blocks[0].Title)
}

func TestApplyRefusesInvalidItems(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	bad := eventItem("e1", "Workout", time.Now())
	bad.Event = nil

	err := s.Apply(ctx, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refusing to persist")

	blocks, err := s.Schedule(ctx)
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestGoalsAndPillars(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	target := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	goal := schemas.CreatedItem{
		Kind:       schemas.CreatedGoal,
		ID:         "g1",
		Title:      "Run a Marathon",
		Confidence: 0.85,
		Goal: &schemas.Goal{
			ID: "g1", Title: "Run a Marathon", State: schemas.GoalDraft,
			Importance: 3, TargetDate: &target, Emoji: "🏃",
		},
	}
	pillar := schemas.CreatedItem{
		Kind:       schemas.CreatedPillar,
		ID:         "p1",
		Title:      "Deep Work",
		Confidence: 0.9,
		Pillar: &schemas.Pillar{
			ID: "p1", Name: "Deep Work", Kind: schemas.PillarPrinciple, Frequency: "daily",
			Values: []string{"focus"}, Habits: []string{"mornings offline"}, Emoji: "🏛️",
		},
	}
	require.NoError(t, s.Apply(ctx, goal))
	require.NoError(t, s.Apply(ctx, pillar))

	goals, err := s.Goals(ctx)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, "Run a Marathon", goals[0].Title)

	pillars, err := s.Pillars(ctx)
	require.NoError(t, err)
	require.Len(t, pillars, 1)
	assert.Equal(t, "Deep Work", pillars[0].Name)

	// Kinds never bleed into each other.
	blocks, err := s.Schedule(ctx)
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestListByKindSkipsCorruptRows(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Apply(ctx, eventItem("e1", "Workout", time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC))))

	// Sneak a row past Apply's validation.
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO created_items (id, kind, title, confidence, payload, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		"bad", "event", "Corrupt", 0.5, `{"kind": "event", "id": "bad"}`, time.Now().UTC(),
	)
	require.NoError(t, err)

	items, err := s.ListByKind(ctx, schemas.CreatedEvent)
	require.NoError(t, err)
	require.Len(t, items, 1, "the corrupt row is skipped, not fatal")
	assert.Equal(t, "e1", items[0].ID)
}
