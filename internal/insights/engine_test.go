package insights

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/lumenplan/dayplanner/api/schemas"
)

var (
	morning   = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	afternoon = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	evening   = time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)
)

func TestEngineNeedsRepetition(t *testing.T) {
	e := NewEngine(zaptest.NewLogger(t))

	e.Record(schemas.ActionCreateEvent, morning)
	e.Record(schemas.ActionCreateEvent, morning)
	assert.Empty(t, e.Insights(context.Background(), 5), "two occurrences are not yet a pattern")

	e.Record(schemas.ActionCreateEvent, morning)
	got := e.Insights(context.Background(), 5)
	require.Len(t, got, 1)
	assert.Equal(t, "The user tends to schedule activities in the morning (3 times so far).", got[0])
}

func TestEngineIgnoresChat(t *testing.T) {
	e := NewEngine(zaptest.NewLogger(t))

	for i := 0; i < 10; i++ {
		e.Record(schemas.ActionGeneralChat, morning)
	}
	assert.Empty(t, e.Insights(context.Background(), 5))
}

func TestEngineSeparatesDayPhases(t *testing.T) {
	e := NewEngine(zaptest.NewLogger(t))

	for i := 0; i < 3; i++ {
		e.Record(schemas.ActionCreateEvent, morning)
	}
	for i := 0; i < 2; i++ {
		e.Record(schemas.ActionCreateEvent, evening)
	}

	got := e.Insights(context.Background(), 5)
	require.Len(t, got, 1, "the evening pattern has not repeated enough")
	assert.Contains(t, got[0], "in the morning")
}

func TestEngineOrdersByStrength(t *testing.T) {
	e := NewEngine(zaptest.NewLogger(t))

	for i := 0; i < 3; i++ {
		e.Record(schemas.ActionCreateGoal, afternoon)
	}
	for i := 0; i < 5; i++ {
		e.Record(schemas.ActionCreateEvent, morning)
	}

	got := e.Insights(context.Background(), 5)
	require.Len(t, got, 2)
	assert.Contains(t, got[0], "schedule activities")
	assert.Contains(t, got[1], "set goals")
}

func TestEngineHonorsLimit(t *testing.T) {
	e := NewEngine(zaptest.NewLogger(t))

	for i := 0; i < 3; i++ {
		e.Record(schemas.ActionCreateEvent, morning)
		e.Record(schemas.ActionCreateGoal, afternoon)
		e.Record(schemas.ActionSuggestActivities, evening)
	}

	assert.Len(t, e.Insights(context.Background(), 2), 2)
	assert.Len(t, e.Insights(context.Background(), 0), 3, "zero means no limit")
}

func TestEngineStableOrderForEqualCounts(t *testing.T) {
	e := NewEngine(zaptest.NewLogger(t))

	for i := 0; i < 3; i++ {
		e.Record(schemas.ActionCreateGoal, morning)
		e.Record(schemas.ActionCreateEvent, morning)
	}

	first := e.Insights(context.Background(), 5)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, e.Insights(context.Background(), 5))
	}
}
