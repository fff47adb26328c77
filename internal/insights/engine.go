// Package insights is a lightweight pattern recorder. It watches which
// actions the assistant dispatches and at what hour, and turns repeated
// behavior into short human-readable observations. The pipeline consumes
// those strings as optional prompt enrichment and nothing else; the engine
// never influences dispatch directly.
package insights

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lumenplan/dayplanner/api/schemas"
)

// minOccurrences is how often a pattern must repeat before it is worth
// mentioning to the model.
const minOccurrences = 3

type dayPhase string

const (
	phaseMorning   dayPhase = "morning"   // before 12:00
	phaseAfternoon dayPhase = "afternoon" // 12:00 to 17:59
	phaseEvening   dayPhase = "evening"   // from 18:00
)

type patternKey struct {
	action schemas.AssistantAction
	phase  dayPhase
}

// Engine aggregates observations in memory. Safe for concurrent use; the
// pipeline reads while the caller records.
type Engine struct {
	logger *zap.Logger

	mu     sync.RWMutex
	counts map[patternKey]int
	total  int
}

// NewEngine builds an empty engine.
func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{
		logger: logger.Named("insights"),
		counts: make(map[patternKey]int),
	}
}

// Record notes one dispatched action at its wall-clock moment. Plain chat is
// ignored; it says nothing about planning habits.
func (e *Engine) Record(action schemas.AssistantAction, at time.Time) {
	if action == schemas.ActionGeneralChat || !action.Valid() {
		return
	}
	key := patternKey{action: action, phase: phaseOf(at)}

	e.mu.Lock()
	e.counts[key]++
	e.total++
	count := e.counts[key]
	e.mu.Unlock()

	if count == minOccurrences {
		e.logger.Debug("Pattern crossed reporting threshold",
			zap.String("action", string(action)), zap.String("phase", string(key.phase)))
	}
}

// Insights returns up to limit observation strings, strongest pattern first.
// Implements schemas.InsightSource.
func (e *Engine) Insights(_ context.Context, limit int) []string {
	e.mu.RLock()
	type entry struct {
		key   patternKey
		count int
	}
	entries := make([]entry, 0, len(e.counts))
	for k, c := range e.counts {
		if c >= minOccurrences {
			entries = append(entries, entry{key: k, count: c})
		}
	}
	e.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		// Stable order for equal counts keeps prompts reproducible.
		if entries[i].key.action != entries[j].key.action {
			return entries[i].key.action < entries[j].key.action
		}
		return entries[i].key.phase < entries[j].key.phase
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	out := make([]string, len(entries))
	for i, en := range entries {
		out[i] = fmt.Sprintf("The user tends to %s in the %s (%d times so far).",
			describe(en.key.action), en.key.phase, en.count)
	}
	return out
}

func phaseOf(t time.Time) dayPhase {
	switch h := t.Hour(); {
	case h < 12:
		return phaseMorning
	case h < 18:
		return phaseAfternoon
	default:
		return phaseEvening
	}
}

func describe(action schemas.AssistantAction) string {
	switch action {
	case schemas.ActionCreateEvent:
		return "schedule activities"
	case schemas.ActionCreateGoal:
		return "set goals"
	case schemas.ActionCreatePillar:
		return "shape recurring pillars"
	case schemas.ActionCreateChain:
		return "build activity chains"
	case schemas.ActionSuggestActivities:
		return "ask for activity ideas"
	default:
		return "chat"
	}
}
