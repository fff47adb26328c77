package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/lumenplan/dayplanner/api/schemas"
	"github.com/lumenplan/dayplanner/internal/llmutil"
)

// Event duration bounds, in line with the wire contract.
const (
	minEventDuration = 15 * time.Minute
	maxEventDuration = 4 * time.Hour
)

// processEvent turns a scheduling request into a single TimeBlock. The model
// round-trip supplies the block; local time extraction fills the start when
// the model omits one, and the energy mapping policy has the final say over
// the energy level so identical cues always land on the same phase.
func (a *Assistant) processEvent(ctx context.Context, message string, day schemas.DayContext, analysis schemas.MessageActionAnalysis) (schemas.AIResponse, bool, error) {
	completion, err := a.complete(ctx, eventSystemPrompt, processorUserPrompt(message, day, analysis))
	if err != nil {
		return schemas.AIResponse{}, false, err
	}

	payload, parseErr := llmutil.DecodeCompletion[eventPayload](completion)
	if parseErr != nil {
		return a.degradedResponse(analysis, parseErr), true, nil
	}

	now := a.now()
	block := schemas.TimeBlock{
		ID:        newID(),
		Title:     truncateTitle(payload.Title, message),
		StartTime: a.resolveStart(payload.StartTime, message, now),
		Duration:  clampDuration(time.Duration(payload.DurationSeconds)*time.Second, message, minEventDuration, maxEventDuration),
		Energy:    mapEnergy(message, payload.Energy),
		Emoji:     orDefault(payload.Emoji, "📅"),
		Rationale: payload.Rationale,
	}

	item := schemas.CreatedItem{
		Kind:       schemas.CreatedEvent,
		ID:         block.ID,
		Title:      block.Title,
		Confidence: analysis.Confidence,
		Event:      &block,
	}
	if err := item.Validate(); err != nil {
		return a.degradedResponse(analysis, err), true, nil
	}

	action := schemas.ActionCreateEvent
	return schemas.AIResponse{
		Text: fmt.Sprintf("Scheduled %q at %s for %s.",
			block.Title, block.StartTime.Format("15:04"), formatDuration(block.Duration)),
		ActionType:   &action,
		CreatedItems: []schemas.CreatedItem{item},
		Confidence:   analysis.Confidence,
	}, false, nil
}

// resolveStart picks the block start: the model's ISO time when it gave one,
// the message's own time expression otherwise, the next free quarter hour as
// the last resort.
func (a *Assistant) resolveStart(modelTime, message string, now time.Time) time.Time {
	if modelTime != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04"} {
			if t, err := time.ParseInLocation(layout, modelTime, now.Location()); err == nil {
				return t
			}
		}
	}
	if hint, ok := parseTimeHint(message, now); ok {
		return hint
	}
	return nextSlot(now)
}

// clampDuration prefers an explicit duration in the message over the model's
// number, then forces the result into bounds. A zero/absent duration becomes
// the lower bound doubled, a half-hour default.
func clampDuration(modelDuration time.Duration, message string, min, max time.Duration) time.Duration {
	d := modelDuration
	if hint, ok := parseDurationHint(message); ok {
		d = hint
	}
	if d <= 0 {
		d = 2 * min
	}
	if d < min {
		return min
	}
	if d > max {
		return max
	}
	return d
}

// truncateTitle bounds the title at 30 runes, substituting a trimmed slice of
// the message when the model returned none.
func truncateTitle(title, fallback string) string {
	if title == "" {
		title = fallback
	}
	runes := []rune(title)
	if len(runes) > 30 {
		return string(runes[:30])
	}
	return title
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
