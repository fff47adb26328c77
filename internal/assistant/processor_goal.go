package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/lumenplan/dayplanner/api/schemas"
	"github.com/lumenplan/dayplanner/internal/llmutil"
)

// Target dates land between 3 and 12 months out; anything else from the
// model is replaced by the 6-month midpoint.
const (
	minTargetMonths     = 3
	maxTargetMonths     = 12
	defaultTargetMonths = 6
)

// processGoal turns an aspiration into a tracked Goal. Importance follows the
// linguistic-cue policy, with the model's number only breaking ties.
func (a *Assistant) processGoal(ctx context.Context, message string, day schemas.DayContext, analysis schemas.MessageActionAnalysis) (schemas.AIResponse, bool, error) {
	completion, err := a.complete(ctx, goalSystemPrompt, processorUserPrompt(message, day, analysis))
	if err != nil {
		return schemas.AIResponse{}, false, err
	}

	payload, parseErr := llmutil.DecodeCompletion[goalPayload](completion)
	if parseErr != nil {
		return a.degradedResponse(analysis, parseErr), true, nil
	}

	target := a.resolveTargetDate(payload.TargetDate)
	goal := schemas.Goal{
		ID:          newID(),
		Title:       orDefault(payload.Title, truncateTitle(message, message)),
		Description: payload.Description,
		State:       schemas.GoalDraft,
		Importance:  mapImportance(message, payload.Importance),
		TargetDate:  &target,
		Emoji:       orDefault(payload.Emoji, "🎯"),
	}
	for _, g := range payload.TaskGroups {
		goal.TaskGroups = append(goal.TaskGroups, schemas.TaskGroup{Name: g.Name, Tasks: g.Tasks})
	}

	item := schemas.CreatedItem{
		Kind:       schemas.CreatedGoal,
		ID:         goal.ID,
		Title:      goal.Title,
		Confidence: analysis.Confidence,
		Goal:       &goal,
	}
	if err := item.Validate(); err != nil {
		return a.degradedResponse(analysis, err), true, nil
	}

	action := schemas.ActionCreateGoal
	return schemas.AIResponse{
		Text: fmt.Sprintf("New goal %q, importance %d, aiming for %s.",
			goal.Title, goal.Importance, target.Format("January 2006")),
		ActionType:   &action,
		CreatedItems: []schemas.CreatedItem{item},
		Confidence:   analysis.Confidence,
	}, false, nil
}

// resolveTargetDate parses the model's date and forces it into the 3-12
// month window relative to today.
func (a *Assistant) resolveTargetDate(raw string) time.Time {
	now := a.now()
	earliest := now.AddDate(0, minTargetMonths, 0)
	latest := now.AddDate(0, maxTargetMonths, 0)

	if raw != "" {
		if t, err := time.ParseInLocation("2006-01-02", raw, now.Location()); err == nil {
			if t.Before(earliest) {
				return earliest
			}
			if t.After(latest) {
				return latest
			}
			return t
		}
	}
	return now.AddDate(0, defaultTargetMonths, 0)
}
