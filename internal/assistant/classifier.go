package assistant

import (
	"context"

	"go.uber.org/zap"

	"github.com/lumenplan/dayplanner/api/schemas"
	"github.com/lumenplan/dayplanner/internal/llmutil"
)

// classify produces a MessageActionAnalysis for one message. Malformed model
// output never surfaces as an error here: the analysis degrades to the chat
// fallback so the pipeline always has something to dispatch. Only completion
// client failures (connectivity, timeout) propagate.
func (a *Assistant) classify(ctx context.Context, message string, day schemas.DayContext, insights []string) (schemas.MessageActionAnalysis, error) {
	// Classification wants determinism more than creativity.
	temperature := 0.2
	req := schemas.CompletionRequest{
		SystemPrompt: classifierSystemPrompt(a.effectiveThresholds()),
		UserPrompt:   classifierUserPrompt(message, day, insights),
		Options: schemas.CompletionOptions{
			Temperature: &temperature,
		},
	}

	completion, err := a.client.Complete(ctx, req)
	if err != nil {
		return schemas.MessageActionAnalysis{}, err
	}

	payload, err := llmutil.DecodeCompletion[classifierPayload](completion)
	if err != nil {
		a.logger.Warn("Classifier output unparseable, degrading to chat",
			zap.Error(err), zap.Int("completion_bytes", len(completion)))
		return schemas.FallbackAnalysis(), nil
	}

	analysis := schemas.MessageActionAnalysis{
		Intent:           payload.Intent,
		Confidence:       payload.Confidence,
		Action:           schemas.AssistantAction(payload.RecommendedAction),
		Entities:         payload.ExtractedEntities,
		Urgency:          schemas.UrgencyLevel(payload.Urgency),
		ContextAlignment: payload.ContextAlignment,
	}
	if analysis.Intent == "" {
		a.logger.Warn("Classifier output missing intent, degrading to chat")
		return schemas.FallbackAnalysis(), nil
	}
	analysis.Clamp()

	a.logger.Debug("Message classified",
		zap.String("action", string(analysis.Action)),
		zap.Float64("confidence", analysis.Confidence),
		zap.String("urgency", string(analysis.Urgency)),
	)
	return analysis, nil
}

// effectiveThresholds materializes the full threshold table, config overrides
// applied over the design defaults.
func (a *Assistant) effectiveThresholds() map[schemas.AssistantAction]float64 {
	actions := []schemas.AssistantAction{
		schemas.ActionCreateEvent,
		schemas.ActionCreateGoal,
		schemas.ActionCreatePillar,
		schemas.ActionCreateChain,
		schemas.ActionSuggestActivities,
	}
	table := make(map[schemas.AssistantAction]float64, len(actions))
	for _, action := range actions {
		table[action] = a.cfg.Threshold(action)
	}
	return table
}
