package assistant

import (
	"context"
	"time"

	"github.com/lumenplan/dayplanner/api/schemas"
	"github.com/lumenplan/dayplanner/internal/llmutil"
)

// maxSuggestions caps how many proposals ride along with a reply.
const maxSuggestions = 2

// processChat is the shared suggestion/general-chat path: one round-trip for
// a conversational reply plus up to two lightweight suggestions. It is also
// the landing spot for everything the classifier could not place elsewhere.
func (a *Assistant) processChat(ctx context.Context, message string, day schemas.DayContext, analysis schemas.MessageActionAnalysis) (schemas.AIResponse, bool, error) {
	completion, err := a.complete(ctx, chatSystemPrompt, processorUserPrompt(message, day, analysis))
	if err != nil {
		return schemas.AIResponse{}, false, err
	}

	payload, parseErr := llmutil.DecodeCompletion[chatPayload](completion)
	if parseErr != nil || payload.Reply == "" {
		resp := a.degradedResponse(analysis, parseErr)
		if analysis.Action == schemas.ActionGeneralChat {
			// Plain chat keeps no action tag; there is nothing to route.
			resp.ActionType = nil
			resp.Text = "I'm here. Tell me a bit more about your day and I'll help you shape it."
		}
		return resp, true, nil
	}

	resp := schemas.AIResponse{
		Text:       payload.Reply,
		Confidence: analysis.Confidence,
	}
	if analysis.Action == schemas.ActionSuggestActivities {
		action := schemas.ActionSuggestActivities
		resp.ActionType = &action
	}

	for i, s := range payload.Suggestions {
		if i >= maxSuggestions {
			break
		}
		suggestion := schemas.Suggestion{
			Title:         s.Title,
			Duration:      clampDuration(time.Duration(s.DurationSeconds)*time.Second, "", minChainBlockDuration, maxChainBlockDuration),
			SuggestedTime: s.SuggestedTime,
			Energy:        mapEnergy(s.Title, s.Energy),
			Emoji:         orDefault(s.Emoji, "💡"),
			Explanation:   s.Explanation,
			Confidence:    clampScore(s.Confidence, analysis.Confidence),
			Weight:        clampScore(s.Weight, 0.5),
			Reason:        s.Reason,
			LinkHints:     s.LinkHints,
		}
		if s.RelatedGoal != "" {
			suggestion.RelatedGoal = &schemas.ItemRef{Title: s.RelatedGoal}
		}
		if s.RelatedPillar != "" {
			suggestion.RelatedPillar = &schemas.ItemRef{Title: s.RelatedPillar}
		}
		resp.Suggestions = append(resp.Suggestions, suggestion)
	}

	return resp, false, nil
}

// clampScore forces a model-reported score into [0,1], substituting def for
// absent (zero) values.
func clampScore(v, def float64) float64 {
	if v == 0 {
		return def
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
