package assistant

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lumenplan/dayplanner/api/schemas"
	"github.com/lumenplan/dayplanner/internal/llmutil"
)

// processPillar turns a recurring-principle request into a Pillar. Unlike the
// other processors its degraded path still carries a payload: a safe default
// pillar the user can rename, because a pillar request nearly always means
// the user wants the object to exist.
func (a *Assistant) processPillar(ctx context.Context, message string, day schemas.DayContext, analysis schemas.MessageActionAnalysis) (schemas.AIResponse, bool, error) {
	completion, err := a.complete(ctx, pillarSystemPrompt, processorUserPrompt(message, day, analysis))
	if err != nil {
		return schemas.AIResponse{}, false, err
	}

	payload, parseErr := llmutil.DecodeCompletion[pillarPayload](completion)
	if parseErr != nil {
		a.logger.Warn("Pillar output unparseable, substituting default pillar", zap.Error(parseErr))
		return a.fallbackPillarResponse(analysis), true, nil
	}

	pillar := schemas.Pillar{
		ID:          newID(),
		Name:        orDefault(payload.Name, "New Pillar"),
		Description: payload.Description,
		Kind:        pillarKind(payload.Kind),
		Frequency:   orDefault(payload.Frequency, "weekly"),
		Values:      payload.Values,
		Habits:      payload.Habits,
		Constraints: payload.Constraints,
		Wisdom:      payload.Wisdom,
		Emoji:       orDefault(payload.Emoji, "🏛️"),
	}
	for _, q := range payload.QuietHours {
		pillar.QuietHours = append(pillar.QuietHours, schemas.QuietWindow{Start: q.Start, End: q.End})
	}

	item := schemas.CreatedItem{
		Kind:       schemas.CreatedPillar,
		ID:         pillar.ID,
		Title:      pillar.Name,
		Confidence: analysis.Confidence,
		Pillar:     &pillar,
	}
	if err := item.Validate(); err != nil {
		a.logger.Warn("Pillar payload invalid, substituting default pillar", zap.Error(err))
		return a.fallbackPillarResponse(analysis), true, nil
	}

	action := schemas.ActionCreatePillar
	return schemas.AIResponse{
		Text: fmt.Sprintf("New pillar %q (%s, %s): %s",
			pillar.Name, pillar.Kind, pillar.Frequency, pillar.Wisdom),
		ActionType:   &action,
		CreatedItems: []schemas.CreatedItem{item},
		Confidence:   analysis.Confidence,
	}, false, nil
}

// fallbackPillarResponse builds the degraded pillar result: a valid default
// payload at the original analysis confidence.
func (a *Assistant) fallbackPillarResponse(analysis schemas.MessageActionAnalysis) schemas.AIResponse {
	pillar := schemas.Pillar{
		ID:          newID(),
		Name:        "New Pillar",
		Description: "A recurring principle to shape your days. Edit this to make it yours.",
		Kind:        schemas.PillarPrinciple,
		Frequency:   "weekly",
		Values:      []string{"consistency", "balance", "intention"},
		Habits:      []string{"revisit this pillar weekly", "note when it guided a choice", "adjust it as life changes"},
		Constraints: []string{"keep it realistic", "one pillar per theme"},
		Wisdom:      "Small principles, kept daily, carry the furthest.",
		Emoji:       "🏛️",
	}

	action := schemas.ActionCreatePillar
	return schemas.AIResponse{
		Text:       "I couldn't work out the details of your pillar, so I've sketched a starting point — rename and reshape it as you like.",
		ActionType: &action,
		CreatedItems: []schemas.CreatedItem{{
			Kind:       schemas.CreatedPillar,
			ID:         pillar.ID,
			Title:      pillar.Name,
			Confidence: analysis.Confidence,
			Pillar:     &pillar,
		}},
		Confidence: analysis.Confidence,
	}
}

func pillarKind(raw string) schemas.PillarKind {
	if k := schemas.PillarKind(raw); k == schemas.PillarActionable || k == schemas.PillarPrinciple {
		return k
	}
	return schemas.PillarPrinciple
}
