package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lumenplan/dayplanner/api/schemas"
	"github.com/lumenplan/dayplanner/internal/llmutil"
)

// Chain blocks use a tighter duration window than standalone events.
const (
	minChainBlockDuration = 15 * time.Minute
	maxChainBlockDuration = 2 * time.Hour
)

// processChain turns a sequence request into a Chain of 2-4 blocks with a
// flow pattern.
func (a *Assistant) processChain(ctx context.Context, message string, day schemas.DayContext, analysis schemas.MessageActionAnalysis) (schemas.AIResponse, bool, error) {
	completion, err := a.complete(ctx, chainSystemPrompt, processorUserPrompt(message, day, analysis))
	if err != nil {
		return schemas.AIResponse{}, false, err
	}

	payload, parseErr := llmutil.DecodeCompletion[chainPayload](completion)
	if parseErr != nil {
		return a.degradedResponse(analysis, parseErr), true, nil
	}

	chain := schemas.Chain{
		ID:    newID(),
		Name:  orDefault(payload.Name, "New Chain"),
		Flow:  flowPattern(payload.Flow),
		Emoji: orDefault(payload.Emoji, "🔗"),
	}
	for _, b := range payload.Blocks {
		chain.Blocks = append(chain.Blocks, schemas.TimeBlock{
			ID:       newID(),
			Title:    truncateTitle(b.Title, "Step"),
			Duration: clampDuration(time.Duration(b.DurationSeconds)*time.Second, "", minChainBlockDuration, maxChainBlockDuration),
			Energy:   mapEnergy(b.Title, b.Energy),
			Emoji:    orDefault(b.Emoji, "▫️"),
		})
	}

	item := schemas.CreatedItem{
		Kind:       schemas.CreatedChain,
		ID:         chain.ID,
		Title:      chain.Name,
		Confidence: analysis.Confidence,
		Chain:      &chain,
	}
	if err := item.Validate(); err != nil {
		return a.degradedResponse(analysis, err), true, nil
	}

	titles := make([]string, len(chain.Blocks))
	for i, b := range chain.Blocks {
		titles[i] = b.Title
	}

	action := schemas.ActionCreateChain
	return schemas.AIResponse{
		Text: fmt.Sprintf("New %s chain %q: %s.",
			chain.Flow, chain.Name, strings.Join(titles, " → ")),
		ActionType:   &action,
		CreatedItems: []schemas.CreatedItem{item},
		Confidence:   analysis.Confidence,
	}, false, nil
}

func flowPattern(raw string) schemas.FlowPattern {
	if f := schemas.FlowPattern(raw); f.Valid() {
		return f
	}
	return schemas.FlowWaterfall
}
