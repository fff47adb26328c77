// Package assistant holds the message-intent pipeline: one classification
// round-trip, one processor round-trip, and uniform response assembly. Each
// call is independent and stateless; the only shared reads are the health
// snapshot and the optional insight strings.
package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lumenplan/dayplanner/api/schemas"
	"github.com/lumenplan/dayplanner/internal/config"
	"github.com/lumenplan/dayplanner/internal/llmclient"
)

// pipelineStage names the per-message state machine stages. Terminal stages
// are Completed and DegradedFallback; both still return a usable AIResponse.
type pipelineStage string

const (
	stageReceived         pipelineStage = "RECEIVED"
	stageClassifying      pipelineStage = "CLASSIFYING"
	stageDispatched       pipelineStage = "DISPATCHED"
	stageCompleted        pipelineStage = "COMPLETED"
	stageDegradedFallback pipelineStage = "DEGRADED_FALLBACK"
)

// Assistant runs the pipeline. Construct one per process; ProcessMessage is
// safe for concurrent use.
type Assistant struct {
	client   schemas.CompletionClient
	health   schemas.HealthSource
	insights schemas.InsightSource // may be nil
	cfg      config.AssistantConfig
	logger   *zap.Logger

	// now is swappable for deterministic tests.
	now func() time.Time
}

// New builds an Assistant. insights may be nil when no pattern engine runs.
func New(client schemas.CompletionClient, health schemas.HealthSource, insights schemas.InsightSource, cfg config.AssistantConfig, logger *zap.Logger) *Assistant {
	return &Assistant{
		client:   client,
		health:   health,
		insights: insights,
		cfg:      cfg,
		logger:   logger.Named("assistant"),
		now:      time.Now,
	}
}

// ProcessMessage runs one message through classify → dispatch → assemble.
//
// The only error cases are connectivity ones: a failing health snapshot
// rejects the message before any model call, and completion client failures
// propagate as *llmclient.AIError. Everything past a successful model call
// degrades instead of failing — malformed model JSON produces a lower-trust
// AIResponse, never an error.
func (a *Assistant) ProcessMessage(ctx context.Context, message string, day schemas.DayContext) (schemas.AIResponse, error) {
	a.logger.Debug("Message received",
		zap.String("stage", string(stageReceived)), zap.Int("message_bytes", len(message)))

	if status := a.health.Status(); !status.Connected {
		return schemas.AIResponse{}, llmclient.NewAIError(llmclient.ErrCodeNotConnected,
			fmt.Sprintf("provider offline since %s: %s", status.CheckedAt.Format(time.RFC3339), status.Detail), nil)
	}

	a.logger.Debug("Classifying message", zap.String("stage", string(stageClassifying)))
	analysis, err := a.classify(ctx, message, day, a.currentInsights(ctx))
	if err != nil {
		return schemas.AIResponse{}, err
	}

	a.logger.Debug("Dispatching message",
		zap.String("stage", string(stageDispatched)),
		zap.String("action", string(analysis.Action)),
		zap.Float64("confidence", analysis.Confidence),
	)

	resp, degraded, err := a.dispatch(ctx, message, day, analysis)
	if err != nil {
		return schemas.AIResponse{}, err
	}

	stage := stageCompleted
	if degraded {
		stage = stageDegradedFallback
	}
	a.logger.Info("Message processed",
		zap.String("stage", string(stage)),
		zap.String("action", string(analysis.Action)),
		zap.Int("created_items", len(resp.CreatedItems)),
		zap.Int("suggestions", len(resp.Suggestions)),
	)
	return resp, nil
}

// dispatch routes the analysis to its processor, gating auto-apply on the
// per-action confidence threshold first. A below-threshold result never
// reaches a processor that could create a domain object; it becomes guidance
// text asking for more detail.
func (a *Assistant) dispatch(ctx context.Context, message string, day schemas.DayContext, analysis schemas.MessageActionAnalysis) (schemas.AIResponse, bool, error) {
	switch analysis.Action {
	case schemas.ActionCreateEvent, schemas.ActionCreateGoal, schemas.ActionCreatePillar, schemas.ActionCreateChain:
		if analysis.Confidence < a.cfg.Threshold(analysis.Action) {
			return a.guidanceResponse(analysis), false, nil
		}
	case schemas.ActionSuggestActivities:
		if analysis.Confidence < a.cfg.Threshold(analysis.Action) {
			analysis.Action = schemas.ActionGeneralChat
		}
	}

	switch analysis.Action {
	case schemas.ActionCreateEvent:
		return a.processEvent(ctx, message, day, analysis)
	case schemas.ActionCreateGoal:
		return a.processGoal(ctx, message, day, analysis)
	case schemas.ActionCreatePillar:
		return a.processPillar(ctx, message, day, analysis)
	case schemas.ActionCreateChain:
		return a.processChain(ctx, message, day, analysis)
	default:
		return a.processChat(ctx, message, day, analysis)
	}
}

// guidanceResponse is the below-threshold path: the action tag survives so
// the UI can prompt for the missing pieces, but nothing is created.
func (a *Assistant) guidanceResponse(analysis schemas.MessageActionAnalysis) schemas.AIResponse {
	action := analysis.Action
	var text string
	switch action {
	case schemas.ActionCreateEvent:
		text = "I think you want to schedule something, but I need more detail. What activity, and roughly when?"
	case schemas.ActionCreateGoal:
		text = "This sounds like it could become a goal. Tell me a bit more about what you want to achieve and by when."
	case schemas.ActionCreatePillar:
		text = "This could be a recurring pillar of your days. What should it protect, and how often?"
	case schemas.ActionCreateChain:
		text = "Sounds like a sequence of activities. Which steps, and in what order?"
	default:
		text = "Could you tell me a bit more about what you'd like to do?"
	}
	return schemas.AIResponse{
		Text:       text,
		ActionType: &action,
		Confidence: analysis.Confidence,
	}
}

// degradedResponse is the parse-failure path shared by the processors: a
// generic acknowledgement with no suggestions, confidence capped at the
// analysis confidence.
func (a *Assistant) degradedResponse(analysis schemas.MessageActionAnalysis, parseErr error) schemas.AIResponse {
	action := analysis.Action
	a.logger.Warn("Processor output unparseable, returning degraded response",
		zap.String("action", string(action)), zap.Error(parseErr))
	return schemas.AIResponse{
		Text:       "I understood what you're after, but I couldn't work out the details this time. Mind rephrasing?",
		ActionType: &action,
		Confidence: analysis.Confidence,
	}
}

func (a *Assistant) currentInsights(ctx context.Context) []string {
	if a.insights == nil {
		return nil
	}
	limit := a.cfg.MaxInsights
	if limit <= 0 {
		limit = 5
	}
	return a.insights.Insights(ctx, limit)
}

// complete wraps the single model round-trip a processor makes. Temperature
// stays unset so the client applies the configured default.
func (a *Assistant) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return a.client.Complete(ctx, schemas.CompletionRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		Options: schemas.CompletionOptions{
			MaxTokens: a.cfg.Model.MaxTokens,
		},
	})
}

func newID() string { return uuid.NewString() }
