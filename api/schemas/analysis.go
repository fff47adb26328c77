package schemas

// AssistantAction is the fixed taxonomy of things the assistant can do with a
// user message. The classifier picks exactly one per message.
type AssistantAction string

const (
	ActionCreateEvent       AssistantAction = "createEvent"
	ActionCreateGoal        AssistantAction = "createGoal"
	ActionCreatePillar      AssistantAction = "createPillar"
	ActionCreateChain       AssistantAction = "createChain"
	ActionSuggestActivities AssistantAction = "suggestActivities"
	ActionGeneralChat       AssistantAction = "generalChat"
)

// Valid reports whether the value is a known action kind.
func (a AssistantAction) Valid() bool {
	switch a {
	case ActionCreateEvent, ActionCreateGoal, ActionCreatePillar,
		ActionCreateChain, ActionSuggestActivities, ActionGeneralChat:
		return true
	}
	return false
}

// UrgencyLevel grades how soon the user appears to want the action applied.
type UrgencyLevel string

const (
	UrgencyLow       UrgencyLevel = "low"
	UrgencyMedium    UrgencyLevel = "medium"
	UrgencyHigh      UrgencyLevel = "high"
	UrgencyImmediate UrgencyLevel = "immediate"
)

// MessageActionAnalysis is the classifier's verdict on a single user message.
// It is ephemeral; one is produced per message and discarded after dispatch.
type MessageActionAnalysis struct {
	// Intent is a short human-readable description of what the user wants.
	Intent string `json:"intent"`
	// Confidence is the model-reported certainty in [0,1]. The dispatcher
	// compares it against the per-action threshold before auto-applying.
	Confidence float64 `json:"confidence"`
	// Action is the recommended handler for the message.
	Action AssistantAction `json:"recommendedAction"`
	// Entities holds pieces the model extracted from the message, keyed by
	// names like "activity", "time", "duration", "importance".
	Entities map[string]string `json:"extractedEntities,omitempty"`
	// Urgency grades how pressing the request is.
	Urgency UrgencyLevel `json:"urgency"`
	// ContextAlignment scores, in [0,1], how well the request fits the
	// current DayContext (energy, free time, existing schedule).
	ContextAlignment float64 `json:"contextAlignment"`
}

// Clamp forces the two scores into [0,1] and fills unset enum fields with
// their conservative defaults. Model output is untrusted, so this runs on
// every parsed analysis.
func (a *MessageActionAnalysis) Clamp() {
	a.Confidence = clamp01(a.Confidence)
	a.ContextAlignment = clamp01(a.ContextAlignment)
	if !a.Action.Valid() {
		a.Action = ActionGeneralChat
	}
	switch a.Urgency {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyImmediate:
	default:
		a.Urgency = UrgencyLow
	}
}

// FallbackAnalysis is the analysis used whenever the classifier's model
// output cannot be parsed. The pipeline degrades to chat instead of failing.
func FallbackAnalysis() MessageActionAnalysis {
	return MessageActionAnalysis{
		Intent:           "General conversation",
		Confidence:       0.3,
		Action:           ActionGeneralChat,
		Urgency:          UrgencyLow,
		ContextAlignment: 0.5,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
