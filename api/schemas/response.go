package schemas

import (
	"encoding/json"
	"fmt"
	"time"
)

// Suggestion is a lightweight activity proposal attached to a reply. The link
// fields are optional: when the model cannot name a concrete goal or pillar
// id, LinkHints carries fuzzy-match keywords instead.
type Suggestion struct {
	Title         string        `json:"title"`
	Duration      time.Duration `json:"duration"`
	SuggestedTime string        `json:"suggested_time,omitempty"`
	Energy        EnergyLevel   `json:"energy"`
	Emoji         string        `json:"emoji"`
	Explanation   string        `json:"explanation"`
	Confidence    float64       `json:"confidence"`
	Weight        float64       `json:"weight"`
	RelatedGoal   *ItemRef      `json:"related_goal,omitempty"`
	RelatedPillar *ItemRef      `json:"related_pillar,omitempty"`
	Reason        string        `json:"reason,omitempty"`
	LinkHints     []string      `json:"link_hints,omitempty"`
}

// ItemRef points at a stored goal or pillar by id, keeping the title for
// display without another lookup.
type ItemRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// CreatedKind discriminates the CreatedItem union.
type CreatedKind string

const (
	CreatedEvent  CreatedKind = "event"
	CreatedGoal   CreatedKind = "goal"
	CreatedPillar CreatedKind = "pillar"
	CreatedChain  CreatedKind = "chain"
)

// CreatedItem is a tagged union over the four domain payloads the assistant
// can produce. Exactly one payload pointer is non-nil, matching Kind. The
// union replaces the loosely typed dictionary the caller would otherwise have
// to re-parse.
type CreatedItem struct {
	Kind       CreatedKind `json:"kind"`
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Confidence float64     `json:"confidence"`

	Event  *TimeBlock `json:"event,omitempty"`
	Goal   *Goal      `json:"goal,omitempty"`
	Pillar *Pillar    `json:"pillar,omitempty"`
	Chain  *Chain     `json:"chain,omitempty"`
}

// Validate checks the union shape and the confidence invariant, then defers
// to the payload's own validation.
func (c CreatedItem) Validate() error {
	if c.Confidence < 0 || c.Confidence > 1 {
		return fmt.Errorf("created item %q: confidence %v outside [0,1]", c.Title, c.Confidence)
	}
	switch c.Kind {
	case CreatedEvent:
		if c.Event == nil {
			return fmt.Errorf("created item %q: kind is event but event payload is nil", c.Title)
		}
		return c.Event.Validate()
	case CreatedGoal:
		if c.Goal == nil {
			return fmt.Errorf("created item %q: kind is goal but goal payload is nil", c.Title)
		}
		return c.Goal.Validate()
	case CreatedPillar:
		if c.Pillar == nil {
			return fmt.Errorf("created item %q: kind is pillar but pillar payload is nil", c.Title)
		}
		return c.Pillar.Validate()
	case CreatedChain:
		if c.Chain == nil {
			return fmt.Errorf("created item %q: kind is chain but chain payload is nil", c.Title)
		}
		return c.Chain.Validate()
	}
	return fmt.Errorf("created item %q: unknown kind %q", c.Title, c.Kind)
}

// UnmarshalJSON validates the union at the JSON boundary so downstream
// consumers never see a half-populated item.
func (c *CreatedItem) UnmarshalJSON(data []byte) error {
	type alias CreatedItem
	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	item := CreatedItem(raw)
	if err := item.Validate(); err != nil {
		return err
	}
	*c = item
	return nil
}

// AIResponse is the uniform result of one trip through the pipeline,
// regardless of which processor ran. Degraded fallbacks are still valid
// AIResponses; the caller distinguishes them only by confidence and the
// absence of created items.
type AIResponse struct {
	// Text is the display reply shown to the user.
	Text string `json:"text"`
	// Suggestions carries zero or more (typically at most two) proposals.
	Suggestions []Suggestion `json:"suggestions,omitempty"`
	// ActionType is the dispatched action kind, nil for the legacy plain
	// suggestion path, so the caller can route created items.
	ActionType *AssistantAction `json:"action_type,omitempty"`
	// CreatedItems holds domain objects above the auto-apply threshold.
	CreatedItems []CreatedItem `json:"created_items,omitempty"`
	// Confidence echoes the analysis confidence (or, for degraded results,
	// a value no higher than it).
	Confidence float64 `json:"confidence"`
}
