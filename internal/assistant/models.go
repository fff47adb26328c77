package assistant

// Wire shapes for processor completions. Every prompt instructs the model to
// respond with ONLY valid JSON in one of these schemas; deviation is expected
// and handled at the parse boundary, never propagated.

// classifierPayload is the intent classifier's output contract.
type classifierPayload struct {
	Intent            string            `json:"intent"`
	Confidence        float64           `json:"confidence"`
	RecommendedAction string            `json:"recommendedAction"`
	ExtractedEntities map[string]string `json:"extractedEntities"`
	Urgency           string            `json:"urgency"`
	ContextAlignment  float64           `json:"contextAlignment"`
}

// eventPayload is the event processor's output contract. Durations are in
// seconds on the wire; start_time is ISO 8601.
type eventPayload struct {
	Title           string `json:"title"`
	StartTime       string `json:"start_time"`
	DurationSeconds int    `json:"duration_seconds"`
	Energy          string `json:"energy"`
	Emoji           string `json:"emoji"`
	Rationale       string `json:"rationale"`
}

// goalPayload is the goal processor's output contract.
type goalPayload struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Importance  int                `json:"importance"`
	TargetDate  string             `json:"target_date"` // YYYY-MM-DD
	TaskGroups  []taskGroupPayload `json:"task_groups"`
	Emoji       string             `json:"emoji"`
}

type taskGroupPayload struct {
	Name  string   `json:"name"`
	Tasks []string `json:"tasks"`
}

// pillarPayload is the pillar processor's output contract. The prompt
// requires every field populated.
type pillarPayload struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Kind        string             `json:"kind"`
	Frequency   string             `json:"frequency"`
	Values      []string           `json:"values"`
	Habits      []string           `json:"habits"`
	Constraints []string           `json:"constraints"`
	QuietHours  []quietHourPayload `json:"quiet_hours"`
	Wisdom      string             `json:"wisdom"`
	Emoji       string             `json:"emoji"`
}

type quietHourPayload struct {
	Start string `json:"start"` // 24h HH:MM
	End   string `json:"end"`
}

// chainPayload is the chain processor's output contract.
type chainPayload struct {
	Name   string              `json:"name"`
	Blocks []chainBlockPayload `json:"blocks"`
	Flow   string              `json:"flow"`
	Emoji  string              `json:"emoji"`
}

type chainBlockPayload struct {
	Title           string `json:"title"`
	DurationSeconds int    `json:"duration_seconds"`
	Energy          string `json:"energy"`
	Emoji           string `json:"emoji"`
}

// chatPayload is the shared suggestion/general-chat output contract.
type chatPayload struct {
	Reply       string              `json:"reply"`
	Suggestions []suggestionPayload `json:"suggestions"`
}

type suggestionPayload struct {
	Title           string   `json:"title"`
	DurationSeconds int      `json:"duration_seconds"`
	SuggestedTime   string   `json:"suggested_time"`
	Energy          string   `json:"energy"`
	Emoji           string   `json:"emoji"`
	Explanation     string   `json:"explanation"`
	Confidence      float64  `json:"confidence"`
	Weight          float64  `json:"weight"`
	RelatedGoal     string   `json:"related_goal"`
	RelatedPillar   string   `json:"related_pillar"`
	Reason          string   `json:"reason"`
	LinkHints       []string `json:"link_hints"`
}
