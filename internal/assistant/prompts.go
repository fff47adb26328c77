package assistant

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lumenplan/dayplanner/api/schemas"
)

// renderContext flattens a DayContext snapshot into prompt text. Every
// processor prompt embeds this so the model sees the same picture of the day
// the user does.
func renderContext(day schemas.DayContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Date: %s\n", day.Date.Format("Monday, 2 January 2006"))
	fmt.Fprintf(&b, "Current energy: %s\n", day.Energy)
	if day.Mood != "" {
		fmt.Fprintf(&b, "Mood: %s\n", day.Mood)
	}
	fmt.Fprintf(&b, "Free time available: %s\n", formatDuration(day.FreeTime))
	if day.Weather != "" {
		fmt.Fprintf(&b, "Weather: %s\n", day.Weather)
	}

	if len(day.Schedule) == 0 {
		b.WriteString("Schedule: empty\n")
	} else {
		b.WriteString("Schedule:\n")
		for _, block := range day.Schedule {
			fmt.Fprintf(&b, "  - %s %s (%s, %s)\n",
				block.StartTime.Format("15:04"), block.Title, formatDuration(block.Duration), block.Energy)
		}
	}

	if len(day.Principles) > 0 {
		b.WriteString("Guiding principles:\n")
		for _, p := range day.Principles {
			fmt.Fprintf(&b, "  - %s\n", p)
		}
	}

	return b.String()
}

// classifierSystemPrompt documents the taxonomy and the auto-apply threshold
// table. The table text is generated from the same config the dispatcher
// gates on, so the prompt can never describe thresholds the code does not
// enforce.
func classifierSystemPrompt(thresholds map[schemas.AssistantAction]float64) string {
	actions := make([]string, 0, len(thresholds))
	for a := range thresholds {
		actions = append(actions, string(a))
	}
	sort.Strings(actions)

	var table strings.Builder
	for _, a := range actions {
		fmt.Fprintf(&table, "  - %s: auto-applied only when confidence >= %.2f\n", a, thresholds[schemas.AssistantAction(a)])
	}

	return `You are the intent classifier for a day-planning assistant.
Classify the user's message into exactly one recommended action.

Respond with ONLY valid JSON in this exact schema:
{
  "intent": "short description of what the user wants",
  "confidence": 0.0 to 1.0,
  "recommendedAction": one of ["createEvent","createGoal","createPillar","createChain","suggestActivities","generalChat"],
  "extractedEntities": {"activity": "...", "time": "...", "duration": "...", "importance": "..."},
  "urgency": one of ["low","medium","high","immediate"],
  "contextAlignment": 0.0 to 1.0
}

Action meanings:
  - createEvent: schedule a single concrete activity at a time
  - createGoal: a longer-horizon objective to track
  - createPillar: a recurring principle or scheduled category of life
  - createChain: a short ordered sequence of activities done together
  - suggestActivities: the user is asking what to do
  - generalChat: everything else

Confidence policy (the application enforces these exact floors):
` + table.String() + `
Rules:
  - contextAlignment scores how well the request fits the user's current
    energy, free time and existing schedule.
  - If the message is ambiguous, choose the likeliest action with a low
    confidence rather than refusing.
  - No markdown, no prose, ONLY the JSON object.`
}

func classifierUserPrompt(message string, day schemas.DayContext, insights []string) string {
	var b strings.Builder
	b.WriteString("Current context:\n")
	b.WriteString(renderContext(day))
	if len(insights) > 0 {
		b.WriteString("\nObserved patterns:\n")
		for _, s := range insights {
			fmt.Fprintf(&b, "  - %s\n", s)
		}
	}
	fmt.Fprintf(&b, "\nUser message: %q\n\nClassify it. Respond with ONLY the JSON object.", message)
	return b.String()
}

const eventSystemPrompt = `You turn a scheduling request into a single time block.

Respond with ONLY valid JSON in this exact schema:
{
  "title": "at most 30 characters",
  "start_time": "ISO 8601, e.g. 2026-09-01T07:00:00Z",
  "duration_seconds": 900 to 14400,
  "energy": one of ["sunrise","daylight","moonlight"],
  "emoji": "one emoji",
  "rationale": "one sentence on why this block fits the day"
}

Energy policy: high-focus, exercise or important work is "sunrise"; regular
work is "daylight"; rest and wind-down is "moonlight". Pick a start time that
respects the existing schedule. No markdown, ONLY the JSON object.`

const goalSystemPrompt = `You turn an aspiration into a tracked goal.

Respond with ONLY valid JSON in this exact schema:
{
  "title": "short goal title",
  "description": "one or two sentences",
  "importance": 1 to 5,
  "target_date": "YYYY-MM-DD, between 3 and 12 months from today",
  "task_groups": [{"name": "group name", "tasks": ["task", ...]}],
  "emoji": "one emoji"
}

Importance policy: critical/urgent language is 5, important is 4, want/should
is 3, nice-to-have is 2; default 3. Break the goal into 2-4 task groups. No
markdown, ONLY the JSON object.`

const pillarSystemPrompt = `You turn a recurring-life-principle request into a pillar.
Every field below is required; populate all of them.

Respond with ONLY valid JSON in this exact schema:
{
  "name": "pillar name",
  "description": "what this pillar protects",
  "kind": one of ["actionable","principle"],
  "frequency": one of ["daily","weekly","monthly","as-needed"],
  "values": [3 to 5 strings],
  "habits": [3 to 5 strings],
  "constraints": [2 to 4 strings],
  "quiet_hours": [1 to 3 of {"start": "HH:MM", "end": "HH:MM"}],
  "wisdom": "one short memorable line",
  "emoji": "one emoji"
}

No markdown, ONLY the JSON object.`

const chainSystemPrompt = `You turn an activity-sequence request into a chain of blocks.

Respond with ONLY valid JSON in this exact schema:
{
  "name": "chain name",
  "blocks": [2 to 4 of {"title": "...", "duration_seconds": 900 to 7200, "energy": "sunrise"|"daylight"|"moonlight", "emoji": "one emoji"}],
  "flow": one of ["waterfall","spiral","wave","ripple"],
  "emoji": "one emoji"
}

Flow meanings: waterfall is a sequential build, spiral is circular repetition,
wave is rhythmic work/break alternation, ripple is expanding scope. Give the
blocks a deliberate energy progression matching the flow. No markdown, ONLY
the JSON object.`

const chatSystemPrompt = `You are a warm, concise day-planning assistant.

Respond with ONLY valid JSON in this exact schema:
{
  "reply": "your conversational reply",
  "suggestions": [0 to 2 of {
    "title": "...", "duration_seconds": 900 to 7200,
    "suggested_time": "HH:MM", "energy": "sunrise"|"daylight"|"moonlight",
    "emoji": "one emoji", "explanation": "...", "confidence": 0.0 to 1.0,
    "weight": 0.0 to 1.0, "related_goal": "", "related_pillar": "",
    "reason": "...", "link_hints": ["keyword", ...]
  }]
}

Suggestions are optional; include them only when the user is open to one.
No markdown, ONLY the JSON object.`

// processorUserPrompt builds the user half shared by every processor: the
// context snapshot, the classifier's extracted entities, and the message.
func processorUserPrompt(message string, day schemas.DayContext, analysis schemas.MessageActionAnalysis) string {
	var b strings.Builder
	b.WriteString("Current context:\n")
	b.WriteString(renderContext(day))
	if len(analysis.Entities) > 0 {
		b.WriteString("\nExtracted entities:\n")
		keys := make([]string, 0, len(analysis.Entities))
		for k := range analysis.Entities {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "  - %s: %s\n", k, analysis.Entities[k])
		}
	}
	fmt.Fprintf(&b, "\nUser message: %q\n\nRespond with ONLY the JSON object.", message)
	return b.String()
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "none"
	}
	d = d.Round(time.Minute)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%02dm", h, m)
	}
}
