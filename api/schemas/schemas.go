package schemas

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// EnergyLevel describes the kind of energy a scheduled activity demands or
// restores. The three phases mirror the arc of a day.
type EnergyLevel string

const (
	EnergySunrise   EnergyLevel = "sunrise"   // High focus, exercise, important work.
	EnergyDaylight  EnergyLevel = "daylight"  // Regular, steady work.
	EnergyMoonlight EnergyLevel = "moonlight" // Rest, recovery, wind-down.
)

// Valid reports whether the value is one of the three known energy levels.
func (e EnergyLevel) Valid() bool {
	switch e {
	case EnergySunrise, EnergyDaylight, EnergyMoonlight:
		return true
	}
	return false
}

// FlowPattern tags a chain with the energy/pacing shape of its blocks.
type FlowPattern string

const (
	FlowWaterfall FlowPattern = "waterfall" // Sequential build, each block feeds the next.
	FlowSpiral    FlowPattern = "spiral"    // Circular repetition around a theme.
	FlowWave      FlowPattern = "wave"      // Rhythmic alternation of work and break.
	FlowRipple    FlowPattern = "ripple"    // Expanding scope from a small start.
)

// Valid reports whether the value is a known flow pattern.
func (f FlowPattern) Valid() bool {
	switch f {
	case FlowWaterfall, FlowSpiral, FlowWave, FlowRipple:
		return true
	}
	return false
}

// GoalState tracks whether a goal is actively pursued.
type GoalState string

const (
	GoalDraft GoalState = "draft"
	GoalOn    GoalState = "on"
	GoalOff   GoalState = "off"
)

// PillarKind separates pillars that auto-generate time blocks from pillars
// that only guide suggestions.
type PillarKind string

const (
	PillarActionable PillarKind = "actionable"
	PillarPrinciple  PillarKind = "principle"
)

// TimeBlock is a single scheduled activity.
type TimeBlock struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
	Energy    EnergyLevel   `json:"energy"`
	Emoji     string        `json:"emoji"`
	Rationale string        `json:"rationale,omitempty"`
}

// Validate enforces the event field contract: a non-empty title of at most 30
// characters, a duration between 15 minutes and 4 hours, and a known energy.
func (b TimeBlock) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Title, validation.Required, validation.RuneLength(1, 30)),
		validation.Field(&b.Duration, validation.Min(15*time.Minute), validation.Max(4*time.Hour)),
		validation.Field(&b.Energy, validation.By(energyRule)),
	)
}

// TaskGroup is a named cluster of concrete tasks under a goal.
type TaskGroup struct {
	Name  string   `json:"name"`
	Tasks []string `json:"tasks"`
}

// Goal is a longer-horizon objective with importance and an optional task
// breakdown.
type Goal struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	State       GoalState   `json:"state"`
	Importance  int         `json:"importance"` // 1 (nice-to-have) to 5 (critical).
	TargetDate  *time.Time  `json:"target_date,omitempty"`
	TaskGroups  []TaskGroup `json:"task_groups,omitempty"`
	Emoji       string      `json:"emoji"`
}

// Validate checks the goal field contract. Importance uses an explicit rule
// because Min/Max treat a zero int as absent and would wave it through.
func (g Goal) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.Title, validation.Required),
		validation.Field(&g.Importance, validation.By(importanceRule)),
	)
}

func importanceRule(value interface{}) error {
	n, _ := value.(int)
	if n < 1 || n > 5 {
		return errImportanceRange
	}
	return nil
}

var errImportanceRange = validation.NewError("validation_importance", "must be between 1 and 5")

// QuietWindow is a daily window during which a pillar must not schedule
// anything, expressed as 24h HH:MM strings.
type QuietWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Pillar is a recurring principle or scheduled category that shapes what the
// assistant suggests.
type Pillar struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Kind        PillarKind    `json:"kind"`
	Frequency   string        `json:"frequency"` // daily, weekly, monthly, as-needed.
	MinDuration time.Duration `json:"min_duration,omitempty"`
	MaxDuration time.Duration `json:"max_duration,omitempty"`
	Values      []string      `json:"values"`
	Habits      []string      `json:"habits"`
	Constraints []string      `json:"constraints"`
	QuietHours  []QuietWindow `json:"quiet_hours"`
	Wisdom      string        `json:"wisdom"`
	Emoji       string        `json:"emoji"`
}

// Validate checks the pillar field contract. The prompt contract requires
// every list populated, so empty value/habit lists are rejected here too.
func (p Pillar) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.Values, validation.Required),
		validation.Field(&p.Habits, validation.Required),
	)
}

// Chain is an ordered sequence of time blocks meant to be scheduled together.
type Chain struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Blocks []TimeBlock `json:"blocks"`
	Flow   FlowPattern `json:"flow"`
	Emoji  string      `json:"emoji"`
}

// Validate enforces the chain contract: 2-4 blocks, each within the tighter
// per-block duration bound of 15 minutes to 2 hours.
func (c Chain) Validate() error {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.Blocks, validation.Required, validation.Length(2, 4)),
	); err != nil {
		return err
	}
	for _, b := range c.Blocks {
		if err := validation.Validate(b.Duration, validation.Min(15*time.Minute), validation.Max(2*time.Hour)); err != nil {
			return err
		}
	}
	return nil
}

// DayContext is the read-only snapshot of the user's day fed into every
// prompt. It is constructed fresh per request and never mutated by the
// pipeline.
type DayContext struct {
	Date       time.Time     `json:"date"`
	Schedule   []TimeBlock   `json:"schedule"`
	Energy     EnergyLevel   `json:"energy"`
	Mood       string        `json:"mood"`
	FreeTime   time.Duration `json:"free_time"`
	Weather    string        `json:"weather,omitempty"`
	Principles []string      `json:"principles,omitempty"`
}

func energyRule(value interface{}) error {
	e, _ := value.(EnergyLevel)
	if !e.Valid() {
		return errUnknownEnergy
	}
	return nil
}

var errUnknownEnergy = validation.NewError("validation_energy", "must be sunrise, daylight or moonlight")
