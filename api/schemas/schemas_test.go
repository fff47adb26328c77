package schemas

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeBlockValidate(t *testing.T) {
	valid := TimeBlock{
		ID:        "b1",
		Title:     "Morning workout",
		StartTime: time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC),
		Duration:  45 * time.Minute,
		Energy:    EnergySunrise,
		Emoji:     "💪",
	}

	testCases := []struct {
		name    string
		mutate  func(*TimeBlock)
		wantErr bool
	}{
		{name: "valid block", mutate: func(b *TimeBlock) {}},
		{name: "empty title", mutate: func(b *TimeBlock) { b.Title = "" }, wantErr: true},
		{name: "title over 30 runes", mutate: func(b *TimeBlock) { b.Title = strings.Repeat("x", 31) }, wantErr: true},
		{name: "title exactly 30 runes", mutate: func(b *TimeBlock) { b.Title = strings.Repeat("é", 30) }},
		{name: "duration below 15m", mutate: func(b *TimeBlock) { b.Duration = 10 * time.Minute }, wantErr: true},
		{name: "duration above 4h", mutate: func(b *TimeBlock) { b.Duration = 5 * time.Hour }, wantErr: true},
		{name: "duration at 4h", mutate: func(b *TimeBlock) { b.Duration = 4 * time.Hour }},
		{name: "unknown energy", mutate: func(b *TimeBlock) { b.Energy = "twilight" }, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			block := valid
			tc.mutate(&block)
			err := block.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGoalValidate(t *testing.T) {
	target := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	valid := Goal{
		ID:         "g1",
		Title:      "Run a marathon",
		State:      GoalDraft,
		Importance: 3,
		TargetDate: &target,
		Emoji:      "🏃",
	}

	assert.NoError(t, valid.Validate())

	missing := valid
	missing.Title = ""
	assert.Error(t, missing.Validate())

	tooHigh := valid
	tooHigh.Importance = 6
	assert.Error(t, tooHigh.Validate())

	tooLow := valid
	tooLow.Importance = 0
	assert.Error(t, tooLow.Validate())
}

func TestPillarValidate(t *testing.T) {
	valid := Pillar{
		ID:        "p1",
		Name:      "Deep Work",
		Kind:      PillarPrinciple,
		Frequency: "daily",
		Values:    []string{"focus"},
		Habits:    []string{"no meetings before noon"},
	}
	assert.NoError(t, valid.Validate())

	noValues := valid
	noValues.Values = nil
	assert.Error(t, noValues.Validate())

	noHabits := valid
	noHabits.Habits = nil
	assert.Error(t, noHabits.Validate())

	noName := valid
	noName.Name = ""
	assert.Error(t, noName.Validate())
}

func TestChainValidate(t *testing.T) {
	block := func(title string, d time.Duration) TimeBlock {
		return TimeBlock{ID: "b-" + title, Title: title, Duration: d, Energy: EnergyDaylight}
	}

	valid := Chain{
		ID:     "c1",
		Name:   "Morning routine",
		Blocks: []TimeBlock{block("Stretch", 15*time.Minute), block("Journal", 30*time.Minute)},
		Flow:   FlowWaterfall,
	}
	assert.NoError(t, valid.Validate())

	one := valid
	one.Blocks = valid.Blocks[:1]
	assert.Error(t, one.Validate(), "a single block is not a chain")

	five := valid
	five.Blocks = []TimeBlock{
		block("a", 15*time.Minute), block("b", 15*time.Minute), block("c", 15*time.Minute),
		block("d", 15*time.Minute), block("e", 15*time.Minute),
	}
	assert.Error(t, five.Validate())

	long := valid
	long.Blocks = []TimeBlock{block("Stretch", 15*time.Minute), block("Marathon", 3*time.Hour)}
	assert.Error(t, long.Validate(), "chain blocks top out at two hours")
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, EnergySunrise.Valid())
	assert.True(t, EnergyDaylight.Valid())
	assert.True(t, EnergyMoonlight.Valid())
	assert.False(t, EnergyLevel("dusk").Valid())

	for _, f := range []FlowPattern{FlowWaterfall, FlowSpiral, FlowWave, FlowRipple} {
		assert.True(t, f.Valid())
	}
	assert.False(t, FlowPattern("zigzag").Valid())
}
