package assistant

import (
	"strings"

	"github.com/lumenplan/dayplanner/api/schemas"
)

// Energy mapping policy: high-focus, exercise and important work belong to
// sunrise; rest and wind-down to moonlight; everything else is regular
// daylight work. The mapping is a pure function of the cues so repeated runs
// with the same input always agree.

var sunriseCues = []string{
	"workout", "exercise", "gym", "run", "running", "train",
	"focus", "deep work", "important", "critical", "study", "write",
}

var moonlightCues = []string{
	"rest", "relax", "wind down", "unwind", "sleep", "meditat",
	"stretch", "journal", "read before bed", "evening routine",
}

// mapEnergy classifies the linguistic cues in text, falling back to the
// model's own energy assignment when the text is neutral, and to daylight
// when both are silent.
func mapEnergy(text string, modelValue string) schemas.EnergyLevel {
	lowered := strings.ToLower(text)
	for _, cue := range sunriseCues {
		if strings.Contains(lowered, cue) {
			return schemas.EnergySunrise
		}
	}
	for _, cue := range moonlightCues {
		if strings.Contains(lowered, cue) {
			return schemas.EnergyMoonlight
		}
	}
	if e := schemas.EnergyLevel(modelValue); e.Valid() {
		return e
	}
	return schemas.EnergyDaylight
}

// Importance mapping policy for goals: linguistic urgency cues beat whatever
// number the model picked; a cueless message with a valid model value keeps
// it; otherwise the default is a middling 3.
var importanceCues = []struct {
	cue   string
	value int
}{
	{"critical", 5},
	{"urgent", 5},
	{"must", 5},
	{"important", 4},
	{"need to", 4},
	{"want", 3},
	{"should", 3},
	{"nice to have", 2},
	{"nice-to-have", 2},
	{"someday", 2},
	{"eventually", 3},
}

func mapImportance(text string, modelValue int) int {
	lowered := strings.ToLower(text)
	for _, c := range importanceCues {
		if strings.Contains(lowered, c.cue) {
			return c.value
		}
	}
	if modelValue >= 1 && modelValue <= 5 {
		return modelValue
	}
	return 3
}
