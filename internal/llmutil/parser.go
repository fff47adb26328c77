package llmutil

import (
	"fmt"
	"regexp"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// fencedObjectRegex extracts a JSON object wrapped in a markdown code fence.
// \x60 is a backtick; Go raw strings cannot contain them.
var fencedObjectRegex = regexp.MustCompile("(?s)\x60\x60\x60(?:json)?\\s*({.*})\\s*\x60\x60\x60")

// ExtractJSON pulls the JSON object out of a model completion. Models
// routinely wrap their output in prose or fences, so deviation from "ONLY
// valid JSON" is the expected case: the function strips fences first, then
// falls back to the outermost {...} span. An empty return means no object
// could be located.
func ExtractJSON(response string) string {
	response = strings.TrimSpace(response)
	if response == "" {
		return ""
	}

	if strings.Contains(response, "```") {
		if matches := fencedObjectRegex.FindStringSubmatch(response); len(matches) > 1 {
			return strings.TrimSpace(matches[1])
		}
	}

	first := strings.Index(response, "{")
	last := strings.LastIndex(response, "}")
	if first == -1 || last <= first {
		return ""
	}
	return response[first : last+1]
}

// DecodeCompletion extracts and unmarshals a model completion into T. Parse
// failure is an ordinary error here; callers at processor boundaries convert
// it into a degraded response rather than propagating it.
func DecodeCompletion[T any](response string) (*T, error) {
	raw := ExtractJSON(response)
	if raw == "" {
		return nil, fmt.Errorf("no JSON object found in completion (%d bytes)", len(response))
	}

	var result T
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		// The decoder embeds its own slice of the input, so both halves are
		// truncated to keep the composed error bounded.
		return nil, fmt.Errorf("failed to unmarshal completion JSON: %s (extracted: %s)",
			truncate(err.Error(), 150), truncate(raw, 200))
	}
	return &result, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
