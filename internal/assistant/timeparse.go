package assistant

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Local time extraction for messages like "at 3pm", "in 1 hour" or
// "tomorrow". The model usually supplies a start time, but it routinely
// omits one, so this deterministic pass acts as the fallback.

var (
	clockRegex    = regexp.MustCompile(`(?i)\bat\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`)
	relativeRegex = regexp.MustCompile(`(?i)\bin\s+(\d+)\s*(hour|hr|minute|min)s?\b`)
	tomorrowRegex = regexp.MustCompile(`(?i)\btomorrow\b`)
	durationRegex = regexp.MustCompile(`(?i)\bfor\s+(\d+)\s*(hour|hr|minute|min)s?\b`)
)

// defaultMorningHour is where a bare day reference ("tomorrow") lands when
// the message names no clock time.
const defaultMorningHour = 9

// parseTimeHint extracts a concrete start time from the message relative to
// now, in now's location. The second return is false when the message names
// no recognizable time.
func parseTimeHint(message string, now time.Time) (time.Time, bool) {
	dayOffset := 0
	if tomorrowRegex.MatchString(message) {
		dayOffset = 1
	}

	if m := clockRegex.FindStringSubmatch(message); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		switch strings.ToLower(m[3]) {
		case "pm":
			if hour < 12 {
				hour += 12
			}
		case "am":
			if hour == 12 {
				hour = 0
			}
		}
		if hour > 23 || minute > 59 {
			return time.Time{}, false
		}
		t := time.Date(now.Year(), now.Month(), now.Day()+dayOffset, hour, minute, 0, 0, now.Location())
		// A bare clock time already in the past means the next occurrence.
		// Rebuilt rather than shifted by 24h so the wall-clock hour survives
		// a DST transition.
		if dayOffset == 0 && t.Before(now) {
			t = time.Date(now.Year(), now.Month(), now.Day()+1, hour, minute, 0, 0, now.Location())
		}
		return t, true
	}

	if m := relativeRegex.FindStringSubmatch(message); m != nil {
		n, _ := strconv.Atoi(m[1])
		unit := time.Minute
		if strings.HasPrefix(strings.ToLower(m[2]), "h") {
			unit = time.Hour
		}
		return now.Add(time.Duration(n) * unit), true
	}

	if dayOffset == 1 {
		return time.Date(now.Year(), now.Month(), now.Day()+1, defaultMorningHour, 0, 0, 0, now.Location()), true
	}

	return time.Time{}, false
}

// parseDurationHint extracts an explicit duration ("for 45 minutes") from the
// message. The second return is false when none is present.
func parseDurationHint(message string) (time.Duration, bool) {
	m := durationRegex.FindStringSubmatch(message)
	if m == nil {
		return 0, false
	}
	n, _ := strconv.Atoi(m[1])
	if strings.HasPrefix(strings.ToLower(m[2]), "h") {
		return time.Duration(n) * time.Hour, true
	}
	return time.Duration(n) * time.Minute, true
}

// nextSlot rounds now up to the next quarter hour, the default start when
// neither the model nor the message names a time.
func nextSlot(now time.Time) time.Time {
	rounded := now.Truncate(15 * time.Minute)
	if rounded.Before(now) {
		rounded = rounded.Add(15 * time.Minute)
	}
	return rounded
}
