package matching

import (
	"regexp"
	"strings"
	"time"
)

// UrgencyBucket classifies how close an opportunity's deadline is.
type UrgencyBucket string

const (
	UrgencyUrgent  UrgencyBucket = "urgent"
	UrgencySoon    UrgencyBucket = "soon"
	UrgencyOngoing UrgencyBucket = "ongoing"
)

const (
	urgentWindowDays = 30
	soonWindowDays   = 92
)

var isoDatePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// ClassifyUrgency buckets a deadline relative to the evaluation instant.
// Deadlines within 30 days are urgent, within 92 days soon, everything else
// (including missing or unparseable values) is ongoing. The bucket depends on
// the real time of the call, so the same record may classify differently on
// different days.
func ClassifyUrgency(deadline string, now time.Time) UrgencyBucket {
	parsed, ok := ParseDeadline(deadline)
	if !ok {
		return UrgencyOngoing
	}

	days := int(parsed.Sub(now).Hours() / 24)
	switch {
	case days <= urgentWindowDays:
		return UrgencyUrgent
	case days <= soonWindowDays:
		return UrgencySoon
	default:
		return UrgencyOngoing
	}
}

// ParseDeadline accepts a YYYY-MM-DD prefix or an RFC3339 timestamp.
func ParseDeadline(deadline string) (time.Time, bool) {
	deadline = strings.TrimSpace(deadline)
	if deadline == "" {
		return time.Time{}, false
	}

	if isoDatePrefix.MatchString(deadline) {
		if t, err := time.Parse("2006-01-02", deadline[:10]); err == nil {
			return t, true
		}
	}

	if t, err := time.Parse(time.RFC3339, deadline); err == nil {
		return t, true
	}

	return time.Time{}, false
}
