package matching

import (
	"testing"
	"time"
)

func TestClassifyUrgency(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		deadline string
		expect   UrgencyBucket
	}{
		{
			name:     "ten days out is urgent",
			deadline: now.AddDate(0, 0, 10).Format("2006-01-02"),
			expect:   UrgencyUrgent,
		},
		{
			name:     "sixty days out is soon",
			deadline: now.AddDate(0, 0, 60).Format("2006-01-02"),
			expect:   UrgencySoon,
		},
		{
			name:     "two hundred days out is ongoing",
			deadline: now.AddDate(0, 0, 200).Format("2006-01-02"),
			expect:   UrgencyOngoing,
		},
		{
			name:     "no deadline is ongoing",
			deadline: "",
			expect:   UrgencyOngoing,
		},
		{
			name:     "unparseable deadline is ongoing",
			deadline: "rolling basis",
			expect:   UrgencyOngoing,
		},
		{
			name:     "rfc3339 timestamp close by is urgent",
			deadline: now.AddDate(0, 0, 5).Format(time.RFC3339),
			expect:   UrgencyUrgent,
		},
		{
			name:     "already passed is urgent not ongoing",
			deadline: now.AddDate(0, 0, -3).Format("2006-01-02"),
			expect:   UrgencyUrgent,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ClassifyUrgency(tt.deadline, now); got != tt.expect {
				t.Fatalf("expected %s, got %s", tt.expect, got)
			}
		})
	}
}

func TestParseDeadlineDateOnlyPrefix(t *testing.T) {
	parsed, ok := ParseDeadline("2025-09-30T23:59:59Z")
	if !ok {
		t.Fatalf("expected deadline to parse")
	}
	if parsed.Year() != 2025 || parsed.Month() != time.September || parsed.Day() != 30 {
		t.Fatalf("unexpected parsed date: %v", parsed)
	}
}
