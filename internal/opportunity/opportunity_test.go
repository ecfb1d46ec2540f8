package opportunity

import "testing"

func sample() *Opportunities {
	return &Opportunities{Items: []*Opportunity{
		{ID: "a", Collection: "grants.gov", Title: "First"},
		{ID: "b", Collection: "SAM", Title: "Second"},
		{ID: "a", Collection: "grantwatch", Title: "Duplicate of first"},
		{ID: "c", Collection: "rfpmart", Title: "Third"},
	}}
}

func TestDedupeKeepsFirstRecord(t *testing.T) {
	o := sample()

	dropped := o.Dedupe()

	if dropped != 1 {
		t.Fatalf("expected 1 duplicate dropped, got %d", dropped)
	}
	if o.Len() != 3 {
		t.Fatalf("expected 3 opportunities left, got %d", o.Len())
	}
	if kept := o.FindByID("a"); kept == nil || kept.Collection != "grants.gov" {
		t.Fatalf("expected the first record per id to survive, got %+v", kept)
	}
}

func TestExcludeByID(t *testing.T) {
	o := sample()
	o.Dedupe()

	excluded := o.Exclude(OpportunityIDField, []string{"b", "missing"})

	if len(excluded) != 1 || excluded[0] != "b" {
		t.Fatalf("unexpected excluded ids: %v", excluded)
	}
	if o.FindByID("b") != nil {
		t.Fatalf("expected b to be removed")
	}
	if o.Len() != 2 {
		t.Fatalf("expected 2 opportunities left, got %d", o.Len())
	}
}

func TestSearchTextIsLowercased(t *testing.T) {
	opp := &Opportunity{Title: "STEM Education", Agency: "NSF"}
	text := opp.SearchText()
	if text != "stem education   nsf " {
		t.Fatalf("unexpected search text: %q", text)
	}
}

func TestDeadlineValueFallback(t *testing.T) {
	opp := &Opportunity{Deadline: "2025-12-01"}
	if opp.DeadlineValue() != "2025-12-01" {
		t.Fatalf("expected deadline fallback, got %q", opp.DeadlineValue())
	}

	opp.CloseDate = "2025-11-01"
	if opp.DeadlineValue() != "2025-11-01" {
		t.Fatalf("expected close date to win, got %q", opp.DeadlineValue())
	}
}

func TestPageURLPriority(t *testing.T) {
	opp := &Opportunity{SynopsisURL: "https://example.org/synopsis", Link: "https://example.org/link"}
	if opp.PageURL() != "https://example.org/synopsis" {
		t.Fatalf("expected synopsis url, got %q", opp.PageURL())
	}

	opp.URL = "https://example.org/page"
	if opp.PageURL() != "https://example.org/page" {
		t.Fatalf("expected url field to win, got %q", opp.PageURL())
	}
}

func TestExtraString(t *testing.T) {
	opp := &Opportunity{Extra: map[string]any{
		"applicationUrl": "  https://example.org/apply  ",
		"amount":         50000,
	}}

	if got := opp.ExtraString("applicationUrl"); got != "https://example.org/apply" {
		t.Fatalf("expected trimmed string, got %q", got)
	}
	if got := opp.ExtraString("amount"); got != "" {
		t.Fatalf("expected empty for non-string value, got %q", got)
	}
	if got := (&Opportunity{}).ExtraString("anything"); got != "" {
		t.Fatalf("expected empty for nil extras, got %q", got)
	}
}
