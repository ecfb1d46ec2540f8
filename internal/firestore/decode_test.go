package firestore

import (
	"reflect"
	"testing"
	"time"
)

func TestDecodeOpportunity(t *testing.T) {
	data := map[string]any{
		"title":       "Education grant",
		"description": "Funding for rural schools",
		"agency":      "NSF",
		"closeDate":   time.Date(2025, 9, 30, 23, 59, 0, 0, time.UTC),
		"state":       "CA",
		"awardAmount": 50000,
		"applyUrl":    "https://example.org/apply",
	}

	opp, err := DecodeOpportunity("g1", "grants.gov", data)
	if err != nil {
		t.Fatalf("decode: %s", err)
	}

	if opp.ID != "g1" || opp.Collection != "grants.gov" {
		t.Fatalf("expected id and collection to be set, got %+v", opp)
	}
	if opp.Title != "Education grant" || opp.Agency != "NSF" {
		t.Fatalf("unexpected decoded fields: %+v", opp)
	}
	if opp.CloseDate != "2025-09-30T23:59:00Z" {
		t.Fatalf("expected timestamp rendered as rfc3339, got %q", opp.CloseDate)
	}
	if opp.ExtraString("applyUrl") != "https://example.org/apply" {
		t.Fatalf("expected unknown key in extras, got %v", opp.Extra)
	}
	if _, ok := opp.Extra["awardAmount"]; !ok {
		t.Fatalf("expected awardAmount kept in extras, got %v", opp.Extra)
	}
	if _, ok := opp.Extra["title"]; ok {
		t.Fatalf("mapped keys must not leak into extras: %v", opp.Extra)
	}
}

func TestDecodeProfile(t *testing.T) {
	data := map[string]any{
		"organizationName": "Acme Nonprofit",
		"interestsMain":    []any{"Education", "HEALTH", "education"},
		"interestsSub":     []any{"Rural"},
		"fundingTypes":     []any{"Grants"},
		"location":         " CA ",
	}

	profile, err := DecodeProfile("org-1", data)
	if err != nil {
		t.Fatalf("decode: %s", err)
	}

	if profile.ID != "org-1" || profile.OrganizationName != "Acme Nonprofit" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
	if !reflect.DeepEqual(profile.MainKeywords, []string{"education", "health"}) {
		t.Fatalf("expected normalized main keywords, got %v", profile.MainKeywords)
	}
	if !reflect.DeepEqual(profile.SubKeywords, []string{"rural"}) {
		t.Fatalf("expected normalized sub keywords, got %v", profile.SubKeywords)
	}
	if profile.Location != "CA" {
		t.Fatalf("expected trimmed location, got %q", profile.Location)
	}
}
