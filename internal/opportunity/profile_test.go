package opportunity

import (
	"reflect"
	"testing"
)

func TestProfileNormalize(t *testing.T) {
	p := &Profile{
		MainKeywords: []string{" Education ", "HEALTH", "education", ""},
		SubKeywords:  []string{"Rural", "rural "},
		Location:     " CA ",
	}

	p.Normalize()

	if !reflect.DeepEqual(p.MainKeywords, []string{"education", "health"}) {
		t.Fatalf("unexpected main keywords: %v", p.MainKeywords)
	}
	if !reflect.DeepEqual(p.SubKeywords, []string{"rural"}) {
		t.Fatalf("unexpected sub keywords: %v", p.SubKeywords)
	}
	if p.Location != "CA" {
		t.Fatalf("expected trimmed location, got %q", p.Location)
	}
}

func TestProfileMerge(t *testing.T) {
	p := &Profile{ID: "remote", MainKeywords: []string{"education"}}
	fallback := &Profile{
		MainKeywords:     []string{"ignored"},
		SubKeywords:      []string{"rural"},
		FundingTypes:     []string{"Grants"},
		Location:         "NY",
		AnnualBudgetUSD:  250000,
		OrganizationName: "Acme Nonprofit",
	}

	p.Merge(fallback)

	if !reflect.DeepEqual(p.MainKeywords, []string{"education"}) {
		t.Fatalf("existing keywords must not be overwritten: %v", p.MainKeywords)
	}
	if !reflect.DeepEqual(p.SubKeywords, []string{"rural"}) {
		t.Fatalf("expected sub keywords from fallback: %v", p.SubKeywords)
	}
	if !reflect.DeepEqual(p.FundingTypes, []string{"Grants"}) {
		t.Fatalf("expected funding types from fallback: %v", p.FundingTypes)
	}
	if p.Location != "NY" || p.AnnualBudgetUSD != 250000 || p.OrganizationName != "Acme Nonprofit" {
		t.Fatalf("expected empty fields filled from fallback: %+v", p)
	}
}

func TestProfileMergeNilFallback(t *testing.T) {
	p := &Profile{ID: "remote"}
	p.Merge(nil)
	if p.ID != "remote" {
		t.Fatalf("profile changed by nil merge: %+v", p)
	}
}
