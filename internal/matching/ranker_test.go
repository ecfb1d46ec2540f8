package matching

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/rfpqueen/grant-scout/internal/opportunity"
)

func fixedClock() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func TestRankOrdersByRelevance(t *testing.T) {
	profile := &opportunity.Profile{
		ID:           "org-1",
		MainKeywords: []string{"education"},
		FundingTypes: []string{"Grants"},
	}
	opps := &opportunity.Opportunities{Items: []*opportunity.Opportunity{
		{ID: "low", Collection: "grants.gov", Title: "Education grant"},
		{ID: "high", Collection: "grants.gov", Title: "Education grant", Description: "Education and education outreach"},
	}}

	ranker := NewRanker(NewMemoryStore(), zap.NewNop()).WithClock(fixedClock)
	results := ranker.Rank(context.Background(), profile, opps)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].OpportunityID != "high" {
		t.Fatalf("expected high-scoring opportunity first, got %s", results[0].OpportunityID)
	}
	if results[0].RelevanceScore <= results[1].RelevanceScore {
		t.Fatalf("expected descending relevance: %v then %v",
			results[0].RelevanceScore, results[1].RelevanceScore)
	}
}

func TestRankExcludesZeroScore(t *testing.T) {
	profile := &opportunity.Profile{ID: "org-1", MainKeywords: []string{"education"}}
	opps := &opportunity.Opportunities{Items: []*opportunity.Opportunity{
		{ID: "nomatch", Collection: "grants.gov", Title: "Highway construction bid"},
	}}

	results := NewRanker(NewMemoryStore(), zap.NewNop()).WithClock(fixedClock).
		Rank(context.Background(), profile, opps)

	if len(results) != 0 {
		t.Fatalf("expected zero-score opportunities to be excluded, got %d results", len(results))
	}
}

func TestRankCollectionFilter(t *testing.T) {
	contract := &opportunity.Opportunity{ID: "c1", Collection: "SAM", Title: "Education services contract"}
	grant := &opportunity.Opportunity{ID: "g1", Collection: "grants.gov", Title: "Education grant"}

	profile := &opportunity.Profile{
		ID:           "org-1",
		MainKeywords: []string{"education"},
		FundingTypes: []string{"Grants"},
	}
	opps := &opportunity.Opportunities{Items: []*opportunity.Opportunity{contract, grant}}

	results := NewRanker(NewMemoryStore(), zap.NewNop()).WithClock(fixedClock).
		Rank(context.Background(), profile, opps)

	if len(results) != 1 || results[0].OpportunityID != "g1" {
		t.Fatalf("expected only the grant to survive the collection filter, got %+v", results)
	}

	// Without funding type preferences every collection is in play.
	profile.FundingTypes = nil
	opps = &opportunity.Opportunities{Items: []*opportunity.Opportunity{contract, grant}}

	results = NewRanker(NewMemoryStore(), zap.NewNop()).WithClock(fixedClock).
		Rank(context.Background(), profile, opps)

	if len(results) != 2 {
		t.Fatalf("expected both opportunities without preferences, got %d", len(results))
	}
}

func TestRankIdempotentUpserts(t *testing.T) {
	profile := &opportunity.Profile{ID: "org-1", MainKeywords: []string{"health"}}
	store := NewMemoryStore()
	ranker := NewRanker(store, zap.NewNop()).WithClock(fixedClock)

	for i := 0; i < 2; i++ {
		opps := &opportunity.Opportunities{Items: []*opportunity.Opportunity{
			{ID: "h1", Collection: "grants.gov", Title: "Community health grant"},
		}}
		ranker.Rank(context.Background(), profile, opps)
	}

	if store.Len() != 1 {
		t.Fatalf("expected a single stored result after re-ranking, got %d", store.Len())
	}
	if store.Get("org-1", "h1") == nil {
		t.Fatalf("expected stored result for org-1/h1")
	}
}

func TestRankTiebreakByID(t *testing.T) {
	profile := &opportunity.Profile{ID: "org-1", MainKeywords: []string{"water"}}
	opps := &opportunity.Opportunities{Items: []*opportunity.Opportunity{
		{ID: "bbb", Collection: "grants.gov", Title: "Clean water grant"},
		{ID: "aaa", Collection: "grants.gov", Title: "Clean water grant"},
	}}

	results := NewRanker(NewMemoryStore(), zap.NewNop()).WithClock(fixedClock).
		Rank(context.Background(), profile, opps)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].OpportunityID != "aaa" || results[1].OpportunityID != "bbb" {
		t.Fatalf("expected id ascending tiebreak, got %s then %s",
			results[0].OpportunityID, results[1].OpportunityID)
	}
}

func TestRankWinRateRubric(t *testing.T) {
	deadline := fixedClock().AddDate(0, 0, 10).Format("2006-01-02")
	profile := &opportunity.Profile{
		ID:           "org-1",
		MainKeywords: []string{"education"},
		FundingTypes: []string{"Grants"},
		Location:     "CA",
	}
	opps := &opportunity.Opportunities{Items: []*opportunity.Opportunity{
		{
			ID:         "g1",
			Collection: "grants.gov",
			Title:      "Education grant",
			State:      "CA",
			CloseDate:  deadline,
		},
	}}

	results := NewRanker(NewMemoryStore(), zap.NewNop()).WithClock(fixedClock).
		Rank(context.Background(), profile, opps)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]

	if r.Urgency != UrgencyUrgent {
		t.Fatalf("expected urgent bucket, got %s", r.Urgency)
	}
	if r.WinRate < 0 || r.WinRate > 100 {
		t.Fatalf("win rate out of bounds: %v", r.WinRate)
	}
	if len(r.Factors) != 5 {
		t.Fatalf("expected 5 rubric factors, got %d", len(r.Factors))
	}

	// keyword 2*3=6, primary 8, funding 20, location 10, timing 5
	if r.WinRate != 49 {
		t.Fatalf("expected win rate 49, got %v", r.WinRate)
	}
	// relevance is keyword score 3 with the urgent multiplier
	if r.RelevanceScore != 3.0*1.2 {
		t.Fatalf("expected relevance 3.6, got %v", r.RelevanceScore)
	}
}

func TestRankNoDeadlineNeverUrgent(t *testing.T) {
	profile := &opportunity.Profile{ID: "org-1", MainKeywords: []string{"arts"}}
	opps := &opportunity.Opportunities{Items: []*opportunity.Opportunity{
		{ID: "a1", Collection: "grantwatch", Title: "Arts funding"},
	}}

	results := NewRanker(NewMemoryStore(), zap.NewNop()).WithClock(fixedClock).
		Rank(context.Background(), profile, opps)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Urgency != UrgencyOngoing {
		t.Fatalf("expected ongoing for missing deadline, got %s", results[0].Urgency)
	}
	if results[0].RelevanceScore != 3.0 {
		t.Fatalf("expected no urgency boost, got relevance %v", results[0].RelevanceScore)
	}
}
