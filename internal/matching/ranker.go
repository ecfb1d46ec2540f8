package matching

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rfpqueen/grant-scout/internal/opportunity"
)

// collectionMap groups source collections under the funding types users
// declare in their profile.
var collectionMap = map[string][]string{
	"Contracts": {"SAM"},
	"Grants":    {"grants.gov", "grantwatch"},
	"RFPs":      {"PND_RFPs", "rfpmart"},
	"Bids":      {"bid"},
}

// CollectionsForFundingTypes returns the source collections implied by the
// given funding type preferences, sorted for determinism. Unknown funding
// types contribute nothing.
func CollectionsForFundingTypes(fundingTypes []string) []string {
	set := make(map[string]bool)
	for _, ft := range fundingTypes {
		for _, col := range collectionMap[ft] {
			set[col] = true
		}
	}
	collections := make([]string, 0, len(set))
	for col := range set {
		collections = append(collections, col)
	}
	sort.Strings(collections)
	return collections
}

// Factor is one scored line of the win-rate rubric.
type Factor struct {
	Name    string  `json:"name"`
	Score   float64 `json:"score"`
	Max     float64 `json:"max"`
	Details string  `json:"details"`
}

// MatchResult is the computed match between one profile and one opportunity.
type MatchResult struct {
	ProfileID      string                   `json:"profile_id"`
	OpportunityID  string                   `json:"opportunity_id"`
	Opportunity    *opportunity.Opportunity `json:"opportunity,omitempty"`
	RelevanceScore float64                  `json:"relevance_score"`
	WinRate        float64                  `json:"win_rate"`
	Urgency        UrgencyBucket            `json:"urgency"`
	KeywordDetail  *KeywordDetail           `json:"keyword_detail"`
	Factors        []Factor                 `json:"factors"`
}

// Ranker scores and orders opportunities for a profile. It is stateless per
// invocation; results are upserted into the injected store.
type Ranker struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

func NewRanker(store Store, logger *zap.Logger) *Ranker {
	return &Ranker{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the evaluation instant. Used by tests.
func (r *Ranker) WithClock(now func() time.Time) *Ranker {
	r.now = now
	return r
}

// Rank computes a MatchResult for every relevant opportunity and returns them
// ordered by relevance score desc, win rate desc, opportunity id asc. The id
// tiebreak keeps the ordering total and deterministic. Opportunities with a
// zero keyword score never appear in the output. A store failure for a single
// result is logged and does not abort the batch.
func (r *Ranker) Rank(ctx context.Context, profile *opportunity.Profile, opps *opportunity.Opportunities) []*MatchResult {
	profile.Normalize()

	if dropped := opps.Dedupe(); dropped > 0 {
		r.logger.Debug("removed duplicate opportunities", zap.Int("dropped", dropped))
	}

	allowed := make(map[string]bool)
	for _, col := range CollectionsForFundingTypes(profile.FundingTypes) {
		allowed[col] = true
	}

	now := r.now()
	results := make([]*MatchResult, 0, opps.Len())

	for _, opp := range opps.Items {
		// No funding type preference means every collection is considered.
		if len(allowed) > 0 && !allowed[opp.Collection] {
			continue
		}

		score, detail := ScoreKeywords(profile, opp)
		if score == 0 {
			continue
		}

		urgency := ClassifyUrgency(opp.DeadlineValue(), now)
		relevance := score * urgencyMultiplier(urgency)

		winRate, factors := r.winRate(profile, opp, score, detail, urgency, len(allowed) > 0)

		result := &MatchResult{
			ProfileID:      profile.ID,
			OpportunityID:  opp.ID,
			Opportunity:    opp,
			RelevanceScore: relevance,
			WinRate:        winRate,
			Urgency:        urgency,
			KeywordDetail:  detail,
			Factors:        factors,
		}

		if r.store != nil {
			if err := r.store.Upsert(ctx, result); err != nil {
				r.logger.Warn("storing match result failed",
					zap.String("opportunity_id", opp.ID),
					zap.Error(err),
				)
			}
		}

		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].RelevanceScore != results[j].RelevanceScore {
			return results[i].RelevanceScore > results[j].RelevanceScore
		}
		if results[i].WinRate != results[j].WinRate {
			return results[i].WinRate > results[j].WinRate
		}
		return results[i].OpportunityID < results[j].OpportunityID
	})

	return results
}

func urgencyMultiplier(bucket UrgencyBucket) float64 {
	switch bucket {
	case UrgencyUrgent:
		return 1.2
	case UrgencySoon:
		return 1.1
	default:
		return 1.0
	}
}

// winRate scores the opportunity on a 100-point rubric and itemizes every
// factor for display.
func (r *Ranker) winRate(
	profile *opportunity.Profile,
	opp *opportunity.Opportunity,
	keywordScore float64,
	detail *KeywordDetail,
	urgency UrgencyBucket,
	hasPreference bool,
) (float64, []Factor) {
	factors := make([]Factor, 0, 5)

	keywordPoints := math.Min(40, keywordScore*2)
	factors = append(factors, Factor{
		Name:    "Keyword Match",
		Score:   keywordPoints,
		Max:     40,
		Details: fmt.Sprintf("%d relevant keyword occurrences found", detail.TotalMatches),
	})

	mainCount := len(detail.MainMatches)
	mainPoints := math.Min(25, float64(mainCount)*8)
	factors = append(factors, Factor{
		Name:    "Primary Interest Alignment",
		Score:   mainPoints,
		Max:     25,
		Details: fmt.Sprintf("%d primary interests matched", mainCount),
	})

	fundingPoints := 0.0
	fundingDetails := "No funding type preference declared"
	if hasPreference {
		fundingDetails = "Different funding type"
		for _, col := range CollectionsForFundingTypes(profile.FundingTypes) {
			if col == opp.Collection {
				fundingPoints = 20
				fundingDetails = "Matches preferred funding type"
				break
			}
		}
	}
	factors = append(factors, Factor{
		Name:    "Funding Type Match",
		Score:   fundingPoints,
		Max:     20,
		Details: fundingDetails,
	})

	locationPoints := 0.0
	locationDetails := "Different or unspecified location"
	if profile.Location != "" && opp.State != "" &&
		strings.EqualFold(strings.TrimSpace(opp.State), profile.Location) {
		locationPoints = 10
		locationDetails = "Same state"
	}
	factors = append(factors, Factor{
		Name:    "Location Match",
		Score:   locationPoints,
		Max:     10,
		Details: locationDetails,
	})

	var timingPoints float64
	var timingDetails string
	switch urgency {
	case UrgencyUrgent:
		timingPoints, timingDetails = 5, "Deadline within 30 days"
	case UrgencySoon:
		timingPoints, timingDetails = 3, "Deadline within 3 months"
	default:
		timingPoints, timingDetails = 2, "Ongoing or long-term opportunity"
	}
	factors = append(factors, Factor{
		Name:    "Timing",
		Score:   timingPoints,
		Max:     5,
		Details: timingDetails,
	})

	total := 0.0
	for _, f := range factors {
		total += f.Score
	}

	return total, factors
}
