package matching

import (
	"regexp"

	"github.com/rfpqueen/grant-scout/internal/opportunity"
)

const (
	mainKeywordWeight = 3.0
	subKeywordWeight  = 1.0
)

// KeywordMatch reports how often a single keyword occurred.
type KeywordMatch struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// KeywordDetail itemizes the matches behind a keyword score.
type KeywordDetail struct {
	MainMatches  []KeywordMatch `json:"main_matches"`
	SubMatches   []KeywordMatch `json:"sub_matches"`
	TotalMatches int            `json:"total_matches"`
}

// ScoreKeywords computes the weighted keyword-overlap score between a profile
// and an opportunity's searchable text. Main keyword hits count 3x, sub
// keyword hits 1x. Counting is whole-word and case-insensitive.
func ScoreKeywords(profile *opportunity.Profile, opp *opportunity.Opportunity) (float64, *KeywordDetail) {
	text := opp.SearchText()
	detail := &KeywordDetail{
		MainMatches: []KeywordMatch{},
		SubMatches:  []KeywordMatch{},
	}

	score := 0.0

	for _, keyword := range profile.MainKeywords {
		count := countWholeWord(text, keyword)
		if count == 0 {
			continue
		}
		score += float64(count) * mainKeywordWeight
		detail.MainMatches = append(detail.MainMatches, KeywordMatch{Keyword: keyword, Count: count})
		detail.TotalMatches += count
	}

	for _, keyword := range profile.SubKeywords {
		count := countWholeWord(text, keyword)
		if count == 0 {
			continue
		}
		score += float64(count) * subKeywordWeight
		detail.SubMatches = append(detail.SubMatches, KeywordMatch{Keyword: keyword, Count: count})
		detail.TotalMatches += count
	}

	return score, detail
}

func countWholeWord(text, keyword string) int {
	if keyword == "" || text == "" {
		return 0
	}
	pattern, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(keyword) + `\b`)
	if err != nil {
		return 0
	}
	return len(pattern.FindAllStringIndex(text, -1))
}
