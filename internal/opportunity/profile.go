package opportunity

import "strings"

// Profile holds the organization metadata that powers matching.
type Profile struct {
	ID               string   `json:"id,omitempty" mapstructure:"id"`
	OrganizationName string   `json:"organizationName,omitempty" mapstructure:"organizationName"`
	OrganizationType string   `json:"organizationType,omitempty" mapstructure:"organizationType"`
	MainKeywords     []string `json:"mainKeywords,omitempty" mapstructure:"interestsMain"`
	SubKeywords      []string `json:"subKeywords,omitempty" mapstructure:"interestsSub"`
	FundingTypes     []string `json:"fundingTypes,omitempty" mapstructure:"fundingTypes"`
	Location         string   `json:"location,omitempty" mapstructure:"location"`
	AnnualBudgetUSD  int      `json:"annualBudgetUsd,omitempty" mapstructure:"annualBudgetUsd"`
}

// Normalize lower-cases and deduplicates the keyword sets, preserving order.
// Matching relies on this invariant.
func (p *Profile) Normalize() {
	p.MainKeywords = normalizeKeywords(p.MainKeywords)
	p.SubKeywords = normalizeKeywords(p.SubKeywords)
	p.Location = strings.TrimSpace(p.Location)
}

// Merge fills empty fields from the fallback profile, typically the one
// declared in the local config file.
func (p *Profile) Merge(fallback *Profile) {
	if fallback == nil {
		return
	}
	if len(p.MainKeywords) == 0 {
		p.MainKeywords = fallback.MainKeywords
	}
	if len(p.SubKeywords) == 0 {
		p.SubKeywords = fallback.SubKeywords
	}
	if len(p.FundingTypes) == 0 {
		p.FundingTypes = fallback.FundingTypes
	}
	if p.Location == "" {
		p.Location = fallback.Location
	}
	if p.AnnualBudgetUSD == 0 {
		p.AnnualBudgetUSD = fallback.AnnualBudgetUSD
	}
	if p.OrganizationName == "" {
		p.OrganizationName = fallback.OrganizationName
	}
	if p.OrganizationType == "" {
		p.OrganizationType = fallback.OrganizationType
	}
}

func normalizeKeywords(keywords []string) []string {
	seen := make(map[string]bool, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		out = append(out, kw)
	}
	return out
}
