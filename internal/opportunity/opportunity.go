package opportunity

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

const (
	OpportunityIDField         = "ID"
	OpportunityCollectionField = "Collection"
)

type Opportunities struct {
	Items []*Opportunity
}

// Opportunity is a normalized document from one of the source collections.
// Field presence is optional across collections, so everything is a plain
// string and unknown keys are kept in Extra.
type Opportunity struct {
	ID           string         `json:"id,omitempty" mapstructure:"id"`
	Collection   string         `json:"collection,omitempty" mapstructure:"collection"`
	Title        string         `json:"title,omitempty" mapstructure:"title"`
	Description  string         `json:"description,omitempty" mapstructure:"description"`
	Summary      string         `json:"summary,omitempty" mapstructure:"summary"`
	Agency       string         `json:"agency,omitempty" mapstructure:"agency"`
	Department   string         `json:"department,omitempty" mapstructure:"department"`
	CloseDate    string         `json:"closeDate,omitempty" mapstructure:"closeDate"`
	Deadline     string         `json:"deadline,omitempty" mapstructure:"deadline"`
	URL          string         `json:"url,omitempty" mapstructure:"url"`
	SynopsisURL  string         `json:"synopsisUrl,omitempty" mapstructure:"synopsisUrl"`
	Link         string         `json:"link,omitempty" mapstructure:"link"`
	City         string         `json:"city,omitempty" mapstructure:"city"`
	State        string         `json:"state,omitempty" mapstructure:"state"`
	ContactEmail string         `json:"contactEmail,omitempty" mapstructure:"contactEmail"`
	ContactPhone string         `json:"contactPhone,omitempty" mapstructure:"contactPhone"`
	Extra        map[string]any `json:"extra,omitempty" mapstructure:",remain"`
}

// SearchText concatenates the free-text fields used for keyword matching.
func (o *Opportunity) SearchText() string {
	return strings.ToLower(strings.Join([]string{
		o.Title,
		o.Description,
		o.Summary,
		o.Agency,
		o.Department,
	}, " "))
}

// DeadlineValue returns the close date, falling back to the deadline field.
func (o *Opportunity) DeadlineValue() string {
	if o.CloseDate != "" {
		return o.CloseDate
	}
	return o.Deadline
}

// PageURL returns the best page to start application discovery from.
func (o *Opportunity) PageURL() string {
	for _, u := range []string{o.URL, o.SynopsisURL, o.Link} {
		if strings.TrimSpace(u) != "" {
			return u
		}
	}
	return ""
}

// ExtraString returns a string-valued extra field by key.
func (o *Opportunity) ExtraString(key string) string {
	if o.Extra == nil {
		return ""
	}
	if v, ok := o.Extra[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

func (o *Opportunity) GetStringField(name string) string {
	switch name {
	case OpportunityIDField:
		return o.ID
	case OpportunityCollectionField:
		return o.Collection

	default:
		return ""
	}
}

func (o *Opportunities) Len() int {
	return len(o.Items)
}

func (o *Opportunities) FindByID(id string) *Opportunity {
	for _, opp := range o.Items {
		if opp.ID == id {
			return opp
		}
	}
	return nil
}

func (o *Opportunities) IDs() []string {
	ids := make([]string, 0, len(o.Items))
	for _, opp := range o.Items {
		ids = append(ids, opp.ID)
	}
	return ids
}

// Dedupe keeps the first record per external id. Collections occasionally
// republish the same opportunity, so only one canonical record may survive.
func (o *Opportunities) Dedupe() int {
	seen := make(map[string]bool, len(o.Items))
	kept := make([]*Opportunity, 0, len(o.Items))
	dropped := 0
	for _, opp := range o.Items {
		if opp.ID != "" && seen[opp.ID] {
			dropped++
			continue
		}
		seen[opp.ID] = true
		kept = append(kept, opp)
	}
	o.Items = kept
	return dropped
}

// Exclude removes opportunities from the list by the given field values.
func (o *Opportunities) Exclude(name string, targets []string) []string {
	var excluded []string
	for _, target := range targets {
		for idx, opp := range o.Items {
			if opp.GetStringField(name) == target {
				o.RemoveByIndex(idx)
				excluded = append(excluded, opp.ID)
				break
			}
		}
	}
	return excluded
}

// RemoveByIndex removes an opportunity from the list by index. Do not preserve order.
func (o *Opportunities) RemoveByIndex(idx int) {
	o.Items[idx] = o.Items[len(o.Items)-1]
	o.Items = o.Items[:len(o.Items)-1]
}

func (o *Opportunities) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "opportunities_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(o); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ReportByAgency groups opportunities by agency for a quick overview.
func (o *Opportunities) ReportByAgency() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, opp := range o.Items {
		agency := opp.Agency
		if agency == "" {
			agency = opp.Department
		}
		if agency == "" {
			agency = "unknown"
		}
		key := fmt.Sprintf("%s (%s)", agency, opp.Collection)
		report[key] = append(report[key], map[string]string{
			"title":    opp.Title,
			"url":      opp.PageURL(),
			"deadline": opp.DeadlineValue(),
			"location": strings.TrimSpace(strings.Join([]string{opp.City, opp.State}, " ")),
		})
	}
	return report
}
