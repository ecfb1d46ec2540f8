package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/rfpqueen/grant-scout/internal/matching"
	"github.com/rfpqueen/grant-scout/internal/opportunity"
)

type collectionFilter struct {
	collections []string
}

// NewCollection creates a filter that keeps only opportunities from the
// collections implied by the profile's funding type preferences. With no
// preference declared, every opportunity is kept.
func NewCollection() Filter {
	return &collectionFilter{}
}

func (f *collectionFilter) Name() string { return "collection" }

func (f *collectionFilter) Disable(string) {}

func (f *collectionFilter) IsEnabled() bool { return true }

func (f *collectionFilter) Validate(cfg *Config) error {
	f.collections = nil
	if cfg != nil {
		f.collections = matching.CollectionsForFundingTypes(cfg.FundingTypes)
	}
	return nil
}

func (f *collectionFilter) Apply(_ context.Context, deps Deps, o *opportunity.Opportunities) (*opportunity.Opportunities, Step, error) {
	initial := o.Len()
	if len(f.collections) == 0 {
		return o, Step{Initial: initial, Dropped: 0, Left: o.Len()}, nil
	}

	allowed := make(map[string]bool, len(f.collections))
	for _, col := range f.collections {
		allowed[col] = true
	}

	kept := make([]*opportunity.Opportunity, 0, o.Len())
	for _, opp := range o.Items {
		if allowed[opp.Collection] {
			kept = append(kept, opp)
		}
	}
	o.Items = kept

	if deps.Logger != nil && initial != o.Len() {
		deps.Logger.Info("excluding opportunities outside preferred collections",
			zap.Strings("collections", f.collections),
			zap.Int("opportunities_left", o.Len()),
		)
	}

	return o, Step{Initial: initial, Dropped: initial - o.Len(), Left: o.Len()}, nil
}

func (f *collectionFilter) Status() Status {
	details := map[string]string{}
	if len(f.collections) > 0 {
		details["collections"] = strings.Join(f.collections, ",")
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}
