package filtering

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/rfpqueen/grant-scout/internal/opportunity"
)

const includeSeenMsg = "include-seen flag is set"

type interactionHistoryFilter struct {
	includeSeen bool
}

// NewInteractionHistory creates a filter that removes opportunities the user
// has already applied to or passed on. Saved opportunities stay in the list.
func NewInteractionHistory() Filter {
	return &interactionHistoryFilter{}
}

func (f *interactionHistoryFilter) Name() string { return "interaction_history" }

func (f *interactionHistoryFilter) Disable(string) {}

func (f *interactionHistoryFilter) IsEnabled() bool { return true }

func (f *interactionHistoryFilter) Validate(cfg *Config) error {
	f.includeSeen = false
	if cfg != nil {
		f.includeSeen = cfg.IncludeSeen
	}
	return nil
}

func (f *interactionHistoryFilter) Apply(_ context.Context, deps Deps, o *opportunity.Opportunities) (*opportunity.Opportunities, Step, error) {
	initial := o.Len()

	if f.includeSeen {
		if deps.Logger != nil {
			deps.Logger.Info("keeping already seen opportunities", zap.String("reason", includeSeenMsg))
		}
		return o, Step{Initial: initial, Dropped: 0, Left: o.Len()}, nil
	}

	if deps.Interactions == nil {
		return o, Step{Initial: initial, Dropped: 0, Left: o.Len()}, nil
	}

	seen := deps.Interactions.IDsByAction(opportunity.ActionApply, opportunity.ActionPass)
	excluded := o.Exclude(opportunity.OpportunityIDField, seen)
	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding opportunities based on interaction history",
			zap.Strings("excluded_opportunities", excluded),
			zap.Int("opportunities_left", o.Len()),
		)
	}

	return o, Step{Initial: initial, Dropped: len(excluded), Left: o.Len()}, nil
}

func (f *interactionHistoryFilter) Status() Status {
	details := map[string]string{
		"exclude_seen": strconv.FormatBool(!f.includeSeen),
	}
	reason := ""
	if f.includeSeen {
		reason = "skip requested via flag"
	}
	return Status{Name: f.Name(), Enabled: true, Reason: reason, Details: details}
}
