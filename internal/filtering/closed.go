package filtering

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rfpqueen/grant-scout/internal/matching"
	"github.com/rfpqueen/grant-scout/internal/opportunity"
)

type closedFilter struct {
	disabled bool
	reason   string
}

// NewClosed creates a filter that removes opportunities whose deadline has
// already passed. Records without a parseable deadline are kept.
func NewClosed() Filter {
	return &closedFilter{}
}

func (f *closedFilter) Name() string { return "closed" }

func (f *closedFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *closedFilter) IsEnabled() bool { return !f.disabled }

func (f *closedFilter) Validate(*Config) error { return nil }

func (f *closedFilter) Apply(_ context.Context, deps Deps, o *opportunity.Opportunities) (*opportunity.Opportunities, Step, error) {
	initial := o.Len()

	now := time.Now()
	if deps.Now != nil {
		now = deps.Now()
	}

	var excluded []string
	kept := make([]*opportunity.Opportunity, 0, o.Len())
	for _, opp := range o.Items {
		deadline, ok := matching.ParseDeadline(opp.DeadlineValue())
		if ok && deadline.Before(now.Truncate(24*time.Hour)) {
			excluded = append(excluded, opp.ID)
			continue
		}
		kept = append(kept, opp)
	}
	o.Items = kept

	if deps.Logger != nil && len(excluded) > 0 {
		deps.Logger.Info("excluding opportunities past their deadline",
			zap.Strings("excluded_opportunities", excluded),
			zap.Int("opportunities_left", o.Len()),
		)
	}

	return o, Step{Initial: initial, Dropped: len(excluded), Left: o.Len()}, nil
}

func (f *closedFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: !f.disabled, Reason: f.reason}
}
