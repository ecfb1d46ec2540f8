package firestore

import (
	"context"

	"github.com/rfpqueen/grant-scout/internal/opportunity"
)

// DefaultCollections are the source collections known to hold opportunity
// documents.
var DefaultCollections = []string{"SAM", "grants.gov", "grantwatch", "PND_RFPs", "rfpmart", "bid"}

// Source provides opportunity and profile documents. The production
// implementation talks to Firestore; a snapshot file serves offline runs and
// tests.
type Source interface {
	FetchCollection(ctx context.Context, name string, limit int) (*opportunity.Opportunities, error)
	FetchProfile(ctx context.Context, id string) (*opportunity.Profile, error)
}

// FetchCollections gathers opportunities from several collections into one
// list. A failing collection is skipped by the caller's error handling; this
// helper stops at the first error so callers can decide.
func FetchCollections(ctx context.Context, src Source, names []string, limit int) (*opportunity.Opportunities, error) {
	all := &opportunity.Opportunities{}
	for _, name := range names {
		opps, err := src.FetchCollection(ctx, name, limit)
		if err != nil {
			return nil, err
		}
		all.Items = append(all.Items, opps.Items...)
	}
	all.Dedupe()
	return all, nil
}
