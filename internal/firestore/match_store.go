package firestore

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rfpqueen/grant-scout/internal/matching"
)

const defaultMatchesCollection = "matches"

// MatchStore persists match results into a Firestore collection. The
// document key is derived from the (profile, opportunity) pair, so a
// recompute overwrites the prior result instead of duplicating it.
type MatchStore struct {
	client     *Client
	collection string
}

func NewMatchStore(client *Client) *MatchStore {
	return &MatchStore{
		client:     client,
		collection: defaultMatchesCollection,
	}
}

func (s *MatchStore) Upsert(ctx context.Context, result *matching.MatchResult) error {
	key := fmt.Sprintf("%s_%s", result.ProfileID, result.OpportunityID)

	factors := make([]map[string]any, 0, len(result.Factors))
	for _, f := range result.Factors {
		factors = append(factors, map[string]any{
			"name":    f.Name,
			"score":   f.Score,
			"max":     f.Max,
			"details": f.Details,
		})
	}

	_, err := s.client.fs.Collection(s.collection).Doc(key).Set(ctx, map[string]any{
		"profileId":      result.ProfileID,
		"opportunityId":  result.OpportunityID,
		"relevanceScore": result.RelevanceScore,
		"winRate":        result.WinRate,
		"urgency":        string(result.Urgency),
		"factors":        factors,
		"computedAt":     time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("upserting match %s: %w", key, err)
	}

	s.client.logger.Debug("stored match result",
		zap.String("key", key),
		zap.Float64("win_rate", result.WinRate),
	)

	return nil
}
