package firestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rfpqueen/grant-scout/internal/opportunity"
)

// Snapshot is the on-disk format written by the sync command.
type Snapshot struct {
	GeneratedAt   time.Time                  `json:"generated_at"`
	Opportunities []*opportunity.Opportunity `json:"opportunities"`
}

// SnapshotSource serves opportunities from a local sync snapshot, enabling
// offline runs and fake-source tests.
type SnapshotSource struct {
	snapshot *Snapshot
}

var ErrNoProfilesInSnapshot = errors.New("profiles are not stored in snapshots")

func LoadSnapshot(path string) (*SnapshotSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer file.Close()

	var snapshot Snapshot
	if err := json.NewDecoder(file).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}

	return &SnapshotSource{snapshot: &snapshot}, nil
}

func WriteSnapshot(path string, opps *opportunity.Opportunities) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	defer file.Close()

	snapshot := &Snapshot{
		GeneratedAt:   time.Now().UTC(),
		Opportunities: opps.Items,
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotSource) GeneratedAt() time.Time {
	return s.snapshot.GeneratedAt
}

func (s *SnapshotSource) FetchCollection(_ context.Context, name string, limit int) (*opportunity.Opportunities, error) {
	opps := &opportunity.Opportunities{}
	for _, opp := range s.snapshot.Opportunities {
		if name != "" && opp.Collection != name {
			continue
		}
		opps.Items = append(opps.Items, opp)
		if limit > 0 && opps.Len() >= limit {
			break
		}
	}
	return opps, nil
}

func (s *SnapshotSource) FetchProfile(context.Context, string) (*opportunity.Profile, error) {
	return nil, ErrNoProfilesInSnapshot
}
