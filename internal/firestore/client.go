package firestore

import (
	"context"
	"fmt"

	firestore "cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/rfpqueen/grant-scout/internal/opportunity"
)

const defaultProfilesCollection = "profiles"

// Client wraps an explicitly constructed Firestore client. The client is
// injected rather than initialized process-wide, so alternative sources can
// be substituted in tests.
type Client struct {
	fs     *firestore.Client
	logger *zap.Logger

	ProfilesCollection string
}

// New connects to Firestore using the provided service account JSON. An
// empty credentials slice falls back to application default credentials.
func New(ctx context.Context, projectID string, credentialsJSON []byte, logger *zap.Logger) (*Client, error) {
	var opts []option.ClientOption
	if len(credentialsJSON) > 0 {
		opts = append(opts, option.WithCredentialsJSON(credentialsJSON))
	}

	fs, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Client{
		fs:                 fs,
		logger:             logger,
		ProfilesCollection: defaultProfilesCollection,
	}, nil
}

func (c *Client) Close() error {
	return c.fs.Close()
}

// FetchCollection reads up to limit opportunity documents from one
// collection. Documents that fail to decode are logged and skipped; a broken
// record must not sink the whole sync.
func (c *Client) FetchCollection(ctx context.Context, name string, limit int) (*opportunity.Opportunities, error) {
	query := c.fs.Collection(name).Query
	if limit > 0 {
		query = query.Limit(limit)
	}

	opps := &opportunity.Opportunities{}

	iter := query.Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading collection %s: %w", name, err)
		}

		opp, err := DecodeOpportunity(doc.Ref.ID, name, doc.Data())
		if err != nil {
			c.logger.Warn("skipping undecodable opportunity document",
				zap.String("collection", name),
				zap.String("document_id", doc.Ref.ID),
				zap.Error(err),
			)
			continue
		}
		opps.Items = append(opps.Items, opp)
	}

	c.logger.Debug("fetched collection",
		zap.String("collection", name),
		zap.Int("count", opps.Len()),
	)

	return opps, nil
}

// FetchProfile loads a profile document by id and normalizes its keyword
// sets.
func (c *Client) FetchProfile(ctx context.Context, id string) (*opportunity.Profile, error) {
	doc, err := c.fs.Collection(c.ProfilesCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching profile %s: %w", id, err)
	}

	profile, err := DecodeProfile(doc.Ref.ID, doc.Data())
	if err != nil {
		return nil, fmt.Errorf("decoding profile %s: %w", id, err)
	}
	return profile, nil
}
