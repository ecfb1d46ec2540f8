package firestore

import (
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/rfpqueen/grant-scout/internal/opportunity"
)

// DecodeOpportunity maps a raw document into an Opportunity. Unknown keys
// land in Extra so nothing a collection provides is lost.
func DecodeOpportunity(id, collection string, data map[string]any) (*opportunity.Opportunity, error) {
	var opp opportunity.Opportunity

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &opp,
		WeaklyTypedInput: true,
		DecodeHook:       timestampToStringHook,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(data); err != nil {
		return nil, err
	}

	opp.ID = id
	opp.Collection = collection

	return &opp, nil
}

// DecodeProfile maps a raw profile document and normalizes keyword sets.
func DecodeProfile(id string, data map[string]any) (*opportunity.Profile, error) {
	var profile opportunity.Profile

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &profile,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(data); err != nil {
		return nil, err
	}

	profile.ID = id
	profile.Normalize()

	return &profile, nil
}

// timestampToStringHook renders Firestore timestamp values into the RFC3339
// strings the matching layer parses.
func timestampToStringHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from == reflect.TypeOf(time.Time{}) && to.Kind() == reflect.String {
		return data.(time.Time).UTC().Format(time.RFC3339), nil
	}
	return data, nil
}
