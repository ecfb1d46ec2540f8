package opportunity

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestInteractionsFileRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "interactions.json")

	interactions := &Interactions{}
	interactions.Record(&Opportunity{ID: "g1", Title: "Education grant", Agency: "NSF"}, ActionApply)
	interactions.Record(&Opportunity{ID: "g2", Title: "Arts grant"}, ActionSave)

	if err := interactions.ToFile(path); err != nil {
		t.Fatalf("writing interactions: %s", err)
	}

	loaded, err := GetInteractionsFromFile(path)
	if err != nil {
		t.Fatalf("loading interactions: %s", err)
	}

	if loaded.Len() != 2 {
		t.Fatalf("expected 2 interactions, got %d", loaded.Len())
	}
	if loaded.Items[0].ID != "g1" || loaded.Items[0].Action != ActionApply {
		t.Fatalf("unexpected first interaction: %+v", loaded.Items[0])
	}
	if loaded.Items[0].RecordedAt.IsZero() {
		t.Fatalf("expected recorded timestamp to survive the roundtrip")
	}
}

func TestGetInteractionsFromMissingFile(t *testing.T) {
	loaded, err := GetInteractionsFromFile(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("expected missing file to yield an empty set: %s", err)
	}
	if loaded.Len() != 0 {
		t.Fatalf("expected empty interactions, got %d", loaded.Len())
	}
}

func TestIDsByAction(t *testing.T) {
	interactions := &Interactions{}
	interactions.Record(&Opportunity{ID: "a"}, ActionApply)
	interactions.Record(&Opportunity{ID: "b"}, ActionPass)
	interactions.Record(&Opportunity{ID: "c"}, ActionSave)
	interactions.Record(&Opportunity{ID: "a"}, ActionApply)

	got := interactions.IDsByAction(ActionApply, ActionPass)
	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("unexpected ids: %v", got)
	}

	all := interactions.IDsByAction()
	if !reflect.DeepEqual(all, []string{"a", "b", "c"}) {
		t.Fatalf("expected all deduped ids, got %v", all)
	}
}
