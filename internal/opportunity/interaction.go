package opportunity

import (
	"encoding/json"
	"os"
	"time"
)

const (
	ActionApply = "apply"
	ActionSave  = "save"
	ActionPass  = "pass"
)

// Interaction records a user decision about an opportunity.
type Interaction struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	Title      string    `json:"title,omitempty"`
	Agency     string    `json:"agency,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

type Interactions struct {
	Items []*Interaction
}

// GetInteractionsFromFile loads recorded interactions. A missing or empty
// file yields an empty set.
func GetInteractionsFromFile(path string) (*Interactions, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Interactions{}, nil
		}
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &Interactions{}, nil
	}

	var interactions Interactions
	if err := json.NewDecoder(file).Decode(&interactions); err != nil {
		return nil, err
	}
	return &interactions, nil
}

func (i *Interactions) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(i); err != nil {
		return err
	}
	return nil
}

func (i *Interactions) Record(opp *Opportunity, action string) {
	i.Items = append(i.Items, &Interaction{
		ID:         opp.ID,
		Action:     action,
		Title:      opp.Title,
		Agency:     opp.Agency,
		RecordedAt: time.Now().UTC(),
	})
}

// IDsByAction returns opportunity ids that have any of the given actions
// recorded. With no actions given, all recorded ids are returned.
func (i *Interactions) IDsByAction(actions ...string) []string {
	wanted := make(map[string]bool, len(actions))
	for _, action := range actions {
		wanted[action] = true
	}

	seen := make(map[string]bool)
	ids := make([]string, 0)
	for _, item := range i.Items {
		if len(wanted) > 0 && !wanted[item.Action] {
			continue
		}
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true
		ids = append(ids, item.ID)
	}
	return ids
}

func (i *Interactions) Len() int {
	return len(i.Items)
}
