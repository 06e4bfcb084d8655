package intake

import (
	"context"
	"time"
)

// DraftTTL is how long an abandoned draft survives before it is
// treated as absent and purged.
const DraftTTL = 7 * 24 * time.Hour

// DraftKeyPrefix namespaces draft records in the store. One draft per
// browser, keyed by a client-generated identifier.
const DraftKeyPrefix = "webstarter_form_draft:"

// Fields is the merged intake field set across both wizard steps.
type Fields struct {
	ClientName   string `json:"client_name,omitempty"`
	ClientEmail  string `json:"client_email,omitempty"`
	ClientPhone  string `json:"client_phone,omitempty"`
	ProjectType  string `json:"project_type,omitempty"`
	Description  string `json:"description,omitempty"`
	Colors       string `json:"colors,omitempty"`
	Budget       string `json:"budget,omitempty"`
	Deadline     string `json:"deadline,omitempty"`
	Inspirations string `json:"inspirations,omitempty"`
}

// Draft is one serialized snapshot of in-progress form state: the raw
// fields plus the derived selections and the wizard position.
type Draft struct {
	Fields
	SelectedColors []string  `json:"selectedColors,omitempty"`
	BudgetRange    string    `json:"budgetRange,omitempty"`
	CurrentStep    int       `json:"currentStep,omitempty"`
	SavedAt        time.Time `json:"savedAt"`
}

// Expired reports whether the draft is older than DraftTTL at the
// given instant.
func (d *Draft) Expired(now time.Time) bool {
	return now.Sub(d.SavedAt) > DraftTTL
}

// DraftStore persists drafts per browser key. Load returns (nil, nil)
// for a missing or expired draft, purging the expired record.
type DraftStore interface {
	Save(ctx context.Context, key string, draft Draft) error
	Load(ctx context.Context, key string) (*Draft, error)
	Clear(ctx context.Context, key string) error
}
