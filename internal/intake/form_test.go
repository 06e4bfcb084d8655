package intake

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"webstarter-backend/internal/notify"
)

type fakeStore struct {
	mu     sync.Mutex
	drafts map[string]Draft
	saves  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{drafts: make(map[string]Draft)}
}

func (s *fakeStore) Save(_ context.Context, key string, draft Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[key] = draft
	s.saves++
	return nil
}

func (s *fakeStore) Load(_ context.Context, key string) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	draft, ok := s.drafts[key]
	if !ok {
		return nil, nil
	}
	copied := draft
	return &copied, nil
}

func (s *fakeStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, key)
	return nil
}

func (s *fakeStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func countingSubmit(calls *int) SubmitFunc {
	return func(_ context.Context, sub Submission) (*Receipt, error) {
		*calls++
		return &Receipt{
			ProjectID:    "project-1",
			Notification: notify.Result{Attempted: true, Sent: true},
		}, nil
	}
}

func TestForm_AdvanceBlockedByInvalidStep1(t *testing.T) {
	form := NewForm("key", "fr", newFakeStore(), nil)
	form.Update(Fields{ClientName: "A"})

	errs := form.Advance()

	assert.NotEmpty(t, errs)
	assert.Equal(t, StateStep1, form.State())
}

func TestForm_AdvanceToStep2(t *testing.T) {
	form := NewForm("key", "fr", newFakeStore(), nil)
	form.Update(validFields())

	errs := form.Advance()

	assert.Empty(t, errs)
	assert.Equal(t, StateStep2, form.State())

	form.Back()
	assert.Equal(t, StateStep1, form.State())
}

func TestForm_SkipStillValidatesEssentials(t *testing.T) {
	calls := 0
	form := NewForm("key", "fr", newFakeStore(), countingSubmit(&calls))
	form.Update(Fields{ClientEmail: "bad"})

	receipt, errs, err := form.Skip(context.Background())

	require.NoError(t, err)
	assert.Nil(t, receipt)
	assert.NotEmpty(t, errs)
	assert.Zero(t, calls)
}

func TestForm_SkipSubmitsValidEssentials(t *testing.T) {
	calls := 0
	form := NewForm("key", "fr", newFakeStore(), countingSubmit(&calls))
	form.Update(validFields())

	receipt, errs, err := form.Skip(context.Background())

	require.NoError(t, err)
	assert.Empty(t, errs)
	require.NotNil(t, receipt)
	assert.Equal(t, "project-1", receipt.ProjectID)
	assert.Equal(t, 1, calls)
	assert.Equal(t, StateSubmitted, form.State())
}

func TestForm_DoubleSubmitReturnsExistingReceipt(t *testing.T) {
	calls := 0
	form := NewForm("key", "fr", newFakeStore(), countingSubmit(&calls))
	form.Update(validFields())

	first, _, err := form.Submit(context.Background())
	require.NoError(t, err)

	second, errs, err := form.Submit(context.Background())
	require.NoError(t, err)
	assert.Empty(t, errs)

	assert.Equal(t, 1, calls, "the pipeline must run exactly once")
	assert.Same(t, first, second)
}

func TestForm_SubmitClearsDraft(t *testing.T) {
	store := newFakeStore()
	store.drafts["key"] = Draft{Fields: validFields(), SavedAt: time.Now()}

	calls := 0
	form := NewForm("key", "fr", store, countingSubmit(&calls))
	form.Update(validFields())

	_, _, err := form.Submit(context.Background())
	require.NoError(t, err)

	draft, _ := store.Load(context.Background(), "key")
	assert.Nil(t, draft)
}

func TestForm_SubmitErrorRetainsDataAndAllowsRetry(t *testing.T) {
	form := NewForm("key", "fr", newFakeStore(), func(_ context.Context, _ Submission) (*Receipt, error) {
		return nil, errors.New("database down")
	})
	fields := validFields()
	form.Update(fields)

	receipt, errs, err := form.Submit(context.Background())

	assert.Error(t, err)
	assert.Nil(t, receipt)
	assert.Empty(t, errs)
	assert.Equal(t, StateError, form.State())
	assert.Equal(t, fields, form.FieldValues())

	form.Retry()
	assert.Equal(t, StateStep2, form.State())
}

func TestForm_EditingIgnoredAfterSubmission(t *testing.T) {
	calls := 0
	form := NewForm("key", "fr", newFakeStore(), countingSubmit(&calls))
	fields := validFields()
	form.Update(fields)

	_, _, err := form.Submit(context.Background())
	require.NoError(t, err)

	form.Update(Fields{ClientName: "Someone Else"})
	assert.Equal(t, fields, form.FieldValues())
}

func TestForm_ToggleColorCapped(t *testing.T) {
	form := NewForm("key", "fr", newFakeStore(), nil)

	form.ToggleColor("bleu")
	form.ToggleColor("vert")
	form.ToggleColor("rouge")
	form.ToggleColor("jaune") // beyond the cap, no-op

	assert.Equal(t, []string{"bleu", "vert", "rouge"}, form.SelectedColors())

	form.ToggleColor("vert") // deselect
	assert.Equal(t, []string{"bleu", "rouge"}, form.SelectedColors())

	form.ToggleColor("jaune") // room again
	assert.Equal(t, []string{"bleu", "rouge", "jaune"}, form.SelectedColors())
}

func TestForm_RestoreFromDraft(t *testing.T) {
	store := newFakeStore()
	store.drafts["key"] = Draft{
		Fields:         validFields(),
		SelectedColors: []string{"noir"},
		BudgetRange:    "1000-2500",
		CurrentStep:    2,
		SavedAt:        time.Now(),
	}

	form := NewForm("key", "fr", store, nil)
	assert.True(t, form.Restore(context.Background()))
	assert.Equal(t, StateStep2, form.State())
	assert.Equal(t, validFields(), form.FieldValues())
	assert.Equal(t, []string{"noir"}, form.SelectedColors())
}

func TestForm_RestoreWithoutDraft(t *testing.T) {
	form := NewForm("key", "fr", newFakeStore(), nil)
	assert.False(t, form.Restore(context.Background()))
	assert.Equal(t, StateStep1, form.State())
}

func TestForm_AutosaveOnlyWhenDirty(t *testing.T) {
	store := newFakeStore()
	form := NewForm("key", "fr", store, nil)

	assert.True(t, form.AutosaveTick(context.Background()))
	assert.Zero(t, store.saveCount(), "clean form must not be saved")

	form.Update(validFields())
	assert.True(t, form.AutosaveTick(context.Background()))
	assert.Equal(t, 1, store.saveCount())

	assert.True(t, form.AutosaveTick(context.Background()))
	assert.Equal(t, 1, store.saveCount(), "no change since last save")
}

func TestForm_AutosaveStopsAfterSubmission(t *testing.T) {
	calls := 0
	form := NewForm("key", "fr", newFakeStore(), countingSubmit(&calls))
	form.Update(validFields())

	_, _, err := form.Submit(context.Background())
	require.NoError(t, err)

	assert.False(t, form.AutosaveTick(context.Background()))
}

func TestForm_SnapshotTracksStep(t *testing.T) {
	form := NewForm("key", "fr", newFakeStore(), nil)
	form.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	form.Update(validFields())

	assert.Equal(t, 1, form.Snapshot().CurrentStep)

	form.Advance()
	snap := form.Snapshot()
	assert.Equal(t, 2, snap.CurrentStep)
	assert.Equal(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), snap.SavedAt)
}

func TestDraft_Expired(t *testing.T) {
	saved := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	draft := Draft{SavedAt: saved}

	assert.False(t, draft.Expired(saved.Add(DraftTTL)))
	assert.True(t, draft.Expired(saved.Add(DraftTTL+time.Second)))
}
