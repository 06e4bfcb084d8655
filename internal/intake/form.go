package intake

import (
	"context"
	"strings"
	"sync"
	"time"

	"webstarter-backend/internal/logger"
	"webstarter-backend/internal/notify"
)

// MaxColors caps the color selection; picks beyond the cap are no-ops.
const MaxColors = 3

type State string

const (
	StateStep1      State = "step1"
	StateStep2      State = "step2"
	StateSubmitting State = "submitting"
	StateSubmitted  State = "submitted"
	StateError      State = "error"
)

// AutosaveInterval is how often in-progress state is flushed to the
// draft store while the form is open.
const AutosaveInterval = 2 * time.Second

// FileUpload is one attachment staged for submission.
type FileUpload struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

// Submission is the full merged payload handed to the pipeline. Any
// status supplied by the client is ignored: projects always start as
// nouvelle.
type Submission struct {
	Fields
	SelectedColors []string
	BudgetRange    string
	Locale         string
	DraftKey       string
	Files          []FileUpload
}

// MergedColors resolves the color selection: explicit picks win over
// the free-text field.
func (s *Submission) MergedColors() string {
	if len(s.SelectedColors) > 0 {
		return strings.Join(s.SelectedColors, ", ")
	}
	return s.Colors
}

// MergedBudget resolves the budget: the bracket choice is mutually
// exclusive with free text and wins when set.
func (s *Submission) MergedBudget() string {
	if s.BudgetRange != "" {
		return s.BudgetRange
	}
	return s.Budget
}

// FileResult is the outcome of one upload attempt. Failed uploads are
// recorded and skipped, never fatal to the submission.
type FileResult struct {
	Name     string
	Uploaded bool
	URL      string
	Err      string
}

// Receipt is what a completed submission yields: the created project
// and the independent outcomes of its side effects.
type Receipt struct {
	ProjectID    string
	Files        []FileResult
	Notification notify.Result
}

// SubmitFunc runs the intake pipeline for a validated submission.
type SubmitFunc func(ctx context.Context, sub Submission) (*Receipt, error)

// Form is the two-step intake wizard. It owns the field state, the
// step position, draft persistence and the submission guard. All
// methods are safe for concurrent use.
type Form struct {
	mu sync.Mutex

	key    string
	locale string

	fields         Fields
	selectedColors []string
	budgetRange    string

	state   State
	errs    FieldErrors
	receipt *Receipt

	store  DraftStore
	submit SubmitFunc
	files  []FileUpload

	dirty bool
	now   func() time.Time
}

func NewForm(key, locale string, store DraftStore, submit SubmitFunc) *Form {
	return &Form{
		key:    key,
		locale: locale,
		state:  StateStep1,
		store:  store,
		submit: submit,
		now:    time.Now,
	}
}

// Restore rehydrates every field and the wizard step from a
// non-expired draft. Returns true when a draft was applied.
func (f *Form) Restore(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	draft, err := f.store.Load(ctx, f.key)
	if err != nil {
		logger.Error(err, "failed to load form draft")
		return false
	}
	if draft == nil {
		return false
	}

	f.fields = draft.Fields
	f.selectedColors = append([]string(nil), draft.SelectedColors...)
	f.budgetRange = draft.BudgetRange
	if draft.CurrentStep == 2 {
		f.state = StateStep2
	} else {
		f.state = StateStep1
	}
	return true
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Form) FieldValues() Fields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

func (f *Form) SelectedColors() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.selectedColors...)
}

// Update merges new field values into the form. Editing is ignored
// while a submission is in flight or done.
func (f *Form) Update(fields Fields) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateSubmitting || f.state == StateSubmitted {
		return
	}
	f.fields = fields
	f.dirty = true
}

// SetLocale switches phone-region and currency expectations. Already
// entered values are not re-validated until the next submit attempt.
func (f *Form) SetLocale(locale string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locale = locale
}

// ToggleColor adds or removes a color from the selection. Adding
// beyond MaxColors is a no-op.
func (f *Form) ToggleColor(color string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, c := range f.selectedColors {
		if c == color {
			f.selectedColors = append(f.selectedColors[:i], f.selectedColors[i+1:]...)
			f.dirty = true
			return
		}
	}
	if len(f.selectedColors) >= MaxColors {
		return
	}
	f.selectedColors = append(f.selectedColors, color)
	f.dirty = true
}

// SelectBudget picks one bracket; brackets are mutually exclusive so
// the previous choice is replaced.
func (f *Form) SelectBudget(value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.budgetRange = value
	f.dirty = true
}

func (f *Form) AttachFiles(files []FileUpload) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files = files
}

// Advance validates the essential fields and moves to step 2. On
// failure the form stays on step 1 with one error per invalid field.
func (f *Form) Advance() FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateStep1 {
		return nil
	}

	errs := ValidateStep1(f.fields)
	if len(errs) > 0 {
		f.errs = errs
		return errs
	}

	f.state = StateStep2
	f.errs = nil
	f.dirty = true
	return nil
}

// Back returns from the optional step to the essentials.
func (f *Form) Back() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateStep2 {
		f.state = StateStep1
		f.dirty = true
	}
}

// Skip bypasses step 2 entirely. Step-1 fields stay mandatory on this
// path, so they are re-validated before submitting.
func (f *Form) Skip(ctx context.Context) (*Receipt, FieldErrors, error) {
	f.mu.Lock()
	if f.state == StateSubmitting || f.state == StateSubmitted {
		receipt := f.receipt
		f.mu.Unlock()
		return receipt, nil, nil
	}
	if errs := ValidateStep1(f.fields); len(errs) > 0 {
		f.errs = errs
		f.mu.Unlock()
		return nil, errs, nil
	}
	f.mu.Unlock()

	return f.Submit(ctx)
}

// Submit validates the merged field set and runs the pipeline. A
// second call while submitting or after success returns the existing
// receipt without creating another project.
func (f *Form) Submit(ctx context.Context) (*Receipt, FieldErrors, error) {
	f.mu.Lock()
	if f.state == StateSubmitting || f.state == StateSubmitted {
		receipt := f.receipt
		f.mu.Unlock()
		return receipt, nil, nil
	}

	errs := Validate(f.fields, f.locale)
	if len(errs) > 0 {
		f.errs = errs
		f.mu.Unlock()
		return nil, errs, nil
	}

	f.state = StateSubmitting
	sub := Submission{
		Fields:         f.fields,
		SelectedColors: append([]string(nil), f.selectedColors...),
		BudgetRange:    f.budgetRange,
		Locale:         f.locale,
		DraftKey:       f.key,
		Files:          f.files,
	}
	f.mu.Unlock()

	receipt, err := f.submit(ctx, sub)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		// Entered data is retained; the user may correct and retry
		f.state = StateError
		return nil, nil, err
	}

	f.state = StateSubmitted
	f.receipt = receipt
	if clearErr := f.store.Clear(ctx, f.key); clearErr != nil {
		logger.Error(clearErr, "failed to clear form draft after submission")
	}
	return receipt, nil, nil
}

// Retry re-arms a form that failed submission.
func (f *Form) Retry() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateError {
		f.state = StateStep2
	}
}

// StartAutosave flushes dirty state to the draft store every
// AutosaveInterval until the context ends or the form is submitted.
func (f *Form) StartAutosave(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(AutosaveInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !f.AutosaveTick(ctx) {
					return
				}
			}
		}
	}()
}

// AutosaveTick performs one autosave pass. Returns false once the form
// has reached a state where autosaving must stop.
func (f *Form) AutosaveTick(ctx context.Context) bool {
	f.mu.Lock()
	if f.state == StateSubmitting || f.state == StateSubmitted {
		f.mu.Unlock()
		return false
	}
	if !f.dirty {
		f.mu.Unlock()
		return true
	}
	draft := f.snapshot()
	f.dirty = false
	f.mu.Unlock()

	if err := f.store.Save(ctx, f.key, draft); err != nil {
		logger.Error(err, "failed to autosave form draft")
	}
	return true
}

func (f *Form) snapshot() Draft {
	step := 1
	if f.state == StateStep2 {
		step = 2
	}
	return Draft{
		Fields:         f.fields,
		SelectedColors: append([]string(nil), f.selectedColors...),
		BudgetRange:    f.budgetRange,
		CurrentStep:    step,
		SavedAt:        f.now(),
	}
}

// Snapshot returns the current draft representation without saving it.
func (f *Form) Snapshot() Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot()
}
