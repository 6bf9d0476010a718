// Package wizard drives the select-review-result flow. A Session owns the
// drafts being edited and the step the user is on; the TUI renders it and
// routes key presses into it.
package wizard

import (
	"errors"
	"fmt"
	"sort"

	"github.com/curatorlabs/curator/internal/api"
	"github.com/curatorlabs/curator/internal/inventory"
)

// Step identifies the wizard screen the user is on.
type Step int

const (
	StepSelect Step = iota
	StepReview
	StepResult
)

// String returns a human-readable step name.
func (s Step) String() string {
	switch s {
	case StepSelect:
		return "select"
	case StepReview:
		return "review"
	case StepResult:
		return "result"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Wizard errors.
var (
	ErrEmptySelection = errors.New("no folders selected")
	ErrInvalidDrafts  = errors.New("drafts have validation errors")
)

// Draft is one pending collection, editable on the review screen.
type Draft struct {
	FolderGUID   string
	FolderPath   string
	Name         string
	State        api.CollectionState
	PipelineGUID string

	// ValidationErr is non-nil while Name fails validation; such a draft
	// blocks submission.
	ValidationErr error
}

// Config wires a Session to its collaborators.
type Config struct {
	Snapshot *inventory.Snapshot

	// Suggest produces the initial collection name for a folder path.
	Suggest func(path string) string

	// Validate checks an edited collection name.
	Validate func(name string) error

	DefaultState api.CollectionState
}

// Session is the wizard's state machine. It is not safe for concurrent use;
// the TUI update loop is its only caller.
type Session struct {
	cfg    Config
	step   Step
	drafts []Draft
	result *api.BatchResult

	// generation distinguishes submissions of the current run from ones
	// started before a Reset. Results from an earlier generation are
	// discarded.
	generation int
}

// NewSession starts a session at the select step.
func NewSession(cfg Config) *Session {
	if cfg.Suggest == nil {
		cfg.Suggest = inventory.BaseName
	}
	if cfg.Validate == nil {
		cfg.Validate = func(string) error { return nil }
	}
	if cfg.DefaultState == "" {
		cfg.DefaultState = api.StateLive
	}

	return &Session{cfg: cfg}
}

// Step returns the current wizard step.
func (s *Session) Step() Step { return s.step }

// Generation returns the current run's generation counter.
func (s *Session) Generation() int { return s.generation }

// BeginReview moves from select to review, building one draft per selected
// path. Drafts from an earlier visit are kept for paths still selected, so
// edits survive a round trip back to the select screen; newly selected paths
// get fresh drafts and deselected ones are dropped.
func (s *Session) BeginReview(selected []string) error {
	if len(selected) == 0 {
		return ErrEmptySelection
	}

	prev := make(map[string]Draft, len(s.drafts))
	for _, d := range s.drafts {
		prev[d.FolderPath] = d
	}

	drafts := make([]Draft, 0, len(selected))
	for _, path := range selected {
		if d, ok := prev[path]; ok {
			drafts = append(drafts, d)
			continue
		}

		folder, ok := s.cfg.Snapshot.ByPath(path)
		if !ok {
			return fmt.Errorf("selected path %q has no folder record", path)
		}

		name := s.cfg.Suggest(path)
		drafts = append(drafts, Draft{
			FolderGUID:    folder.GUID,
			FolderPath:    path,
			Name:          name,
			State:         s.cfg.DefaultState,
			ValidationErr: s.cfg.Validate(name),
		})
	}

	sort.Slice(drafts, func(i, j int) bool { return drafts[i].FolderPath < drafts[j].FolderPath })

	s.drafts = drafts
	s.step = StepReview

	return nil
}

// Back returns from review to select, keeping drafts for the next visit.
func (s *Session) Back() {
	if s.step == StepReview {
		s.step = StepSelect
	}
}

// Drafts returns the current drafts in path order.
func (s *Session) Drafts() []Draft { return s.drafts }

// SetName updates the name of draft i and revalidates it.
func (s *Session) SetName(i int, name string) {
	if i < 0 || i >= len(s.drafts) {
		return
	}
	s.drafts[i].Name = name
	s.drafts[i].ValidationErr = s.cfg.Validate(name)
}

// SetState updates the collection state of draft i.
func (s *Session) SetState(i int, state api.CollectionState) {
	if i < 0 || i >= len(s.drafts) {
		return
	}
	s.drafts[i].State = state
}

// ApplyBatchState sets every draft to the same collection state.
func (s *Session) ApplyBatchState(state api.CollectionState) {
	for i := range s.drafts {
		s.drafts[i].State = state
	}
}

// CanSubmit reports whether every draft passes validation.
func (s *Session) CanSubmit() bool {
	if len(s.drafts) == 0 {
		return false
	}
	for _, d := range s.drafts {
		if d.ValidationErr != nil {
			return false
		}
	}
	return true
}

// Mappings converts the drafts into the batch request payload. It fails if
// any draft is still invalid.
func (s *Session) Mappings() ([]api.Mapping, error) {
	if !s.CanSubmit() {
		return nil, ErrInvalidDrafts
	}

	mappings := make([]api.Mapping, 0, len(s.drafts))
	for _, d := range s.drafts {
		mappings = append(mappings, api.Mapping{
			FolderGUID:   d.FolderGUID,
			Name:         d.Name,
			State:        d.State,
			PipelineGUID: d.PipelineGUID,
		})
	}

	return mappings, nil
}

// CompleteSubmit records the outcome of a batch submission started at
// generation gen. A result from a stale generation is ignored. On transport
// failure the session stays on review with drafts intact, so the user can
// retry; on success it advances to the result step.
func (s *Session) CompleteSubmit(gen int, result *api.BatchResult, err error) {
	if gen != s.generation || s.step != StepReview {
		return
	}
	if err != nil {
		return
	}

	s.result = result
	s.step = StepResult
}

// Result returns the batch outcome shown on the result screen.
func (s *Session) Result() *api.BatchResult { return s.result }

// Reset starts a fresh run back at the select step and invalidates any
// in-flight submission.
func (s *Session) Reset() {
	s.step = StepSelect
	s.drafts = nil
	s.result = nil
	s.generation++
}
