// Package tui provides the terminal user interface for the collection
// wizard: a folder tree with search and selection, a review screen for
// editing drafts, and a result screen for the batch outcome.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/curatorlabs/curator/internal/api"
	"github.com/curatorlabs/curator/internal/inventory"
	"github.com/curatorlabs/curator/internal/selection"
	"github.com/curatorlabs/curator/internal/tree"
	"github.com/curatorlabs/curator/internal/wizard"
)

// CollectionCreator submits batch creation requests. *api.Client satisfies
// it; tests substitute fakes.
type CollectionCreator interface {
	CreateCollections(ctx context.Context, connector string, mappings []api.Mapping) (*api.BatchResult, error)
}

// Options configures the wizard TUI.
type Options struct {
	Snapshot  *inventory.Snapshot
	Session   *wizard.Session
	Creator   CollectionCreator
	Connector string

	// InitialSelection pre-selects folder paths when the wizard starts.
	InitialSelection []string

	// OnSelectionChange, when set, is called with the selected paths after
	// every selection change.
	OnSelectionChange func(selected []string)

	// LastSync is shown in the select screen status line; zero means the
	// inventory was fetched live.
	LastSync time.Time
}

// submitResultMsg carries the outcome of an async batch submission.
type submitResultMsg struct {
	gen    int
	result *api.BatchResult
	err    error
}

// Model holds the state for the wizard TUI.
type Model struct {
	opts    Options
	session *wizard.Session

	// Select screen: selection engine state, expansion, and the derived
	// visible rows.
	selection *selection.State
	expanded  map[string]bool
	rows      []tree.Row
	cursor    int
	scroll    int

	searchInput textinput.Model
	searching   bool
	query       string

	// Review screen
	reviewCursor int
	nameInput    textinput.Model
	editingName  bool
	submitting   bool
	submitErr    error

	spin spinner.Model

	statusMsg  string
	viewHeight int
	width      int
	height     int
}

// NewModel builds the initial model on the select screen with top-level
// folders expanded.
func NewModel(opts Options) Model {
	searchInput := textinput.New()
	searchInput.Placeholder = "type to filter..."
	searchInput.CharLimit = 200

	nameInput := textinput.New()
	nameInput.CharLimit = 200

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = SpinnerStyle

	m := Model{
		opts:        opts,
		session:     opts.Session,
		selection:   selection.New(opts.Snapshot.MappedPaths(), opts.InitialSelection),
		expanded:    make(map[string]bool),
		searchInput: searchInput,
		nameInput:   nameInput,
		spin:        spin,
		viewHeight:  15,
		width:       80,
		height:      24,
	}

	for _, root := range tree.Build(opts.Snapshot, m.selection, nil) {
		m.expanded[root.Path] = true
	}

	m.rebuildTree()

	return m
}

// notifySelection reports the current selection to the host callback.
func (m *Model) notifySelection() {
	if m.opts.OnSelectionChange != nil {
		m.opts.OnSelectionChange(m.selection.Selected())
	}
}

// rebuildTree rebuilds the visible rows from the snapshot, selection,
// expansion and filter. Cursor position is kept on the same path when that
// path is still visible.
func (m *Model) rebuildTree() {
	var cursorPath string
	if m.cursor < len(m.rows) {
		cursorPath = m.rows[m.cursor].Node.Path
	}

	roots := tree.Build(m.opts.Snapshot, m.selection, m.expanded)
	roots = tree.Filter(roots, m.query)
	m.rows = tree.Flatten(roots)

	m.cursor = 0
	for i, row := range m.rows {
		if row.Node.Path == cursorPath {
			m.cursor = i
			break
		}
	}

	m.ensureCursorVisible()
}

// ensureCursorVisible adjusts the scroll offset so the cursor row stays in
// the viewport.
func (m *Model) ensureCursorVisible() {
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if m.cursor >= m.scroll+m.viewHeight {
		m.scroll = m.cursor - m.viewHeight + 1
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
}

// Init initializes the TUI model and returns any initial commands to run.
// This is part of the Bubble Tea model interface.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update processes messages and updates the model state accordingly.
// This is part of the Bubble Tea model interface.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewHeight = msg.Height - viewChrome

		if m.viewHeight < minViewHeight {
			m.viewHeight = minViewHeight
		}

		m.ensureCursorVisible()

		return m, nil

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case submitResultMsg:
		if msg.gen != m.session.Generation() {
			// Result of a run the user already abandoned.
			return m, nil
		}

		m.submitting = false
		m.submitErr = msg.err
		m.session.CompleteSubmit(msg.gen, msg.result, msg.err)

		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Text-entry modes swallow most keys.
	if m.searching {
		return m.updateSearch(msg)
	}
	if m.editingName {
		return m.updateNameEdit(msg)
	}

	switch msg.String() {
	case KeyCtrlC:
		return m, tea.Quit

	case "q":
		if m.submitting {
			return m, nil
		}
		return m, tea.Quit
	}

	switch m.session.Step() {
	case wizard.StepSelect:
		return m.updateSelect(msg)
	case wizard.StepReview:
		return m.updateReview(msg)
	case wizard.StepResult:
		return m.updateResult(msg)
	}

	return m, nil
}

// View renders the current screen and returns the string to display.
// This is part of the Bubble Tea model interface.
func (m Model) View() string {
	switch m.session.Step() {
	case wizard.StepSelect:
		return m.viewSelect()
	case wizard.StepReview:
		return m.viewReview()
	case wizard.StepResult:
		return m.viewResult()
	}

	return ""
}
