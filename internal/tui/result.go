package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/curatorlabs/curator/internal/selection"
)

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyEnter, "n":
		// Start a fresh run. Newly created collections make their folders
		// mapped, so the selection engine is rebuilt from scratch.
		m.session.Reset()
		m.selection = selection.New(m.mappedAfterResult(), nil)
		m.notifySelection()
		m.cursor = 0
		m.scroll = 0
		m.reviewCursor = 0
		m.submitErr = nil
		m.rebuildTree()
	}

	return m, nil
}

// mappedAfterResult returns the mapped paths including folders whose
// collections were just created, so they show as mapped without a re-sync.
func (m Model) mappedAfterResult() []string {
	mapped := m.opts.Snapshot.MappedPaths()

	res := m.session.Result()
	if res == nil {
		return mapped
	}

	byGUID := make(map[string]string, m.opts.Snapshot.Len())
	for _, f := range m.opts.Snapshot.Folders() {
		byGUID[f.GUID] = f.Path
	}

	for _, c := range res.Created {
		if path, ok := byGUID[c.FolderGUID]; ok {
			mapped = append(mapped, path)
		}
	}

	return mapped
}

func (m Model) viewResult() string {
	var b strings.Builder

	res := m.session.Result()

	b.WriteString(TitleStyle.Render("󰄬  Results"))
	b.WriteString("\n\n")

	if res == nil {
		b.WriteString(SubtitleStyle.Render("no results"))
		b.WriteString("\n")
		return BaseStyle.Render(b.String())
	}

	summary := fmt.Sprintf("%d created", len(res.Created))
	if len(res.Errors) > 0 {
		summary += fmt.Sprintf(", %d failed", len(res.Errors))
	}
	b.WriteString(SubtitleStyle.Render(summary))
	b.WriteString("\n\n")

	if len(res.Created) > 0 {
		b.WriteString(SuccessStyle.Render("Created"))
		b.WriteString("\n")
		for _, c := range res.Created {
			b.WriteString(fmt.Sprintf("  ✓ %s %s\n", c.Name, CountStyle.Render(c.CollectionGUID)))
		}
	}

	if len(res.Errors) > 0 {
		if len(res.Created) > 0 {
			b.WriteString("\n")
		}
		b.WriteString(ErrorStyle.Render("Failed"))
		b.WriteString("\n")
		for _, e := range res.Errors {
			path := e.FolderGUID
			if f, ok := m.folderByGUID(e.FolderGUID); ok {
				path = f
			}
			b.WriteString(fmt.Sprintf("  ✗ %s %s\n", path, ErrorStyle.Render(e.Message)))
		}
	}

	b.WriteString("\n")
	b.WriteString(RenderHelp(
		"enter", "new selection",
		"q", "quit",
	))

	return BaseStyle.Render(b.String())
}

func (m Model) folderByGUID(guid string) (string, bool) {
	for _, f := range m.opts.Snapshot.Folders() {
		if f.GUID == guid {
			return f.Path, true
		}
	}
	return "", false
}
