package tui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/curatorlabs/curator/internal/tree"
)

func (m Model) updateSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.statusMsg = ""

	switch msg.String() {
	case KeyUp, "k":
		if m.cursor > 0 {
			m.cursor--
			m.ensureCursorVisible()
		}

	case KeyDown, "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.ensureCursorVisible()
		}

	case "g":
		m.cursor = 0
		m.scroll = 0

	case "G":
		if len(m.rows) > 0 {
			m.cursor = len(m.rows) - 1
			m.ensureCursorVisible()
		}

	case KeySpace, "x":
		if m.cursor >= len(m.rows) {
			break
		}
		node := m.rows[m.cursor].Node
		if node.Disabled {
			m.statusMsg = node.DisabledReason
			break
		}
		m.selection = m.selection.Toggle(node.Path)
		m.notifySelection()
		m.rebuildTree()

	case KeyEnter, KeyRight, "l":
		if m.cursor >= len(m.rows) {
			break
		}
		node := m.rows[m.cursor].Node
		if len(node.Children) > 0 && !node.Expanded {
			m.expanded[node.Path] = true
			m.rebuildTree()
		}

	case KeyLeft, "h":
		if m.cursor >= len(m.rows) {
			break
		}
		node := m.rows[m.cursor].Node
		if len(node.Children) > 0 && node.Expanded {
			m.expanded[node.Path] = false
			m.rebuildTree()
			break
		}
		// Collapsed or leaf node: jump to the parent row.
		depth := m.rows[m.cursor].Depth
		for i := m.cursor - 1; i >= 0; i-- {
			if m.rows[i].Depth < depth {
				m.cursor = i
				m.ensureCursorVisible()
				break
			}
		}

	case "/":
		m.searching = true
		m.searchInput.SetValue(m.query)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()

	case KeyEsc:
		if m.query != "" {
			m.query = ""
			m.searchInput.SetValue("")
			m.rebuildTree()
		}

	case "c":
		if err := m.session.BeginReview(m.selection.Selected()); err != nil {
			m.statusMsg = "select at least one folder to continue"
			break
		}
		m.reviewCursor = 0
		m.submitErr = nil
	}

	return m, nil
}

// updateSearch handles keys while the filter input is focused. The filter
// applies live on every keystroke.
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyEnter:
		m.searching = false
		m.searchInput.Blur()
		return m, nil

	case KeyEsc:
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.query = ""
		m.rebuildTree()
		return m, nil

	case KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	if q := m.searchInput.Value(); q != m.query {
		m.query = q
		m.rebuildTree()
	}

	return m, cmd
}

func (m Model) viewSelect() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("󰉋  Select folders"))
	b.WriteString("\n\n")

	status := fmt.Sprintf("%d selected · %d folders", m.selection.Len(), m.opts.Snapshot.Len())
	if !m.opts.LastSync.IsZero() {
		status += " · synced " + humanize.Time(m.opts.LastSync)
	}
	b.WriteString(SubtitleStyle.Render(status))
	b.WriteString("\n")

	if m.searching || m.query != "" {
		b.WriteString("filter: " + m.searchInput.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.opts.Snapshot.Len() == 0:
		b.WriteString(WarningStyle.Render("No folders in inventory. Run `curator sync` first."))
		b.WriteString("\n")
	case len(m.rows) == 0:
		b.WriteString(SubtitleStyle.Render(fmt.Sprintf("no folders match %q", m.query)))
		b.WriteString("\n")
	default:
		m.writeTreeRows(&b)
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(WarningStyle.Render(m.statusMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(RenderHelp(
		"space", "toggle",
		"l/h", "expand/collapse",
		"/", "filter",
		"c", "continue",
		"q", "quit",
	))

	return BaseStyle.Render(b.String())
}

func (m Model) writeTreeRows(b *strings.Builder) {
	start, end := tree.VisibleRange(m.scroll, m.viewHeight, len(m.rows))

	if start > 0 {
		b.WriteString(CountStyle.Render(fmt.Sprintf("  ↑ %d more", start)))
		b.WriteString("\n")
	}

	for i := start; i < end; i++ {
		row := m.rows[i]
		node := row.Node

		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		marker := MarkerLeaf
		if len(node.Children) > 0 {
			marker = MarkerCollapsed
			if node.Expanded {
				marker = MarkerExpanded
			}
		}

		checkbox := renderCheckbox(node)

		nameStyle := ListItemStyle
		switch {
		case i == m.cursor:
			nameStyle = SelectedListItemStyle
		case node.Disabled:
			nameStyle = DisabledListItemStyle
		}

		line := fmt.Sprintf("%s%s%s %s %s",
			cursor,
			strings.Repeat(IndentSpaces, row.Depth),
			marker,
			checkbox,
			nameStyle.Render(node.Name),
		)

		if node.HasRecord {
			line += " " + CountStyle.Render(fmt.Sprintf("(%d objects, %s)",
				node.ObjectCount, humanize.Bytes(uint64(node.TotalSize))))
		}
		if node.Mapped {
			line += MappedBadgeStyle.Render("mapped")
		}

		b.WriteString(line)
		b.WriteString("\n")

		if i == m.cursor && node.Disabled {
			b.WriteString("      " + SubtitleStyle.Render(node.DisabledReason))
			b.WriteString("\n")
		}
	}

	if end < len(m.rows) {
		b.WriteString(CountStyle.Render(fmt.Sprintf("  ↓ %d more", len(m.rows)-end)))
		b.WriteString("\n")
	}
}

func renderCheckbox(node *tree.Node) string {
	switch {
	case node.Mapped:
		return UncheckedStyle.Render(CheckboxMapped)
	case node.Selected:
		return CheckedStyle.Render(CheckboxChecked)
	default:
		return UncheckedStyle.Render(CheckboxUnchecked)
	}
}
