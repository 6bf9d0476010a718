package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/curatorlabs/curator/internal/api"
)

const submitTimeout = time.Minute

func (m Model) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.submitting {
		// No edits while a batch is in flight.
		return m, nil
	}

	drafts := m.session.Drafts()

	switch msg.String() {
	case KeyUp, "k":
		if m.reviewCursor > 0 {
			m.reviewCursor--
		}

	case KeyDown, "j":
		if m.reviewCursor < len(drafts)-1 {
			m.reviewCursor++
		}

	case "e":
		if m.reviewCursor < len(drafts) {
			m.editingName = true
			m.nameInput.SetValue(drafts[m.reviewCursor].Name)
			m.nameInput.CursorEnd()
			return m, m.nameInput.Focus()
		}

	case "s":
		if m.reviewCursor < len(drafts) {
			m.session.SetState(m.reviewCursor, drafts[m.reviewCursor].State.Next())
		}

	case "S":
		if m.reviewCursor < len(drafts) {
			m.session.ApplyBatchState(drafts[m.reviewCursor].State)
		}

	case KeyEnter:
		return m.startSubmit()

	case KeyEsc, "b":
		m.session.Back()
		m.submitErr = nil
		m.rebuildTree()
	}

	return m, nil
}

// updateNameEdit handles keys while a draft name is being edited.
func (m Model) updateNameEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyEnter:
		m.session.SetName(m.reviewCursor, strings.TrimSpace(m.nameInput.Value()))
		m.editingName = false
		m.nameInput.Blur()
		return m, nil

	case KeyEsc:
		m.editingName = false
		m.nameInput.Blur()
		return m, nil

	case KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)

	return m, cmd
}

func (m Model) startSubmit() (tea.Model, tea.Cmd) {
	mappings, err := m.session.Mappings()
	if err != nil {
		m.statusMsg = "fix invalid names before submitting"
		return m, nil
	}

	m.submitting = true
	m.submitErr = nil
	m.statusMsg = ""

	gen := m.session.Generation()
	creator := m.opts.Creator
	connector := m.opts.Connector

	submit := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()

		result, err := creator.CreateCollections(ctx, connector, mappings)

		return submitResultMsg{gen: gen, result: result, err: err}
	}

	return m, tea.Batch(m.spin.Tick, submit)
}

func (m Model) viewReview() string {
	var b strings.Builder

	drafts := m.session.Drafts()

	b.WriteString(TitleStyle.Render("󰈙  Review collections"))
	b.WriteString("\n\n")
	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("%d collections to create", len(drafts))))
	b.WriteString("\n\n")

	for i, d := range drafts {
		cursor := "  "
		if i == m.reviewCursor {
			cursor = "> "
		}

		nameStyle := ListItemStyle
		if i == m.reviewCursor {
			nameStyle = SelectedListItemStyle
		}

		name := d.Name
		if m.editingName && i == m.reviewCursor {
			name = m.nameInput.View()
		} else {
			name = nameStyle.Render(name)
		}

		line := fmt.Sprintf("%s%s%s  %s",
			cursor, name, renderStateBadge(d.State),
			CountStyle.Render(d.FolderPath))
		b.WriteString(line)
		b.WriteString("\n")

		if d.ValidationErr != nil {
			b.WriteString("    " + ErrorStyle.Render(d.ValidationErr.Error()))
			b.WriteString("\n")
		}
	}

	if m.submitting {
		b.WriteString("\n")
		b.WriteString(m.spin.View() + " creating collections...")
		b.WriteString("\n")
	}

	if m.submitErr != nil {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render("submission failed: " + m.submitErr.Error()))
		b.WriteString("\n")
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(WarningStyle.Render(m.statusMsg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(RenderHelp(
		"e", "edit name",
		"s/S", "state/all states",
		"enter", "create",
		"esc", "back",
		"q", "quit",
	))

	return BaseStyle.Render(b.String())
}

func renderStateBadge(state api.CollectionState) string {
	switch state {
	case api.StateLive:
		return StateBadgeLiveStyle.Render("live")
	case api.StateArchived:
		return StateBadgeArchivedStyle.Render("archived")
	case api.StateClosed:
		return StateBadgeClosedStyle.Render("closed")
	}

	return ""
}
