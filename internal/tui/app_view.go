package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"shelf-cli/internal/chats"
	"shelf-cli/internal/model"
)

func (m appModel) View() string {
	if m.modal == modalConfirmDelete {
		return m.placeCentered(m.renderConfirmModal())
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderSearchLine())
	b.WriteString("\n\n")
	b.WriteString(m.renderList())
	b.WriteString("\n")
	if m.minibufferText != "" {
		b.WriteString("\n" + m.minibufferText + "\n")
	}
	b.WriteString("\n" + m.renderHelp())
	return b.String()
}

func (m appModel) renderHeader() string {
	total := len(m.items)
	label := "chats"
	if total == 1 {
		label = "chat"
	}
	title := styleHeader().Render("Your Chats")
	count := styleMuted().Render(fmt.Sprintf("%d %s", total, label))
	return title + "  " + count
}

func (m appModel) renderSearchLine() string {
	if m.searchFocused {
		return m.searchInput.View()
	}
	if q := m.searchInput.Value(); q != "" {
		return styleMuted().Render("/ ") + q
	}
	return styleMuted().Render("/ to search")
}

func (m appModel) renderList() string {
	if !m.loaded {
		return styleMuted().Render("Loading…")
	}
	if len(m.items) == 0 {
		return styleMuted().Render("No projects yet. Run `shelf new` to start one.")
	}
	if len(m.rows) == 0 {
		return styleMuted().Render("No matches found")
	}

	activeID := m.active.ID()
	var b strings.Builder
	for i, r := range m.rows {
		if r.isHeader() {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(m.renderBinHeader(r))
			b.WriteString("\n")
			continue
		}
		b.WriteString(m.renderChatRow(r, i == m.cursor, activeID))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m appModel) renderBinHeader(r row) string {
	badge := fmt.Sprintf(" (%d)", r.count)
	return styleHeader().Render(r.header) + styleMuted().Render(badge)
}

func (m appModel) renderChatRow(r row, selected bool, activeID string) string {
	it := *r.item
	key := it.Key()

	var text string
	if m.editingKey == key {
		text = m.renameInput.View()
	} else if ctrl, ok := m.renames[key]; ok {
		text = ctrl.DisplayDescription()
	} else {
		text = displayName(it.Description)
	}

	marker := "  "
	if activeID != "" && activeID == key {
		marker = styleAccent().Render("• ")
	}

	line := marker + text
	if it.URLID != "" {
		line += "  " + styleMuted().Render(it.URLID)
	}
	if m.width > 4 {
		line = truncateWithEllipsis(line, m.width-4)
	}

	if selected && m.editingKey != key {
		return lipgloss.NewStyle().
			Background(colorSelectedBg).
			Foreground(colorSelectedFg).
			Render("▌" + line)
	}
	return " " + line
}

func (m appModel) renderHelp() string {
	return styleMuted().Render("enter: open  e: rename  d: delete  /: search  R: reload  q: quit")
}

func (m appModel) placeCentered(s string) string {
	if m.width <= 0 || m.height <= 0 {
		return s
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s)
}

func truncateWithEllipsis(s string, w int) string {
	if w <= 1 || xansi.StringWidth(s) <= w {
		return s
	}
	return xansi.Cut(s, 0, w-1) + "…"
}

func displayName(description string) string {
	if d := strings.TrimSpace(description); d != "" {
		return d
	}
	return chats.FallbackDescription
}

func linkLabel(link model.LinkedProject) string {
	if link.Kind != model.LinkConnected {
		return ""
	}
	return link.TeamSlug + "/" + link.ProjectSlug
}
