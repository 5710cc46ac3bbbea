package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"shelf-cli/internal/model"
)

// modalBodyWidth is the usable inner width for modal content given the
// terminal width.
func modalBodyWidth(termWidth int) int {
	w := termWidth - 10
	if w > 64 {
		w = 64
	}
	if w < 30 {
		w = 30
	}
	return w
}

func renderModalBox(termWidth int, title, content string) string {
	w := modalBodyWidth(termWidth)
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Background(colorSurfaceBg).
		Foreground(colorSurfaceFg).
		Padding(1, 2).
		Width(w)
	head := styleHeader().Render(title)
	return box.Render(head + "\n\n" + content)
}

func (m appModel) renderConfirmModal() string {
	item, ok := m.coord.Dialog()
	if !ok {
		return ""
	}
	link := m.coord.Link()
	w := modalBodyWidth(m.width)

	var b strings.Builder
	b.WriteString(xansi.Wordwrap(
		"Delete "+displayName(item.Description)+"? This cannot be undone.", w-2, " "))
	b.WriteString("\n")

	switch link.Kind {
	case model.LinkLoading:
		b.WriteString("\n" + styleMuted().Render("Checking for a connected project…") + "\n")
	case model.LinkConnected:
		b.WriteString("\n" + m.renderCascadeCheckbox(link) + "\n")
	}

	b.WriteString("\n" + m.renderConfirmButtons())
	b.WriteString("\n\n" + styleMuted().Render("tab: move  space: toggle  enter: choose  esc: cancel"))
	return renderModalBox(m.width, "Delete chat", b.String())
}

func (m appModel) renderCascadeCheckbox(link model.LinkedProject) string {
	mark := "[ ]"
	if m.coord.AlsoDelete() {
		mark = "[x]"
	}
	label := mark + " Also delete project " + linkLabel(link)
	if m.confirmFocus == confirmFocusCheckbox {
		return lipgloss.NewStyle().
			Background(colorSelectedBg).
			Foreground(colorSelectedFg).
			Render(label)
	}
	return label
}

func (m appModel) renderConfirmButtons() string {
	render := func(label string, focused bool, danger bool) string {
		st := lipgloss.NewStyle().Padding(0, 2).Background(colorControlBg)
		if danger {
			st = st.Foreground(colorDanger)
		}
		if focused {
			st = st.Background(colorSelectedBg).Foreground(colorSelectedFg).Bold(true)
			if danger {
				st = st.Foreground(colorDanger)
			}
		}
		return st.Render(label)
	}
	del := render("Delete", m.confirmFocus == confirmFocusConfirm, true)
	cancel := render("Cancel", m.confirmFocus == confirmFocusCancel, false)
	return del + "  " + cancel
}
