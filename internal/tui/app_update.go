package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"shelf-cli/internal/model"
)

func (m appModel) Init() tea.Cmd {
	return m.loadChats()
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.searchInput.Width = max(20, min(60, msg.Width-6))
		if !m.seenWindowSize {
			m.seenWindowSize = true
		}
		return m, nil

	case chatsLoadedMsg:
		m.loaded = true
		if msg.err != nil {
			m.log.Warn("list chats failed", zap.Error(msg.err))
			m.showMinibuffer("Could not load chats: " + msg.err.Error())
			return m, nil
		}
		m.items = msg.items
		m.refreshRows()
		return m, nil

	case linkResolvedMsg:
		if msg.err != nil {
			m.log.Warn("linked project lookup failed",
				zap.String("chat", msg.chatKey), zap.Error(msg.err))
		}
		m.coord.ResolveLink(msg.chatKey, msg.link, msg.err)
		return m, nil

	case deleteSettledMsg:
		s := m.coord.Settle(msg.result)
		m.drainNotices()
		if s.Failed {
			// Chat stays listed; the notification already carries the error.
			return m, nil
		}
		if s.ActiveDeleted {
			// The open chat is gone; drop every piece of state that hung
			// off it rather than patching around the hole.
			m.resetAfterActiveDelete()
		}
		m.showMinibuffer("Chat deleted")
		return m, m.loadChats()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// resetAfterActiveDelete discards all state dependent on the open chat.
func (m *appModel) resetAfterActiveDelete() {
	m.editingKey = ""
	m.renameInput.Blur()
	m.renameInput.SetValue("")
	m.searchFocused = false
	m.searchInput.Blur()
	m.searchInput.SetValue("")
	m.cursor = 0
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modal traps all input while open.
	if m.modal == modalConfirmDelete {
		return m.handleConfirmModalKey(msg)
	}
	if m.editingKey != "" {
		return m.handleRenameKey(msg)
	}
	if m.searchFocused {
		return m.handleSearchKey(msg)
	}
	return m.handleListKey(msg)
}

func (m appModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "/":
		m.searchFocused = true
		m.searchInput.Focus()
		return m, nil

	case "j", "down":
		m.moveCursor(1)
		return m, nil

	case "k", "up":
		m.moveCursor(-1)
		return m, nil

	case "g", "home":
		m.cursor = 0
		m.clampCursor()
		return m, nil

	case "G", "end":
		m.cursor = len(m.rows) - 1
		m.clampCursor()
		return m, nil

	case "enter":
		it, ok := m.selectedItem()
		if !ok {
			return m, nil
		}
		m.active.Set(it.Key(), it.Description)
		m.showMinibuffer("Opened: " + displayName(it.Description))
		return m, nil

	case "e":
		it, ok := m.selectedItem()
		if !ok {
			return m, nil
		}
		ctrl, ok := m.controllerFor(it.Key())
		if !ok {
			return m, nil
		}
		ctrl.ToggleEditMode()
		if ctrl.Editing() {
			m.editingKey = it.Key()
			m.renameInput.SetValue(ctrl.Buffer())
			m.renameInput.CursorEnd()
			m.renameInput.Focus()
		}
		return m, nil

	case "d":
		it, ok := m.selectedItem()
		if !ok {
			return m, nil
		}
		if !m.coord.RequestDelete(it) {
			return m, nil
		}
		m.modal = modalConfirmDelete
		m.confirmFocus = confirmFocusCancel
		return m, m.lookupLink(it.Key())

	case "R":
		return m, m.loadChats()

	case "esc":
		if m.searchInput.Value() != "" {
			m.searchInput.SetValue("")
			m.refreshRows()
			return m, nil
		}
		m.minibufferText = ""
		return m, nil
	}
	return m, nil
}

func (m appModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchFocused = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.refreshRows()
		return m, nil
	case "enter":
		m.searchFocused = false
		m.searchInput.Blur()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	before := m.searchInput.Value()
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() != before {
		m.refreshRows()
	}
	return m, cmd
}

func (m appModel) handleRenameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctrl, ok := m.controllerFor(m.editingKey)
	if !ok {
		m.editingKey = ""
		m.renameInput.Blur()
		return m, nil
	}

	switch msg.String() {
	case "esc":
		ctrl.ToggleEditMode()
		m.editingKey = ""
		m.renameInput.Blur()
		m.renameInput.SetValue("")
		m.drainNotices()
		return m, nil
	case "enter":
		ctrl.HandleChange(m.renameInput.Value())
		ctrl.HandleSubmit()
		m.editingKey = ""
		m.renameInput.Blur()
		m.renameInput.SetValue("")
		m.drainNotices()
		return m, m.loadChats()
	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.renameInput, cmd = m.renameInput.Update(msg)
	ctrl.HandleChange(m.renameInput.Value())
	return m, cmd
}

func (m appModel) handleConfirmModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.coord.Cancel()
		m.modal = modalNone
		return m, nil

	case "tab", "shift+tab", "left", "right":
		m.confirmFocus = m.nextConfirmFocus(msg.String() == "shift+tab" || msg.String() == "left")
		return m, nil

	case " ":
		if m.confirmFocus == confirmFocusCheckbox {
			m.coord.ToggleAlsoDelete()
		}
		return m, nil

	case "enter":
		switch m.confirmFocus {
		case confirmFocusCheckbox:
			m.coord.ToggleAlsoDelete()
			return m, nil
		case confirmFocusCancel:
			m.coord.Cancel()
			m.modal = modalNone
			return m, nil
		case confirmFocusConfirm:
			req, ok := m.coord.Confirm(m.session)
			if !ok {
				m.coord.Cancel()
				m.modal = modalNone
				m.showMinibuffer("Sign in to delete chats")
				return m, nil
			}
			m.modal = modalNone
			m.showMinibuffer("Deleting…")
			return m, m.issueDelete(req)
		}

	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// nextConfirmFocus cycles Confirm → Cancel → Checkbox, skipping the
// checkbox while the chat has no connected project.
func (m appModel) nextConfirmFocus(backwards bool) confirmModalFocus {
	order := []confirmModalFocus{confirmFocusConfirm, confirmFocusCancel}
	if m.coord.Link().Kind == model.LinkConnected {
		order = append(order, confirmFocusCheckbox)
	}
	cur := 0
	for i, f := range order {
		if f == m.confirmFocus {
			cur = i
			break
		}
	}
	step := 1
	if backwards {
		step = len(order) - 1
	}
	return order[(cur+step)%len(order)]
}
