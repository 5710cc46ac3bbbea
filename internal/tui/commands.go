package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"shelf-cli/internal/model"
)

const backendTimeout = 10 * time.Second

func (m appModel) loadChats() tea.Cmd {
	client := m.client
	session := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), backendTimeout)
		defer cancel()
		items, err := client.ListChats(ctx, session)
		return chatsLoadedMsg{items: items, err: err}
	}
}

func (m appModel) lookupLink(chatKey string) tea.Cmd {
	client := m.client
	session := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), backendTimeout)
		defer cancel()
		link, err := client.LookupLinkedProject(ctx, session, chatKey)
		return linkResolvedMsg{chatKey: chatKey, link: link, err: err}
	}
}

func (m appModel) issueDelete(req model.DeleteRequest) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), backendTimeout)
		defer cancel()
		return deleteSettledMsg{result: client.DeleteChat(ctx, req)}
	}
}

// persistDescription is the rename controllers' write path. Renames are
// small local writes; they run inline rather than through a tea.Cmd.
func (m *appModel) persistDescription(chatID, description string) error {
	ctx, cancel := context.WithTimeout(context.Background(), backendTimeout)
	defer cancel()
	return m.client.UpdateDescription(ctx, m.session, chatID, description)
}
