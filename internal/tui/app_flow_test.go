package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"shelf-cli/internal/backend"
	"shelf-cli/internal/chats"
	"shelf-cli/internal/model"
)

// fakeClient serves canned data and records writes.
type fakeClient struct {
	items   []model.ChatItem
	links   map[string]model.LinkedProject
	lookupE error

	deleteResult model.DeleteResult
	deleted      []model.DeleteRequest

	renamed     map[string]string
	renameErr   error
	renameCalls int
}

func (f *fakeClient) ListChats(_ context.Context, s *model.Session) ([]model.ChatItem, error) {
	if s == nil {
		return nil, nil
	}
	return f.items, nil
}

func (f *fakeClient) LookupLinkedProject(_ context.Context, _ *model.Session, chatID string) (model.LinkedProject, error) {
	if f.lookupE != nil {
		return model.LinkedProject{}, f.lookupE
	}
	if l, ok := f.links[chatID]; ok {
		return l, nil
	}
	return model.LinkedProject{Kind: model.LinkNone}, nil
}

func (f *fakeClient) DeleteChat(_ context.Context, req model.DeleteRequest) model.DeleteResult {
	f.deleted = append(f.deleted, req)
	if f.deleteResult.Kind == "" {
		return model.DeleteOKResult()
	}
	return f.deleteResult
}

func (f *fakeClient) UpdateDescription(_ context.Context, _ *model.Session, chatID, description string) error {
	f.renameCalls++
	if f.renameErr != nil {
		return f.renameErr
	}
	if f.renamed == nil {
		f.renamed = map[string]string{}
	}
	f.renamed[chatID] = description
	return nil
}

var _ backend.Client = (*fakeClient)(nil)

func testSession() *model.Session {
	return &model.Session{ID: "sess-1", Token: "tok-1", CreatedAt: time.Now()}
}

func testItems() []model.ChatItem {
	now := time.Now()
	return []model.ChatItem{
		{InitialID: "c1", Description: "Todo app", CreatedAt: now},
		{InitialID: "c2", Description: "Blog engine", CreatedAt: now.Add(-time.Hour)},
		{InitialID: "c3", Description: "Landing page", CreatedAt: now.AddDate(0, 0, -40)},
	}
}

func newTestModel(t *testing.T, client *fakeClient) appModel {
	t.Helper()
	m := newAppModel(Deps{
		Client:  client,
		Session: testSession(),
		Active:  chats.NewActiveChatStore(),
	})
	m.width = 100
	m.height = 40
	mm, _ := m.Update(chatsLoadedMsg{items: client.items})
	return mm.(appModel)
}

func press(t *testing.T, m appModel, keys ...string) appModel {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		case "backspace":
			msg = tea.KeyMsg{Type: tea.KeyBackspace}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		mm, _ := m.Update(msg)
		m = mm.(appModel)
	}
	return m
}

func selectChat(t *testing.T, m appModel, key string) appModel {
	t.Helper()
	for i, r := range m.rows {
		if !r.isHeader() && r.item.Key() == key {
			m.cursor = i
			return m
		}
	}
	t.Fatalf("chat %q not in rows", key)
	return m
}

func TestLoadBuildsGroupedRows(t *testing.T) {
	fc := &fakeClient{items: testItems()}
	m := newTestModel(t, fc)

	if len(m.rows) == 0 {
		t.Fatalf("expected rows after load")
	}
	if !m.rows[0].isHeader() {
		t.Fatalf("expected first row to be a date header")
	}
	if m.rows[0].header != "Today" {
		t.Fatalf("expected Today header first, got %q", m.rows[0].header)
	}
	if m.rows[m.cursor].isHeader() {
		t.Fatalf("cursor must not rest on a header")
	}
}

func TestSearchFiltersRows(t *testing.T) {
	fc := &fakeClient{items: testItems()}
	m := newTestModel(t, fc)

	m = press(t, m, "/", "b", "l", "o", "g", "enter")

	var found []string
	for _, r := range m.rows {
		if !r.isHeader() {
			found = append(found, r.item.Description)
		}
	}
	if len(found) != 1 || found[0] != "Blog engine" {
		t.Fatalf("expected only Blog engine, got %v", found)
	}

	m = press(t, m, "esc")
	count := 0
	for _, r := range m.rows {
		if !r.isHeader() {
			count++
		}
	}
	if count != 3 {
		t.Fatalf("expected all chats back after clearing search, got %d", count)
	}
}

func TestSearchNoMatchesShowsEmptyState(t *testing.T) {
	fc := &fakeClient{items: testItems()}
	m := newTestModel(t, fc)

	m = press(t, m, "/", "z", "z", "z", "enter")
	if !strings.Contains(m.View(), "No matches found") {
		t.Fatalf("expected no-matches state in view")
	}
}

func TestEmptyListShowsOnboardingHint(t *testing.T) {
	fc := &fakeClient{}
	m := newTestModel(t, fc)
	if !strings.Contains(m.View(), "No projects yet") {
		t.Fatalf("expected empty-state hint in view")
	}
}

func TestDeleteFlow_ConnectedCascade(t *testing.T) {
	fc := &fakeClient{
		items: testItems(),
		links: map[string]model.LinkedProject{
			"c1": {Kind: model.LinkConnected, TeamSlug: "acme", ProjectSlug: "todo"},
		},
	}
	m := newTestModel(t, fc)
	m = selectChat(t, m, "c1")

	m = press(t, m, "d")
	if m.modal != modalConfirmDelete {
		t.Fatalf("expected confirm modal open")
	}
	if m.coord.Link().Kind != model.LinkLoading {
		t.Fatalf("expected link loading right after request")
	}

	link, err := fc.LookupLinkedProject(context.Background(), nil, "c1")
	mm, _ := m.Update(linkResolvedMsg{chatKey: "c1", link: link, err: err})
	m = mm.(appModel)
	if m.coord.Link().Kind != model.LinkConnected {
		t.Fatalf("expected connected link after resolve")
	}

	// tab to the checkbox, toggle it, then on to Delete and confirm.
	m = press(t, m, "tab", "space")
	if !m.coord.AlsoDelete() {
		t.Fatalf("expected cascade checkbox on")
	}
	m = press(t, m, "tab")
	mm, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = mm.(appModel)
	if m.modal != modalNone {
		t.Fatalf("expected modal closed after confirm")
	}
	if cmd == nil {
		t.Fatalf("expected delete command issued")
	}
	settled, ok := cmd().(deleteSettledMsg)
	if !ok {
		t.Fatalf("expected deleteSettledMsg from command")
	}
	mm, _ = m.Update(settled)
	m = mm.(appModel)

	if len(fc.deleted) != 1 {
		t.Fatalf("expected one delete issued, got %d", len(fc.deleted))
	}
	req := fc.deleted[0]
	if req.ChatID != "c1" || !req.AlsoDeleteExternal {
		t.Fatalf("unexpected request: %+v", req)
	}
	if req.TeamSlug != "acme" || req.ProjectSlug != "todo" {
		t.Fatalf("expected project slugs on request, got %+v", req)
	}
}

func TestDeleteFlow_CancelLeavesListAlone(t *testing.T) {
	fc := &fakeClient{items: testItems()}
	m := newTestModel(t, fc)
	m = selectChat(t, m, "c2")

	m = press(t, m, "d", "esc")
	if m.modal != modalNone {
		t.Fatalf("expected modal closed after cancel")
	}
	if len(fc.deleted) != 0 {
		t.Fatalf("cancel must not issue a delete")
	}
	if m.coord.Phase() != chats.PhaseIdle {
		t.Fatalf("expected coordinator idle after cancel")
	}
}

func TestDeleteFlow_NoCheckboxWithoutConnectedProject(t *testing.T) {
	fc := &fakeClient{items: testItems()}
	m := newTestModel(t, fc)
	m = selectChat(t, m, "c2")

	m = press(t, m, "d")
	mm, _ := m.Update(linkResolvedMsg{chatKey: "c2", link: model.LinkedProject{Kind: model.LinkNone}})
	m = mm.(appModel)

	// Focus cycling must skip the checkbox entirely.
	m = press(t, m, "tab", "tab", "space")
	if m.coord.AlsoDelete() {
		t.Fatalf("cascade flag must stay off without a connected project")
	}
	if m.confirmFocus == confirmFocusCheckbox {
		t.Fatalf("focus must not land on hidden checkbox")
	}
}

func TestDeleteFlow_ActiveChatResetsState(t *testing.T) {
	fc := &fakeClient{items: testItems()}
	m := newTestModel(t, fc)
	m = selectChat(t, m, "c1")
	m = press(t, m, "enter") // open c1
	if m.active.ID() != "c1" {
		t.Fatalf("expected c1 active")
	}

	m = press(t, m, "d")
	mm, _ := m.Update(linkResolvedMsg{chatKey: "c1", link: model.LinkedProject{Kind: model.LinkNone}})
	m = mm.(appModel)
	m.confirmFocus = confirmFocusConfirm
	m = press(t, m, "enter")

	mm, _ = m.Update(deleteSettledMsg{result: model.DeleteOKResult()})
	m = mm.(appModel)

	if m.active.ID() != "" {
		t.Fatalf("expected active chat cleared after deleting it")
	}
	if m.editingKey != "" || m.searchFocused {
		t.Fatalf("expected dependent state reset")
	}
}

func TestDeleteFlow_FailureKeepsActiveChat(t *testing.T) {
	fc := &fakeClient{items: testItems()}
	m := newTestModel(t, fc)
	m = selectChat(t, m, "c1")
	m = press(t, m, "enter")

	m = press(t, m, "d")
	mm, _ := m.Update(linkResolvedMsg{chatKey: "c1", link: model.LinkedProject{Kind: model.LinkNone}})
	m = mm.(appModel)
	m.confirmFocus = confirmFocusConfirm
	m = press(t, m, "enter")

	mm, _ = m.Update(deleteSettledMsg{result: model.DeleteErrorResult("server unreachable")})
	m = mm.(appModel)

	if m.active.ID() != "c1" {
		t.Fatalf("failed delete must not clear the active chat")
	}
	if !strings.Contains(m.minibufferText, "server unreachable") {
		t.Fatalf("expected failure notice, got %q", m.minibufferText)
	}
}

func TestDeleteFlow_NoSessionShowsSignInNotice(t *testing.T) {
	fc := &fakeClient{items: testItems()}
	m := newTestModel(t, fc)
	m.session = nil
	m = selectChat(t, m, "c1")

	m = press(t, m, "d")
	m.confirmFocus = confirmFocusConfirm
	m = press(t, m, "enter")

	if len(fc.deleted) != 0 {
		t.Fatalf("no delete may be issued without a session")
	}
	if m.modal != modalNone {
		t.Fatalf("expected modal dismissed")
	}
	if !strings.Contains(m.minibufferText, "Sign in") {
		t.Fatalf("expected sign-in notice, got %q", m.minibufferText)
	}
}

func TestRenameFlow_SubmitPersists(t *testing.T) {
	fc := &fakeClient{items: testItems()}
	m := newTestModel(t, fc)
	m = selectChat(t, m, "c2")

	m = press(t, m, "e")
	if m.editingKey != "c2" {
		t.Fatalf("expected c2 in edit mode, got %q", m.editingKey)
	}
	m.renameInput.SetValue("Blog engine v2")
	m = press(t, m, "enter")

	if m.editingKey != "" {
		t.Fatalf("expected edit mode left after submit")
	}
	if got := fc.renamed["c2"]; got != "Blog engine v2" {
		t.Fatalf("expected persisted rename, got %q", got)
	}
}

func TestRenameFlow_EscapeAbandonsEdit(t *testing.T) {
	fc := &fakeClient{items: testItems()}
	m := newTestModel(t, fc)
	m = selectChat(t, m, "c2")

	m = press(t, m, "e")
	m.renameInput.SetValue("scratch")
	m = press(t, m, "esc")

	if fc.renameCalls != 0 {
		t.Fatalf("abandoned edit must not hit the backend")
	}
	ctrl, ok := m.controllerFor("c2")
	if !ok {
		t.Fatalf("controller missing")
	}
	if got := ctrl.DisplayDescription(); got != "Blog engine" {
		t.Fatalf("expected original description, got %q", got)
	}
}

func TestRenameFlow_ActiveChatSyncsLiveStore(t *testing.T) {
	fc := &fakeClient{items: testItems()}
	m := newTestModel(t, fc)
	m = selectChat(t, m, "c1")
	m = press(t, m, "enter")

	m = press(t, m, "e")
	m = press(t, m, "!")
	if d, ok := m.active.Description(); !ok || !strings.HasSuffix(d, "!") {
		t.Fatalf("expected live store to mirror keystrokes, got %q ok=%v", d, ok)
	}
}

func TestRenameFlow_DeletedChatNotice(t *testing.T) {
	fc := &fakeClient{items: testItems(), renameErr: backend.ErrChatNotFound}
	m := newTestModel(t, fc)
	m = selectChat(t, m, "c2")

	m = press(t, m, "e")
	m.renameInput.SetValue("too late")
	m = press(t, m, "enter")

	if !strings.Contains(m.minibufferText, "no longer exists") {
		t.Fatalf("expected deleted-chat notice, got %q", m.minibufferText)
	}
}

func TestViewShowsCountBadgeAndActiveMarker(t *testing.T) {
	fc := &fakeClient{items: testItems()}
	m := newTestModel(t, fc)
	m = selectChat(t, m, "c1")
	m = press(t, m, "enter")

	v := m.View()
	if !strings.Contains(v, "3 chats") {
		t.Fatalf("expected total count in header")
	}
	if !strings.Contains(v, "Today") {
		t.Fatalf("expected Today bin header")
	}
}
