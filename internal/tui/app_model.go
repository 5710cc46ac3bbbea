package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"go.uber.org/zap"

	"shelf-cli/internal/backend"
	"shelf-cli/internal/chats"
	"shelf-cli/internal/model"
)

type appModel struct {
	client  backend.Client
	session *model.Session
	active  *chats.ActiveChatStore
	coord   *chats.Coordinator
	log     *zap.Logger

	width  int
	height int
	// The very first WindowSizeMsg is initial sizing, not a user resize.
	seenWindowSize bool

	// items is the last list read from the backend; rows is the derived
	// filtered+binned view of it.
	items  []model.ChatItem
	loaded bool
	rows   []row
	cursor int

	searchInput   textinput.Model
	searchFocused bool
	fields        []chats.FieldFn

	// renames holds one controller per visible chat, keyed by chat key.
	// Rebuilt on every list refresh.
	renames     map[string]*chats.RenameController
	renameInput textinput.Model
	// editingKey is the chat whose row is in edit mode, "" when none.
	editingKey string

	modal        modalKind
	confirmFocus confirmModalFocus

	// notices collects messages pushed by the core controllers during a
	// single Update pass; drained into the minibuffer afterwards.
	notices *noticeBuf

	minibufferText string

	// now is injectable for date-binning tests.
	now func() time.Time
}

// noticeBuf survives appModel value copies so the core's notify callbacks
// always reach the live model.
type noticeBuf struct {
	msgs []string
}

func (b *noticeBuf) push(msg string) { b.msgs = append(b.msgs, msg) }

func (b *noticeBuf) drain() (string, bool) {
	if len(b.msgs) == 0 {
		return "", false
	}
	last := b.msgs[len(b.msgs)-1]
	b.msgs = nil
	return last, true
}

// Deps wires the TUI to its collaborators.
type Deps struct {
	Client        backend.Client
	Session       *model.Session
	Active        *chats.ActiveChatStore
	Log           *zap.Logger
	IncludeURLIDs bool
}

func newAppModel(deps Deps) appModel {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Active == nil {
		deps.Active = chats.NewActiveChatStore()
	}
	notices := &noticeBuf{}

	m := appModel{
		client:  deps.Client,
		session: deps.Session,
		active:  deps.Active,
		log:     deps.Log,
		renames: map[string]*chats.RenameController{},
		notices: notices,
		now:     time.Now,
	}
	// The reset runs off the Settle return value inside Update, where the
	// current model value is in hand, so no Reset callback here.
	m.coord = chats.NewCoordinator(chats.CoordinatorConfig{
		Active: deps.Active,
		Notify: notices.push,
	})

	m.fields = []chats.FieldFn{chats.DescriptionField}
	if deps.IncludeURLIDs {
		m.fields = append(m.fields, chats.URLIDField)
	}

	m.searchInput = textinput.New()
	m.searchInput.Placeholder = "Search projects…"
	m.searchInput.CharLimit = 120
	m.searchInput.Width = 32
	m.searchInput.Prompt = "/ "

	m.renameInput = textinput.New()
	m.renameInput.Placeholder = chats.FallbackDescription
	m.renameInput.CharLimit = 200
	m.renameInput.Width = 48

	return m
}

// refreshRows rebuilds the filtered, date-binned row slice and the rename
// controllers, keeping the cursor on the same chat when possible.
func (m *appModel) refreshRows() {
	var selectedKey string
	if it, ok := m.selectedItem(); ok {
		selectedKey = it.Key()
	}

	filtered := chats.Filter(m.items, m.searchInput.Value(), m.fields...)
	bins := chats.BinByDate(filtered, m.now())

	m.rows = m.rows[:0]
	for _, b := range bins {
		m.rows = append(m.rows, row{header: b.Category, count: len(b.Items)})
		for i := range b.Items {
			it := b.Items[i]
			m.rows = append(m.rows, row{item: &it})
		}
	}

	prev := m.renames
	m.renames = make(map[string]*chats.RenameController, len(filtered))
	for _, it := range filtered {
		key := it.Key()
		if c, ok := prev[key]; ok {
			c.SetLatest(it.Description)
			m.renames[key] = c
			continue
		}
		m.renames[key] = chats.NewRenameController(chats.RenameConfig{
			Item:    it,
			Active:  m.active,
			Persist: m.persistDescription,
			Notify:  m.notices.push,
		})
	}
	if m.editingKey != "" {
		if _, ok := m.renames[m.editingKey]; !ok {
			// The row being edited filtered out or disappeared.
			m.editingKey = ""
			m.renameInput.Blur()
		}
	}

	m.cursor = 0
	if selectedKey != "" {
		for i, r := range m.rows {
			if !r.isHeader() && r.item.Key() == selectedKey {
				m.cursor = i
				break
			}
		}
	}
	m.clampCursor()
}

func (m *appModel) clampCursor() {
	if len(m.rows) == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	// Never rest on a header.
	if m.rows[m.cursor].isHeader() {
		for i := m.cursor + 1; i < len(m.rows); i++ {
			if !m.rows[i].isHeader() {
				m.cursor = i
				return
			}
		}
		for i := m.cursor - 1; i >= 0; i-- {
			if !m.rows[i].isHeader() {
				m.cursor = i
				return
			}
		}
	}
}

func (m *appModel) moveCursor(delta int) {
	if len(m.rows) == 0 {
		return
	}
	i := m.cursor
	for {
		i += delta
		if i < 0 || i >= len(m.rows) {
			return
		}
		if !m.rows[i].isHeader() {
			m.cursor = i
			return
		}
	}
}

func (m *appModel) selectedItem() (model.ChatItem, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return model.ChatItem{}, false
	}
	r := m.rows[m.cursor]
	if r.isHeader() {
		return model.ChatItem{}, false
	}
	return *r.item, true
}

func (m *appModel) controllerFor(key string) (*chats.RenameController, bool) {
	c, ok := m.renames[strings.TrimSpace(key)]
	return c, ok
}

func (m *appModel) showMinibuffer(text string) {
	m.minibufferText = text
}

// drainNotices moves core-controller notices into the minibuffer.
func (m *appModel) drainNotices() {
	if msg, ok := m.notices.drain(); ok {
		m.minibufferText = msg
	}
}
