package chats

import (
	"strings"

	"shelf-cli/internal/model"
)

// DeletePhase is the lifecycle of one delete attempt.
type DeletePhase int

const (
	PhaseIdle DeletePhase = iota
	PhaseConfirming
	PhaseDeleting
)

// Settlement reports what a finished delete did.
type Settlement struct {
	// ActiveDeleted is true when the removed chat was the one currently
	// open; the owner must run its full state reset.
	ActiveDeleted bool
	Failed        bool
	Err           string
}

// Coordinator owns the confirm → execute → settle lifecycle for removing
// one chat, including the linked-external-project decision. It is driven
// from a single goroutine (the UI event loop); asynchronous lookup and
// delete results are fed back in via ResolveLink and Settle.
type Coordinator struct {
	active *ActiveChatStore
	// reset runs the owner's full state reset when the active chat was
	// deleted. Patching the active chat's dependent state incrementally
	// is not safe, so settlement goes through this instead.
	reset  func()
	notify func(msg string)

	phase      DeletePhase
	item       model.ChatItem
	link       model.LinkedProject
	alsoDelete bool
	// deletingKey survives dialog close so a late settlement can still
	// match against the active chat.
	deletingKey string
}

type CoordinatorConfig struct {
	Active *ActiveChatStore
	Reset  func()
	Notify func(msg string)
}

func NewCoordinator(cfg CoordinatorConfig) *Coordinator {
	c := &Coordinator{
		active: cfg.Active,
		reset:  cfg.Reset,
		notify: cfg.Notify,
	}
	if c.reset == nil {
		c.reset = func() {}
	}
	if c.notify == nil {
		c.notify = func(string) {}
	}
	return c
}

func (c *Coordinator) Phase() DeletePhase { return c.phase }

// Dialog returns the chat the confirm dialog is open for.
func (c *Coordinator) Dialog() (model.ChatItem, bool) {
	if c.phase != PhaseConfirming {
		return model.ChatItem{}, false
	}
	return c.item, true
}

// Link is the lookup state for the current confirmation. Kind is
// LinkLoading until ResolveLink is called.
func (c *Coordinator) Link() model.LinkedProject { return c.link }

func (c *Coordinator) AlsoDelete() bool { return c.alsoDelete }

// RequestDelete opens the confirm dialog for item. The caller must start
// the linked-project lookup for item.Key() and deliver the result via
// ResolveLink; the dialog shows a loading state until then. Ignored while
// a delete is already confirming or in flight.
func (c *Coordinator) RequestDelete(item model.ChatItem) bool {
	if c.phase != PhaseIdle {
		return false
	}
	c.phase = PhaseConfirming
	c.item = item
	c.link = model.LinkedProject{Kind: model.LinkLoading}
	c.alsoDelete = false
	return true
}

// ResolveLink records the lookup result for the chat with the given key.
// Stale resolutions (different chat, or dialog already gone) are dropped.
// A lookup error degrades to "not connected" rather than blocking the
// delete flow.
func (c *Coordinator) ResolveLink(chatKey string, link model.LinkedProject, err error) {
	if c.phase != PhaseConfirming || strings.TrimSpace(chatKey) != c.item.Key() {
		return
	}
	if err != nil || link.Kind == "" {
		c.link = model.LinkedProject{Kind: model.LinkNone}
		c.alsoDelete = false
		return
	}
	c.link = link
	if link.Kind != model.LinkConnected {
		c.alsoDelete = false
	}
}

// ToggleAlsoDelete flips the cascade checkbox. Only meaningful once the
// lookup resolved to a connected project; otherwise it stays false.
func (c *Coordinator) ToggleAlsoDelete() {
	if c.phase != PhaseConfirming || c.link.Kind != model.LinkConnected {
		c.alsoDelete = false
		return
	}
	c.alsoDelete = !c.alsoDelete
}

// Confirm closes the dialog and builds the single delete request. Returns
// ok=false with no state change when there is no session or token (the UI
// should not normally let this happen) or when nothing is confirming.
// The cascade flag is sent true only when the resolved link kind was
// connected at this moment, regardless of checkbox timing.
func (c *Coordinator) Confirm(session *model.Session) (model.DeleteRequest, bool) {
	if c.phase != PhaseConfirming {
		return model.DeleteRequest{}, false
	}
	if session == nil || strings.TrimSpace(session.Token) == "" {
		return model.DeleteRequest{}, false
	}
	req := model.DeleteRequest{
		ChatID:    c.item.Key(),
		SessionID: session.ID,
		AuthToken: session.Token,
	}
	if c.link.Kind == model.LinkConnected {
		req.TeamSlug = c.link.TeamSlug
		req.ProjectSlug = c.link.ProjectSlug
		req.AlsoDeleteExternal = c.alsoDelete
	}
	c.phase = PhaseDeleting
	c.deletingKey = c.item.Key()
	c.item = model.ChatItem{}
	c.link = model.LinkedProject{}
	c.alsoDelete = false
	return req, true
}

// Cancel closes the dialog with no remote effect.
func (c *Coordinator) Cancel() {
	if c.phase != PhaseConfirming {
		return
	}
	c.phase = PhaseIdle
	c.item = model.ChatItem{}
	c.link = model.LinkedProject{}
	c.alsoDelete = false
}

// Settle applies the result of the issued delete. The dialog is long
// closed by now; settlement still runs even so. Deleting the active chat
// clears the active store and triggers the full reset; failures surface
// as a notification and the chat stays in the list until the next read.
func (c *Coordinator) Settle(result model.DeleteResult) Settlement {
	if c.phase != PhaseDeleting {
		return Settlement{}
	}
	key := c.deletingKey
	c.phase = PhaseIdle
	c.deletingKey = ""

	if result.Kind == model.DeleteError {
		msg := strings.TrimSpace(result.Error)
		if msg == "" {
			msg = "Failed to delete chat"
		}
		c.notify(msg)
		return Settlement{Failed: true, Err: msg}
	}
	if c.active != nil && key != "" && c.active.ID() == key {
		c.active.Clear()
		c.reset()
		return Settlement{ActiveDeleted: true}
	}
	return Settlement{}
}
