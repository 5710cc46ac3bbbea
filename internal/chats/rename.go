package chats

import (
	"errors"
	"strings"

	"shelf-cli/internal/backend"
	"shelf-cli/internal/model"
)

// FallbackDescription is shown for chats that never got a description
// (chats normally take one from their first message).
const FallbackDescription = "New chat…"

// RenameController manages the view/edit toggle and text buffer for one
// list row. Controllers live as long as the row is shown and are
// recreated when the list reloads.
type RenameController struct {
	item   model.ChatItem
	active *ActiveChatStore
	// persist writes the new description to the backend. Returns
	// backend.ErrChatNotFound when the chat was deleted meanwhile; the
	// delete wins and the rename becomes a no-op.
	persist func(chatID, description string) error
	notify  func(msg string)

	editing bool
	buffer  string
	// latest is the last description known to be persisted.
	latest string
}

type RenameConfig struct {
	Item    model.ChatItem
	Active  *ActiveChatStore
	Persist func(chatID, description string) error
	Notify  func(msg string)
}

func NewRenameController(cfg RenameConfig) *RenameController {
	c := &RenameController{
		item:    cfg.Item,
		active:  cfg.Active,
		persist: cfg.Persist,
		notify:  cfg.Notify,
		latest:  cfg.Item.Description,
	}
	if c.notify == nil {
		c.notify = func(string) {}
	}
	return c
}

func (c *RenameController) Editing() bool { return c.editing }

func (c *RenameController) Buffer() string { return c.buffer }

func (c *RenameController) Item() model.ChatItem { return c.item }

func (c *RenameController) isActiveChat() bool {
	return c.active != nil && c.active.ID() != "" && c.active.ID() == c.item.Key()
}

// CurrentDescription is the latest known description. For the active chat
// the live store wins over the list value since it is more current.
func (c *RenameController) CurrentDescription() string {
	if c.isActiveChat() {
		if d, ok := c.active.Description(); ok {
			return d
		}
	}
	return c.latest
}

// DisplayDescription is CurrentDescription with the placeholder fallback.
func (c *RenameController) DisplayDescription() string {
	if d := strings.TrimSpace(c.CurrentDescription()); d != "" {
		return d
	}
	return FallbackDescription
}

// ToggleEditMode flips between viewing and editing. Entering edit seeds
// the buffer from the current description; leaving via toggle abandons
// the buffer (pending edits are only committed by submit/blur).
func (c *RenameController) ToggleEditMode() {
	if c.editing {
		c.editing = false
		c.buffer = ""
		// Undo any live-store text the aborted edit pushed.
		if c.isActiveChat() {
			c.active.SetDescription(c.latest)
		}
		return
	}
	c.editing = true
	c.buffer = c.CurrentDescription()
}

// HandleChange updates the buffer and, for the active chat, mirrors the
// text into the process-wide store immediately so other views of the open
// chat update live.
func (c *RenameController) HandleChange(text string) {
	if !c.editing {
		return
	}
	c.buffer = text
	if c.isActiveChat() {
		c.active.SetDescription(text)
	}
}

// HandleSubmit persists the buffer and returns to viewing. An unchanged
// buffer skips the backend call but still leaves edit mode.
func (c *RenameController) HandleSubmit() {
	if !c.editing {
		return
	}
	next := strings.TrimSpace(c.buffer)
	c.editing = false
	c.buffer = ""
	if next == c.latest {
		return
	}
	if err := c.persist(c.item.Key(), next); err != nil {
		if errors.Is(err, backend.ErrChatNotFound) {
			// Deleted while the edit was open; the delete wins.
			c.notify("Chat no longer exists")
			return
		}
		c.notify("Rename failed: " + err.Error())
		if c.isActiveChat() {
			c.active.SetDescription(c.latest)
		}
		return
	}
	c.latest = next
	if c.isActiveChat() {
		c.active.SetDescription(next)
	}
}

// HandleBlur commits pending edits, same as submit.
func (c *RenameController) HandleBlur() { c.HandleSubmit() }

// SetLatest records a fresher persisted description seen on a list
// refresh. Ignored mid-edit so it cannot clobber the buffer.
func (c *RenameController) SetLatest(description string) {
	if c.editing {
		return
	}
	c.latest = description
}
