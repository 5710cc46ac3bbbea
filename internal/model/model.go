package model

import (
	"strings"
	"time"
)

// ChatItem is one saved chat project as reported by the backend.
type ChatItem struct {
	// ID is the server-confirmed identifier. May be empty for chats that
	// were created locally and not yet acknowledged.
	ID string `json:"id,omitempty"`
	// InitialID is the session-local identifier assigned at creation time.
	// It is the stable key for "is this the chat currently open?" checks,
	// since ID may not exist yet when the chat is first shown.
	InitialID string `json:"initialId"`
	// URLID is an optional human-friendly slug used for links. Not unique.
	URLID       string    `json:"urlId,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Key returns the stable identity of the chat: InitialID when present,
// otherwise the server id. Every valid chat has at least one of the two.
func (c ChatItem) Key() string {
	if s := strings.TrimSpace(c.InitialID); s != "" {
		return s
	}
	return strings.TrimSpace(c.ID)
}

// LinkSlug returns the preferred slug for building links to the chat.
func (c ChatItem) LinkSlug() string {
	if s := strings.TrimSpace(c.URLID); s != "" {
		return s
	}
	return strings.TrimSpace(c.InitialID)
}

type LinkKind string

const (
	// LinkLoading means the lookup for this chat has not resolved yet.
	LinkLoading   LinkKind = "loading"
	LinkNone      LinkKind = "none"
	LinkConnected LinkKind = "connected"
)

// LinkedProject describes the external deployment project a chat may be
// connected to. Resolved lazily, per delete confirmation; never cached
// across chats since it is keyed by the chat being deleted.
type LinkedProject struct {
	Kind        LinkKind `json:"kind"`
	TeamSlug    string   `json:"teamSlug,omitempty"`
	ProjectSlug string   `json:"projectSlug,omitempty"`
}

// Session identifies the signed-in user for backend calls.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"createdAt"`
}

// DeleteRequest carries everything a confirmed delete needs in one call.
type DeleteRequest struct {
	ChatID      string
	SessionID   string
	AuthToken   string
	TeamSlug    string
	ProjectSlug string
	// AlsoDeleteExternal is only honored when the chat actually has a
	// connected project; callers must not set it otherwise.
	AlsoDeleteExternal bool
}

type DeleteResultKind string

const (
	DeleteOK    DeleteResultKind = "ok"
	DeleteError DeleteResultKind = "error"
)

type DeleteResult struct {
	Kind  DeleteResultKind `json:"kind"`
	Error string           `json:"error,omitempty"`
}

func DeleteOKResult() DeleteResult { return DeleteResult{Kind: DeleteOK} }

func DeleteErrorResult(msg string) DeleteResult {
	return DeleteResult{Kind: DeleteError, Error: msg}
}
