// Package backend defines the contracts the chat browser consumes from
// its data store, plus the default local SQLite implementation.
package backend

import (
	"context"
	"errors"

	"shelf-cli/internal/model"
)

var (
	// ErrChatNotFound signals the chat was deleted (or never existed);
	// renames racing a delete land here and become no-ops.
	ErrChatNotFound = errors.New("chat not found")
	// ErrNoSession signals a mutation was attempted without a session.
	ErrNoSession = errors.New("no session")
)

// Client is the remote-collaborator surface the coordination core uses.
//
// Reads take an optional session: with a nil session no query is issued
// and the zero result comes back. Mutations require a session.
type Client interface {
	// ListChats returns the caller's chats. nil session: ([]nil, nil).
	ListChats(ctx context.Context, session *model.Session) ([]model.ChatItem, error)
	// LookupLinkedProject resolves the external project linked to one
	// chat. nil session: (LinkNone, nil). Results are per-chat; callers
	// must not cache across chats.
	LookupLinkedProject(ctx context.Context, session *model.Session, chatID string) (model.LinkedProject, error)
	// DeleteChat removes a chat (and, when requested and connected, its
	// external project). Called at most once per confirmed delete.
	DeleteChat(ctx context.Context, req model.DeleteRequest) model.DeleteResult
	// UpdateDescription renames a chat. Returns ErrChatNotFound when the
	// chat no longer exists.
	UpdateDescription(ctx context.Context, session *model.Session, chatID, description string) error
}
