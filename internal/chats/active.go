package chats

import (
	"strings"
	"sync"
)

// ActiveChatStore is the process-wide record of the chat currently open in
// the primary editing surface: its key (ChatItem.Key) plus a live copy of
// its description so every view of the open chat stays in sync.
//
// Write ownership is deliberately narrow: only the rename controller of
// the active chat and the deletion settlement path (when the active chat
// is removed) may mutate it. Everything else observes via Subscribe.
type ActiveChatStore struct {
	mu          sync.Mutex
	id          string
	description string
	subs        map[int]func(id, description string)
	nextSub     int
}

func NewActiveChatStore() *ActiveChatStore {
	return &ActiveChatStore{subs: map[int]func(string, string){}}
}

// Set marks the chat with the given key as active and seeds its live
// description. Called when a chat is opened.
func (s *ActiveChatStore) Set(id, description string) {
	s.mu.Lock()
	s.id = strings.TrimSpace(id)
	s.description = description
	fns := s.snapshotSubs()
	s.mu.Unlock()
	for _, fn := range fns {
		fn(s.ID(), description)
	}
}

// SetDescription updates the live description of the active chat. No-op
// when nothing is active.
func (s *ActiveChatStore) SetDescription(description string) {
	s.mu.Lock()
	if s.id == "" {
		s.mu.Unlock()
		return
	}
	s.description = description
	id := s.id
	fns := s.snapshotSubs()
	s.mu.Unlock()
	for _, fn := range fns {
		fn(id, description)
	}
}

// Clear forgets the active chat. Called on sign-out and when the active
// chat is deleted.
func (s *ActiveChatStore) Clear() {
	s.mu.Lock()
	s.id = ""
	s.description = ""
	fns := s.snapshotSubs()
	s.mu.Unlock()
	for _, fn := range fns {
		fn("", "")
	}
}

// ID returns the key of the active chat, or "" when none is open.
func (s *ActiveChatStore) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Description returns the live description and whether a chat is active.
func (s *ActiveChatStore) Description() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.description, s.id != ""
}

// Subscribe registers fn to run after every store change. The returned
// func cancels the subscription.
func (s *ActiveChatStore) Subscribe(fn func(id, description string)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.nextSub
	s.nextSub++
	s.subs[n] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, n)
	}
}

// snapshotSubs must be called with mu held; callbacks run unlocked.
func (s *ActiveChatStore) snapshotSubs() []func(string, string) {
	fns := make([]func(string, string), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	return fns
}
