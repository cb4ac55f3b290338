package chat

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an operation names a conversation id that
// is not (or no longer) in the store.
var ErrNotFound = errors.New("conversation not found")

// Store is the single source of truth for all conversations. Every
// mutation goes through one of its methods, commits atomically under the
// lock, bumps the version, and notifies subscribers after commit.
//
// Projections (Conversations, Active, Draft) return copies; a snapshot
// taken after a mutation returns always reflects that mutation.
type Store struct {
	mu            sync.Mutex
	conversations []*Conversation // display order, newest first
	activeID      string
	draft         string
	version       uint64
	subscribers   []func()
}

// NewStore creates a store holding one fresh active conversation, so the
// collection is never empty.
func NewStore() *Store {
	s := &Store{}
	c := newConversation()
	s.conversations = []*Conversation{c}
	s.activeID = c.ID
	return s
}

func newConversation() *Conversation {
	return &Conversation{
		ID:        uuid.New().String(),
		Title:     DefaultTitle,
		CreatedAt: time.Now(),
		Messages:  []Message{},
		PDFs:      []string{},
	}
}

// Subscribe registers fn to run after every committed mutation. Callbacks
// run outside the store lock, so they may call back into the store.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

// notifyLocked snapshots the subscriber list; the caller invokes the
// returned function after releasing the lock.
func (s *Store) notifyLocked() func() {
	s.version++
	subs := make([]func(), len(s.subscribers))
	copy(subs, s.subscribers)
	return func() {
		for _, fn := range subs {
			fn()
		}
	}
}

// CreateConversation inserts a new empty conversation at the front of the
// collection, makes it active, and clears any pending draft. Returns the
// new conversation's id.
func (s *Store) CreateConversation() string {
	s.mu.Lock()
	c := newConversation()
	s.conversations = append([]*Conversation{c}, s.conversations...)
	s.activeID = c.ID
	s.draft = ""
	notify := s.notifyLocked()
	s.mu.Unlock()

	notify()
	return c.ID
}

// SwitchActive makes the conversation with the given id active. Returns
// ErrNotFound for unknown ids; callers with stale selections suppress it.
func (s *Store) SwitchActive(id string) error {
	s.mu.Lock()
	if _, c := s.findLocked(id); c == nil {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.activeID = id
	notify := s.notifyLocked()
	s.mu.Unlock()

	notify()
	return nil
}

// DeleteConversation removes a conversation. If it was active, the first
// remaining conversation in display order becomes active. When the last
// conversation is deleted, a fresh empty one is synthesized and made
// active, so the collection is never empty.
func (s *Store) DeleteConversation(id string) error {
	s.mu.Lock()
	idx, c := s.findLocked(id)
	if c == nil {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.conversations = append(s.conversations[:idx], s.conversations[idx+1:]...)
	if len(s.conversations) == 0 {
		fresh := newConversation()
		s.conversations = []*Conversation{fresh}
		s.activeID = fresh.ID
	} else if s.activeID == id {
		s.activeID = s.conversations[0].ID
	}
	notify := s.notifyLocked()
	s.mu.Unlock()

	notify()
	return nil
}

// AppendMessage appends a message to the end of a conversation's
// sequence. Returns ErrNotFound if the conversation was deleted; in-flight
// responses treat that as a soft failure and drop the message.
func (s *Store) AppendMessage(id string, msg Message) error {
	s.mu.Lock()
	idx, c := s.findLocked(id)
	if c == nil {
		s.mu.Unlock()
		return ErrNotFound
	}
	updated := c.clone()
	updated.Messages = append(updated.Messages, msg)
	s.conversations[idx] = &updated
	notify := s.notifyLocked()
	s.mu.Unlock()

	notify()
	return nil
}

// RenameIfDefault sets the conversation title from candidate (truncated to
// the display limit) only while the title is still the default sentinel.
// Once set, further calls are no-ops, so the first user message names the
// conversation exactly once.
func (s *Store) RenameIfDefault(id, candidate string) error {
	s.mu.Lock()
	idx, c := s.findLocked(id)
	if c == nil {
		s.mu.Unlock()
		return ErrNotFound
	}
	if c.Title != DefaultTitle {
		s.mu.Unlock()
		return nil
	}
	updated := c.clone()
	updated.Title = truncateTitle(candidate)
	s.conversations[idx] = &updated
	notify := s.notifyLocked()
	s.mu.Unlock()

	notify()
	return nil
}

// AttachPDF adds a document name to the conversation's attachment set.
// Adding a name that is already present is a no-op.
func (s *Store) AttachPDF(id, name string) error {
	s.mu.Lock()
	idx, c := s.findLocked(id)
	if c == nil {
		s.mu.Unlock()
		return ErrNotFound
	}
	for _, existing := range c.PDFs {
		if existing == name {
			s.mu.Unlock()
			return nil
		}
	}
	updated := c.clone()
	updated.PDFs = append(updated.PDFs, name)
	s.conversations[idx] = &updated
	notify := s.notifyLocked()
	s.mu.Unlock()

	notify()
	return nil
}

// DetachPDF removes a document name from the conversation's attachment
// set; removing an absent name is a no-op.
func (s *Store) DetachPDF(id, name string) error {
	s.mu.Lock()
	idx, c := s.findLocked(id)
	if c == nil {
		s.mu.Unlock()
		return ErrNotFound
	}
	found := -1
	for i, existing := range c.PDFs {
		if existing == name {
			found = i
			break
		}
	}
	if found < 0 {
		s.mu.Unlock()
		return nil
	}
	updated := c.clone()
	updated.PDFs = append(updated.PDFs[:found], updated.PDFs[found+1:]...)
	s.conversations[idx] = &updated
	notify := s.notifyLocked()
	s.mu.Unlock()

	notify()
	return nil
}

// ClearMessages empties a conversation's message sequence. Attachments
// are untouched.
func (s *Store) ClearMessages(id string) error {
	s.mu.Lock()
	idx, c := s.findLocked(id)
	if c == nil {
		s.mu.Unlock()
		return ErrNotFound
	}
	updated := c.clone()
	updated.Messages = []Message{}
	s.conversations[idx] = &updated
	notify := s.notifyLocked()
	s.mu.Unlock()

	notify()
	return nil
}

// ResetAllPDFs clears the attachment set of every conversation. Used
// after a knowledge base reset on the backend.
func (s *Store) ResetAllPDFs() {
	s.mu.Lock()
	for i, c := range s.conversations {
		updated := c.clone()
		updated.PDFs = []string{}
		s.conversations[i] = &updated
	}
	notify := s.notifyLocked()
	s.mu.Unlock()

	notify()
}

// SetDraft stores the pending input buffer
func (s *Store) SetDraft(text string) {
	s.mu.Lock()
	s.draft = text
	notify := s.notifyLocked()
	s.mu.Unlock()

	notify()
}

// Draft returns the pending input buffer
func (s *Store) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Conversations returns a copy of all conversations in display order
func (s *Store) Conversations() []Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Conversation, len(s.conversations))
	for i, c := range s.conversations {
		out[i] = c.clone()
	}
	return out
}

// Active returns a copy of the active conversation. The second return is
// false only before initialization, which NewStore prevents.
func (s *Store) Active() (Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, c := s.findLocked(s.activeID); c != nil {
		return c.clone(), true
	}
	return Conversation{}, false
}

// ActiveID returns the id of the active conversation
func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// Version returns a counter that increments on every committed mutation
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

func (s *Store) findLocked(id string) (int, *Conversation) {
	for i, c := range s.conversations {
		if c.ID == id {
			return i, c
		}
	}
	return -1, nil
}
