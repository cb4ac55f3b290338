package chat

import (
	"time"
)

// DefaultTitle is the sentinel title of a conversation that has not yet
// received its first user message.
const DefaultTitle = "New chat"

// maxTitleRunes is the title length limit before truncation applies.
const maxTitleRunes = 40

// Sender identifies who produced a message
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message represents a single chat message
type Message struct {
	Sender Sender
	Text   string
}

// Conversation represents an independent chat thread with its own
// messages and attached documents
type Conversation struct {
	ID        string
	Title     string
	CreatedAt time.Time
	Messages  []Message
	PDFs      []string
}

// clone returns a deep copy so callers never observe later mutations
func (c *Conversation) clone() Conversation {
	out := *c
	out.Messages = make([]Message, len(c.Messages))
	copy(out.Messages, c.Messages)
	out.PDFs = make([]string, len(c.PDFs))
	copy(out.PDFs, c.PDFs)
	return out
}

// truncateTitle shortens a candidate title to the display limit,
// appending an ellipsis when anything was cut off
func truncateTitle(s string) string {
	runes := []rune(s)
	if len(runes) <= maxTitleRunes {
		return s
	}
	return string(runes[:maxTitleRunes]) + "…"
}
