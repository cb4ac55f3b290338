package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/AadhishGIT/ChatApp/internal/backend"
	"github.com/AadhishGIT/ChatApp/internal/chat"
	"github.com/AadhishGIT/ChatApp/internal/documents"
)

// User-visible message texts. Failure texts carry the "Error: " prefix so
// they are distinguishable from answers.
const (
	FallbackAnswer    = "I couldn't find an answer in the loaded documents."
	AskFailureText    = "Error: could not reach the backend. Please check your connection and try again."
	UploadFailureText = "Error: upload failed. Please try again."
	ResetFailureText  = "Error: reset failed. Please try again."
	ResetDefaultText  = "Knowledge base cleared. All attachments have been removed."
)

// Backend is the slice of the HTTP client the controller needs
type Backend interface {
	Ask(ctx context.Context, question string, sources []string) (string, error)
	Upload(ctx context.Context, name string, content io.Reader) error
	Reset(ctx context.Context) (string, error)
}

// Inspector validates and describes a document before upload
type Inspector interface {
	Inspect(path string) (*documents.Info, error)
}

// Controller bridges user intent to the conversation store and the
// backend. Each operation category has its own busy flag: a second call
// in the same category while one is in flight is a silent no-op, while
// unrelated categories proceed independently. Every flag is released on
// every exit path.
//
// In-flight responses target the conversation that originated them, by
// id. If that conversation was deleted meanwhile, the append fails soft
// and the reply is dropped.
type Controller struct {
	store     *chat.Store
	backend   Backend
	inspector Inspector
	maxSize   int64
	log       *logrus.Entry

	mu        sync.Mutex
	loading   bool
	uploading bool
	resetting bool
}

// New creates a controller. maxSize caps uploads in bytes; zero means no
// cap. Pass nil logger to discard controller logs.
func New(store *chat.Store, be Backend, inspector Inspector, maxSize int64, logger *logrus.Entry) *Controller {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = logrus.NewEntry(l)
	}
	return &Controller{
		store:     store,
		backend:   be,
		inspector: inspector,
		maxSize:   maxSize,
		log:       logger,
	}
}

// Loading reports whether an ask request is in flight
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Uploading reports whether an upload request is in flight
func (c *Controller) Uploading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uploading
}

// Resetting reports whether a reset request is in flight
func (c *Controller) Resetting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resetting
}

// acquire sets *flag under the lock; false means it was already held
func (c *Controller) acquire(flag *bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if *flag {
		return false
	}
	*flag = true
	return true
}

func (c *Controller) release(flag *bool) {
	c.mu.Lock()
	*flag = false
	c.mu.Unlock()
}

// Ask sends a question answered from the active conversation's attached
// documents. Empty input, a missing active conversation, or an ask
// already in flight make it a no-op.
func (c *Controller) Ask(ctx context.Context, text string) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return
	}
	active, ok := c.store.Active()
	if !ok {
		return
	}
	if !c.acquire(&c.loading) {
		return
	}
	defer c.release(&c.loading)

	// The UI reflects the send before the network settles.
	c.store.SetDraft("")
	c.appendTo(active.ID, chat.Message{Sender: chat.SenderUser, Text: trimmed})
	if err := c.store.RenameIfDefault(active.ID, trimmed); err != nil && !errors.Is(err, chat.ErrNotFound) {
		c.log.WithError(err).Warn("rename failed")
	}

	// Sources are the attachments as of the moment the request is issued;
	// detaching while in flight does not affect this request.
	answer, err := c.backend.Ask(ctx, trimmed, active.PDFs)

	var apiErr *backend.APIError
	var botText string
	switch {
	case err == nil && answer == "":
		botText = FallbackAnswer
	case err == nil:
		botText = answer
	case errors.As(err, &apiErr):
		botText = "Error: " + apiErr.Message
	default:
		c.log.WithError(err).Warn("ask request failed")
		botText = AskFailureText
	}

	c.appendTo(active.ID, chat.Message{Sender: chat.SenderBot, Text: botText})
}

// UploadDocument validates the file at path and uploads it, attaching
// the document to the conversation that was active when the upload
// started. Non-PDF files are rejected with a bot message and no network
// call.
func (c *Controller) UploadDocument(ctx context.Context, path string) {
	active, ok := c.store.Active()
	if !ok {
		return
	}
	if !c.acquire(&c.uploading) {
		return
	}
	defer c.release(&c.uploading)

	mediaType, err := documents.DetectMediaType(path)
	if err != nil {
		c.appendTo(active.ID, chat.Message{Sender: chat.SenderBot,
			Text: fmt.Sprintf("Could not read %s.", path)})
		return
	}
	if mediaType != documents.MediaTypePDF {
		c.appendTo(active.ID, chat.Message{Sender: chat.SenderBot,
			Text: fmt.Sprintf("Only PDF files can be uploaded; %s looks like %s.", path, mediaType)})
		return
	}

	info, err := c.inspector.Inspect(path)
	if err != nil {
		c.appendTo(active.ID, chat.Message{Sender: chat.SenderBot,
			Text: fmt.Sprintf("Could not open %s as a PDF.", path)})
		return
	}
	if c.maxSize > 0 && info.Size > c.maxSize {
		c.appendTo(active.ID, chat.Message{Sender: chat.SenderBot,
			Text: fmt.Sprintf("%s is too large to upload (limit %d MB).", info.Name, c.maxSize/(1024*1024))})
		return
	}

	c.appendTo(active.ID, chat.Message{Sender: chat.SenderUser,
		Text: fmt.Sprintf("Uploading %s…", info.Name)})

	f, err := os.Open(path)
	if err != nil {
		c.appendTo(active.ID, chat.Message{Sender: chat.SenderBot,
			Text: fmt.Sprintf("Could not read %s.", path)})
		return
	}
	defer f.Close()

	err = c.backend.Upload(ctx, info.Name, f)

	var apiErr *backend.APIError
	switch {
	case err == nil:
		c.appendTo(active.ID, chat.Message{Sender: chat.SenderBot,
			Text: fmt.Sprintf("%s uploaded (%d pages). You can now ask questions about it.", info.Name, info.Pages)})
		if err := c.store.AttachPDF(active.ID, info.Name); err != nil && !errors.Is(err, chat.ErrNotFound) {
			c.log.WithError(err).Warn("attach failed")
		}
	case errors.As(err, &apiErr):
		c.appendTo(active.ID, chat.Message{Sender: chat.SenderBot,
			Text: "Upload failed: " + apiErr.Message})
	default:
		c.log.WithError(err).Warn("upload request failed")
		c.appendTo(active.ID, chat.Message{Sender: chat.SenderBot, Text: UploadFailureText})
	}
}

// ResetKnowledgeBase clears the backend's ingested documents and, on
// success, every conversation's attachment set. Callers gate this behind
// an explicit yes/no confirmation; cancelling never reaches here.
func (c *Controller) ResetKnowledgeBase(ctx context.Context) {
	activeID := c.store.ActiveID()
	if activeID == "" {
		return
	}
	if !c.acquire(&c.resetting) {
		return
	}
	defer c.release(&c.resetting)

	msg, err := c.backend.Reset(ctx)

	var apiErr *backend.APIError
	switch {
	case err == nil:
		if msg == "" {
			msg = ResetDefaultText
		}
		c.appendTo(activeID, chat.Message{Sender: chat.SenderBot, Text: msg})
		c.store.ResetAllPDFs()
	case errors.As(err, &apiErr):
		c.appendTo(activeID, chat.Message{Sender: chat.SenderBot,
			Text: "Reset failed: " + apiErr.Message})
	default:
		c.log.WithError(err).Warn("reset request failed")
		c.appendTo(activeID, chat.Message{Sender: chat.SenderBot, Text: ResetFailureText})
	}
}

// appendTo appends by the originating conversation id, dropping the
// message silently if that conversation no longer exists.
func (c *Controller) appendTo(id string, msg chat.Message) {
	if err := c.store.AppendMessage(id, msg); err != nil {
		if errors.Is(err, chat.ErrNotFound) {
			c.log.WithField("conversation", id).Debug("dropping message for deleted conversation")
			return
		}
		c.log.WithError(err).Warn("append failed")
	}
}
