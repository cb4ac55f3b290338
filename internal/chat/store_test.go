package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore_StartsWithOneActiveConversation(t *testing.T) {
	s := NewStore()

	convs := s.Conversations()
	require.Len(t, convs, 1)
	assert.Equal(t, DefaultTitle, convs[0].Title)
	assert.Empty(t, convs[0].Messages)
	assert.Empty(t, convs[0].PDFs)
	assert.Equal(t, convs[0].ID, s.ActiveID())
}

func TestCreateConversation_InsertsAtFrontAndActivates(t *testing.T) {
	s := NewStore()
	first := s.ActiveID()
	s.SetDraft("half-typed question")

	id := s.CreateConversation()

	convs := s.Conversations()
	require.Len(t, convs, 2)
	assert.Equal(t, id, convs[0].ID)
	assert.Equal(t, first, convs[1].ID)
	assert.Equal(t, id, s.ActiveID())
	assert.Empty(t, s.Draft(), "pending draft should be cleared")
}

func TestStore_NeverEmptyAndExactlyOneActive(t *testing.T) {
	s := NewStore()

	ids := []string{s.ActiveID()}
	for i := 0; i < 3; i++ {
		ids = append(ids, s.CreateConversation())
	}
	for _, id := range ids {
		require.NoError(t, s.DeleteConversation(id))

		convs := s.Conversations()
		require.NotEmpty(t, convs, "collection must never be empty")
		active := 0
		for _, c := range convs {
			if c.ID == s.ActiveID() {
				active++
			}
		}
		assert.Equal(t, 1, active, "exactly one conversation is active")
	}
}

func TestDeleteConversation_ActiveFallsBackToFirstRemaining(t *testing.T) {
	s := NewStore()
	c1 := s.ActiveID()
	c2 := s.CreateConversation()
	c3 := s.CreateConversation()
	// Display order is now c3, c2, c1 and c3 is active.

	require.NoError(t, s.DeleteConversation(c3))

	convs := s.Conversations()
	require.Len(t, convs, 2)
	assert.Equal(t, c2, convs[0].ID, "order preserved, not re-sorted")
	assert.Equal(t, c1, convs[1].ID)
	assert.Equal(t, c2, s.ActiveID())
}

func TestDeleteConversation_InactiveKeepsActivePointer(t *testing.T) {
	s := NewStore()
	c1 := s.ActiveID()
	c2 := s.CreateConversation()

	require.NoError(t, s.DeleteConversation(c1))
	assert.Equal(t, c2, s.ActiveID())
}

func TestDeleteConversation_LastSynthesizesFreshOne(t *testing.T) {
	s := NewStore()
	old := s.ActiveID()
	require.NoError(t, s.AppendMessage(old, Message{Sender: SenderUser, Text: "hi"}))

	require.NoError(t, s.DeleteConversation(old))

	convs := s.Conversations()
	require.Len(t, convs, 1)
	fresh := convs[0]
	assert.NotEqual(t, old, fresh.ID, "ids are never reused")
	assert.Equal(t, DefaultTitle, fresh.Title)
	assert.Empty(t, fresh.Messages)
	assert.Empty(t, fresh.PDFs)
	assert.Equal(t, fresh.ID, s.ActiveID())
}

func TestDeleteConversation_UnknownID(t *testing.T) {
	s := NewStore()
	assert.ErrorIs(t, s.DeleteConversation("nope"), ErrNotFound)
}

func TestSwitchActive(t *testing.T) {
	s := NewStore()
	c1 := s.ActiveID()
	s.CreateConversation()

	require.NoError(t, s.SwitchActive(c1))
	assert.Equal(t, c1, s.ActiveID())

	assert.ErrorIs(t, s.SwitchActive("stale-id"), ErrNotFound)
	assert.Equal(t, c1, s.ActiveID(), "failed switch leaves pointer untouched")
}

func TestAppendMessage_OrderAndIsolation(t *testing.T) {
	s := NewStore()
	id := s.ActiveID()

	require.NoError(t, s.AppendMessage(id, Message{Sender: SenderUser, Text: "first"}))
	require.NoError(t, s.AppendMessage(id, Message{Sender: SenderBot, Text: "second"}))

	active, ok := s.Active()
	require.True(t, ok)
	require.Len(t, active.Messages, 2)
	assert.Equal(t, "first", active.Messages[0].Text)
	assert.Equal(t, "second", active.Messages[1].Text)

	// Mutating the returned copy must not leak into the store.
	active.Messages[0].Text = "tampered"
	again, _ := s.Active()
	assert.Equal(t, "first", again.Messages[0].Text)

	assert.ErrorIs(t, s.AppendMessage("gone", Message{}), ErrNotFound)
}

func TestRenameIfDefault_AppliesExactlyOnce(t *testing.T) {
	s := NewStore()
	id := s.ActiveID()

	require.NoError(t, s.RenameIfDefault(id, "What is hypertension?"))
	active, _ := s.Active()
	assert.Equal(t, "What is hypertension?", active.Title)

	require.NoError(t, s.RenameIfDefault(id, "something else entirely"))
	active, _ = s.Active()
	assert.Equal(t, "What is hypertension?", active.Title, "second rename is a no-op")
}

func TestRenameIfDefault_Truncation(t *testing.T) {
	s := NewStore()

	long := strings.Repeat("a", 45)
	id := s.CreateConversation()
	require.NoError(t, s.RenameIfDefault(id, long))
	active, _ := s.Active()
	assert.Equal(t, strings.Repeat("a", 40)+"…", active.Title)

	short := strings.Repeat("b", 30)
	id = s.CreateConversation()
	require.NoError(t, s.RenameIfDefault(id, short))
	active, _ = s.Active()
	assert.Equal(t, short, active.Title, "no marker when nothing was cut")
}

func TestAttachPDF_UniquePerConversation(t *testing.T) {
	s := NewStore()
	a := s.ActiveID()
	b := s.CreateConversation()

	require.NoError(t, s.AttachPDF(a, "notes.pdf"))
	require.NoError(t, s.AttachPDF(a, "notes.pdf"))

	convs := s.Conversations()
	var convA, convB Conversation
	for _, c := range convs {
		switch c.ID {
		case a:
			convA = c
		case b:
			convB = c
		}
	}
	assert.Equal(t, []string{"notes.pdf"}, convA.PDFs, "duplicate attach collapses to one entry")
	assert.Empty(t, convB.PDFs, "attachments never leak across conversations")
}

func TestDetachPDF(t *testing.T) {
	s := NewStore()
	id := s.ActiveID()
	require.NoError(t, s.AttachPDF(id, "a.pdf"))
	require.NoError(t, s.AttachPDF(id, "b.pdf"))

	require.NoError(t, s.DetachPDF(id, "a.pdf"))
	active, _ := s.Active()
	assert.Equal(t, []string{"b.pdf"}, active.PDFs)

	// Absent name is a no-op.
	require.NoError(t, s.DetachPDF(id, "a.pdf"))
	active, _ = s.Active()
	assert.Equal(t, []string{"b.pdf"}, active.PDFs)
}

func TestClearMessages_KeepsAttachments(t *testing.T) {
	s := NewStore()
	id := s.ActiveID()
	require.NoError(t, s.AppendMessage(id, Message{Sender: SenderUser, Text: "hi"}))
	require.NoError(t, s.AttachPDF(id, "kept.pdf"))

	require.NoError(t, s.ClearMessages(id))

	active, _ := s.Active()
	assert.Empty(t, active.Messages)
	assert.Equal(t, []string{"kept.pdf"}, active.PDFs)
}

func TestResetAllPDFs_ClearsEveryConversation(t *testing.T) {
	s := NewStore()
	a := s.ActiveID()
	require.NoError(t, s.AttachPDF(a, "a.pdf"))
	b := s.CreateConversation()
	require.NoError(t, s.AttachPDF(b, "b.pdf"))
	// a is no longer active; reset must still reach it.

	s.ResetAllPDFs()

	for _, c := range s.Conversations() {
		assert.Empty(t, c.PDFs, "conversation %s should have no attachments", c.ID)
	}
}

func TestVersion_BumpsOnCommittedMutationsOnly(t *testing.T) {
	s := NewStore()
	v := s.Version()

	s.CreateConversation()
	assert.Greater(t, s.Version(), v)

	v = s.Version()
	assert.ErrorIs(t, s.AppendMessage("missing", Message{}), ErrNotFound)
	assert.Equal(t, v, s.Version(), "failed operations do not commit")
}

func TestSubscribe_NotifiedAfterCommit(t *testing.T) {
	s := NewStore()
	var seen []uint64
	s.Subscribe(func() {
		seen = append(seen, s.Version())
	})

	id := s.CreateConversation()
	require.NoError(t, s.AppendMessage(id, Message{Sender: SenderUser, Text: "hi"}))

	require.Len(t, seen, 2)
	assert.Equal(t, []uint64{1, 2}, seen, "callback observes the committed state")
}
