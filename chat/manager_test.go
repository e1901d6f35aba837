package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	iasted "github.com/admin-ga/iasted"
	"github.com/admin-ga/iasted/docgen"
	"github.com/admin-ga/iasted/store"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestManager(t *testing.T, mem *store.Memory) *Manager {
	t.Helper()
	return NewManager(mem, Config{
		UserID:   "user-1",
		Greeting: func(now time.Time) string { return "Bonjour Excellence." },
		Now:      func() time.Time { return testNow },
	})
}

func TestOpenSeedsExactlyOneGreeting(t *testing.T) {
	mem := store.NewMemory()
	m := newTestManager(t, mem)

	m.Open()

	require.Equal(t, PhaseSessionReady, m.Phase())
	require.NotNil(t, m.Session())

	msgs := m.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, iasted.RoleAssistant, msgs[0].Role)
	assert.Equal(t, "Bonjour Excellence.", msgs[0].Content)

	// The greeting is persisted before the modal reports ready.
	stored, err := mem.ListMessages(context.Background(), m.Session().ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)

	// Reopening does not seed again.
	m.Close()
	m.Open()
	assert.Len(t, m.Messages(), 1)
}

func TestOpenResumesRecentSession(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()

	existing := &store.Session{UserID: "user-1", StartedAt: testNow.Add(-2 * time.Hour), UpdatedAt: testNow.Add(-2 * time.Hour)}
	require.NoError(t, mem.CreateSession(ctx, existing))
	require.NoError(t, mem.InsertMessage(ctx, existing.ID, iasted.NewMessage(iasted.RoleAssistant, "Bonjour.")))
	require.NoError(t, mem.InsertMessage(ctx, existing.ID, iasted.NewMessage(iasted.RoleUser, "Où en est le budget ?")))

	m := newTestManager(t, mem)
	m.Open()

	require.Equal(t, PhaseSessionReady, m.Phase())
	assert.Equal(t, existing.ID, m.Session().ID)

	msgs := m.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "Où en est le budget ?", msgs[1].Content)
}

func TestOpenIgnoresStaleSession(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()

	stale := &store.Session{UserID: "user-1", StartedAt: testNow.Add(-48 * time.Hour), UpdatedAt: testNow.Add(-48 * time.Hour)}
	require.NoError(t, mem.CreateSession(ctx, stale))

	m := newTestManager(t, mem)
	m.Open()

	require.NotNil(t, m.Session())
	assert.NotEqual(t, stale.ID, m.Session().ID)
}

func TestOpenIgnoresEndedSession(t *testing.T) {
	mem := store.NewMemory()
	ctx := context.Background()

	ended := &store.Session{UserID: "user-1", StartedAt: testNow.Add(-time.Hour), UpdatedAt: testNow.Add(-time.Hour)}
	require.NoError(t, mem.CreateSession(ctx, ended))
	require.NoError(t, mem.EndSession(ctx, ended.ID))

	m := newTestManager(t, mem)
	m.Open()

	require.NotNil(t, m.Session())
	assert.NotEqual(t, ended.ID, m.Session().ID)
}

func TestAppendDeduplicatesByID(t *testing.T) {
	mem := store.NewMemory()
	m := newTestManager(t, mem)
	m.Open()

	msg := iasted.NewMessage(iasted.RoleUser, "Bonjour")
	m.Append(msg)
	m.Append(msg)

	assert.Len(t, m.Messages(), 2) // greeting + one copy
}

func TestSyncTranscriptMerges(t *testing.T) {
	mem := store.NewMemory()
	m := newTestManager(t, mem)
	m.Open()

	a := iasted.NewMessage(iasted.RoleUser, "Question")
	b := iasted.NewMessage(iasted.RoleAssistant, "Réponse")
	m.SyncTranscript([]iasted.Message{a, b})
	m.SyncTranscript([]iasted.Message{a, b})

	assert.Len(t, m.Messages(), 3)

	stored, err := mem.ListMessages(context.Background(), m.Session().ID)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestEditMessageOptimistic(t *testing.T) {
	mem := store.NewMemory()
	m := newTestManager(t, mem)
	m.Open()

	msg := iasted.NewMessage(iasted.RoleUser, "Brouillon")
	m.Append(msg)

	require.NoError(t, m.EditMessage(context.Background(), msg.ID, "Version corrigée"))

	msgs := m.Messages()
	assert.Equal(t, "Version corrigée", msgs[1].Content)

	stored, err := mem.ListMessages(context.Background(), m.Session().ID)
	require.NoError(t, err)
	assert.Equal(t, "Version corrigée", stored[1].Content)
}

func TestEditMessageUnknown(t *testing.T) {
	m := newTestManager(t, store.NewMemory())
	m.Open()

	err := m.EditMessage(context.Background(), "ghost", "rien")
	assert.ErrorIs(t, err, iasted.ErrNotFound)
}

func TestDeleteRemovesLocallyEvenWhenStoreFails(t *testing.T) {
	mem := store.NewMemory()
	m := newTestManager(t, mem)
	m.Open()

	msg := iasted.NewMessage(iasted.RoleUser, "À supprimer")
	m.Append(msg)
	require.Len(t, m.Messages(), 2)

	mem.FailWrites = errors.New("network down")
	require.NoError(t, m.DeleteMessage(context.Background(), msg.ID))

	// Gone locally despite the store failure, and queued for retry.
	assert.Len(t, m.Messages(), 1)
	assert.Equal(t, 1, m.PendingWrites())
}

func TestReconcileReplaysQueuedWrites(t *testing.T) {
	mem := store.NewMemory()
	m := newTestManager(t, mem)
	m.Open()

	msg := iasted.NewMessage(iasted.RoleUser, "À supprimer")
	m.Append(msg)

	mem.FailWrites = errors.New("network down")
	require.NoError(t, m.DeleteMessage(context.Background(), msg.ID))
	require.Equal(t, 1, m.PendingWrites())

	// Still failing: the op stays queued.
	assert.Equal(t, 0, m.Reconcile(context.Background()))
	assert.Equal(t, 1, m.PendingWrites())

	mem.FailWrites = nil
	assert.Equal(t, 1, m.Reconcile(context.Background()))
	assert.Equal(t, 0, m.PendingWrites())

	stored, err := mem.ListMessages(context.Background(), m.Session().ID)
	require.NoError(t, err)
	assert.Len(t, stored, 1) // only the greeting remains
}

func TestDeleteRevokesDocuments(t *testing.T) {
	mem := store.NewMemory()
	var revoked []iasted.DocumentRef
	m := NewManager(mem, Config{
		UserID:   "user-1",
		Greeting: func(time.Time) string { return "Bonjour." },
		Revoke:   func(doc iasted.DocumentRef) { revoked = append(revoked, doc) },
		Now:      func() time.Time { return testNow },
	})
	m.Open()

	msg := iasted.NewMessage(iasted.RoleAssistant, "Document généré")
	msg.Metadata = &iasted.MessageMetadata{Documents: []iasted.DocumentRef{{ID: "doc-1", URL: "blob://doc-1"}}}
	m.Append(msg)

	require.NoError(t, m.DeleteMessage(context.Background(), msg.ID))
	require.Len(t, revoked, 1)
	assert.Equal(t, "doc-1", revoked[0].ID)
}

func TestEndSessionRevokesAndResets(t *testing.T) {
	mem := store.NewMemory()
	var revoked []iasted.DocumentRef
	m := NewManager(mem, Config{
		UserID:   "user-1",
		Greeting: func(time.Time) string { return "Bonjour." },
		Revoke:   func(doc iasted.DocumentRef) { revoked = append(revoked, doc) },
		Now:      func() time.Time { return testNow },
	})
	m.Open()
	sessionID := m.Session().ID

	msg := iasted.NewMessage(iasted.RoleAssistant, "Pièce jointe")
	msg.Metadata = &iasted.MessageMetadata{Documents: []iasted.DocumentRef{{ID: "doc-2"}}}
	m.Append(msg)

	require.NoError(t, m.EndSession(context.Background()))

	assert.Len(t, revoked, 1)
	assert.Equal(t, PhaseUninitialized, m.Phase())
	assert.Nil(t, m.Session())
	assert.Empty(t, m.Messages())

	// An ended session is not resumed.
	m.Open()
	require.NotNil(t, m.Session())
	assert.NotEqual(t, sessionID, m.Session().ID)
}

func TestPendingDocumentHandoff(t *testing.T) {
	m := newTestManager(t, store.NewMemory())

	assert.Nil(t, m.TakePendingDocument())

	m.SetPendingDocument(docgen.Request{Type: "decret", Recipient: "DGR", Subject: "Nomination"})

	req := m.TakePendingDocument()
	require.NotNil(t, req)
	assert.Equal(t, "decret", req.Type)

	// Taking clears it.
	assert.Nil(t, m.TakePendingDocument())
}

func TestClearHistory(t *testing.T) {
	mem := store.NewMemory()
	m := newTestManager(t, mem)
	m.Open()
	m.Append(iasted.NewMessage(iasted.RoleUser, "Un"))

	require.NoError(t, m.ClearHistory(context.Background()))
	assert.Empty(t, m.Messages())

	stored, err := mem.ListMessages(context.Background(), m.Session().ID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}
