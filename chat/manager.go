// Package chat manages the assistant chat modal: session resumption,
// transcript sync with the voice client, optimistic message edits with
// store reconciliation, and the text-mode send path.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	iasted "github.com/admin-ga/iasted"
	"github.com/admin-ga/iasted/docgen"
	"github.com/admin-ga/iasted/store"
)

// Phase is the modal's session lifecycle.
type Phase int

const (
	// PhaseUninitialized is the state before the modal is first opened.
	PhaseUninitialized Phase = iota
	// PhaseSessionLoading covers session lookup and greeting seeding.
	PhaseSessionLoading
	// PhaseSessionReady means the transcript is loaded and writable.
	PhaseSessionReady
)

// resumeWindow bounds how old a session may be and still be resumed instead
// of starting a fresh one.
const resumeWindow = 24 * time.Hour

// Revoker releases a resource backing a document reference, such as an
// object URL, once the message carrying it is gone.
type Revoker func(doc iasted.DocumentRef)

// Config configures a chat manager.
type Config struct {
	UserID string

	// Greeting produces the seeded assistant greeting for a new session.
	Greeting func(now time.Time) string

	// SendEndpoint is the text-mode completion endpoint. Empty disables
	// SendMessage.
	SendEndpoint string

	// SendAuth is the bearer credential for the completion endpoint.
	SendAuth string

	// Revoke is called for each document reference removed from the
	// transcript. Optional.
	Revoke Revoker

	HTTPClient *http.Client
	Logger     *logrus.Logger

	// Now is the clock, overridable in tests.
	Now func() time.Time
}

// Manager owns the chat modal state for one user.
type Manager struct {
	cfg  Config
	conv store.Conversations
	log  *logrus.Entry

	mu       sync.Mutex
	visible  bool
	phase    Phase
	session  *store.Session
	messages []iasted.Message
	pending  *docgen.Request
	queue    *reconcileQueue
}

// NewManager builds a chat manager over a conversation store.
func NewManager(conv store.Conversations, cfg Config) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Manager{
		cfg:   cfg,
		conv:  conv,
		log:   cfg.Logger.WithField("component", "chat"),
		queue: newReconcileQueue(),
	}
}

// Open shows the modal and, on first open, resolves the session: a non-ended
// session touched within the last 24 hours is resumed with its transcript;
// otherwise a new session is created and seeded with one assistant greeting
// before the modal reports ready.
func (m *Manager) Open() {
	m.mu.Lock()
	m.visible = true
	needsInit := m.phase == PhaseUninitialized
	if needsInit {
		m.phase = PhaseSessionLoading
	}
	m.mu.Unlock()

	if !needsInit {
		return
	}
	if err := m.initSession(context.Background()); err != nil {
		m.log.WithError(err).Error("session init failed")
		m.mu.Lock()
		m.phase = PhaseUninitialized
		m.mu.Unlock()
	}
}

// Close hides the modal. The session stays live for the next open.
func (m *Manager) Close() {
	m.mu.Lock()
	m.visible = false
	m.mu.Unlock()
}

// Visible reports whether the modal is shown.
func (m *Manager) Visible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visible
}

// Phase returns the session lifecycle phase.
func (m *Manager) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Session returns the active session, nil before first open.
func (m *Manager) Session() *store.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Messages returns a copy of the transcript.
func (m *Manager) Messages() []iasted.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]iasted.Message(nil), m.messages...)
}

func (m *Manager) initSession(ctx context.Context) error {
	now := m.cfg.Now()

	sess, err := m.conv.FindRecentSession(ctx, m.cfg.UserID, now.Add(-resumeWindow))
	if err != nil {
		return fmt.Errorf("session lookup: %w", err)
	}

	if sess != nil {
		msgs, err := m.conv.ListMessages(ctx, sess.ID)
		if err != nil {
			return fmt.Errorf("transcript load: %w", err)
		}
		m.mu.Lock()
		m.session = sess
		m.messages = msgs
		m.phase = PhaseSessionReady
		m.mu.Unlock()
		m.log.WithField("session", sess.ID).Info("session resumed")
		return nil
	}

	sess = &store.Session{
		UserID:    m.cfg.UserID,
		Title:     "Conversation du " + now.Format("02/01/2006"),
		StartedAt: now,
		UpdatedAt: now,
	}
	if err := m.conv.CreateSession(ctx, sess); err != nil {
		return fmt.Errorf("session create: %w", err)
	}

	greetingText := "Bonjour, comment puis-je vous aider ?"
	if m.cfg.Greeting != nil {
		greetingText = m.cfg.Greeting(now)
	}
	greeting := iasted.NewMessage(iasted.RoleAssistant, greetingText)
	if err := m.conv.InsertMessage(ctx, sess.ID, greeting); err != nil {
		return fmt.Errorf("greeting seed: %w", err)
	}

	m.mu.Lock()
	m.session = sess
	m.messages = []iasted.Message{greeting}
	m.phase = PhaseSessionReady
	m.mu.Unlock()
	m.log.WithField("session", sess.ID).Info("session created")
	return nil
}

// Append adds one message to the transcript and persists it. Persistence
// failures keep the local copy and queue a retry.
func (m *Manager) Append(msg iasted.Message) {
	m.mu.Lock()
	for _, existing := range m.messages {
		if existing.ID == msg.ID {
			m.mu.Unlock()
			return
		}
	}
	m.messages = append(m.messages, msg)
	sess := m.session
	m.mu.Unlock()

	if sess == nil {
		return
	}
	if err := m.conv.InsertMessage(context.Background(), sess.ID, msg); err != nil {
		m.log.WithError(err).WithField("message", msg.ID).Warn("message persist failed, queued")
		m.queue.push(pendingOp{kind: opInsert, sessionID: sess.ID, message: msg})
	}
}

// SyncTranscript merges the voice client's transcript into the modal,
// deduplicating by message id and persisting the new entries.
func (m *Manager) SyncTranscript(msgs []iasted.Message) {
	for _, msg := range msgs {
		m.Append(msg)
	}
}

// EditMessage rewrites a message's content optimistically: the transcript
// updates immediately and a failed store write is queued for reconciliation.
func (m *Manager) EditMessage(ctx context.Context, messageID, content string) error {
	m.mu.Lock()
	found := false
	for i := range m.messages {
		if m.messages[i].ID == messageID {
			m.messages[i].Content = content
			found = true
			break
		}
	}
	m.mu.Unlock()
	if !found {
		return iasted.ErrNotFound
	}

	if err := m.conv.UpdateMessage(ctx, messageID, content); err != nil {
		m.log.WithError(err).WithField("message", messageID).Warn("edit persist failed, queued")
		m.queue.push(pendingOp{kind: opUpdate, messageID: messageID, content: content})
	}
	return nil
}

// DeleteMessage removes a message. The local removal always happens; a
// failed store delete is queued so the row is eventually removed too.
func (m *Manager) DeleteMessage(ctx context.Context, messageID string) error {
	m.mu.Lock()
	idx := -1
	for i := range m.messages {
		if m.messages[i].ID == messageID {
			idx = i
			break
		}
	}
	if idx < 0 {
		m.mu.Unlock()
		return iasted.ErrNotFound
	}
	removed := m.messages[idx]
	m.messages = append(m.messages[:idx:idx], m.messages[idx+1:]...)
	m.mu.Unlock()

	m.revokeDocs(removed)

	if err := m.conv.DeleteMessage(ctx, messageID); err != nil {
		m.log.WithError(err).WithField("message", messageID).Warn("delete persist failed, queued")
		m.queue.push(pendingOp{kind: opDelete, messageID: messageID})
	}
	return nil
}

// ClearHistory wipes the session's transcript, locally and in the store.
func (m *Manager) ClearHistory(ctx context.Context) error {
	m.mu.Lock()
	sess := m.session
	removed := m.messages
	m.messages = nil
	m.mu.Unlock()

	for _, msg := range removed {
		m.revokeDocs(msg)
	}

	if sess == nil {
		return nil
	}
	return m.conv.DeleteSessionMessages(ctx, sess.ID)
}

// EndSession marks the session ended and releases document resources. The
// next open starts fresh.
func (m *Manager) EndSession(ctx context.Context) error {
	m.mu.Lock()
	sess := m.session
	removed := m.messages
	m.session = nil
	m.messages = nil
	m.pending = nil
	m.phase = PhaseUninitialized
	m.visible = false
	m.mu.Unlock()

	for _, msg := range removed {
		m.revokeDocs(msg)
	}

	if sess == nil {
		return nil
	}
	if err := m.conv.EndSession(ctx, sess.ID); err != nil {
		return fmt.Errorf("session end: %w", err)
	}
	m.log.WithField("session", sess.ID).Info("session ended")
	return nil
}

// SetPendingDocument parks a document request for the modal to pick up.
func (m *Manager) SetPendingDocument(req docgen.Request) {
	m.mu.Lock()
	m.pending = &req
	m.mu.Unlock()
}

// TakePendingDocument returns and clears the parked request, if any.
func (m *Manager) TakePendingDocument() *docgen.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	req := m.pending
	m.pending = nil
	return req
}

// Reconcile retries queued store writes. Call it periodically or on
// reconnect; operations that fail again stay queued.
func (m *Manager) Reconcile(ctx context.Context) int {
	return m.queue.drain(ctx, m.conv, m.log)
}

// PendingWrites reports how many store writes await reconciliation.
func (m *Manager) PendingWrites() int {
	return m.queue.len()
}

func (m *Manager) revokeDocs(msg iasted.Message) {
	if m.cfg.Revoke == nil || msg.Metadata == nil {
		return
	}
	for _, doc := range msg.Metadata.Documents {
		m.cfg.Revoke(doc)
	}
}

type sendRequest struct {
	Message string           `json:"message"`
	History []iasted.Message `json:"history,omitempty"`
}

type sendResponse struct {
	Reply string `json:"reply"`
	Error string `json:"error,omitempty"`
}

// SendMessage sends a typed message through the completion endpoint and
// appends both sides of the exchange to the transcript.
func (m *Manager) SendMessage(ctx context.Context, content string) (iasted.Message, error) {
	if m.cfg.SendEndpoint == "" {
		return iasted.Message{}, fmt.Errorf("send endpoint not configured")
	}

	userMsg := iasted.NewMessage(iasted.RoleUser, content)
	m.Append(userMsg)

	payload, err := json.Marshal(sendRequest{Message: content, History: m.Messages()})
	if err != nil {
		return iasted.Message{}, fmt.Errorf("send encode: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.SendEndpoint, bytes.NewReader(payload))
	if err != nil {
		return iasted.Message{}, fmt.Errorf("send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if m.cfg.SendAuth != "" {
		req.Header.Set("Authorization", "Bearer "+m.cfg.SendAuth)
	}

	resp, err := m.cfg.HTTPClient.Do(req)
	if err != nil {
		return iasted.Message{}, fmt.Errorf("send: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return iasted.Message{}, fmt.Errorf("send read: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return iasted.Message{}, fmt.Errorf("send: status %d", resp.StatusCode)
	}

	var parsed sendResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return iasted.Message{}, fmt.Errorf("send decode: %w", err)
	}
	if parsed.Error != "" {
		return iasted.Message{}, fmt.Errorf("send: %s", parsed.Error)
	}

	reply := iasted.NewMessage(iasted.RoleAssistant, parsed.Reply)
	m.Append(reply)
	return reply, nil
}
