package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	iasted "github.com/admin-ga/iasted"
)

// Memory implements Conversations, Documents and Settings in process memory.
// It backs tests and local development without a Supabase project.
type Memory struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	messages  map[string][]iasted.Message // keyed by session id
	documents map[string]DocumentRecord
	objects   map[string][]byte
	settings  map[string]string

	// FailWrites makes every mutating call return an error; tests use it to
	// exercise optimistic-update behavior under persistence failures.
	FailWrites error
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		sessions:  make(map[string]*Session),
		messages:  make(map[string][]iasted.Message),
		documents: make(map[string]DocumentRecord),
		objects:   make(map[string][]byte),
		settings:  make(map[string]string),
	}
}

// FindRecentSession implements Conversations.
func (m *Memory) FindRecentSession(ctx context.Context, userID string, since time.Time) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var best *Session
	for _, s := range m.sessions {
		if s.UserID != userID || s.Ended() || s.UpdatedAt.Before(since) {
			continue
		}
		if best == nil || s.UpdatedAt.After(best.UpdatedAt) {
			best = s
		}
	}
	return best, nil
}

// CreateSession implements Conversations.
func (m *Memory) CreateSession(ctx context.Context, s *Session) error {
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now()
	if s.StartedAt.IsZero() {
		s.StartedAt = now
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = now
	}
	m.sessions[s.ID] = s
	return nil
}

// EndSession implements Conversations.
func (m *Memory) EndSession(ctx context.Context, sessionID string) error {
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[sessionID]
	if !ok {
		return iasted.ErrNotFound
	}
	now := time.Now()
	s.EndedAt = &now
	s.UpdatedAt = now
	return nil
}

// InsertMessage implements Conversations.
func (m *Memory) InsertMessage(ctx context.Context, sessionID string, msg iasted.Message) error {
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.messages[sessionID] = append(m.messages[sessionID], msg)
	if s, ok := m.sessions[sessionID]; ok {
		s.UpdatedAt = time.Now()
	}
	return nil
}

// UpdateMessage implements Conversations.
func (m *Memory) UpdateMessage(ctx context.Context, messageID, content string) error {
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for sessionID, msgs := range m.messages {
		for i := range msgs {
			if msgs[i].ID == messageID {
				msgs[i].Content = content
				m.messages[sessionID] = msgs
				return nil
			}
		}
	}
	return iasted.ErrNotFound
}

// DeleteMessage implements Conversations.
func (m *Memory) DeleteMessage(ctx context.Context, messageID string) error {
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for sessionID, msgs := range m.messages {
		for i := range msgs {
			if msgs[i].ID == messageID {
				m.messages[sessionID] = append(msgs[:i:i], msgs[i+1:]...)
				return nil
			}
		}
	}
	return iasted.ErrNotFound
}

// DeleteSessionMessages implements Conversations.
func (m *Memory) DeleteSessionMessages(ctx context.Context, sessionID string) error {
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.messages, sessionID)
	return nil
}

// ListMessages implements Conversations.
func (m *Memory) ListMessages(ctx context.Context, sessionID string) ([]iasted.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	msgs := append([]iasted.Message(nil), m.messages[sessionID]...)
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})
	return msgs, nil
}

// Upload implements Documents.
func (m *Memory) Upload(ctx context.Context, path, contentType string, data []byte) (string, error) {
	if m.FailWrites != nil {
		return "", m.FailWrites
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.objects[path] = append([]byte(nil), data...)
	return path, nil
}

// SignedURL implements Documents.
func (m *Memory) SignedURL(ctx context.Context, path string, expiresIn time.Duration) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.objects[path]; !ok {
		return "", iasted.ErrNotFound
	}
	return "memory://" + path, nil
}

// InsertDocument implements Documents.
func (m *Memory) InsertDocument(ctx context.Context, rec *DocumentRecord) error {
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	m.documents[rec.ID] = *rec
	return nil
}

// ListDocuments implements Documents.
func (m *Memory) ListDocuments(ctx context.Context, userID string) ([]DocumentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []DocumentRecord
	for _, d := range m.documents {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// DeleteDocument implements Documents.
func (m *Memory) DeleteDocument(ctx context.Context, id, path string) error {
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.documents, id)
	delete(m.objects, path)
	return nil
}

// GetSetting implements Settings.
func (m *Memory) GetSetting(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.settings[key]
	if !ok {
		return "", iasted.ErrNotFound
	}
	return v, nil
}

// SetSetting implements Settings.
func (m *Memory) SetSetting(ctx context.Context, key, value string) error {
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings[key] = value
	return nil
}

// Object returns a stored artifact's bytes; tests use it to assert uploads.
func (m *Memory) Object(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.objects[path]
	return data, ok
}

// Close implements Conversations.
func (m *Memory) Close() error { return nil }
