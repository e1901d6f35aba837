package store

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"

	iasted "github.com/admin-ga/iasted"
)

const (
	sessionsTable  = "conversation_sessions"
	messagesTable  = "conversation_messages"
	documentsTable = "generated_documents"
	settingsTable  = "system_settings"

	documentsBucket = "generated-documents"
)

// Config holds Supabase connection configuration.
type Config struct {
	URL      string
	APIKey   string
	CacheTTL time.Duration // Default: 5 minutes
}

// Client implements Conversations, Documents and Settings using Supabase.
type Client struct {
	client   *supabase.Client
	cache    *sessionCache
	cacheTTL time.Duration
}

// sessionCache provides thread-safe caching of recent-session lookups per user.
type sessionCache struct {
	mu     sync.RWMutex
	byUser map[string]*cacheEntry
}

type cacheEntry struct {
	session   *Session
	expiresAt time.Time
}

// New creates a new Supabase-backed store client.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("supabase URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("supabase API key is required")
	}

	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 5 * time.Minute
	}

	client, err := supabase.NewClient(cfg.URL, cfg.APIKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	return &Client{
		client:   client,
		cacheTTL: cfg.CacheTTL,
		cache: &sessionCache{
			byUser: make(map[string]*cacheEntry),
		},
	}, nil
}

// FindRecentSession implements Conversations.
func (c *Client) FindRecentSession(ctx context.Context, userID string, since time.Time) (*Session, error) {
	if cached := c.cachedSession(userID, since); cached != nil {
		return cached, nil
	}

	var sessions []Session
	_, err := c.client.From(sessionsTable).
		Select("*", "", false).
		Eq("user_id", userID).
		Gte("updated_at", since.UTC().Format(time.RFC3339)).
		Is("ended_at", "null").
		Order("updated_at", &postgrest.OrderOpts{Ascending: false}).
		Limit(1, "").
		ExecuteTo(&sessions)

	if err != nil {
		return nil, fmt.Errorf("failed to find recent session: %w", err)
	}

	if len(sessions) == 0 {
		return nil, nil
	}

	session := &sessions[0]
	c.cacheSession(userID, session)
	return session, nil
}

// CreateSession implements Conversations.
func (c *Client) CreateSession(ctx context.Context, s *Session) error {
	var inserted []Session
	_, err := c.client.From(sessionsTable).
		Insert(s, false, "", "representation", "").
		ExecuteTo(&inserted)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	if len(inserted) > 0 {
		*s = inserted[0]
	}
	c.cacheSession(s.UserID, s)
	return nil
}

// EndSession implements Conversations.
func (c *Client) EndSession(ctx context.Context, sessionID string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, _, err := c.client.From(sessionsTable).
		Update(map[string]any{"ended_at": now, "updated_at": now}, "", "").
		Eq("id", sessionID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	c.invalidateSessions()
	return nil
}

// InsertMessage implements Conversations.
func (c *Client) InsertMessage(ctx context.Context, sessionID string, m iasted.Message) error {
	_, _, err := c.client.From(messagesTable).
		Insert(toRow(sessionID, m), false, "", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// UpdateMessage implements Conversations.
func (c *Client) UpdateMessage(ctx context.Context, messageID, content string) error {
	_, _, err := c.client.From(messagesTable).
		Update(map[string]any{"content": content}, "", "").
		Eq("id", messageID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update message: %w", err)
	}
	return nil
}

// DeleteMessage implements Conversations.
func (c *Client) DeleteMessage(ctx context.Context, messageID string) error {
	_, _, err := c.client.From(messagesTable).
		Delete("", "").
		Eq("id", messageID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// DeleteSessionMessages implements Conversations.
func (c *Client) DeleteSessionMessages(ctx context.Context, sessionID string) error {
	_, _, err := c.client.From(messagesTable).
		Delete("", "").
		Eq("session_id", sessionID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete session messages: %w", err)
	}
	return nil
}

// ListMessages implements Conversations.
func (c *Client) ListMessages(ctx context.Context, sessionID string) ([]iasted.Message, error) {
	var rows []messageRow
	_, err := c.client.From(messagesTable).
		Select("*", "", false).
		Eq("session_id", sessionID).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	messages := make([]iasted.Message, 0, len(rows))
	for _, r := range rows {
		messages = append(messages, fromRow(r))
	}
	return messages, nil
}

// Upload implements Documents.
func (c *Client) Upload(ctx context.Context, path, contentType string, data []byte) (string, error) {
	_, err := c.client.Storage.UploadFile(documentsBucket, path, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to upload document: %w", err)
	}
	return path, nil
}

// SignedURL implements Documents.
func (c *Client) SignedURL(ctx context.Context, path string, expiresIn time.Duration) (string, error) {
	resp, err := c.client.Storage.CreateSignedUrl(documentsBucket, path, int(expiresIn.Seconds()))
	if err != nil {
		return "", fmt.Errorf("failed to create signed url: %w", err)
	}
	return resp.SignedURL, nil
}

// InsertDocument implements Documents.
func (c *Client) InsertDocument(ctx context.Context, rec *DocumentRecord) error {
	var inserted []DocumentRecord
	_, err := c.client.From(documentsTable).
		Insert(rec, false, "", "representation", "").
		ExecuteTo(&inserted)
	if err != nil {
		return fmt.Errorf("failed to insert document record: %w", err)
	}
	if len(inserted) > 0 {
		*rec = inserted[0]
	}
	return nil
}

// ListDocuments implements Documents.
func (c *Client) ListDocuments(ctx context.Context, userID string) ([]DocumentRecord, error) {
	var docs []DocumentRecord
	_, err := c.client.From(documentsTable).
		Select("*", "", false).
		Eq("user_id", userID).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		ExecuteTo(&docs)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

// DeleteDocument implements Documents.
func (c *Client) DeleteDocument(ctx context.Context, id, path string) error {
	if _, err := c.client.Storage.RemoveFile(documentsBucket, []string{path}); err != nil {
		return fmt.Errorf("failed to remove stored document: %w", err)
	}

	_, _, err := c.client.From(documentsTable).
		Delete("", "").
		Eq("id", id).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete document record: %w", err)
	}
	return nil
}

// GetSetting implements Settings.
func (c *Client) GetSetting(ctx context.Context, key string) (string, error) {
	var rows []struct {
		Value string `json:"value"`
	}
	_, err := c.client.From(settingsTable).
		Select("value", "", false).
		Eq("key", key).
		Limit(1, "").
		ExecuteTo(&rows)
	if err != nil {
		return "", fmt.Errorf("failed to get setting: %w", err)
	}
	if len(rows) == 0 {
		return "", iasted.ErrNotFound
	}
	return rows[0].Value, nil
}

// SetSetting implements Settings.
func (c *Client) SetSetting(ctx context.Context, key, value string) error {
	row := map[string]any{"key": key, "value": value}
	_, _, err := c.client.From(settingsTable).
		Insert(row, true, "key", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("failed to set setting: %w", err)
	}
	return nil
}

// Close implements Conversations.
func (c *Client) Close() error {
	c.cache.mu.Lock()
	defer c.cache.mu.Unlock()
	c.cache.byUser = make(map[string]*cacheEntry)
	return nil
}

func (c *Client) cachedSession(userID string, since time.Time) *Session {
	c.cache.mu.RLock()
	defer c.cache.mu.RUnlock()

	entry, ok := c.cache.byUser[userID]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil
	}
	if entry.session.Ended() || entry.session.UpdatedAt.Before(since) {
		return nil
	}
	return entry.session
}

func (c *Client) cacheSession(userID string, s *Session) {
	c.cache.mu.Lock()
	defer c.cache.mu.Unlock()

	c.cache.byUser[userID] = &cacheEntry{
		session:   s,
		expiresAt: time.Now().Add(c.cacheTTL),
	}
}

func (c *Client) invalidateSessions() {
	c.cache.mu.Lock()
	defer c.cache.mu.Unlock()
	c.cache.byUser = make(map[string]*cacheEntry)
}
