package store

import (
	"context"
	"time"

	iasted "github.com/admin-ga/iasted"
)

// Conversations provides access to persisted conversation sessions and
// messages. The backing store is an opaque relational database with row-level
// access control; this package only requires insert, update, delete-by-id,
// delete-by-session, and ordered select-by-session.
type Conversations interface {
	// FindRecentSession returns the most recent non-ended session for the
	// user updated at or after since.
	// Returns nil if no such session exists (not an error).
	FindRecentSession(ctx context.Context, userID string, since time.Time) (*Session, error)

	// CreateSession inserts a new session and fills in its generated fields.
	CreateSession(ctx context.Context, s *Session) error

	// EndSession marks a session as ended.
	EndSession(ctx context.Context, sessionID string) error

	// InsertMessage appends a message to a session.
	InsertMessage(ctx context.Context, sessionID string, m iasted.Message) error

	// UpdateMessage replaces the content of an existing message.
	UpdateMessage(ctx context.Context, messageID, content string) error

	// DeleteMessage removes a message by id.
	DeleteMessage(ctx context.Context, messageID string) error

	// DeleteSessionMessages removes every message belonging to a session.
	DeleteSessionMessages(ctx context.Context, sessionID string) error

	// ListMessages returns a session's messages in chronological order.
	ListMessages(ctx context.Context, sessionID string) ([]iasted.Message, error)

	// Close releases resources held by the store.
	Close() error
}

// Documents persists metadata rows and binary artifacts for generated
// documents.
type Documents interface {
	// Upload stores a binary artifact in the documents bucket and returns
	// its storage path.
	Upload(ctx context.Context, path, contentType string, data []byte) (string, error)

	// SignedURL returns a time-limited access URL for a stored artifact.
	SignedURL(ctx context.Context, path string, expiresIn time.Duration) (string, error)

	// InsertDocument records a generated document's metadata.
	InsertDocument(ctx context.Context, rec *DocumentRecord) error

	// ListDocuments returns the user's generated documents, newest first.
	ListDocuments(ctx context.Context, userID string) ([]DocumentRecord, error)

	// DeleteDocument removes both the stored artifact and its metadata row.
	DeleteDocument(ctx context.Context, id, path string) error
}

// Settings reads and writes system settings key-value pairs.
type Settings interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}
