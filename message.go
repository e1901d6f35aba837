package iasted

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a single conversation turn.
// Ordering is insertion order; the in-memory list and the persisted store
// converge after every create/update/delete, without a transaction spanning both.
type Message struct {
	ID        string           `json:"id"`
	Role      Role             `json:"role"`
	Content   string           `json:"content"`
	Timestamp time.Time        `json:"timestamp"`
	Metadata  *MessageMetadata `json:"metadata,omitempty"`
}

// MessageMetadata carries optional per-message annotations.
type MessageMetadata struct {
	ResponseStyle string        `json:"response_style,omitempty"`
	Documents     []DocumentRef `json:"documents,omitempty"`
}

// DocumentRef points at a generated document attached to a message.
// The URL is transient (object-URL scoped to the browser session) and is
// revoked when the owning message is deleted or the session ends.
type DocumentRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	MIMEType string `json:"mime_type"`
}

// NewMessage creates a message with a fresh id and the current timestamp.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}
