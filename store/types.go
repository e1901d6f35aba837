package store

import (
	"time"

	iasted "github.com/admin-ga/iasted"
)

// Session represents a row of the conversation_sessions table.
type Session struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Title     string         `json:"title,omitempty"`
	StartedAt time.Time      `json:"started_at"`
	EndedAt   *time.Time     `json:"ended_at,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
	Settings  map[string]any `json:"settings,omitempty"`
	FocusMode *string        `json:"focus_mode,omitempty"`
}

// Ended reports whether the session has been explicitly closed.
func (s *Session) Ended() bool {
	return s != nil && s.EndedAt != nil
}

// messageRow mirrors the conversation_messages table layout.
type messageRow struct {
	ID        string                  `json:"id"`
	SessionID string                  `json:"session_id"`
	Role      string                  `json:"role"`
	Content   string                  `json:"content"`
	Metadata  *iasted.MessageMetadata `json:"metadata,omitempty"`
	CreatedAt time.Time               `json:"created_at"`
}

func toRow(sessionID string, m iasted.Message) messageRow {
	return messageRow{
		ID:        m.ID,
		SessionID: sessionID,
		Role:      string(m.Role),
		Content:   m.Content,
		Metadata:  m.Metadata,
		CreatedAt: m.Timestamp,
	}
}

func fromRow(r messageRow) iasted.Message {
	return iasted.Message{
		ID:        r.ID,
		Role:      iasted.Role(r.Role),
		Content:   r.Content,
		Metadata:  r.Metadata,
		Timestamp: r.CreatedAt,
	}
}

// DocumentRecord represents a row of the generated_documents table.
type DocumentRecord struct {
	ID           string         `json:"id,omitempty"`
	UserID       string         `json:"user_id"`
	DocumentName string         `json:"document_name"`
	DocumentType string         `json:"document_type"`
	TemplateUsed string         `json:"template_used"`
	FilePath     string         `json:"file_path"`
	FileSize     int            `json:"file_size"`
	StorageURL   string         `json:"storage_url"`
	Metadata     map[string]any `json:"metadata"`
	CreatedAt    time.Time      `json:"created_at,omitempty"`
}
