// Package vectorstore abstracts similarity search over the knowledge base
// that grounds the assistant's answers.
package vectorstore

import "context"

// VectorStore searches the knowledge base by embedding vector.
type VectorStore interface {
	// Search returns the entries closest to the query vector, best first.
	Search(ctx context.Context, vector []float32, filter SearchFilter, limit int) ([]Entry, error)

	// Close releases resources held by the store.
	Close() error
}

// SearchFilter narrows a knowledge search.
type SearchFilter struct {
	// Spaces restricts results to knowledge scoped to these workspaces.
	// Empty means no space restriction.
	Spaces []string

	// Category restricts results to one knowledge category, e.g.
	// "institutionnel" or "protocole".
	Category string

	// MaxAccessLevel drops entries whose access level exceeds the caller's
	// clearance. Zero means no restriction.
	MaxAccessLevel int

	// MinScore drops results below this similarity threshold (0.0-1.0).
	MinScore float32
}

// Entry is one knowledge-base hit.
type Entry struct {
	ID string

	// Score is the similarity score, higher is closer.
	Score float32

	// Content is the text injected into the system prompt.
	Content string

	// Title is the entry's display title.
	Title string

	// Category classifies the entry.
	Category string

	// Space is the workspace the entry is scoped to, empty for global.
	Space string

	// AccessLevel is the clearance required to read the entry.
	AccessLevel int
}
