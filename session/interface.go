package session

import "context"

// Store defines the interface for voice-session snapshot storage.
type Store interface {
	// Create creates a new session snapshot with Version set to 1.
	Create(ctx context.Context, data *State) error

	// Get retrieves a session snapshot by ID.
	// Returns nil if the session is not found (not an error).
	Get(ctx context.Context, id string) (*State, error)

	// Update updates an existing snapshot with optimistic locking.
	// Verifies the Version matches the stored version, increments Version,
	// updates UpdatedAt, and persists the State.
	// Returns iasted.ErrVersionConflict if the version does not match.
	// Returns iasted.ErrNotFound if the session does not exist.
	Update(ctx context.Context, data *State) error

	// Delete deletes a session snapshot by ID.
	Delete(ctx context.Context, id string) error

	// Close closes the store and releases any resources.
	Close() error
}
