package iasted

import "errors"

// Common errors shared across the iasted packages.
var (
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrInvalidStoreType = errors.New("invalid store type")
	ErrVersionConflict  = errors.New("session version conflict")
	ErrNotFound         = errors.New("not found")
	ErrSessionEnded     = errors.New("conversation session has ended")
	ErrAlreadyConnected = errors.New("voice session already connected")
	ErrNotConnected     = errors.New("voice session not connected")
	ErrNotReady         = errors.New("conversation session not ready")
)
