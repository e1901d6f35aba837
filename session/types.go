package session

import "time"

// VoiceState tracks where a live voice session is in its lifecycle.
type VoiceState string

const (
	StateIdle       VoiceState = "idle"
	StateConnecting VoiceState = "connecting"
	StateConnected  VoiceState = "connected"
	StateListening  VoiceState = "listening"
	StateThinking   VoiceState = "thinking"
	StateSpeaking   VoiceState = "speaking"
	StateError      VoiceState = "error"
)

// Voice identifies one of the provider's voices. The set is closed.
type Voice string

const (
	VoiceEcho    Voice = "echo"
	VoiceAsh     Voice = "ash"
	VoiceShimmer Voice = "shimmer"
)

// State is the serializable snapshot of a live voice session.
// It is persisted so a session's voice, speech rate and prompt survive a
// service restart within the snapshot TTL.
//
// PERSISTED:
// - ID: unique session identifier
// - UserID: owner; a session is owned by one space and never shared across spaces
// - CreatedAt, UpdatedAt: timestamps
// - Version: monotonically increasing, for optimistic locking
// - Voice, SpeechRate, SystemPrompt: connection parameters
// - VoiceState, AudioLevel: last observed runtime state (informational)
type State struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Version      int64      `json:"version"`
	Voice        Voice      `json:"voice"`
	SpeechRate   float64    `json:"speech_rate"`
	SystemPrompt string     `json:"system_prompt"`
	VoiceState   VoiceState `json:"voice_state"`
	AudioLevel   float64    `json:"audio_level"` // 0-100, smoothed
}
