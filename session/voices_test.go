package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKnownVoice(t *testing.T) {
	assert.True(t, KnownVoice(VoiceEcho))
	assert.True(t, KnownVoice(VoiceAsh))
	assert.True(t, KnownVoice(VoiceShimmer))
	assert.False(t, KnownVoice(Voice("alloy")))
}

func TestAlternateVoice(t *testing.T) {
	// Male voices swap to the female voice and back to ash.
	assert.Equal(t, VoiceShimmer, AlternateVoice(VoiceAsh))
	assert.Equal(t, VoiceShimmer, AlternateVoice(VoiceEcho))
	assert.Equal(t, VoiceAsh, AlternateVoice(VoiceShimmer))

	// Unknown input lands on a known voice.
	assert.Equal(t, VoiceAsh, AlternateVoice(Voice("alloy")))
}

func TestClampSpeechRate(t *testing.T) {
	assert.Equal(t, 0.5, ClampSpeechRate(0.1))
	assert.Equal(t, 2.0, ClampSpeechRate(3.7))
	assert.Equal(t, 1.25, ClampSpeechRate(1.25))
}
