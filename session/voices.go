package session

// Voice classes for the alternation convenience default: a change_voice tool
// call without an explicit voice_id switches class rather than guessing.
var (
	maleVoices   = map[Voice]bool{VoiceAsh: true, VoiceEcho: true}
	femaleVoices = map[Voice]bool{VoiceShimmer: true}
)

// KnownVoice reports whether id belongs to the provider's closed voice set.
func KnownVoice(id Voice) bool {
	return maleVoices[id] || femaleVoices[id]
}

// AlternateVoice returns the voice to switch to when no explicit voice was
// requested: from a male voice it yields shimmer, from a female voice ash.
// Unknown voices also fall back to ash.
func AlternateVoice(current Voice) Voice {
	if maleVoices[current] {
		return VoiceShimmer
	}
	return VoiceAsh
}

// ClampSpeechRate bounds a speech rate to the provider's supported range.
func ClampSpeechRate(rate float64) float64 {
	if rate < 0.5 {
		return 0.5
	}
	if rate > 2.0 {
		return 2.0
	}
	return rate
}
