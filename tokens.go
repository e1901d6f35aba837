package iasted

// EstimateTokens estimates the token count for a given text using a Unicode-aware heuristic.
// ASCII characters (French without diacritics, numbers, punctuation) are weighted at ~4 per token.
// Non-ASCII characters (accented letters, CJK, Emoji, etc.) are weighted at ~1 per token.
func EstimateTokens(text string) int {
	weight := 0
	for _, r := range text {
		switch {
		case r <= 127: // ASCII
			weight += 1 // ~4 ASCII chars = 1 token
		default: // Non-ASCII
			weight += 4 // ~1 non-ASCII char = 1 token (conservative)
		}
	}
	return (weight + 3) / 4
}
