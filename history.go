package iasted

// TruncateHistory truncates a conversation history based on token and message limits.
// It applies the message limit first, then the token limit, removing oldest messages
// as needed. The most recent messages are preserved. Token counts are estimated from
// message content with EstimateTokens.
//
// This is the window sent to the voice/chat provider with each request; the full
// history stays in the persisted store.
func TruncateHistory(history []Message, tokenLimit, messageLimit int) []Message {
	if len(history) == 0 {
		return history
	}

	if messageLimit > 0 && len(history) > messageLimit {
		history = history[len(history)-messageLimit:]
	}

	totalTokens := 0
	for _, msg := range history {
		totalTokens += EstimateTokens(msg.Content)
	}

	for totalTokens > tokenLimit && len(history) > 0 {
		totalTokens -= EstimateTokens(history[0].Content)
		history = history[1:]
	}

	return history
}
