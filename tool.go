package iasted

// ToolCall is an action request emitted by the voice model. It is constructed
// by the voice session, consumed synchronously by the dispatcher, and never
// persisted. Args is a tagged union keyed by Name: the required keys depend on
// the tool.
type ToolCall struct {
	Name string
	Args map[string]any
}

// StringArg returns the named argument as a string. The second return is
// false when the argument is absent or of another type.
func (c ToolCall) StringArg(key string) (string, bool) {
	v, ok := c.Args[key].(string)
	return v, ok
}

// StringsArg returns the named argument as a string slice. JSON-decoded
// argument maps carry arrays as []any, so both forms are accepted.
func (c ToolCall) StringsArg(key string) ([]string, bool) {
	switch v := c.Args[key].(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out, true
	default:
		return nil, false
	}
}

// ToolResult is returned synchronously to the voice session so the model can
// narrate the outcome. It reflects only the locally-known outcome:
// asynchronous failures are reported through the notification channel instead.
type ToolResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ToolOK builds a successful result.
func ToolOK(message string) ToolResult {
	return ToolResult{Success: true, Message: message}
}

// ToolErr builds a failed result.
func ToolErr(message string) ToolResult {
	return ToolResult{Success: false, Message: message}
}
