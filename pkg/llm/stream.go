package llm

// StreamChunk represents a single chunk in a streaming response, after the
// provider-specific payload has been parsed.
type StreamChunk struct {
	// Model that generated the chunk
	Model string `json:"model"`

	// The content of this chunk (typically a partial assistant message)
	Message Message `json:"message"`

	// Whether this is the final chunk
	Done bool `json:"done"`

	// Index of the choice this chunk belongs to
	Index int `json:"index,omitempty"`

	// Stop reason (only present on final chunk)
	StopReason string `json:"stop_reason,omitempty"`

	// Usage metrics (typically only present on final chunk)
	Usage *Usage `json:"usage,omitempty"`
}

// Usage contains token counts reported by the upstream.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens,omitempty"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens,omitempty"`
}
