package llm

// ChatRequest represents a provider-agnostic chat completion request.
// Providers encode it into their own wire format before it is sent upstream.
type ChatRequest struct {
	// Model name (e.g., "gpt-4o", "llama3.1")
	Model string `json:"model"`

	// Conversation messages
	Messages []Message `json:"messages"`

	// Whether to stream the response
	Stream *bool `json:"stream,omitempty"`

	// Generation parameters
	MaxTokens        *int     `json:"max_tokens,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
	TopP             *float64 `json:"top_p,omitempty"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty"`
}

// ErrorResponse is the JSON body returned by uigen's HTTP surfaces on failure.
type ErrorResponse struct {
	Error string `json:"error"`
}
