// Package provider defines how uigen talks to an upstream LLM API: how a chat
// request is encoded and how a single streamed payload is parsed back into the
// internal representation.
package provider

import (
	"github.com/papercomputeco/uigen/pkg/llm"
)

// Provider defines the interface for encoding requests to and parsing
// streaming payloads from a specific LLM API format.
type Provider interface {
	// Name returns the canonical provider name (e.g., "openai").
	Name() string

	// EncodeRequest converts the internal request into the provider's wire body.
	EncodeRequest(req *llm.ChatRequest) ([]byte, error)

	// ParseStreamChunk converts a single streaming payload (one frame, with any
	// transport prefix already stripped) into the internal format.
	// Returns an error if the payload is not a valid chunk object.
	ParseStreamChunk(payload []byte) (*llm.StreamChunk, error)
}
