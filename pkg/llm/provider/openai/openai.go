// Package openai implements the OpenAI chat completions wire format, which is
// also spoken by most self-hosted inference servers.
package openai

import (
	"encoding/json"
	"errors"

	"github.com/papercomputeco/uigen/pkg/llm"
)

// ErrNilRequest is returned by EncodeRequest when no request is provided.
var ErrNilRequest = errors.New("nil chat request")

// provider implements the Provider interface for OpenAI's Chat Completions API.
type provider struct{}

func New() *provider { return &provider{} }

func (o *provider) Name() string {
	return "openai"
}

// EncodeRequest builds a streaming chat completions body. Message content
// blocks are flattened to plain strings.
func (o *provider) EncodeRequest(req *llm.ChatRequest) ([]byte, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	messages := make([]openaiMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, openaiMessage{
			Role:    msg.Role,
			Content: msg.GetText(),
		})
	}

	stream := true
	if req.Stream != nil {
		stream = *req.Stream
	}

	return json.Marshal(openaiRequest{
		Model:            req.Model,
		Messages:         messages,
		MaxTokens:        req.MaxTokens,
		Temperature:      req.Temperature,
		TopP:             req.TopP,
		FrequencyPenalty: req.FrequencyPenalty,
		Stream:           stream,
	})
}

// ParseStreamChunk parses a single "chat.completion.chunk" payload.
// Only the first choice is read. A chunk with no choices (e.g. a trailing
// usage-only chunk) parses successfully with an empty message.
func (o *provider) ParseStreamChunk(payload []byte) (*llm.StreamChunk, error) {
	var chunk openaiStreamChunk
	if err := json.Unmarshal(payload, &chunk); err != nil {
		return nil, err
	}

	result := &llm.StreamChunk{
		Model:   chunk.Model,
		Message: llm.Message{Role: llm.RoleAssistant},
	}

	if chunk.Usage != nil {
		result.Usage = &llm.Usage{
			PromptTokens:     chunk.Usage.PromptTokens,
			CompletionTokens: chunk.Usage.CompletionTokens,
			TotalTokens:      chunk.Usage.TotalTokens,
		}
	}

	if len(chunk.Choices) == 0 {
		return result, nil
	}

	choice := chunk.Choices[0]
	result.Index = choice.Index
	if choice.Delta.Role != "" {
		result.Message.Role = choice.Delta.Role
	}
	if choice.Delta.Content != nil && *choice.Delta.Content != "" {
		result.Message.Content = []llm.ContentBlock{{Type: "text", Text: *choice.Delta.Content}}
	}
	if choice.FinishReason != nil {
		result.StopReason = *choice.FinishReason
		result.Done = true
	}

	return result, nil
}
