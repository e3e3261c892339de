package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/uigen/pkg/generate"
	"github.com/papercomputeco/uigen/pkg/llm"
	"github.com/papercomputeco/uigen/pkg/prompt"
)

// GenerateRequest is the body of POST /v1/generate.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// ContentEvent is the data of one streamed fragment.
type ContentEvent struct {
	Content string `json:"content"`
}

// ComponentsResponse lists the catalog offered to the model.
type ComponentsResponse struct {
	Components []prompt.Component `json:"components"`
	Count      int                `json:"count"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleComponents returns the active component catalog.
func (s *Server) handleComponents(c *fiber.Ctx) error {
	catalog := s.generator.Catalog()
	return c.JSON(ComponentsResponse{
		Components: catalog.Components,
		Count:      len(catalog.Components),
	})
}

// handleGenerate streams one generation as server-sent events: a data event
// per fragment, then "data: [DONE]". If the generation fails after the
// stream has started, an "error" event is sent instead of the done marker.
func (s *Server) handleGenerate(c *fiber.Ctx) error {
	var req GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: prompt.ErrEmptyPrompt.Error()})
	}

	requestID, _ := c.Locals("requestid").(string)
	log := s.logger.With("request_id", requestID)

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	// fasthttp recycles the request context once the handler returns, so the
	// generation runs on its own context and writes through a pipe.
	pr, pw := io.Pipe()
	go s.streamGeneration(req.Prompt, pw, log)

	c.Context().Response.SetBodyStream(pr, -1)

	return nil
}

// streamGeneration runs one generation and writes its events to pw. A failed
// write means the client went away, which cancels the upstream request.
func (s *Server) streamGeneration(input string, pw *io.PipeWriter, log *slog.Logger) {
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var writeErr error
	sink := generate.SinkFunc(func(text string) {
		if writeErr != nil {
			return
		}
		if writeErr = writeEvent(pw, "", ContentEvent{Content: text}); writeErr != nil {
			cancel()
		}
	})

	result, err := s.generator.Generate(ctx, input, sink)
	if writeErr != nil {
		log.Debug("client disconnected", "error", writeErr)
		return
	}

	if err != nil {
		log.Error("generation failed", "error", err)
		_ = writeEvent(pw, "error", llm.ErrorResponse{Error: clientMessage(err)})
		return
	}

	log.Debug("generation streamed", "generation_id", result.ID, "chars", len(result.Text))

	if _, err := io.WriteString(pw, "data: [DONE]\n\n"); err != nil {
		log.Debug("client disconnected before done marker", "error", err)
	}
}

// writeEvent writes one SSE event. An empty name writes a default event.
func writeEvent(w io.Writer, name string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	if name != "" {
		if _, err := fmt.Fprintf(w, "event: %s\n", name); err != nil {
			return err
		}
	}

	_, err = fmt.Fprintf(w, "data: %s\n\n", payload)
	return err
}

// clientMessage maps a generation error to the text sent to the client.
// Upstream response bodies are never forwarded.
func clientMessage(err error) string {
	var statusErr *generate.StatusError
	switch {
	case errors.As(err, &statusErr):
		return fmt.Sprintf("upstream returned status %d", statusErr.Code)
	case errors.Is(err, generate.ErrIncompleteStream):
		return "upstream stream ended early"
	default:
		return "generation failed"
	}
}
