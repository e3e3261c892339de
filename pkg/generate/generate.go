// Package generate runs one component generation: it builds the prompt, POSTs
// a streaming chat completion request upstream, and drives the SSE decoder
// over the response body, handing each content fragment to a Sink as it
// arrives.
package generate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/uigen/pkg/llm"
	"github.com/papercomputeco/uigen/pkg/llm/provider"
	"github.com/papercomputeco/uigen/pkg/llm/provider/openai"
	"github.com/papercomputeco/uigen/pkg/logger"
	"github.com/papercomputeco/uigen/pkg/prompt"
	"github.com/papercomputeco/uigen/pkg/sse"
	"github.com/papercomputeco/uigen/pkg/utils"
)

const (
	defaultTimeout = 5 * time.Minute

	// maxErrorBody bounds how much of a non-200 response body is kept.
	maxErrorBody = 64 * 1024
)

var (
	ErrMissingEndpoint = errors.New("missing endpoint")
	ErrMissingModel    = errors.New("missing model")

	// ErrIncompleteStream is returned, alongside the partial Result, when the
	// response body ends before the done marker.
	ErrIncompleteStream = errors.New("stream ended without done marker")
)

// StatusError is returned when the upstream answers with a non-200 status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.Code, e.Body)
}

// Sink receives content fragments in stream order.
type Sink interface {
	OnFragment(text string)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(text string)

func (f SinkFunc) OnFragment(text string) { f(text) }

// Config configures a Generator.
type Config struct {
	// Endpoint is the full chat completions URL.
	Endpoint  string
	Model     string
	AuthToken string

	Temperature      float64
	MaxTokens        int
	TopP             float64
	FrequencyPenalty float64

	// Provider encodes requests and parses stream payloads. Defaults to openai.
	Provider provider.Provider

	// HTTPClient defaults to a client with a 5 minute timeout.
	HTTPClient *http.Client

	// Catalog defaults to the built-in component catalog.
	Catalog *prompt.Catalog

	Logger *slog.Logger

	// RawOutput, when set, receives every raw response byte.
	RawOutput io.Writer
}

// Result describes one finished or interrupted generation.
type Result struct {
	ID string

	// Text is every fragment concatenated in order. On error it holds what
	// arrived before the failure.
	Text string

	// Completed is true only when the stream ended with the done marker.
	Completed bool

	StopReason string
	Usage      *llm.Usage
	Stats      sse.Stats
	Duration   time.Duration
}

// Generator sends generation requests. It is safe for concurrent use as long
// as RawOutput is nil or itself safe for concurrent writes.
type Generator struct {
	cfg     Config
	client  *http.Client
	logger  *slog.Logger
	catalog atomic.Pointer[prompt.Catalog]
}

// New validates cfg and returns a Generator.
func New(cfg Config) (*Generator, error) {
	if cfg.Endpoint == "" {
		return nil, ErrMissingEndpoint
	}
	if _, err := url.ParseRequestURI(cfg.Endpoint); err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", cfg.Endpoint, err)
	}
	if cfg.Model == "" {
		return nil, ErrMissingModel
	}

	if cfg.Provider == nil {
		cfg.Provider = openai.New()
	}

	g := &Generator{
		cfg:    cfg,
		client: cfg.HTTPClient,
		logger: cfg.Logger,
	}

	if g.client == nil {
		g.client = &http.Client{Timeout: defaultTimeout}
	}
	if g.logger == nil {
		g.logger = logger.Nop()
	}

	catalog := cfg.Catalog
	if catalog == nil {
		catalog = prompt.DefaultCatalog()
	}
	g.catalog.Store(catalog)

	return g, nil
}

// Catalog returns the catalog used for new generations.
func (g *Generator) Catalog() *prompt.Catalog {
	return g.catalog.Load()
}

// SetCatalog swaps the catalog for generations started after the call.
func (g *Generator) SetCatalog(c *prompt.Catalog) {
	if c != nil {
		g.catalog.Store(c)
	}
}

// Model returns the configured model name.
func (g *Generator) Model() string {
	return g.cfg.Model
}

// Generate streams one component generation for input. sink may be nil.
//
// A non-nil Result is returned whenever the request reached the upstream and
// got a 200, even if the stream later failed; callers can keep the partial
// text. Frame-level decode problems never fail the call.
func (g *Generator) Generate(ctx context.Context, input string, sink Sink) (*Result, error) {
	start := time.Now()
	id := uuid.NewString()
	log := g.logger.With("generation_id", id)

	messages, err := prompt.Messages(g.Catalog(), input)
	if err != nil {
		return nil, err
	}

	body, err := g.cfg.Provider.EncodeRequest(g.request(messages))
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if g.cfg.AuthToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.cfg.AuthToken)
	}

	log.Debug("sending generation request",
		"endpoint", g.cfg.Endpoint,
		"model", g.cfg.Model,
		"prompt", utils.Truncate(input, 80),
	)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{Code: resp.StatusCode, Body: string(respBody)}
	}

	dec := sse.NewDecoder(sse.WithParser(g.cfg.Provider))
	tee := sse.NewTeeReader(resp.Body, g.cfg.RawOutput, dec)
	acc := &sse.Accumulator{}
	result := &Result{ID: id}

	finish := func() {
		result.Text = acc.String()
		result.Completed = tee.Terminated()
		result.Stats = dec.Stats()
		result.Duration = time.Since(start)
	}

	for {
		results, err := tee.Next()
		for _, r := range results {
			g.handle(log, r, acc, sink, result)
		}

		if err != nil {
			finish()
			log.Warn("stream interrupted", "fragments", acc.Count(), "error", err)
			return result, fmt.Errorf("reading stream: %w", err)
		}
		if results == nil {
			break
		}
	}

	finish()

	if !result.Completed {
		log.Warn("stream ended without done marker",
			"fragments", acc.Count(),
			"pending", utils.Truncate(dec.Pending(), 80),
		)
		return result, ErrIncompleteStream
	}

	log.Info("generation complete",
		"fragments", result.Stats.Fragments,
		"skipped_frames", result.Stats.Malformed+result.Stats.Unrecognized,
		"chars", acc.Len(),
		"duration", result.Duration,
	)

	return result, nil
}

func (g *Generator) handle(log *slog.Logger, r sse.FrameResult, acc *sse.Accumulator, sink Sink, result *Result) {
	switch r.Kind {
	case sse.ResultFragment:
		acc.Append(r.Fragment)
		if sink != nil {
			sink.OnFragment(r.Fragment)
		}
	case sse.ResultMalformed, sse.ResultUnrecognized:
		log.Debug("skipping frame",
			"kind", r.Kind.String(),
			"line", utils.Truncate(r.Frame.Line, 120),
			"error", r.Err,
		)
	}

	if r.Chunk != nil {
		if r.Chunk.StopReason != "" {
			result.StopReason = r.Chunk.StopReason
		}
		if r.Chunk.Usage != nil {
			result.Usage = r.Chunk.Usage
		}
	}
}

func (g *Generator) request(messages []llm.Message) *llm.ChatRequest {
	stream := true
	temperature := g.cfg.Temperature
	topP := g.cfg.TopP
	frequencyPenalty := g.cfg.FrequencyPenalty

	req := &llm.ChatRequest{
		Model:            g.cfg.Model,
		Messages:         messages,
		Stream:           &stream,
		Temperature:      &temperature,
		TopP:             &topP,
		FrequencyPenalty: &frequencyPenalty,
	}

	if g.cfg.MaxTokens > 0 {
		maxTokens := g.cfg.MaxTokens
		req.MaxTokens = &maxTokens
	}

	return req
}
