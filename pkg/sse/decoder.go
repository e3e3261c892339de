package sse

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/papercomputeco/uigen/pkg/llm"
	"github.com/papercomputeco/uigen/pkg/llm/provider/openai"
)

// ChunkParser parses one frame payload into a stream chunk.
// provider.Provider implementations satisfy it.
type ChunkParser interface {
	ParseStreamChunk(payload []byte) (*llm.StreamChunk, error)
}

// Stats counts what a Decoder has seen so far.
type Stats struct {
	Frames       int
	Fragments    int
	Skipped      int
	NoContent    int
	Malformed    int
	Unrecognized int
}

// Option configures a Decoder created with NewDecoder.
type Option func(*Decoder)

// WithParser overrides the payload parser. Defaults to the OpenAI-compatible
// chunk parser.
func WithParser(p ChunkParser) Option {
	return func(d *Decoder) {
		d.parser = p
	}
}

// Decoder incrementally turns raw response body bytes into content fragments.
//
// A Decoder holds the partial state of exactly one stream: UTF-8 bytes that
// do not yet form a character, and text that does not yet form a line. It
// must not be reused across streams and is not safe for concurrent use.
//
//	AWAITING_TEXT --Feed--> AWAITING_TEXT --"data: [DONE]"--> TERMINATED
//
// TERMINATED is absorbing: every later Feed is a no-op.
type Decoder struct {
	parser ChunkParser
	utf8   *encoding.Decoder

	// held are trailing bytes of an incomplete UTF-8 sequence.
	held []byte
	// scratch is the transform destination buffer.
	scratch []byte
	// buf is decoded text after the last line terminator.
	buf string

	terminated bool
	stats      Stats
}

// NewDecoder returns a Decoder ready for the first chunk of a stream.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		parser:  openai.New(),
		utf8:    unicode.UTF8.NewDecoder(),
		scratch: make([]byte, 4096),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Feed consumes one chunk of bytes and returns a result for every complete
// frame it contained, in line order. The returned slice is empty when the
// chunk did not complete a line or when the decoder is already terminated.
func (d *Decoder) Feed(chunk []byte) []FrameResult {
	if d.terminated {
		return nil
	}

	d.buf += d.decode(chunk)

	// The last element never ended in a terminator; it stays buffered.
	lines := strings.Split(d.buf, "\n")
	d.buf = lines[len(lines)-1]
	lines = lines[:len(lines)-1]

	var results []FrameResult
	for _, line := range lines {
		res := d.process(strings.TrimSuffix(line, "\r"))
		results = append(results, res)

		if res.Kind == ResultDone {
			d.terminated = true
			d.buf = ""
			d.held = nil
			break
		}
	}

	return results
}

// Fragments is Feed filtered down to the content fragments.
func (d *Decoder) Fragments(chunk []byte) []string {
	return Fragments(d.Feed(chunk))
}

// Terminated reports whether the terminal marker has been seen.
func (d *Decoder) Terminated() bool {
	return d.terminated
}

// Stats returns the running frame counts.
func (d *Decoder) Stats() Stats {
	return d.stats
}

// Pending returns the buffered text that has not yet formed a complete line.
func (d *Decoder) Pending() string {
	return d.buf
}

// decode runs chunk through the UTF-8 transformer without signalling EOF, so
// an incomplete trailing sequence is held back for the next call. Invalid
// bytes are replaced with U+FFFD.
func (d *Decoder) decode(chunk []byte) string {
	src := chunk
	if len(d.held) > 0 {
		src = append(d.held, chunk...)
		d.held = nil
	}

	var out strings.Builder
	for len(src) > 0 {
		nDst, nSrc, err := d.utf8.Transform(d.scratch, src, false)
		out.Write(d.scratch[:nDst])
		src = src[nSrc:]

		if errors.Is(err, transform.ErrShortDst) {
			continue
		}
		break
	}

	if len(src) > 0 {
		d.held = append([]byte(nil), src...)
	}

	return out.String()
}

// process classifies and parses a single complete line.
func (d *Decoder) process(line string) FrameResult {
	frame := classify(line)
	d.stats.Frames++

	switch frame.Kind {
	case FrameBlank:
		d.stats.Skipped++
		return FrameResult{Kind: ResultSkipped, Frame: frame}
	case FrameDone:
		return FrameResult{Kind: ResultDone, Frame: frame}
	}

	if !looksLikeObject(frame.Payload) {
		d.stats.Unrecognized++
		return FrameResult{Kind: ResultUnrecognized, Frame: frame, Err: ErrUnrecognizedFrame}
	}

	chunk, err := d.parser.ParseStreamChunk([]byte(frame.Payload))
	if err != nil {
		d.stats.Malformed++
		return FrameResult{
			Kind:  ResultMalformed,
			Frame: frame,
			Err:   fmt.Errorf("parsing frame payload: %w", err),
		}
	}

	content := ""
	if chunk != nil {
		content = chunk.Message.GetText()
	}
	if content == "" {
		d.stats.NoContent++
		return FrameResult{Kind: ResultNoContent, Frame: frame, Chunk: chunk}
	}

	d.stats.Fragments++
	return FrameResult{Kind: ResultFragment, Frame: frame, Fragment: content, Chunk: chunk}
}
