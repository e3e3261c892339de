// Package sse decodes the line-delimited event stream returned by
// OpenAI-compatible chat completion endpoints into incremental text.
//
// The Decoder is a pure state machine over bytes in, text out: it owns no I/O,
// tolerates frames split across arbitrary chunk boundaries (including inside a
// multi-byte character), skips malformed frames without failing the stream,
// and stops producing output once it sees the "data: [DONE]" marker.
// TeeReader is the pull loop that feeds a Decoder from an io.Reader.
package sse

import (
	"errors"
	"strings"

	"github.com/papercomputeco/uigen/pkg/llm"
)

const (
	// DataPrefix marks an event-data line.
	DataPrefix = "data: "

	// DoneMarker is the literal line that signals successful end of content.
	DoneMarker = DataPrefix + "[DONE]"
)

// ErrUnrecognizedFrame is recorded for frames whose payload does not look
// like a JSON object.
var ErrUnrecognizedFrame = errors.New("unrecognized frame")

// FrameKind classifies a single decoded line. Every line has exactly one kind.
type FrameKind int

const (
	// FrameBlank is an empty or whitespace-only line.
	FrameBlank FrameKind = iota

	// FrameDone is the terminal marker line.
	FrameDone

	// FrameData is a line carrying the "data: " prefix.
	FrameData

	// FrameBare is any other line; the whole line is its payload.
	FrameBare
)

func (k FrameKind) String() string {
	switch k {
	case FrameBlank:
		return "blank"
	case FrameDone:
		return "done"
	case FrameData:
		return "data"
	case FrameBare:
		return "bare"
	default:
		return "unknown"
	}
}

// Frame is one line of the decoded stream without its line terminator.
type Frame struct {
	Kind FrameKind

	// Line is the full line as received.
	Line string

	// Payload is the line with the data prefix removed. Empty for blank and
	// done frames.
	Payload string
}

// classify builds a Frame from one complete line.
func classify(line string) Frame {
	switch {
	case strings.TrimSpace(line) == "":
		return Frame{Kind: FrameBlank, Line: line}
	case line == DoneMarker:
		return Frame{Kind: FrameDone, Line: line}
	case strings.HasPrefix(line, DataPrefix):
		return Frame{Kind: FrameData, Line: line, Payload: line[len(DataPrefix):]}
	default:
		return Frame{Kind: FrameBare, Line: line, Payload: line}
	}
}

// looksLikeObject reports whether the payload's first non-whitespace
// character opens a JSON object.
func looksLikeObject(payload string) bool {
	return strings.HasPrefix(strings.TrimLeft(payload, " \t\r\n"), "{")
}

// ResultKind is the outcome of processing one frame.
type ResultKind int

const (
	// ResultSkipped means the frame was blank.
	ResultSkipped ResultKind = iota

	// ResultFragment means the frame produced a content fragment.
	ResultFragment

	// ResultNoContent means the frame parsed but carried no content.
	ResultNoContent

	// ResultMalformed means the payload looked like JSON but failed to parse.
	ResultMalformed

	// ResultUnrecognized means the payload did not look like a JSON object.
	ResultUnrecognized

	// ResultDone means the frame was the terminal marker.
	ResultDone
)

func (k ResultKind) String() string {
	switch k {
	case ResultSkipped:
		return "skipped"
	case ResultFragment:
		return "fragment"
	case ResultNoContent:
		return "no_content"
	case ResultMalformed:
		return "malformed"
	case ResultUnrecognized:
		return "unrecognized"
	case ResultDone:
		return "done"
	default:
		return "unknown"
	}
}

// FrameResult is the per-frame discriminated result returned by Decoder.Feed.
type FrameResult struct {
	Kind  ResultKind
	Frame Frame

	// Fragment is set only when Kind is ResultFragment.
	Fragment string

	// Chunk is the parsed payload for ResultFragment and ResultNoContent. It
	// carries the stop reason and usage of the final chunk.
	Chunk *llm.StreamChunk

	// Err is set only when Kind is ResultMalformed or ResultUnrecognized.
	Err error
}

// Recoverable reports whether the result records a frame-scoped decode error.
func (r FrameResult) Recoverable() bool {
	return r.Kind == ResultMalformed || r.Kind == ResultUnrecognized
}

// Fragments returns the content fragments in results, in order.
func Fragments(results []FrameResult) []string {
	var out []string
	for _, r := range results {
		if r.Kind == ResultFragment {
			out = append(out, r.Fragment)
		}
	}
	return out
}
