package sse

import (
	"errors"
	"io"
)

// readChunkSize bounds a single read from the source.
const readChunkSize = 32 * 1024

// TeeReader pulls raw chunks from a source io.Reader, feeds them to a Decoder
// and simultaneously writes every byte verbatim to a destination io.Writer.
//
// ┌──────────────────┐
// │ source io.Reader │
// └──────────────────┘
// │
// ▼
// ┌──────────────────┐   ┌───────────────────────┐
// │ TeeReader.Next() │──▶│ destination io.Writer │
// └──────────────────┘   └───────────────────────┘
// │
// ▼
// ┌──────────────────┐
// │  []FrameResult   │
// └──────────────────┘
//
// The destination typically records the raw stream for debugging while the
// caller consumes decoded results.
type TeeReader struct {
	src  io.Reader
	dest io.Writer
	dec  *Decoder
	buf  []byte

	exhausted bool
}

// NewTeeReader returns a TeeReader that decodes src with dec and writes all
// raw bytes through to dest. A nil dest discards the raw bytes.
func NewTeeReader(src io.Reader, dest io.Writer, dec *Decoder) *TeeReader {
	if dest == nil {
		dest = io.Discard
	}

	return &TeeReader{
		src:  src,
		dest: dest,
		dec:  dec,
		buf:  make([]byte, readChunkSize),
	}
}

// Next reads from the source until at least one frame completes, then returns
// the results of the chunk that completed it. It returns nil, nil once the
// decoder has seen the terminal marker or the source is exhausted; use
// Terminated to tell the two apart.
//
// Errors from the source are returned unchanged, alongside any results
// decoded from bytes read in the same call.
func (r *TeeReader) Next() ([]FrameResult, error) {
	for !r.dec.Terminated() && !r.exhausted {
		n, err := r.src.Read(r.buf)

		var results []FrameResult
		if n > 0 {
			if _, werr := r.dest.Write(r.buf[:n]); werr != nil {
				return nil, werr
			}
			results = r.dec.Feed(r.buf[:n])
		}

		if err != nil {
			if !errors.Is(err, io.EOF) {
				return results, err
			}
			r.exhausted = true
		}

		if len(results) > 0 {
			return results, nil
		}
	}

	return nil, nil
}

// Terminated reports whether the stream ended with the terminal marker.
func (r *TeeReader) Terminated() bool {
	return r.dec.Terminated()
}

// Exhausted reports whether the source reached EOF.
func (r *TeeReader) Exhausted() bool {
	return r.exhausted
}

// Decoder returns the underlying decoder.
func (r *TeeReader) Decoder() *Decoder {
	return r.dec
}
