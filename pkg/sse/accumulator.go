package sse

import "strings"

// Accumulator is the ever-growing concatenation of every fragment produced
// for one stream. It only appends; nothing is truncated or reordered.
type Accumulator struct {
	text  strings.Builder
	count int
}

// Add appends the fragments carried by results and returns them.
func (a *Accumulator) Add(results []FrameResult) []string {
	fragments := Fragments(results)
	for _, f := range fragments {
		a.Append(f)
	}
	return fragments
}

// Append appends a single fragment.
func (a *Accumulator) Append(fragment string) {
	if fragment == "" {
		return
	}
	a.text.WriteString(fragment)
	a.count++
}

// String returns the accumulated text.
func (a *Accumulator) String() string {
	return a.text.String()
}

// Len returns the accumulated text length in bytes.
func (a *Accumulator) Len() int {
	return a.text.Len()
}

// Count returns the number of fragments appended.
func (a *Accumulator) Count() int {
	return a.count
}
