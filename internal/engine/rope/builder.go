package rope

import "strings"

// Builder provides incremental construction of a rope from a stream.
// Writes are buffered and cut into chunks as the buffer grows; a rune split
// across two writes is held back until it is complete.
type Builder struct {
	chunks  []string
	pending strings.Builder
}

// Write implements io.Writer.
func (b *Builder) Write(p []byte) (int, error) {
	b.WriteString(string(p))
	return len(p), nil
}

// WriteString appends s to the builder.
func (b *Builder) WriteString(s string) {
	b.pending.WriteString(s)
	if b.pending.Len() >= 4*MaxChunkSize {
		b.flush(false)
	}
}

// flush moves buffered text into chunks. Unless final is set, the last
// TargetChunkSize bytes stay buffered so a partial rune at the end of a write
// is completed by the next one.
func (b *Builder) flush(final bool) {
	s := b.pending.String()
	cut := len(s)
	if !final {
		cut = runeBoundaryBefore(s, len(s)-TargetChunkSize)
	}
	b.chunks = append(b.chunks, splitIntoChunks(s[:cut])...)
	b.pending.Reset()
	b.pending.WriteString(s[cut:])
}

// Build returns the rope containing everything written so far.
// Invalid UTF-8 is stored as is.
func (b *Builder) Build() Rope {
	b.flush(true)
	return Rope{root: buildFromChunks(b.chunks)}
}
