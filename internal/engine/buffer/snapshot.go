package buffer

import (
	"fmt"

	"github.com/dshills/linecore/internal/engine/rope"
)

// Snapshot is an immutable view of the buffer at a specific revision.
// It is safe to hold and read from any goroutine while the buffer keeps
// changing; the underlying rope is never mutated.
type Snapshot struct {
	rope     rope.Rope
	revision Revision
}

// Revision returns the revision this snapshot was taken at.
func (s Snapshot) Revision() Revision {
	return s.revision
}

// Rope returns the underlying rope.
func (s Snapshot) Rope() rope.Rope {
	return s.rope
}

// Len returns the document length in bytes.
func (s Snapshot) Len() ByteOffset {
	return s.rope.Len()
}

// LineCount returns the number of lines. An empty document has one line.
func (s Snapshot) LineCount() uint32 {
	return s.rope.LineCount()
}

// Text returns the full document text.
func (s Snapshot) Text() string {
	return s.rope.String()
}

// TextRange returns the text in [start, end). The range is clamped to the
// document.
func (s Snapshot) TextRange(start, end ByteOffset) string {
	return s.rope.Slice(start, end)
}

// ReadLine returns the text of line n without its line terminator.
func (s Snapshot) ReadLine(n uint32) (string, error) {
	start, end, err := s.rope.LineRange(n)
	if err != nil {
		return "", err
	}
	return s.rope.Slice(start, end), nil
}

// LineRange returns the byte range of line n, excluding the terminator.
func (s Snapshot) LineRange(n uint32) (ByteOffset, ByteOffset, error) {
	return s.rope.LineRange(n)
}

// LineContaining returns the line that contains offset.
func (s Snapshot) LineContaining(offset ByteOffset) (uint32, error) {
	return s.rope.LineContaining(offset)
}

// OffsetToPoint converts a byte offset to a line/column point.
func (s Snapshot) OffsetToPoint(offset ByteOffset) Point {
	p := s.rope.OffsetToPoint(offset)
	return Point{Line: p.Line, Column: p.Column}
}

// PointToOffset converts a line/column point to a byte offset.
func (s Snapshot) PointToOffset(p Point) ByteOffset {
	return s.rope.PointToOffset(rope.Point{Line: p.Line, Column: p.Column})
}

// IsCharBoundary reports whether offset lies within the document and does
// not split a multi-byte character.
func (s Snapshot) IsCharBoundary(offset ByteOffset) bool {
	if offset < 0 || offset > s.Len() {
		return false
	}
	return onRuneBoundary(s.rope, offset)
}

// String returns a short description of the snapshot.
func (s Snapshot) String() string {
	return fmt.Sprintf("Snapshot(rev=%d, len=%d, lines=%d)", s.revision, s.Len(), s.LineCount())
}
