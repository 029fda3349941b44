package buffer

import (
	"fmt"

	"github.com/dshills/linecore/internal/engine/rope"
)

// ByteOffset represents a byte position in the buffer.
type ByteOffset = rope.ByteOffset

// Point represents a line and column position.
// Both Line and Column are 0-indexed; Column is measured in bytes.
type Point struct {
	Line   uint32
	Column uint32
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Point) Compare(other Point) int {
	switch {
	case p.Line != other.Line:
		if p.Line < other.Line {
			return -1
		}
		return 1
	case p.Column < other.Column:
		return -1
	case p.Column > other.Column:
		return 1
	}
	return 0
}

// Revision counts committed changes to a buffer. It starts at 0 and grows by
// one for every applied edit or batch.
type Revision uint64
