package rope

import (
	"fmt"
	"strings"
)

// LineRange returns the byte range [start, end) of line n, excluding its
// newline. It fails with ErrOutOfRange when n >= LineCount().
func (r Rope) LineRange(n uint32) (ByteOffset, ByteOffset, error) {
	count := r.LineCount()
	if n >= count {
		return 0, 0, fmt.Errorf("line %d of %d: %w", n, count, ErrOutOfRange)
	}
	start := r.lineStart(n)
	end := r.Len()
	if n+1 < count {
		end = r.newlineOffset(n + 1)
	}
	return start, end, nil
}

// LineContaining returns the line that contains offset. An offset equal to
// Len() belongs to the last line. It fails with ErrOutOfRange when offset is
// negative or beyond Len().
func (r Rope) LineContaining(offset ByteOffset) (uint32, error) {
	if offset < 0 || offset > r.Len() {
		return 0, fmt.Errorf("offset %d of %d: %w", offset, r.Len(), ErrOutOfRange)
	}
	return r.newlinesBefore(offset), nil
}

// LineText returns the text of line n without its newline, or "" when the
// line does not exist.
func (r Rope) LineText(n uint32) string {
	start, end, err := r.LineRange(n)
	if err != nil {
		return ""
	}
	return r.Slice(start, end)
}

// OffsetToPoint converts a byte offset to a line/column position.
// Offsets outside the rope are clamped.
func (r Rope) OffsetToPoint(offset ByteOffset) Point {
	offset = min(max(offset, 0), r.Len())
	line := r.newlinesBefore(offset)
	return Point{Line: line, Column: uint32(offset - r.lineStart(line))}
}

// PointToOffset converts a line/column position to a byte offset.
// Lines past the end clamp to Len(); columns past the line end clamp to it.
func (r Rope) PointToOffset(p Point) ByteOffset {
	start, end, err := r.LineRange(p.Line)
	if err != nil {
		return r.Len()
	}
	return min(start+ByteOffset(p.Column), end)
}

// lineStart returns the offset of the first byte of line n (n < LineCount).
func (r Rope) lineStart(n uint32) ByteOffset {
	if n == 0 {
		return 0
	}
	return r.newlineOffset(n) + 1
}

// newlineOffset returns the offset of the nth newline (1-indexed).
// Callers guarantee 1 <= n <= Summary().Lines.
func (r Rope) newlineOffset(n uint32) ByteOffset {
	node := r.root
	var base ByteOffset
	for !node.IsLeaf() {
		for _, c := range node.children {
			if n <= c.summary.Lines {
				node = c
				break
			}
			n -= c.summary.Lines
			base += c.Len()
		}
	}
	return base + ByteOffset(nthNewline(node.text, n))
}

// newlinesBefore counts the newlines in [0, offset).
func (r Rope) newlinesBefore(offset ByteOffset) uint32 {
	var lines uint32
	node := r.root
	for node != nil && offset > 0 {
		if node.IsLeaf() {
			return lines + uint32(strings.Count(node.text[:offset], "\n"))
		}
		var next *Node
		for _, c := range node.children {
			if offset < c.Len() {
				next = c
				break
			}
			lines += c.summary.Lines
			offset -= c.Len()
		}
		node = next
	}
	return lines
}
