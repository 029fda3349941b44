package rope

import (
	"errors"
	"io"
	"strings"
)

// ErrOutOfRange is returned when a line or offset lies beyond the text.
var ErrOutOfRange = errors.New("out of range")

// Rope is an immutable rope data structure for efficient text storage.
// Operations return new Rope values; the original is never modified.
// The zero value is an empty rope.
type Rope struct {
	root *Node
}

// New creates an empty rope.
func New() Rope {
	return Rope{}
}

// FromString creates a rope from a string.
func FromString(s string) Rope {
	return Rope{root: buildFromChunks(splitIntoChunks(s))}
}

// FromReader creates a rope from an io.Reader.
func FromReader(r io.Reader) (Rope, error) {
	var b Builder
	if _, err := io.Copy(&b, r); err != nil {
		return Rope{}, err
	}
	return b.Build(), nil
}

// Len returns the total byte length.
func (r Rope) Len() ByteOffset {
	if r.root == nil {
		return 0
	}
	return r.root.Len()
}

// LineCount returns the number of lines (newlines + 1).
// An empty rope has one empty line.
func (r Rope) LineCount() uint32 {
	if r.root == nil {
		return 1
	}
	return r.root.summary.Lines + 1
}

// IsEmpty returns true if the rope contains no text.
func (r Rope) IsEmpty() bool {
	return r.Len() == 0
}

// Summary returns the aggregated metrics for the entire rope.
func (r Rope) Summary() TextSummary {
	if r.root == nil {
		return TextSummary{Flags: FlagASCII}
	}
	return r.root.summary
}

// String returns the full text as a string.
// Use sparingly for large ropes.
func (r Rope) String() string {
	if r.root == nil {
		return ""
	}
	var sb strings.Builder
	sb.Grow(int(r.Len()))
	r.root.appendTo(&sb)
	return sb.String()
}

// Slice returns the text in the byte range [start, end), clamped to the rope.
func (r Rope) Slice(start, end ByteOffset) string {
	start = max(start, 0)
	end = min(end, r.Len())
	if r.root == nil || start >= end {
		return ""
	}
	var sb strings.Builder
	sb.Grow(int(end - start))
	r.root.appendRange(&sb, start, end)
	return sb.String()
}

// Insert inserts text at the given byte offset.
func (r Rope) Insert(offset ByteOffset, text string) Rope {
	return r.Replace(offset, offset, text)
}

// Delete removes text in the byte range [start, end).
func (r Rope) Delete(start, end ByteOffset) Rope {
	return r.Replace(start, end, "")
}

// Replace replaces the byte range [start, end) with text.
// The range is clamped to the rope. Only the nodes on the paths to start and
// end are rebuilt; all other subtrees are shared with r.
func (r Rope) Replace(start, end ByteOffset, text string) Rope {
	start = min(max(start, 0), r.Len())
	end = min(max(end, start), r.Len())
	if start == end && text == "" {
		return r
	}

	left, rest := split(r.root, start)
	_, right := split(rest, end-start)
	middle := buildFromChunks(splitIntoChunks(text))
	return Rope{root: concat(concat(left, middle), right)}
}

// Concat returns the concatenation of r and other.
func (r Rope) Concat(other Rope) Rope {
	return Rope{root: concat(r.root, other.root)}
}

// Height returns the height of the tree; an empty rope has height 0.
func (r Rope) Height() int {
	if r.root == nil {
		return 0
	}
	return int(r.root.height) + 1
}

// Equals returns true if two ropes contain the same text.
func (r Rope) Equals(other Rope) bool {
	if r.Len() != other.Len() || r.LineCount() != other.LineCount() {
		return false
	}
	if r.root == other.root {
		return true
	}
	return r.String() == other.String()
}
