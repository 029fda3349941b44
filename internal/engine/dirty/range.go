// Package dirty computes the line ranges invalidated by buffer changes.
//
// A Range names lines, in post-change numbering, whose rendered content may
// differ from what an observer last saw. Ranges produced for one change are
// sorted and disjoint. An observer that keeps a cache of rendered lines
// applies them in ascending order: range r replaces r.OldLen() cached lines
// starting at r.Start with r.Len() freshly queried lines. Lines outside every
// range keep their content and only move by the LineDelta of the ranges
// before them (see OldLine).
package dirty

import (
	"fmt"

	"github.com/dshills/linecore/internal/engine/buffer"
)

// Range is a half-open range of invalidated lines [Start, End) together with
// the net number of lines the change added (positive) or removed (negative)
// inside it.
type Range struct {
	Start     uint32
	End       uint32
	LineDelta int
}

// NewRange creates a range of lines with no line count change.
func NewRange(start, end uint32) Range {
	if end < start {
		start, end = end, start
	}
	return Range{Start: start, End: end}
}

// FromEdit returns the range invalidated by a committed edit.
//
// The range starts at the first line the edit touched and covers as many
// lines as the larger of the replaced and the inserted line spans, so lines
// that moved up after a deletion are included.
func FromEdit(e buffer.AppliedEdit) Range {
	oldLen, newLen := e.OldLines.Len(), e.NewLines.Len()
	return Range{
		Start:     e.NewLines.Start,
		End:       e.NewLines.Start + max(oldLen, newLen),
		LineDelta: int(newLen) - int(oldLen),
	}
}

// IsEmpty returns true if the range covers no lines.
func (r Range) IsEmpty() bool {
	return r.End <= r.Start
}

// Len returns the number of post-change lines in the range.
func (r Range) Len() uint32 {
	if r.IsEmpty() {
		return 0
	}
	return r.End - r.Start
}

// OldLen returns the number of pre-change lines the range replaces.
func (r Range) OldLen() uint32 {
	n := int(r.Len()) - r.LineDelta
	if n < 0 {
		return 0
	}
	return uint32(n)
}

// ContainsLine returns true if line lies in the range.
func (r Range) ContainsLine(line uint32) bool {
	return line >= r.Start && line < r.End
}

// Touches returns true if the ranges overlap or are adjacent.
func (r Range) Touches(other Range) bool {
	return r.Start <= other.End && other.Start <= r.End
}

// Merge combines two touching ranges. The result covers both and carries
// the sum of their line deltas. Returns false if the ranges do not touch.
func (r Range) Merge(other Range) (Range, bool) {
	if !r.Touches(other) {
		return r, false
	}
	return Range{
		Start:     min(r.Start, other.Start),
		End:       max(r.End, other.End),
		LineDelta: r.LineDelta + other.LineDelta,
	}, true
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	if r.LineDelta == 0 {
		return fmt.Sprintf("lines[%d:%d)", r.Start, r.End)
	}
	return fmt.Sprintf("lines[%d:%d)%+d", r.Start, r.End, r.LineDelta)
}

// OldLine maps a post-change line to the line it occupied before the change
// described by ranges, which must be sorted and disjoint as returned by
// Tracker.Flush. It returns ok=false if the line lies inside a range and must
// be queried again.
func OldLine(line uint32, ranges []Range) (old uint32, ok bool) {
	shift := 0
	for _, r := range ranges {
		if r.ContainsLine(line) {
			return 0, false
		}
		if r.End <= line {
			shift += r.LineDelta
		}
	}
	return uint32(int(line) - shift), true
}
