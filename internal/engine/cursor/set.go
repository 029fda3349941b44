package cursor

import (
	"slices"

	"github.com/dshills/linecore/internal/engine/buffer"
)

// Span is a half-open column range [Start, End) within a single line.
type Span struct {
	Start int
	End   int
}

// Set manages any number of selections.
//
// Selections keep the order in which they were added; the first one is the
// primary selection. A Set is never empty and never holds two identical
// selections.
type Set struct {
	selections []Selection
}

// NewSet creates a set from the given selections. With no arguments the set
// holds a single caret at offset 0.
func NewSet(sels ...Selection) *Set {
	s := &Set{}
	s.SetAll(sels)
	return s
}

// Primary returns the primary (first) selection.
func (s *Set) Primary() Selection {
	return s.selections[0]
}

// All returns a copy of all selections.
// The returned slice is safe to modify without affecting the Set.
func (s *Set) All() []Selection {
	return slices.Clone(s.selections)
}

// Count returns the number of selections.
func (s *Set) Count() int {
	return len(s.selections)
}

// Get returns the selection at index.
// Returns an empty selection if index is out of range.
func (s *Set) Get(index int) Selection {
	if index < 0 || index >= len(s.selections) {
		return Selection{}
	}
	return s.selections[index]
}

// Add appends a selection unless an identical one already exists.
func (s *Set) Add(sel Selection) {
	if !slices.Contains(s.selections, sel) {
		s.selections = append(s.selections, sel)
	}
}

// SetAll replaces all selections. An empty slice leaves a caret at 0.
func (s *Set) SetAll(sels []Selection) {
	if len(sels) == 0 {
		s.selections = []Selection{NewCaret(0)}
		return
	}
	s.selections = slices.Clone(sels)
	s.dedupe()
}

// CollapseAll collapses every selection to a caret at its head.
func (s *Set) CollapseAll() {
	for i, sel := range s.selections {
		s.selections[i] = sel.Collapse()
	}
	s.dedupe()
}

// KeepPrimary drops every selection except the primary one.
func (s *Set) KeepPrimary() {
	s.selections = s.selections[:1]
}

// Transform remaps every selection through a committed batch of edits and
// collapses selections that became identical.
func (s *Set) Transform(edits ...buffer.AppliedEdit) {
	for i, sel := range s.selections {
		s.selections[i] = TransformSelection(sel, edits...)
	}
	s.dedupe()
}

// Clamp clamps all selections to [0, maxOffset].
func (s *Set) Clamp(maxOffset ByteOffset) {
	for i, sel := range s.selections {
		s.selections[i] = sel.Clamp(maxOffset)
	}
	s.dedupe()
}

// Clone returns a deep copy of the set.
func (s *Set) Clone() *Set {
	return &Set{selections: slices.Clone(s.selections)}
}

// Equal returns true if both sets hold the same selections in the same order.
func (s *Set) Equal(other *Set) bool {
	return other != nil && slices.Equal(s.selections, other.selections)
}

// ForLine returns the carets and selection highlights of the line occupying
// [lineStart, lineEnd), where lineEnd is the offset of its terminator.
// Columns are relative to lineStart. A selection that covers the terminator
// but no text of the line yields an empty span at the line end.
func (s *Set) ForLine(lineStart, lineEnd ByteOffset) (carets []int, spans []Span) {
	for _, sel := range s.selections {
		if sel.Head >= lineStart && sel.Head <= lineEnd {
			carets = append(carets, int(sel.Head-lineStart))
		}
		if sel.IsEmpty() {
			continue
		}
		start, end := sel.Start(), sel.End()
		if start > lineEnd || end <= lineStart {
			continue
		}
		spans = append(spans, Span{
			Start: int(max(start, lineStart) - lineStart),
			End:   int(min(end, lineEnd) - lineStart),
		})
	}
	slices.Sort(carets)
	carets = slices.Compact(carets)
	slices.SortFunc(spans, func(a, b Span) int { return a.Start - b.Start })
	return carets, spans
}

// dedupe removes exact duplicates, keeping the first occurrence.
func (s *Set) dedupe() {
	if len(s.selections) <= 1 {
		return
	}
	seen := make(map[Selection]struct{}, len(s.selections))
	kept := s.selections[:0]
	for _, sel := range s.selections {
		if _, ok := seen[sel]; ok {
			continue
		}
		seen[sel] = struct{}{}
		kept = append(kept, sel)
	}
	s.selections = kept
}
