package dirty

import (
	"cmp"
	"slices"
	"sync"

	"github.com/dshills/linecore/internal/engine/buffer"
)

// Tracker collects invalidated line ranges for one change at a time and
// coalesces them for notification.
//
// All marks between two calls to Flush must use the line numbering of the
// document after the change.
type Tracker struct {
	mu sync.Mutex

	// ranges contains the pending ranges in the order they were marked.
	ranges []Range
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{ranges: make([]Range, 0, 8)}
}

// MarkEdit marks the lines touched by committed edits.
// Edits that left the document unchanged are ignored.
func (t *Tracker) MarkEdit(edits ...buffer.AppliedEdit) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, e := range edits {
		if e.IsNoOp() {
			continue
		}
		t.ranges = append(t.ranges, FromEdit(e))
	}
}

// MarkLines marks lines [start, end) whose decoration changed but whose line
// count did not, such as lines gaining or losing a caret.
func (t *Tracker) MarkLines(start, end uint32) {
	r := NewRange(start, end)
	if r.IsEmpty() {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.ranges = append(t.ranges, r)
}

// MarkLine marks a single line.
func (t *Tracker) MarkLine(line uint32) {
	t.MarkLines(line, line+1)
}

// IsDirty returns true if any range is pending.
func (t *Tracker) IsDirty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.ranges) > 0
}

// Flush returns the pending ranges sorted by start line, with touching
// ranges merged, and clears the tracker. Ranges separated by untouched
// lines are kept apart no matter how far apart they are.
//
// lineCount is the line count of the document after the change. Ranges are
// clipped to it, so lines removed from the end of the document are reported
// through LineDelta only.
func (t *Tracker) Flush(lineCount uint32) []Range {
	t.mu.Lock()
	pending := t.ranges
	t.ranges = make([]Range, 0, 8)
	t.mu.Unlock()

	for i := range pending {
		pending[i].End = min(pending[i].End, lineCount)
	}
	return Coalesce(pending)
}

// Reset drops all pending ranges.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ranges = t.ranges[:0]
}

// Coalesce sorts ranges and merges touching ones. Empty ranges without a
// line delta are dropped. The input slice is reordered.
func Coalesce(ranges []Range) []Range {
	slices.SortStableFunc(ranges, func(a, b Range) int {
		return cmp.Compare(a.Start, b.Start)
	})

	var merged []Range
	for _, r := range ranges {
		if r.IsEmpty() && r.LineDelta == 0 {
			continue
		}
		if n := len(merged); n > 0 {
			if m, ok := merged[n-1].Merge(r); ok {
				merged[n-1] = m
				continue
			}
		}
		merged = append(merged, r)
	}
	return merged
}
