package view

import (
	"errors"
	"fmt"
	"slices"

	"github.com/dshills/linecore/core"
)

// ErrOutOfSync is returned when an invalidation does not fit the mirror.
var ErrOutOfSync = errors.New("view out of sync with document")

// FetchFunc returns one line of the document.
type FetchFunc func(n uint32) (core.LineView, error)

// Lines mirrors the document line by line.
type Lines struct {
	lines []core.LineView

	// dirty holds changed line numbers. Lines at or after from have moved
	// and must all be redrawn.
	dirty map[int]struct{}
	from  int
}

// NewLines creates an empty mirror.
func NewLines() *Lines {
	return &Lines{dirty: make(map[int]struct{}), from: -1}
}

// Len returns the number of mirrored lines.
func (l *Lines) Len() int {
	return len(l.lines)
}

// Line returns mirrored line n.
func (l *Lines) Line(n int) (core.LineView, bool) {
	if n < 0 || n >= len(l.lines) {
		return core.LineView{}, false
	}
	return l.lines[n], true
}

// Reset re-reads all count lines.
func (l *Lines) Reset(count uint32, fetch FetchFunc) error {
	lines := make([]core.LineView, 0, count)
	for n := range count {
		v, err := fetch(n)
		if err != nil {
			return err
		}
		lines = append(lines, v)
	}
	l.lines = lines
	l.markFrom(0)
	return nil
}

// Apply splices the lines covered by r into the mirror. The range covers
// r.End-r.Start lines of the new document and replaces
// r.End-r.Start-r.LineDelta lines of the mirror.
func (l *Lines) Apply(r core.Invalidation, fetch FetchFunc) error {
	start, end := int(r.Start), int(r.End)
	replaced := end - start - r.LineDelta
	if end < start || replaced < 0 || start+replaced > len(l.lines) {
		return fmt.Errorf("%w: %s against %d lines", ErrOutOfSync, r, len(l.lines))
	}

	fresh := make([]core.LineView, 0, end-start)
	for n := r.Start; n < r.End; n++ {
		v, err := fetch(n)
		if err != nil {
			return err
		}
		fresh = append(fresh, v)
	}
	l.lines = slices.Replace(l.lines, start, start+replaced, fresh...)

	if r.LineDelta != 0 {
		l.markFrom(start)
		return nil
	}
	for n := start; n < end; n++ {
		l.dirty[n] = struct{}{}
	}
	return nil
}

// Dirty reports whether line n changed since the last Clean.
func (l *Lines) Dirty(n int) bool {
	if l.from >= 0 && n >= l.from {
		return true
	}
	_, ok := l.dirty[n]
	return ok
}

// Clean forgets all changes.
func (l *Lines) Clean() {
	clear(l.dirty)
	l.from = -1
}

func (l *Lines) markFrom(n int) {
	if l.from < 0 || n < l.from {
		l.from = n
	}
}
