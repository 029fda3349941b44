package engine

import (
	"github.com/dshills/linecore/internal/engine/buffer"
	"github.com/dshills/linecore/internal/engine/cursor"
)

// Line is a copy of one line of the document with the carets and selection
// highlights that fall on it. Columns are byte offsets within the line.
type Line struct {
	Line       uint32
	Text       string
	Cursors    []int
	Selections []cursor.Span
}

// State is the immutable state published after each committed change.
type State struct {
	snap buffer.Snapshot
	sels *cursor.Set
}

func newState(snap buffer.Snapshot, sels *cursor.Set) *State {
	return &State{snap: snap, sels: sels.Clone()}
}

// Snapshot returns the document snapshot.
func (s *State) Snapshot() buffer.Snapshot {
	return s.snap
}

// Revision returns the buffer revision.
func (s *State) Revision() buffer.Revision {
	return s.snap.Revision()
}

// LineCount returns the number of lines.
func (s *State) LineCount() uint32 {
	return s.snap.LineCount()
}

// Text returns the full document text.
func (s *State) Text() string {
	return s.snap.Text()
}

// Selections returns a copy of the selections.
func (s *State) Selections() []cursor.Selection {
	return s.sels.All()
}

// Line returns line n with its carets and selection highlights.
func (s *State) Line(n uint32) (Line, error) {
	start, end, err := s.snap.LineRange(n)
	if err != nil {
		return Line{}, err
	}
	carets, spans := s.sels.ForLine(start, end)
	return Line{
		Line:       n,
		Text:       s.snap.TextRange(start, end),
		Cursors:    carets,
		Selections: spans,
	}, nil
}
