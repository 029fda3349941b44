package buffer

import "fmt"

// Edit represents a text edit operation: the range to replace and the
// replacement text. Range offsets refer to the document as it was before the
// edit (or, inside a batch, before the whole batch).
type Edit struct {
	Range   Range
	NewText string
}

// NewEdit creates a new Edit.
func NewEdit(r Range, newText string) Edit {
	return Edit{Range: r, NewText: newText}
}

// NewInsert creates an Edit that inserts text at a position.
func NewInsert(offset ByteOffset, text string) Edit {
	return Edit{Range: Range{Start: offset, End: offset}, NewText: text}
}

// NewDelete creates an Edit that deletes a range of text.
func NewDelete(start, end ByteOffset) Edit {
	return Edit{Range: Range{Start: start, End: end}}
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	if e.Range.IsEmpty() {
		return fmt.Sprintf("Insert(%d, %q)", e.Range.Start, e.NewText)
	}
	if e.NewText == "" {
		return fmt.Sprintf("Delete%s", e.Range)
	}
	return fmt.Sprintf("Replace%s with %q", e.Range, e.NewText)
}

// AppliedEdit describes an edit after it was committed.
//
// OldRange and OldLines are expressed in the coordinates of the document
// before the edit (or batch); NewRange and NewLines in the coordinates after
// it. OldLines covers every line the replaced text touched and NewLines every
// line the inserted text touches, so an unchanged line never falls inside
// either span unless it shares a line with the edit.
type AppliedEdit struct {
	OldRange Range
	NewRange Range
	OldText  string
	NewText  string
	OldLines LineSpan
	NewLines LineSpan

	// Delta is the change in document length in bytes.
	Delta int64
}

// IsNoOp reports whether the edit left the document content unchanged.
func (a AppliedEdit) IsNoOp() bool {
	return a.OldText == a.NewText
}

// LineDelta returns the change in line count caused by the edit.
func (a AppliedEdit) LineDelta() int {
	return int(a.NewLines.Len()) - int(a.OldLines.Len())
}

// Inverse returns the edit that undoes a, expressed against the document as
// it is after a.
func (a AppliedEdit) Inverse() Edit {
	return Edit{Range: a.NewRange, NewText: a.OldText}
}
