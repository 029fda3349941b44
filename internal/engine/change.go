package engine

import (
	"github.com/dshills/linecore/internal/engine/buffer"
	"github.com/dshills/linecore/internal/engine/cursor"
	"github.com/dshills/linecore/internal/engine/dirty"
)

// SelectionFunc computes the selections that follow a change. applied holds
// the edits about to be committed and remapped the current selections carried
// through them, both in the coordinates after the change.
type SelectionFunc func(applied []buffer.AppliedEdit, remapped []cursor.Selection) []cursor.Selection

// SetSelections returns a SelectionFunc that replaces the selections with
// sels regardless of the edits.
func SetSelections(sels ...cursor.Selection) SelectionFunc {
	return func([]buffer.AppliedEdit, []cursor.Selection) []cursor.Selection {
		return sels
	}
}

// Change describes one atomic modification: a batch of edits against the
// current document and the selections that follow it.
type Change struct {
	// Description names the change in the undo history.
	Description string

	// Edits refer to the document before the change. They may be empty for
	// changes that only move selections.
	Edits []buffer.Edit

	// Selections computes the new selections. Nil keeps the current
	// selections remapped through the edits.
	Selections SelectionFunc
}

// Result reports a committed change.
type Result struct {
	// Revision is the buffer revision after the change.
	Revision buffer.Revision

	// Edits are the committed edits sorted by position.
	Edits []buffer.AppliedEdit

	// Selections are the selections after the change.
	Selections []cursor.Selection

	// Invalidated lists the line ranges whose rendering may have changed,
	// sorted and coalesced.
	Invalidated []dirty.Range
}
