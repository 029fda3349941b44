package dispatcher

import (
	"github.com/dshills/linecore/internal/engine"
	"github.com/dshills/linecore/internal/engine/buffer"
	"github.com/dshills/linecore/internal/engine/cursor"
)

// Built-in methods.
const (
	MethodEdit               = "edit"
	MethodInsert             = "insert"
	MethodDeleteBackward     = "delete_backward"
	MethodDeleteForward      = "delete_forward"
	MethodSetSelections      = "set_selections"
	MethodAddSelection       = "add_selection"
	MethodCollapseSelections = "collapse_selections"
	MethodMoveLeft           = "move_left"
	MethodMoveRight          = "move_right"
	MethodMoveLineStart      = "move_line_start"
	MethodMoveLineEnd        = "move_line_end"
	MethodMoveUp             = "move_up"
	MethodMoveDown           = "move_down"
	MethodUndo               = "undo"
	MethodRedo               = "redo"
)

// EditSpec replaces the bytes in [Start, End) with Text.
type EditSpec struct {
	Start int64
	End   int64
	Text  string
}

// SelectionSpec is a selection given as byte offsets.
type SelectionSpec struct {
	Anchor int64
	Head   int64
}

// Request is one decoded editing request.
type Request struct {
	// ID correlates the request with its Response. An empty ID is replaced
	// by a generated one.
	ID string

	// Method selects the handler.
	Method string

	// Edits lists explicit replacements for "edit", all relative to the
	// document before the request.
	Edits []EditSpec

	// Text is the text inserted by "insert".
	Text string

	// Selections sets the selections for "set_selections" and
	// "add_selection". For "edit" they replace the selections after the
	// edits, in the coordinates of the edited document.
	Selections []SelectionSpec

	// Count repeats motions and deletions. Zero means once.
	Count int

	// Extend moves the head of each selection and keeps its anchor.
	Extend bool
}

// EditResult echoes one committed edit.
type EditResult struct {
	OldStart int64
	OldEnd   int64
	Start    int64
	End      int64
	Text     string
}

// Response reports the outcome of a request.
type Response struct {
	ID     string
	Method string
	OK     bool
	Code   Code
	Error  string

	// Revision is the document revision after the request.
	Revision uint64

	// Edits and Selections describe a successful request.
	Edits      []EditResult
	Selections []SelectionSpec
}

func (s EditSpec) edit() buffer.Edit {
	return buffer.Edit{Range: buffer.Range{Start: s.Start, End: s.End}, NewText: s.Text}
}

func (s SelectionSpec) selection() cursor.Selection {
	return cursor.NewSelection(s.Anchor, s.Head)
}

func toSelections(specs []SelectionSpec) []cursor.Selection {
	sels := make([]cursor.Selection, len(specs))
	for i, s := range specs {
		sels[i] = s.selection()
	}
	return sels
}

func toSpecs(sels []cursor.Selection) []SelectionSpec {
	specs := make([]SelectionSpec, len(sels))
	for i, s := range sels {
		specs[i] = SelectionSpec{Anchor: s.Anchor, Head: s.Head}
	}
	return specs
}

func newResponse(req Request, res engine.Result, err error, rev uint64) Response {
	resp := Response{ID: req.ID, Method: req.Method, Revision: rev}
	if err != nil {
		resp.Code = CodeOf(err)
		resp.Error = err.Error()
		return resp
	}

	resp.OK = true
	resp.Revision = uint64(res.Revision)
	for _, e := range res.Edits {
		resp.Edits = append(resp.Edits, EditResult{
			OldStart: e.OldRange.Start,
			OldEnd:   e.OldRange.End,
			Start:    e.NewRange.Start,
			End:      e.NewRange.End,
			Text:     e.NewText,
		})
	}
	resp.Selections = toSpecs(res.Selections)
	return resp
}
