package dispatcher

import (
	"cmp"
	"slices"

	"github.com/dshills/linecore/internal/engine"
	"github.com/dshills/linecore/internal/engine/buffer"
	"github.com/dshills/linecore/internal/engine/cursor"
)

func registerBuiltins(r *Registry) {
	r.Register(MethodEdit, handleEdit)
	r.Register(MethodInsert, handleInsert)
	r.Register(MethodDeleteBackward, deleteHandler(MethodDeleteBackward, prevBoundary, true))
	r.Register(MethodDeleteForward, deleteHandler(MethodDeleteForward, nextBoundary, false))
	r.Register(MethodSetSelections, handleSetSelections)
	r.Register(MethodAddSelection, handleAddSelection)
	r.Register(MethodCollapseSelections, handleCollapseSelections)
	r.Register(MethodMoveLeft, motionHandler(MethodMoveLeft, moveLeft))
	r.Register(MethodMoveRight, motionHandler(MethodMoveRight, moveRight))
	r.Register(MethodMoveLineStart, motionHandler(MethodMoveLineStart, moveLineStart))
	r.Register(MethodMoveLineEnd, motionHandler(MethodMoveLineEnd, moveLineEnd))
	r.Register(MethodMoveUp, motionHandler(MethodMoveUp, moveVertical(-1)))
	r.Register(MethodMoveDown, motionHandler(MethodMoveDown, moveVertical(1)))
	r.Register(MethodUndo, func(e *engine.Engine, _ Request) (engine.Result, error) { return e.Undo() })
	r.Register(MethodRedo, func(e *engine.Engine, _ Request) (engine.Result, error) { return e.Redo() })
}

// handleEdit applies explicit replacements.
func handleEdit(e *engine.Engine, req Request) (engine.Result, error) {
	edits := make([]buffer.Edit, len(req.Edits))
	for i, spec := range req.Edits {
		edits[i] = spec.edit()
	}
	ch := engine.Change{Description: MethodEdit, Edits: edits}
	if len(req.Selections) > 0 {
		ch.Selections = engine.SetSelections(toSelections(req.Selections)...)
	}
	return e.Apply(ch)
}

// handleInsert replaces every selection with the request text and leaves a
// caret after each insertion.
func handleInsert(e *engine.Engine, req Request) (engine.Result, error) {
	ranges := mergeRanges(selectionRanges(e.Selections()))
	edits := make([]buffer.Edit, len(ranges))
	for i, r := range ranges {
		edits[i] = buffer.NewEdit(r, req.Text)
	}
	return e.Apply(engine.Change{
		Description: MethodInsert,
		Edits:       edits,
		Selections: func(applied []buffer.AppliedEdit, _ []cursor.Selection) []cursor.Selection {
			sels := make([]cursor.Selection, len(applied))
			for i, a := range applied {
				sels[i] = cursor.NewCaret(a.NewRange.End)
			}
			return sels
		},
	})
}

// deleteHandler deletes every non-empty selection, or count grapheme
// clusters next to each caret. Selections collapse onto the deletion
// through the usual remapping.
func deleteHandler(name string, step func(buffer.Snapshot, ByteOffset) ByteOffset, backward bool) HandlerFunc {
	return func(e *engine.Engine, req Request) (engine.Result, error) {
		snap := e.State().Snapshot()
		var ranges []buffer.Range
		for _, sel := range e.Selections() {
			if !sel.IsEmpty() {
				ranges = append(ranges, sel.Range())
				continue
			}
			to := sel.Head
			for range req.Count {
				to = step(snap, to)
			}
			if to == sel.Head {
				continue
			}
			if backward {
				ranges = append(ranges, buffer.NewRange(to, sel.Head))
			} else {
				ranges = append(ranges, buffer.NewRange(sel.Head, to))
			}
		}

		ranges = mergeRanges(ranges)
		edits := make([]buffer.Edit, len(ranges))
		for i, r := range ranges {
			edits[i] = buffer.NewDelete(r.Start, r.End)
		}
		return e.Apply(engine.Change{Description: name, Edits: edits})
	}
}

func handleSetSelections(e *engine.Engine, req Request) (engine.Result, error) {
	if len(req.Selections) == 0 {
		return engine.Result{}, malformed("%s needs at least one selection", req.Method)
	}
	return e.Apply(engine.Change{Selections: engine.SetSelections(toSelections(req.Selections)...)})
}

func handleAddSelection(e *engine.Engine, req Request) (engine.Result, error) {
	if len(req.Selections) == 0 {
		return engine.Result{}, malformed("%s needs at least one selection", req.Method)
	}
	sels := append(e.Selections(), toSelections(req.Selections)...)
	return e.Apply(engine.Change{Selections: engine.SetSelections(sels...)})
}

// handleCollapseSelections drops every selection but the primary one, or
// collapses the primary selection to a caret when it is the only one.
func handleCollapseSelections(e *engine.Engine, _ Request) (engine.Result, error) {
	set := cursor.NewSet(e.Selections()...)
	if set.Count() > 1 {
		set.KeepPrimary()
	} else {
		set.CollapseAll()
	}
	return e.Apply(engine.Change{Selections: engine.SetSelections(set.All()...)})
}

// motion computes the new head of one selection.
type motion func(snap buffer.Snapshot, sel cursor.Selection, extend bool) ByteOffset

// motionHandler moves every selection count times. Without Extend the
// selections become carets.
func motionHandler(name string, m motion) HandlerFunc {
	return func(e *engine.Engine, req Request) (engine.Result, error) {
		snap := e.State().Snapshot()
		return e.Apply(engine.Change{
			Description: name,
			Selections: func(_ []buffer.AppliedEdit, current []cursor.Selection) []cursor.Selection {
				for i, sel := range current {
					for range req.Count {
						sel = step(snap, sel, m, req.Extend)
					}
					current[i] = sel
				}
				return current
			},
		})
	}
}

func step(snap buffer.Snapshot, sel cursor.Selection, m motion, extend bool) cursor.Selection {
	head := m(snap, sel, extend)
	if extend {
		return sel.Extend(head)
	}
	return cursor.NewCaret(head)
}

// moveLeft collapses a selection to its start, or moves a caret one
// grapheme cluster back.
func moveLeft(snap buffer.Snapshot, sel cursor.Selection, extend bool) ByteOffset {
	if !extend && !sel.IsEmpty() {
		return sel.Start()
	}
	return prevBoundary(snap, sel.Head)
}

// moveRight collapses a selection to its end, or moves a caret one
// grapheme cluster forward.
func moveRight(snap buffer.Snapshot, sel cursor.Selection, extend bool) ByteOffset {
	if !extend && !sel.IsEmpty() {
		return sel.End()
	}
	return nextBoundary(snap, sel.Head)
}

func moveLineStart(snap buffer.Snapshot, sel cursor.Selection, _ bool) ByteOffset {
	start, _ := lineBounds(snap, sel.Head)
	return start
}

func moveLineEnd(snap buffer.Snapshot, sel cursor.Selection, _ bool) ByteOffset {
	_, end := lineBounds(snap, sel.Head)
	return end
}

func moveVertical(delta int) motion {
	return func(snap buffer.Snapshot, sel cursor.Selection, _ bool) ByteOffset {
		return verticalMove(snap, sel.Head, delta)
	}
}

func selectionRanges(sels []cursor.Selection) []buffer.Range {
	ranges := make([]buffer.Range, len(sels))
	for i, sel := range sels {
		ranges[i] = sel.Range()
	}
	return ranges
}

// mergeRanges sorts ranges and merges overlapping ones. A caret touching
// another range is absorbed by it.
func mergeRanges(ranges []buffer.Range) []buffer.Range {
	slices.SortFunc(ranges, func(a, b buffer.Range) int {
		if c := cmp.Compare(a.Start, b.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.End, b.End)
	})

	var merged []buffer.Range
	for _, r := range ranges {
		if n := len(merged); n > 0 {
			last := &merged[n-1]
			if r.Start < last.End || (r.Start == last.End && (r.IsEmpty() || last.IsEmpty())) {
				last.End = max(last.End, r.End)
				continue
			}
		}
		merged = append(merged, r)
	}
	return merged
}
