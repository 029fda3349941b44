package cursor

import "github.com/dshills/linecore/internal/engine/buffer"

// TransformOffset maps an offset in the document before a batch of edits to
// the document after it.
//
// edits must be ordered by position as returned by buffer.ApplyBatch.
//
// Transformation rules:
//   - Offset before an edit: unchanged
//   - Offset at the start of an edit: stays in front of the new text
//   - Offset inside the replaced text: moves to the start of the new text
//   - Offset at or after the end of an edit: shifted by the edit's delta
func TransformOffset(offset ByteOffset, edits ...buffer.AppliedEdit) ByteOffset {
	var shift int64
	for _, e := range edits {
		if e.IsNoOp() {
			continue
		}
		if offset <= e.OldRange.Start {
			return offset + shift
		}
		if offset < e.OldRange.End {
			return e.NewRange.Start
		}
		shift += e.Delta
	}
	return offset + shift
}

// TransformSelection maps both ends of a selection through edits.
func TransformSelection(sel Selection, edits ...buffer.AppliedEdit) Selection {
	return Selection{
		Anchor: TransformOffset(sel.Anchor, edits...),
		Head:   TransformOffset(sel.Head, edits...),
	}
}
