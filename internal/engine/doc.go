// Package engine provides the editing core of linecore.
//
// The engine combines a rope-backed buffer, a set of selections, an undo
// history and an invalidation tracker into one object with a single write
// path. Every modification is described by a Change and applied by Apply,
// which either commits the whole change or leaves everything untouched.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - rope: persistent B+ tree rope with an incremental line index
//   - buffer: edit validation, batches and immutable snapshots
//   - cursor: selections and their remapping through edits
//   - dirty: invalidated line ranges and their coalescing
//   - history: transaction based undo/redo
//
// # Thread Safety
//
// Apply, Undo and Redo are serialized by the engine. After each committed
// change the engine publishes an immutable State; State never blocks and a
// State value is never modified afterwards, so readers see the document
// either fully before or fully after a change.
//
// # Basic Usage
//
//	e := engine.New(engine.WithContent("abc\ndef\n"))
//
//	res, err := e.Apply(engine.Change{
//		Description: "replace",
//		Edits:       []buffer.Edit{buffer.NewEdit(buffer.NewRange(1, 2), "XYZ")},
//	})
//	// res.Invalidated == [{0 1 0}]
//
//	line, _ := e.State().Line(0) // line.Text == "aXYZc"
//
//	e.Undo()
//
// # Selections
//
// Without a SelectionFunc the selections are carried through the edits:
// offsets before an edit stay put, offsets after it shift by the size
// difference and offsets inside replaced text move to the start of the new
// text. Selections that end up identical are merged.
package engine
