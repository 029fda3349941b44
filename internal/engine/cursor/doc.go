// Package cursor provides cursor and selection tracking for the buffer.
//
// The cursor package handles:
//
//   - Text selections with an anchor/head model via Selection
//   - Any number of simultaneous selections via Set
//   - Remapping every selection after committed buffer edits
//   - Per-line caret and highlight extraction for line views
//
// Selection Model:
//
// Selections use an anchor/head model where:
//   - Anchor: The position where the selection started
//   - Head: The current cursor position (where typing would occur)
//
// When Anchor == Head, the selection is a caret with no selected text.
//
// Remapping:
//
// Offsets before an edit are unchanged, offsets after it shift by the
// edit's length change, and offsets inside the replaced text collapse to the
// start of the replacement. An insertion exactly at an offset leaves the
// offset in front of the inserted text. Selections that become identical
// after an edit are collapsed into one.
//
// Basic usage:
//
//	set := cursor.NewSet(cursor.NewCaret(5), cursor.NewCaret(5))
//	applied, _ := buf.ApplyEdit(buffer.NewInsert(0, "ab"))
//	set.Transform(applied) // one caret at 7
//
// Thread Safety:
//
// Selection is an immutable value type. Set is not thread-safe and should be
// protected by external synchronization if shared.
package cursor
