// Package buffer provides the authoritative document store of the engine:
// a thread-safe text buffer built on top of the rope line index.
//
// The buffer package provides:
//
//   - Atomic single edits and multi-edit batches with full validation
//   - AppliedEdit records carrying the replaced text and the line spans
//     touched before and after the edit
//   - Line queries (ReadLine, LineRange, LineContaining) in O(log n)
//   - Immutable snapshots for concurrent readers
//   - Line ending and optional Unicode normalization of inserted text
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("abc\ndef\n")
//
//	applied, err := buf.ApplyEdit(buffer.NewEdit(buffer.Range{Start: 1, End: 2}, "XYZ"))
//	// applied.OldText == "b", applied.NewLines == LineSpan{0, 1}
//
//	line, _ := buf.ReadLine(0) // "aXYZc"
//
// Text is stored with "\n" line breaks and is always valid UTF-8. Edits
// reaching outside the document fail with ErrOutOfRange. Reversed edits and
// edits whose boundaries would split a multi-byte sequence are rejected with
// ErrInvalidRange, and replacement text that is not valid UTF-8 is rejected
// with ErrInvalidText. A rejected edit or batch leaves the buffer untouched.
package buffer
