// Package rope provides the persistent text storage and line index used by
// the buffer.
//
// A rope is a B+ tree whose leaves hold bounded chunks of UTF-8 text and whose
// internal nodes cache aggregated summaries (byte count and newline count) of
// their subtrees. The cached newline counts make the tree a line index:
// locating the byte range of line N, or the line containing a byte offset,
// descends a single root-to-leaf path.
//
// Ropes are immutable. Replace, Insert and Delete return a new Rope that
// shares every subtree not touched by the edit, so an edit rebuilds only the
// nodes on the paths to its endpoints and an old Rope value remains a valid,
// consistent snapshot for as long as a reader holds it.
//
// Basic usage:
//
//	r := rope.FromString("abc\ndef\n")
//	r = r.Replace(1, 2, "XYZ")          // "aXYZc\ndef\n"
//	start, end, _ := r.LineRange(1)     // 6, 9
//	line, _ := r.LineContaining(7)      // 1
//
// Offsets passed to mutating operations must fall on UTF-8 sequence
// boundaries; the buffer package enforces this before calling into the rope.
package rope
