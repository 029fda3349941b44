package buffer

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/dshills/linecore/internal/engine/rope"
)

// Common errors returned by buffer operations.
var (
	// ErrOutOfRange is returned when a line or offset lies beyond the document.
	ErrOutOfRange = rope.ErrOutOfRange

	// ErrInvalidRange is returned when an edit range is reversed or splits a
	// multi-byte character.
	ErrInvalidRange = errors.New("invalid range")

	// ErrEditsOverlap is returned when edits in one batch overlap.
	ErrEditsOverlap = fmt.Errorf("%w: edits overlap", ErrInvalidRange)

	// ErrInvalidText is returned when replacement text is not valid UTF-8.
	ErrInvalidText = errors.New("invalid UTF-8 text")

	// ErrStale is returned when committing a batch prepared against an older
	// revision.
	ErrStale = errors.New("buffer changed since prepare")
)

// Buffer is a thread-safe text buffer backed by a rope.
//
// Writers are serialized by an internal lock. Every committed edit swaps in a
// new immutable Snapshot, so readers never observe a partial edit.
type Buffer struct {
	mu   sync.RWMutex
	snap Snapshot

	lineEnding LineEnding
	form       norm.Form
	normalize  bool
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{lineEnding: LineEndingLF}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewBufferFromString creates a buffer with initial content. Line breaks are
// stored as "\n" and invalid UTF-8 sequences are replaced with U+FFFD.
func NewBufferFromString(text string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.snap.rope = rope.FromString(b.prepareText(strings.ToValidUTF8(text, "\uFFFD")))
	return b
}

// NewBufferFromReader creates a buffer from the contents of r.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read buffer content: %w", err)
	}
	return NewBufferFromString(string(data), opts...), nil
}

// Snapshot returns the current immutable snapshot.
func (b *Buffer) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snap
}

// Revision returns the current revision.
func (b *Buffer) Revision() Revision {
	return b.Snapshot().Revision()
}

// Len returns the document length in bytes.
func (b *Buffer) Len() ByteOffset {
	return b.Snapshot().Len()
}

// IsEmpty returns true if the document has no content.
func (b *Buffer) IsEmpty() bool {
	return b.Len() == 0
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() uint32 {
	return b.Snapshot().LineCount()
}

// Text returns the full document text.
func (b *Buffer) Text() string {
	return b.Snapshot().Text()
}

// TextRange returns the text in [start, end).
func (b *Buffer) TextRange(start, end ByteOffset) string {
	return b.Snapshot().TextRange(start, end)
}

// ReadLine returns the text of line n without its terminator.
func (b *Buffer) ReadLine(n uint32) (string, error) {
	return b.Snapshot().ReadLine(n)
}

// LineRange returns the byte range of line n, excluding the terminator.
func (b *Buffer) LineRange(n uint32) (ByteOffset, ByteOffset, error) {
	return b.Snapshot().LineRange(n)
}

// LineContaining returns the line containing offset.
func (b *Buffer) LineContaining(offset ByteOffset) (uint32, error) {
	return b.Snapshot().LineContaining(offset)
}

// OffsetToPoint converts a byte offset to a point.
func (b *Buffer) OffsetToPoint(offset ByteOffset) Point {
	return b.Snapshot().OffsetToPoint(offset)
}

// PointToOffset converts a point to a byte offset.
func (b *Buffer) PointToOffset(p Point) ByteOffset {
	return b.Snapshot().PointToOffset(p)
}

// LineEnding returns the buffer's output line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// SetLineEnding changes the line ending used by later calls to WriteTo.
// The document itself is unchanged.
func (b *Buffer) SetLineEnding(le LineEnding) {
	b.mu.Lock()
	b.lineEnding = le
	b.mu.Unlock()
}

// ApplyEdit applies a single edit.
func (b *Buffer) ApplyEdit(edit Edit) (AppliedEdit, error) {
	applied, err := b.ApplyBatch([]Edit{edit})
	if err != nil {
		return AppliedEdit{}, err
	}
	return applied[0], nil
}

// Insert inserts text at offset.
func (b *Buffer) Insert(offset ByteOffset, text string) (AppliedEdit, error) {
	return b.ApplyEdit(NewInsert(offset, text))
}

// Delete removes the text in [start, end).
func (b *Buffer) Delete(start, end ByteOffset) (AppliedEdit, error) {
	return b.ApplyEdit(NewDelete(start, end))
}

// Replace replaces the text in [start, end).
func (b *Buffer) Replace(start, end ByteOffset, text string) (AppliedEdit, error) {
	return b.ApplyEdit(NewEdit(NewRange(start, end), text))
}

// ApplyBatch applies several edits as one atomic change.
//
// All ranges refer to the document before the batch. Ranges may not overlap,
// although several insertions at the same offset are allowed and end up in
// the order given. Every edit is validated before any is applied, and on
// error the buffer is unchanged.
//
// The returned edits are sorted by position. OldRange and OldLines use the
// coordinates before the batch, NewRange and NewLines those after it.
func (b *Buffer) ApplyBatch(edits []Edit) ([]AppliedEdit, error) {
	if len(edits) == 0 {
		return nil, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	p, err := b.plan(b.snap, edits)
	if err != nil {
		return nil, err
	}
	b.snap = p.snap
	return p.applied, nil
}

// Pending is a validated batch that has been computed but not committed.
// Its snapshot shows the document as it will be after Commit.
type Pending struct {
	base    Revision
	snap    Snapshot
	applied []AppliedEdit
}

// Snapshot returns the document as it would be after the batch.
func (p Pending) Snapshot() Snapshot {
	return p.snap
}

// Edits returns the edits the batch would apply, in the form ApplyBatch
// returns them.
func (p Pending) Edits() []AppliedEdit {
	return p.applied
}

// Prepare validates and computes a batch without changing the buffer. An
// empty batch yields a Pending whose snapshot is the current one.
func (b *Buffer) Prepare(edits []Edit) (Pending, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(edits) == 0 {
		return Pending{base: b.snap.revision, snap: b.snap}, nil
	}
	return b.plan(b.snap, edits)
}

// Commit makes a prepared batch visible. It fails with ErrStale if the
// buffer changed after Prepare. Committing an empty batch does nothing.
func (b *Buffer) Commit(p Pending) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if p.base != b.snap.revision {
		return fmt.Errorf("%w: prepared at revision %d, buffer at %d", ErrStale, p.base, b.snap.revision)
	}
	if len(p.applied) > 0 {
		b.snap = p.snap
	}
	return nil
}

// plan computes the result of applying edits to snap.
func (b *Buffer) plan(snap Snapshot, edits []Edit) (Pending, error) {
	r := snap.rope
	sorted, err := b.validate(r, edits)
	if err != nil {
		return Pending{}, err
	}

	// Apply from the end of the document so that earlier offsets stay valid.
	applied := make([]AppliedEdit, len(sorted))
	for i := len(sorted) - 1; i >= 0; i-- {
		e := sorted[i]
		start, end := e.Range.Start, e.Range.End
		oldText := r.Slice(start, end)
		oldLines := spanLines(r, start, end)

		r = r.Replace(start, end, e.NewText)
		newEnd := start + ByteOffset(len(e.NewText))

		applied[i] = AppliedEdit{
			OldRange: e.Range,
			NewRange: Range{Start: start, End: newEnd},
			OldText:  oldText,
			NewText:  e.NewText,
			OldLines: oldLines,
			NewLines: spanLines(r, start, newEnd),
			Delta:    int64(len(e.NewText)) - int64(len(oldText)),
		}
	}

	// Shift into final coordinates by the edits that precede each one.
	var byteShift int64
	var lineShift int
	for i := range applied {
		a := &applied[i]
		a.NewRange.Start += byteShift
		a.NewRange.End += byteShift
		a.NewLines.Start = uint32(int(a.NewLines.Start) + lineShift)
		a.NewLines.End = uint32(int(a.NewLines.End) + lineShift)
		byteShift += a.Delta
		lineShift += a.LineDelta()
	}

	return Pending{
		base:    snap.revision,
		snap:    Snapshot{rope: r, revision: snap.revision + 1},
		applied: applied,
	}, nil
}

// validate checks every edit against r and returns the edits sorted by
// position with their text prepared for storage.
func (b *Buffer) validate(r rope.Rope, edits []Edit) ([]Edit, error) {
	size := r.Len()
	sorted := make([]Edit, len(edits))
	for i, e := range edits {
		if e.Range.Start > e.Range.End {
			return nil, fmt.Errorf("%w: start %d > end %d", ErrInvalidRange, e.Range.Start, e.Range.End)
		}
		if e.Range.Start < 0 || e.Range.End > size {
			return nil, fmt.Errorf("%w: %s outside document of %d bytes", ErrOutOfRange, e.Range, size)
		}
		if !onRuneBoundary(r, e.Range.Start) || !onRuneBoundary(r, e.Range.End) {
			return nil, fmt.Errorf("%w: %s splits a character", ErrInvalidRange, e.Range)
		}
		if !utf8.ValidString(e.NewText) {
			return nil, fmt.Errorf("%w: edit %d", ErrInvalidText, i)
		}
		sorted[i] = Edit{Range: e.Range, NewText: b.prepareText(e.NewText)}
	}

	slices.SortStableFunc(sorted, func(x, y Edit) int {
		if c := cmp.Compare(x.Range.Start, y.Range.Start); c != 0 {
			return c
		}
		return cmp.Compare(x.Range.End, y.Range.End)
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Range.End > sorted[i].Range.Start {
			return nil, fmt.Errorf("%w: %s and %s", ErrEditsOverlap, sorted[i-1].Range, sorted[i].Range)
		}
	}
	return sorted, nil
}

func (b *Buffer) prepareText(s string) string {
	s = normalizeNewlines(s)
	if b.normalize {
		s = b.form.String(s)
	}
	return s
}

// WriteTo writes the document to w using the buffer's line ending style.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	b.mu.RLock()
	snap, le := b.snap, b.lineEnding
	b.mu.RUnlock()

	var total int64
	it := snap.rope.Chunks()
	for it.Next() {
		chunk := it.Chunk()
		if le != LineEndingLF {
			chunk = strings.ReplaceAll(chunk, "\n", le.String())
		}
		n, err := io.WriteString(w, chunk)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// spanLines returns the lines touched by [start, end).
func spanLines(r rope.Rope, start, end ByteOffset) LineSpan {
	first, _ := r.LineContaining(start)
	last, _ := r.LineContaining(end)
	return LineSpan{Start: first, End: last + 1}
}

func onRuneBoundary(r rope.Rope, offset ByteOffset) bool {
	if offset <= 0 || offset >= r.Len() {
		return true
	}
	s := r.Slice(offset, offset+1)
	return s != "" && utf8.RuneStart(s[0])
}
