package engine

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"golang.org/x/text/unicode/norm"

	"github.com/dshills/linecore/internal/engine/buffer"
	"github.com/dshills/linecore/internal/engine/cursor"
	"github.com/dshills/linecore/internal/engine/dirty"
	"github.com/dshills/linecore/internal/engine/history"
)

// Re-export commonly used types for convenience.
type (
	// ByteOffset is a byte position in the document.
	ByteOffset = buffer.ByteOffset

	// Edit replaces a range of the document.
	Edit = buffer.Edit

	// AppliedEdit is an edit as committed.
	AppliedEdit = buffer.AppliedEdit

	// Selection is an anchor/head pair.
	Selection = cursor.Selection

	// Invalidation is a range of lines to redraw.
	Invalidation = dirty.Range
)

// Engine owns a document together with its selections, undo history and
// pending invalidations.
//
// Apply, Undo and Redo are serialized. State returns the state published by
// the last committed change and never blocks.
type Engine struct {
	mu sync.Mutex

	buf     *buffer.Buffer
	sels    *cursor.Set
	history *history.History
	dirty   *dirty.Tracker

	state atomic.Pointer[State]

	// Configuration
	lineEnding     buffer.LineEnding
	form           norm.Form
	normalize      bool
	maxUndoEntries int
	initContent    string
}

// New creates an Engine with the given options.
func New(opts ...Option) *Engine {
	e := configure(opts)
	e.init(buffer.NewBufferFromString(e.initContent, e.bufferOptions()...))
	return e
}

// NewFromReader creates an Engine holding the contents of r.
func NewFromReader(r io.Reader, opts ...Option) (*Engine, error) {
	e := configure(opts)
	buf, err := buffer.NewBufferFromReader(r, e.bufferOptions()...)
	if err != nil {
		return nil, err
	}
	e.init(buf)
	return e, nil
}

func configure(opts []Option) *Engine {
	e := &Engine{
		lineEnding:     buffer.LineEndingLF,
		maxUndoEntries: DefaultMaxUndoEntries,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) init(buf *buffer.Buffer) {
	e.buf = buf
	e.sels = cursor.NewSet()
	e.history = history.New(e.maxUndoEntries)
	e.dirty = dirty.NewTracker()
	e.state.Store(newState(buf.Snapshot(), e.sels))
}

// State returns the state after the last committed change.
func (e *Engine) State() *State {
	return e.state.Load()
}

// Text returns the full document text.
func (e *Engine) Text() string {
	return e.State().Text()
}

// Len returns the document length in bytes.
func (e *Engine) Len() ByteOffset {
	return e.State().Snapshot().Len()
}

// LineCount returns the number of lines.
func (e *Engine) LineCount() uint32 {
	return e.State().LineCount()
}

// Revision returns the buffer revision.
func (e *Engine) Revision() buffer.Revision {
	return e.State().Revision()
}

// Selections returns a copy of the current selections.
func (e *Engine) Selections() []Selection {
	return e.State().Selections()
}

// LineEnding returns the line ending used by WriteTo.
func (e *Engine) LineEnding() buffer.LineEnding {
	return e.buf.LineEnding()
}

// SetLineEnding changes the line ending used by WriteTo.
func (e *Engine) SetLineEnding(le buffer.LineEnding) {
	e.buf.SetLineEnding(le)
}

// WriteTo writes the document to w using the configured line ending.
func (e *Engine) WriteTo(w io.Writer) (int64, error) {
	return e.buf.WriteTo(w)
}

// CanUndo returns true if there is a change to undo.
func (e *Engine) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo returns true if there is a change to redo.
func (e *Engine) CanRedo() bool {
	return e.history.CanRedo()
}

// History returns the undo history.
func (e *Engine) History() *history.History {
	return e.history
}

// Apply commits a change. On error nothing is modified: the document, the
// selections and the history stay as they were and no invalidation is
// produced. A change that modifies the document is recorded for undo.
func (e *Engine) Apply(ch Change) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	res, before, err := e.apply(ch.Edits, ch.Selections)
	if err != nil {
		return Result{}, err
	}
	if len(res.Edits) > 0 {
		e.history.Push(history.NewTransaction(ch.Description, res.Edits, before, res.Selections))
	}
	return res, nil
}

// Undo reverts the last recorded change and restores the selections it
// started from.
func (e *Engine) Undo() (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var res Result
	err := e.history.Undo(func(tx *history.Transaction) error {
		var err error
		res, _, err = e.apply(tx.Inverse(), SetSelections(tx.Before...))
		return err
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// Redo re-applies the last undone change.
func (e *Engine) Redo() (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var res Result
	err := e.history.Redo(func(tx *history.Transaction) error {
		var err error
		res, _, err = e.apply(tx.Forward(), SetSelections(tx.After...))
		return err
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// apply commits edits and the following selections and publishes the new
// state. It returns the selections held before the change. Must be called
// with e.mu held.
func (e *Engine) apply(edits []Edit, selections SelectionFunc) (Result, []Selection, error) {
	pending, err := e.buf.Prepare(edits)
	if err != nil {
		return Result{}, nil, err
	}
	applied := pending.Edits()
	snap := pending.Snapshot()

	remapped := e.sels.Clone()
	remapped.Transform(applied...)
	next := remapped
	if selections != nil {
		sels := selections(applied, remapped.All())
		if err := checkSelections(snap, sels); err != nil {
			return Result{}, nil, err
		}
		next = cursor.NewSet(sels...)
	}

	if err := e.buf.Commit(pending); err != nil {
		return Result{}, nil, err
	}

	e.dirty.MarkEdit(applied...)
	if !next.Equal(remapped) {
		e.markMoved(snap, remapped.All(), next.All())
	}

	before := e.sels.All()
	e.sels = next
	e.state.Store(newState(snap, next))

	return Result{
		Revision:    snap.Revision(),
		Edits:       applied,
		Selections:  next.All(),
		Invalidated: e.dirty.Flush(snap.LineCount()),
	}, before, nil
}

// markMoved marks the lines of every selection present in only one of from
// and to. Selections carried through the edits unchanged keep their lines.
func (e *Engine) markMoved(snap buffer.Snapshot, from, to []Selection) {
	inFrom := make(map[Selection]struct{}, len(from))
	for _, sel := range from {
		inFrom[sel] = struct{}{}
	}
	inTo := make(map[Selection]struct{}, len(to))
	for _, sel := range to {
		inTo[sel] = struct{}{}
	}

	mark := func(sel Selection) {
		first, err1 := snap.LineContaining(sel.Start())
		last, err2 := snap.LineContaining(sel.End())
		if err1 == nil && err2 == nil {
			e.dirty.MarkLines(first, last+1)
		}
	}
	for _, sel := range from {
		if _, ok := inTo[sel]; !ok {
			mark(sel)
		}
	}
	for _, sel := range to {
		if _, ok := inFrom[sel]; !ok {
			mark(sel)
		}
	}
}

func checkSelections(snap buffer.Snapshot, sels []Selection) error {
	for _, sel := range sels {
		for _, off := range [...]ByteOffset{sel.Anchor, sel.Head} {
			if off < 0 || off > snap.Len() {
				return fmt.Errorf("%w: selection %s outside document of %d bytes", ErrOutOfRange, sel, snap.Len())
			}
			if !snap.IsCharBoundary(off) {
				return fmt.Errorf("%w: selection %s splits a character", ErrInvalidRange, sel)
			}
		}
	}
	return nil
}
