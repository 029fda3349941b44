package history

import (
	"errors"
	"sync"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries is the undo depth used when none is configured.
const DefaultMaxEntries = 1000

// ApplyFunc applies a transaction in one direction. It returns an error if
// the document rejected the change.
type ApplyFunc func(tx *Transaction) error

// History manages undo/redo stacks of transactions.
type History struct {
	mu sync.Mutex

	undoStack []*Transaction
	redoStack []*Transaction

	maxEntries int
}

// New creates a history keeping at most maxEntries undo steps.
func New(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries}
}

// Push adds a transaction to the undo stack and clears the redo stack.
// Transactions that changed no text are ignored.
func (h *History) Push(tx *Transaction) {
	if tx == nil || tx.IsEmpty() {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = append(h.undoStack, tx)
	h.redoStack = nil
	h.trimLocked()
}

// Undo pops the last transaction and passes it to apply, which must revert
// it. On success the transaction moves to the redo stack; on failure it is
// restored. The lock is not held while apply runs.
func (h *History) Undo(apply ApplyFunc) error {
	tx, ok := pop(&h.mu, &h.undoStack)
	if !ok {
		return ErrNothingToUndo
	}

	if err := apply(tx); err != nil {
		h.mu.Lock()
		h.undoStack = append(h.undoStack, tx)
		h.mu.Unlock()
		return err
	}

	h.mu.Lock()
	h.redoStack = append(h.redoStack, tx)
	h.mu.Unlock()
	return nil
}

// Redo pops the last undone transaction and passes it to apply, which must
// re-apply it. On success the transaction moves back to the undo stack.
func (h *History) Redo(apply ApplyFunc) error {
	tx, ok := pop(&h.mu, &h.redoStack)
	if !ok {
		return ErrNothingToRedo
	}

	if err := apply(tx); err != nil {
		h.mu.Lock()
		h.redoStack = append(h.redoStack, tx)
		h.mu.Unlock()
		return err
	}

	h.mu.Lock()
	h.undoStack = append(h.undoStack, tx)
	h.mu.Unlock()
	return nil
}

func pop(mu *sync.Mutex, stack *[]*Transaction) (*Transaction, bool) {
	mu.Lock()
	defer mu.Unlock()

	s := *stack
	if len(s) == 0 {
		return nil, false
	}
	tx := s[len(s)-1]
	*stack = s[:len(s)-1]
	return tx, true
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	return h.UndoCount() > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	return h.RedoCount() > 0
}

// UndoCount returns the number of undo steps available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo steps available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// PeekUndo returns info about the next undo step without removing it.
func (h *History) PeekUndo() (OperationInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return OperationInfo{}, false
	}
	return h.undoStack[len(h.undoStack)-1].info(), true
}

// PeekRedo returns info about the next redo step without removing it.
func (h *History) PeekRedo() (OperationInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return OperationInfo{}, false
	}
	return h.redoStack[len(h.redoStack)-1].info(), true
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = nil
	h.redoStack = nil
}

// SetMaxEntries changes the maximum number of undo entries.
// If the current stack is larger, oldest entries are removed.
func (h *History) SetMaxEntries(n int) {
	if n <= 0 {
		n = DefaultMaxEntries
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.maxEntries = n
	h.trimLocked()
}

// MaxEntries returns the maximum number of undo entries.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}

func (h *History) trimLocked() {
	if excess := len(h.undoStack) - h.maxEntries; excess > 0 {
		h.undoStack = h.undoStack[excess:]
	}
}
