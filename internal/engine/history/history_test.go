package history

import (
	"errors"
	"testing"

	"github.com/dshills/linecore/internal/engine/buffer"
	"github.com/dshills/linecore/internal/engine/cursor"
)

// commit applies edits and records them as a transaction.
func commit(t *testing.T, h *History, buf *buffer.Buffer, edits ...buffer.Edit) *Transaction {
	t.Helper()
	applied, err := buf.ApplyBatch(edits)
	if err != nil {
		t.Fatalf("ApplyBatch: %v", err)
	}
	tx := NewTransaction("edit", applied, []cursor.Selection{cursor.NewCaret(0)}, []cursor.Selection{cursor.NewCaret(1)})
	h.Push(tx)
	return tx
}

func undoInto(buf *buffer.Buffer) ApplyFunc {
	return func(tx *Transaction) error {
		_, err := buf.ApplyBatch(tx.Inverse())
		return err
	}
}

func redoInto(buf *buffer.Buffer) ApplyFunc {
	return func(tx *Transaction) error {
		_, err := buf.ApplyBatch(tx.Forward())
		return err
	}
}

func TestNewTransaction(t *testing.T) {
	tx := NewTransaction("insert", nil, nil, nil)
	if tx.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
	if !tx.IsEmpty() {
		t.Error("transaction without edits should be empty")
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	buf := buffer.NewBufferFromString("one\ntwo\nthree")
	h := New(10)

	commit(t, h, buf, buffer.NewInsert(0, ">"), buffer.NewDelete(4, 8))
	commit(t, h, buf, buffer.NewEdit(buffer.NewRange(1, 4), "ONE"))
	if buf.Text() != ">ONE\nthree" {
		t.Fatalf("Text() = %q", buf.Text())
	}

	if err := h.Undo(undoInto(buf)); err != nil {
		t.Fatal(err)
	}
	if buf.Text() != ">one\nthree" {
		t.Errorf("after first undo: %q", buf.Text())
	}
	if err := h.Undo(undoInto(buf)); err != nil {
		t.Fatal(err)
	}
	if buf.Text() != "one\ntwo\nthree" {
		t.Errorf("after second undo: %q", buf.Text())
	}
	if err := h.Undo(undoInto(buf)); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo on empty stack = %v, want ErrNothingToUndo", err)
	}

	if err := h.Redo(redoInto(buf)); err != nil {
		t.Fatal(err)
	}
	if err := h.Redo(redoInto(buf)); err != nil {
		t.Fatal(err)
	}
	if buf.Text() != ">ONE\nthree" {
		t.Errorf("after redo: %q", buf.Text())
	}
	if err := h.Redo(redoInto(buf)); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo on empty stack = %v, want ErrNothingToRedo", err)
	}
}

func TestPushClearsRedo(t *testing.T) {
	buf := buffer.NewBufferFromString("abc")
	h := New(10)

	commit(t, h, buf, buffer.NewInsert(3, "d"))
	if err := h.Undo(undoInto(buf)); err != nil {
		t.Fatal(err)
	}
	if !h.CanRedo() {
		t.Fatal("expected redo to be available")
	}
	commit(t, h, buf, buffer.NewInsert(0, "z"))
	if h.CanRedo() {
		t.Error("push should clear the redo stack")
	}
}

func TestPushIgnoresNoOp(t *testing.T) {
	buf := buffer.NewBufferFromString("abc")
	h := New(10)
	commit(t, h, buf, buffer.NewEdit(buffer.NewRange(0, 1), "a"))
	if h.CanUndo() {
		t.Error("no-op transaction should not be recorded")
	}
}

func TestUndoFailureRestoresEntry(t *testing.T) {
	buf := buffer.NewBufferFromString("abc")
	h := New(10)
	commit(t, h, buf, buffer.NewInsert(3, "d"))

	boom := errors.New("boom")
	if err := h.Undo(func(*Transaction) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("Undo error = %v, want boom", err)
	}
	if h.UndoCount() != 1 || h.RedoCount() != 0 {
		t.Errorf("counts = %d/%d, want 1/0", h.UndoCount(), h.RedoCount())
	}
}

func TestMaxEntries(t *testing.T) {
	buf := buffer.NewBufferFromString("")
	h := New(3)
	for range 5 {
		commit(t, h, buf, buffer.NewInsert(0, "x"))
	}
	if h.UndoCount() != 3 {
		t.Errorf("UndoCount() = %d, want 3", h.UndoCount())
	}

	h.SetMaxEntries(1)
	if h.UndoCount() != 1 || h.MaxEntries() != 1 {
		t.Errorf("after SetMaxEntries(1): count %d, max %d", h.UndoCount(), h.MaxEntries())
	}
	if New(0).MaxEntries() != DefaultMaxEntries {
		t.Error("non-positive max should use the default")
	}
}

func TestPeekAndClear(t *testing.T) {
	buf := buffer.NewBufferFromString("abc")
	h := New(10)
	if _, ok := h.PeekUndo(); ok {
		t.Error("PeekUndo on empty history should fail")
	}

	commit(t, h, buf, buffer.NewInsert(0, "x"))
	info, ok := h.PeekUndo()
	if !ok || info.Description != "edit" {
		t.Errorf("PeekUndo() = %+v, %v", info, ok)
	}

	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Error("Clear should empty both stacks")
	}
}
