// Package history provides undo/redo for committed buffer changes.
//
// Every request that changes the document is recorded as one Transaction:
// the edits exactly as the buffer committed them plus the selections before
// and after. Undoing a transaction applies the inverse edits as a single
// batch and restores the earlier selections; redoing re-applies the original
// edits.
//
//	h := history.New(1000)
//	h.Push(history.NewTransaction("insert", applied, before, after))
//
//	err := h.Undo(func(tx *history.Transaction) error {
//		_, err := buf.ApplyBatch(tx.Inverse())
//		return err
//	})
//
// If the apply callback fails the transaction stays where it was.
package history
