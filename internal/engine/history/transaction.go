package history

import (
	"time"

	"github.com/dshills/linecore/internal/engine/buffer"
	"github.com/dshills/linecore/internal/engine/cursor"
)

// Transaction is one undoable change: the edits committed by a single
// request and the selections around it.
type Transaction struct {
	// Description names the request that produced the change.
	Description string

	// Edits are the committed edits, ordered by position.
	Edits []buffer.AppliedEdit

	// Before and After are the selections before and after the change.
	Before []cursor.Selection
	After  []cursor.Selection

	// Timestamp records when the transaction was committed.
	Timestamp time.Time
}

// NewTransaction creates a transaction stamped with the current time.
func NewTransaction(desc string, edits []buffer.AppliedEdit, before, after []cursor.Selection) *Transaction {
	return &Transaction{
		Description: desc,
		Edits:       edits,
		Before:      before,
		After:       after,
		Timestamp:   time.Now(),
	}
}

// Inverse returns the batch that reverts the transaction, expressed against
// the document as it is after the transaction.
func (tx *Transaction) Inverse() []buffer.Edit {
	edits := make([]buffer.Edit, len(tx.Edits))
	for i, e := range tx.Edits {
		edits[i] = e.Inverse()
	}
	return edits
}

// Forward returns the batch that re-applies the transaction, expressed
// against the document as it was before the transaction.
func (tx *Transaction) Forward() []buffer.Edit {
	edits := make([]buffer.Edit, len(tx.Edits))
	for i, e := range tx.Edits {
		edits[i] = buffer.NewEdit(e.OldRange, e.NewText)
	}
	return edits
}

// IsEmpty returns true if the transaction changed no text.
func (tx *Transaction) IsEmpty() bool {
	for _, e := range tx.Edits {
		if !e.IsNoOp() {
			return false
		}
	}
	return true
}

// OperationInfo describes a transaction for display.
type OperationInfo struct {
	Description string
	Timestamp   time.Time
}

func (tx *Transaction) info() OperationInfo {
	return OperationInfo{Description: tx.Description, Timestamp: tx.Timestamp}
}
