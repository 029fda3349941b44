package engine

import (
	"github.com/dshills/linecore/internal/engine/buffer"
	"github.com/dshills/linecore/internal/engine/history"
)

// Errors returned by engine operations.
var (
	// ErrOutOfRange indicates a line or offset outside the document.
	ErrOutOfRange = buffer.ErrOutOfRange

	// ErrInvalidRange indicates a reversed, overlapping or misaligned range.
	ErrInvalidRange = buffer.ErrInvalidRange

	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = history.ErrNothingToUndo

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = history.ErrNothingToRedo
)
