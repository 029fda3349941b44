package core

import (
	"github.com/dshills/linecore/internal/dispatcher"
	"github.com/dshills/linecore/internal/engine"
)

// Errors returned by Handle methods and reported in responses.
var (
	// ErrOutOfRange indicates a line or offset beyond the document.
	ErrOutOfRange = engine.ErrOutOfRange

	// ErrInvalidRange indicates a reversed, overlapping or misaligned range.
	ErrInvalidRange = engine.ErrInvalidRange

	// ErrMalformedRequest indicates a request that cannot be interpreted.
	ErrMalformedRequest = dispatcher.ErrMalformedRequest

	// ErrUseAfterFree indicates a call on a closed Handle.
	ErrUseAfterFree = dispatcher.ErrUseAfterFree
)

// Response codes.
const (
	CodeOutOfRange       = dispatcher.CodeOutOfRange
	CodeInvalidRange     = dispatcher.CodeInvalidRange
	CodeMalformedRequest = dispatcher.CodeMalformedRequest
	CodeUseAfterFree     = dispatcher.CodeUseAfterFree
	CodeNothingToUndo    = dispatcher.CodeNothingToUndo
	CodeNothingToRedo    = dispatcher.CodeNothingToRedo
	CodeInternal         = dispatcher.CodeInternal
)
