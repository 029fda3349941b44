package dispatcher

import (
	"errors"
	"fmt"

	"github.com/dshills/linecore/internal/engine"
	"github.com/dshills/linecore/internal/engine/buffer"
)

// Dispatcher errors.
var (
	// ErrMalformedRequest indicates a request that cannot be interpreted.
	ErrMalformedRequest = errors.New("malformed request")

	// ErrUnknownMethod indicates a request for a method with no handler.
	ErrUnknownMethod = fmt.Errorf("%w: unknown method", ErrMalformedRequest)

	// ErrUseAfterFree indicates a call on a dispatcher that has been closed.
	ErrUseAfterFree = errors.New("use after free")

	// ErrPanic indicates the handler panicked.
	ErrPanic = errors.New("dispatcher: handler panic")
)

// Code classifies a failed request in a Response.
type Code string

// Response codes.
const (
	CodeOK               Code = ""
	CodeOutOfRange       Code = "out_of_range"
	CodeInvalidRange     Code = "invalid_range"
	CodeMalformedRequest Code = "malformed_request"
	CodeUseAfterFree     Code = "use_after_free"
	CodeNothingToUndo    Code = "nothing_to_undo"
	CodeNothingToRedo    Code = "nothing_to_redo"
	CodeInternal         Code = "internal"
)

// CodeOf returns the response code for err.
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, ErrUseAfterFree):
		return CodeUseAfterFree
	case errors.Is(err, ErrMalformedRequest), errors.Is(err, buffer.ErrInvalidText):
		return CodeMalformedRequest
	case errors.Is(err, engine.ErrInvalidRange):
		return CodeInvalidRange
	case errors.Is(err, engine.ErrOutOfRange):
		return CodeOutOfRange
	case errors.Is(err, engine.ErrNothingToUndo):
		return CodeNothingToUndo
	case errors.Is(err, engine.ErrNothingToRedo):
		return CodeNothingToRedo
	default:
		return CodeInternal
	}
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedRequest, fmt.Sprintf(format, args...))
}
