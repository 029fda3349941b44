package core

import (
	"github.com/dshills/linecore/internal/dispatcher"
	"github.com/dshills/linecore/internal/engine"
	"github.com/dshills/linecore/internal/engine/cursor"
	"github.com/dshills/linecore/internal/engine/dirty"
)

// Re-export the request and notification types.
type (
	// Request is one editing request.
	Request = dispatcher.Request

	// EditSpec is one replacement in an "edit" request.
	EditSpec = dispatcher.EditSpec

	// SelectionSpec is a selection given as byte offsets.
	SelectionSpec = dispatcher.SelectionSpec

	// Response reports the outcome of a request.
	Response = dispatcher.Response

	// EditResult echoes a committed edit.
	EditResult = dispatcher.EditResult

	// Code classifies a failed request.
	Code = dispatcher.Code

	// Invalidation is a range of lines to redraw.
	Invalidation = dirty.Range

	// LineView is a copy of one line with its carets and selection spans.
	LineView = engine.Line

	// Span is a selection highlight within a line.
	Span = cursor.Span
)

// Observer receives responses and invalidations. Both methods are called
// synchronously on the goroutine processing requests; they should return
// quickly. A Submit made from inside either method is queued and processed
// after the current request.
type Observer interface {
	OnResponse(resp Response)
	OnInvalidate(r Invalidation)
}

// ObserverFuncs adapts two functions to an Observer. Nil functions are
// skipped.
type ObserverFuncs struct {
	Response   func(Response)
	Invalidate func(Invalidation)
}

// OnResponse implements Observer.
func (o ObserverFuncs) OnResponse(resp Response) {
	if o.Response != nil {
		o.Response(resp)
	}
}

// OnInvalidate implements Observer.
func (o ObserverFuncs) OnInvalidate(r Invalidation) {
	if o.Invalidate != nil {
		o.Invalidate(r)
	}
}
