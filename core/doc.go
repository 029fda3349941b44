// Package core is the embedding API of linecore.
//
// A Handle owns one document, its selections and its undo history. Callers
// submit requests, either as decoded Request values or as JSON messages,
// and receive the outcome through the Observer given to New: zero or more
// invalidated line ranges followed by one Response per request.
//
//	h, err := core.New(core.ObserverFuncs{
//		Response:   func(r core.Response) { ... },
//		Invalidate: func(r core.Invalidation) { redraw(r) },
//	}, core.WithContent("abc\ndef\n"))
//	if err != nil {
//		return err
//	}
//	defer h.Close()
//
//	h.Submit(core.Request{
//		Method: "edit",
//		Edits:  []core.EditSpec{{Start: 1, End: 2, Text: "XYZ"}},
//	})
//	line, _ := h.QueryLine(0) // line.Text == "aXYZc"
//
// # Invalidations
//
// An Invalidation covers lines [Start, End) of the document after the
// request and replaces Len()-LineDelta lines of the previous document. A
// view that applies the ranges of a request in order and re-queries exactly
// the lines they cover stays identical to the document.
//
// # Lifetime
//
// Close releases the document. Every later call, including a second Close,
// fails with ErrUseAfterFree.
package core
