// Package view is a terminal front-end for a core.Handle.
//
// The view keeps a mirror of the document built from QueryLine results and
// updates it only from invalidations: each range is re-queried and spliced
// into the mirror, and only rows showing changed lines are redrawn. Keys are
// translated into requests and submitted on the event loop goroutine.
package view
