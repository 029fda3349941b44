// Package dispatcher serializes editing requests onto a single timeline.
//
// A Request names a method ("edit", "insert", "move_left", "undo", ...) and
// carries its parameters. The dispatcher looks the method up in its
// Registry, runs the handler against the engine and reports the outcome to
// an Observer: first every invalidated line range, then one Response.
//
// # Ordering
//
// Requests are processed strictly in the order they were submitted. Submit
// appends the request to a queue; the goroutine that finds the dispatcher
// idle drains the queue, so a Submit made while another request is being
// processed, including one made from inside an Observer callback, returns
// immediately and the request runs after the current one has finished
// notifying.
//
// # Atomicity
//
// Each request is one engine change. A rejected request leaves the document
// and the selections untouched, produces a Response with OK set to false
// and a Code describing the failure, and never produces an invalidation.
//
// # Handlers
//
// Handlers have the signature
//
//	type HandlerFunc func(e *engine.Engine, req Request) (engine.Result, error)
//
// The built-in methods are registered by New; additional methods can be
// added through Registry.
package dispatcher
