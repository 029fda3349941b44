// Package rpc converts between JSON messages and dispatcher requests.
//
// Requests use the envelope
//
//	{"id": "7", "method": "edit", "params": {"edits": [{"start": 1, "end": 2, "text": "XYZ"}]}}
//
// where params may hold "edits", "text", "selections" (a list of
// {"anchor", "head"} objects), "count" and "extend". Responses, invalidations
// and line views are encoded as
//
//	{"id": "7", "ok": true, "revision": 1, "result": {"edits": [...], "selections": [...]}}
//	{"id": "8", "ok": false, "revision": 1, "error": {"code": "invalid_range", "message": "..."}}
//	{"method": "invalidate", "params": {"start": 0, "end": 1, "line_delta": 0}}
//	{"line": 0, "text": "aXYZc", "cursors": [1], "selections": [[2, 3]]}
package rpc
