package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError   = "error"
	FieldPath    = "path"
	FieldHandle  = "handle"
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"

	// Request fields.
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldCode      = "code"
	FieldEdits     = "edits"
	FieldQueued    = "queued"

	// Document fields.
	FieldRevision   = "revision"
	FieldLines      = "lines"
	FieldBytes      = "bytes"
	FieldSelections = "selections"
	FieldRanges     = "ranges"
	FieldLineEnding = "line_ending"
)
