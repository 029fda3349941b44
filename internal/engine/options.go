package engine

import (
	"golang.org/x/text/unicode/norm"

	"github.com/dshills/linecore/internal/engine/buffer"
	"github.com/dshills/linecore/internal/engine/history"
)

// DefaultMaxUndoEntries is the undo depth used when none is configured.
const DefaultMaxUndoEntries = history.DefaultMaxEntries

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial content of the engine.
func WithContent(content string) Option {
	return func(e *Engine) {
		e.initContent = content
	}
}

// WithLineEnding sets the line ending used when writing the document out.
func WithLineEnding(ending buffer.LineEnding) Option {
	return func(e *Engine) {
		e.lineEnding = ending
	}
}

// WithNormalization normalizes all text entering the document to form.
func WithNormalization(form norm.Form) Option {
	return func(e *Engine) {
		e.form = form
		e.normalize = true
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
func WithMaxUndoEntries(max int) Option {
	return func(e *Engine) {
		if max > 0 {
			e.maxUndoEntries = max
		}
	}
}

func (e *Engine) bufferOptions() []buffer.Option {
	opts := []buffer.Option{buffer.WithLineEnding(e.lineEnding)}
	if e.normalize {
		opts = append(opts, buffer.WithNormalization(e.form))
	}
	return opts
}
