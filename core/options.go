package core

import (
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/text/unicode/norm"

	"github.com/dshills/linecore/internal/config"
	"github.com/dshills/linecore/internal/dispatcher"
	"github.com/dshills/linecore/internal/engine"
	"github.com/dshills/linecore/internal/engine/buffer"
	"github.com/dshills/linecore/internal/logging"
)

// LineEnding selects the line ending used by WriteTo.
type LineEnding = buffer.LineEnding

// Supported line endings.
const (
	LineEndingLF   = buffer.LineEndingLF
	LineEndingCRLF = buffer.LineEndingCRLF
	LineEndingCR   = buffer.LineEndingCR
)

// ParseLineEnding converts "lf", "crlf" or "cr" to a LineEnding.
func ParseLineEnding(name string) (LineEnding, error) {
	return buffer.ParseLineEnding(name)
}

// Option configures a Handle during creation.
type Option func(*options)

type options struct {
	engine     []engine.Option
	dispatcher dispatcher.Config
	reader     io.Reader
	err        error
}

func defaultOptions() *options {
	return &options{dispatcher: dispatcher.DefaultConfig()}
}

// WithContent sets the initial document. Line endings are normalized to LF.
func WithContent(content string) Option {
	return func(o *options) {
		o.reader = nil
		o.engine = append(o.engine, engine.WithContent(content))
	}
}

// WithReader reads the initial document from r.
func WithReader(r io.Reader) Option {
	return func(o *options) {
		o.reader = r
	}
}

// WithLineEnding sets the line ending used by WriteTo.
func WithLineEnding(ending LineEnding) Option {
	return func(o *options) {
		o.engine = append(o.engine, engine.WithLineEnding(ending))
	}
}

// WithNormalization normalizes all text entering the document to form.
func WithNormalization(form norm.Form) Option {
	return func(o *options) {
		o.engine = append(o.engine, engine.WithNormalization(form))
	}
}

// WithMaxUndo sets the number of undo steps kept.
func WithMaxUndo(n int) Option {
	return func(o *options) {
		o.engine = append(o.engine, engine.WithMaxUndoEntries(n))
	}
}

// WithLogger sets the logger used for request logs.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		o.dispatcher = o.dispatcher.WithLogger(logger)
	}
}

// WithMetrics enables per-method dispatch statistics. See Handle.Metrics.
func WithMetrics() Option {
	return func(o *options) {
		o.dispatcher = o.dispatcher.WithMetrics()
	}
}

// WithMaxRepeatCount limits the repeat count of motions and deletions.
func WithMaxRepeatCount(n int) Option {
	return func(o *options) {
		o.dispatcher = o.dispatcher.WithMaxRepeatCount(n)
	}
}

// WithConfig applies loaded settings. An invalid configuration makes New
// fail.
func WithConfig(cfg config.Config) Option {
	return func(o *options) {
		if err := cfg.Validate(); err != nil {
			o.err = err
			return
		}
		le, _ := buffer.ParseLineEnding(cfg.Editor.LineEnding)
		o.engine = append(o.engine, engine.WithLineEnding(le))
		if form, ok, _ := buffer.ParseNormalization(cfg.Editor.Normalize); ok {
			o.engine = append(o.engine, engine.WithNormalization(form))
		}
		if cfg.Editor.MaxUndo > 0 {
			o.engine = append(o.engine, engine.WithMaxUndoEntries(cfg.Editor.MaxUndo))
		}
		if cfg.Logging.Level != "" {
			o.dispatcher = o.dispatcher.WithLogger(logging.New(cfg.Logging.Level))
		}
	}
}
