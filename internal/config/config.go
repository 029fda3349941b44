package config

import (
	"github.com/dshills/linecore/internal/engine/buffer"
	"github.com/dshills/linecore/internal/engine/history"
)

// Config holds all linecore settings.
type Config struct {
	Editor  EditorConfig  `toml:"editor" yaml:"editor"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
}

// EditorConfig holds document settings.
type EditorConfig struct {
	// LineEnding is the line ending used when writing the document out:
	// "lf", "crlf" or "cr".
	LineEnding string `toml:"line_ending" yaml:"line_ending"`

	// Normalize is the Unicode normalization applied to inserted text:
	// "none", "nfc", "nfd", "nfkc" or "nfkd".
	Normalize string `toml:"normalize" yaml:"normalize"`

	// MaxUndo is the number of undo steps kept.
	MaxUndo int `toml:"max_undo" yaml:"max_undo"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `toml:"level" yaml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Editor: EditorConfig{
			LineEnding: "lf",
			Normalize:  "none",
			MaxUndo:    history.DefaultMaxEntries,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks every setting and returns the first invalid one.
func (c Config) Validate() error {
	if _, err := buffer.ParseLineEnding(c.Editor.LineEnding); err != nil {
		return &ValidationError{Setting: "editor.line_ending", Value: c.Editor.LineEnding, Err: err}
	}
	if _, _, err := buffer.ParseNormalization(c.Editor.Normalize); err != nil {
		return &ValidationError{Setting: "editor.normalize", Value: c.Editor.Normalize, Err: err}
	}
	if c.Editor.MaxUndo < 0 {
		return &ValidationError{Setting: "editor.max_undo", Value: c.Editor.MaxUndo, Err: errNegative}
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Setting: "logging.level", Value: c.Logging.Level, Err: errUnknownLevel}
	}
	return nil
}

// BufferOptions converts the editor settings into buffer options.
func (c Config) BufferOptions() ([]buffer.Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	le, _ := buffer.ParseLineEnding(c.Editor.LineEnding)
	opts := []buffer.Option{buffer.WithLineEnding(le)}
	if form, ok, _ := buffer.ParseNormalization(c.Editor.Normalize); ok {
		opts = append(opts, buffer.WithNormalization(form))
	}
	return opts, nil
}
