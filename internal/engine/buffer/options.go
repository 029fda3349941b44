package buffer

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// LineEnding selects how line breaks are written out by WriteTo.
// Text is always stored with "\n".
type LineEnding uint8

const (
	// LineEndingLF uses Unix line endings (\n).
	LineEndingLF LineEnding = iota
	// LineEndingCRLF uses Windows line endings (\r\n).
	LineEndingCRLF
	// LineEndingCR uses old Mac line endings (\r).
	LineEndingCR
)

// String returns the line ending characters.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Name returns the configuration name of the line ending.
func (le LineEnding) Name() string {
	switch le {
	case LineEndingCRLF:
		return "crlf"
	case LineEndingCR:
		return "cr"
	default:
		return "lf"
	}
}

// ParseLineEnding converts a configuration name ("lf", "crlf", "cr") to a
// LineEnding. The empty string maps to LineEndingLF.
func ParseLineEnding(name string) (LineEnding, error) {
	switch strings.ToLower(name) {
	case "", "lf", "unix":
		return LineEndingLF, nil
	case "crlf", "dos", "windows":
		return LineEndingCRLF, nil
	case "cr", "mac":
		return LineEndingCR, nil
	}
	return LineEndingLF, fmt.Errorf("unknown line ending %q", name)
}

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithLineEnding sets the buffer's output line ending style.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) {
		b.lineEnding = le
	}
}

// WithNormalization applies the given Unicode normalization form to all
// text entering the buffer.
func WithNormalization(form norm.Form) Option {
	return func(b *Buffer) {
		b.form = form
		b.normalize = true
	}
}

// ParseNormalization converts a configuration name ("nfc", "nfd", "nfkc",
// "nfkd") to a normalization form. The empty string and "none" report ok=false.
func ParseNormalization(name string) (form norm.Form, ok bool, err error) {
	switch strings.ToLower(name) {
	case "", "none":
		return norm.NFC, false, nil
	case "nfc":
		return norm.NFC, true, nil
	case "nfd":
		return norm.NFD, true, nil
	case "nfkc":
		return norm.NFKC, true, nil
	case "nfkd":
		return norm.NFKD, true, nil
	}
	return norm.NFC, false, fmt.Errorf("unknown normalization form %q", name)
}

// normalizeNewlines converts "\r\n" and lone "\r" to "\n".
func normalizeNewlines(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
