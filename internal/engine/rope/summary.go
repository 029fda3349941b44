package rope

import "strings"

// ByteOffset represents an absolute byte position in the rope.
type ByteOffset = int64

// Point represents a line/column position.
// Line and Column are both 0-indexed; Column counts bytes.
type Point struct {
	Line   uint32
	Column uint32
}

// TextSummary holds aggregated metrics for a span of text.
// Summaries form a monoid under Add, which lets internal nodes cache the
// summary of their whole subtree.
type TextSummary struct {
	// Bytes is the UTF-8 byte count.
	Bytes ByteOffset

	// Lines is the number of newline characters.
	Lines uint32

	// Flags indicate text properties for fast paths.
	Flags TextFlags
}

// TextFlags indicate text properties for optimization fast paths.
type TextFlags uint8

const (
	// FlagASCII indicates all bytes are ASCII (< 128).
	FlagASCII TextFlags = 1 << iota
)

// Add combines two summaries.
func (s TextSummary) Add(other TextSummary) TextSummary {
	if s.Bytes == 0 {
		return other
	}
	if other.Bytes == 0 {
		return s
	}
	return TextSummary{
		Bytes: s.Bytes + other.Bytes,
		Lines: s.Lines + other.Lines,
		Flags: s.Flags & other.Flags,
	}
}

// IsASCII reports whether every byte in the span is ASCII.
func (s TextSummary) IsASCII() bool {
	return s.Flags&FlagASCII != 0
}

// ComputeSummary calculates metrics for a string.
func ComputeSummary(s string) TextSummary {
	sum := TextSummary{
		Bytes: ByteOffset(len(s)),
		Lines: uint32(strings.Count(s, "\n")),
		Flags: FlagASCII,
	}
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			sum.Flags &^= FlagASCII
			break
		}
	}
	return sum
}

// nthNewline returns the byte index of the nth newline (1-indexed) in s,
// or -1 if s has fewer than n newlines.
func nthNewline(s string, n uint32) int {
	if n == 0 {
		return -1
	}
	base := 0
	for {
		i := strings.IndexByte(s[base:], '\n')
		if i < 0 {
			return -1
		}
		n--
		if n == 0 {
			return base + i
		}
		base += i + 1
	}
}
