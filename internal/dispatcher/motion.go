package dispatcher

import (
	"github.com/rivo/uniseg"

	"github.com/dshills/linecore/internal/engine/buffer"
)

// ByteOffset is a byte position in the document.
type ByteOffset = buffer.ByteOffset

// nextBoundary returns the grapheme cluster boundary after off. A line
// break counts as one cluster.
func nextBoundary(snap buffer.Snapshot, off ByteOffset) ByteOffset {
	if off >= snap.Len() {
		return snap.Len()
	}
	_, end := lineBounds(snap, off)
	if off >= end {
		return off + 1
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(snap.TextRange(off, end), -1)
	return off + ByteOffset(len(cluster))
}

// prevBoundary returns the grapheme cluster boundary before off.
func prevBoundary(snap buffer.Snapshot, off ByteOffset) ByteOffset {
	if off <= 0 {
		return 0
	}
	start, _ := lineBounds(snap, off)
	if off == start {
		return off - 1
	}
	g := uniseg.NewGraphemes(snap.TextRange(start, off))
	last := 0
	for g.Next() {
		last, _ = g.Positions()
	}
	return start + ByteOffset(last)
}

// lineBounds returns the start of the line containing off and the offset
// of its terminator.
func lineBounds(snap buffer.Snapshot, off ByteOffset) (ByteOffset, ByteOffset) {
	line, err := snap.LineContaining(off)
	if err != nil {
		return snap.Len(), snap.Len()
	}
	start, end, _ := snap.LineRange(line)
	return start, end
}

// column returns the number of grapheme clusters between the start of the
// line and off.
func column(snap buffer.Snapshot, off ByteOffset) int {
	start, _ := lineBounds(snap, off)
	return uniseg.GraphemeClusterCount(snap.TextRange(start, off))
}

// offsetAtColumn returns the offset of the col-th grapheme cluster of line,
// or the line end when the line is shorter.
func offsetAtColumn(snap buffer.Snapshot, line uint32, col int) ByteOffset {
	start, end, err := snap.LineRange(line)
	if err != nil {
		return snap.Len()
	}
	pos := 0
	g := uniseg.NewGraphemes(snap.TextRange(start, end))
	for i := 0; i < col && g.Next(); i++ {
		_, pos = g.Positions()
	}
	return start + ByteOffset(pos)
}

// verticalMove moves off by delta lines keeping its grapheme column.
// Moving above the first line goes to its start, below the last line to
// its end.
func verticalMove(snap buffer.Snapshot, off ByteOffset, delta int) ByteOffset {
	line, err := snap.LineContaining(off)
	if err != nil {
		return off
	}
	target := int(line) + delta
	switch {
	case target < 0:
		return 0
	case target >= int(snap.LineCount()):
		return snap.Len()
	}
	return offsetAtColumn(snap, uint32(target), column(snap, off))
}
