package dispatcher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/linecore/internal/engine/buffer"
)

func TestMergeRanges(t *testing.T) {
	tests := []struct {
		name string
		in   []buffer.Range
		want []buffer.Range
	}{
		{"disjoint", []buffer.Range{{Start: 5, End: 6}, {Start: 0, End: 2}}, []buffer.Range{{Start: 0, End: 2}, {Start: 5, End: 6}}},
		{"overlap", []buffer.Range{{Start: 0, End: 3}, {Start: 2, End: 5}}, []buffer.Range{{Start: 0, End: 5}}},
		{"adjacent selections stay apart", []buffer.Range{{Start: 0, End: 2}, {Start: 2, End: 4}}, []buffer.Range{{Start: 0, End: 2}, {Start: 2, End: 4}}},
		{"caret at selection end", []buffer.Range{{Start: 0, End: 2}, {Start: 2, End: 2}}, []buffer.Range{{Start: 0, End: 2}}},
		{"identical carets", []buffer.Range{{Start: 1, End: 1}, {Start: 1, End: 1}}, []buffer.Range{{Start: 1, End: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mergeRanges(tt.in))
		})
	}
}

func TestGraphemeBoundaries(t *testing.T) {
	// "e" + combining acute, then a flag made of two regional indicators.
	snap := buffer.NewBufferFromString("xe\u0301\U0001F1EF\U0001F1F5\ny").Snapshot()

	assert.Equal(t, ByteOffset(1), nextBoundary(snap, 0))
	assert.Equal(t, ByteOffset(4), nextBoundary(snap, 1))
	assert.Equal(t, ByteOffset(12), nextBoundary(snap, 4))
	assert.Equal(t, ByteOffset(13), nextBoundary(snap, 12), "line break is one step")
	assert.Equal(t, ByteOffset(14), nextBoundary(snap, 14), "end of document")

	assert.Equal(t, ByteOffset(4), prevBoundary(snap, 12))
	assert.Equal(t, ByteOffset(1), prevBoundary(snap, 4))
	assert.Equal(t, ByteOffset(12), prevBoundary(snap, 13))
	assert.Equal(t, ByteOffset(0), prevBoundary(snap, 0))
}

func TestVerticalMoveKeepsGraphemeColumn(t *testing.T) {
	snap := buffer.NewBufferFromString("e\u0301e\u0301x\nabcd\nz").Snapshot()

	// Column 2 of line 0 is byte 6.
	assert.Equal(t, ByteOffset(10), verticalMove(snap, 6, 1))
	assert.Equal(t, ByteOffset(6), verticalMove(snap, 10, -1))
	assert.Equal(t, ByteOffset(14), verticalMove(snap, 10, 1), "short line clamps to its end")
	assert.Equal(t, ByteOffset(0), verticalMove(snap, 6, -1))
	assert.Equal(t, snap.Len(), verticalMove(snap, 14, 1))
}
