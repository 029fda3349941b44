package engine

import (
	"strings"
	"testing"

	"github.com/dshills/linecore/internal/engine/buffer"
	"github.com/dshills/linecore/internal/engine/cursor"
)

func setupLargeEngine(b *testing.B, lines int) *Engine {
	b.Helper()
	line := strings.Repeat("x", 80) + "\n"
	return New(WithContent(strings.Repeat(line, lines)))
}

func BenchmarkApplyInsert(b *testing.B) {
	e := setupLargeEngine(b, 10000)
	mid := e.Len() / 2
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := e.Apply(Change{Edits: []Edit{buffer.NewInsert(mid, "y")}}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkApplyMultiCursor(b *testing.B) {
	e := setupLargeEngine(b, 10000)
	sels := make([]Selection, 0, 100)
	for i := range 100 {
		sels = append(sels, cursor.NewCaret(ByteOffset(i*81*100)))
	}
	if _, err := e.Apply(Change{Selections: SetSelections(sels...)}); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		edits := make([]Edit, 0, len(sels))
		for _, sel := range e.Selections() {
			edits = append(edits, buffer.NewInsert(sel.Head, "z"))
		}
		if _, err := e.Apply(Change{Edits: edits}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkStateLine(b *testing.B) {
	e := setupLargeEngine(b, 10000)
	st := e.State()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = st.Line(uint32(i % 10000))
	}
}
