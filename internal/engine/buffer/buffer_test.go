package buffer

import (
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"golang.org/x/text/unicode/norm"
)

func TestNewBuffer(t *testing.T) {
	b := NewBuffer()

	if !b.IsEmpty() {
		t.Error("new buffer should be empty")
	}
	if b.LineCount() != 1 {
		t.Errorf("expected 1 line, got %d", b.LineCount())
	}
	line, err := b.ReadLine(0)
	if err != nil || line != "" {
		t.Errorf("ReadLine(0) = %q, %v; want empty line", line, err)
	}
	if _, err := b.ReadLine(1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("ReadLine(1) error = %v, want ErrOutOfRange", err)
	}
}

func TestNewBufferFromString(t *testing.T) {
	b := NewBufferFromString("line1\r\nline2\rline3")

	if b.Text() != "line1\nline2\nline3" {
		t.Errorf("line breaks not normalized: %q", b.Text())
	}
	if b.LineCount() != 3 {
		t.Errorf("expected 3 lines, got %d", b.LineCount())
	}
	for i, want := range []string{"line1", "line2", "line3"} {
		got, err := b.ReadLine(uint32(i))
		if err != nil || got != want {
			t.Errorf("ReadLine(%d) = %q, %v; want %q", i, got, err, want)
		}
	}
}

func TestNewBufferFromReader(t *testing.T) {
	b, err := NewBufferFromReader(strings.NewReader("abc\ndef\n"))
	if err != nil {
		t.Fatal(err)
	}
	if b.LineCount() != 3 {
		t.Errorf("expected 3 lines, got %d", b.LineCount())
	}
}

func TestApplyEditReplace(t *testing.T) {
	b := NewBufferFromString("abc\ndef\n")

	applied, err := b.ApplyEdit(NewEdit(NewRange(1, 2), "XYZ"))
	if err != nil {
		t.Fatal(err)
	}

	if applied.OldText != "b" || applied.NewText != "XYZ" {
		t.Errorf("applied texts = %q/%q", applied.OldText, applied.NewText)
	}
	if applied.NewRange != NewRange(1, 4) {
		t.Errorf("NewRange = %s, want [1:4)", applied.NewRange)
	}
	if applied.OldLines != (LineSpan{0, 1}) || applied.NewLines != (LineSpan{0, 1}) {
		t.Errorf("line spans = %s/%s, want lines[0:1)", applied.OldLines, applied.NewLines)
	}
	if applied.Delta != 2 {
		t.Errorf("Delta = %d, want 2", applied.Delta)
	}

	if line, _ := b.ReadLine(0); line != "aXYZc" {
		t.Errorf("line 0 = %q, want aXYZc", line)
	}
	if line, _ := b.ReadLine(1); line != "def" {
		t.Errorf("line 1 = %q, want def", line)
	}
	if b.Revision() != 1 {
		t.Errorf("Revision() = %d, want 1", b.Revision())
	}
}

func TestApplyEditLineSpans(t *testing.T) {
	tests := []struct {
		name     string
		initial  string
		edit     Edit
		oldLines LineSpan
		newLines LineSpan
	}{
		{"insert newline", "abc\ndef", NewInsert(1, "\n"), LineSpan{0, 1}, LineSpan{0, 2}},
		{"join lines", "abc\ndef", NewDelete(3, 4), LineSpan{0, 2}, LineSpan{0, 1}},
		{"second line", "abc\ndef\nghi", NewEdit(NewRange(5, 6), "E"), LineSpan{1, 2}, LineSpan{1, 2}},
		{"append at end", "abc\n", NewInsert(4, "x\ny"), LineSpan{1, 2}, LineSpan{1, 3}},
		{"delete all", "a\nb\nc", NewDelete(0, 5), LineSpan{0, 3}, LineSpan{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBufferFromString(tt.initial)
			applied, err := b.ApplyEdit(tt.edit)
			if err != nil {
				t.Fatal(err)
			}
			if applied.OldLines != tt.oldLines {
				t.Errorf("OldLines = %s, want %s", applied.OldLines, tt.oldLines)
			}
			if applied.NewLines != tt.newLines {
				t.Errorf("NewLines = %s, want %s", applied.NewLines, tt.newLines)
			}
		})
	}
}

func TestApplyEditRejected(t *testing.T) {
	tests := []struct {
		name string
		edit Edit
		want error
	}{
		{"reversed", NewEdit(NewRange(5, 2), "x"), ErrInvalidRange},
		{"past end", NewDelete(2, 10), ErrOutOfRange},
		{"negative", NewInsert(-1, "x"), ErrOutOfRange},
		{"splits rune", NewDelete(4, 5), ErrInvalidRange},
		{"invalid utf8", NewInsert(0, "\xff"), ErrInvalidText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBufferFromString("ab\n世")
			before := b.Snapshot()

			if _, err := b.ApplyEdit(tt.edit); !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			after := b.Snapshot()
			if after.Text() != before.Text() || after.LineCount() != before.LineCount() {
				t.Error("rejected edit changed the document")
			}
			if after.Revision() != before.Revision() {
				t.Error("rejected edit bumped the revision")
			}
		})
	}
}

func TestApplyBatch(t *testing.T) {
	b := NewBufferFromString("one\ntwo\nthree")

	applied, err := b.ApplyBatch([]Edit{
		NewEdit(NewRange(8, 13), "3"),
		NewInsert(0, "zero\n"),
		NewEdit(NewRange(4, 7), "2"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got, want := b.Text(), "zero\none\n2\n3"; got != want {
		t.Fatalf("Text() = %q, want %q", got, want)
	}
	if b.Revision() != 1 {
		t.Errorf("batch should bump revision once, got %d", b.Revision())
	}

	wantNew := []Range{{0, 5}, {9, 10}, {11, 12}}
	wantLines := []LineSpan{{0, 2}, {2, 3}, {3, 4}}
	for i, a := range applied {
		if a.NewRange != wantNew[i] {
			t.Errorf("edit %d NewRange = %s, want %s", i, a.NewRange, wantNew[i])
		}
		if a.NewLines != wantLines[i] {
			t.Errorf("edit %d NewLines = %s, want %s", i, a.NewLines, wantLines[i])
		}
		if got := b.TextRange(a.NewRange.Start, a.NewRange.End); got != a.NewText {
			t.Errorf("edit %d text at NewRange = %q, want %q", i, got, a.NewText)
		}
	}
}

func TestApplyBatchSameOffsetInserts(t *testing.T) {
	b := NewBufferFromString("ac")
	applied, err := b.ApplyBatch([]Edit{NewInsert(1, "b"), NewInsert(1, "B")})
	if err != nil {
		t.Fatal(err)
	}
	if b.Text() != "abBc" {
		t.Errorf("Text() = %q, want abBc", b.Text())
	}
	if applied[0].NewRange != NewRange(1, 2) || applied[1].NewRange != NewRange(2, 3) {
		t.Errorf("NewRanges = %s, %s", applied[0].NewRange, applied[1].NewRange)
	}
}

func TestApplyBatchOverlap(t *testing.T) {
	b := NewBufferFromString("hello world")

	_, err := b.ApplyBatch([]Edit{NewDelete(0, 5), NewEdit(NewRange(3, 8), "x")})
	if !errors.Is(err, ErrEditsOverlap) || !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("error = %v, want ErrEditsOverlap", err)
	}
	_, err = b.ApplyBatch([]Edit{NewInsert(0, "ok"), NewDelete(20, 30)})
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("error = %v, want ErrOutOfRange", err)
	}
	if b.Text() != "hello world" || b.Revision() != 0 {
		t.Error("rejected batch changed the buffer")
	}
}

func TestInverseRestores(t *testing.T) {
	b := NewBufferFromString("alpha\nbeta\ngamma")
	applied, err := b.ApplyBatch([]Edit{NewEdit(NewRange(0, 5), "A"), NewDelete(6, 11)})
	if err != nil {
		t.Fatal(err)
	}

	inverse := make([]Edit, len(applied))
	for i, a := range applied {
		inverse[i] = a.Inverse()
	}
	if _, err := b.ApplyBatch(inverse); err != nil {
		t.Fatal(err)
	}
	if b.Text() != "alpha\nbeta\ngamma" {
		t.Errorf("Text() = %q after inverse", b.Text())
	}
}

func TestNormalization(t *testing.T) {
	b := NewBuffer(WithNormalization(norm.NFC))
	if _, err := b.Insert(0, "e\u0301"); err != nil {
		t.Fatal(err)
	}
	if b.Text() != "\u00e9" {
		t.Errorf("Text() = %q, want NFC form", b.Text())
	}
}

func TestWriteTo(t *testing.T) {
	tests := []struct {
		le   LineEnding
		want string
	}{
		{LineEndingLF, "a\nb\n"},
		{LineEndingCRLF, "a\r\nb\r\n"},
		{LineEndingCR, "a\rb\r"},
	}
	for _, tt := range tests {
		t.Run(tt.le.Name(), func(t *testing.T) {
			b := NewBufferFromString("a\nb\n", WithLineEnding(tt.le))
			var out bytes.Buffer
			n, err := b.WriteTo(&out)
			if err != nil {
				t.Fatal(err)
			}
			if out.String() != tt.want || n != int64(len(tt.want)) {
				t.Errorf("WriteTo = %q (%d), want %q", out.String(), n, tt.want)
			}
		})
	}
}

func TestSetLineEnding(t *testing.T) {
	b := NewBufferFromString("a\nb")
	b.SetLineEnding(LineEndingCRLF)
	if b.LineEnding() != LineEndingCRLF {
		t.Fatalf("LineEnding() = %v, want crlf", b.LineEnding())
	}
	var out bytes.Buffer
	if _, err := b.WriteTo(&out); err != nil {
		t.Fatal(err)
	}
	if out.String() != "a\r\nb" {
		t.Errorf("WriteTo = %q, want %q", out.String(), "a\r\nb")
	}
	if b.Text() != "a\nb" || b.Revision() != 0 {
		t.Errorf("SetLineEnding changed the document: %q rev %d", b.Text(), b.Revision())
	}
}

func TestParseLineEnding(t *testing.T) {
	for name, want := range map[string]LineEnding{"": LineEndingLF, "CRLF": LineEndingCRLF, "cr": LineEndingCR} {
		got, err := ParseLineEnding(name)
		if err != nil || got != want {
			t.Errorf("ParseLineEnding(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseLineEnding("nope"); err == nil {
		t.Error("expected error for unknown line ending")
	}
}

func TestSnapshotIsolation(t *testing.T) {
	b := NewBufferFromString("before")
	snap := b.Snapshot()

	if _, err := b.Replace(0, 6, "after"); err != nil {
		t.Fatal(err)
	}
	if snap.Text() != "before" {
		t.Errorf("snapshot changed: %q", snap.Text())
	}
	if b.Text() != "after" {
		t.Errorf("buffer = %q", b.Text())
	}
}

func TestConcurrentReaders(t *testing.T) {
	b := NewBufferFromString(strings.Repeat("xxxx\n", 100))
	var wg sync.WaitGroup

	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				snap := b.Snapshot()
				if int(snap.LineCount()) != strings.Count(snap.Text(), "\n")+1 {
					t.Error("inconsistent snapshot")
					return
				}
			}
		}()
	}

	rng := rand.New(rand.NewSource(1))
	for range 200 {
		off := ByteOffset(rng.Intn(int(b.Len()) + 1))
		if _, err := b.Insert(off, "y\n"); err != nil {
			t.Fatal(err)
		}
	}
	wg.Wait()
}

func TestPrepareCommit(t *testing.T) {
	b := NewBufferFromString("abc")

	p, err := b.Prepare([]Edit{NewInsert(3, "d")})
	if err != nil {
		t.Fatal(err)
	}
	if p.Snapshot().Text() != "abcd" {
		t.Errorf("pending text = %q", p.Snapshot().Text())
	}
	if b.Text() != "abc" || b.Revision() != 0 {
		t.Fatalf("Prepare changed the buffer: %q rev %d", b.Text(), b.Revision())
	}

	if err := b.Commit(p); err != nil {
		t.Fatal(err)
	}
	if b.Text() != "abcd" || b.Revision() != 1 {
		t.Errorf("after commit: %q rev %d", b.Text(), b.Revision())
	}
	if err := b.Commit(p); !errors.Is(err, ErrStale) {
		t.Errorf("second Commit = %v, want ErrStale", err)
	}

	empty, err := b.Prepare(nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Commit(empty); err != nil || b.Revision() != 1 {
		t.Errorf("empty commit: %v, rev %d", err, b.Revision())
	}
}

func TestSnapshotIsCharBoundary(t *testing.T) {
	snap := NewBufferFromString("a\u00e9").Snapshot()
	for off, want := range map[ByteOffset]bool{-1: false, 0: true, 1: true, 2: false, 3: true, 4: false} {
		if got := snap.IsCharBoundary(off); got != want {
			t.Errorf("IsCharBoundary(%d) = %v, want %v", off, got, want)
		}
	}
}
