package rpc

import (
	"github.com/tidwall/sjson"

	"github.com/dshills/linecore/internal/dispatcher"
	"github.com/dshills/linecore/internal/engine"
	"github.com/dshills/linecore/internal/engine/dirty"
)

// MethodInvalidate is the method of invalidation notifications.
const MethodInvalidate = "invalidate"

// EncodeResponse encodes a response message.
func EncodeResponse(resp dispatcher.Response) ([]byte, error) {
	b := &builder{out: []byte(`{}`)}
	b.set("id", resp.ID)
	b.set("ok", resp.OK)
	b.set("revision", resp.Revision)

	if !resp.OK {
		b.set("error.code", string(resp.Code))
		b.set("error.message", resp.Error)
		return b.bytes()
	}

	b.raw("result.edits", "[]")
	for _, e := range resp.Edits {
		b.set("result.edits.-1", map[string]any{
			"old_start": e.OldStart,
			"old_end":   e.OldEnd,
			"start":     e.Start,
			"end":       e.End,
			"text":      e.Text,
		})
	}
	b.raw("result.selections", "[]")
	for _, s := range resp.Selections {
		b.set("result.selections.-1", map[string]any{"anchor": s.Anchor, "head": s.Head})
	}
	return b.bytes()
}

// EncodeInvalidation encodes an invalidation notification.
func EncodeInvalidation(r dirty.Range) ([]byte, error) {
	b := &builder{out: []byte(`{}`)}
	b.set("method", MethodInvalidate)
	b.set("params.start", r.Start)
	b.set("params.end", r.End)
	b.set("params.line_delta", r.LineDelta)
	return b.bytes()
}

// EncodeLineView encodes the result of a line query.
func EncodeLineView(v engine.Line) ([]byte, error) {
	b := &builder{out: []byte(`{}`)}
	b.set("line", v.Line)
	b.set("text", v.Text)
	b.raw("cursors", "[]")
	for _, c := range v.Cursors {
		b.set("cursors.-1", c)
	}
	b.raw("selections", "[]")
	for _, s := range v.Selections {
		b.set("selections.-1", []int{s.Start, s.End})
	}
	return b.bytes()
}

// builder applies sjson edits and keeps the first error.
type builder struct {
	out []byte
	err error
}

func (b *builder) set(path string, value any) {
	if b.err != nil {
		return
	}
	b.out, b.err = sjson.SetBytes(b.out, path, value)
}

func (b *builder) raw(path, value string) {
	if b.err != nil {
		return
	}
	b.out, b.err = sjson.SetRawBytes(b.out, path, []byte(value))
}

func (b *builder) bytes() ([]byte, error) {
	return b.out, b.err
}
