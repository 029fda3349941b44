package rpc

import (
	"fmt"
	"math"

	"github.com/tidwall/gjson"

	"github.com/dshills/linecore/internal/dispatcher"
)

// DecodeRequest parses one request message. On failure the returned request
// still carries the id and method when they could be read, and the error
// wraps dispatcher.ErrMalformedRequest.
func DecodeRequest(data []byte) (dispatcher.Request, error) {
	var req dispatcher.Request
	if !gjson.ValidBytes(data) {
		return req, malformed("invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return req, malformed("message is not an object")
	}

	if id := root.Get("id"); id.Exists() {
		switch id.Type {
		case gjson.String, gjson.Number:
			req.ID = id.String()
		default:
			return req, malformed("id must be a string or number")
		}
	}

	method := root.Get("method")
	if method.Type != gjson.String || method.Str == "" {
		return req, malformed("missing method")
	}
	req.Method = method.Str

	params := root.Get("params")
	if !params.Exists() || params.Type == gjson.Null {
		return req, nil
	}
	if !params.IsObject() {
		return req, malformed("params must be an object")
	}

	var err error
	if req.Edits, err = decodeEdits(params.Get("edits")); err != nil {
		return req, err
	}
	if req.Selections, err = decodeSelections(params.Get("selections")); err != nil {
		return req, err
	}
	if v := params.Get("text"); v.Exists() {
		if v.Type != gjson.String {
			return req, malformed("text must be a string")
		}
		req.Text = v.Str
	}
	if v := params.Get("count"); v.Exists() {
		n, err := integer(v, "count")
		if err != nil {
			return req, err
		}
		req.Count = int(n)
	}
	if v := params.Get("extend"); v.Exists() {
		if !v.IsBool() {
			return req, malformed("extend must be a boolean")
		}
		req.Extend = v.Bool()
	}
	return req, nil
}

func decodeEdits(v gjson.Result) ([]dispatcher.EditSpec, error) {
	if !v.Exists() {
		return nil, nil
	}
	if !v.IsArray() {
		return nil, malformed("edits must be an array")
	}

	var edits []dispatcher.EditSpec
	var err error
	v.ForEach(func(_, item gjson.Result) bool {
		var e dispatcher.EditSpec
		if !item.IsObject() {
			err = malformed("edit %d is not an object", len(edits))
			return false
		}
		if e.Start, err = integer(item.Get("start"), "start"); err != nil {
			return false
		}
		if e.End, err = integer(item.Get("end"), "end"); err != nil {
			return false
		}
		if t := item.Get("text"); t.Exists() {
			if t.Type != gjson.String {
				err = malformed("edit %d: text must be a string", len(edits))
				return false
			}
			e.Text = t.Str
		}
		edits = append(edits, e)
		return true
	})
	return edits, err
}

func decodeSelections(v gjson.Result) ([]dispatcher.SelectionSpec, error) {
	if !v.Exists() {
		return nil, nil
	}
	if !v.IsArray() {
		return nil, malformed("selections must be an array")
	}

	var sels []dispatcher.SelectionSpec
	var err error
	v.ForEach(func(_, item gjson.Result) bool {
		var s dispatcher.SelectionSpec
		if !item.IsObject() {
			err = malformed("selection %d is not an object", len(sels))
			return false
		}
		if s.Anchor, err = integer(item.Get("anchor"), "anchor"); err != nil {
			return false
		}
		s.Head = s.Anchor
		if h := item.Get("head"); h.Exists() {
			if s.Head, err = integer(h, "head"); err != nil {
				return false
			}
		}
		sels = append(sels, s)
		return true
	})
	return sels, err
}

// integer reads a whole JSON number.
func integer(v gjson.Result, name string) (int64, error) {
	if v.Type != gjson.Number {
		return 0, malformed("%s must be a number", name)
	}
	if v.Num != math.Trunc(v.Num) || math.Abs(v.Num) > 1<<53 {
		return 0, malformed("%s must be an integer", name)
	}
	return v.Int(), nil
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", dispatcher.ErrMalformedRequest, fmt.Sprintf(format, args...))
}
