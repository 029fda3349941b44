package dispatcher_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/linecore/internal/dispatcher"
	"github.com/dshills/linecore/internal/engine"
	"github.com/dshills/linecore/internal/engine/dirty"
	"github.com/dshills/linecore/internal/logging"
)

const (
	testTimeout = 5 * time.Second
	testTick    = 10 * time.Millisecond
)

// recorder is an Observer that keeps everything it receives.
type recorder struct {
	mu         sync.Mutex
	responses  []dispatcher.Response
	ranges     []dirty.Range
	events     []string
	onResponse func(dispatcher.Response)
}

func (r *recorder) OnInvalidate(rng dirty.Range) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ranges = append(r.ranges, rng)
	r.events = append(r.events, "invalidate")
}

func (r *recorder) OnResponse(resp dispatcher.Response) {
	r.mu.Lock()
	r.responses = append(r.responses, resp)
	r.events = append(r.events, "response:"+resp.ID)
	hook := r.onResponse
	r.mu.Unlock()
	if hook != nil {
		hook(resp)
	}
}

func (r *recorder) last() dispatcher.Response {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.responses[len(r.responses)-1]
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses, r.ranges, r.events = nil, nil, nil
}

func testConfig() dispatcher.Config {
	return dispatcher.DefaultConfig().WithLogger(logging.Discard())
}

func setup(t *testing.T, content string) (*dispatcher.Dispatcher, *engine.Engine, *recorder) {
	t.Helper()
	e := engine.New(engine.WithContent(content))
	rec := &recorder{}
	return dispatcher.New(e, rec, testConfig()), e, rec
}

func submit(t *testing.T, d *dispatcher.Dispatcher, req dispatcher.Request) {
	t.Helper()
	require.NoError(t, d.Submit(req))
}

func carets(offsets ...int64) []dispatcher.SelectionSpec {
	specs := make([]dispatcher.SelectionSpec, len(offsets))
	for i, off := range offsets {
		specs[i] = dispatcher.SelectionSpec{Anchor: off, Head: off}
	}
	return specs
}

func TestEditReplacesWithinLine(t *testing.T) {
	d, e, rec := setup(t, "abc\ndef\n")

	submit(t, d, dispatcher.Request{
		ID:     "1",
		Method: dispatcher.MethodEdit,
		Edits:  []dispatcher.EditSpec{{Start: 1, End: 2, Text: "XYZ"}},
	})

	resp := rec.last()
	assert.True(t, resp.OK)
	assert.Equal(t, dispatcher.CodeOK, resp.Code)
	assert.Equal(t, uint64(1), resp.Revision)
	assert.Equal(t, []dispatcher.EditResult{{OldStart: 1, OldEnd: 2, Start: 1, End: 4, Text: "XYZ"}}, resp.Edits)
	assert.Equal(t, []dirty.Range{{Start: 0, End: 1}}, rec.ranges)
	assert.Equal(t, []string{"invalidate", "response:1"}, rec.events)

	line, err := e.State().Line(0)
	require.NoError(t, err)
	assert.Equal(t, "aXYZc", line.Text)
	line, err = e.State().Line(1)
	require.NoError(t, err)
	assert.Equal(t, "def", line.Text)
}

func TestRejectedEditLeavesDocumentUnchanged(t *testing.T) {
	d, e, rec := setup(t, "abc")
	submit(t, d, dispatcher.Request{Method: dispatcher.MethodSetSelections, Selections: carets(2)})
	rec.reset()
	before := e.State()

	submit(t, d, dispatcher.Request{
		ID:     "bad",
		Method: dispatcher.MethodEdit,
		Edits:  []dispatcher.EditSpec{{Start: 5, End: 2, Text: "x"}},
	})

	resp := rec.last()
	assert.False(t, resp.OK)
	assert.Equal(t, dispatcher.CodeInvalidRange, resp.Code)
	assert.NotEmpty(t, resp.Error)
	assert.Empty(t, rec.ranges, "rejected request must not invalidate")
	assert.Equal(t, "abc", e.Text())
	assert.Equal(t, uint32(1), e.LineCount())
	assert.Equal(t, before.Revision(), e.Revision())
	assert.Equal(t, before.Selections(), e.Selections())
}

func TestRejectionCodes(t *testing.T) {
	tests := []struct {
		name string
		req  dispatcher.Request
		want dispatcher.Code
	}{
		{"unknown method", dispatcher.Request{Method: "teleport"}, dispatcher.CodeMalformedRequest},
		{"invalid utf8", dispatcher.Request{Method: dispatcher.MethodInsert, Text: "\xff"}, dispatcher.CodeMalformedRequest},
		{"negative count", dispatcher.Request{Method: dispatcher.MethodMoveLeft, Count: -1}, dispatcher.CodeMalformedRequest},
		{"no selections", dispatcher.Request{Method: dispatcher.MethodSetSelections}, dispatcher.CodeMalformedRequest},
		{"selection beyond end", dispatcher.Request{Method: dispatcher.MethodSetSelections, Selections: carets(99)}, dispatcher.CodeOutOfRange},
		{"overlapping edits", dispatcher.Request{Method: dispatcher.MethodEdit, Edits: []dispatcher.EditSpec{{Start: 0, End: 2}, {Start: 1, End: 3}}}, dispatcher.CodeInvalidRange},
		{"edit beyond end", dispatcher.Request{Method: dispatcher.MethodEdit, Edits: []dispatcher.EditSpec{{Start: 0, End: 9}}}, dispatcher.CodeOutOfRange},
		{"nothing to undo", dispatcher.Request{Method: dispatcher.MethodUndo}, dispatcher.CodeNothingToUndo},
		{"nothing to redo", dispatcher.Request{Method: dispatcher.MethodRedo}, dispatcher.CodeNothingToRedo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, e, rec := setup(t, "abc")
			submit(t, d, tt.req)
			resp := rec.last()
			assert.False(t, resp.OK)
			assert.Equal(t, tt.want, resp.Code)
			assert.Empty(t, rec.ranges)
			assert.Equal(t, "abc", e.Text())
		})
	}
}

func TestEditWithSelections(t *testing.T) {
	d, e, rec := setup(t, "abc")

	submit(t, d, dispatcher.Request{
		Method:     dispatcher.MethodEdit,
		Edits:      []dispatcher.EditSpec{{Start: 3, End: 3, Text: "def"}},
		Selections: []dispatcher.SelectionSpec{{Anchor: 3, Head: 6}},
	})
	require.True(t, rec.last().OK)
	assert.Equal(t, "abcdef", e.Text())
	assert.Equal(t, []dispatcher.SelectionSpec{{Anchor: 3, Head: 6}}, rec.last().Selections)

	// Selections are checked against the edited document before anything
	// is committed.
	submit(t, d, dispatcher.Request{
		Method:     dispatcher.MethodEdit,
		Edits:      []dispatcher.EditSpec{{Start: 0, End: 6, Text: ""}},
		Selections: carets(3),
	})
	assert.Equal(t, dispatcher.CodeOutOfRange, rec.last().Code)
	assert.Equal(t, "abcdef", e.Text())
}

func TestGeneratesRequestID(t *testing.T) {
	d, _, rec := setup(t, "")
	submit(t, d, dispatcher.Request{Method: dispatcher.MethodMoveRight})

	id := rec.last().ID
	_, err := uuid.Parse(id)
	assert.NoError(t, err, "generated id %q", id)
}

func TestInsertAtEveryCaret(t *testing.T) {
	d, e, rec := setup(t, "ab\ncd")
	submit(t, d, dispatcher.Request{Method: dispatcher.MethodSetSelections, Selections: carets(1, 4)})
	rec.reset()

	submit(t, d, dispatcher.Request{Method: dispatcher.MethodInsert, Text: "X"})

	assert.Equal(t, "aXb\ncXd", e.Text())
	assert.Equal(t, carets(2, 6), rec.last().Selections)
	assert.Equal(t, []dirty.Range{{Start: 0, End: 2}}, rec.ranges)
}

func TestInsertReplacesSelection(t *testing.T) {
	d, e, rec := setup(t, "hello world")
	submit(t, d, dispatcher.Request{Method: dispatcher.MethodSetSelections, Selections: []dispatcher.SelectionSpec{{Anchor: 6, Head: 11}}})

	submit(t, d, dispatcher.Request{Method: dispatcher.MethodInsert, Text: "there\r\n"})

	assert.Equal(t, "hello there\n", e.Text())
	assert.Equal(t, carets(12), rec.last().Selections)
}

func TestDeleteBackward(t *testing.T) {
	tests := []struct {
		name    string
		content string
		sels    []dispatcher.SelectionSpec
		count   int
		want    string
		carets  []dispatcher.SelectionSpec
	}{
		{"grapheme cluster", "ae\u0301", carets(4), 1, "a", carets(1)},
		{"joins lines", "a\nb", carets(2), 1, "ab", carets(1)},
		{"at start", "abc", carets(0), 1, "abc", carets(0)},
		{"count", "hello", carets(5), 3, "he", carets(2)},
		{"selection", "hello", []dispatcher.SelectionSpec{{Anchor: 1, Head: 4}}, 1, "ho", carets(1)},
		{"merged carets", "abcd", carets(2, 3), 2, "d", carets(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, e, rec := setup(t, tt.content)
			submit(t, d, dispatcher.Request{Method: dispatcher.MethodSetSelections, Selections: tt.sels})
			submit(t, d, dispatcher.Request{Method: dispatcher.MethodDeleteBackward, Count: tt.count})
			require.True(t, rec.last().OK, rec.last().Error)
			assert.Equal(t, tt.want, e.Text())
			assert.Equal(t, tt.carets, rec.last().Selections)
		})
	}
}

func TestDeleteBackwardJoinReportsLineDelta(t *testing.T) {
	d, _, rec := setup(t, "a\nb")
	submit(t, d, dispatcher.Request{Method: dispatcher.MethodSetSelections, Selections: carets(2)})
	rec.reset()

	submit(t, d, dispatcher.Request{Method: dispatcher.MethodDeleteBackward})
	assert.Equal(t, []dirty.Range{{Start: 0, End: 1, LineDelta: -1}}, rec.ranges)
}

func TestDeleteForward(t *testing.T) {
	d, e, _ := setup(t, "h\u00e9llo\n")
	submit(t, d, dispatcher.Request{Method: dispatcher.MethodSetSelections, Selections: carets(1)})

	submit(t, d, dispatcher.Request{Method: dispatcher.MethodDeleteForward})
	assert.Equal(t, "hllo\n", e.Text())

	submit(t, d, dispatcher.Request{Method: dispatcher.MethodDeleteForward, Count: 10})
	assert.Equal(t, "h", e.Text())
}

func TestMaxRepeatCount(t *testing.T) {
	e := engine.New(engine.WithContent("hello"))
	rec := &recorder{}
	d := dispatcher.New(e, rec, testConfig().WithMaxRepeatCount(2))

	submit(t, d, dispatcher.Request{Method: dispatcher.MethodDeleteForward, Count: 10})
	assert.Equal(t, "llo", e.Text())
}

func TestMotions(t *testing.T) {
	// U+00E9 takes two bytes, so line 1 starts at 7.
	d, _, rec := setup(t, "h\u00e9llo\nab")
	head := func() int64 { return rec.last().Selections[0].Head }

	steps := []struct {
		req  dispatcher.Request
		want int64
	}{
		{dispatcher.Request{Method: dispatcher.MethodMoveLeft}, 0},
		{dispatcher.Request{Method: dispatcher.MethodMoveRight, Count: 2}, 3},
		{dispatcher.Request{Method: dispatcher.MethodMoveDown}, 9},
		{dispatcher.Request{Method: dispatcher.MethodMoveUp}, 3},
		{dispatcher.Request{Method: dispatcher.MethodMoveLineEnd}, 6},
		{dispatcher.Request{Method: dispatcher.MethodMoveRight}, 7},
		{dispatcher.Request{Method: dispatcher.MethodMoveLeft}, 6},
		{dispatcher.Request{Method: dispatcher.MethodMoveLineStart}, 0},
		{dispatcher.Request{Method: dispatcher.MethodMoveUp}, 0},
		{dispatcher.Request{Method: dispatcher.MethodMoveDown, Count: 5}, 9},
	}
	for i, st := range steps {
		submit(t, d, st.req)
		require.True(t, rec.last().OK)
		assert.Equal(t, st.want, head(), "step %d (%s)", i, st.req.Method)
	}
}

func TestMotionExtendAndCollapse(t *testing.T) {
	d, _, rec := setup(t, "h\u00e9llo")

	submit(t, d, dispatcher.Request{Method: dispatcher.MethodMoveRight, Count: 3, Extend: true})
	assert.Equal(t, []dispatcher.SelectionSpec{{Anchor: 0, Head: 4}}, rec.last().Selections)

	// Without Extend a selection collapses to its start or end.
	submit(t, d, dispatcher.Request{Method: dispatcher.MethodMoveLeft})
	assert.Equal(t, carets(0), rec.last().Selections)
}

func TestSelectionRequests(t *testing.T) {
	d, _, rec := setup(t, "one\ntwo\nthree")

	submit(t, d, dispatcher.Request{Method: dispatcher.MethodAddSelection, Selections: carets(5)})
	assert.Equal(t, carets(0, 5), rec.last().Selections)

	submit(t, d, dispatcher.Request{Method: dispatcher.MethodMoveRight})
	assert.Equal(t, carets(1, 6), rec.last().Selections)

	submit(t, d, dispatcher.Request{Method: dispatcher.MethodCollapseSelections})
	assert.Equal(t, carets(1), rec.last().Selections)

	submit(t, d, dispatcher.Request{Method: dispatcher.MethodSetSelections, Selections: []dispatcher.SelectionSpec{{Anchor: 0, Head: 3}}})
	submit(t, d, dispatcher.Request{Method: dispatcher.MethodCollapseSelections})
	assert.Equal(t, carets(3), rec.last().Selections)
}

func TestSelectionChangeInvalidatesOldAndNewLines(t *testing.T) {
	d, _, rec := setup(t, "a\nb\nc\nd")

	submit(t, d, dispatcher.Request{Method: dispatcher.MethodSetSelections, Selections: carets(6)})
	assert.Equal(t, []dirty.Range{{Start: 0, End: 1}, {Start: 3, End: 4}}, rec.ranges)
}

func TestUndoRedoRequests(t *testing.T) {
	d, e, rec := setup(t, "abc")

	submit(t, d, dispatcher.Request{Method: dispatcher.MethodInsert, Text: "X"})
	assert.Equal(t, "Xabc", e.Text())

	submit(t, d, dispatcher.Request{Method: dispatcher.MethodUndo})
	require.True(t, rec.last().OK)
	assert.Equal(t, "abc", e.Text())
	assert.Equal(t, carets(0), rec.last().Selections)

	submit(t, d, dispatcher.Request{Method: dispatcher.MethodRedo})
	require.True(t, rec.last().OK)
	assert.Equal(t, "Xabc", e.Text())
	assert.Equal(t, carets(1), rec.last().Selections)
}

func TestSubmitFromObserverIsQueued(t *testing.T) {
	e := engine.New(engine.WithContent("abc"))
	rec := &recorder{}
	d := dispatcher.New(e, rec, testConfig())

	rec.onResponse = func(resp dispatcher.Response) {
		if resp.ID != "first" {
			return
		}
		require.NoError(t, d.Submit(dispatcher.Request{ID: "second", Method: dispatcher.MethodInsert, Text: "2"}))
		rec.mu.Lock()
		rec.events = append(rec.events, "submitted")
		rec.mu.Unlock()
		assert.Equal(t, "1abc", e.Text(), "nested request must not run inline")
	}

	submit(t, d, dispatcher.Request{ID: "first", Method: dispatcher.MethodInsert, Text: "1"})

	assert.Equal(t, "12abc", e.Text())
	assert.Equal(t, []string{
		"invalidate", "response:first", "submitted",
		"invalidate", "response:second",
	}, rec.events)
	assert.Zero(t, d.Pending())
}

type panicObserver struct {
	recorder
}

func (p *panicObserver) OnInvalidate(dirty.Range) {
	panic("observer exploded")
}

func TestObserverPanicIsRecovered(t *testing.T) {
	e := engine.New(engine.WithContent("abc"))
	obs := &panicObserver{}
	d := dispatcher.New(e, obs, testConfig().WithMetrics())

	submit(t, d, dispatcher.Request{Method: dispatcher.MethodInsert, Text: "x"})
	submit(t, d, dispatcher.Request{Method: dispatcher.MethodInsert, Text: "y"})

	assert.Equal(t, "xyabc", e.Text())
	assert.Len(t, obs.responses, 2)
	assert.Equal(t, uint64(2), d.Metrics().TotalPanics())
}

func TestHandlerPanicIsRecovered(t *testing.T) {
	d, e, rec := setup(t, "abc")
	d.Registry().Register("boom", func(*engine.Engine, dispatcher.Request) (engine.Result, error) {
		panic("handler exploded")
	})

	submit(t, d, dispatcher.Request{Method: "boom"})
	assert.Equal(t, dispatcher.CodeInternal, rec.last().Code)
	assert.Contains(t, rec.last().Error, "handler exploded")

	submit(t, d, dispatcher.Request{Method: dispatcher.MethodInsert, Text: "ok"})
	assert.True(t, rec.last().OK)
	assert.Equal(t, "okabc", e.Text())
}

func TestConcurrentSubmit(t *testing.T) {
	d, e, rec := setup(t, "")
	const workers, perWorker = 8, 50

	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perWorker {
				assert.NoError(t, d.Submit(dispatcher.Request{
					ID:     fmt.Sprintf("%d-%d", w, i),
					Method: dispatcher.MethodInsert,
					Text:   "x",
				}))
			}
		}()
	}
	wg.Wait()

	// A Submit that found the dispatcher busy returns before its request
	// runs, but the goroutine draining the queue finishes it before going
	// idle.
	require.Eventually(t, func() bool {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		return len(rec.responses) == workers*perWorker
	}, testTimeout, testTick)

	assert.Equal(t, workers*perWorker, int(e.Len()))
	assert.Equal(t, uint64(workers*perWorker), uint64(e.Revision()))

	// Responses carry strictly increasing revisions.
	rec.mu.Lock()
	defer rec.mu.Unlock()
	for i, resp := range rec.responses {
		assert.Equal(t, uint64(i+1), resp.Revision)
	}
}

func TestClose(t *testing.T) {
	d, _, _ := setup(t, "")

	require.NoError(t, d.Close())
	assert.ErrorIs(t, d.Submit(dispatcher.Request{Method: dispatcher.MethodInsert}), dispatcher.ErrUseAfterFree)
	assert.ErrorIs(t, d.Close(), dispatcher.ErrUseAfterFree)
}

func TestMetrics(t *testing.T) {
	e := engine.New()
	d := dispatcher.New(e, nil, testConfig().WithMetrics())

	require.NoError(t, d.Submit(dispatcher.Request{Method: dispatcher.MethodInsert, Text: "a"}))
	require.NoError(t, d.Submit(dispatcher.Request{Method: dispatcher.MethodInsert, Text: "b"}))
	require.NoError(t, d.Submit(dispatcher.Request{Method: dispatcher.MethodUndo}))
	require.NoError(t, d.Submit(dispatcher.Request{Method: "nope"}))

	m := d.Metrics()
	assert.Equal(t, uint64(4), m.TotalDispatches())
	assert.Equal(t, uint64(1), m.TotalErrors())

	stats := m.MethodStats(dispatcher.MethodInsert)
	require.NotNil(t, stats)
	assert.Equal(t, uint64(2), stats.DispatchCount)
	assert.Zero(t, stats.ErrorRate())

	top := m.TopMethods(1)
	require.Len(t, top, 1)
	assert.Equal(t, dispatcher.MethodInsert, top[0].Name)

	snap := m.Snapshot()
	assert.Equal(t, 3, snap.MethodCount)
	assert.Equal(t, map[dispatcher.Code]uint64{dispatcher.CodeMalformedRequest: 1}, snap.Codes)
	assert.Equal(t, uint64(1), m.CodeCount(dispatcher.CodeMalformedRequest))

	m.Reset()
	assert.Zero(t, m.TotalDispatches())
	assert.Zero(t, m.CodeCount(dispatcher.CodeMalformedRequest))
	assert.Nil(t, m.MethodStats(dispatcher.MethodInsert))
}

func TestMetricsDisabledByDefault(t *testing.T) {
	d := dispatcher.New(engine.New(), nil, testConfig())
	assert.Nil(t, d.Metrics())
}

func TestRejectIsReportedInOrder(t *testing.T) {
	d, e, rec := setup(t, "abc")

	require.NoError(t, d.Reject(dispatcher.Request{ID: "garbled"}, dispatcher.ErrMalformedRequest))
	submit(t, d, dispatcher.Request{ID: "ok", Method: dispatcher.MethodInsert, Text: "x"})

	require.Len(t, rec.responses, 2)
	assert.Equal(t, "garbled", rec.responses[0].ID)
	assert.Equal(t, dispatcher.CodeMalformedRequest, rec.responses[0].Code)
	assert.True(t, rec.responses[1].OK)
	assert.Equal(t, "xabc", e.Text())
}
