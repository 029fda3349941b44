package core

import (
	"io"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/dshills/linecore/internal/dispatcher"
	"github.com/dshills/linecore/internal/engine"
	"github.com/dshills/linecore/internal/logging"
	"github.com/dshills/linecore/internal/rpc"
)

// MetricsSnapshot is a point-in-time copy of dispatch statistics.
type MetricsSnapshot = dispatcher.MetricsSnapshot

// Handle is an open document. All methods are safe for concurrent use.
// Requests are processed one at a time in submission order; QueryLine and
// the other read methods never block on request processing and observe the
// state after the last completed request.
type Handle struct {
	id     string
	logger *log.Logger
	inner  atomic.Pointer[instance]
}

type instance struct {
	engine     *engine.Engine
	dispatcher *dispatcher.Dispatcher
}

// New opens a document reporting to obs. A nil observer discards all
// notifications.
func New(obs Observer, opts ...Option) (*Handle, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.err != nil {
		return nil, o.err
	}

	var (
		e   *engine.Engine
		err error
	)
	if o.reader != nil {
		e, err = engine.NewFromReader(o.reader, o.engine...)
		if err != nil {
			return nil, err
		}
	} else {
		e = engine.New(o.engine...)
	}

	h := &Handle{id: uuid.NewString()}
	h.logger = o.dispatcher.Logger
	if h.logger == nil {
		h.logger = logging.Default()
	}
	h.logger = h.logger.With(logging.FieldHandle, h.id)

	d := dispatcher.New(e, obs, o.dispatcher.WithLogger(h.logger))
	h.inner.Store(&instance{engine: e, dispatcher: d})

	h.logger.Debug("handle opened",
		logging.FieldLines, e.LineCount(),
		logging.FieldBytes, e.Len())
	return h, nil
}

func (h *Handle) get() (*instance, error) {
	in := h.inner.Load()
	if in == nil {
		return nil, ErrUseAfterFree
	}
	return in, nil
}

// ID returns the identifier attached to the handle's log entries.
func (h *Handle) ID() string {
	return h.id
}

// Submit queues req. Its invalidations and response are delivered to the
// observer before Submit returns, unless another request is being
// processed, in which case they are delivered after that one.
//
// Submit fails only with ErrUseAfterFree. Errors in the request itself are
// reported in its response.
func (h *Handle) Submit(req Request) error {
	in, err := h.get()
	if err != nil {
		return err
	}
	return in.dispatcher.Submit(req)
}

// SendMessage decodes a JSON request and submits it. A message that cannot
// be decoded is answered with a malformed_request response carrying
// whatever id and method could be read.
func (h *Handle) SendMessage(msg []byte) error {
	in, err := h.get()
	if err != nil {
		return err
	}
	req, err := rpc.DecodeRequest(msg)
	if err != nil {
		return in.dispatcher.Reject(req, err)
	}
	return in.dispatcher.Submit(req)
}

// QueryLine returns line n of the document with its carets and selection
// spans. It fails with ErrOutOfRange when n >= LineCount.
func (h *Handle) QueryLine(n uint32) (LineView, error) {
	in, err := h.get()
	if err != nil {
		return LineView{}, err
	}
	return in.engine.State().Line(n)
}

// LineCount returns the number of lines. An empty document has one line.
func (h *Handle) LineCount() (uint32, error) {
	in, err := h.get()
	if err != nil {
		return 0, err
	}
	return in.engine.LineCount(), nil
}

// Text returns the whole document with LF line endings.
func (h *Handle) Text() (string, error) {
	in, err := h.get()
	if err != nil {
		return "", err
	}
	return in.engine.Text(), nil
}

// Revision returns the number of committed edits, counting undo and redo.
func (h *Handle) Revision() (uint64, error) {
	in, err := h.get()
	if err != nil {
		return 0, err
	}
	return uint64(in.engine.Revision()), nil
}

// Position returns the line and byte column of offset. Offsets outside the
// document are clamped to it.
func (h *Handle) Position(offset int64) (line, col uint32, err error) {
	in, err := h.get()
	if err != nil {
		return 0, 0, err
	}
	p := in.engine.State().Snapshot().OffsetToPoint(engine.ByteOffset(offset))
	return p.Line, p.Column, nil
}

// Selections returns the current selections, primary first, in the order
// they were created.
func (h *Handle) Selections() ([]SelectionSpec, error) {
	in, err := h.get()
	if err != nil {
		return nil, err
	}
	sels := in.engine.Selections()
	out := make([]SelectionSpec, len(sels))
	for i, s := range sels {
		out[i] = SelectionSpec{Anchor: int64(s.Anchor), Head: int64(s.Head)}
	}
	return out, nil
}

// WriteTo writes the document to w using the configured line ending.
func (h *Handle) WriteTo(w io.Writer) (int64, error) {
	in, err := h.get()
	if err != nil {
		return 0, err
	}
	return in.engine.WriteTo(w)
}

// SetLineEnding changes the line ending used by later calls to WriteTo.
// The document and its revision are unchanged.
func (h *Handle) SetLineEnding(le LineEnding) error {
	in, err := h.get()
	if err != nil {
		return err
	}
	in.engine.SetLineEnding(le)
	h.logger.Debug("line ending changed", logging.FieldLineEnding, le.Name())
	return nil
}

// Metrics returns dispatch statistics. ok is false unless the handle was
// created with WithMetrics.
func (h *Handle) Metrics() (snap MetricsSnapshot, ok bool, err error) {
	in, err := h.get()
	if err != nil {
		return MetricsSnapshot{}, false, err
	}
	m := in.dispatcher.Metrics()
	if m == nil {
		return MetricsSnapshot{}, false, nil
	}
	return m.Snapshot(), true, nil
}

// Close releases the document. Requests still queued are dropped. Close
// fails with ErrUseAfterFree when called more than once.
func (h *Handle) Close() error {
	in := h.inner.Swap(nil)
	if in == nil {
		return ErrUseAfterFree
	}
	h.logger.Debug("handle closed", logging.FieldRevision, in.engine.Revision())
	return in.dispatcher.Close()
}
