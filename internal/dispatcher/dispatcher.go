package dispatcher

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/dshills/linecore/internal/engine"
	"github.com/dshills/linecore/internal/engine/dirty"
	"github.com/dshills/linecore/internal/logging"
)

// Observer receives the results of processed requests. Both methods are
// called on the goroutine draining the queue and must not block for long.
type Observer interface {
	// OnInvalidate reports lines that must be redrawn after a committed
	// request, in ascending order.
	OnInvalidate(r dirty.Range)

	// OnResponse reports the outcome of a request. It follows the request's
	// invalidations.
	OnResponse(resp Response)
}

type nopObserver struct{}

func (nopObserver) OnInvalidate(dirty.Range) {}
func (nopObserver) OnResponse(Response)      {}

// Dispatcher applies requests to an engine one at a time, in order.
type Dispatcher struct {
	engine   *engine.Engine
	observer Observer
	registry *Registry
	metrics  *Metrics
	config   Config
	logger   *log.Logger

	mu      sync.Mutex
	queue   []queued
	running bool
	closed  bool
}

// queued is a request waiting to be processed. A request that failed before
// reaching the dispatcher carries its error and is reported in turn.
type queued struct {
	req Request
	err error
}

// New creates a dispatcher for e reporting to obs. The built-in methods are
// registered.
func New(e *engine.Engine, obs Observer, config Config) *Dispatcher {
	if obs == nil {
		obs = nopObserver{}
	}
	d := &Dispatcher{
		engine:   e,
		observer: obs,
		registry: NewRegistry(),
		config:   config,
		logger:   config.Logger,
	}
	if d.logger == nil {
		d.logger = logging.Default()
	}
	if config.EnableMetrics {
		d.metrics = NewMetrics()
	}
	registerBuiltins(d.registry)
	return d
}

// Submit queues a request. If no other request is being processed the
// calling goroutine processes the queue, including requests submitted from
// observer callbacks in the meantime, before returning. Otherwise Submit
// returns at once and the request runs after those ahead of it.
//
// Submit fails only with ErrUseAfterFree after Close.
func (d *Dispatcher) Submit(req Request) error {
	return d.enqueue(queued{req: req})
}

// Reject queues a failed response for a request that could not be decoded.
// It is delivered in order with the responses of submitted requests.
func (d *Dispatcher) Reject(req Request, err error) error {
	if err == nil {
		err = ErrMalformedRequest
	}
	return d.enqueue(queued{req: req, err: err})
}

func (d *Dispatcher) enqueue(q queued) error {
	req := q.req
	if req.ID == "" {
		req.ID = uuid.NewString()
		q.req = req
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrUseAfterFree
	}
	d.queue = append(d.queue, q)
	if d.running {
		depth := len(d.queue)
		d.mu.Unlock()
		if d.metrics != nil {
			d.metrics.RecordQueued()
		}
		d.logger.Debug("request queued",
			logging.FieldRequestID, req.ID,
			logging.FieldMethod, req.Method,
			logging.FieldQueued, depth)
		return nil
	}
	d.running = true
	d.mu.Unlock()

	d.drain()
	return nil
}

// drain processes queued requests until the queue is empty.
func (d *Dispatcher) drain() {
	defer func() {
		if r := recover(); r != nil {
			d.mu.Lock()
			d.running = false
			d.mu.Unlock()
			panic(r)
		}
	}()

	for {
		d.mu.Lock()
		if d.closed || len(d.queue) == 0 {
			d.queue = nil
			d.running = false
			d.mu.Unlock()
			return
		}
		q := d.queue[0]
		d.queue[0] = queued{}
		d.queue = d.queue[1:]
		d.mu.Unlock()

		d.process(q)
	}
}

// process executes one request and notifies the observer.
func (d *Dispatcher) process(q queued) {
	req := q.req
	start := time.Now()
	res, err := engine.Result{}, q.err
	if err == nil {
		res, err = d.execute(req)
	}
	resp := newResponse(req, res, err, uint64(d.engine.Revision()))

	if d.metrics != nil {
		d.metrics.RecordDispatch(req.Method, time.Since(start), resp.Code)
	}

	if err != nil {
		d.logger.Warn("request rejected",
			logging.FieldRequestID, req.ID,
			logging.FieldMethod, req.Method,
			logging.FieldCode, resp.Code,
			logging.FieldError, err)
	} else {
		d.logger.Debug("request applied",
			logging.FieldRequestID, req.ID,
			logging.FieldMethod, req.Method,
			logging.FieldRevision, res.Revision,
			logging.FieldEdits, len(res.Edits),
			logging.FieldRanges, len(res.Invalidated))
		for _, r := range res.Invalidated {
			d.notify("invalidate", func() { d.observer.OnInvalidate(r) })
		}
	}
	d.notify("response", func() { d.observer.OnResponse(resp) })
}

// execute runs the handler for req.
func (d *Dispatcher) execute(req Request) (res engine.Result, err error) {
	h := d.registry.Get(req.Method)
	if h == nil {
		return engine.Result{}, fmt.Errorf("%w %q", ErrUnknownMethod, req.Method)
	}

	switch {
	case req.Count < 0:
		return engine.Result{}, malformed("negative count %d", req.Count)
	case req.Count == 0:
		req.Count = 1
	case d.config.MaxRepeatCount > 0 && req.Count > d.config.MaxRepeatCount:
		req.Count = d.config.MaxRepeatCount
	}

	if d.config.RecoverFromPanic {
		defer func() {
			if r := recover(); r != nil {
				stack := make([]byte, 4096)
				n := runtime.Stack(stack, false)
				d.logger.Error("handler panic",
					logging.FieldMethod, req.Method,
					"panic", r,
					"stack", string(stack[:n]))
				if d.metrics != nil {
					d.metrics.RecordPanic()
				}
				res, err = engine.Result{}, fmt.Errorf("%w for %s: %v", ErrPanic, req.Method, r)
			}
		}()
	}

	return h(d.engine, req)
}

// notify calls fn and recovers from observer panics.
func (d *Dispatcher) notify(kind string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("observer panic", "callback", kind, "panic", r)
			if d.metrics != nil {
				d.metrics.RecordPanic()
			}
		}
	}()
	fn()
}

// Close stops the dispatcher. Requests still queued are dropped and later
// calls to Submit fail with ErrUseAfterFree. Close fails with
// ErrUseAfterFree when called twice.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrUseAfterFree
	}
	d.closed = true
	if dropped := len(d.queue); dropped > 0 {
		d.logger.Debug("dropping queued requests", logging.FieldQueued, dropped)
	}
	return nil
}

// Pending returns the number of queued requests.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// Engine returns the engine requests are applied to.
func (d *Dispatcher) Engine() *engine.Engine {
	return d.engine
}

// Registry returns the handler registry.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Metrics returns the metrics collector, or nil if metrics are disabled.
func (d *Dispatcher) Metrics() *Metrics {
	return d.metrics
}

// Config returns the dispatcher configuration.
func (d *Dispatcher) Config() Config {
	return d.config
}
