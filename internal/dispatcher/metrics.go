package dispatcher

import (
	"sort"
	"sync"
	"time"
)

// Metrics collects dispatch statistics.
type Metrics struct {
	mu sync.RWMutex

	// Per-method metrics
	methodMetrics map[string]*MethodMetrics

	// Failed requests by response code
	codes map[Code]uint64

	// Global counters
	totalDispatches uint64
	totalErrors     uint64
	totalPanics     uint64
	totalQueued     uint64

	// Timing
	totalDuration time.Duration
}

// MethodMetrics holds metrics for a specific method.
type MethodMetrics struct {
	Name          string
	DispatchCount uint64
	ErrorCount    uint64
	TotalDuration time.Duration
	MinDuration   time.Duration
	MaxDuration   time.Duration
	LastCode      Code
	LastDispatch  time.Time
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		methodMetrics: make(map[string]*MethodMetrics),
		codes:         make(map[Code]uint64),
	}
}

// RecordDispatch records a processed request.
func (m *Metrics) RecordDispatch(method string, duration time.Duration, code Code) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalDispatches++
	m.totalDuration += duration
	if code != CodeOK {
		m.totalErrors++
		m.codes[code]++
	}

	mm := m.methodMetrics[method]
	if mm == nil {
		mm = &MethodMetrics{
			Name:        method,
			MinDuration: duration,
			MaxDuration: duration,
		}
		m.methodMetrics[method] = mm
	}

	mm.DispatchCount++
	mm.TotalDuration += duration
	mm.LastCode = code
	mm.LastDispatch = time.Now()
	mm.MinDuration = min(mm.MinDuration, duration)
	mm.MaxDuration = max(mm.MaxDuration, duration)
	if code != CodeOK {
		mm.ErrorCount++
	}
}

// RecordPanic records a panic recovery.
func (m *Metrics) RecordPanic() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalPanics++
}

// RecordQueued records a request that was queued behind another one.
func (m *Metrics) RecordQueued() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalQueued++
}

// TotalDispatches returns the total number of processed requests.
func (m *Metrics) TotalDispatches() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalDispatches
}

// TotalErrors returns the total number of rejected requests.
func (m *Metrics) TotalErrors() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalErrors
}

// TotalPanics returns the total number of panics recovered.
func (m *Metrics) TotalPanics() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalPanics
}

// AverageDuration returns the average dispatch duration.
func (m *Metrics) AverageDuration() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.totalDispatches == 0 {
		return 0
	}
	return m.totalDuration / time.Duration(m.totalDispatches)
}

// MethodStats returns a copy of the metrics for a method, or nil.
func (m *Metrics) MethodStats(method string) *MethodMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mm := m.methodMetrics[method]
	if mm == nil {
		return nil
	}
	stats := *mm
	return &stats
}

// CodeCount returns the number of requests that failed with code.
func (m *Metrics) CodeCount(code Code) uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.codes[code]
}

// TopMethods returns the n most dispatched methods.
func (m *Metrics) TopMethods(n int) []*MethodMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	methods := make([]*MethodMetrics, 0, len(m.methodMetrics))
	for _, mm := range m.methodMetrics {
		stats := *mm
		methods = append(methods, &stats)
	}

	sort.Slice(methods, func(i, j int) bool {
		if methods[i].DispatchCount != methods[j].DispatchCount {
			return methods[i].DispatchCount > methods[j].DispatchCount
		}
		return methods[i].Name < methods[j].Name
	})

	if n > len(methods) {
		n = len(methods)
	}
	return methods[:n]
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.methodMetrics = make(map[string]*MethodMetrics)
	m.codes = make(map[Code]uint64)
	m.totalDispatches = 0
	m.totalErrors = 0
	m.totalPanics = 0
	m.totalQueued = 0
	m.totalDuration = 0
}

// MetricsSnapshot is a point-in-time copy of the global counters. Codes
// counts failed requests by response code.
type MetricsSnapshot struct {
	TotalDispatches uint64
	TotalErrors     uint64
	TotalPanics     uint64
	TotalQueued     uint64
	TotalDuration   time.Duration
	AverageDuration time.Duration
	MethodCount     int
	Codes           map[Code]uint64
	Timestamp       time.Time
}

// Snapshot returns a snapshot of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := MetricsSnapshot{
		TotalDispatches: m.totalDispatches,
		TotalErrors:     m.totalErrors,
		TotalPanics:     m.totalPanics,
		TotalQueued:     m.totalQueued,
		TotalDuration:   m.totalDuration,
		MethodCount:     len(m.methodMetrics),
		Codes:           make(map[Code]uint64, len(m.codes)),
		Timestamp:       time.Now(),
	}
	for code, n := range m.codes {
		snapshot.Codes[code] = n
	}
	if m.totalDispatches > 0 {
		snapshot.AverageDuration = m.totalDuration / time.Duration(m.totalDispatches)
	}
	return snapshot
}

// AverageDuration returns the average duration for the method.
func (mm *MethodMetrics) AverageDuration() time.Duration {
	if mm.DispatchCount == 0 {
		return 0
	}
	return mm.TotalDuration / time.Duration(mm.DispatchCount)
}

// ErrorRate returns the error rate as a percentage.
func (mm *MethodMetrics) ErrorRate() float64 {
	if mm.DispatchCount == 0 {
		return 0
	}
	return float64(mm.ErrorCount) / float64(mm.DispatchCount) * 100
}
