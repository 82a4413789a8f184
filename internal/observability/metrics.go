package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics keeps process-local counters for the HTTP surface and the
// workflow engine. There is no exporter; counters exist for tests and
// ad-hoc inspection.
type Metrics struct {
	mu                 sync.Mutex
	requestCount       map[string]int64
	errorCount         map[string]int64
	transitionsApplied map[int64]int64
	engineDegraded     int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:       make(map[string]int64),
		errorCount:         make(map[string]int64),
		transitionsApplied: make(map[int64]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordTransitionApplied counts a successful workflow transition per
// flow type.
func (m *Metrics) RecordTransitionApplied(flowTypeID int64) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitionsApplied[flowTypeID]++
}

// RecordEngineDegraded counts an engine result that came back empty
// because the transition store failed rather than because nothing
// matched.
func (m *Metrics) RecordEngineDegraded() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.engineDegraded++
}

// TransitionsApplied returns the transition count for one flow type.
func (m *Metrics) TransitionsApplied(flowTypeID int64) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transitionsApplied[flowTypeID]
}

// EngineDegradedCount returns how many degraded engine results were seen.
func (m *Metrics) EngineDegradedCount() int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engineDegraded
}

// RequestCount returns the request counter for one path/method/status.
func (m *Metrics) RequestCount(path, method string, status int) int64 {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requestCount[pathKey(path, method, status)]
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
