package encounter

import (
	"maps"
	"sync"
)

// Aggregator collects widget-reported values for an encounter. Values are
// stored untyped and keyed by widget type; the compiler is the single point
// that decodes them.
type Aggregator struct {
	mu     sync.RWMutex
	values map[string]any
}

func NewAggregator() *Aggregator {
	return &Aggregator{values: make(map[string]any)}
}

// Report stores value under key, replacing any earlier report from the same
// widget.
func (a *Aggregator) Report(key string, value any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.values[key] = value
}

// Get returns the reported value for key.
func (a *Aggregator) Get(key string) (any, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, ok := a.values[key]
	return v, ok
}

// Snapshot returns a shallow copy of all reported values.
func (a *Aggregator) Snapshot() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return maps.Clone(a.values)
}

// Reset discards all reported values.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.values = make(map[string]any)
}
