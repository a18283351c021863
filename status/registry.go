package status

import (
	"sync"
	"sync/atomic"
	"time"
)

// MaxLabelLen bounds stored labels, long enough for a textual UUID
const MaxLabelLen = 64

// Label is a lock-free string metric
// Zero value is ready to use and reads as ""
type Label struct {
	ptr atomic.Pointer[string]
}

// Store sets the value, truncating to MaxLabelLen bytes
func (l *Label) Store(val string) {
	if len(val) > MaxLabelLen {
		val = val[:MaxLabelLen]
	}
	l.ptr.Store(&val)
}

// Load returns the current value
func (l *Label) Load() string {
	if p := l.ptr.Load(); p != nil {
		return *p
	}
	return ""
}

// Registry holds named counters, durations and labels
// Lookups create on first use under the lock; components cache the returned
// pointers at construction and hot paths write the atomics directly
type Registry struct {
	mu        sync.RWMutex
	counters  map[string]*atomic.Int64
	durations map[string]*atomic.Int64 // Nanoseconds
	labels    map[string]*Label
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		counters:  make(map[string]*atomic.Int64),
		durations: make(map[string]*atomic.Int64),
		labels:    make(map[string]*Label),
	}
}

// Counter returns the counter for name
func (r *Registry) Counter(name string) *atomic.Int64 {
	return lookup(&r.mu, r.counters, name)
}

// Duration returns the duration slot for name, stored as nanoseconds
func (r *Registry) Duration(name string) *atomic.Int64 {
	return lookup(&r.mu, r.durations, name)
}

// Label returns the string metric for name
func (r *Registry) Label(name string) *Label {
	return lookup(&r.mu, r.labels, name)
}

// Len returns the number of registered metrics of all kinds
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.counters) + len(r.durations) + len(r.labels)
}

// Snapshot copies all current values, durations rendered as time.Duration
func (r *Registry) Snapshot() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]any, len(r.counters)+len(r.durations)+len(r.labels))
	for name, p := range r.counters {
		out[name] = p.Load()
	}
	for name, p := range r.durations {
		out[name] = time.Duration(p.Load())
	}
	for name, p := range r.labels {
		out[name] = p.Load()
	}
	return out
}

func lookup[T any](mu *sync.RWMutex, m map[string]*T, name string) *T {
	mu.RLock()
	p, ok := m[name]
	mu.RUnlock()
	if ok {
		return p
	}

	mu.Lock()
	defer mu.Unlock()
	// Another caller may have created it between locks
	if p, ok := m[name]; ok {
		return p
	}
	p = new(T)
	m[name] = p
	return p
}
