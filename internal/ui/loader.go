package ui

import "sync"

// Loader guards one view's fetch cycle. Each fetch gets a generation
// stamp; a response whose generation is no longer current is stale and
// must not overwrite newer state. This replaces ad hoc "component still
// mounted" checks with an explicit rule.
type Loader struct {
	mu      sync.Mutex
	gen     uint64
	loading bool
}

// Begin starts a fetch and returns its generation stamp. Any fetch
// still in flight from an earlier Begin is implicitly superseded.
func (l *Loader) Begin() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.loading = true
	return l.gen
}

// Finish ends the fetch stamped gen. It reports whether that fetch is
// still the current one; callers discard their result when it is not.
func (l *Loader) Finish(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return false
	}
	l.loading = false
	return true
}

// Loading reports whether the newest fetch is still in flight.
func (l *Loader) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}
