package enrich

import "sync"

// Inflight is the claim set guaranteeing at most one concurrent enrichment
// per link across the background worker and request-triggered calls.
type Inflight struct {
	mu  sync.Mutex
	set map[string]struct{}
}

func NewInflight() *Inflight {
	return &Inflight{set: make(map[string]struct{})}
}

// TryClaim atomically claims link; it fails when someone already holds it.
func (f *Inflight) TryClaim(link string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.set[link]; busy {
		return false
	}
	f.set[link] = struct{}{}
	return true
}

// Release frees a claim. Must run on every path out of an enrichment,
// including failures.
func (f *Inflight) Release(link string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.set, link)
}

// Len reports the number of active claims.
func (f *Inflight) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.set)
}
