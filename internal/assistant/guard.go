package assistant

import "sync"

// Guard serializes concurrent queries by sequence number: only the
// most recently issued request may publish its answer, so a slow
// response never overwrites a newer one.
type Guard struct {
	mu     sync.Mutex
	latest uint64
}

// Begin registers a new request and returns its sequence number.
func (g *Guard) Begin() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.latest++
	return g.latest
}

// Accept reports whether the response for seq is still current.
func (g *Guard) Accept(seq uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return seq == g.latest
}
