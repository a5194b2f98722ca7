// Package idgen issues record identifiers derived from the wall clock.
package idgen

import (
	"sync"
	"time"
)

// Generator hands out millisecond timestamps as ids. Two calls within the
// same millisecond still get distinct, increasing values.
type Generator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func New(now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{now: now}
}

// Next returns an id strictly greater than every id returned before.
func (g *Generator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

// Observe raises the floor so ids loaded from storage are never reissued.
func (g *Generator) Observe(id int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if id > g.last {
		g.last = id
	}
}
