package fetch

import (
	"sync"

	"github.com/nyxmaps/mercator/internal/collab"
	"github.com/nyxmaps/mercator/internal/proj"
)

// Result is one completed fetch or decode task, pushed onto the shared
// result queue (spec §4.F step 8 / §5 "result queue").
type Result struct {
	Coord    proj.TileCoord
	Texture  collab.Texture // nil on error
	Bytes    []byte
	Err      error
	WasRetry bool
}

// ResultQueue is the thread-safe MPSC FIFO of spec §5: many fetch/decode
// goroutines push, the orchestrator drains it once per frame by
// swapping in a fresh empty slice under the lock (the "atomic
// modify-and-get primitive").
type ResultQueue struct {
	mu    sync.Mutex
	items []Result
}

// NewResultQueue returns an empty queue.
func NewResultQueue() *ResultQueue {
	return &ResultQueue{}
}

// Push appends a result. Safe to call from any goroutine.
func (q *ResultQueue) Push(r Result) {
	q.mu.Lock()
	q.items = append(q.items, r)
	q.mu.Unlock()
}

// DrainAll atomically swaps the internal slice with an empty one and
// returns whatever had accumulated (spec §4.I step 7).
func (q *ResultQueue) DrainAll() []Result {
	q.mu.Lock()
	items := q.items
	q.items = nil
	q.mu.Unlock()
	return items
}
