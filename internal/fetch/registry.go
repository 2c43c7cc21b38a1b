package fetch

import (
	"sync/atomic"

	"github.com/nyxmaps/mercator/internal/proj"
)

// CancelFlag is the per-task cancellation primitive of spec §5: a
// single shared boolean the orchestrator may flip to true; the task
// reads it at checkpoints and never reads MapState directly.
type CancelFlag = *atomic.Bool

// NewCancelFlag returns a fresh, unset cancel flag.
func NewCancelFlag() CancelFlag {
	return &atomic.Bool{}
}

// Registry is the active-task table of spec §3/§5: coord -> cancel flag,
// main-thread-only (never touched by fetch/decode goroutines). The
// cache invariant it backs: every coord in Pending or Retrying has
// exactly one entry here, and no other coord does.
type Registry struct {
	flags map[proj.TileCoord]CancelFlag
}

// NewRegistry returns an empty active-task registry.
func NewRegistry() *Registry {
	return &Registry{flags: make(map[proj.TileCoord]CancelFlag)}
}

// Start records a new in-flight task for coord and returns its cancel
// flag. Overwrites (without cancelling) any previous entry — callers
// must not call Start for a coord that already has one; the
// orchestrator enforces "at most one fetch per coord" itself.
func (r *Registry) Start(coord proj.TileCoord) CancelFlag {
	flag := NewCancelFlag()
	r.flags[coord] = flag
	return flag
}

// Contains reports whether coord currently has an active task.
func (r *Registry) Contains(coord proj.TileCoord) bool {
	_, ok := r.flags[coord]
	return ok
}

// Cancel flips coord's cancel flag (if any) and drops its registry
// entry. The task itself may still be mid-flight; it observes
// cancellation at its next checkpoint (spec §5). Idempotent.
func (r *Registry) Cancel(coord proj.TileCoord) {
	if flag, ok := r.flags[coord]; ok {
		flag.Store(true)
		delete(r.flags, coord)
	}
}

// Complete drops coord's registry entry without touching its flag,
// called once a result for coord has been drained from the queue
// (spec §4.I step 7: "remove its active-task entry").
func (r *Registry) Complete(coord proj.TileCoord) {
	delete(r.flags, coord)
}

// Coords returns every coord with an active task, for the orchestrator's
// stale-task cancellation pass (spec §4.I step 2).
func (r *Registry) Coords() []proj.TileCoord {
	out := make([]proj.TileCoord, 0, len(r.flags))
	for c := range r.flags {
		out = append(out, c)
	}
	return out
}

// Len returns the number of active tasks.
func (r *Registry) Len() int { return len(r.flags) }
