// Package tilecache implements the six-state tile cache state machine
// of spec §3/§4.D: a coord -> TileState map with LRU eviction of
// RAM-resident bytes, stale detection, and loaded-ancestor lookup.
package tilecache

import (
	"github.com/nyxmaps/mercator/internal/collab"
	"github.com/nyxmaps/mercator/internal/proj"
	"github.com/nyxmaps/mercator/internal/retry"
)

// Tag identifies which of the six TileState variants a Tile holds.
// Implementations keep the variant discipline via exhaustive switches
// on Tag rather than an interface per spec §9.
type Tag int

const (
	Pending Tag = iota
	Loaded
	Cached
	Failed
	Retrying
	Exhausted
)

func (t Tag) String() string {
	switch t {
	case Pending:
		return "Pending"
	case Loaded:
		return "Loaded"
	case Cached:
		return "Cached"
	case Failed:
		return "Failed"
	case Retrying:
		return "Retrying"
	case Exhausted:
		return "Exhausted"
	default:
		return "Unknown"
	}
}

// State is a tagged union over the six variants of spec §3. Exactly the
// fields relevant to Tag are meaningful; callers must switch on Tag
// before reading payload fields (mirrors the teacher's single-purpose
// structs, generalized to a sum type per the spec's explicit guidance).
type State struct {
	Tag Tag

	// Loaded
	Texture collab.Texture
	Bytes   []byte // also populated for Cached

	// Cached
	LastAccess uint64 // frame counter τ at last access

	// Failed / Retrying / Exhausted
	Retry retry.State
}

// NewPending returns a Pending state (fetch in flight, no payload).
func NewPending() State { return State{Tag: Pending} }

// NewLoaded returns a Loaded state holding the decoded texture and the
// original bytes (retained for re-decode after GPU eviction).
func NewLoaded(tex collab.Texture, bytes []byte) State {
	return State{Tag: Loaded, Texture: tex, Bytes: bytes}
}

// NewCached returns a Cached state: GPU texture released, bytes kept.
func NewCached(bytes []byte, lastAccess uint64) State {
	return State{Tag: Cached, Bytes: bytes, LastAccess: lastAccess}
}

// NewFailed returns a Failed state carrying the retry bookkeeping.
func NewFailed(rs retry.State) State { return State{Tag: Failed, Retry: rs} }

// NewRetrying returns a Retrying state (a retry fetch is in flight).
func NewRetrying(rs retry.State) State { return State{Tag: Retrying, Retry: rs} }

// NewExhausted returns an Exhausted state (no further automatic retry).
func NewExhausted(rs retry.State) State { return State{Tag: Exhausted, Retry: rs} }

// Coord is an alias for proj.TileCoord, the key type of the cache.
type Coord = proj.TileCoord
