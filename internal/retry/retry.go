// Package retry implements the pure exponential-backoff decision
// functions used by the tile cache's Failed/Retrying/Exhausted states.
package retry

// FrameCounter is the orchestrator's monotonic frame counter τ —
// abstract time, not wall-clock (spec §4.C).
type FrameCounter = uint64

// State is the payload carried by TileState's Failed/Retrying/Exhausted
// variants (spec §3 RetryState).
type State struct {
	RetryCount   int
	LastFailTime FrameCounter
	ErrorMessage string
}

// Config holds the retry policy's tunables (spec §6.4 defaults).
type Config struct {
	MaxRetries int
	BaseDelay  FrameCounter // in frames
}

// DefaultConfig returns the §6.4 defaults: max_retries=3, base_delay=60.
func DefaultConfig() Config {
	return Config{MaxRetries: 3, BaseDelay: 60}
}

// InitialFailure builds the RetryState for a tile's first observed
// failure, as used by orchestrator step 7 ("Otherwise initial
// Failed(initial_failure(τ, msg))").
func InitialFailure(tau FrameCounter, msg string) State {
	return State{RetryCount: 0, LastFailTime: tau, ErrorMessage: msg}
}

// Advance returns the RetryState after one more failed attempt,
// incrementing RetryCount and recording the new failure time/message.
// Used by orchestrator step 7 when a Retrying tile fails again.
func Advance(s State, tau FrameCounter, msg string) State {
	return State{RetryCount: s.RetryCount + 1, LastFailTime: tau, ErrorMessage: msg}
}

// BackoffDelay implements spec §4.C backoff_delay(rs) = base_delay * 2^retry_count.
func (c Config) BackoffDelay(s State) FrameCounter {
	return c.BaseDelay << uint(s.RetryCount)
}

// NextRetryTime implements spec §4.C next_retry_time(rs).
func (c Config) NextRetryTime(s State) FrameCounter {
	return s.LastFailTime + c.BackoffDelay(s)
}

// IsExhausted implements spec §4.C is_exhausted(rs).
func (c Config) IsExhausted(s State) bool {
	return s.RetryCount >= c.MaxRetries
}

// ShouldRetry implements spec §4.C should_retry(rs, τ).
func (c Config) ShouldRetry(s State, tau FrameCounter) bool {
	return !c.IsExhausted(s) && tau >= c.NextRetryTime(s)
}
