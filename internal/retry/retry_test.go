package retry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExponentialBackoffScenario(t *testing.T) {
	// Spec §8 scenario 5: max_retries=3, base_delay=60.
	cfg := Config{MaxRetries: 3, BaseDelay: 60}
	rs0 := InitialFailure(100, "boom")

	assert.False(t, cfg.ShouldRetry(rs0, 159))
	assert.True(t, cfg.ShouldRetry(rs0, 160))

	rs1 := Advance(rs0, 160, "boom again")
	assert.Equal(t, FrameCounter(160+120), cfg.NextRetryTime(rs1))

	rs2 := Advance(rs1, 280, "boom thrice")
	assert.Equal(t, FrameCounter(280+240), cfg.NextRetryTime(rs2))
}

func TestExhaustionIsSticky(t *testing.T) {
	cfg := DefaultConfig()
	s := InitialFailure(0, "e")
	for i := 0; i < cfg.MaxRetries; i++ {
		s = Advance(s, FrameCounter(i+1)*1000, "e")
	}
	assert.True(t, cfg.IsExhausted(s))
	for _, tau := range []FrameCounter{0, 1, 1_000_000, 9_999_999} {
		assert.False(t, cfg.ShouldRetry(s, tau))
	}
}

func TestRetryMonotonicityProperty(t *testing.T) {
	cfg := DefaultConfig()
	states := []State{
		InitialFailure(50, "a"),
		Advance(InitialFailure(50, "a"), 200, "b"),
	}
	for _, s := range states {
		if cfg.IsExhausted(s) {
			continue
		}
		threshold := cfg.NextRetryTime(s)
		for tau := threshold; tau < threshold+500; tau += 17 {
			if cfg.ShouldRetry(s, tau) {
				// once true at tau, must stay true for all tau' >= tau
				// until exhaustion (which Advance/ShouldRetry doesn't
				// change without an explicit Advance call).
				assert.True(t, cfg.ShouldRetry(s, tau+1))
			}
		}
	}
}
