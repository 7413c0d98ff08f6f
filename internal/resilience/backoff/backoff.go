// Package backoff computes wait durations between retry attempts.
package backoff

import (
	"math"
	"math/rand"
	"time"
)

// Policy defines the shape of the backoff curve.
type Policy struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Factor       float64
	Jitter       bool
}

// DefaultPolicy provides sensible defaults for transient network failures.
var DefaultPolicy = Policy{
	InitialDelay: 1 * time.Second,
	MaxDelay:     30 * time.Second,
	Factor:       2.0,
	Jitter:       true,
}

// Delay returns the wait duration before retry number attempt (0-indexed).
// The raw delay grows as InitialDelay * Factor^attempt and is clamped to
// MaxDelay. With Jitter enabled the result is scaled by a uniform factor in
// [0.5, 1.5) before clamping, so the clamp still bounds the final value.
func Delay(attempt int, p Policy) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	// float64 math saturates to +Inf on large exponents instead of wrapping,
	// so the clamp below stays correct for any attempt number.
	d := float64(p.InitialDelay) * math.Pow(p.Factor, float64(attempt))

	if p.Jitter {
		d *= 0.5 + rand.Float64()
	}

	if maxd := float64(p.MaxDelay); d > maxd {
		d = maxd
	}
	return time.Duration(d)
}
