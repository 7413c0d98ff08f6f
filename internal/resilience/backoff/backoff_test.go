package backoff

import (
	"testing"
	"time"
)

func TestDelayGrowth(t *testing.T) {
	p := Policy{
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     1 * time.Second,
		Factor:       2.0,
	}

	tests := []struct {
		attempt int
		expect  time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 400 * time.Millisecond},
		{3, 800 * time.Millisecond},
		{4, 1 * time.Second}, // clamped
		{5, 1 * time.Second},
	}

	for _, tt := range tests {
		if got := Delay(tt.attempt, p); got != tt.expect {
			t.Errorf("Delay(%d) = %v, want %v", tt.attempt, got, tt.expect)
		}
	}
}

func TestDelayMonotonicUntilClamp(t *testing.T) {
	p := Policy{
		InitialDelay: 50 * time.Millisecond,
		MaxDelay:     10 * time.Second,
		Factor:       1.5,
	}

	prev := time.Duration(-1)
	for attempt := 0; attempt < 30; attempt++ {
		d := Delay(attempt, p)
		if d < prev {
			t.Fatalf("Delay(%d) = %v decreased from %v", attempt, d, prev)
		}
		if d > p.MaxDelay {
			t.Fatalf("Delay(%d) = %v exceeds max %v", attempt, d, p.MaxDelay)
		}
		prev = d
	}
	if prev != p.MaxDelay {
		t.Errorf("expected tail to settle at max %v, got %v", p.MaxDelay, prev)
	}
}

func TestDelayHugeAttemptSaturates(t *testing.T) {
	p := Policy{
		InitialDelay: 1 * time.Second,
		MaxDelay:     time.Minute,
		Factor:       2.0,
	}

	// Exponent overflow must clamp, never wrap negative.
	for _, attempt := range []int{63, 100, 1000, 1 << 20} {
		if got := Delay(attempt, p); got != p.MaxDelay {
			t.Errorf("Delay(%d) = %v, want clamp to %v", attempt, got, p.MaxDelay)
		}
	}
}

func TestDelayJitterEnvelope(t *testing.T) {
	p := Policy{
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     time.Hour,
		Factor:       2.0,
		Jitter:       true,
	}

	lo := 50 * time.Millisecond
	hi := 150 * time.Millisecond
	for i := 0; i < 1000; i++ {
		d := Delay(0, p)
		if d < lo || d >= hi {
			t.Fatalf("jittered Delay(0) = %v, want [%v, %v)", d, lo, hi)
		}
	}
}

func TestDelayJitterClamped(t *testing.T) {
	p := Policy{
		InitialDelay: 1 * time.Second,
		MaxDelay:     1 * time.Second,
		Factor:       2.0,
		Jitter:       true,
	}

	for i := 0; i < 100; i++ {
		if d := Delay(5, p); d > p.MaxDelay {
			t.Fatalf("jittered delay %v exceeds max %v", d, p.MaxDelay)
		}
	}
}

func TestDelayNegativeAttempt(t *testing.T) {
	p := Policy{InitialDelay: time.Second, MaxDelay: time.Minute, Factor: 2.0}
	if got := Delay(-3, p); got != p.InitialDelay {
		t.Errorf("Delay(-3) = %v, want %v", got, p.InitialDelay)
	}
}
