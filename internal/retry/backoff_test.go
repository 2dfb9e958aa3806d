package retry

import (
	"testing"
	"time"
)

func TestExponentialBackoff_Defaults(t *testing.T) {
	b := NewExponentialBackoff(3)

	if b.initialDelay != DefaultInitialDelay {
		t.Errorf("Expected initial delay %v, got %v", DefaultInitialDelay, b.initialDelay)
	}
	if b.maxDelay != DefaultMaxDelay {
		t.Errorf("Expected max delay %v, got %v", DefaultMaxDelay, b.maxDelay)
	}
	if b.multiplier != 2.0 {
		t.Errorf("Expected multiplier 2.0, got %v", b.multiplier)
	}
	if b.MaxAttempts() != 3 {
		t.Errorf("Expected MaxAttempts=3, got %d", b.MaxAttempts())
	}
}

func TestExponentialBackoff_NextDelay_WithoutJitter(t *testing.T) {
	b := NewExponentialBackoff(5,
		WithInitialDelay(100*time.Millisecond),
		WithMaxDelay(time.Minute),
		WithJitter(0),
	)

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 400 * time.Millisecond},
		{3, 800 * time.Millisecond},
		{4, 1600 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := b.NextDelay(tt.attempt); got != tt.want {
			t.Errorf("NextDelay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestExponentialBackoff_NextDelay_Capped(t *testing.T) {
	b := NewExponentialBackoff(10,
		WithInitialDelay(time.Second),
		WithMaxDelay(3*time.Second),
		WithJitter(0),
	)

	if got := b.NextDelay(5); got != 3*time.Second {
		t.Errorf("Expected delay capped at 3s, got %v", got)
	}
}

func TestExponentialBackoff_NextDelay_CustomMultiplier(t *testing.T) {
	b := NewExponentialBackoff(3,
		WithInitialDelay(10*time.Millisecond),
		WithMultiplier(3),
		WithJitter(0),
	)

	if got := b.NextDelay(2); got != 90*time.Millisecond {
		t.Errorf("Expected 90ms, got %v", got)
	}
}

func TestExponentialBackoff_NextDelay_Jitter(t *testing.T) {
	tests := []struct {
		name   string
		random float64
		want   time.Duration
	}{
		{"lowest", 0.0, 900 * time.Millisecond},
		{"middle", 0.5, time.Second},
		{"high", 0.75, 1050 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewExponentialBackoff(1,
				WithInitialDelay(time.Second),
				WithJitter(0.1),
				WithJitterFunc(func() float64 { return tt.random }),
			)
			got := b.NextDelay(0)
			diff := got - tt.want
			if diff < -time.Microsecond || diff > time.Microsecond {
				t.Errorf("NextDelay(0) = %v, want %v", got, tt.want)
			}
		})
	}
}
