package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/TeoZler/epub-series-metadata-editor/pkg/epubseries"
)

// mockOperation fails with transientErr until invocation failUntil, then
// returns fatalErr (if set) once, then succeeds.
type mockOperation struct {
	invocations  int
	failUntil    int
	transientErr error
	fatalErr     error
}

func (m *mockOperation) execute(ctx context.Context) error {
	m.invocations++
	if m.invocations < m.failUntil {
		if m.transientErr != nil {
			return m.transientErr
		}
		return epubseries.ErrArchiveLocked
	}
	if m.invocations == m.failUntil && m.fatalErr != nil {
		return m.fatalErr
	}
	return nil
}

func fastBackoff(retries int) *ExponentialBackoff {
	return NewExponentialBackoff(retries, WithInitialDelay(time.Millisecond), WithJitter(0))
}

func TestExecutor_SuccessOnFirstAttempt(t *testing.T) {
	executor := NewExecutor(NewLockClassifier(), fastBackoff(3))
	op := &mockOperation{failUntil: 1}

	if err := executor.Execute(context.Background(), op.execute); err != nil {
		t.Errorf("Expected success, got error: %v", err)
	}
	if op.invocations != 1 {
		t.Errorf("Expected 1 invocation, got %d", op.invocations)
	}
}

func TestExecutor_SuccessAfterRetries(t *testing.T) {
	executor := NewExecutor(NewLockClassifier(), fastBackoff(5))
	op := &mockOperation{failUntil: 3}

	if err := executor.Execute(context.Background(), op.execute); err != nil {
		t.Errorf("Expected success after retries, got error: %v", err)
	}
	if op.invocations != 3 {
		t.Errorf("Expected 3 invocations, got %d", op.invocations)
	}
}

func TestExecutor_ExhaustsRetries(t *testing.T) {
	executor := NewExecutor(NewLockClassifier(), fastBackoff(2))
	op := &mockOperation{failUntil: 100}

	err := executor.Execute(context.Background(), op.execute)
	if !errors.Is(err, epubseries.ErrArchiveLocked) {
		t.Fatalf("Expected ErrArchiveLocked, got %v", err)
	}
	if op.invocations != 3 {
		t.Errorf("Expected 3 invocations (1 initial + 2 retries), got %d", op.invocations)
	}
}

func TestExecutor_NoRetries(t *testing.T) {
	executor := NewExecutor(NewLockClassifier(), fastBackoff(0))
	op := &mockOperation{failUntil: 100}

	if err := executor.Execute(context.Background(), op.execute); err == nil {
		t.Fatal("Expected error")
	}
	if op.invocations != 1 {
		t.Errorf("Expected 1 invocation, got %d", op.invocations)
	}
}

func TestExecutor_FatalErrorStopsImmediately(t *testing.T) {
	fatal := errors.New("not a zip file")
	executor := NewExecutor(NewLockClassifier(), fastBackoff(5))
	op := &mockOperation{failUntil: 2, fatalErr: fatal}

	err := executor.Execute(context.Background(), op.execute)
	if !errors.Is(err, fatal) {
		t.Fatalf("Expected fatal error, got %v", err)
	}
	if op.invocations != 2 {
		t.Errorf("Expected 2 invocations, got %d", op.invocations)
	}
}

func TestExecutor_ContextCancelledDuringWait(t *testing.T) {
	executor := NewExecutor(NewLockClassifier(),
		NewExponentialBackoff(5, WithInitialDelay(time.Hour), WithJitter(0)))
	ctx, cancel := context.WithCancel(context.Background())

	executor = executor.WithOnRetry(func(int, error, time.Duration) { cancel() })
	op := &mockOperation{failUntil: 100}

	err := executor.Execute(ctx, op.execute)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if op.invocations != 1 {
		t.Errorf("Expected 1 invocation, got %d", op.invocations)
	}
}

func TestExecutor_OnRetryCallback(t *testing.T) {
	var attempts []int
	var delays []time.Duration
	base := NewExecutor(NewLockClassifier(), fastBackoff(5))
	executor := base.WithOnRetry(func(attempt int, err error, delay time.Duration) {
		attempts = append(attempts, attempt)
		delays = append(delays, delay)
	})
	op := &mockOperation{failUntil: 3}

	if err := executor.Execute(context.Background(), op.execute); err != nil {
		t.Fatalf("Expected success, got %v", err)
	}
	if len(attempts) != 2 || attempts[0] != 0 || attempts[1] != 1 {
		t.Errorf("Expected retries [0 1], got %v", attempts)
	}
	if delays[1] != 2*time.Millisecond {
		t.Errorf("Expected second delay 2ms, got %v", delays[1])
	}
	if base.onRetry != nil {
		t.Error("WithOnRetry modified the original executor")
	}
}

func TestNewExecutor_PanicsOnNil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for nil classifier")
		}
	}()
	NewExecutor(nil, fastBackoff(1))
}
