package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/vietddude/oldestdate/internal/core/domain"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		err    error
		expect Outcome
	}{
		{nil, OutcomeOK},
		{&domain.NetworkError{Op: "get recording", Err: errors.New("connection reset by peer")}, OutcomeRetryable},
		{fmt.Errorf("wrapped: %w", &domain.NetworkError{Op: "get work", Err: errors.New("timeout")}), OutcomeRetryable},
		{domain.ErrNotFound, OutcomeFatal},
		{errors.New("http 400: bad request"), OutcomeFatal},
	}

	for _, tt := range tests {
		if got := FromError(1, tt.err).Outcome; got != tt.expect {
			t.Errorf("FromError(%v) = %v, want %v", tt.err, got, tt.expect)
		}
	}
}

func TestDo_SucceedsAfterRetries(t *testing.T) {
	calls := 0
	var retried []int
	cfg := Config{MaxAttempts: 3, Unit: time.Millisecond}

	v, err := Do(context.Background(), cfg, func(ctx context.Context) Result[string] {
		calls++
		if calls < 3 {
			return Retryable[string](errors.New("temporary"))
		}
		return OK("done")
	}, func(attempt int, err error) {
		retried = append(retried, attempt)
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "done" {
		t.Errorf("expected done, got %q", v)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	if len(retried) != 2 || retried[0] != 0 || retried[1] != 1 {
		t.Errorf("expected retries [0 1], got %v", retried)
	}
}

func TestDo_ReturnsLastErrorUnchanged(t *testing.T) {
	last := &domain.NetworkError{Op: "get recording", Err: errors.New("503")}
	calls := 0
	cfg := Config{MaxAttempts: 2, Unit: time.Millisecond}

	_, err := Do(context.Background(), cfg, func(ctx context.Context) Result[int] {
		calls++
		return Retryable[int](last)
	}, nil)

	if err != last {
		t.Errorf("expected the final error unchanged, got %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestDo_SingleAttemptDoesNotRetry(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), Config{MaxAttempts: 1, Unit: time.Hour}, func(ctx context.Context) Result[int] {
		calls++
		return Retryable[int](errors.New("temporary"))
	}, nil)

	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDo_FatalStopsImmediately(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), Config{MaxAttempts: 5, Unit: time.Hour}, func(ctx context.Context) Result[int] {
		calls++
		return Fatal[int](domain.ErrNotFound)
	}, nil)

	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDo_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Do(ctx, Config{MaxAttempts: 3, Unit: time.Hour}, func(ctx context.Context) Result[int] {
		return Retryable[int](errors.New("temporary"))
	}, nil)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestBackoff(t *testing.T) {
	unit := 100 * time.Millisecond
	expected := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond, 800 * time.Millisecond}
	for i, want := range expected {
		if got := Backoff(i, unit); got != want {
			t.Errorf("Backoff(%d) = %v, want %v", i, got, want)
		}
	}
}
