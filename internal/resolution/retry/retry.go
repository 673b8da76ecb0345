package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/vietddude/oldestdate/internal/core/domain"
)

// Config defines retry behavior.
type Config struct {
	MaxAttempts int           // total attempts, at least 1
	Unit        time.Duration // sleep before retry i is Unit * 2^i
}

// DefaultConfig matches the plugin defaults: three attempts, one second base.
var DefaultConfig = Config{
	MaxAttempts: 3,
	Unit:        time.Second,
}

// Outcome tags the result of a single attempt.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeRetryable
	OutcomeFatal
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeRetryable:
		return "retryable"
	case OutcomeFatal:
		return "fatal"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is the tagged outcome of one attempt.
type Result[T any] struct {
	Value   T
	Outcome Outcome
	Err     error
}

// OK wraps a successful value.
func OK[T any](v T) Result[T] {
	return Result[T]{Value: v, Outcome: OutcomeOK}
}

// Retryable wraps a transient failure.
func Retryable[T any](err error) Result[T] {
	return Result[T]{Outcome: OutcomeRetryable, Err: err}
}

// Fatal wraps a failure that must not be retried.
func Fatal[T any](err error) Result[T] {
	return Result[T]{Outcome: OutcomeFatal, Err: err}
}

// FromError builds a Result from a conventional (value, error) pair.
// Network errors are retryable, everything else is fatal.
func FromError[T any](v T, err error) Result[T] {
	if err == nil {
		return OK(v)
	}
	if domain.IsNetworkError(err) {
		return Retryable[T](err)
	}
	return Fatal[T](err)
}

// Do runs op until it succeeds, fails fatally, or the attempt budget is
// spent. The error of the last attempt is returned unchanged. onRetry, when
// not nil, is called before each backoff sleep.
func Do[T any](
	ctx context.Context,
	cfg Config,
	op func(ctx context.Context) Result[T],
	onRetry func(attempt int, err error),
) (T, error) {
	attempts := max(cfg.MaxAttempts, 1)

	var zero T
	for attempt := 0; ; attempt++ {
		res := op(ctx)
		switch res.Outcome {
		case OutcomeOK:
			return res.Value, nil
		case OutcomeFatal:
			return zero, res.Err
		}

		if attempt == attempts-1 {
			return zero, res.Err
		}

		if onRetry != nil {
			onRetry(attempt, res.Err)
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(Backoff(attempt, cfg.Unit)):
		}
	}
}

// Backoff returns the sleep before retrying after attempt (0-based).
// Growth is unbounded; callers keep MaxAttempts small.
func Backoff(attempt int, unit time.Duration) time.Duration {
	return unit << uint(attempt)
}
