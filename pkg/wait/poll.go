// Package wait implements deadline-bounded polling of UI conditions
// and the element/page waits built on it.
package wait

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultInterval is used when PollConfig.Interval is zero.
const DefaultInterval = 500 * time.Millisecond

var (
	// ErrPollTimeout matches every *PollTimeoutError.
	ErrPollTimeout = errors.New("poll timed out")
	// ErrInvalidTimeout is returned for a non-positive timeout.
	ErrInvalidTimeout = errors.New("poll timeout must be positive")
)

// Condition reports whether the awaited state holds. An error means
// "not yet" and the poll keeps going.
type Condition func(ctx context.Context) (bool, error)

// PollConfig bounds one poll.
type PollConfig struct {
	Timeout  time.Duration
	Interval time.Duration
	// Message becomes the timeout error text.
	Message string
}

// PollTimeoutError is returned when the deadline passes without the
// condition holding.
type PollTimeoutError struct {
	Message  string
	Timeout  time.Duration
	Attempts int
	// LastErr is the most recent condition error, if any. It is not
	// part of the Unwrap chain.
	LastErr error
}

func (e *PollTimeoutError) Error() string {
	return e.Message
}

// Unwrap exposes only ErrPollTimeout.
func (e *PollTimeoutError) Unwrap() error {
	return ErrPollTimeout
}

// IsTimeout reports whether err is a poll timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrPollTimeout)
}

// PollUntil evaluates cond immediately and then every interval until
// it returns true or the timeout elapses. The last sleep is clipped
// to the deadline and followed by one final evaluation, so a timeout
// returns no earlier than Timeout after the call. Time spent inside
// cond counts against the deadline.
func PollUntil(ctx context.Context, cond Condition, cfg PollConfig) error {
	if cfg.Timeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, cfg.Timeout)
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	message := cfg.Message
	if message == "" {
		message = fmt.Sprintf("condition not met within %s", cfg.Timeout)
	}

	deadline := time.Now().Add(cfg.Timeout)

	var (
		attempts int
		lastErr  error
	)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		attempts++
		ok, err := cond(ctx)
		if err == nil && ok {
			return nil
		}
		if err != nil {
			lastErr = err
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return &PollTimeoutError{
				Message:  message,
				Timeout:  cfg.Timeout,
				Attempts: attempts,
				LastErr:  lastErr,
			}
		}

		sleep := interval
		if sleep > remaining {
			sleep = remaining
		}
		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
