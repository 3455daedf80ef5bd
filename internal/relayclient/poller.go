package relayclient

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"
)

const (
	// DefaultPollInterval is the wait before every status check.
	DefaultPollInterval = 10 * time.Second

	// MinPollInterval is the tightest interval NewPoller accepts.
	MinPollInterval = 10 * time.Second
)

// StatusChecker reports the state of a long-running operation.
type StatusChecker interface {
	VideoStatus(ctx context.Context, operation string) (*VideoStatus, error)
}

// Result is the outcome of a settled operation. Exactly one of VideoURI and
// VideoData is set.
type Result struct {
	Operation string
	VideoURI  string
	VideoData []byte
	Attempts  int
}

// Poller waits for a video operation to settle.
//
// Every check is preceded by a sleep of Interval, including the first one.
// A transport or decode failure ends the loop at once; there is no retry.
// Zero MaxAttempts and zero Timeout mean the loop runs until the operation
// settles or ctx is cancelled.
type Poller struct {
	Client      StatusChecker
	Interval    time.Duration
	MaxAttempts int
	Timeout     time.Duration

	// OnPoll, when set, observes every status answer.
	OnPoll func(attempt int, status *VideoStatus)

	sleep func(ctx context.Context, d time.Duration) error
}

// NewPoller returns a Poller on client, clamping interval to MinPollInterval.
func NewPoller(client StatusChecker, interval time.Duration) *Poller {
	if interval < MinPollInterval {
		interval = MinPollInterval
	}
	return &Poller{Client: client, Interval: interval}
}

// Wait polls operation until it settles.
func (p *Poller) Wait(ctx context.Context, operation string) (*Result, error) {
	if p.Client == nil {
		return nil, errors.New("relayclient: poller has no status client")
	}
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, p.Timeout, ErrPollTimeout)
		defer cancel()
	}

	for attempt := 1; ; attempt++ {
		if p.MaxAttempts > 0 && attempt > p.MaxAttempts {
			return nil, fmt.Errorf("%w: operation %s still running after %d checks", ErrPollTimeout, operation, p.MaxAttempts)
		}
		if err := p.wait(ctx, interval); err != nil {
			return nil, stopped(ctx, operation, err)
		}

		status, err := p.Client.VideoStatus(ctx, operation)
		if err != nil {
			if ctx.Err() != nil {
				return nil, stopped(ctx, operation, ctx.Err())
			}
			if apiErr, ok := AsAPIError(err); ok && apiErr.Message != "" {
				return nil, &GenerationError{Operation: operation, Message: apiErr.Message, Err: err}
			}
			return nil, &PollError{Operation: operation, Attempt: attempt, Err: err}
		}
		if p.OnPoll != nil {
			p.OnPoll(attempt, status)
		}

		res, err := settle(operation, attempt, status)
		if err != nil {
			return nil, err
		}
		if res != nil {
			res.Attempts = attempt
			return res, nil
		}
	}
}

// settle interprets one status answer. A nil result with a nil error means
// the operation is still running.
func settle(operation string, attempt int, status *VideoStatus) (*Result, error) {
	if !status.Success {
		return nil, &GenerationError{Operation: operation, Message: nonEmpty(status.Error, "operation failed")}
	}
	if !status.Done {
		return nil, nil
	}
	if status.Error != "" {
		return nil, &GenerationError{Operation: operation, Message: status.Error}
	}
	if status.VideoURI != "" {
		return &Result{Operation: operation, VideoURI: status.VideoURI}, nil
	}
	if status.Video != "" {
		data, err := base64.StdEncoding.DecodeString(status.Video)
		if err != nil {
			return nil, &PollError{Operation: operation, Attempt: attempt, Err: fmt.Errorf("decode inline video: %w", err)}
		}
		return &Result{Operation: operation, VideoData: data}, nil
	}
	return nil, &GenerationError{Operation: operation, Message: "no video in completed operation"}
}

func (p *Poller) wait(ctx context.Context, d time.Duration) error {
	if p.sleep != nil {
		return p.sleep(ctx, d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func stopped(ctx context.Context, operation string, err error) error {
	if errors.Is(context.Cause(ctx), ErrPollTimeout) {
		return fmt.Errorf("%w: operation %s", ErrPollTimeout, operation)
	}
	return err
}
