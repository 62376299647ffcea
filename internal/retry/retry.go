// Package retry implements the attempt/backoff policy used around external
// command execution. It knows nothing about processes: any fallible
// operation can be retried.
package retry

import (
	"context"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	// DefaultMaxAttempts is used when a policy does not set MaxAttempts.
	DefaultMaxAttempts = 3
	// DefaultUnit is the base delay; attempt n waits Unit * 2^n.
	DefaultUnit = time.Second
)

// Attempt describes a failed attempt that is about to be retried.
type Attempt struct {
	Number int           // 0-indexed attempt that failed
	Err    error         // error returned by the operation
	Delay  time.Duration // delay before the next attempt
}

// Policy controls how many times an operation is attempted and how long to
// wait between attempts.
type Policy struct {
	MaxAttempts int
	Unit        time.Duration

	// Sleep waits for d or until ctx is done. nil uses a real timer.
	Sleep func(ctx context.Context, d time.Duration) error

	// OnRetry, if set, is called after a failed attempt that will be retried.
	OnRetry func(Attempt)
}

// Operation is a single attempt. attempt is 0-indexed.
type Operation func(ctx context.Context, attempt int) error

// Default returns the policy used when nothing is configured.
func Default() Policy {
	return Policy{MaxAttempts: DefaultMaxAttempts, Unit: DefaultUnit}
}

// Attempts returns the effective number of attempts.
func (p Policy) Attempts() int {
	if p.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return p.MaxAttempts
}

// Delay returns the wait after the given failed attempt (0-indexed).
func (p Policy) Delay(attempt int) time.Duration {
	unit := p.Unit
	if unit <= 0 {
		unit = DefaultUnit
	}
	if attempt < 0 {
		attempt = 0
	}
	return unit << uint(attempt)
}

// Do runs op until it succeeds or the attempts are exhausted. It returns the
// number of attempts made and, on failure, the error of the final attempt
// unmodified. Once ctx is done no further attempt is scheduled and ctx.Err()
// is returned.
func (p Policy) Do(ctx context.Context, op Operation) (int, error) {
	made := 0
	operation := func() error {
		err := op(ctx, made)
		made++
		if err == nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return backoff.Permanent(ctxErr)
		}
		return err
	}
	notify := func(err error, delay time.Duration) {
		if p.OnRetry != nil {
			p.OnRetry(Attempt{Number: made - 1, Err: err, Delay: delay})
		}
	}

	err := backoff.RetryNotifyWithTimer(operation, p.backOff(ctx), notify, p.timer(ctx))
	return made, err
}

// backOff yields Unit, 2*Unit, 4*Unit... for at most Attempts()-1 retries.
func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	retries := p.Attempts() - 1
	if retries == 0 {
		// WithMaxRetries treats zero as unlimited.
		return backoff.WithContext(&backoff.StopBackOff{}, ctx)
	}

	exp := &backoff.ExponentialBackOff{
		InitialInterval:     p.Delay(0),
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         time.Duration(math.MaxInt64),
		MaxElapsedTime:      0,
		Stop:                backoff.Stop,
		Clock:               backoff.SystemClock,
	}
	exp.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(retries)), ctx)
}

func (p Policy) timer(ctx context.Context) backoff.Timer {
	if p.Sleep == nil {
		return nil
	}
	return &sleepTimer{ctx: ctx, sleep: p.Sleep}
}

// sleepTimer adapts a Sleep func to backoff.Timer.
type sleepTimer struct {
	ctx   context.Context
	sleep func(ctx context.Context, d time.Duration) error
	c     chan time.Time
}

func (t *sleepTimer) Start(d time.Duration) {
	c := make(chan time.Time, 1)
	t.c = c
	go func() {
		_ = t.sleep(t.ctx, d)
		c <- time.Now()
	}()
}

func (t *sleepTimer) Stop() {}

func (t *sleepTimer) C() <-chan time.Time {
	return t.c
}
