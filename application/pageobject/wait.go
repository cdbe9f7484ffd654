package pageobject

import (
	"context"
	"errors"
	"time"

	"page_objects/domain/interfaces"
)

// Condition is checked by Waiter until it holds
type Condition func(ctx context.Context) (bool, error)

var errWaitExpired = errors.New("wait expired")

// Waiter polls conditions with fixed interval until timeout
type Waiter struct {
	Timeout  time.Duration
	Interval time.Duration
}

// Until - polls cond until it holds.
//
// Stale or missing elements reported by cond count as "not yet", any other
// error stops the wait and is returned as is. Cancelled ctx stops the wait
// with ctx error.
func (w Waiter) Until(ctx context.Context, cond Condition) error {
	deadline := time.Now().Add(w.Timeout)
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	for {
		ok, err := cond(ctx)
		switch {
		case err == nil && ok:
			return nil
		case err != nil && !isTransient(err):
			return err
		}

		if !time.Now().Before(deadline) {
			return errWaitExpired
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func isTransient(err error) bool {
	return errors.Is(err, interfaces.ErrStaleElement) || errors.Is(err, interfaces.ErrNoSuchElement)
}
