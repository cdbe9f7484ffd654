package pageobject

import (
	"context"
	"errors"
	"testing"
	"time"

	"page_objects/domain/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequence - condition returning given results one by one, the last one repeats
func sequence(results ...error) (Condition, *int) {
	calls := 0
	return func(ctx context.Context) (bool, error) {
		i := calls
		if i >= len(results) {
			i = len(results) - 1
		}
		calls++
		if results[i] != nil {
			return false, results[i]
		}
		return true, nil
	}, &calls
}

var errNotYet = errors.New("not yet")

func TestWaiterUntil(t *testing.T) {
	waiter := Waiter{Timeout: 50 * time.Millisecond, Interval: time.Millisecond}

	tests := []struct {
		name      string
		results   []error
		wantErr   error
		wantCalls int
	}{
		{
			name:      "holds at once",
			results:   []error{nil},
			wantCalls: 1,
		},
		{
			name:      "stale and missing elements are retried",
			results:   []error{interfaces.ErrStaleElement, interfaces.ErrNoSuchElement, nil},
			wantCalls: 3,
		},
		{
			name:      "other errors stop the wait",
			results:   []error{interfaces.ErrStaleElement, errNotYet},
			wantErr:   errNotYet,
			wantCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond, calls := sequence(tt.results...)
			err := waiter.Until(context.Background(), cond)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, *calls)
		})
	}
}

func TestWaiterExpires(t *testing.T) {
	waiter := Waiter{Timeout: 20 * time.Millisecond, Interval: 2 * time.Millisecond}
	calls := 0
	start := time.Now()

	err := waiter.Until(context.Background(), func(ctx context.Context) (bool, error) {
		calls++
		return false, nil
	})

	require.ErrorIs(t, err, errWaitExpired)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Greater(t, calls, 1)
}

func TestWaiterZeroTimeoutChecksOnce(t *testing.T) {
	cond, calls := sequence(interfaces.ErrStaleElement)
	err := Waiter{}.Until(context.Background(), cond)
	require.ErrorIs(t, err, errWaitExpired)
	assert.Equal(t, 1, *calls)
}

func TestWaiterStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	waiter := Waiter{Timeout: time.Minute, Interval: time.Millisecond}
	calls := 0

	err := waiter.Until(ctx, func(ctx context.Context) (bool, error) {
		calls++
		if calls == 3 {
			cancel()
		}
		return false, nil
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, calls)
}

func TestTimeoutError(t *testing.T) {
	err := error(&TimeoutError{
		Kind:    WaitURLContains,
		Target:  "`/search`",
		Timeout: time.Second,
		Detail:  "current url is `https://shop.test/`",
	})

	assert.ErrorIs(t, err, ErrTimeout)
	assert.ErrorIs(t, err, ErrURLNotContains)
	assert.NotErrorIs(t, err, ErrNotVisible)
	assert.Equal(t, "url does not contain text: `/search` after 1s (current url is `https://shop.test/`)", err.Error())

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, WaitURLContains, timeoutErr.Kind)
}

func TestEveryWaitKindHasError(t *testing.T) {
	kinds := []WaitKind{
		WaitVisible, WaitInvisible, WaitClickable, WaitTextPresent, WaitTextChanged,
		WaitAttributeLacks, WaitNotInDOM, WaitURLContains, WaitURLNotContains,
		WaitURLChanged, WaitPageLoaded,
	}
	seen := make(map[error]WaitKind)
	for _, kind := range kinds {
		kindErr, ok := kindErrors[kind]
		require.True(t, ok, kind)
		_, dup := seen[kindErr]
		assert.False(t, dup, "kinds %s and %s share error", kind, seen[kindErr])
		seen[kindErr] = kind
	}
}
