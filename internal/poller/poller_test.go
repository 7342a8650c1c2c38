package poller_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gearstock/console/internal/poller"
)

func TestPoller_FetchesImmediatelyThenOnTicks(t *testing.T) {
	t.Parallel()
	var fetches atomic.Int32
	var mu sync.Mutex
	var applied []int

	p := poller.New(
		30*time.Millisecond,
		func(ctx context.Context) (int, error) {
			return int(fetches.Add(1)), nil
		},
		func(v int) {
			mu.Lock()
			applied = append(applied, v)
			mu.Unlock()
		},
		nil,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	p.Run(ctx)
	time.Sleep(20 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, len(applied), 3) // immediate + at least two ticks
	require.Equal(t, 1, applied[0])
}

func TestPoller_DiscardsSupersededResults(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	var mu sync.Mutex
	var applied []int

	p := poller.New(
		25*time.Millisecond,
		func(ctx context.Context) (int, error) {
			n := int(calls.Add(1))
			if n == 1 {
				// the first fetch is slow enough to be lapped by later ticks
				time.Sleep(80 * time.Millisecond)
			}
			return n, nil
		},
		func(v int) {
			mu.Lock()
			applied = append(applied, v)
			mu.Unlock()
		},
		nil,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()
	p.Run(ctx)
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.NotContains(t, applied, 1, "the lapped first result must be discarded")
}

func TestPoller_StopsOnCancel(t *testing.T) {
	t.Parallel()
	var fetches atomic.Int32
	p := poller.New(
		10*time.Millisecond,
		func(ctx context.Context) (int, error) { return int(fetches.Add(1)), nil },
		func(int) {},
		nil,
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()
	time.Sleep(35 * time.Millisecond)
	cancel()
	<-done

	at := fetches.Load()
	time.Sleep(40 * time.Millisecond)
	require.Equal(t, at, fetches.Load(), "no fetches after cancellation")
}

func TestPoller_ErrorsGoToCallbackNotApply(t *testing.T) {
	t.Parallel()
	var errs atomic.Int32
	p := poller.New(
		time.Hour,
		func(ctx context.Context) (int, error) { return 0, context.DeadlineExceeded },
		func(int) { t.Error("apply must not run on error") },
		func(error) { errs.Add(1) },
	)

	ctx, cancel := context.WithCancel(context.Background())
	go p.Run(ctx)
	time.Sleep(30 * time.Millisecond)
	cancel()
	require.GreaterOrEqual(t, errs.Load(), int32(1))
}
