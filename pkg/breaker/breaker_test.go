package breaker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/gearstock/console/pkg/breaker"
	"github.com/stretchr/testify/require"
)

func TestBreaker_Do(t *testing.T) {
	ok := func() error { return nil }
	fail := func() error { return errors.New("remote error") }

	b := breaker.New(10, 50*time.Millisecond, 0.5, 2)

	for i := 0; i < 20; i++ {
		require.NoError(t, b.Do(ok))
	}

	// push the failure share over the threshold
	for i := 0; i < 5; i++ {
		require.Error(t, b.Do(fail))
	}

	// open: calls are rejected without running the function
	require.ErrorIs(t, b.Do(ok), breaker.ErrOpen)

	// after cooldown it half-opens; enough successes close it again
	time.Sleep(60 * time.Millisecond)
	for i := 0; i < 4; i++ {
		require.NoError(t, b.Do(ok))
	}
	require.NoError(t, b.Do(ok))
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	fail := func() error { return errors.New("remote error") }

	b := breaker.New(4, 50*time.Millisecond, 0.5, 1)
	for i := 0; i < 4; i++ {
		require.Error(t, b.Do(fail))
	}
	require.ErrorIs(t, b.Do(fail), breaker.ErrOpen)

	time.Sleep(60 * time.Millisecond)
	// the probe call fails: straight back to open
	require.EqualError(t, b.Do(fail), "remote error")
	require.ErrorIs(t, b.Do(fail), breaker.ErrOpen)
}

func TestBreaker_Reset(t *testing.T) {
	fail := func() error { return errors.New("remote error") }

	b := breaker.New(4, time.Minute, 0.5, 1)
	for i := 0; i < 4; i++ {
		require.Error(t, b.Do(fail))
	}
	require.ErrorIs(t, b.Do(fail), breaker.ErrOpen)

	b.Reset()
	require.NoError(t, b.Do(func() error { return nil }))
}
