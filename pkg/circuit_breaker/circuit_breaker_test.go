package circuit_breaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func Test_circuitBreaker_Call(t *testing.T) {
	errService := errors.New("service error")
	ok := func() error { return nil }
	fail := func() error { return errService }

	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	cb := newWithClock(3, time.Second, 2, clock.now)

	for i := 0; i < 10; i++ {
		require.NoError(t, cb.Call(ok))
	}
	require.Equal(t, Closed, cb.State())

	for i := 0; i < 3; i++ {
		require.ErrorIs(t, cb.Call(fail), errService)
	}
	require.Equal(t, Open, cb.State())

	called := false
	err := cb.Call(func() error { called = true; return nil })
	require.ErrorIs(t, err, ErrOpenCB)
	require.False(t, called)

	// probe after cooldown fails -> open again
	clock.advance(2 * time.Second)
	require.ErrorIs(t, cb.Call(fail), errService)
	require.Equal(t, Open, cb.State())

	clock.advance(2 * time.Second)
	require.NoError(t, cb.Call(ok))
	require.Equal(t, HalfOpen, cb.State())
	require.NoError(t, cb.Call(ok))
	require.Equal(t, Closed, cb.State())
}

func Test_circuitBreaker_FailuresMustBeConsecutive(t *testing.T) {
	cb := New(2, time.Minute, 1)
	fail := func() error { return errors.New("x") }

	require.Error(t, cb.Call(fail))
	require.NoError(t, cb.Call(func() error { return nil }))
	require.Error(t, cb.Call(fail))
	require.Equal(t, Closed, cb.State())

	require.Error(t, cb.Call(fail))
	require.Equal(t, Open, cb.State())

	cb.Reset()
	require.Equal(t, Closed, cb.State())
}
