package transport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIdleWhenBothCountersZero(t *testing.T) {
	a := NewActivity()
	require.True(t, a.Idle())

	a.IncInFlight()
	require.False(t, a.Idle())
	a.DecInFlight()
	require.True(t, a.Idle())

	a.IncPending()
	require.False(t, a.Idle())
	a.DecPending()
	require.True(t, a.Idle())
}

func TestWaitQuiescenceReturnsOnceStable(t *testing.T) {
	a := NewActivity()
	a.IncPending()

	go func() {
		time.Sleep(5 * time.Millisecond)
		a.DecPending()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.True(t, WaitQuiescence(ctx, a, time.Millisecond))
}

func TestWaitQuiescenceRespectsCancellation(t *testing.T) {
	a := NewActivity()
	a.IncPending()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	require.False(t, WaitQuiescence(ctx, a, time.Millisecond))
}
