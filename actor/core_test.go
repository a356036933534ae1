package actor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDispatchRunsOnCoreGoroutine(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := NewCore("r1", 8)
	go c.Run(ctx)

	var called bool
	c.DispatchWait(func() {
		called = true
	})

	require.True(t, called)
}

func TestDispatchOrderingIsFIFO(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := NewCore("r1", 8)
	go c.Run(ctx)

	var mu sync.Mutex
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		c.Dispatch(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
	}
	c.DispatchWait(func() {})

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestRepeatTaskStopsItself(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := NewCore("s1", 8)
	go c.Run(ctx)

	var count int
	done := make(chan struct{})
	c.RepeatTask(func() {
		count++
		if count == 3 {
			close(done)
		}
	}, func() bool {
		return count >= 3
	}, 5*time.Millisecond)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("repeat task never reached its stop condition")
	}

	// give the (absent) reschedule a chance to fire if the stop check were broken
	time.Sleep(30 * time.Millisecond)
	c.DispatchWait(func() {})
	require.Equal(t, 3, count)
}

func TestDispatchAfterStopIsNoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := NewCore("r1", 8)
	go c.Run(ctx)
	cancel()
	time.Sleep(10 * time.Millisecond)

	require.NotPanics(t, func() {
		c.Dispatch(func() { t.Fatal("should never run") })
	})
}
