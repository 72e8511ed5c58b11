package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

type countingTicker struct {
	ticks int32
}

func (c *countingTicker) Tick() {
	atomic.AddInt32(&c.ticks, 1)
}

func (c *countingTicker) count() int32 {
	return atomic.LoadInt32(&c.ticks)
}

func TestLoopTicksUntilCancelled(t *testing.T) {
	t.Parallel()

	cl := testingclock.NewFakeClock(time.Now())
	target := &countingTicker{}
	l := NewLoop(target, cl, 25*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	wg := &sync.WaitGroup{}
	wg.Add(1)
	done := make(chan error, 1)
	go func() {
		done <- l.Run(ctx, wg)
	}()

	require.Eventually(t, cl.HasWaiters, time.Second, time.Millisecond)
	for i := int32(1); i <= 3; i++ {
		cl.Step(25 * time.Millisecond)
		want := i
		require.Eventually(t, func() bool { return target.count() == want }, time.Second, time.Millisecond)
	}

	cancel()
	wg.Wait()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, int32(3), target.count())
}
