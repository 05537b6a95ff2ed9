package queue

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInProcessQueue_BoundsConcurrency(t *testing.T) {
	q := New(2)

	var inFlight int32
	var maxObserved int32
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		q.Spawn(context.Background(), func(ctx context.Context) {
			defer wg.Done()
			n := atomic.AddInt32(&inFlight, 1)
			for {
				cur := atomic.LoadInt32(&maxObserved)
				if n <= cur || atomic.CompareAndSwapInt32(&maxObserved, cur, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
		})
	}
	wg.Wait()

	require.LessOrEqual(t, int(maxObserved), 2)
}

func TestInProcessQueue_RunsEveryTask(t *testing.T) {
	q := New(4)
	var count int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		q.Spawn(context.Background(), func(ctx context.Context) {
			defer wg.Done()
			atomic.AddInt32(&count, 1)
		})
	}
	wg.Wait()
	require.EqualValues(t, 20, count)
}

func TestInProcessQueue_DefaultsBelowOne(t *testing.T) {
	q := New(0)
	require.Equal(t, 1, cap(q.sem))
}
