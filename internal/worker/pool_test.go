package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolExecutesAllTasks(t *testing.T) {
	pool := NewPool(4)
	pool.Start()
	defer pool.Stop()

	var executed int64
	tasks := make([]Task, 20)
	for i := range tasks {
		tasks[i] = func(ctx context.Context) error {
			atomic.AddInt64(&executed, 1)
			return nil
		}
	}

	pool.ExecuteTasks(tasks)
	assert.Equal(t, int64(20), atomic.LoadInt64(&executed))

	metrics := pool.GetMetrics()
	assert.Equal(t, int64(20), metrics.TotalTasks)
	assert.Equal(t, int64(20), metrics.CompletedTasks)
	assert.Equal(t, int64(0), metrics.FailedTasks)
}

func TestPoolCountsFailures(t *testing.T) {
	pool := NewPool(2)
	pool.Start()
	defer pool.Stop()

	tasks := []Task{
		func(ctx context.Context) error { return nil },
		func(ctx context.Context) error { return fmt.Errorf("boom") },
		func(ctx context.Context) error { return fmt.Errorf("boom again") },
	}
	pool.ExecuteTasks(tasks)

	metrics := pool.GetMetrics()
	assert.Equal(t, int64(1), metrics.CompletedTasks)
	assert.Equal(t, int64(2), metrics.FailedTasks)
}

func TestPoolRunsConcurrently(t *testing.T) {
	pool := NewPool(4)
	pool.Start()
	defer pool.Stop()

	var peak, current int64
	tasks := make([]Task, 8)
	for i := range tasks {
		tasks[i] = func(ctx context.Context) error {
			n := atomic.AddInt64(&current, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			atomic.AddInt64(&current, -1)
			return nil
		}
	}
	pool.ExecuteTasks(tasks)

	assert.Greater(t, atomic.LoadInt64(&peak), int64(1), "tasks should overlap")
}

func TestPoolStopIsIdempotent(t *testing.T) {
	pool := NewPool(2)
	pool.Start()
	pool.Stop()
	pool.Stop()
}

func TestInitSharedPoolValidation(t *testing.T) {
	require.Error(t, InitSharedPool(0))
	require.Error(t, InitSharedPool(-3))
}

func TestGetSharedPoolReturnsSingleton(t *testing.T) {
	first := GetSharedPool()
	second := GetSharedPool()
	assert.Same(t, first, second)
}
