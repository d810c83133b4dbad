package engine

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPoolDoRunsTask(t *testing.T) {
	p := NewPool(2, zap.NewNop())
	defer p.Close()

	ran := false
	err := p.Do(func() { ran = true })

	require.NoError(t, err)
	require.True(t, ran)
}

func TestPoolRecoversPanic(t *testing.T) {
	p := NewPool(1, zap.NewNop())
	defer p.Close()

	err := p.Do(func() { panic("strategy blew up") })
	require.Error(t, err)
	require.Contains(t, err.Error(), "strategy blew up")

	// The worker survived the panic and keeps executing tasks.
	require.NoError(t, p.Do(func() {}))
}

func TestPoolBoundsConcurrency(t *testing.T) {
	const workers = 3
	p := NewPool(workers, zap.NewNop())
	defer p.Close()

	var running, peak int64
	var wg sync.WaitGroup

	for i := 0; i < 24; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.Do(func() {
				n := atomic.AddInt64(&running, 1)
				for {
					old := atomic.LoadInt64(&peak)
					if n <= old || atomic.CompareAndSwapInt64(&peak, old, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt64(&running, -1)
			})
		}()
	}
	wg.Wait()

	require.LessOrEqual(t, atomic.LoadInt64(&peak), int64(workers))
	require.Greater(t, atomic.LoadInt64(&peak), int64(0))
}

// A saturated pool blocks the submitter, and a slow task on one worker
// does not stop other workers from serving cheap tasks.
func TestPoolSlowTaskDoesNotStarveOthers(t *testing.T) {
	p := NewPool(2, zap.NewNop())
	defer p.Close()

	release := make(chan struct{})
	slowDone := make(chan struct{})
	go func() {
		_ = p.Do(func() { <-release })
		close(slowDone)
	}()

	// Cheap tasks keep flowing through the second worker.
	for i := 0; i < 5; i++ {
		done := make(chan struct{})
		go func() {
			_ = p.Do(func() {})
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("cheap task starved by slow task")
		}
	}

	close(release)
	<-slowDone
}
