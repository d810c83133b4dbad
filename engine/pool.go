// Package engine wires the trading pipeline together: the bounded
// compute pool shared by all traders, the dispatch table used by the
// market data feed, and the TradingEngine orchestrator.
package engine

import (
	"fmt"

	"go.uber.org/zap"
)

// Pool is a fixed-size pool of worker goroutines executing CPU-bound
// tasks. It caps concurrent strategy evaluation at the worker count
// regardless of how many traders submit; the Go scheduler balances
// runnable workers across cores. Submissions hand off through an
// unbuffered channel, so a saturated pool blocks the submitting trader
// — that is the intended backpressure, throttling one trader's
// ingestion without touching the others beyond shared capacity.
type Pool struct {
	tasks chan task
	log   *zap.Logger
}

type task struct {
	fn   func()
	done chan error
}

// NewPool starts workers goroutines ready to execute tasks.
func NewPool(workers int, log *zap.Logger) *Pool {
	if workers <= 0 {
		panic("pool workers must be > 0")
	}
	p := &Pool{
		tasks: make(chan task),
		log:   log,
	}
	for i := 0; i < workers; i++ {
		go p.worker(i)
	}
	log.Info("compute pool started", zap.Int("workers", workers))
	return p
}

// Do submits fn and blocks until a worker has executed it. A panic
// inside fn is recovered at the task boundary and returned as an
// error; the worker stays in rotation. Tasks must be pure compute: no
// blocking, no I/O, no locks.
func (p *Pool) Do(fn func()) error {
	t := task{fn: fn, done: make(chan error, 1)}
	p.tasks <- t
	return <-t.done
}

// Close stops the workers. No Do call may be in flight or follow;
// the orchestrator closes the pool only after every trader has exited.
func (p *Pool) Close() {
	close(p.tasks)
}

func (p *Pool) worker(id int) {
	for t := range p.tasks {
		t.done <- p.run(id, t.fn)
	}
}

func (p *Pool) run(worker int, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panic: %v", r)
			p.log.Error("compute task panicked",
				zap.Int("worker", worker),
				zap.Any("panic", r),
			)
		}
	}()
	fn()
	return nil
}
