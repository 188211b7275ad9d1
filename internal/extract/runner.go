package extract

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/HironOficial/wfi/internal/asset"
	"github.com/HironOficial/wfi/internal/classify"
	"github.com/HironOficial/wfi/internal/figma"
)

// ErrTimeout is returned by a Runner when a chunk exceeds its processing
// deadline. The engine treats it like any other runner failure and falls
// back to synchronous classification.
var ErrTimeout = errors.New("chunk processing timed out")

// Task is one chunk classification request.
type Task struct {
	Root  *figma.Node
	Kinds asset.KindSet
}

// Runner executes classification tasks. Implementations must produce
// results identical to classify.Tree; the pool exists only to bound and
// parallelize the work, never to change it.
type Runner interface {
	Run(ctx context.Context, t Task) (classify.Result, error)
	Close()
}

// SyncRunner classifies in the calling goroutine. It is both the
// fallback substrate and a drop-in replacement for the pool.
type SyncRunner struct{}

func (SyncRunner) Run(_ context.Context, t Task) (classify.Result, error) {
	return classify.Tree(t.Root, t.Kinds), nil
}

func (SyncRunner) Close() {}

// Pool is a bounded worker pool. Tasks beyond the worker capacity wait in
// FIFO order. The pool is an explicitly owned object: construct it once,
// pass it into extraction calls, and Close it on shutdown.
type Pool struct {
	tasks     chan poolTask
	timeout   time.Duration
	wg        sync.WaitGroup
	closeOnce sync.Once
}

type poolTask struct {
	task Task
	out  chan poolOutcome
}

type poolOutcome struct {
	res classify.Result
	err error
}

// NewPool starts size workers. timeout bounds each task; zero disables
// the deadline.
func NewPool(size int, timeout time.Duration) *Pool {
	if size <= 0 {
		size = 1
	}
	p := &Pool{
		tasks:   make(chan poolTask),
		timeout: timeout,
	}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for pt := range p.tasks {
		pt.out <- runGuarded(pt.task)
	}
}

// runGuarded converts a worker panic into an ordinary error so a bad
// chunk degrades to the synchronous path instead of killing the pool.
func runGuarded(t Task) (out poolOutcome) {
	defer func() {
		if r := recover(); r != nil {
			out = poolOutcome{err: fmt.Errorf("worker panic: %v", r)}
		}
	}()
	return poolOutcome{res: classify.Tree(t.Root, t.Kinds)}
}

// Run submits a task and waits for its result, the pool timeout, or
// context cancellation, whichever comes first.
func (p *Pool) Run(ctx context.Context, t Task) (classify.Result, error) {
	out := make(chan poolOutcome, 1)

	select {
	case p.tasks <- poolTask{task: t, out: out}:
	case <-ctx.Done():
		return classify.Result{}, ctx.Err()
	}

	var deadline <-chan time.Time
	if p.timeout > 0 {
		timer := time.NewTimer(p.timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	select {
	case o := <-out:
		return o.res, o.err
	case <-deadline:
		return classify.Result{}, ErrTimeout
	case <-ctx.Done():
		return classify.Result{}, ctx.Err()
	}
}

// Close stops accepting tasks and waits for in-flight work to drain.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.tasks)
	})
	p.wg.Wait()
}
