// Package worker runs claim evaluations concurrently.
package worker

import (
	"context"
	"sync"
)

// Job is a unit of work
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of a Job
type Result interface {
	GetError() error
}

type queuedJob struct {
	index int
	job   Job
}

// Pool runs jobs on a fixed number of goroutines and keeps results in
// submission order
type Pool struct {
	workers int
	queue   chan queuedJob

	mu      sync.Mutex
	results []Result

	// sendMu keeps the queue open while a Submit is sending
	sendMu sync.RWMutex
	closed bool

	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewPool creates a pool bound to ctx. Fewer than one worker means one.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers: workers,
		queue:   make(chan queuedJob, workers*2),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
}

func (p *Pool) run() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case qj, ok := <-p.queue:
			if !ok {
				return
			}
			result := qj.job.Execute(p.ctx)

			p.mu.Lock()
			p.results[qj.index] = result
			p.mu.Unlock()
		}
	}
}

// Submit queues a job. It returns false once Wait has been called. A job
// refused because the pool is cancelled still gets a nil result slot.
func (p *Pool) Submit(job Job) bool {
	p.sendMu.RLock()
	defer p.sendMu.RUnlock()
	if p.closed {
		return false
	}

	p.mu.Lock()
	index := len(p.results)
	p.results = append(p.results, nil)
	p.mu.Unlock()

	if p.ctx.Err() != nil {
		return false
	}
	select {
	case <-p.ctx.Done():
		return false
	case p.queue <- queuedJob{index: index, job: job}:
		return true
	}
}

// Wait closes the queue, waits for the workers and returns one entry per
// submitted job. Jobs that never ran are nil.
func (p *Pool) Wait() []Result {
	p.closeQueue()
	p.wg.Wait()
	p.cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Result, len(p.results))
	copy(out, p.results)
	return out
}

// Shutdown cancels queued work and waits for running jobs
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
}

func (p *Pool) closeQueue() {
	p.closeOnce.Do(func() {
		p.sendMu.Lock()
		p.closed = true
		close(p.queue)
		p.sendMu.Unlock()
	})
}
