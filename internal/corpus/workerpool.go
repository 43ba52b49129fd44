package corpus

import (
	"context"
	"runtime"
	"sync"
)

// WorkerPool runs jobs on a fixed number of goroutines and collects their
// results.
type WorkerPool[Job any, Result any] struct {
	numWorkers int
	jobs       chan Job
	results    chan Result
	wg         sync.WaitGroup
}

// NewWorkerPool creates a pool. If numWorkers is 0 or negative it defaults
// to the number of CPUs, and it never exceeds numJobs.
func NewWorkerPool[Job any, Result any](numWorkers, numJobs int) *WorkerPool[Job, Result] {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numJobs > 0 {
		numWorkers = min(numWorkers, numJobs)
	}
	return &WorkerPool[Job, Result]{
		numWorkers: numWorkers,
		jobs:       make(chan Job, numJobs),
		results:    make(chan Result, numJobs),
	}
}

// Workers returns the number of goroutines the pool runs.
func (p *WorkerPool[Job, Result]) Workers() int {
	return p.numWorkers
}

// Start launches the workers. Jobs still queued when ctx is cancelled are
// passed to workerFn with the cancelled context, so every submitted job
// yields exactly one result.
func (p *WorkerPool[Job, Result]) Start(ctx context.Context, workerFn func(context.Context, Job) Result) {
	for range p.numWorkers {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.results <- workerFn(ctx, job)
			}
		}()
	}
}

// Submit adds a job to the queue.
func (p *WorkerPool[Job, Result]) Submit(job Job) {
	p.jobs <- job
}

// Close stops accepting jobs. The results channel is closed once every
// worker has finished.
func (p *WorkerPool[Job, Result]) Close() {
	close(p.jobs)
	go func() {
		p.wg.Wait()
		close(p.results)
	}()
}

// Results returns the results channel.
func (p *WorkerPool[Job, Result]) Results() <-chan Result {
	return p.results
}
