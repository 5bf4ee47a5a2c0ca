package threadpool

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/sherifabdlnaby/semaphore"
)

var (
	// ErrPoolInvalidSize Returned by New if the Size of pool < 1.
	ErrPoolInvalidSize = errors.New("pool size is invalid, pool size must be >= 1")

	// ErrPoolClosed Returned by Execute once Close has been called.
	ErrPoolClosed = errors.New("pool is closed")

	// ErrNilJob Returned by Execute if the job is nil.
	ErrNilJob = errors.New("job is nil")

	// ErrChannelBroken is raised (as a panic) by a worker that finds the queue sealed and empty before getting its own
	// terminate message. It can only happen if the pool internals are broken.
	ErrChannelBroken = errors.New("job queue is broken, no terminate message left for worker")
)

// Job is a unit of work, it is run exactly once by exactly one worker.
type Job func()

// Pool owns a fixed set of workers and the queue they consume from.
type Pool struct {
	queue   *queue
	workers []*worker
	busy    *semaphore.Weighted
	logger  *slog.Logger
	metrics *Metrics

	mu     sync.Mutex
	closed bool
}

// New returns a running pool of `size` workers, numbered 1 to size.
// Returns ErrPoolInvalidSize if size is < 1, no worker is started in that case.
func New(size int, opts ...Option) (*Pool, error) {
	if size < 1 {
		return nil, ErrPoolInvalidSize
	}

	p := &Pool{
		queue:   newQueue(),
		workers: make([]*worker, 0, size),
		busy:    semaphore.NewWeighted(int64(size)),
		logger:  slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(p)
	}

	// Spin Up Workers
	for id := 1; id <= size; id++ {
		p.workers = append(p.workers, startWorker(id, p))
	}

	return p, nil
}

// Execute enqueues job and returns immediately, the job runs later on the first free worker.
//
// The queue is unbounded so Execute never blocks.
// @Returns nil once the job is queued, it is guaranteed to run before Close returns.
// @Returns ErrPoolClosed if Close has already been called, the job will never run.
// @Returns ErrNilJob if job is nil.
func (p *Pool) Execute(job Job) error {
	if job == nil {
		return ErrNilJob
	}

	if err := p.queue.push(newJobMessage(job)); err != nil {
		return ErrPoolClosed
	}

	p.metrics.jobSubmitted()

	return nil
}

// Close shuts the pool down.
//
//		1- Every job already queued still runs.
//		2- Exactly one terminate message per worker is queued behind them.
//		3- Close() WILL Block until every worker has consumed its terminate message and exited.
//
// Subsequent calls to Close() have no effect. Close must not be called from inside a job, the worker running it would
// wait for itself.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true

	p.logger.Info("sending terminate message to all workers", slog.Int("workers", len(p.workers)))
	p.queue.seal(len(p.workers))

	p.logger.Info("shutting down all workers")
	for _, w := range p.workers {
		p.logger.Info("shutting down worker", slog.Int("worker", w.id))
		w.join()
	}
}

// Size returns the number of workers of the pool.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Running returns the number of workers currently running a job.
func (p *Pool) Running() int {
	return int(p.busy.Current())
}

// Pending returns the number of messages waiting in the queue, jobs not picked by a worker yet plus terminate
// messages not consumed yet while closing.
func (p *Pool) Pending() int {
	return p.queue.len()
}
