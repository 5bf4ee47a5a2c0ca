package threadpool

import (
	"context"
	"log/slog"
	"time"
)

// --------- WORKER --------- ///

type worker struct {
	id int

	// done is closed when the worker goroutine returns, it is the worker's handle and is taken by join.
	done chan struct{}
}

// startWorker spawns the worker goroutine right away, it consumes messages from p.queue until it gets a terminate.
func startWorker(id int, p *Pool) *worker {
	w := &worker{
		id:   id,
		done: make(chan struct{}),
	}

	p.metrics.workerStarted()

	go func() {
		defer close(w.done)
		defer p.metrics.workerStopped()

		for {
			msg, err := p.queue.pop()
			if err != nil {
				// Every worker gets its own terminate, popping past the end is a broken pool.
				panic(err)
			}

			switch msg.kind {
			case jobMessage:
				p.logger.Debug("worker got a job; executing", slog.Int("worker", w.id))
				w.run(p, msg.job)
			case terminateMessage:
				p.logger.Info("worker was told to terminate", slog.Int("worker", w.id))
				return
			}
		}
	}()

	return w
}

// run the job on the calling worker goroutine. A panicking job is not recovered, its busy slot stays taken.
func (w *worker) run(p *Pool, job Job) {
	// Never blocks, there are never more running jobs than workers.
	_ = p.busy.Acquire(context.Background(), 1)
	p.metrics.jobStarted()

	start := time.Now()
	job()

	p.metrics.jobExecuted(time.Since(start))
	p.busy.Release(1)
}

// join waits for the worker goroutine to exit. It returns false if the worker was already joined.
func (w *worker) join() bool {
	if w.done == nil {
		return false
	}

	done := w.done
	w.done = nil
	<-done

	return true
}
