// threadpool runs jobs on a fixed set of long-lived worker goroutines that share a single unbounded job queue.
//
// A Job is simply a func(){}. Execute(func(){}) puts the job on the queue and returns immediately, the first worker
// to become free takes it and runs it to completion. There is no result, no future and no cancellation of a job once
// it was accepted.
//
// A Pool is started by New(size) and lives until Close() is called. Closing the pool sends exactly one terminate
// message per worker through the same queue, so every job enqueued before Close() still runs, then Close() blocks until
// every worker goroutine has exited. Execute after Close returns ErrPoolClosed.
//
//	pool, err := threadpool.New(4)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	_ = pool.Execute(func() { fmt.Println("hello from a worker") })
//
// A job that never returns occupies its worker forever, and a job that panics takes the whole process down with it.
// Jobs own their synchronization, the pool does not share any state with them.
package threadpool

// Version threadpool current interface version.
var Version = "1.0.0"
