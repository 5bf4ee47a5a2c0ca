package threadpool

import (
	"container/list"
	"errors"
	"sync"
)

var errQueueSealed = errors.New("queue is sealed")

type messageKind uint8

const (
	jobMessage messageKind = iota
	terminateMessage
)

// message is what flows through the queue, either a job to run or an order for exactly one worker to exit.
type message struct {
	kind messageKind
	job  Job
}

var terminateMsg = message{kind: terminateMessage}

func newJobMessage(job Job) message {
	return message{kind: jobMessage, job: job}
}

// queue is an unbounded FIFO of messages shared by every worker of a pool.
//
// push never blocks. pop blocks until a message is available, one popper at a time.
type queue struct {
	mu       sync.Mutex
	nonEmpty *sync.Cond
	items    *list.List
	sealed   bool
}

func newQueue() *queue {
	q := &queue{items: list.New()}
	q.nonEmpty = sync.NewCond(&q.mu)
	return q
}

func (q *queue) push(m message) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.sealed {
		return errQueueSealed
	}

	q.items.PushBack(m)
	q.nonEmpty.Signal()
	return nil
}

// seal appends `terminates` terminate messages and refuses any push after that.
// Everything pushed before seal is delivered before the terminate messages.
func (q *queue) seal(terminates int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.sealed {
		return
	}

	for i := 0; i < terminates; i++ {
		q.items.PushBack(terminateMsg)
	}
	q.sealed = true

	// Wake every blocked popper, each has a terminate waiting for it.
	q.nonEmpty.Broadcast()
}

// pop returns ErrChannelBroken if the queue is sealed and drained, that means a worker outlived its terminate message.
func (q *queue) pop() (message, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.items.Len() == 0 {
		if q.sealed {
			return message{}, ErrChannelBroken
		}
		q.nonEmpty.Wait()
	}

	front := q.items.Front()
	q.items.Remove(front)
	return front.Value.(message), nil
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}
