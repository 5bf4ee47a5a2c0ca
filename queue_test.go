package threadpool

import (
	"errors"
	"testing"
	"time"
)

func TestQueue_FIFO(t *testing.T) {
	q := newQueue()

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		if err := q.push(newJobMessage(func() { order = append(order, i) })); err != nil {
			t.Fatalf("push failed: %s", err)
		}
	}

	if q.len() != 5 {
		t.Errorf("len() = %d, want 5", q.len())
	}

	for i := 0; i < 5; i++ {
		msg, err := q.pop()
		if err != nil {
			t.Fatalf("pop failed: %s", err)
		}
		if msg.kind != jobMessage {
			t.Fatalf("pop returned a terminate message, want a job")
		}
		msg.job()
	}

	for i, v := range order {
		if v != i {
			t.Errorf("message %d delivered at position %d", v, i)
		}
	}
}

func TestQueue_PopBlocksUntilPush(t *testing.T) {
	q := newQueue()

	got := make(chan message, 1)
	go func() {
		msg, _ := q.pop()
		got <- msg
	}()

	select {
	case <-got:
		t.Fatal("pop returned on an empty queue")
	case <-time.After(50 * time.Millisecond):
	}

	_ = q.push(terminateMsg)

	select {
	case msg := <-got:
		if msg.kind != terminateMessage {
			t.Errorf("pop returned the wrong message")
		}
	case <-time.After(time.Second):
		t.Fatal("pop stayed blocked after push")
	}
}

func TestQueue_Seal(t *testing.T) {
	q := newQueue()

	_ = q.push(newJobMessage(func() {}))
	_ = q.push(newJobMessage(func() {}))

	q.seal(3)

	// Subsequent seal has no effect.
	q.seal(3)

	if err := q.push(newJobMessage(func() {})); !errors.Is(err, errQueueSealed) {
		t.Errorf("push on a sealed queue returned %v, want errQueueSealed", err)
	}

	want := []messageKind{jobMessage, jobMessage, terminateMessage, terminateMessage, terminateMessage}
	if q.len() != len(want) {
		t.Fatalf("len() = %d, want %d", q.len(), len(want))
	}

	for i, kind := range want {
		msg, err := q.pop()
		if err != nil {
			t.Fatalf("pop %d failed: %s", i, err)
		}
		if msg.kind != kind {
			t.Errorf("message %d has kind %d, want %d", i, msg.kind, kind)
		}
	}

	if _, err := q.pop(); !errors.Is(err, ErrChannelBroken) {
		t.Errorf("pop on a sealed and drained queue returned %v, want ErrChannelBroken", err)
	}
}

func TestQueue_SealWakesBlockedPoppers(t *testing.T) {
	q := newQueue()

	const poppers = 4
	done := make(chan messageKind, poppers)
	for i := 0; i < poppers; i++ {
		go func() {
			msg, _ := q.pop()
			done <- msg.kind
		}()
	}

	q.seal(poppers)

	for i := 0; i < poppers; i++ {
		select {
		case kind := <-done:
			if kind != terminateMessage {
				t.Errorf("popper woke up with kind %d, want terminate", kind)
			}
		case <-time.After(time.Second):
			t.Fatal("popper still blocked after seal")
		}
	}
}
