package notify

import (
	"context"
	"sync"
)

// MemoryQueue is a bounded in-process queue. Messages are lost on restart.
type MemoryQueue struct {
	ch     chan Message
	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewMemoryQueue creates a queue holding up to buffer messages
func NewMemoryQueue(buffer int) *MemoryQueue {
	if buffer < 1 {
		buffer = 1
	}
	return &MemoryQueue{
		ch:   make(chan Message, buffer),
		done: make(chan struct{}),
	}
}

// Enqueue never blocks; a full buffer yields ErrQueueFull
func (q *MemoryQueue) Enqueue(ctx context.Context, msg Message) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

// Dequeue waits for the next message
func (q *MemoryQueue) Dequeue(ctx context.Context) (Message, error) {
	select {
	case msg := <-q.ch:
		return msg, nil
	case <-ctx.Done():
		return Message{}, ctx.Err()
	case <-q.done:
		// drain what is left before reporting closure
		select {
		case msg := <-q.ch:
			return msg, nil
		default:
			return Message{}, ErrQueueClosed
		}
	}
}

// Len reports the number of buffered messages
func (q *MemoryQueue) Len() int {
	return len(q.ch)
}

// Close stops accepting messages. Buffered messages can still be dequeued.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.done)
	}
	return nil
}
