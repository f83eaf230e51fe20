package mailbox

import (
	"context"
	"sync"
)

const DefaultCapacity = 256

// Mailbox is a bounded in-process message queue addressable by the sink.
// Sends are fire-and-forget: a full queue or a closed mailbox drops the
// message. This is the weak-delivery guarantee the relay is built around,
// so senders never block on a slow consumer.
type Mailbox struct {
	ch   chan any
	done chan struct{}
	once sync.Once
}

func New(capacity int) *Mailbox {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Mailbox{
		ch:   make(chan any, capacity),
		done: make(chan struct{}),
	}
}

// Send enqueues msg without blocking. It reports whether the message was
// accepted; false means the mailbox is closed or its queue is saturated.
func (m *Mailbox) Send(msg any) bool {
	if !m.Alive() {
		return false
	}
	select {
	case m.ch <- msg:
		return true
	default:
		return false
	}
}

// Receive blocks until a message arrives, the mailbox closes, or ctx is
// done. Messages enqueued before Close are still drained.
func (m *Mailbox) Receive(ctx context.Context) (any, bool) {
	select {
	case msg := <-m.ch:
		return msg, true
	case <-m.done:
		select {
		case msg := <-m.ch:
			return msg, true
		default:
			return nil, false
		}
	case <-ctx.Done():
		return nil, false
	}
}

// TryReceive dequeues a pending message without blocking.
func (m *Mailbox) TryReceive() (any, bool) {
	select {
	case msg := <-m.ch:
		return msg, true
	default:
		return nil, false
	}
}

// Len returns the number of queued messages.
func (m *Mailbox) Len() int {
	return len(m.ch)
}

// Close marks the mailbox dead. Idempotent. The queue channel itself is
// never closed so concurrent senders cannot panic; they observe done and
// drop instead.
func (m *Mailbox) Close() {
	m.once.Do(func() {
		close(m.done)
	})
}

func (m *Mailbox) Alive() bool {
	select {
	case <-m.done:
		return false
	default:
		return true
	}
}
