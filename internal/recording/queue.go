package recording

import (
	"sync"
	"time"
)

const dropWarnInterval = time.Second

// Queue is a bounded FIFO between the capture callback and the consumer.
// Push never blocks: when the queue is full the oldest block is discarded.
type Queue struct {
	mu     sync.Mutex // serializes producers and guards closed
	ch     chan Block
	closed bool
	warn   WarnFunc

	dropped     uint64
	sinceWarn   uint64
	lastDropLog time.Time
}

// NewQueue creates a queue holding up to depth blocks. warn may be nil.
func NewQueue(depth int, warn WarnFunc) *Queue {
	if depth <= 0 {
		depth = 1
	}
	return &Queue{ch: make(chan Block, depth), warn: warn}
}

// C returns the receive side of the queue. It is closed by Close.
func (q *Queue) C() <-chan Block {
	return q.ch
}

// Push enqueues b, evicting the oldest block when full. Pushing into a
// closed queue is a no-op.
func (q *Queue) Push(b Block) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	select {
	case q.ch <- b:
		return
	default:
	}

	// the consumer may drain concurrently, so eviction is best-effort
	select {
	case <-q.ch:
		q.recordDrop()
	default:
	}

	select {
	case q.ch <- b:
	default:
		q.recordDrop()
	}
}

func (q *Queue) recordDrop() {
	q.dropped++
	q.sinceWarn++
	if time.Since(q.lastDropLog) > dropWarnInterval {
		q.warn.warnf("queue full, dropped %d oldest blocks (consumer too slow)", q.sinceWarn)
		q.lastDropLog = time.Now()
		q.sinceWarn = 0
	}
}

// Dropped reports how many blocks have been discarded so far
func (q *Queue) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.ch)
}
