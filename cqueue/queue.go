package cqueue

import (
	"context"
	"errors"
	"iter"
	"sync"
)

// ErrClosed is returned by [Queue.Put] and [Queue.TryPut] when the queue
// has been closed. It is returned even if the queue has free capacity.
var ErrClosed = errors.New("cqueue: put on closed queue")

// ErrExhausted is returned by [Queue.Get] and [Queue.TryGet] when the
// queue is closed, drained, and every dequeued item has been
// acknowledged. It is terminal: once a queue is exhausted it stays so.
var ErrExhausted = errors.New("cqueue: queue is exhausted")

// ErrFull is returned by [Queue.TryPut] when the queue is at capacity.
var ErrFull = errors.New("cqueue: queue is full")

// ErrEmpty is returned by [Queue.TryGet] when no item is ready.
var ErrEmpty = errors.New("cqueue: queue is empty")

// Queue is a closeable, capacity-bounded queue.
//
// A queue starts open. [Queue.Close] makes it closed: no item may ever
// be enqueued again, but buffered items remain drainable. Once a closed
// queue has had every enqueued item dequeued and acknowledged via
// [Queue.Ack], it becomes exhausted, the terminal state. Getters
// suspended at that moment are woken with [ErrExhausted], never with a
// bare cancellation.
//
// Waiters on both sides are served in the order they began waiting, and
// each suspended waiter is resolved individually with the correct
// outcome (an item, ErrClosed, ErrExhausted, or a failure cause).
type Queue[T any] struct {
	mu       sync.Mutex
	store    store[T]
	capacity int

	putters []*putWaiter[T]
	getters []*getWaiter[T]

	inFlight  int // enqueued but not yet acknowledged
	closed    bool
	exhausted bool
	cause     error // non-nil after CloseWithError

	closedCh    chan struct{}
	exhaustedCh chan struct{}
}

type putWaiter[T any] struct {
	item T
	done chan error
}

type getWaiter[T any] struct {
	done chan getOutcome[T]
}

type getOutcome[T any] struct {
	val T
	err error
}

// New creates a FIFO queue. A capacity of zero means unbounded.
// Panics if capacity is negative.
func New[T any](capacity int) *Queue[T] {
	return newQueue[T](capacity, &fifoStore[T]{})
}

// NewLIFO creates a stack-ordered queue: Get returns the most recently
// enqueued item. Close/exhaustion semantics are identical to [New].
func NewLIFO[T any](capacity int) *Queue[T] {
	return newQueue[T](capacity, &lifoStore[T]{})
}

// NewPriority creates a priority-ordered queue: Get returns the minimum
// item according to less, ties broken by insertion order.
// Panics if less is nil.
func NewPriority[T any](capacity int, less func(a, b T) bool) *Queue[T] {
	if less == nil {
		panic("cqueue: NewPriority requires non-nil less")
	}
	return newQueue[T](capacity, &priorityStore[T]{h: priorityHeap[T]{less: less}})
}

func newQueue[T any](capacity int, st store[T]) *Queue[T] {
	if capacity < 0 {
		panic("cqueue: capacity must be non-negative")
	}
	return &Queue[T]{
		store:       st,
		capacity:    capacity,
		closedCh:    make(chan struct{}),
		exhaustedCh: make(chan struct{}),
	}
}

// Put enqueues v, blocking while the queue is at capacity. It returns
// [ErrClosed] if the queue is closed at call time, or becomes closed
// while Put is suspended. It returns ctx.Err() if ctx is cancelled
// while waiting for capacity.
func (q *Queue[T]) Put(ctx context.Context, v T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	if q.hasCapacityLocked() {
		q.enqueueLocked(v)
		q.mu.Unlock()
		return nil
	}

	w := &putWaiter[T]{item: v, done: make(chan error, 1)}
	q.putters = append(q.putters, w)
	q.mu.Unlock()

	select {
	case err := <-w.done:
		return err
	case <-ctx.Done():
		q.mu.Lock()
		if !q.removePutterLocked(w) {
			// Resolved concurrently with cancellation; honor the outcome.
			q.mu.Unlock()
			return <-w.done
		}
		q.mu.Unlock()
		return ctx.Err()
	}
}

// TryPut enqueues v without blocking. It returns [ErrClosed] if the
// queue is closed, or [ErrFull] if it is at capacity.
func (q *Queue[T]) TryPut(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}
	if !q.hasCapacityLocked() {
		return ErrFull
	}
	q.enqueueLocked(v)
	return nil
}

// Get dequeues the next item, blocking while the queue is empty. It
// returns [ErrExhausted] if the queue is exhausted at call time; if the
// queue becomes exhausted while Get is suspended, the suspension is
// resolved as ErrExhausted, never as a bare cancellation. On a queue
// closed via [Queue.CloseWithError], Get returns the recorded cause
// once the buffer is drained. It returns ctx.Err() if ctx is cancelled
// while waiting for an item.
func (q *Queue[T]) Get(ctx context.Context) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	q.mu.Lock()
	if q.store.len() > 0 {
		v := q.dequeueLocked()
		q.mu.Unlock()
		return v, nil
	}
	if err := q.drainedErrLocked(); err != nil {
		q.mu.Unlock()
		return zero, err
	}

	w := &getWaiter[T]{done: make(chan getOutcome[T], 1)}
	q.getters = append(q.getters, w)
	q.mu.Unlock()

	select {
	case out := <-w.done:
		return out.val, out.err
	case <-ctx.Done():
		q.mu.Lock()
		if !q.removeGetterLocked(w) {
			// An item (or terminal outcome) was already handed to this
			// waiter; it must not be lost to the cancellation.
			q.mu.Unlock()
			out := <-w.done
			return out.val, out.err
		}
		q.mu.Unlock()
		return zero, ctx.Err()
	}
}

// TryGet dequeues without blocking. It returns [ErrExhausted] (or the
// failure cause) on a terminal queue and [ErrEmpty] when no item is
// ready.
func (q *Queue[T]) TryGet() (T, error) {
	var zero T

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.store.len() > 0 {
		return q.dequeueLocked(), nil
	}
	if err := q.drainedErrLocked(); err != nil {
		return zero, err
	}
	return zero, ErrEmpty
}

// Ack acknowledges one previously dequeued item, decrementing the
// in-flight counter. If the queue is closed and the counter reaches
// zero, the queue transitions to exhausted and every suspended getter
// is woken with [ErrExhausted].
//
// Ack panics if called more times than items were dequeued.
func (q *Queue[T]) Ack() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.inFlight <= 0 {
		panic("cqueue: Ack called more times than items were put")
	}
	q.inFlight--
	if q.closed && q.inFlight == 0 {
		q.setExhaustedLocked()
	}
}

// Close closes the queue. Every suspended putter is resolved with
// [ErrClosed]. If the in-flight counter is already zero the queue
// transitions to exhausted immediately. Close is idempotent.
func (q *Queue[T]) Close() {
	q.close(nil)
}

// CloseWithError closes the queue in a failed state. Suspended getters
// and, once the buffer is drained, future getters observe cause instead
// of [ErrExhausted]. Putters still observe [ErrClosed]. A nil cause is
// equivalent to [Queue.Close]. No-op if the queue is already closed.
func (q *Queue[T]) CloseWithError(cause error) {
	q.close(cause)
}

func (q *Queue[T]) close(cause error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.cause = cause
	close(q.closedCh)

	// Each suspended putter is individually resolved, not dropped.
	for _, p := range q.putters {
		p.done <- ErrClosed
	}
	q.putters = nil

	if cause != nil {
		// Getters were only waiting because the buffer is empty; they
		// observe the failure immediately.
		for _, g := range q.getters {
			g.done <- getOutcome[T]{err: cause}
		}
		q.getters = nil
	}

	if q.inFlight == 0 {
		q.setExhaustedLocked()
	}
}

// IsClosed reports whether the queue has been closed.
func (q *Queue[T]) IsClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// IsExhausted reports whether the queue has reached its terminal state.
func (q *Queue[T]) IsExhausted() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.exhausted
}

// Err returns the failure cause recorded by [Queue.CloseWithError], or
// nil.
func (q *Queue[T]) Err() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.cause
}

// Len returns the number of buffered items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.store.len()
}

// Cap returns the configured capacity; zero means unbounded.
func (q *Queue[T]) Cap() int {
	return q.capacity
}

// InFlight returns the number of enqueued items not yet acknowledged.
func (q *Queue[T]) InFlight() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.inFlight
}

// WaitClosed blocks until the queue is closed or ctx is cancelled.
// It consumes nothing.
func (q *Queue[T]) WaitClosed(ctx context.Context) error {
	select {
	case <-q.closedCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitExhausted blocks until the queue is exhausted or ctx is cancelled.
// It consumes nothing.
func (q *Queue[T]) WaitExhausted(ctx context.Context) error {
	select {
	case <-q.exhaustedCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Items returns an iterator draining the queue: each step is one Get
// followed immediately by one Ack. The sequence ends silently on
// exhaustion — iteration-style consumers never see ErrExhausted. It
// also ends if ctx is cancelled or the queue failed; inspect
// [Queue.Err] to distinguish.
func (q *Queue[T]) Items(ctx context.Context) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, err := q.Get(ctx)
			if err != nil {
				return
			}
			q.Ack()
			if !yield(v) {
				return
			}
		}
	}
}

func (q *Queue[T]) hasCapacityLocked() bool {
	return q.capacity == 0 || q.store.len() < q.capacity
}

// enqueueLocked stores v and hands it straight on to the first
// suspended getter, if any.
func (q *Queue[T]) enqueueLocked(v T) {
	q.store.push(v)
	q.inFlight++
	if len(q.getters) > 0 {
		g := q.getters[0]
		q.getters = q.getters[1:]
		g.done <- getOutcome[T]{val: q.store.pop()}
	}
}

// dequeueLocked pops an item and admits the first suspended putter into
// the freed slot.
func (q *Queue[T]) dequeueLocked() T {
	v := q.store.pop()
	if len(q.putters) > 0 && q.hasCapacityLocked() {
		p := q.putters[0]
		q.putters = q.putters[1:]
		q.store.push(p.item)
		q.inFlight++
		p.done <- nil
	}
	return v
}

// drainedErrLocked returns the terminal outcome for a getter facing an
// empty buffer, or nil if the getter should suspend.
func (q *Queue[T]) drainedErrLocked() error {
	if q.closed && q.cause != nil {
		return q.cause
	}
	if q.exhausted {
		return ErrExhausted
	}
	return nil
}

func (q *Queue[T]) setExhaustedLocked() {
	if q.exhausted {
		return
	}
	q.exhausted = true
	close(q.exhaustedCh)

	err := ErrExhausted
	if q.cause != nil {
		err = q.cause
	}
	for _, g := range q.getters {
		g.done <- getOutcome[T]{err: err}
	}
	q.getters = nil
}

func (q *Queue[T]) removePutterLocked(w *putWaiter[T]) bool {
	for i, p := range q.putters {
		if p == w {
			q.putters = append(q.putters[:i], q.putters[i+1:]...)
			return true
		}
	}
	return false
}

func (q *Queue[T]) removeGetterLocked(w *getWaiter[T]) bool {
	for i, g := range q.getters {
		if g == w {
			q.getters = append(q.getters[:i], q.getters[i+1:]...)
			return true
		}
	}
	return false
}
