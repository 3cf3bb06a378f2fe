// Package cqueue provides a closeable, capacity-bounded queue with an
// explicit closed/exhausted lifecycle.
//
// Go channels conflate "no more data" with "channel closed", cannot be
// drained under acknowledgment, and panic on send-after-close. cqueue
// separates the three phases explicitly:
//
//   - Open: items flow through [Queue.Put] and [Queue.Get], with
//     backpressure once the capacity is reached.
//   - Closed: [Queue.Close] rejects all further puts with [ErrClosed]
//     (suspended putters are woken and individually resolved with it),
//     while buffered items remain drainable.
//   - Exhausted: once every enqueued item has been dequeued and
//     acknowledged via [Queue.Ack], gets fail with [ErrExhausted].
//     This state is terminal.
//
// The acknowledgment counter lets a consumer signal that an item has
// been fully processed, not merely dequeued, so exhaustion means "all
// work done", not just "buffer empty". [Queue.WaitClosed] and
// [Queue.WaitExhausted] observe the transitions without consuming.
//
// Three ordering variants share identical lifecycle semantics and
// differ only in extraction order: [New] (FIFO), [NewPriority]
// (minimum by a caller-supplied ordering, ties broken by insertion
// order), and [NewLIFO] (most recent first).
//
// Suspended putters and getters are served in the order they began
// waiting, including across multiple contending producers.
package cqueue
