package cqueue

import "container/heap"

// store abstracts the backing storage of a queue. Implementations only
// differ in extraction order; all close/exhaustion semantics live in
// Queue itself.
type store[T any] interface {
	push(v T)
	pop() T
	len() int
}

// fifoStore extracts items in insertion order.
type fifoStore[T any] struct {
	items []T
}

func (s *fifoStore[T]) push(v T) { s.items = append(s.items, v) }

func (s *fifoStore[T]) pop() T {
	v := s.items[0]
	var zero T
	s.items[0] = zero // release the reference
	s.items = s.items[1:]
	return v
}

func (s *fifoStore[T]) len() int { return len(s.items) }

// lifoStore extracts the most recently inserted item first.
type lifoStore[T any] struct {
	items []T
}

func (s *lifoStore[T]) push(v T) { s.items = append(s.items, v) }

func (s *lifoStore[T]) pop() T {
	n := len(s.items) - 1
	v := s.items[n]
	var zero T
	s.items[n] = zero
	s.items = s.items[:n]
	return v
}

func (s *lifoStore[T]) len() int { return len(s.items) }

// priorityStore extracts the minimum item according to a caller-supplied
// ordering, breaking ties by insertion order.
type priorityStore[T any] struct {
	h priorityHeap[T]
}

type priorityEntry[T any] struct {
	val T
	seq uint64
}

type priorityHeap[T any] struct {
	entries []priorityEntry[T]
	less    func(a, b T) bool
	nextSeq uint64
}

func (h priorityHeap[T]) Len() int { return len(h.entries) }

func (h priorityHeap[T]) Less(i, j int) bool {
	a, b := h.entries[i], h.entries[j]
	if h.less(a.val, b.val) {
		return true
	}
	if h.less(b.val, a.val) {
		return false
	}
	return a.seq < b.seq // stable: earlier insertion wins ties
}

func (h priorityHeap[T]) Swap(i, j int) {
	h.entries[i], h.entries[j] = h.entries[j], h.entries[i]
}

func (h *priorityHeap[T]) Push(x any) {
	h.entries = append(h.entries, x.(priorityEntry[T]))
}

func (h *priorityHeap[T]) Pop() any {
	old := h.entries
	n := len(old)
	e := old[n-1]
	var zero priorityEntry[T]
	old[n-1] = zero
	h.entries = old[:n-1]
	return e
}

func (s *priorityStore[T]) push(v T) {
	heap.Push(&s.h, priorityEntry[T]{val: v, seq: s.h.nextSeq})
	s.h.nextSeq++
}

func (s *priorityStore[T]) pop() T {
	return heap.Pop(&s.h).(priorityEntry[T]).val
}

func (s *priorityStore[T]) len() int { return len(s.h.entries) }
