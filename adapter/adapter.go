// Package adapter bridges synchronous code into the context-aware
// pull shapes used by streamq.
//
// [Func] and [Pull] lift a plain callable or a pull iterator into
// forms that respect context cancellation between invocations.
// [Bounded] and [BoundedPull] additionally run every invocation under
// a weighted-semaphore slot, capping how many calls may block
// concurrently — the guard against unbounded growth when the wrapped
// code performs blocking I/O.
//
// The contract is identity: the lifted form yields the identical items
// in the identical order, or identical input/output behavior for
// callables. Only scheduling differs.
package adapter

import (
	"context"
	"io"

	"golang.org/x/sync/semaphore"
)

// Func lifts a plain callable into a context-aware one. The returned
// function checks ctx before invoking fn and is otherwise
// behavior-identical to it. Panics if fn is nil.
func Func[A, B any](fn func(A) (B, error)) func(context.Context, A) (B, error) {
	if fn == nil {
		panic("adapter: Func requires non-nil fn")
	}
	return func(ctx context.Context, v A) (B, error) {
		if err := ctx.Err(); err != nil {
			var zero B
			return zero, err
		}
		return fn(v)
	}
}

// Bounded lifts fn like [Func], but every invocation holds one slot of
// sem for its duration, so at most sem's weight invocations may block
// concurrently. Acquiring the slot respects ctx.
// Panics if fn or sem is nil.
func Bounded[A, B any](fn func(A) (B, error), sem *semaphore.Weighted) func(context.Context, A) (B, error) {
	if fn == nil {
		panic("adapter: Bounded requires non-nil fn")
	}
	if sem == nil {
		panic("adapter: Bounded requires non-nil semaphore")
	}
	return func(ctx context.Context, v A) (B, error) {
		if err := sem.Acquire(ctx, 1); err != nil {
			var zero B
			return zero, err
		}
		defer sem.Release(1)
		return fn(v)
	}
}

// Pull lifts a synchronous pull iterator into a stream source. The
// source yields the identical items in the identical order, returns
// io.EOF when next reports false, and checks ctx per resumption.
// Panics if next is nil.
func Pull[T any](next func() (T, bool)) func(context.Context) (T, error) {
	if next == nil {
		panic("adapter: Pull requires non-nil next")
	}
	return func(ctx context.Context) (T, error) {
		if err := ctx.Err(); err != nil {
			var zero T
			return zero, err
		}
		v, ok := next()
		if !ok {
			var zero T
			return zero, io.EOF
		}
		return v, nil
	}
}

// BoundedPull lifts next like [Pull], performing each pull under one
// slot of sem. Use it when the iterator itself blocks (files, sockets,
// cgo) and the number of concurrently blocking pulls across stages
// must be capped. Panics if next or sem is nil.
func BoundedPull[T any](next func() (T, bool), sem *semaphore.Weighted) func(context.Context) (T, error) {
	if next == nil {
		panic("adapter: BoundedPull requires non-nil next")
	}
	if sem == nil {
		panic("adapter: BoundedPull requires non-nil semaphore")
	}
	pull := Pull(next)
	return func(ctx context.Context) (T, error) {
		if err := sem.Acquire(ctx, 1); err != nil {
			var zero T
			return zero, err
		}
		defer sem.Release(1)
		return pull(ctx)
	}
}
