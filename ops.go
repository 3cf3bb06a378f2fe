package streamq

import (
	"context"
	"iter"
)

// Filter builds a new stage that forwards only the items satisfying
// pred, preserving their relative order.
func (s *Stream[T]) Filter(pred func(T) bool) *Stream[T] {
	return derive(s, "filter", func(ctx context.Context) (T, error) {
		for {
			v, err := s.Next(ctx)
			if err != nil {
				return v, err
			}
			if pred(v) {
				return v, nil
			}
		}
	})
}

// Skip builds a new stage that drops the first n items.
func (s *Stream[T]) Skip(n int) *Stream[T] {
	var skipped int
	return derive(s, "skip", func(ctx context.Context) (T, error) {
		for skipped < n {
			if _, err := s.Next(ctx); err != nil {
				var zero T
				return zero, err
			}
			skipped++
		}
		return s.Next(ctx)
	})
}

// Peek builds a new stage that forwards every item unchanged, invoking
// fn on each as it passes through.
func (s *Stream[T]) Peek(fn func(T)) *Stream[T] {
	return derive(s, "peek", func(ctx context.Context) (T, error) {
		v, err := s.Next(ctx)
		if err == nil {
			fn(v)
		}
		return v, err
	})
}

// Map builds a new stage that applies fn to every item, emitting
// exactly one output per input in input order.
//
// Map is a function rather than a method because Go does not support
// additional type parameters on methods.
func Map[A, B any](s *Stream[A], fn func(context.Context, A) (B, error)) *Stream[B] {
	return derive(s, "map", func(ctx context.Context) (B, error) {
		v, err := s.Next(ctx)
		if err != nil {
			var zero B
			return zero, err
		}
		return fn(ctx, v)
	})
}

// FlatMap builds a new stage that expands every item into zero or more
// outputs. All outputs of one input are emitted before the next input
// is processed — expansions never interleave.
func FlatMap[A, B any](s *Stream[A], expand func(context.Context, A) ([]B, error)) *Stream[B] {
	var pending []B
	return derive(s, "flatmap", func(ctx context.Context) (B, error) {
		for len(pending) == 0 {
			v, err := s.Next(ctx)
			if err != nil {
				var zero B
				return zero, err
			}
			out, err := expand(ctx, v)
			if err != nil {
				var zero B
				return zero, err
			}
			pending = out
		}
		next := pending[0]
		pending = pending[1:]
		return next, nil
	})
}

// FlatMapSeq is [FlatMap] for expansions produced as iterator
// sequences, allowing the expansion of one item to be generated
// lazily instead of materialized as a slice.
func FlatMapSeq[A, B any](s *Stream[A], expand func(context.Context, A) (iter.Seq[B], error)) *Stream[B] {
	var pull func() (B, bool)
	var stop func()
	return derive(s, "flatmap", func(ctx context.Context) (B, error) {
		for {
			if pull != nil {
				if v, ok := pull(); ok {
					return v, nil
				}
				stop()
				pull, stop = nil, nil
			}
			v, err := s.Next(ctx)
			if err != nil {
				var zero B
				return zero, err
			}
			seq, err := expand(ctx, v)
			if err != nil {
				var zero B
				return zero, err
			}
			pull, stop = iter.Pull(seq)
		}
	})
}

// Flatten is [FlatMap] specialized to the identity expansion, for
// streams whose items are themselves slices.
func Flatten[T any](s *Stream[[]T]) *Stream[T] {
	return FlatMap(s, func(_ context.Context, v []T) ([]T, error) {
		return v, nil
	})
}

// Collect gathers the entire stream into one ordered slice and applies
// aggregate to it. On an already exhausted stream, aggregate receives
// an empty slice.
func Collect[T, R any](ctx context.Context, s *Stream[T], aggregate func([]T) (R, error)) (R, error) {
	items, err := s.Gather(ctx)
	if err != nil {
		var zero R
		return zero, err
	}
	return aggregate(items)
}
