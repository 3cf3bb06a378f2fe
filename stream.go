package streamq

import (
	"context"
	"errors"
	"io"
	"iter"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/baxromumarov/streamq/cqueue"
)

// ErrStarted is returned by [Stream.Start] when the stream has already
// been started.
var ErrStarted = errors.New("streamq: stream already started")

// Source is a pull-based asynchronous iterator: each call returns the
// next item, io.EOF when the sequence ends, or any other error to
// signal failure.
type Source[T any] func(ctx context.Context) (T, error)

// Stream is one pipeline stage. It exclusively owns one [cqueue.Queue]
// and one feeder goroutine that pulls items from the upstream source
// into that queue, closing it when the source is drained.
//
// A Stream is a lazy, non-restartable sequence: consume it via
// [Stream.Next], [Stream.Seq], or [Stream.Gather]. Transform operators
// ([Stream.Filter], [Map], [FlatMap], [Flatten], ...) each build a
// brand-new Stream wired to read from the current one, so a chain of k
// operators runs as k concurrent stages linked by bounded queues.
//
// Streams are single-consumer: exactly one downstream stage or caller
// may consume a given Stream.
type Stream[T any] struct {
	out    *cqueue.Queue[T]
	feedFn func()
	log    *zap.Logger
	name   string

	capacity  int
	started   atomic.Bool
	startedCh chan struct{}
}

// NewStream creates a stream fed from source. Unless [WithManualStart]
// is given, the feeder starts immediately. Panics if source is nil.
func NewStream[T any](source Source[T], opts ...Option) *Stream[T] {
	if source == nil {
		panic("streamq: NewStream requires non-nil source")
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	s := newStream(source, cfg)
	if cfg.autoStart {
		s.Start()
	}
	return s
}

func newStream[T any](source Source[T], cfg config) *Stream[T] {
	s := newStage[T](cfg)
	s.feedFn = func() { s.feed(source) }
	return s
}

// newStage builds a stream shell: queue and lifecycle state without a
// feeder. The caller must set feedFn before Start.
func newStage[T any](cfg config) *Stream[T] {
	return &Stream[T]{
		out:       cqueue.New[T](cfg.capacity),
		log:       cfg.logger,
		name:      cfg.name,
		capacity:  cfg.capacity,
		startedCh: make(chan struct{}),
	}
}

// derive builds the next stage of a chain: same capacity and logger as
// the parent, started iff the parent is started.
func derive[A, B any](parent *Stream[A], op string, source Source[B]) *Stream[B] {
	cfg := config{
		capacity: parent.capacity,
		logger:   parent.log,
		name:     parent.name + "." + op,
	}
	d := newStream(source, cfg)
	if parent.Started() {
		d.Start()
	}
	return d
}

// FromSlice creates a stream over the items of a slice.
func FromSlice[T any](items []T, opts ...Option) *Stream[T] {
	var idx int
	return NewStream(func(ctx context.Context) (T, error) {
		if err := ctx.Err(); err != nil {
			var zero T
			return zero, err
		}
		if idx >= len(items) {
			var zero T
			return zero, io.EOF
		}
		v := items[idx]
		idx++
		return v, nil
	}, opts...)
}

// FromChan creates a stream over a channel. The stream ends when the
// channel is closed.
func FromChan[T any](ch <-chan T, opts ...Option) *Stream[T] {
	return NewStream(func(ctx context.Context) (T, error) {
		select {
		case v, ok := <-ch:
			if !ok {
				var zero T
				return zero, io.EOF
			}
			return v, nil
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}, opts...)
}

// FromSeq creates a stream over an iterator sequence.
func FromSeq[T any](seq iter.Seq[T], opts ...Option) *Stream[T] {
	next, stop := iter.Pull(seq)
	return NewStream(func(ctx context.Context) (T, error) {
		if err := ctx.Err(); err != nil {
			stop()
			var zero T
			return zero, err
		}
		v, ok := next()
		if !ok {
			stop()
			var zero T
			return zero, io.EOF
		}
		return v, nil
	}, opts...)
}

// FromFunc creates a stream from a pull function. It is an alias for
// [NewStream].
func FromFunc[T any](fn Source[T], opts ...Option) *Stream[T] {
	return NewStream(fn, opts...)
}

// Start spawns the feeder goroutine. It may be called at most once per
// stream; subsequent calls return [ErrStarted].
func (s *Stream[T]) Start() error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrStarted
	}
	close(s.startedCh)
	go s.feedFn()
	return nil
}

// Started reports whether [Stream.Start] has been called.
func (s *Stream[T]) Started() bool {
	return s.started.Load()
}

// feed pulls items from the source into the owned queue. On io.EOF the
// queue is closed; on any other error the queue is closed in a failed
// state so downstream consumers observe the cause instead of stalling.
func (s *Stream[T]) feed(source Source[T]) {
	ctx := context.Background()
	for {
		v, err := source(ctx)
		if err != nil {
			if err == io.EOF {
				s.out.Close()
				s.log.Debug("stream stage drained",
					zap.String("stage", s.name))
				return
			}
			s.log.Warn("stream stage failed",
				zap.String("stage", s.name),
				zap.Error(err))
			s.out.CloseWithError(err)
			return
		}
		if err := s.out.Put(ctx, v); err != nil {
			// The queue was closed out from under the feeder.
			s.log.Warn("stream stage put rejected",
				zap.String("stage", s.name),
				zap.Error(err))
			s.out.CloseWithError(err)
			return
		}
	}
}

// Next returns the next item. It returns io.EOF when the stream is
// exhausted — end-of-stream is never surfaced as an error condition to
// iteration-style consumers. A feeder failure surfaces its cause here.
func (s *Stream[T]) Next(ctx context.Context) (T, error) {
	v, err := s.out.Get(ctx)
	if err != nil {
		var zero T
		if errors.Is(err, cqueue.ErrExhausted) {
			return zero, io.EOF
		}
		return zero, err
	}
	s.out.Ack()
	return v, nil
}

// Seq returns an iterator over the stream's items. The sequence ends
// silently on exhaustion; it also ends if ctx is cancelled or the
// stream failed.
func (s *Stream[T]) Seq(ctx context.Context) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, err := s.Next(ctx)
			if err != nil {
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}

// Gather consumes the entire stream and returns its items in arrival
// order. The stream must be finite. Calling Gather on an already
// exhausted stream returns an empty slice, not an error. On a failed
// stream, Gather returns the items received so far together with the
// failure cause.
func (s *Stream[T]) Gather(ctx context.Context) ([]T, error) {
	items := []T{}
	for {
		v, err := s.Next(ctx)
		if err == io.EOF {
			return items, nil
		}
		if err != nil {
			return items, err
		}
		items = append(items, v)
	}
}

// WaitStarted blocks until the stream is started or ctx is cancelled.
func (s *Stream[T]) WaitStarted(ctx context.Context) error {
	select {
	case <-s.startedCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitClosed blocks until the stage's queue is closed, meaning the
// upstream source is drained (or failed) but buffered items may remain.
func (s *Stream[T]) WaitClosed(ctx context.Context) error {
	return s.out.WaitClosed(ctx)
}

// WaitExhausted blocks until the stage's queue is exhausted: closed,
// drained, and every item acknowledged.
func (s *Stream[T]) WaitExhausted(ctx context.Context) error {
	return s.out.WaitExhausted(ctx)
}

// Err returns the feeder failure cause, or nil.
func (s *Stream[T]) Err() error {
	return s.out.Err()
}
