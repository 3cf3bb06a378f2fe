package streamq

import (
	"context"
	"io"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Merge combines several streams into a single stage (fan-in). Each
// upstream is pumped by its own goroutine into the merged stage's
// queue, so the relative order across upstreams is non-deterministic,
// while the items of any one upstream keep their order. Contending
// pumps are served by the queue in the order they began waiting. The
// merged stage closes when every upstream is exhausted, or closes with
// the first pump failure.
//
// The merged stage inherits capacity and logger from the first stream
// and starts immediately iff all inputs are started.
func Merge[T any](streams ...*Stream[T]) *Stream[T] {
	if len(streams) == 0 {
		return FromSlice[T](nil)
	}

	first := streams[0]
	m := newStage[T](config{
		capacity: first.capacity,
		logger:   first.log,
		name:     first.name + ".merge",
	})
	m.feedFn = func() {
		var g errgroup.Group
		for _, up := range streams {
			g.Go(func() error {
				ctx := context.Background()
				for {
					v, err := up.Next(ctx)
					if err == io.EOF {
						return nil
					}
					if err != nil {
						return err
					}
					if err := m.out.Put(ctx, v); err != nil {
						return err
					}
				}
			})
		}
		if err := g.Wait(); err != nil {
			m.log.Warn("merge stage failed",
				zap.String("stage", m.name),
				zap.Error(err))
			m.out.CloseWithError(err)
			return
		}
		m.out.Close()
	}

	allStarted := true
	for _, s := range streams {
		if !s.Started() {
			allStarted = false
			break
		}
	}
	if allStarted {
		m.Start()
	}
	return m
}
