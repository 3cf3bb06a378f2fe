// Package streamq provides composable asynchronous pipelines built on
// closeable, capacity-bounded queues.
//
// # Streams
//
// A [Stream] is one pipeline stage: it owns a [cqueue.Queue] and a
// feeder goroutine that pulls items from an upstream [Source] into the
// queue, closing it when the source is drained. Create streams with
// [NewStream], [FromSlice], [FromChan], [FromSeq], or [FromFunc]:
//
//	s := streamq.FromSlice([]int{1, 2, 3, 4})
//	doubled := streamq.Map(s, func(ctx context.Context, v int) (int, error) {
//	    return v * 2, nil
//	})
//	out, err := doubled.Gather(ctx) // [2 4 6 8]
//
// Every operator — [Stream.Filter], [Stream.Skip], [Stream.Peek],
// [Map], [FlatMap], [FlatMapSeq], [Flatten], [Merge] — constructs a
// brand-new stream with its own queue and feeder, never mutating its
// parent. A chain of k operators therefore runs as k concurrently
// scheduled stages. A full queue stalls its feeder's put, which stalls
// that feeder's pulls, propagating backpressure backward through the
// chain; bound the buffers with [WithCapacity].
//
// Consume a stream with [Stream.Next] (io.EOF at the end),
// [Stream.Seq] (range-over-func), or [Stream.Gather]/[Collect]
// (materialize everything). Streams are single-consumer and
// non-restartable: once exhausted, Gather returns an empty slice.
//
// # End of stream vs. failure
//
// A feeder that drains its source closes the stage's queue; consumers
// see a clean end of stream. A feeder whose source or transform fails
// closes the queue with that cause instead, and consumers observe the
// failure from [Stream.Next] or [Stream.Gather] rather than stalling
// forever. [Stream.Err] reports the cause after the fact.
//
// # Queues
//
// The underlying primitive lives in
// [github.com/baxromumarov/streamq/cqueue]: a queue with an explicit
// open → closed → exhausted lifecycle, per-item acknowledgment, FIFO
// waiter service, and priority- and stack-ordered variants. It is
// usable on its own wherever "no more data" must propagate through
// concurrent producers and consumers without losing items.
//
// # Adapters
//
// The [github.com/baxromumarov/streamq/adapter] subpackage lifts plain
// synchronous callables and pull iterators into the context-aware
// forms the operators expect, optionally bounding concurrent blocking
// work with a weighted semaphore.
//
// # Observability
//
// Pass [WithLogger] to log feeder lifecycle events; stages derived
// from a stream inherit its logger and extend its [WithName] name.
package streamq
