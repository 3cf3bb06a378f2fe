package adapter

import (
	"context"
	"io"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/semaphore"
)

func TestFunc(t *testing.T) {
	fn := Func(strconv.Atoi)

	v, err := fn(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	_, err = fn(context.Background(), "nope")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = fn(ctx, "42")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPull_IdenticalItemsIdenticalOrder(t *testing.T) {
	items := []int{3, 1, 4, 1, 5}
	var idx int
	src := Pull(func() (int, bool) {
		if idx >= len(items) {
			return 0, false
		}
		v := items[idx]
		idx++
		return v, true
	})

	ctx := context.Background()
	var got []int
	for {
		v, err := src(ctx)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, v)
	}
	assert.Equal(t, items, got)

	// The source stays terminal once drained.
	_, err := src(ctx)
	assert.Equal(t, io.EOF, err)
}

func TestPull_ChecksContextPerResumption(t *testing.T) {
	src := Pull(func() (int, bool) { return 1, true })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := src(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBounded_CapsConcurrentInvocations(t *testing.T) {
	const limit = 2
	sem := semaphore.NewWeighted(limit)

	var active, peak atomic.Int64
	fn := Bounded(func(v int) (int, error) {
		n := active.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		active.Add(-1)
		return v, nil
	}, sem)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fn(context.Background(), i)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int64(limit))
}

func TestBounded_AcquireRespectsContext(t *testing.T) {
	sem := semaphore.NewWeighted(1)
	require.NoError(t, sem.Acquire(context.Background(), 1)) // hold the only slot

	fn := Bounded(func(v int) (int, error) { return v, nil }, sem)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := fn(ctx, 1)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBoundedPull(t *testing.T) {
	sem := semaphore.NewWeighted(1)
	var idx int
	src := BoundedPull(func() (int, bool) {
		idx++
		return idx, idx <= 3
	}, sem)

	ctx := context.Background()
	var got []int
	for {
		v, err := src(ctx)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, v)
	}
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestNilArgumentsPanic(t *testing.T) {
	sem := semaphore.NewWeighted(1)
	assert.Panics(t, func() { Func[int, int](nil) })
	assert.Panics(t, func() { Bounded[int, int](nil, sem) })
	assert.Panics(t, func() { Bounded(func(int) (int, error) { return 0, nil }, nil) })
	assert.Panics(t, func() { Pull[int](nil) })
	assert.Panics(t, func() { BoundedPull[int](nil, sem) })
	assert.Panics(t, func() { BoundedPull(func() (int, bool) { return 0, false }, nil) })
}
