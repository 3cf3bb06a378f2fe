package streamq

import (
	"context"
	"errors"
	"io"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	ctx := context.Background()
	a := FromSlice([]int{1, 3, 5})
	b := FromSlice([]int{2, 4, 6})

	got, err := Merge(a, b).Gather(ctx)
	require.NoError(t, err)

	sort.Ints(got)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, got, "no item is lost or duplicated")
}

func TestMerge_Empty(t *testing.T) {
	got, err := Merge[int]().Gather(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMerge_SingleUpstreamKeepsOrder(t *testing.T) {
	got, err := Merge(FromSlice([]int{1, 2, 3})).Gather(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestMerge_PropagatesUpstreamFailure(t *testing.T) {
	cause := errors.New("upstream down")
	var n int
	bad := NewStream(func(ctx context.Context) (int, error) {
		n++
		if n > 1 {
			return 0, cause
		}
		return 0, nil
	})
	good := FromSlice([]int{1, 2})

	_, err := Merge(bad, good).Gather(context.Background())
	assert.ErrorIs(t, err, cause)
}

func TestMerge_InheritsManualStart(t *testing.T) {
	a := FromSlice([]int{1}, WithManualStart())
	b := FromSlice([]int{2})
	m := Merge(a, b)
	assert.False(t, m.Started())

	require.NoError(t, a.Start())
	require.NoError(t, m.Start())

	got, err := m.Gather(context.Background())
	require.NoError(t, err)
	sort.Ints(got)
	assert.Equal(t, []int{1, 2}, got)
}

func TestMerge_ManyContendingProducers(t *testing.T) {
	ctx := context.Background()

	const perStream = 50
	streams := make([]*Stream[int], 4)
	for i := range streams {
		base := i * perStream
		var idx int
		streams[i] = NewStream(func(ctx context.Context) (int, error) {
			if idx >= perStream {
				return 0, io.EOF
			}
			v := base + idx
			idx++
			return v, nil
		}, WithCapacity(2))
	}

	got, err := Merge(streams...).Gather(ctx)
	require.NoError(t, err)
	require.Len(t, got, 4*perStream)

	sort.Ints(got)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}
