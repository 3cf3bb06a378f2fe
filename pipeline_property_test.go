package streamq

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// The concurrent pipeline must be observationally equivalent to a
// plain sequential application of the same transforms.
func TestProperty_ChainMatchesSequentialReference(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		input := rapid.SliceOfN(rapid.IntRange(-1000, 1000), 0, 200).Draw(rt, "input")
		mul := rapid.IntRange(-5, 5).Draw(rt, "mul")
		mod := rapid.IntRange(2, 7).Draw(rt, "mod")
		repeat := rapid.IntRange(0, 3).Draw(rt, "repeat")
		capacity := rapid.IntRange(0, 4).Draw(rt, "capacity")

		// Reference: sequential map → filter → flatMap.
		var want []int
		for _, v := range input {
			m := v * mul
			if m%mod != 0 {
				continue
			}
			for range repeat {
				want = append(want, m)
			}
		}

		s := FromSlice(input, WithCapacity(capacity))
		mapped := Map(s, func(_ context.Context, v int) (int, error) {
			return v * mul, nil
		})
		filtered := mapped.Filter(func(v int) bool { return v%mod == 0 })
		expanded := FlatMap(filtered, func(_ context.Context, v int) ([]int, error) {
			out := make([]int, repeat)
			for i := range out {
				out[i] = v
			}
			return out, nil
		})

		got, err := expanded.Gather(context.Background())
		require.NoError(rt, err)
		require.Equal(rt, len(want), len(got))
		for i := range want {
			require.Equal(rt, want[i], got[i])
		}
	})
}

// Flatten must preserve both inter- and intra-slice order for any
// input shape.
func TestProperty_FlattenPreservesOrder(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		input := rapid.SliceOfN(
			rapid.SliceOfN(rapid.Int(), 0, 10), 0, 30,
		).Draw(rt, "input")

		var want []int
		for _, chunk := range input {
			want = append(want, chunk...)
		}

		got, err := Flatten(FromSlice(input)).Gather(context.Background())
		require.NoError(rt, err)
		require.Equal(rt, len(want), len(got))
		for i := range want {
			require.Equal(rt, want[i], got[i])
		}
	})
}
