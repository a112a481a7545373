package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("item-%04d", i)
	}
	return out
}

func TestPartitionMutuallyExclusiveControls(t *testing.T) {
	_, err := Partition(items(10), 2, 5, 1000)
	require.Error(t, err)
}

func TestPartitionEmpty(t *testing.T) {
	plan, err := Partition(nil, 0, 0, 1000)
	require.NoError(t, err)
	assert.Nil(t, plan)
}

func TestPartitionImplicitBound(t *testing.T) {
	// At or under the bound the list stays whole.
	plan, err := Partition(items(1000), 0, 0, 1000)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Len(t, plan[0], 1000)

	// Over the bound it splits by the bound.
	plan, err = Partition(items(1001), 0, 0, 1000)
	require.NoError(t, err)
	require.Len(t, plan, 2)
}

func TestPartitionBySize(t *testing.T) {
	// 2500 items at 1000 per part: three parts, rebalanced so
	// memberships differ by at most one (the first parts run short).
	plan, err := Partition(items(2500), 0, 1000, 1000)
	require.NoError(t, err)
	require.Len(t, plan, 3)
	assert.Len(t, plan[0], 833)
	assert.Len(t, plan[1], 833)
	assert.Len(t, plan[2], 834)
}

func TestPartitionByParts(t *testing.T) {
	plan, err := Partition(items(10), 3, 0, 1000)
	require.NoError(t, err)
	require.Len(t, plan, 3)
	assert.Len(t, plan[0], 3)
	assert.Len(t, plan[1], 3)
	assert.Len(t, plan[2], 4)
}

func TestPartitionMorePartsThanItems(t *testing.T) {
	plan, err := Partition(items(2), 5, 0, 1000)
	require.NoError(t, err)
	assert.Len(t, plan, 2)
}

// Every part's size is floor(N/K) or ceil(N/K), sizes sum to N exactly,
// and concatenating the parts restores the input order.
func TestPartitionBalanceProperty(t *testing.T) {
	cases := []struct{ n, parts int }{
		{1, 1}, {7, 3}, {100, 7}, {2500, 3}, {999, 10}, {1000, 1},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d items %d parts", tc.n, tc.parts), func(t *testing.T) {
			in := items(tc.n)
			plan, err := Partition(in, tc.parts, 0, 0)
			require.NoError(t, err)

			floor := tc.n / len(plan)
			ceil := (tc.n + len(plan) - 1) / len(plan)
			total := 0
			var flat []string
			for _, part := range plan {
				assert.GreaterOrEqual(t, len(part), floor)
				assert.LessOrEqual(t, len(part), ceil)
				total += len(part)
				flat = append(flat, part...)
			}
			assert.Equal(t, tc.n, total)
			assert.Equal(t, in, flat)
		})
	}
}

func TestListItems(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"b-item", "a-item", ".hidden"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, name), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray.zip"), []byte("x"), 0o644))

	got, err := ListItems(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"a-item", "b-item"}, got)
}
