package digests

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestDigestMapQuantile(t *testing.T) {
	t.Parallel()

	dm := NewDigestMap()
	_, ok := dm.Quantile("q1", 0.5)
	require.False(t, ok)

	var g errgroup.Group
	for worker := range 4 {
		g.Go(func() error {
			for i := 1; i <= 250; i++ {
				if err := dm.Add("q1", float64(worker*250+i)); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	median, ok := dm.Quantile("q1", 0.5)
	require.True(t, ok)
	require.InDelta(t, 500, median, 10)

	p90, ok := dm.Quantile("q1", 0.9)
	require.True(t, ok)
	require.InDelta(t, 900, p90, 10)

	dm.Delete("q1")
	_, ok = dm.Quantile("q1", 0.5)
	require.False(t, ok)
}
